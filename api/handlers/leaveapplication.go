package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/mentorhub/mentor-portal-api/api"
	"github.com/mentorhub/mentor-portal-api/config"
	"github.com/mentorhub/mentor-portal-api/databases"
	"github.com/mentorhub/mentor-portal-api/directory"
	"github.com/mentorhub/mentor-portal-api/models"
	templates "github.com/mentorhub/mentor-portal-api/templates/html"
)

// LeaveApplication exposes the leave application endpoints
type LeaveApplication struct {
	DB    databases.LeaveApplicationDatabase
	SDB   databases.MenteeDatabase
	Guard *directory.Guard
}

type createLeaveRequest struct {
	MenteeID  string `json:"menteeId" validate:"required"`
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"required,datetime=2006-01-02"`
	Reason    string `json:"reason" validate:"required,min=10"`
}

type updateLeaveStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CreateLeaveApplicationHandler files a new leave application. Whatever status
// the client sends is ignored: applications always start out pending, and the
// applied-on date is stamped here.
func (l LeaveApplication) CreateLeaveApplicationHandler(w http.ResponseWriter, r *http.Request) {
	var req createLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("invalid request body", http.StatusBadRequest, w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		config.ErrorStatus("validation failed", http.StatusBadRequest, w, err)
		return
	}
	// dates are zero-padded YYYY-MM-DD, so string order is chronological order
	if req.EndDate < req.StartDate {
		config.ErrorStatus("endDate must not be before startDate", http.StatusBadRequest, w, errors.New("reversed date range"))
		return
	}

	menteeID, err := primitive.ObjectIDFromHex(req.MenteeID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from hex", http.StatusBadRequest, w, err)
		return
	}

	application := models.LeaveApplication{
		ID:        primitive.NewObjectID(),
		MenteeID:  menteeID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Reason:    req.Reason,
		Status:    models.LeavePending,
		AppliedOn: time.Now().UTC().Format("2006-01-02"),
	}

	if _, err := l.DB.InsertOne(r.Context(), application); err != nil {
		config.ErrorStatus("failed to create leave application", http.StatusInternalServerError, w, err)
		return
	}

	zap.S().Infow("leave application filed", "leaveId", application.ID.Hex(), "menteeId", menteeID.Hex())
	b, err := json.Marshal(application)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// LeaveApplicationsByMenteeIDHandler lists a mentee's own applications
func (l LeaveApplication) LeaveApplicationsByMenteeIDHandler(w http.ResponseWriter, r *http.Request) {
	menteeID := mux.Vars(r)["mentee_id"]

	sID, err := primitive.ObjectIDFromHex(menteeID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from hex", http.StatusBadRequest, w, err)
		return
	}

	applications, err := l.DB.Find(r.Context(), bson.M{"menteeId": sID})
	if err != nil {
		config.ErrorStatus("failed to get leave applications", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(applications)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// LeaveApplicationsByMentorIDHandler lists the applications of every mentee
// assigned to the mentor, resolved by mentorId on the mentee side
func (l LeaveApplication) LeaveApplicationsByMentorIDHandler(w http.ResponseWriter, r *http.Request) {
	mentorID := mux.Vars(r)["mentor_id"]

	mID, err := primitive.ObjectIDFromHex(mentorID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from hex", http.StatusBadRequest, w, err)
		return
	}

	mentees, err := l.SDB.Find(r.Context(), bson.M{"mentorId": mID})
	if err != nil {
		config.ErrorStatus("failed to get mentees by mentor ID", http.StatusNotFound, w, err)
		return
	}

	menteeIDs := make([]primitive.ObjectID, 0, len(mentees))
	for _, s := range mentees {
		menteeIDs = append(menteeIDs, s.ID)
	}

	applications, err := l.DB.Find(r.Context(), bson.M{"menteeId": bson.M{"$in": menteeIDs}})
	if err != nil {
		config.ErrorStatus("failed to get leave applications", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(applications)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// UpdateLeaveStatusHandler approves or rejects a pending application and
// notifies the mentee by email
func (l LeaveApplication) UpdateLeaveStatusHandler(w http.ResponseWriter, r *http.Request) {
	leaveID := mux.Vars(r)["leave_id"]

	lID, err := primitive.ObjectIDFromHex(leaveID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from hex", http.StatusBadRequest, w, err)
		return
	}

	var req updateLeaveStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("invalid request body", http.StatusBadRequest, w, err)
		return
	}

	application, err := l.Guard.SetLeaveStatus(r.Context(), lID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, directory.ErrInvalidLeaveStatus):
			config.ErrorStatus("status must be approved or rejected", http.StatusBadRequest, w, err)
		case errors.Is(err, directory.ErrLeaveNotPending):
			config.ErrorStatus("leave application already decided", http.StatusConflict, w, err)
		case errors.Is(err, mongo.ErrNoDocuments):
			config.ErrorStatus("leave application not found", http.StatusNotFound, w, err)
		default:
			config.ErrorStatus("failed to update leave status", http.StatusInternalServerError, w, err)
		}
		return
	}

	go l.sendDecisionEmail(application)

	zap.S().Infow("leave application decided", "leaveId", lID.Hex(), "status", application.Status)
	b, err := json.Marshal(application)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// sendDecisionEmail tells the mentee their application was decided. Email
// failures are logged only; the decision already happened.
func (l LeaveApplication) sendDecisionEmail(application *models.LeaveApplication) {
	ctx, cancel := api.WithQueryTimeout(context.Background())
	defer cancel()

	mentee, err := l.SDB.FindOne(ctx, bson.M{"_id": application.MenteeID})
	if err != nil || mentee.Email == "" {
		zap.S().Warnw("could not load mentee for decision email", "menteeId", application.MenteeID.Hex(), "error", err)
		return
	}

	subject := "Leave Application " + application.Status
	body := "Hi " + mentee.Name + ",\n\nYour leave application for " +
		application.StartDate + " to " + application.EndDate + " has been " + application.Status + ".\n\nMentorHub"

	from := mail.NewEmail("MentorHub", os.Getenv("FROM_EMAIL"))
	to := mail.NewEmail(mentee.Name, mentee.Email)
	msg := mail.NewSingleEmail(from, subject, to, body, templates.RenderGenericEmail(subject, body))
	client := sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY"))
	if _, err := client.Send(msg); err != nil {
		zap.S().Errorw("failed to send leave decision email", "leaveId", application.ID.Hex(), "error", err)
	}
}
