package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/mentorhub/mentor-portal-api/config"
	"github.com/mentorhub/mentor-portal-api/databases"
	"github.com/mentorhub/mentor-portal-api/directory"
)

// Mentee exposes the mentee directory endpoints
type Mentee struct {
	DB    databases.MenteeDatabase
	MDB   databases.MentorDatabase
	Guard *directory.Guard
}

type createMenteeRequest struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=8"`
	RollNumber    string `json:"rollNumber" validate:"required"`
	Phone         string `json:"phone" validate:"omitempty,len=10,numeric"`
	ParentContact string `json:"parentContact" validate:"omitempty,len=10,numeric"`
	MentorID      string `json:"mentorId" validate:"required"`
}

type signupRequest struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=8"`
	RollNumber    string `json:"rollNumber" validate:"required"`
	Phone         string `json:"phone" validate:"omitempty,len=10,numeric"`
	ParentContact string `json:"parentContact" validate:"omitempty,len=10,numeric"`
}

type updateAttendanceRequest struct {
	Attendance *int `json:"attendance" validate:"required,min=0,max=100"`
}

// MenteesHandler returns every mentee in the directory
func (m Mentee) MenteesHandler(w http.ResponseWriter, r *http.Request) {
	mentees, err := m.DB.Find(r.Context(), bson.M{})
	if err != nil {
		config.ErrorStatus("failed to get mentees", http.StatusNotFound, w, err)
		return
	}
	b, err := json.Marshal(mentees)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// MenteeByIDHandler returns a single mentee by id
func (m Mentee) MenteeByIDHandler(w http.ResponseWriter, r *http.Request) {
	menteeID := mux.Vars(r)["mentee_id"]

	sID, err := primitive.ObjectIDFromHex(menteeID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from hex", http.StatusBadRequest, w, err)
		return
	}

	dbResp, err := m.DB.FindOne(r.Context(), bson.M{"_id": sID})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			config.ErrorStatus("mentee not found", http.StatusNotFound, w, err)
			return
		}
		config.ErrorStatus("failed to get mentee by ID", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// MenteeByEmailHandler looks a mentee up by email, used by the leave form
func (m Mentee) MenteeByEmailHandler(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		config.ErrorStatus("email query param required", http.StatusBadRequest, w, errors.New("missing email"))
		return
	}

	dbResp, err := m.DB.FindOne(r.Context(), bson.M{"email": email})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			config.ErrorStatus("mentee not found", http.StatusNotFound, w, err)
			return
		}
		config.ErrorStatus("failed to get mentee by email", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// MenteesByMentorIDHandler lists the mentees assigned to a mentor. The query
// goes by the mentee-side mentorId field, not the mentor's denormalized list,
// so a dropped back-reference still shows up here.
func (m Mentee) MenteesByMentorIDHandler(w http.ResponseWriter, r *http.Request) {
	mentorID := mux.Vars(r)["mentor_id"]

	mID, err := primitive.ObjectIDFromHex(mentorID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from hex", http.StatusBadRequest, w, err)
		return
	}

	mentees, err := m.DB.Find(r.Context(), bson.M{"mentorId": mID})
	if err != nil {
		config.ErrorStatus("failed to get mentees by mentor ID", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(mentees)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateMenteeHandler provisions a mentee and links it to its mentor
func (m Mentee) CreateMenteeHandler(w http.ResponseWriter, r *http.Request) {
	var req createMenteeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("invalid request body", http.StatusBadRequest, w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		config.ErrorStatus("validation failed", http.StatusBadRequest, w, err)
		return
	}

	mentorID, err := primitive.ObjectIDFromHex(req.MentorID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from hex", http.StatusBadRequest, w, err)
		return
	}

	mentee, err := m.Guard.ProvisionMentee(r.Context(), directory.NewMentee{
		Name:          req.Name,
		Email:         req.Email,
		Password:      req.Password,
		RollNumber:    req.RollNumber,
		Phone:         req.Phone,
		ParentContact: req.ParentContact,
		MentorID:      mentorID,
	})
	if err != nil {
		if errors.Is(err, directory.ErrEmailInUse) {
			config.ErrorStatus("email already in use", http.StatusConflict, w, err)
			return
		}
		config.ErrorStatus("failed to create mentee", http.StatusInternalServerError, w, err)
		return
	}

	zap.S().Infow("mentee provisioned", "menteeId", mentee.ID.Hex(), "mentorId", mentorID.Hex())
	b, err := json.Marshal(mentee)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// SignupHandler self-registers a mentee with no mentor assigned. Assignment
// happens later through the admin provisioning flow; until then the mentee
// shows up as "Unassigned".
func (m Mentee) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("invalid request body", http.StatusBadRequest, w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		config.ErrorStatus("validation failed", http.StatusBadRequest, w, err)
		return
	}

	mentee, err := m.Guard.ProvisionMentee(r.Context(), directory.NewMentee{
		Name:          req.Name,
		Email:         req.Email,
		Password:      req.Password,
		RollNumber:    req.RollNumber,
		Phone:         req.Phone,
		ParentContact: req.ParentContact,
	})
	if err != nil {
		if errors.Is(err, directory.ErrEmailInUse) {
			config.ErrorStatus("email already in use", http.StatusConflict, w, err)
			return
		}
		config.ErrorStatus("failed to sign up", http.StatusInternalServerError, w, err)
		return
	}

	zap.S().Infow("mentee signed up", "menteeId", mentee.ID.Hex())
	b, err := json.Marshal(mentee)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// UpdateAttendanceHandler sets a mentee's attendance percentage
func (m Mentee) UpdateAttendanceHandler(w http.ResponseWriter, r *http.Request) {
	menteeID := mux.Vars(r)["mentee_id"]

	sID, err := primitive.ObjectIDFromHex(menteeID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from hex", http.StatusBadRequest, w, err)
		return
	}

	var req updateAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("invalid request body", http.StatusBadRequest, w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		config.ErrorStatus("validation failed", http.StatusBadRequest, w, err)
		return
	}

	res, err := m.DB.UpdateOne(r.Context(), bson.M{"_id": sID}, bson.M{"$set": bson.M{"attendance": *req.Attendance}})
	if err != nil {
		config.ErrorStatus("failed to update attendance", http.StatusInternalServerError, w, err)
		return
	}
	if res.MatchedCount == 0 {
		config.ErrorStatus("mentee not found", http.StatusNotFound, w, mongo.ErrNoDocuments)
		return
	}

	zap.S().Infow("attendance updated", "menteeId", sID.Hex(), "attendance", *req.Attendance)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"updated": "` + sID.Hex() + `"}`))
}

// DeleteMenteeHandler removes a mentee, its account and the mentor's
// back-reference
func (m Mentee) DeleteMenteeHandler(w http.ResponseWriter, r *http.Request) {
	menteeID := mux.Vars(r)["mentee_id"]

	sID, err := primitive.ObjectIDFromHex(menteeID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from hex", http.StatusBadRequest, w, err)
		return
	}

	if err := m.Guard.DeleteMentee(r.Context(), sID); err != nil {
		config.ErrorStatus("failed to delete mentee", http.StatusInternalServerError, w, err)
		return
	}

	zap.S().Infow("mentee deleted", "menteeId", sID.Hex())
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"deleted": "` + sID.Hex() + `"}`))
}
