package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/mentorhub/mentor-portal-api/config"
	"github.com/mentorhub/mentor-portal-api/databases"
	"github.com/mentorhub/mentor-portal-api/directory"
)

var validate = validator.New()

// Mentor exposes the mentor directory endpoints
type Mentor struct {
	DB    databases.MentorDatabase
	Guard *directory.Guard
}

type createMentorRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	Department string `json:"department" validate:"required"`
	Phone      string `json:"phone" validate:"omitempty,len=10,numeric"`
}

// MentorsHandler returns every mentor in the directory
func (m Mentor) MentorsHandler(w http.ResponseWriter, r *http.Request) {
	mentors, err := m.DB.Find(r.Context(), bson.M{})
	if err != nil {
		config.ErrorStatus("failed to get mentors", http.StatusNotFound, w, err)
		return
	}
	b, err := json.Marshal(mentors)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// MentorByIDHandler returns a single mentor profile. Mentees hit this to show
// their assigned mentor; a dangling reference comes back as 404 and the client
// renders it as "Unassigned".
func (m Mentor) MentorByIDHandler(w http.ResponseWriter, r *http.Request) {
	mentorID := mux.Vars(r)["mentor_id"]

	mID, err := primitive.ObjectIDFromHex(mentorID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from hex", http.StatusBadRequest, w, err)
		return
	}

	dbResp, err := m.DB.FindOne(r.Context(), bson.M{"_id": mID})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			config.ErrorStatus("mentor not found", http.StatusNotFound, w, err)
			return
		}
		config.ErrorStatus("failed to get mentor by ID", http.StatusInternalServerError, w, err)
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

// CreateMentorHandler provisions a mentor account plus its role document
func (m Mentor) CreateMentorHandler(w http.ResponseWriter, r *http.Request) {
	var req createMentorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("invalid request body", http.StatusBadRequest, w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		config.ErrorStatus("validation failed", http.StatusBadRequest, w, err)
		return
	}

	mentor, err := m.Guard.ProvisionMentor(r.Context(), directory.NewMentor{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Department: req.Department,
		Phone:      req.Phone,
	})
	if err != nil {
		if errors.Is(err, directory.ErrEmailInUse) {
			config.ErrorStatus("email already in use", http.StatusConflict, w, err)
			return
		}
		config.ErrorStatus("failed to create mentor", http.StatusInternalServerError, w, err)
		return
	}

	zap.S().Infow("mentor provisioned", "mentorId", mentor.ID.Hex())
	b, err := json.Marshal(mentor)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// DeleteMentorHandler removes a mentor and its account. Mentees keep their
// mentorId reference on purpose, see the directory guard.
func (m Mentor) DeleteMentorHandler(w http.ResponseWriter, r *http.Request) {
	mentorID := mux.Vars(r)["mentor_id"]

	mID, err := primitive.ObjectIDFromHex(mentorID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from hex", http.StatusBadRequest, w, err)
		return
	}

	if err := m.Guard.DeleteMentor(r.Context(), mID); err != nil {
		config.ErrorStatus("failed to delete mentor", http.StatusInternalServerError, w, err)
		return
	}

	zap.S().Infow("mentor deleted", "mentorId", mID.Hex())
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"deleted": "` + mID.Hex() + `"}`))
}
