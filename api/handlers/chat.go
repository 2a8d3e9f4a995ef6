package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/mentorhub/mentor-portal-api/api"
	"github.com/mentorhub/mentor-portal-api/config"
	"github.com/mentorhub/mentor-portal-api/databases"
	"github.com/mentorhub/mentor-portal-api/models"
	"github.com/mentorhub/mentor-portal-api/session"
)

// Chat exposes the chat listing and message endpoints
type Chat struct {
	CDB      databases.ChatDatabase
	MsgDB    databases.MessageDatabase
	Resolver *session.Resolver
	Hub      *Hub
}

type sendMessageRequest struct {
	Text      string `json:"text" validate:"required"`
	Timestamp string `json:"timestamp"`
}

// ChatsHandler lists the chats visible to the caller. Mentors see every chat
// they participate in plus every group chat; mentees only see chats they
// participate in. Messages are embedded in the listing so the client can
// render previews without a second round trip.
func (c Chat) ChatsHandler(w http.ResponseWriter, r *http.Request) {
	accountID, err := api.AuthenticatedID(r)
	if err != nil {
		config.ErrorStatus("failed to identify caller", http.StatusUnauthorized, w, err)
		return
	}

	sess, err := c.Resolver.Resolve(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, session.ErrRoleNotFound) {
			config.ErrorStatus("no role assigned to account", http.StatusUnauthorized, w, err)
			return
		}
		config.ErrorStatus("directory unavailable", http.StatusServiceUnavailable, w, err)
		return
	}

	var filter bson.M
	switch sess.Role {
	case models.RoleMentor:
		filter = bson.M{"$or": []bson.M{
			{"participants": accountID},
			{"type": models.ChatGroup},
		}}
	default:
		filter = bson.M{"participants": accountID}
	}

	chats, err := c.CDB.Find(r.Context(), filter)
	if err != nil {
		config.ErrorStatus("failed to get chats", http.StatusNotFound, w, err)
		return
	}

	for i := range chats {
		messages, err := c.MsgDB.FindByChatID(r.Context(), chats[i].ID)
		if err != nil {
			zap.S().Warnw("failed to load chat messages", "chatId", chats[i].ID.Hex(), "error", err)
			continue
		}
		chats[i].Messages = messages
	}

	b, err := json.Marshal(chats)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// MessagesByChatIDHandler returns a chat's messages ordered by timestamp
func (c Chat) MessagesByChatIDHandler(w http.ResponseWriter, r *http.Request) {
	chatID := mux.Vars(r)["chat_id"]

	cID, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from hex", http.StatusBadRequest, w, err)
		return
	}

	if _, err := c.visibleChat(r, cID); err != nil {
		config.ErrorStatus("chat not found", http.StatusNotFound, w, err)
		return
	}

	messages, err := c.MsgDB.FindByChatID(r.Context(), cID)
	if err != nil {
		config.ErrorStatus("failed to get messages", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(messages)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// SendMessageHandler persists a message and pushes it to every subscriber of
// the chat, the sender included. The timestamp comes from the sending client
// when provided; the stored order is whatever those clocks said.
func (c Chat) SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	chatID := mux.Vars(r)["chat_id"]

	cID, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from hex", http.StatusBadRequest, w, err)
		return
	}

	accountID, err := api.AuthenticatedID(r)
	if err != nil {
		config.ErrorStatus("failed to identify caller", http.StatusUnauthorized, w, err)
		return
	}

	if _, err := c.visibleChat(r, cID); err != nil {
		config.ErrorStatus("chat not found", http.StatusNotFound, w, err)
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("invalid request body", http.StatusBadRequest, w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		config.ErrorStatus("validation failed", http.StatusBadRequest, w, err)
		return
	}

	ts := time.Now()
	if req.Timestamp != "" {
		parsed, err := time.Parse(time.RFC3339, req.Timestamp)
		if err != nil {
			config.ErrorStatus("timestamp must be RFC3339", http.StatusBadRequest, w, err)
			return
		}
		ts = parsed
	}

	message := models.Message{
		ID:        primitive.NewObjectID(),
		ChatID:    cID,
		Text:      req.Text,
		Sender:    accountID,
		Timestamp: primitive.NewDateTimeFromTime(ts),
	}

	if _, err := c.MsgDB.InsertOne(r.Context(), message); err != nil {
		config.ErrorStatus("failed to store message", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(message)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}

	// broadcast only after the write; subscribers never see a message that
	// did not make it into the collection
	c.Hub.Broadcast(cID.Hex(), b)

	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// visibleChat loads the chat and checks the caller is allowed to see it,
// applying the same asymmetry as the listing.
func (c Chat) visibleChat(r *http.Request, chatID primitive.ObjectID) (*models.Chat, error) {
	accountID, err := api.AuthenticatedID(r)
	if err != nil {
		return nil, err
	}

	chat, err := c.CDB.FindOne(r.Context(), bson.M{"_id": chatID})
	if err != nil {
		return nil, err
	}

	for _, p := range chat.Participants {
		if p == accountID {
			return chat, nil
		}
	}

	if chat.Type == models.ChatGroup {
		sess, err := c.Resolver.Resolve(r.Context(), accountID)
		if err == nil && sess.Role == models.RoleMentor {
			return chat, nil
		}
	}

	return nil, mongo.ErrNoDocuments
}
