package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/mentorhub/mentor-portal-api/api"
	"github.com/mentorhub/mentor-portal-api/config"
	"github.com/mentorhub/mentor-portal-api/models"
	"github.com/mentorhub/mentor-portal-api/session"
)

// SessionHandler exposes the caller's resolved role and display name
type SessionHandler struct {
	Resolver *session.Resolver
}

type sessionResponse struct {
	ID   string      `json:"_id"`
	Role models.Role `json:"role"`
	Name string      `json:"name"`
}

// SessionHandler returns the role and name for the authenticated caller
func (h SessionHandler) SessionHandler(w http.ResponseWriter, r *http.Request) {
	accountID, err := api.AuthenticatedID(r)
	if err != nil {
		config.ErrorStatus("failed to identify caller", http.StatusUnauthorized, w, err)
		return
	}

	sess, err := h.Resolver.Resolve(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, session.ErrRoleNotFound) {
			config.ErrorStatus("no role assigned to account", http.StatusUnauthorized, w, err)
			return
		}
		config.ErrorStatus("directory unavailable", http.StatusServiceUnavailable, w, err)
		return
	}

	b, err := json.Marshal(sessionResponse{ID: accountID.Hex(), Role: sess.Role, Name: sess.Name})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	zap.S().Debugw("session resolved", "accountId", accountID.Hex(), "role", sess.Role)
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
