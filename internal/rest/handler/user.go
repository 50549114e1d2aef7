package handler

import (
	"net/http"
	"strconv"

	"github.com/askaris/askaris/internal/auth"
	"github.com/askaris/askaris/internal/database"
	"github.com/askaris/askaris/internal/database/types/enum"
	"github.com/askaris/askaris/internal/rest/convert"
	authmw "github.com/askaris/askaris/internal/rest/middleware/auth"
	restTypes "github.com/askaris/askaris/internal/rest/types"
	"github.com/bytedance/sonic"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// UserHandler handles user-related REST endpoints.
type UserHandler struct {
	db     database.Client
	guard  *auth.Guard
	logger *zap.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(db database.Client, guard *auth.Guard, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		db:     db,
		guard:  guard,
		logger: logger.Named("user_handler"),
	}
}

// GetUser returns a user's public profile, including the reputation counter.
func (h *UserHandler) GetUser(w http.ResponseWriter, req bunrouter.Request) error {
	actorID, ok := authmw.UserID(req.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil
	}

	userID, err := strconv.ParseInt(req.Param("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return nil
	}

	err = h.guard.Require(req.Context(), actorID,
		auth.Requirement{Action: enum.ActionRead, Subject: enum.SubjectUser})
	if err != nil {
		return writeError(w, h.logger, err)
	}

	user, err := h.db.Model().User().GetUserByID(req.Context(), userID)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return bunrouter.JSON(w, convert.User(user))
}

// UpdateUser renames a user. Non-admins may only rename themselves.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, req bunrouter.Request) error {
	actorID, ok := authmw.UserID(req.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil
	}

	userID, err := strconv.ParseInt(req.Param("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return nil
	}

	var body restTypes.UpdateUserRequest
	if err := sonic.ConfigDefault.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return nil
	}

	if body.Name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return nil
	}

	err = h.guard.RequireSubject(req.Context(), actorID, enum.ActionUpdate, enum.SubjectUser, userID)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	user, err := h.db.Model().User().UpdateUserName(req.Context(), userID, body.Name)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return bunrouter.JSON(w, convert.User(user))
}

// DeleteUser removes a user account. Only admins pass the guard here;
// dependent content rows go with the account via cascading deletes.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, req bunrouter.Request) error {
	actorID, ok := authmw.UserID(req.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil
	}

	userID, err := strconv.ParseInt(req.Param("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return nil
	}

	err = h.guard.RequireSubject(req.Context(), actorID, enum.ActionDelete, enum.SubjectUser, userID)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	if err := h.db.Model().User().DeleteUser(req.Context(), userID); err != nil {
		return writeError(w, h.logger, err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
