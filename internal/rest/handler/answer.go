package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/askaris/askaris/internal/auth"
	"github.com/askaris/askaris/internal/database"
	"github.com/askaris/askaris/internal/database/dbretry"
	"github.com/askaris/askaris/internal/database/types"
	"github.com/askaris/askaris/internal/database/types/enum"
	"github.com/askaris/askaris/internal/rest/convert"
	authmw "github.com/askaris/askaris/internal/rest/middleware/auth"
	restTypes "github.com/askaris/askaris/internal/rest/types"
	"github.com/bytedance/sonic"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// AnswerHandler handles answer-related REST endpoints.
type AnswerHandler struct {
	db     database.Client
	guard  *auth.Guard
	logger *zap.Logger
}

// NewAnswerHandler creates a new answer handler.
func NewAnswerHandler(db database.Client, guard *auth.Guard, logger *zap.Logger) *AnswerHandler {
	return &AnswerHandler{
		db:     db,
		guard:  guard,
		logger: logger.Named("answer_handler"),
	}
}

// CreateAnswer posts an answer as the authenticated user.
func (h *AnswerHandler) CreateAnswer(w http.ResponseWriter, req bunrouter.Request) error {
	actorID, ok := authmw.UserID(req.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil
	}

	var body restTypes.CreateAnswerRequest
	if err := sonic.ConfigDefault.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return nil
	}

	if body.Body == "" {
		http.Error(w, "Answer body is required", http.StatusBadRequest)
		return nil
	}

	err := h.guard.Require(req.Context(), actorID,
		auth.Requirement{Action: enum.ActionCreate, Subject: enum.SubjectAnswer})
	if err != nil {
		return writeError(w, h.logger, err)
	}

	// The question must exist before the insert so the caller gets a 404
	// instead of a raw foreign key violation.
	if _, err := h.db.Model().Question().GetQuestionByID(req.Context(), body.QuestionID); err != nil {
		return writeError(w, h.logger, err)
	}

	answer := &types.Answer{
		QuestionID: body.QuestionID,
		UserID:     actorID,
		Body:       body.Body,
	}

	if err := h.db.Model().Answer().CreateAnswer(req.Context(), answer); err != nil {
		return writeError(w, h.logger, err)
	}

	w.WriteHeader(http.StatusCreated)
	return bunrouter.JSON(w, convert.Answer(answer))
}

// SetAccepted marks or unmarks an answer as the accepted one for its question.
// The authenticated user acts as the acceptor; ownership and field-scope
// checks run against the persisted answer before the workflow starts.
func (h *AnswerHandler) SetAccepted(w http.ResponseWriter, req bunrouter.Request) error {
	actorID, ok := authmw.UserID(req.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil
	}

	answerID, err := strconv.ParseInt(req.Param("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid answer ID", http.StatusBadRequest)
		return nil
	}

	var body restTypes.SetAcceptedRequest
	if err := sonic.ConfigDefault.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return nil
	}

	err = h.guard.RequireSubjectFields(req.Context(), actorID,
		enum.ActionUpdate, enum.SubjectAnswer, answerID, []string{"is_accepted"})
	if err != nil {
		return writeError(w, h.logger, err)
	}

	answer, err := dbretry.Operation(req.Context(), func(ctx context.Context) (*types.Answer, error) {
		return h.db.Service().Answer().SetAccepted(ctx, answerID, actorID, body.IsAccepted)
	})
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return bunrouter.JSON(w, convert.Answer(answer))
}

// DeleteAnswer removes an answer.
func (h *AnswerHandler) DeleteAnswer(w http.ResponseWriter, req bunrouter.Request) error {
	actorID, ok := authmw.UserID(req.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil
	}

	answerID, err := strconv.ParseInt(req.Param("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid answer ID", http.StatusBadRequest)
		return nil
	}

	err = h.guard.RequireSubject(req.Context(), actorID, enum.ActionDelete, enum.SubjectAnswer, answerID)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	if err := h.db.Model().Answer().DeleteAnswer(req.Context(), answerID); err != nil {
		return writeError(w, h.logger, err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
