package handler

import (
	"net/http"
	"strconv"

	"github.com/askaris/askaris/internal/auth"
	"github.com/askaris/askaris/internal/database"
	"github.com/askaris/askaris/internal/database/types"
	"github.com/askaris/askaris/internal/database/types/enum"
	"github.com/askaris/askaris/internal/rest/convert"
	authmw "github.com/askaris/askaris/internal/rest/middleware/auth"
	restTypes "github.com/askaris/askaris/internal/rest/types"
	"github.com/bytedance/sonic"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// DefaultQuestionLimit caps unpaginated question listings.
const DefaultQuestionLimit = 50

// QuestionHandler handles question-related REST endpoints.
type QuestionHandler struct {
	db     database.Client
	guard  *auth.Guard
	logger *zap.Logger
}

// NewQuestionHandler creates a new question handler.
func NewQuestionHandler(db database.Client, guard *auth.Guard, logger *zap.Logger) *QuestionHandler {
	return &QuestionHandler{
		db:     db,
		guard:  guard,
		logger: logger.Named("question_handler"),
	}
}

// CreateQuestion posts a question as the authenticated user.
func (h *QuestionHandler) CreateQuestion(w http.ResponseWriter, req bunrouter.Request) error {
	actorID, ok := authmw.UserID(req.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil
	}

	var body restTypes.CreateQuestionRequest
	if err := sonic.ConfigDefault.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return nil
	}

	if body.Title == "" || body.Body == "" {
		http.Error(w, "Title and body are required", http.StatusBadRequest)
		return nil
	}

	err := h.guard.Require(req.Context(), actorID,
		auth.Requirement{Action: enum.ActionCreate, Subject: enum.SubjectQuestion})
	if err != nil {
		return writeError(w, h.logger, err)
	}

	question := &types.Question{
		UserID: actorID,
		Title:  body.Title,
		Body:   body.Body,
	}

	if err := h.db.Model().Question().CreateQuestion(req.Context(), question); err != nil {
		return writeError(w, h.logger, err)
	}

	w.WriteHeader(http.StatusCreated)
	return bunrouter.JSON(w, convert.Question(question))
}

// GetQuestions lists recent questions.
func (h *QuestionHandler) GetQuestions(w http.ResponseWriter, req bunrouter.Request) error {
	actorID, ok := authmw.UserID(req.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil
	}

	err := h.guard.Require(req.Context(), actorID,
		auth.Requirement{Action: enum.ActionRead, Subject: enum.SubjectQuestion})
	if err != nil {
		return writeError(w, h.logger, err)
	}

	questions, err := h.db.Model().Question().GetQuestions(req.Context(), DefaultQuestionLimit)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	result := make([]restTypes.Question, 0, len(questions))
	for _, question := range questions {
		result = append(result, convert.Question(question))
	}

	return bunrouter.JSON(w, result)
}

// GetQuestion returns a single question by ID.
func (h *QuestionHandler) GetQuestion(w http.ResponseWriter, req bunrouter.Request) error {
	actorID, ok := authmw.UserID(req.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil
	}

	questionID, err := strconv.ParseInt(req.Param("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid question ID", http.StatusBadRequest)
		return nil
	}

	err = h.guard.Require(req.Context(), actorID,
		auth.Requirement{Action: enum.ActionRead, Subject: enum.SubjectQuestion})
	if err != nil {
		return writeError(w, h.logger, err)
	}

	question, err := h.db.Model().Question().GetQuestionByID(req.Context(), questionID)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return bunrouter.JSON(w, convert.Question(question))
}

// GetAnswers lists the answers of a question.
func (h *QuestionHandler) GetAnswers(w http.ResponseWriter, req bunrouter.Request) error {
	actorID, ok := authmw.UserID(req.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil
	}

	questionID, err := strconv.ParseInt(req.Param("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid question ID", http.StatusBadRequest)
		return nil
	}

	err = h.guard.Require(req.Context(), actorID,
		auth.Requirement{Action: enum.ActionRead, Subject: enum.SubjectAnswer})
	if err != nil {
		return writeError(w, h.logger, err)
	}

	if _, err := h.db.Model().Question().GetQuestionByID(req.Context(), questionID); err != nil {
		return writeError(w, h.logger, err)
	}

	answers, err := h.db.Model().Answer().GetAnswersByQuestion(req.Context(), questionID)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	result := make([]restTypes.Answer, 0, len(answers))
	for _, answer := range answers {
		result = append(result, convert.Answer(answer))
	}

	return bunrouter.JSON(w, result)
}

// DeleteQuestion removes a question and its dependent rows.
func (h *QuestionHandler) DeleteQuestion(w http.ResponseWriter, req bunrouter.Request) error {
	actorID, ok := authmw.UserID(req.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil
	}

	questionID, err := strconv.ParseInt(req.Param("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid question ID", http.StatusBadRequest)
		return nil
	}

	err = h.guard.RequireSubject(req.Context(), actorID, enum.ActionDelete, enum.SubjectQuestion, questionID)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	if err := h.db.Model().Question().DeleteQuestion(req.Context(), questionID); err != nil {
		return writeError(w, h.logger, err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
