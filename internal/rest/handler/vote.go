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

// VoteHandler handles vote-related REST endpoints.
type VoteHandler struct {
	db     database.Client
	guard  *auth.Guard
	logger *zap.Logger
}

// NewVoteHandler creates a new vote handler.
func NewVoteHandler(db database.Client, guard *auth.Guard, logger *zap.Logger) *VoteHandler {
	return &VoteHandler{
		db:     db,
		guard:  guard,
		logger: logger.Named("vote_handler"),
	}
}

// CreateVote casts a vote for the authenticated user.
func (h *VoteHandler) CreateVote(w http.ResponseWriter, req bunrouter.Request) error {
	actorID, ok := authmw.UserID(req.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil
	}

	var body restTypes.CreateVoteRequest
	if err := sonic.ConfigDefault.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return nil
	}

	err := h.guard.Require(req.Context(), actorID,
		auth.Requirement{Action: enum.ActionCreate, Subject: enum.SubjectVote})
	if err != nil {
		return writeError(w, h.logger, err)
	}

	vote := &types.Vote{
		UserID:     actorID,
		QuestionID: body.QuestionID,
		AnswerID:   body.AnswerID,
		IsUpvoted:  body.IsUpvoted,
	}

	created, err := h.db.Service().Vote().Create(req.Context(), vote)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	w.WriteHeader(http.StatusCreated)
	return bunrouter.JSON(w, convert.Vote(created))
}

// UpdateVote switches the direction of an existing vote.
func (h *VoteHandler) UpdateVote(w http.ResponseWriter, req bunrouter.Request) error {
	actorID, ok := authmw.UserID(req.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil
	}

	voteID, err := strconv.ParseInt(req.Param("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid vote ID", http.StatusBadRequest)
		return nil
	}

	var body restTypes.UpdateVoteRequest
	if err := sonic.ConfigDefault.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return nil
	}

	err = h.guard.RequireSubject(req.Context(), actorID, enum.ActionUpdate, enum.SubjectVote, voteID)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	vote, err := h.db.Service().Vote().Update(req.Context(), voteID, body.IsUpvoted)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return bunrouter.JSON(w, convert.Vote(vote))
}

// DeleteVote retracts an existing vote.
func (h *VoteHandler) DeleteVote(w http.ResponseWriter, req bunrouter.Request) error {
	actorID, ok := authmw.UserID(req.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil
	}

	voteID, err := strconv.ParseInt(req.Param("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid vote ID", http.StatusBadRequest)
		return nil
	}

	err = h.guard.RequireSubject(req.Context(), actorID, enum.ActionDelete, enum.SubjectVote, voteID)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	if err := h.db.Service().Vote().Remove(req.Context(), voteID); err != nil {
		return writeError(w, h.logger, err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
