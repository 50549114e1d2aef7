package handler

import (
	"errors"
	"net/http"

	"github.com/askaris/askaris/internal/database/types"
	restTypes "github.com/askaris/askaris/internal/rest/types"
	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// writeError translates the core error taxonomy into HTTP responses.
// Forbidden and Conflict surface their message verbatim; anything unknown is
// a 500 with the detail kept server-side.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) error {
	switch {
	case errors.Is(err, types.ErrActionForbidden) || errors.Is(err, types.ErrSelfVote):
		return writeJSONError(w, http.StatusForbidden, err)

	case errors.Is(err, types.ErrAcceptedAnswerExists) || errors.Is(err, types.ErrDuplicateVote):
		return writeJSONError(w, http.StatusConflict, err)

	case errors.Is(err, types.ErrUserNotFound) ||
		errors.Is(err, types.ErrQuestionNotFound) ||
		errors.Is(err, types.ErrAnswerNotFound) ||
		errors.Is(err, types.ErrVoteNotFound):
		return writeJSONError(w, http.StatusNotFound, err)

	case errors.Is(err, types.ErrVoteTargetRequired):
		return writeJSONError(w, http.StatusBadRequest, err)

	default:
		logger.Error("Request failed", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return nil
	}
}

func writeJSONError(w http.ResponseWriter, status int, err error) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	return sonic.ConfigDefault.NewEncoder(w).Encode(restTypes.ErrorResponse{Error: err.Error()})
}
