package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/askaris/askaris/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// VoteModel handles database operations for votes.
type VoteModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewVote creates a new vote model.
func NewVote(db *bun.DB, logger *zap.Logger) *VoteModel {
	return &VoteModel{
		db:     db,
		logger: logger.Named("db_vote"),
	}
}

// GetVoteByID retrieves a vote by its ID.
func (r *VoteModel) GetVoteByID(ctx context.Context, id int64) (*types.Vote, error) {
	vote := new(types.Vote)

	err := r.db.NewSelect().
		Model(vote).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrVoteNotFound
		}
		return nil, fmt.Errorf("failed to get vote: %w", err)
	}

	return vote, nil
}

// GetVotesByUser retrieves all votes cast by a user, newest first.
func (r *VoteModel) GetVotesByUser(ctx context.Context, userID int64) ([]*types.Vote, error) {
	var votes []*types.Vote

	err := r.db.NewSelect().
		Model(&votes).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get votes: %w", err)
	}

	return votes, nil
}
