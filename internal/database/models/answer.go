package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/askaris/askaris/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// AnswerModel handles database operations for answers.
type AnswerModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewAnswer creates a new answer model.
func NewAnswer(db *bun.DB, logger *zap.Logger) *AnswerModel {
	return &AnswerModel{
		db:     db,
		logger: logger.Named("db_answer"),
	}
}

// GetAnswerByID retrieves an answer by its ID.
func (r *AnswerModel) GetAnswerByID(ctx context.Context, id int64) (*types.Answer, error) {
	answer := new(types.Answer)

	err := r.db.NewSelect().
		Model(answer).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrAnswerNotFound
		}
		return nil, fmt.Errorf("failed to get answer: %w", err)
	}

	return answer, nil
}

// CreateAnswer inserts a new answer row. Answers always start pending.
func (r *AnswerModel) CreateAnswer(ctx context.Context, answer *types.Answer) error {
	now := time.Now()
	answer.CreatedAt = now
	answer.UpdatedAt = now
	answer.IsAccepted = false

	_, err := r.db.NewInsert().
		Model(answer).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create answer: %w", err)
	}

	return nil
}

// DeleteAnswer removes an answer row.
func (r *AnswerModel) DeleteAnswer(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().
		Model((*types.Answer)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete answer: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return types.ErrAnswerNotFound
	}

	return nil
}

// GetAnswersByQuestion retrieves the answers under a question, accepted
// answer first, then newest first.
func (r *AnswerModel) GetAnswersByQuestion(ctx context.Context, questionID int64) ([]*types.Answer, error) {
	var answers []*types.Answer

	err := r.db.NewSelect().
		Model(&answers).
		Where("question_id = ?", questionID).
		Order("is_accepted DESC", "created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get answers: %w", err)
	}

	return answers, nil
}
