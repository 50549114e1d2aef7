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

// QuestionModel handles database operations for questions.
type QuestionModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewQuestion creates a new question model.
func NewQuestion(db *bun.DB, logger *zap.Logger) *QuestionModel {
	return &QuestionModel{
		db:     db,
		logger: logger.Named("db_question"),
	}
}

// GetQuestionByID retrieves a question by its ID.
func (r *QuestionModel) GetQuestionByID(ctx context.Context, id int64) (*types.Question, error) {
	question := new(types.Question)

	err := r.db.NewSelect().
		Model(question).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	return question, nil
}

// CreateQuestion inserts a new question row.
func (r *QuestionModel) CreateQuestion(ctx context.Context, question *types.Question) error {
	now := time.Now()
	question.CreatedAt = now
	question.UpdatedAt = now

	_, err := r.db.NewInsert().
		Model(question).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}

	return nil
}

// DeleteQuestion removes a question row.
func (r *QuestionModel) DeleteQuestion(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().
		Model((*types.Question)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return types.ErrQuestionNotFound
	}

	return nil
}

// GetQuestions retrieves questions ordered by creation time, newest first.
func (r *QuestionModel) GetQuestions(ctx context.Context, limit int) ([]*types.Question, error) {
	var questions []*types.Question

	err := r.db.NewSelect().
		Model(&questions).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}

	return questions, nil
}
