package database

import (
	"github.com/askaris/askaris/internal/database/models"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Repository provides access to all database models.
type Repository struct {
	user     *models.UserModel
	question *models.QuestionModel
	answer   *models.AnswerModel
	vote     *models.VoteModel
}

// NewRepository creates a new repository instance with all models.
func NewRepository(db *bun.DB, logger *zap.Logger) *Repository {
	return &Repository{
		user:     models.NewUser(db, logger),
		question: models.NewQuestion(db, logger),
		answer:   models.NewAnswer(db, logger),
		vote:     models.NewVote(db, logger),
	}
}

// User returns the user model repository.
func (r *Repository) User() *models.UserModel {
	return r.user
}

// Question returns the question model repository.
func (r *Repository) Question() *models.QuestionModel {
	return r.question
}

// Answer returns the answer model repository.
func (r *Repository) Answer() *models.AnswerModel {
	return r.answer
}

// Vote returns the vote model repository.
func (r *Repository) Vote() *models.VoteModel {
	return r.vote
}
