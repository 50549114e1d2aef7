package database

import (
	"github.com/askaris/askaris/internal/database/service"
	"github.com/askaris/askaris/internal/reputation"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Service provides access to all business logic services.
type Service struct {
	vote      *service.VoteService
	answer    *service.AnswerService
	reconcile *service.ReconcileService
}

// NewService creates a new service instance with all services.
func NewService(db *bun.DB, repository *Repository, logger *zap.Logger) *Service {
	ledger := reputation.NewLedger(logger)

	return &Service{
		vote:      service.NewVote(db, ledger, logger),
		answer:    service.NewAnswer(db, ledger, logger),
		reconcile: service.NewReconcile(db, repository.User(), logger),
	}
}

// Vote returns the vote service.
func (s *Service) Vote() *service.VoteService {
	return s.vote
}

// Answer returns the answer service.
func (s *Service) Answer() *service.AnswerService {
	return s.answer
}

// Reconcile returns the reconcile service.
func (s *Service) Reconcile() *service.ReconcileService {
	return s.reconcile
}
