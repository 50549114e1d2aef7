package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/askaris/askaris/internal/database/types"
	"github.com/askaris/askaris/internal/reputation"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// AnswerService orchestrates the accept/un-accept transition on answers,
// enforcing the single-accepted-answer invariant per question.
type AnswerService struct {
	db     *bun.DB
	ledger *reputation.Ledger
	logger *zap.Logger
}

// NewAnswer creates a new answer service.
func NewAnswer(db *bun.DB, ledger *reputation.Ledger, logger *zap.Logger) *AnswerService {
	return &AnswerService{
		db:     db,
		ledger: ledger,
		logger: logger.Named("answer_service"),
	}
}

// SetAccepted transitions an answer's acceptance flag. Accepting applies
// author +15 and acceptor +2 (skipped when the acceptor authored the answer);
// un-accepting reverses the exact deltas recorded at acceptance time. The
// existence check and both mutations share one transaction; the
// answers_one_accepted_idx partial unique index backs the check against
// concurrent acceptance of a sibling answer.
func (s *AnswerService) SetAccepted(
	ctx context.Context, answerID, acceptorID int64, accepted bool,
) (*types.Answer, error) {
	answer := new(types.Answer)

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		err := tx.NewSelect().
			Model(answer).
			Where("id = ?", answerID).
			For("UPDATE").
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return types.ErrAnswerNotFound
			}
			return fmt.Errorf("failed to get answer: %w", err)
		}

		if err := userExists(ctx, tx, acceptorID); err != nil {
			return err
		}

		if accepted {
			return s.accept(ctx, tx, answer, acceptorID)
		}

		return s.unaccept(ctx, tx, answer)
	})
	if err != nil {
		return nil, err
	}

	return answer, nil
}

func (s *AnswerService) accept(ctx context.Context, tx bun.Tx, answer *types.Answer, acceptorID int64) error {
	// Accepting an already accepted answer is a no-op.
	if answer.IsAccepted {
		return nil
	}

	exists, err := tx.NewSelect().
		Model((*types.Answer)(nil)).
		Where("question_id = ?", answer.QuestionID).
		Where("is_accepted = true").
		Where("id != ?", answer.ID).
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("failed to check accepted answer: %w", err)
	}
	if exists {
		return types.ErrAcceptedAnswerExists
	}

	err = s.ledger.ApplyEvent(ctx, tx, reputation.Event{
		Kind:     reputation.EventAnswerAccepted,
		ActorID:  acceptorID,
		AuthorID: answer.UserID,
	})
	if err != nil {
		return err
	}

	answer.IsAccepted = true
	answer.AcceptedBy = &acceptorID
	answer.UpdatedAt = time.Now()

	_, err = tx.NewUpdate().
		Model(answer).
		Column("is_accepted", "accepted_by", "updated_at").
		Where("id = ?", answer.ID).
		Exec(ctx)
	if err != nil {
		// A concurrent acceptance of a sibling answer trips the partial
		// unique index; surface it as the same conflict.
		if isUniqueViolation(err) {
			return types.ErrAcceptedAnswerExists
		}
		return fmt.Errorf("failed to accept answer: %w", err)
	}

	s.logger.Debug("Answer accepted",
		zap.Int64("answerID", answer.ID),
		zap.Int64("acceptorID", acceptorID),
		zap.Int64("authorID", answer.UserID))

	return nil
}

func (s *AnswerService) unaccept(ctx context.Context, tx bun.Tx, answer *types.Answer) error {
	// Un-accepting a pending answer is a no-op.
	if !answer.IsAccepted {
		return nil
	}

	// Reverse against the recorded acceptor, not the current actor, so the
	// ledger stays symmetric regardless of who performs the un-accept.
	acceptedBy := answer.UserID
	if answer.AcceptedBy != nil {
		acceptedBy = *answer.AcceptedBy
	}

	err := s.ledger.ApplyEvent(ctx, tx, reputation.Event{
		Kind:     reputation.EventAnswerUnaccepted,
		ActorID:  acceptedBy,
		AuthorID: answer.UserID,
	})
	if err != nil {
		return err
	}

	answer.IsAccepted = false
	answer.AcceptedBy = nil
	answer.UpdatedAt = time.Now()

	_, err = tx.NewUpdate().
		Model(answer).
		Column("is_accepted", "accepted_by", "updated_at").
		Where("id = ?", answer.ID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to unaccept answer: %w", err)
	}

	s.logger.Debug("Answer unaccepted",
		zap.Int64("answerID", answer.ID),
		zap.Int64("authorID", answer.UserID))

	return nil
}
