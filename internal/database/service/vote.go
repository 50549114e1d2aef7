// Package service implements the transactional workflows of the forum core.
// Every workflow encloses its beneficiary lookups, the reputation mutation
// and the row mutation in a single unit of work.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/askaris/askaris/internal/database/types"
	"github.com/askaris/askaris/internal/database/types/enum"
	"github.com/askaris/askaris/internal/reputation"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// VoteService orchestrates vote create, update and remove together with the
// reputation deltas they imply.
type VoteService struct {
	db     *bun.DB
	ledger *reputation.Ledger
	logger *zap.Logger
}

// NewVote creates a new vote service.
func NewVote(db *bun.DB, ledger *reputation.Ledger, logger *zap.Logger) *VoteService {
	return &VoteService{
		db:     db,
		ledger: ledger,
		logger: logger.Named("vote_service"),
	}
}

// Create casts a vote. The target lookup, the ledger delta and the vote row
// insert commit or roll back as one unit. Voting on own content fails with
// types.ErrSelfVote before anything is mutated.
func (s *VoteService) Create(ctx context.Context, vote *types.Vote) (*types.Vote, error) {
	if _, _, err := vote.Target(); err != nil {
		return nil, err
	}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := userExists(ctx, tx, vote.UserID); err != nil {
			return err
		}

		ownerID, err := resolveTargetOwner(ctx, tx, vote)
		if err != nil {
			return err
		}

		if ownerID == vote.UserID {
			return types.ErrSelfVote
		}

		err = s.ledger.ApplyEvent(ctx, tx, reputation.Event{
			Kind:     reputation.EventVoteCast,
			Upvote:   vote.IsUpvoted,
			ActorID:  vote.UserID,
			AuthorID: ownerID,
		})
		if err != nil {
			return err
		}

		now := time.Now()
		vote.CreatedAt = now
		vote.UpdatedAt = now

		if _, err := tx.NewInsert().Model(vote).Exec(ctx); err != nil {
			if isUniqueViolation(err) {
				return types.ErrDuplicateVote
			}
			return fmt.Errorf("failed to insert vote: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Vote created",
		zap.Int64("voteID", vote.ID),
		zap.Int64("voterID", vote.UserID),
		zap.Bool("upvote", vote.IsUpvoted))

	return vote, nil
}

// Update switches a vote's direction. The owner's counter receives one net
// adjustment: the inverse of the old delta plus the new delta. Setting the
// same direction again is a no-op.
func (s *VoteService) Update(ctx context.Context, voteID int64, upvote bool) (*types.Vote, error) {
	vote := new(types.Vote)

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		err := tx.NewSelect().
			Model(vote).
			Where("id = ?", voteID).
			For("UPDATE").
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return types.ErrVoteNotFound
			}
			return fmt.Errorf("failed to get vote: %w", err)
		}

		if vote.IsUpvoted == upvote {
			return nil
		}

		ownerID, err := resolveTargetOwner(ctx, tx, vote)
		if err != nil {
			return err
		}

		err = s.ledger.ApplyEvent(ctx, tx, reputation.Event{
			Kind:     reputation.EventVoteSwitched,
			Upvote:   upvote,
			ActorID:  vote.UserID,
			AuthorID: ownerID,
		})
		if err != nil {
			return err
		}

		vote.IsUpvoted = upvote
		vote.UpdatedAt = time.Now()

		_, err = tx.NewUpdate().
			Model(vote).
			Column("is_upvoted", "updated_at").
			Where("id = ?", voteID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to update vote: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return vote, nil
}

// Remove retracts a vote, reversing the delta that was applied when it was
// cast, then deletes the row.
func (s *VoteService) Remove(ctx context.Context, voteID int64) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		vote := new(types.Vote)

		err := tx.NewSelect().
			Model(vote).
			Where("id = ?", voteID).
			For("UPDATE").
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return types.ErrVoteNotFound
			}
			return fmt.Errorf("failed to get vote: %w", err)
		}

		ownerID, err := resolveTargetOwner(ctx, tx, vote)
		if err != nil {
			return err
		}

		err = s.ledger.ApplyEvent(ctx, tx, reputation.Event{
			Kind:     reputation.EventVoteRetracted,
			Upvote:   vote.IsUpvoted,
			ActorID:  vote.UserID,
			AuthorID: ownerID,
		})
		if err != nil {
			return err
		}

		_, err = tx.NewDelete().
			Model((*types.Vote)(nil)).
			Where("id = ?", voteID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete vote: %w", err)
		}

		return nil
	})
}

// resolveTargetOwner returns the owner of the content a vote points at. It
// runs inside the caller's transaction so a concurrent target deletion cannot
// attach the ledger update to a stale beneficiary.
func resolveTargetOwner(ctx context.Context, tx bun.IDB, vote *types.Vote) (int64, error) {
	target, targetID, err := vote.Target()
	if err != nil {
		return 0, err
	}

	var ownerID int64

	switch target {
	case enum.VoteTargetQuestion:
		err = tx.NewSelect().
			Model((*types.Question)(nil)).
			Column("user_id").
			Where("id = ?", targetID).
			Scan(ctx, &ownerID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return 0, types.ErrQuestionNotFound
			}
			return 0, fmt.Errorf("failed to resolve question owner: %w", err)
		}

	case enum.VoteTargetAnswer:
		err = tx.NewSelect().
			Model((*types.Answer)(nil)).
			Column("user_id").
			Where("id = ?", targetID).
			Scan(ctx, &ownerID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return 0, types.ErrAnswerNotFound
			}
			return 0, fmt.Errorf("failed to resolve answer owner: %w", err)
		}
	}

	return ownerID, nil
}

// userExists verifies a user row is present within the transaction.
func userExists(ctx context.Context, tx bun.IDB, userID int64) error {
	exists, err := tx.NewSelect().
		Model((*types.User)(nil)).
		Where("id = ?", userID).
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if !exists {
		return types.ErrUserNotFound
	}

	return nil
}
