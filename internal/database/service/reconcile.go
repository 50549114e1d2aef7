package service

import (
	"context"
	"fmt"

	"github.com/askaris/askaris/internal/database/models"
	"github.com/askaris/askaris/internal/database/types"
	"github.com/askaris/askaris/internal/reputation"
	"github.com/sourcegraph/conc/pool"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// reconcileWorkers bounds the parallel per-user recount queries.
const reconcileWorkers = 8

// Drift reports a user whose stored reputation disagrees with the value
// recomputed from the vote and acceptance rows.
type Drift struct {
	UserID   int64 `json:"userId"`
	Stored   int64 `json:"stored"`
	Expected int64 `json:"expected"`
}

// ReconcileService recomputes reputation counters from first principles. It
// exists for operators: the workflows keep the ledger consistent, this
// detects damage from manual edits or partial restores.
type ReconcileService struct {
	db     *bun.DB
	users  *models.UserModel
	logger *zap.Logger
}

// NewReconcile creates a new reconcile service.
func NewReconcile(db *bun.DB, users *models.UserModel, logger *zap.Logger) *ReconcileService {
	return &ReconcileService{
		db:     db,
		users:  users,
		logger: logger.Named("reconcile_service"),
	}
}

// Recount recomputes every user's reputation and returns the users that
// drifted. When repair is set, drifted counters are rewritten to the
// recomputed value.
func (s *ReconcileService) Recount(ctx context.Context, repair bool) ([]Drift, error) {
	ids, err := s.users.GetUserIDs(ctx)
	if err != nil {
		return nil, err
	}

	p := pool.NewWithResults[*Drift]().
		WithContext(ctx).
		WithMaxGoroutines(reconcileWorkers)

	for _, id := range ids {
		p.Go(func(ctx context.Context) (*Drift, error) {
			return s.recountUser(ctx, id)
		})
	}

	results, err := p.Wait()
	if err != nil {
		return nil, fmt.Errorf("failed to recount users: %w", err)
	}

	drifts := make([]Drift, 0)
	for _, d := range results {
		if d != nil {
			drifts = append(drifts, *d)
		}
	}

	if repair {
		for _, d := range drifts {
			_, err := s.db.NewUpdate().
				Model((*types.User)(nil)).
				Set("reputation = ?", d.Expected).
				Where("id = ?", d.UserID).
				Exec(ctx)
			if err != nil {
				return drifts, fmt.Errorf("failed to repair user %d: %w", d.UserID, err)
			}

			s.logger.Info("Repaired reputation",
				zap.Int64("userID", d.UserID),
				zap.Int64("stored", d.Stored),
				zap.Int64("expected", d.Expected))
		}
	}

	return drifts, nil
}

// recountUser derives one user's expected reputation from the rows that feed
// the ledger. Returns nil when the stored counter matches.
func (s *ReconcileService) recountUser(ctx context.Context, userID int64) (*Drift, error) {
	var row struct {
		Stored        int64
		UpReceived    int64
		DownReceived  int64
		AcceptsEarned int64
		AcceptsGiven  int64
	}

	err := s.db.NewRaw(`
		SELECT
			u.reputation AS stored,
			(SELECT count(*) FROM votes v
				LEFT JOIN questions q ON v.question_id = q.id
				LEFT JOIN answers a ON v.answer_id = a.id
				WHERE v.is_upvoted AND coalesce(q.user_id, a.user_id) = u.id) AS up_received,
			(SELECT count(*) FROM votes v
				LEFT JOIN questions q ON v.question_id = q.id
				LEFT JOIN answers a ON v.answer_id = a.id
				WHERE NOT v.is_upvoted AND coalesce(q.user_id, a.user_id) = u.id) AS down_received,
			(SELECT count(*) FROM answers a
				WHERE a.user_id = u.id AND a.is_accepted
				AND a.accepted_by IS DISTINCT FROM a.user_id) AS accepts_earned,
			(SELECT count(*) FROM answers a
				WHERE a.accepted_by = u.id AND a.user_id != u.id AND a.is_accepted) AS accepts_given
		FROM users u
		WHERE u.id = ?
	`, userID).Scan(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("failed to recount user %d: %w", userID, err)
	}

	expected := row.UpReceived*reputation.UpvoteDelta +
		row.DownReceived*reputation.DownvoteDelta +
		row.AcceptsEarned*reputation.AcceptAuthorDelta +
		row.AcceptsGiven*reputation.AcceptAcceptorDelta

	if expected == row.Stored {
		return nil, nil
	}

	return &Drift{UserID: userID, Stored: row.Stored, Expected: expected}, nil
}
