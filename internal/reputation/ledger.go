package reputation

import (
	"context"
	"fmt"

	"github.com/askaris/askaris/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Point values awarded for each lifecycle event.
const (
	UpvoteDelta         = 10
	DownvoteDelta       = -2
	AcceptAuthorDelta   = 15
	AcceptAcceptorDelta = 2
)

// EventKind identifies the lifecycle transition that produced a reputation event.
type EventKind int

const (
	EventVoteCast EventKind = iota
	EventVoteRetracted
	EventVoteSwitched
	EventAnswerAccepted
	EventAnswerUnaccepted
)

// String returns the lowercase name of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventVoteCast:
		return "vote_cast"
	case EventVoteRetracted:
		return "vote_retracted"
	case EventVoteSwitched:
		return "vote_switched"
	case EventAnswerAccepted:
		return "answer_accepted"
	case EventAnswerUnaccepted:
		return "answer_unaccepted"
	default:
		return "unknown"
	}
}

// Event describes a single reputation-bearing transition. It is consumed once
// and never persisted; the resulting counter mutation is the only record.
type Event struct {
	Kind EventKind
	// Upvote is the vote direction. For EventVoteSwitched it is the new
	// direction; for EventVoteRetracted it is the direction that was applied
	// when the vote was cast.
	Upvote bool
	// ActorID is the user performing the transition (voter or acceptor).
	ActorID int64
	// AuthorID is the owner of the content the transition targets.
	AuthorID int64
}

// Adjustment is a signed delta destined for one user's reputation counter.
type Adjustment struct {
	UserID int64
	Delta  int64
}

// voteDelta returns the points the content author earns for a vote.
func voteDelta(upvote bool) int64 {
	if upvote {
		return UpvoteDelta
	}
	return DownvoteDelta
}

// Deltas maps an event to the adjustments it produces. Pure; returns nil when
// the event carries no reputation change (e.g. self-acceptance).
func Deltas(ev Event) []Adjustment {
	switch ev.Kind {
	case EventVoteCast:
		return []Adjustment{{UserID: ev.AuthorID, Delta: voteDelta(ev.Upvote)}}

	case EventVoteRetracted:
		return []Adjustment{{UserID: ev.AuthorID, Delta: -voteDelta(ev.Upvote)}}

	case EventVoteSwitched:
		// Inverse of the old direction plus the new direction, as one net
		// adjustment so the beneficiary sees a single counter mutation.
		net := voteDelta(ev.Upvote) - voteDelta(!ev.Upvote)
		return []Adjustment{{UserID: ev.AuthorID, Delta: net}}

	case EventAnswerAccepted:
		if ev.ActorID == ev.AuthorID {
			return nil
		}
		return []Adjustment{
			{UserID: ev.AuthorID, Delta: AcceptAuthorDelta},
			{UserID: ev.ActorID, Delta: AcceptAcceptorDelta},
		}

	case EventAnswerUnaccepted:
		// Symmetric reversal of the accepted-case deltas, so a full event
		// history always nets to the stored counter.
		if ev.ActorID == ev.AuthorID {
			return nil
		}
		return []Adjustment{
			{UserID: ev.AuthorID, Delta: -AcceptAuthorDelta},
			{UserID: ev.ActorID, Delta: -AcceptAcceptorDelta},
		}

	default:
		return nil
	}
}

// Ledger applies reputation adjustments against the users table.
type Ledger struct {
	logger *zap.Logger
}

// NewLedger creates a new reputation ledger.
func NewLedger(logger *zap.Logger) *Ledger {
	return &Ledger{
		logger: logger.Named("reputation"),
	}
}

// Apply increments a user's reputation by delta at the storage layer.
// The increment happens in SQL, never as a read-modify-write, so concurrent
// deltas to the same counter cannot be lost. Callers pass the transactional
// handle of the enclosing unit of work.
func (l *Ledger) Apply(ctx context.Context, tx bun.IDB, userID, delta int64) error {
	if delta == 0 {
		return nil
	}

	res, err := tx.NewUpdate().
		Model((*types.User)(nil)).
		Set("reputation = reputation + ?", delta).
		Where("id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply reputation delta: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return types.ErrUserNotFound
	}

	l.logger.Debug("Applied reputation delta",
		zap.Int64("userID", userID),
		zap.Int64("delta", delta))

	return nil
}

// ApplyEvent maps the event to its adjustments and applies each within the
// given transactional handle.
func (l *Ledger) ApplyEvent(ctx context.Context, tx bun.IDB, ev Event) error {
	for _, adj := range Deltas(ev) {
		if err := l.Apply(ctx, tx, adj.UserID, adj.Delta); err != nil {
			return fmt.Errorf("failed to apply %s adjustment: %w", ev.Kind, err)
		}
	}
	return nil
}
