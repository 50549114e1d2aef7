//go:build integration
// +build integration

package service_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/askaris/askaris/internal/auth"
	"github.com/askaris/askaris/internal/database/migrations"
	"github.com/askaris/askaris/internal/database/models"
	"github.com/askaris/askaris/internal/database/service"
	"github.com/askaris/askaris/internal/database/types"
	"github.com/askaris/askaris/internal/database/types/enum"
	"github.com/askaris/askaris/internal/reputation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"
)

type testEnv struct {
	db      *bun.DB
	users   *models.UserModel
	votes   *service.VoteService
	answers *service.AnswerService
}

// setupTestDB starts a PostgreSQL container, applies all migrations and wires
// the workflow services against it.
func setupTestDB(t *testing.T) (*testEnv, func()) {
	t.Helper()

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(connStr)))
	db := bun.NewDB(sqldb, pgdialect.New())

	migrator := migrate.NewMigrator(db, migrations.Migrations)
	require.NoError(t, migrator.Init(ctx))
	_, err = migrator.Migrate(ctx)
	require.NoError(t, err)

	logger := zap.NewNop()
	ledger := reputation.NewLedger(logger)

	env := &testEnv{
		db:      db,
		users:   models.NewUser(db, logger),
		votes:   service.NewVote(db, ledger, logger),
		answers: service.NewAnswer(db, ledger, logger),
	}

	cleanup := func() {
		_ = db.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}

	return env, cleanup
}

var userSeq int

func (e *testEnv) createUser(t *testing.T) *types.User {
	t.Helper()

	userSeq++
	now := time.Now()
	user := &types.User{
		Name:      fmt.Sprintf("user-%d", userSeq),
		Email:     fmt.Sprintf("user-%d@example.com", userSeq),
		Role:      enum.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, e.users.CreateUser(context.Background(), user))

	return user
}

func (e *testEnv) createQuestion(t *testing.T, authorID int64) *types.Question {
	t.Helper()

	now := time.Now()
	question := &types.Question{
		UserID:    authorID,
		Title:     "How do I test this?",
		Body:      "Details inside.",
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := e.db.NewInsert().Model(question).Exec(context.Background())
	require.NoError(t, err)

	return question
}

func (e *testEnv) createAnswer(t *testing.T, questionID, authorID int64) *types.Answer {
	t.Helper()

	now := time.Now()
	answer := &types.Answer{
		QuestionID: questionID,
		UserID:     authorID,
		Body:       "Like this.",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	_, err := e.db.NewInsert().Model(answer).Exec(context.Background())
	require.NoError(t, err)

	return answer
}

func (e *testEnv) reputationOf(t *testing.T, userID int64) int64 {
	t.Helper()

	user, err := e.users.GetUserByID(context.Background(), userID)
	require.NoError(t, err)

	return user.Reputation
}

func TestVoteLifecycle(t *testing.T) {
	env, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	author := env.createUser(t)
	voter := env.createUser(t)
	question := env.createQuestion(t, author.ID)

	vote, err := env.votes.Create(ctx, &types.Vote{
		UserID:     voter.ID,
		QuestionID: &question.ID,
		IsUpvoted:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(reputation.UpvoteDelta), env.reputationOf(t, author.ID))
	assert.Equal(t, int64(0), env.reputationOf(t, voter.ID))

	// Retraction returns the counter to its pre-vote value.
	require.NoError(t, env.votes.Remove(ctx, vote.ID))
	assert.Equal(t, int64(0), env.reputationOf(t, author.ID))
}

func TestDownvoteDelta(t *testing.T) {
	env, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	author := env.createUser(t)
	voter := env.createUser(t)
	question := env.createQuestion(t, author.ID)
	answer := env.createAnswer(t, question.ID, author.ID)

	_, err := env.votes.Create(ctx, &types.Vote{
		UserID:    voter.ID,
		AnswerID:  &answer.ID,
		IsUpvoted: false,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(reputation.DownvoteDelta), env.reputationOf(t, author.ID))
}

func TestSelfVoteRejected(t *testing.T) {
	env, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	author := env.createUser(t)
	question := env.createQuestion(t, author.ID)

	_, err := env.votes.Create(ctx, &types.Vote{
		UserID:     author.ID,
		QuestionID: &question.ID,
		IsUpvoted:  true,
	})
	require.ErrorIs(t, err, types.ErrSelfVote)

	// Nothing was mutated.
	assert.Equal(t, int64(0), env.reputationOf(t, author.ID))

	count, err := env.db.NewSelect().Model((*types.Vote)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDuplicateVoteRejected(t *testing.T) {
	env, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	author := env.createUser(t)
	voter := env.createUser(t)
	question := env.createQuestion(t, author.ID)

	_, err := env.votes.Create(ctx, &types.Vote{
		UserID:     voter.ID,
		QuestionID: &question.ID,
		IsUpvoted:  true,
	})
	require.NoError(t, err)

	_, err = env.votes.Create(ctx, &types.Vote{
		UserID:     voter.ID,
		QuestionID: &question.ID,
		IsUpvoted:  false,
	})
	require.ErrorIs(t, err, types.ErrDuplicateVote)

	// The rejected insert rolled back its delta with it.
	assert.Equal(t, int64(reputation.UpvoteDelta), env.reputationOf(t, author.ID))
}

func TestVoteTargetRequired(t *testing.T) {
	env, cleanup := setupTestDB(t)
	defer cleanup()

	voter := env.createUser(t)

	_, err := env.votes.Create(context.Background(), &types.Vote{
		UserID:    voter.ID,
		IsUpvoted: true,
	})
	require.ErrorIs(t, err, types.ErrVoteTargetRequired)
}

func TestVoteSwitchNetsDeltas(t *testing.T) {
	env, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	author := env.createUser(t)
	voter := env.createUser(t)
	question := env.createQuestion(t, author.ID)

	vote, err := env.votes.Create(ctx, &types.Vote{
		UserID:     voter.ID,
		QuestionID: &question.ID,
		IsUpvoted:  true,
	})
	require.NoError(t, err)

	// Up to down: +10 becomes -2.
	switched, err := env.votes.Update(ctx, vote.ID, false)
	require.NoError(t, err)
	assert.False(t, switched.IsUpvoted)
	assert.Equal(t, int64(reputation.DownvoteDelta), env.reputationOf(t, author.ID))

	// Same direction again is a no-op.
	_, err = env.votes.Update(ctx, vote.ID, false)
	require.NoError(t, err)
	assert.Equal(t, int64(reputation.DownvoteDelta), env.reputationOf(t, author.ID))
}

func TestAcceptanceLifecycle(t *testing.T) {
	env, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	asker := env.createUser(t)
	answerer := env.createUser(t)
	question := env.createQuestion(t, asker.ID)
	answer := env.createAnswer(t, question.ID, answerer.ID)

	accepted, err := env.answers.SetAccepted(ctx, answer.ID, asker.ID, true)
	require.NoError(t, err)
	assert.True(t, accepted.IsAccepted)
	assert.Equal(t, int64(reputation.AcceptAuthorDelta), env.reputationOf(t, answerer.ID))
	assert.Equal(t, int64(reputation.AcceptAcceptorDelta), env.reputationOf(t, asker.ID))

	// Accepting an already accepted answer changes nothing.
	_, err = env.answers.SetAccepted(ctx, answer.ID, asker.ID, true)
	require.NoError(t, err)
	assert.Equal(t, int64(reputation.AcceptAuthorDelta), env.reputationOf(t, answerer.ID))

	// Un-acceptance reverses both deltas, acceptor identity included.
	unaccepted, err := env.answers.SetAccepted(ctx, answer.ID, asker.ID, false)
	require.NoError(t, err)
	assert.False(t, unaccepted.IsAccepted)
	assert.Equal(t, int64(0), env.reputationOf(t, answerer.ID))
	assert.Equal(t, int64(0), env.reputationOf(t, asker.ID))
}

func TestSecondAcceptanceConflicts(t *testing.T) {
	env, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	asker := env.createUser(t)
	answerer := env.createUser(t)
	question := env.createQuestion(t, asker.ID)
	first := env.createAnswer(t, question.ID, answerer.ID)
	second := env.createAnswer(t, question.ID, answerer.ID)

	_, err := env.answers.SetAccepted(ctx, first.ID, asker.ID, true)
	require.NoError(t, err)

	_, err = env.answers.SetAccepted(ctx, second.ID, asker.ID, true)
	require.ErrorIs(t, err, types.ErrAcceptedAnswerExists)

	// The failed acceptance left no trace.
	assert.Equal(t, int64(reputation.AcceptAuthorDelta), env.reputationOf(t, answerer.ID))
	assert.Equal(t, int64(reputation.AcceptAcceptorDelta), env.reputationOf(t, asker.ID))
}

func TestSelfAcceptanceSetsFlagOnly(t *testing.T) {
	env, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	author := env.createUser(t)
	question := env.createQuestion(t, author.ID)
	answer := env.createAnswer(t, question.ID, author.ID)

	accepted, err := env.answers.SetAccepted(ctx, answer.ID, author.ID, true)
	require.NoError(t, err)
	assert.True(t, accepted.IsAccepted)
	assert.Equal(t, int64(0), env.reputationOf(t, author.ID))

	// The reversal is symmetric: still no points involved.
	_, err = env.answers.SetAccepted(ctx, answer.ID, author.ID, false)
	require.NoError(t, err)
	assert.Equal(t, int64(0), env.reputationOf(t, author.ID))
}

func TestGuardAgainstPersistedState(t *testing.T) {
	env, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	logger := zap.NewNop()
	guard := auth.NewGuard(
		env.users,
		models.NewQuestion(env.db, logger),
		models.NewAnswer(env.db, logger),
		models.NewVote(env.db, logger),
		logger,
	)

	owner := env.createUser(t)
	stranger := env.createUser(t)
	question := env.createQuestion(t, owner.ID)
	answer := env.createAnswer(t, question.ID, stranger.ID)

	// Ownership is read from storage, not from the request.
	require.NoError(t,
		guard.RequireSubject(ctx, owner.ID, enum.ActionDelete, enum.SubjectQuestion, question.ID))
	require.ErrorIs(t,
		guard.RequireSubject(ctx, stranger.ID, enum.ActionDelete, enum.SubjectQuestion, question.ID),
		types.ErrActionForbidden)

	// The acceptance flag is the only field the non-owner may touch.
	require.NoError(t,
		guard.RequireSubjectFields(ctx, owner.ID, enum.ActionUpdate, enum.SubjectAnswer,
			answer.ID, []string{"is_accepted"}))
	require.ErrorIs(t,
		guard.RequireSubjectFields(ctx, owner.ID, enum.ActionUpdate, enum.SubjectAnswer,
			answer.ID, []string{"is_accepted", "body"}),
		types.ErrActionForbidden)

	// Unknown actors never pass.
	require.ErrorIs(t,
		guard.RequireSubject(ctx, 999999, enum.ActionRead, enum.SubjectQuestion, question.ID),
		types.ErrUserNotFound)
}

func TestRecountDetectsAndRepairsDrift(t *testing.T) {
	env, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	author := env.createUser(t)
	voter := env.createUser(t)
	question := env.createQuestion(t, author.ID)

	_, err := env.votes.Create(ctx, &types.Vote{
		UserID:     voter.ID,
		QuestionID: &question.ID,
		IsUpvoted:  true,
	})
	require.NoError(t, err)

	// Damage the counter behind the workflows' back.
	_, err = env.db.NewUpdate().
		Model((*types.User)(nil)).
		Set("reputation = ?", 999).
		Where("id = ?", author.ID).
		Exec(ctx)
	require.NoError(t, err)

	reconcile := service.NewReconcile(env.db, env.users, zap.NewNop())

	drifts, err := reconcile.Recount(ctx, false)
	require.NoError(t, err)
	require.Len(t, drifts, 1)
	assert.Equal(t, author.ID, drifts[0].UserID)
	assert.Equal(t, int64(999), drifts[0].Stored)
	assert.Equal(t, int64(reputation.UpvoteDelta), drifts[0].Expected)

	// Report-only mode leaves the counter alone.
	assert.Equal(t, int64(999), env.reputationOf(t, author.ID))

	_, err = reconcile.Recount(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, int64(reputation.UpvoteDelta), env.reputationOf(t, author.ID))
}
