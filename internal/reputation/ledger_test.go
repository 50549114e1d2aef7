package reputation_test

import (
	"testing"

	"github.com/askaris/askaris/internal/reputation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeltas_VoteCast(t *testing.T) {
	t.Parallel()

	up := reputation.Deltas(reputation.Event{
		Kind: reputation.EventVoteCast, Upvote: true, ActorID: 1, AuthorID: 2,
	})
	require.Len(t, up, 1)
	assert.Equal(t, int64(2), up[0].UserID)
	assert.Equal(t, int64(reputation.UpvoteDelta), up[0].Delta)

	down := reputation.Deltas(reputation.Event{
		Kind: reputation.EventVoteCast, Upvote: false, ActorID: 1, AuthorID: 2,
	})
	require.Len(t, down, 1)
	assert.Equal(t, int64(reputation.DownvoteDelta), down[0].Delta)
}

func TestDeltas_VoteRetracted(t *testing.T) {
	t.Parallel()

	// Retraction reverses exactly what the cast applied.
	cast := reputation.Deltas(reputation.Event{
		Kind: reputation.EventVoteCast, Upvote: true, AuthorID: 2,
	})
	retract := reputation.Deltas(reputation.Event{
		Kind: reputation.EventVoteRetracted, Upvote: true, AuthorID: 2,
	})
	require.Len(t, retract, 1)
	assert.Equal(t, -cast[0].Delta, retract[0].Delta)

	castDown := reputation.Deltas(reputation.Event{
		Kind: reputation.EventVoteCast, Upvote: false, AuthorID: 2,
	})
	retractDown := reputation.Deltas(reputation.Event{
		Kind: reputation.EventVoteRetracted, Upvote: false, AuthorID: 2,
	})
	assert.Equal(t, -castDown[0].Delta, retractDown[0].Delta)
}

func TestDeltas_VoteSwitched(t *testing.T) {
	t.Parallel()

	// Down to up: -(-2) + 10 = 12, as a single net adjustment.
	toUp := reputation.Deltas(reputation.Event{
		Kind: reputation.EventVoteSwitched, Upvote: true, AuthorID: 2,
	})
	require.Len(t, toUp, 1)
	assert.Equal(t, int64(reputation.UpvoteDelta-reputation.DownvoteDelta), toUp[0].Delta)

	// Up to down: -10 + (-2) = -12.
	toDown := reputation.Deltas(reputation.Event{
		Kind: reputation.EventVoteSwitched, Upvote: false, AuthorID: 2,
	})
	require.Len(t, toDown, 1)
	assert.Equal(t, int64(reputation.DownvoteDelta-reputation.UpvoteDelta), toDown[0].Delta)
}

func TestDeltas_AnswerAccepted(t *testing.T) {
	t.Parallel()

	adjustments := reputation.Deltas(reputation.Event{
		Kind: reputation.EventAnswerAccepted, ActorID: 1, AuthorID: 2,
	})
	require.Len(t, adjustments, 2)
	assert.Equal(t, reputation.Adjustment{UserID: 2, Delta: reputation.AcceptAuthorDelta}, adjustments[0])
	assert.Equal(t, reputation.Adjustment{UserID: 1, Delta: reputation.AcceptAcceptorDelta}, adjustments[1])
}

func TestDeltas_AnswerUnacceptedReversesAcceptance(t *testing.T) {
	t.Parallel()

	accepted := reputation.Deltas(reputation.Event{
		Kind: reputation.EventAnswerAccepted, ActorID: 1, AuthorID: 2,
	})
	unaccepted := reputation.Deltas(reputation.Event{
		Kind: reputation.EventAnswerUnaccepted, ActorID: 1, AuthorID: 2,
	})
	require.Len(t, unaccepted, 2)

	for i := range accepted {
		assert.Equal(t, accepted[i].UserID, unaccepted[i].UserID)
		assert.Equal(t, -accepted[i].Delta, unaccepted[i].Delta)
	}
}

func TestDeltas_SelfAcceptanceCarriesNoPoints(t *testing.T) {
	t.Parallel()

	assert.Nil(t, reputation.Deltas(reputation.Event{
		Kind: reputation.EventAnswerAccepted, ActorID: 5, AuthorID: 5,
	}))
	assert.Nil(t, reputation.Deltas(reputation.Event{
		Kind: reputation.EventAnswerUnaccepted, ActorID: 5, AuthorID: 5,
	}))
}

func TestEventKindString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "vote_cast", reputation.EventVoteCast.String())
	assert.Equal(t, "answer_unaccepted", reputation.EventAnswerUnaccepted.String())
	assert.Equal(t, "unknown", reputation.EventKind(99).String())
}
