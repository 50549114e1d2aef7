package auth_test

import (
	"testing"

	"github.com/askaris/askaris/internal/auth"
	"github.com/askaris/askaris/internal/database/types"
	"github.com/askaris/askaris/internal/database/types/enum"
	"github.com/stretchr/testify/assert"
)

func testUser(id int64, role enum.Role) *types.User {
	return &types.User{ID: id, Name: "user", Role: role}
}

func TestAdminCanManageEverything(t *testing.T) {
	t.Parallel()

	ability := auth.NewAbility(testUser(1, enum.RoleAdmin))

	otherQuestion := auth.QuestionSubject(&types.Question{ID: 10, UserID: 99})
	otherUser := auth.UserSubject(&types.User{ID: 99})

	assert.True(t, ability.Can(enum.ActionDelete, otherQuestion))
	assert.True(t, ability.Can(enum.ActionUpdate, otherQuestion))
	assert.True(t, ability.Can(enum.ActionDelete, otherUser))
	assert.True(t, ability.Can(enum.ActionUpdate, otherUser))
	assert.True(t, ability.CanType(enum.ActionManage, enum.SubjectTag))
}

func TestModeratorRules(t *testing.T) {
	t.Parallel()

	ability := auth.NewAbility(testUser(2, enum.RoleModerator))

	ownQuestion := auth.QuestionSubject(&types.Question{ID: 10, UserID: 2})
	otherQuestion := auth.QuestionSubject(&types.Question{ID: 11, UserID: 99})

	// Full control over tags, read access to everything.
	assert.True(t, ability.CanType(enum.ActionCreate, enum.SubjectTag))
	assert.True(t, ability.CanType(enum.ActionDelete, enum.SubjectTag))
	assert.True(t, ability.Can(enum.ActionRead, otherQuestion))

	// Own content only for writes.
	assert.True(t, ability.Can(enum.ActionUpdate, ownQuestion))
	assert.True(t, ability.Can(enum.ActionDelete, ownQuestion))
	assert.False(t, ability.Can(enum.ActionUpdate, otherQuestion))
	assert.False(t, ability.Can(enum.ActionDelete, otherQuestion))

	// Profile updates are self-only.
	assert.True(t, ability.Can(enum.ActionUpdate, auth.UserSubject(&types.User{ID: 2})))
	assert.False(t, ability.Can(enum.ActionUpdate, auth.UserSubject(&types.User{ID: 99})))

	// Account deletion is denied outright, own account included.
	assert.False(t, ability.Can(enum.ActionDelete, auth.UserSubject(&types.User{ID: 2})))
	assert.False(t, ability.Can(enum.ActionDelete, auth.UserSubject(&types.User{ID: 99})))
	assert.False(t, ability.CanType(enum.ActionDelete, enum.SubjectUser))
}

func TestUserRules(t *testing.T) {
	t.Parallel()

	ability := auth.NewAbility(testUser(3, enum.RoleUser))

	ownAnswer := auth.AnswerSubject(&types.Answer{ID: 20, UserID: 3})
	otherAnswer := auth.AnswerSubject(&types.Answer{ID: 21, UserID: 99})

	assert.True(t, ability.Can(enum.ActionRead, otherAnswer))
	assert.True(t, ability.Can(enum.ActionUpdate, ownAnswer))
	assert.True(t, ability.Can(enum.ActionDelete, ownAnswer))
	assert.False(t, ability.Can(enum.ActionUpdate, otherAnswer))
	assert.False(t, ability.Can(enum.ActionDelete, otherAnswer))

	// No tag management for regular users.
	assert.False(t, ability.CanType(enum.ActionCreate, enum.SubjectTag))
	assert.False(t, ability.CanType(enum.ActionDelete, enum.SubjectTag))

	// No account deletion, period.
	assert.False(t, ability.Can(enum.ActionDelete, auth.UserSubject(&types.User{ID: 3})))
}

func TestUserCannotVoteOwnContent(t *testing.T) {
	t.Parallel()

	ability := auth.NewAbility(testUser(3, enum.RoleUser))

	voteOnOther := auth.VoteSubject(&types.Vote{ID: 30, UserID: 3}, 99)
	voteOnSelf := auth.VoteSubject(&types.Vote{ID: 31, UserID: 3}, 3)

	assert.True(t, ability.Can(enum.ActionCreate, voteOnOther))
	assert.False(t, ability.Can(enum.ActionCreate, voteOnSelf),
		"voting on one's own content must be denied")

	// The deny is predicated on the vote target, so type-level vote
	// capability stays intact.
	assert.True(t, ability.CanType(enum.ActionCreate, enum.SubjectVote))
}

func TestUserFieldScopedAcceptance(t *testing.T) {
	t.Parallel()

	ability := auth.NewAbility(testUser(3, enum.RoleUser))

	otherAnswer := auth.AnswerSubject(&types.Answer{ID: 21, UserID: 99})

	// Flipping only the acceptance flag on someone else's answer is allowed.
	accepted := otherAnswer
	accepted.Fields = []string{"is_accepted"}
	assert.True(t, ability.Can(enum.ActionUpdate, accepted))

	// Touching any other field alongside it is not.
	mixed := otherAnswer
	mixed.Fields = []string{"is_accepted", "body"}
	assert.False(t, ability.Can(enum.ActionUpdate, mixed))

	// A full-entity update of someone else's answer stays forbidden.
	assert.False(t, ability.Can(enum.ActionUpdate, otherAnswer))
}

func TestUnknownRoleIsReadOnly(t *testing.T) {
	t.Parallel()

	ability := auth.NewAbility(testUser(4, enum.Role(42)))

	question := auth.QuestionSubject(&types.Question{ID: 10, UserID: 4})

	assert.True(t, ability.Can(enum.ActionRead, question))
	assert.False(t, ability.Can(enum.ActionCreate, question))
	assert.False(t, ability.Can(enum.ActionUpdate, question))
	assert.False(t, ability.Can(enum.ActionDelete, question))
	assert.False(t, ability.CanType(enum.ActionCreate, enum.SubjectQuestion))
}

func TestDenyWinsOverAllow(t *testing.T) {
	t.Parallel()

	// A moderator's allow-read-all never overrides the user-deletion deny,
	// regardless of rule ordering.
	ability := auth.NewAbility(testUser(2, enum.RoleModerator))

	assert.True(t, ability.Can(enum.ActionRead, auth.UserSubject(&types.User{ID: 99})))
	assert.False(t, ability.Can(enum.ActionDelete, auth.UserSubject(&types.User{ID: 99})))
}

func TestCanMatrix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		role    enum.Role
		action  enum.Action
		subject enum.Subject
		want    bool
	}{
		{"admin creates questions", enum.RoleAdmin, enum.ActionCreate, enum.SubjectQuestion, true},
		{"admin deletes users", enum.RoleAdmin, enum.ActionDelete, enum.SubjectUser, true},
		{"moderator creates questions", enum.RoleModerator, enum.ActionCreate, enum.SubjectQuestion, true},
		{"moderator deletes users", enum.RoleModerator, enum.ActionDelete, enum.SubjectUser, false},
		{"user creates answers", enum.RoleUser, enum.ActionCreate, enum.SubjectAnswer, true},
		{"user reads users", enum.RoleUser, enum.ActionRead, enum.SubjectUser, true},
		{"user deletes users", enum.RoleUser, enum.ActionDelete, enum.SubjectUser, false},
		{"user manages tags", enum.RoleUser, enum.ActionManage, enum.SubjectTag, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ability := auth.NewAbility(testUser(7, tt.role))
			assert.Equal(t, tt.want, ability.CanType(tt.action, tt.subject))
		})
	}
}
