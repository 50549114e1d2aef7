// Package auth implements the capability-based policy evaluator and the
// permission guard that fronts every mutating workflow.
package auth

import (
	"slices"

	"github.com/askaris/askaris/internal/database/types"
	"github.com/askaris/askaris/internal/database/types/enum"
)

// Subject is an entity instance (or bare type) handed to the policy
// evaluator. The Type tag is explicit; evaluation never inspects the runtime
// type of the underlying row.
type Subject struct {
	Type enum.Subject
	// ID is the instance's primary key, zero for type-level checks.
	ID int64
	// OwnerID is the user that owns the instance. For User subjects this is
	// the record's own ID.
	OwnerID int64
	// TargetOwnerID is set on Vote subjects only: the owner of the content
	// the vote points at. Drives the no-self-voting deny rule.
	TargetOwnerID int64
	// Fields lists the field names a mutation touches, for field-scoped
	// update rules. Empty means the whole entity.
	Fields []string
}

// UserSubject builds a Subject from a user row. A user owns their own record.
func UserSubject(u *types.User) Subject {
	return Subject{Type: enum.SubjectUser, ID: u.ID, OwnerID: u.ID}
}

// QuestionSubject builds a Subject from a question row.
func QuestionSubject(q *types.Question) Subject {
	return Subject{Type: enum.SubjectQuestion, ID: q.ID, OwnerID: q.UserID}
}

// AnswerSubject builds a Subject from an answer row.
func AnswerSubject(a *types.Answer) Subject {
	return Subject{Type: enum.SubjectAnswer, ID: a.ID, OwnerID: a.UserID}
}

// VoteSubject builds a Subject from a vote row plus the owner of the voted
// content, which the caller resolves from persisted state.
func VoteSubject(v *types.Vote, targetOwnerID int64) Subject {
	return Subject{Type: enum.SubjectVote, ID: v.ID, OwnerID: v.UserID, TargetOwnerID: targetOwnerID}
}

// Ability is the per-request capability set produced by policy evaluation.
// It is ephemeral and never persisted.
type Ability struct {
	actorID int64
	rules   []rule
}

// NewAbility evaluates the rule table for the acting user and returns their
// capability set. The role is read once, at evaluation time.
func NewAbility(actor *types.User) *Ability {
	return &Ability{
		actorID: actor.ID,
		rules:   rulesForRole(actor.Role),
	}
}

// Can reports whether the actor may perform action on the given subject
// instance. An explicit deny always wins over any allow.
func (a *Ability) Can(action enum.Action, sub Subject) bool {
	for _, r := range a.rules {
		if r.effect == deny && r.matches(a.actorID, action, sub) {
			return false
		}
	}
	for _, r := range a.rules {
		if r.effect == allow && r.matches(a.actorID, action, sub) {
			return true
		}
	}
	return false
}

// CanType reports whether the actor could perform action on some instance of
// the subject type. Ownership and field predicates are treated as satisfiable;
// only predicate-free deny rules apply.
func (a *Ability) CanType(action enum.Action, subjectType enum.Subject) bool {
	for _, r := range a.rules {
		if r.effect == deny && !r.ownerOnly && !r.targetOwner && len(r.fields) == 0 &&
			r.matchesType(action, subjectType) {
			return false
		}
	}
	for _, r := range a.rules {
		if r.effect == allow && r.matchesType(action, subjectType) {
			return true
		}
	}
	return false
}

// matchesType checks the action and subject-type columns of a rule.
func (r *rule) matchesType(action enum.Action, subjectType enum.Subject) bool {
	return slices.Contains(r.actions, action) &&
		(slices.Contains(r.subjects, enum.SubjectAll) || slices.Contains(r.subjects, subjectType))
}

// matches applies the full rule, attribute predicates included, against an
// instance.
func (r *rule) matches(actorID int64, action enum.Action, sub Subject) bool {
	if !r.matchesType(action, sub.Type) {
		return false
	}

	if r.ownerOnly && sub.OwnerID != actorID {
		return false
	}

	if r.targetOwner && sub.TargetOwnerID != actorID {
		return false
	}

	// Field-scoped rules match only when every touched field is covered.
	if len(r.fields) > 0 {
		if len(sub.Fields) == 0 {
			return false
		}
		for _, f := range sub.Fields {
			if !slices.Contains(r.fields, f) {
				return false
			}
		}
	}

	return true
}
