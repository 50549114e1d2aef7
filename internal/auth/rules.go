package auth

import (
	"slices"

	"github.com/askaris/askaris/internal/database/types/enum"
)

type effect int

const (
	allow effect = iota
	deny
)

// rule is one row of the policy table. Rules are data, not control flow;
// adding a role or a rule never touches the matcher.
type rule struct {
	effect   effect
	actions  []enum.Action
	subjects []enum.Subject
	// ownerOnly requires subject.OwnerID == actor ID.
	ownerOnly bool
	// targetOwner requires subject.TargetOwnerID == actor ID (vote subjects).
	targetOwner bool
	// fields restricts the rule to mutations touching only the listed fields.
	fields []string
}

var (
	ownContent = []enum.Subject{enum.SubjectQuestion, enum.SubjectAnswer, enum.SubjectVote}

	adminRules = expandRules([]rule{
		{effect: allow, actions: actions(enum.ActionManage), subjects: subjects(enum.SubjectAll)},
	})

	moderatorRules = expandRules([]rule{
		{effect: deny, actions: actions(enum.ActionDelete), subjects: subjects(enum.SubjectUser)},
		{effect: allow, actions: actions(enum.ActionManage), subjects: subjects(enum.SubjectTag)},
		{effect: allow, actions: actions(enum.ActionRead), subjects: subjects(enum.SubjectAll)},
		{effect: allow, actions: actions(enum.ActionUpdate), subjects: subjects(enum.SubjectUser), ownerOnly: true},
		{effect: allow, actions: actions(enum.ActionModifyItself), subjects: ownContent, ownerOnly: true},
	})

	userRules = expandRules([]rule{
		{effect: deny, actions: actions(enum.ActionDelete), subjects: subjects(enum.SubjectUser)},
		{effect: deny, actions: actions(enum.ActionCreate), subjects: subjects(enum.SubjectVote), targetOwner: true},
		{effect: allow, actions: actions(enum.ActionRead), subjects: subjects(enum.SubjectAll)},
		{effect: allow, actions: actions(enum.ActionUpdate), subjects: subjects(enum.SubjectUser), ownerOnly: true},
		{effect: allow, actions: actions(enum.ActionModifyItself), subjects: ownContent, ownerOnly: true},
		{effect: allow, actions: actions(enum.ActionUpdate), subjects: subjects(enum.SubjectAnswer), fields: []string{"is_accepted"}},
	})

	// Unrecognized roles are read-only on public content and may write nothing.
	fallbackRules = expandRules([]rule{
		{effect: allow, actions: actions(enum.ActionRead), subjects: ownContent},
	})
)

// rulesForRole selects the rule set for a role. Roles are evaluated
// independently per request, so rule sets never combine.
func rulesForRole(role enum.Role) []rule {
	switch role {
	case enum.RoleAdmin:
		return adminRules
	case enum.RoleModerator:
		return moderatorRules
	case enum.RoleUser:
		return userRules
	default:
		return fallbackRules
	}
}

func actions(a ...enum.Action) []enum.Action { return a }

func subjects(s ...enum.Subject) []enum.Subject { return s }

// expandActions resolves aliases to concrete actions. ActionManage stays as
// is and additionally covers every concrete action; ActionModifyItself
// expands to Create, Update and Delete.
func expandActions(in []enum.Action) []enum.Action {
	out := make([]enum.Action, 0, len(in)+2)
	for _, a := range in {
		switch a {
		case enum.ActionManage:
			out = append(out,
				enum.ActionManage, enum.ActionCreate, enum.ActionRead,
				enum.ActionUpdate, enum.ActionDelete)
		case enum.ActionModifyItself:
			out = append(out, enum.ActionCreate, enum.ActionUpdate, enum.ActionDelete)
		default:
			out = append(out, a)
		}
	}

	// Drop duplicates so rule matching stays order-independent.
	slices.Sort(out)
	return slices.Compact(out)
}

// expandRules applies alias expansion to every rule ahead of time, so the
// matcher only ever sees concrete actions.
func expandRules(rules []rule) []rule {
	out := make([]rule, len(rules))
	for i, r := range rules {
		r.actions = expandActions(r.actions)
		out[i] = r
	}
	return out
}
