package enum

// Action represents an operation a user may attempt on a subject.
type Action int

const (
	ActionManage Action = iota
	ActionCreate
	ActionRead
	ActionUpdate
	ActionDelete
	// ActionModifyItself is an alias that expands to Create, Update and Delete
	// during policy evaluation. It never appears in a request.
	ActionModifyItself
)

// String returns the lowercase name of the action.
func (a Action) String() string {
	switch a {
	case ActionManage:
		return "manage"
	case ActionCreate:
		return "create"
	case ActionRead:
		return "read"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	case ActionModifyItself:
		return "modify_itself"
	default:
		return "unknown"
	}
}
