package enum

// Role represents a user's rank, which determines their default capability scope.
type Role int

const (
	RoleAdmin Role = iota + 1
	RoleModerator
	RoleUser
)

// String returns the lowercase name of the role.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleModerator:
		return "moderator"
	case RoleUser:
		return "user"
	default:
		return "unknown"
	}
}

// Valid reports whether the role is one of the recognized ranks.
func (r Role) Valid() bool {
	return r >= RoleAdmin && r <= RoleUser
}
