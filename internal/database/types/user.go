package types

import (
	"errors"
	"time"

	"github.com/askaris/askaris/internal/database/types/enum"
)

var (
	ErrUserNotFound = errors.New("user not found")
	// ErrActionForbidden is returned whenever policy evaluation denies a
	// requested action.
	ErrActionForbidden = errors.New("you are not allowed to perform this action")
)

// User represents a registered forum member.
// Reputation is only ever mutated through the reputation ledger, and always
// via a storage-level increment so concurrent deltas cannot be lost.
type User struct {
	ID         int64     `bun:"id,pk,autoincrement" json:"id"`
	Name       string    `bun:",notnull"            json:"name"`
	Email      string    `bun:",notnull,unique"     json:"email"`
	Role       enum.Role `bun:",notnull"            json:"role"`
	Reputation int64     `bun:",notnull,default:0"  json:"reputation"`
	CreatedAt  time.Time `bun:",notnull"            json:"createdAt"`
	UpdatedAt  time.Time `bun:",notnull"            json:"updatedAt"`
}
