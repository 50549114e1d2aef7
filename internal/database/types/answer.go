package types

import (
	"errors"
	"time"
)

var (
	ErrAnswerNotFound = errors.New("answer not found")
	// ErrAcceptedAnswerExists is returned when a question already has an
	// accepted answer at acceptance time.
	ErrAcceptedAnswerExists = errors.New("an accepted answer already exists for this question")
)

// Answer represents an answer posted under a question.
// Invariant: at most one answer per question may have IsAccepted set; the
// answers_one_accepted_idx partial unique index is the authoritative guard.
type Answer struct {
	ID         int64  `bun:"id,pk,autoincrement"    json:"id"`
	QuestionID int64  `bun:",notnull"               json:"questionId"`
	UserID     int64  `bun:",notnull"               json:"userId"`
	Body       string `bun:",notnull"               json:"body"`
	IsAccepted bool   `bun:",notnull,default:false" json:"isAccepted"`
	// AcceptedBy records who accepted the answer so un-acceptance can reverse
	// the exact deltas that were applied. Nil while pending.
	AcceptedBy *int64    `bun:"accepted_by" json:"acceptedBy,omitempty"`
	CreatedAt  time.Time `bun:",notnull"    json:"createdAt"`
	UpdatedAt  time.Time `bun:",notnull"    json:"updatedAt"`
}
