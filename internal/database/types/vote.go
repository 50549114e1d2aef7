package types

import (
	"errors"
	"time"

	"github.com/askaris/askaris/internal/database/types/enum"
)

var (
	ErrVoteNotFound = errors.New("vote not found")
	// ErrSelfVote is returned when a user attempts to vote on content they own.
	ErrSelfVote = errors.New("voting on your own content is not allowed")
	// ErrDuplicateVote is returned when a voter already has a vote on the target.
	ErrDuplicateVote = errors.New("a vote for this target already exists")
	// ErrVoteTargetRequired is returned when a vote references neither a
	// question nor an answer, or references both.
	ErrVoteTargetRequired = errors.New("vote must reference exactly one question or answer")
)

// Vote represents a single up or down vote on a question or an answer.
// Exactly one of QuestionID/AnswerID is set; the votes_target_check constraint
// enforces this at the schema level.
type Vote struct {
	ID         int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID     int64     `bun:",notnull"            json:"userId"`
	QuestionID *int64    `bun:"question_id"         json:"questionId,omitempty"`
	AnswerID   *int64    `bun:"answer_id"           json:"answerId,omitempty"`
	IsUpvoted  bool      `bun:",notnull"            json:"isUpvoted"`
	CreatedAt  time.Time `bun:",notnull"            json:"createdAt"`
	UpdatedAt  time.Time `bun:",notnull"            json:"updatedAt"`
}

// Target returns the kind of content the vote is attached to and its ID.
func (v *Vote) Target() (enum.VoteTarget, int64, error) {
	switch {
	case v.QuestionID != nil && v.AnswerID == nil:
		return enum.VoteTargetQuestion, *v.QuestionID, nil
	case v.AnswerID != nil && v.QuestionID == nil:
		return enum.VoteTargetAnswer, *v.AnswerID, nil
	default:
		return 0, 0, ErrVoteTargetRequired
	}
}
