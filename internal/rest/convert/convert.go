// Package convert maps database rows to REST API types.
package convert

import (
	"github.com/askaris/askaris/internal/database/types"
	restTypes "github.com/askaris/askaris/internal/rest/types"
)

// User converts a user row to its API shape. Email stays internal.
func User(u *types.User) restTypes.User {
	return restTypes.User{
		ID:         u.ID,
		Name:       u.Name,
		Role:       u.Role.String(),
		Reputation: u.Reputation,
	}
}

// Question converts a question row to its API shape.
func Question(q *types.Question) restTypes.Question {
	return restTypes.Question{
		ID:        q.ID,
		UserID:    q.UserID,
		Title:     q.Title,
		Body:      q.Body,
		CreatedAt: q.CreatedAt,
	}
}

// Answer converts an answer row to its API shape.
func Answer(a *types.Answer) restTypes.Answer {
	return restTypes.Answer{
		ID:         a.ID,
		QuestionID: a.QuestionID,
		UserID:     a.UserID,
		Body:       a.Body,
		IsAccepted: a.IsAccepted,
		CreatedAt:  a.CreatedAt,
	}
}

// Vote converts a vote row to its API shape.
func Vote(v *types.Vote) restTypes.Vote {
	return restTypes.Vote{
		ID:         v.ID,
		UserID:     v.UserID,
		QuestionID: v.QuestionID,
		AnswerID:   v.AnswerID,
		IsUpvoted:  v.IsUpvoted,
	}
}
