// Package types defines the REST API request and response shapes.
package types

import "time"

// User is the API representation of a forum member.
type User struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Reputation int64  `json:"reputation"`
}

// Question is the API representation of a question.
type Question struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// Answer is the API representation of an answer.
type Answer struct {
	ID         int64     `json:"id"`
	QuestionID int64     `json:"questionId"`
	UserID     int64     `json:"userId"`
	Body       string    `json:"body"`
	IsAccepted bool      `json:"isAccepted"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Vote is the API representation of a vote.
type Vote struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"userId"`
	QuestionID *int64 `json:"questionId,omitempty"`
	AnswerID   *int64 `json:"answerId,omitempty"`
	IsUpvoted  bool   `json:"isUpvoted"`
}

// CreateQuestionRequest is the body for POST /v1/questions.
type CreateQuestionRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// CreateAnswerRequest is the body for POST /v1/answers.
type CreateAnswerRequest struct {
	QuestionID int64  `json:"questionId"`
	Body       string `json:"body"`
}

// CreateVoteRequest is the body for POST /v1/votes.
type CreateVoteRequest struct {
	QuestionID *int64 `json:"questionId,omitempty"`
	AnswerID   *int64 `json:"answerId,omitempty"`
	IsUpvoted  bool   `json:"isUpvoted"`
}

// UpdateVoteRequest is the body for PATCH /v1/votes/{id}.
type UpdateVoteRequest struct {
	IsUpvoted bool `json:"isUpvoted"`
}

// SetAcceptedRequest is the body for PATCH /v1/answers/{id}/accepted.
type SetAcceptedRequest struct {
	IsAccepted bool `json:"isAccepted"`
}

// UpdateUserRequest is the body for PATCH /v1/users/{id}.
type UpdateUserRequest struct {
	Name string `json:"name"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
