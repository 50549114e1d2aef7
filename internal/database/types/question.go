package types

import (
	"errors"
	"time"
)

var ErrQuestionNotFound = errors.New("question not found")

// Question represents a posted question.
type Question struct {
	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID    int64     `bun:",notnull"            json:"userId"`
	Title     string    `bun:",notnull"            json:"title"`
	Body      string    `bun:",notnull"            json:"body"`
	CreatedAt time.Time `bun:",notnull"            json:"createdAt"`
	UpdatedAt time.Time `bun:",notnull"            json:"updatedAt"`
}

// Tag represents a question label. Tag CRUD carries no reputation or
// ownership logic; the type exists for schema and policy subjects.
type Tag struct {
	ID   int64  `bun:"id,pk,autoincrement" json:"id"`
	Name string `bun:",notnull,unique"     json:"name"`
}
