package service

import (
	"errors"

	"github.com/uptrace/bun/driver/pgdriver"
)

// pgUniqueViolation is the PostgreSQL error code the workflows translate
// into domain Conflict errors.
const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgerr pgdriver.Error
	if errors.As(err, &pgerr) {
		return pgerr.Field('C') == pgUniqueViolation
	}

	return false
}
