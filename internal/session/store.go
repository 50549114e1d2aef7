// Package session implements the identity-provider collaborator: it maps
// opaque bearer tokens to authenticated user IDs. The policy layer never
// trusts anything else from the request; roles are re-read from storage at
// evaluation time.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

// ErrSessionNotFound is returned when a token is unknown or expired.
var ErrSessionNotFound = errors.New("session not found")

// TTL is how long a session stays valid without renewal.
const TTL = 24 * time.Hour

const keyPrefix = "session:"

// Store persists sessions in Redis.
type Store struct {
	client rueidis.Client
	logger *zap.Logger
}

// NewStore creates a new session store.
func NewStore(client rueidis.Client, logger *zap.Logger) *Store {
	return &Store{
		client: client,
		logger: logger.Named("session"),
	}
}

// Create issues a fresh token for the user.
func (s *Store) Create(ctx context.Context, userID int64) (string, error) {
	token := uuid.New().String()

	cmd := s.client.B().Set().
		Key(keyPrefix + token).
		Value(strconv.FormatInt(userID, 10)).
		Ex(TTL).
		Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	s.logger.Debug("Session created", zap.Int64("userID", userID))

	return token, nil
}

// Lookup resolves a token to the user it belongs to.
func (s *Store) Lookup(ctx context.Context, token string) (int64, error) {
	cmd := s.client.B().Get().Key(keyPrefix + token).Build()

	value, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return 0, ErrSessionNotFound
		}
		return 0, fmt.Errorf("failed to look up session: %w", err)
	}

	userID, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt session value: %w", err)
	}

	return userID, nil
}

// Delete revokes a token. Deleting an unknown token is not an error.
func (s *Store) Delete(ctx context.Context, token string) error {
	cmd := s.client.B().Del().Key(keyPrefix + token).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}
