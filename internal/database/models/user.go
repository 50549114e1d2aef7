package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/askaris/askaris/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// UserModel handles database operations for users.
type UserModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewUser creates a new user model.
func NewUser(db *bun.DB, logger *zap.Logger) *UserModel {
	return &UserModel{
		db:     db,
		logger: logger.Named("db_user"),
	}
}

// GetUserByID retrieves a user by their ID.
func (r *UserModel) GetUserByID(ctx context.Context, id int64) (*types.User, error) {
	user := new(types.User)

	err := r.db.NewSelect().
		Model(user).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// CreateUser inserts a new user row.
func (r *UserModel) CreateUser(ctx context.Context, user *types.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.NewInsert().
		Model(user).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// UpdateUserName updates a user's display name.
func (r *UserModel) UpdateUserName(ctx context.Context, id int64, name string) (*types.User, error) {
	user := new(types.User)

	res, err := r.db.NewUpdate().
		Model(user).
		Set("name = ?", name).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return nil, types.ErrUserNotFound
	}

	return user, nil
}

// DeleteUser removes a user row.
func (r *UserModel) DeleteUser(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().
		Model((*types.User)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return types.ErrUserNotFound
	}

	return nil
}

// GetUserIDs returns the IDs of all users, ordered ascending.
func (r *UserModel) GetUserIDs(ctx context.Context) ([]int64, error) {
	var ids []int64

	err := r.db.NewSelect().
		Model((*types.User)(nil)).
		Column("id").
		Order("id ASC").
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get user IDs: %w", err)
	}

	return ids, nil
}
