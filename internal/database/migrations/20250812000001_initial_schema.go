package migrations

import (
	"context"
	"fmt"

	"github.com/askaris/askaris/internal/database/types"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		models := []any{
			(*types.User)(nil),
			(*types.Question)(nil),
			(*types.Answer)(nil),
			(*types.Vote)(nil),
			(*types.Tag)(nil),
		}

		for _, model := range models {
			_, err := db.NewCreateTable().
				Model(model).
				IfNotExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to create table %T: %w", model, err)
			}
		}

		// A vote references exactly one target.
		_, err := db.NewRaw(`
			ALTER TABLE votes ADD CONSTRAINT votes_target_check
			CHECK ((question_id IS NULL) != (answer_id IS NULL))
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to add vote target constraint: %w", err)
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		tables := []string{"votes", "answers", "questions", "tags", "users"}

		for _, table := range tables {
			_, err := db.NewDropTable().
				TableExpr(table).
				IfExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to drop table %s: %w", table, err)
			}
		}

		return nil
	})
}
