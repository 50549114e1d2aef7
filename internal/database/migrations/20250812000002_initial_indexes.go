package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewRaw(`
			-- Foreign keys
			ALTER TABLE questions ADD CONSTRAINT fk_questions_user
			FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE;

			ALTER TABLE answers ADD CONSTRAINT fk_answers_user
			FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE;

			ALTER TABLE answers ADD CONSTRAINT fk_answers_question
			FOREIGN KEY (question_id) REFERENCES questions (id) ON DELETE CASCADE;

			ALTER TABLE votes ADD CONSTRAINT fk_votes_user
			FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE;

			ALTER TABLE votes ADD CONSTRAINT fk_votes_question
			FOREIGN KEY (question_id) REFERENCES questions (id) ON DELETE CASCADE;

			ALTER TABLE votes ADD CONSTRAINT fk_votes_answer
			FOREIGN KEY (answer_id) REFERENCES answers (id) ON DELETE CASCADE;

			-- At most one accepted answer per question. This partial unique
			-- index is the authoritative guard; the in-transaction existence
			-- check only exists to fail with a friendly conflict first.
			CREATE UNIQUE INDEX IF NOT EXISTS answers_one_accepted_idx
			ON answers (question_id)
			WHERE is_accepted;

			-- One vote per voter per target.
			CREATE UNIQUE INDEX IF NOT EXISTS votes_user_question_idx
			ON votes (user_id, question_id)
			WHERE question_id IS NOT NULL;

			CREATE UNIQUE INDEX IF NOT EXISTS votes_user_answer_idx
			ON votes (user_id, answer_id)
			WHERE answer_id IS NOT NULL;

			-- Listing indexes
			CREATE INDEX IF NOT EXISTS idx_questions_created
			ON questions (created_at DESC);

			CREATE INDEX IF NOT EXISTS idx_answers_question
			ON answers (question_id, is_accepted DESC, created_at DESC);

			CREATE INDEX IF NOT EXISTS idx_votes_user
			ON votes (user_id, created_at DESC);
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewRaw(`
			DROP INDEX IF EXISTS idx_votes_user;
			DROP INDEX IF EXISTS idx_answers_question;
			DROP INDEX IF EXISTS idx_questions_created;
			DROP INDEX IF EXISTS votes_user_answer_idx;
			DROP INDEX IF EXISTS votes_user_question_idx;
			DROP INDEX IF EXISTS answers_one_accepted_idx;
			ALTER TABLE votes DROP CONSTRAINT IF EXISTS fk_votes_answer;
			ALTER TABLE votes DROP CONSTRAINT IF EXISTS fk_votes_question;
			ALTER TABLE votes DROP CONSTRAINT IF EXISTS fk_votes_user;
			ALTER TABLE answers DROP CONSTRAINT IF EXISTS fk_answers_question;
			ALTER TABLE answers DROP CONSTRAINT IF EXISTS fk_answers_user;
			ALTER TABLE questions DROP CONSTRAINT IF EXISTS fk_questions_user;
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop indexes: %w", err)
		}

		return nil
	})
}
