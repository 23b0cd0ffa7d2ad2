package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"sheet-quiz/internal/domain"
)

// QuestionLoader reads question rows for a sheet from Postgres, in sheet order.
// It mirrors the spreadsheet layout: one row per question, four option columns and the answer text.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

func (l *QuestionLoader) FetchQuestions(ctx context.Context, sourceKey string) ([]domain.Question, error) {
	rows, err := l.pool.Query(ctx, `
SELECT prompt, option1, option2, option3, option4, answer
FROM questions
WHERE sheet = $1
ORDER BY position`, sourceKey)
	if err != nil {
		return nil, fmt.Errorf("%w: query questions: %v", domain.ErrTransport, err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var (
			q    domain.Question
			opts [domain.OptionsPerQuestion]string
		)
		if err := rows.Scan(&q.Prompt, &opts[0], &opts[1], &opts[2], &opts[3], &q.Correct); err != nil {
			return nil, fmt.Errorf("%w: scan question: %v", domain.ErrTransport, err)
		}
		q.Options = opts[:]
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read questions: %v", domain.ErrTransport, err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w for sheet %q", domain.ErrEmptyResult, sourceKey)
	}
	return questions, nil
}

// SaveQuestions replaces the rows of a sheet. Used by seeding and tests.
func (l *QuestionLoader) SaveQuestions(ctx context.Context, sourceKey string, questions []domain.Question) error {
	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM questions WHERE sheet = $1`, sourceKey); err != nil {
		return fmt.Errorf("clear sheet: %w", err)
	}
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
		_, err := tx.Exec(ctx, `
INSERT INTO questions (sheet, position, prompt, option1, option2, option3, option4, answer)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			sourceKey, i, q.Prompt, q.Options[0], q.Options[1], q.Options[2], q.Options[3], q.Correct)
		if err != nil {
			return fmt.Errorf("insert question %d: %w", i+1, err)
		}
	}
	return tx.Commit(ctx)
}
