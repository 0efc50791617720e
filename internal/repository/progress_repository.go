package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/monuchauhan/nios-elearning/internal/domain"
)

// ProgressRepository tracks chapter visits and quiz results.
type ProgressRepository interface {
	// Touch records a visit without changing the completed flag.
	Touch(ctx context.Context, userID, chapterID string) error
	Complete(ctx context.Context, userID, chapterID string) error
	ListProgress(ctx context.Context, userID string) ([]domain.ChapterProgress, error)
	SaveQuizResult(ctx context.Context, result *domain.QuizResult) error
	// ListQuizResults returns results newest first.
	ListQuizResults(ctx context.Context, userID string) ([]domain.QuizResult, error)
}

type progressRepository struct {
	pool *pgxpool.Pool
}

// NewProgressRepository returns a Postgres-backed implementation.
func NewProgressRepository(pool *pgxpool.Pool) ProgressRepository {
	return &progressRepository{pool: pool}
}

func (r *progressRepository) Touch(ctx context.Context, userID, chapterID string) error {
	const query = `
        INSERT INTO course_progress (user_id, chapter_id)
        VALUES ($1, $2)
        ON CONFLICT (user_id, chapter_id) DO UPDATE SET last_accessed = NOW()`
	_, err := r.pool.Exec(ctx, query, userID, chapterID)
	return err
}

func (r *progressRepository) Complete(ctx context.Context, userID, chapterID string) error {
	const query = `
        INSERT INTO course_progress (user_id, chapter_id, completed)
        VALUES ($1, $2, TRUE)
        ON CONFLICT (user_id, chapter_id) DO UPDATE SET completed = TRUE, last_accessed = NOW()`
	_, err := r.pool.Exec(ctx, query, userID, chapterID)
	return err
}

func (r *progressRepository) ListProgress(ctx context.Context, userID string) ([]domain.ChapterProgress, error) {
	const query = `
        SELECT user_id, chapter_id, completed, last_accessed
        FROM course_progress WHERE user_id=$1
        ORDER BY chapter_id`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ChapterProgress
	for rows.Next() {
		var p domain.ChapterProgress
		if err := rows.Scan(&p.UserID, &p.ChapterID, &p.Completed, &p.LastAccessed); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *progressRepository) SaveQuizResult(ctx context.Context, result *domain.QuizResult) error {
	const query = `
        INSERT INTO quiz_results (user_id, chapter_id, quiz_id, score, total_questions, answers)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, completed_at`

	answers := result.Answers
	if len(answers) == 0 {
		answers = json.RawMessage(`{}`)
	}
	return r.pool.QueryRow(ctx, query,
		result.UserID,
		result.ChapterID,
		result.QuizID,
		result.Score,
		result.TotalQuestions,
		[]byte(answers),
	).Scan(&result.ID, &result.CompletedAt)
}

func (r *progressRepository) ListQuizResults(ctx context.Context, userID string) ([]domain.QuizResult, error) {
	const query = `
        SELECT id, user_id, chapter_id, quiz_id, score, total_questions, answers, completed_at
        FROM quiz_results WHERE user_id=$1
        ORDER BY completed_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.QuizResult
	for rows.Next() {
		var res domain.QuizResult
		var answers []byte
		if err := rows.Scan(
			&res.ID,
			&res.UserID,
			&res.ChapterID,
			&res.QuizID,
			&res.Score,
			&res.TotalQuestions,
			&answers,
			&res.CompletedAt,
		); err != nil {
			return nil, err
		}
		res.Answers = json.RawMessage(answers)
		out = append(out, res)
	}
	return out, rows.Err()
}
