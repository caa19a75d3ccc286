package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"reactiquiz/backend/internal/result/domain"
)

const resultColumns = `id, user_id, topic_id, subject, difficulty, class, score,
	total_questions, percentage, time_taken, answers, challenge_id, created_at`

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a quiz result repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the result. The result must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, res *domain.QuizResult) error {
	answers, err := json.Marshal(res.Answers)
	if err != nil {
		return err
	}
	var challengeID sql.NullString
	if res.ChallengeID != nil {
		challengeID = sql.NullString{String: *res.ChallengeID, Valid: true}
	}
	const q = `
		INSERT INTO quiz_results (id, user_id, topic_id, subject, difficulty, class, score,
			total_questions, percentage, time_taken, answers, challenge_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err = r.db.ExecContext(ctx, q,
		res.ID, res.UserID, res.TopicID, res.Subject, res.Difficulty, res.Class, res.Score,
		res.TotalQuestions, res.Percentage, res.TimeTaken, answers, challengeID, res.CreatedAt)
	return err
}

// GetByID returns the result for id, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.QuizResult, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+resultColumns+` FROM quiz_results WHERE id = $1`, id)
	res, err := scanResult(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return res, nil
}

// ListByUser returns the user's results, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, limit, offset int32) ([]*domain.QuizResult, error) {
	const q = `SELECT ` + resultColumns + `
		FROM quiz_results WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.QuizResult
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// Delete removes the result by id.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM quiz_results WHERE id = $1`, id)
	return err
}

// SetChallengeID stamps the result with the originating challenge id.
func (r *PostgresRepository) SetChallengeID(ctx context.Context, resultID, challengeID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE quiz_results SET challenge_id = $2 WHERE id = $1`, resultID, challengeID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (*domain.QuizResult, error) {
	var (
		res         domain.QuizResult
		answers     []byte
		challengeID sql.NullString
	)
	err := row.Scan(
		&res.ID, &res.UserID, &res.TopicID, &res.Subject, &res.Difficulty, &res.Class, &res.Score,
		&res.TotalQuestions, &res.Percentage, &res.TimeTaken, &answers, &challengeID, &res.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &res.Answers); err != nil {
			return nil, fmt.Errorf("result %s: decode answers: %w", res.ID, err)
		}
	}
	if challengeID.Valid {
		res.ChallengeID = &challengeID.String
	}
	return &res, nil
}
