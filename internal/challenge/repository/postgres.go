package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"reactiquiz/backend/internal/challenge/domain"
)

const challengeColumns = `id, challenger_id, challenged_id, topic_id, topic_name, difficulty,
	num_questions, question_ids, quiz_class, subject, status,
	challenger_score, challenger_percentage, challenger_time_taken,
	challenged_score, challenged_percentage, challenged_time_taken,
	winner_id, expires_at, created_at`

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a challenge repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the challenge. The challenge must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, c *domain.Challenge) error {
	questionIDs, err := json.Marshal(c.QuestionIDs)
	if err != nil {
		return err
	}
	const q = `
		INSERT INTO challenges (id, challenger_id, challenged_id, topic_id, topic_name, difficulty,
			num_questions, question_ids, quiz_class, subject, status, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err = r.db.ExecContext(ctx, q,
		c.ID, c.ChallengerID, c.ChallengedID, c.TopicID, c.TopicName, c.Difficulty,
		c.NumQuestions, questionIDs, c.QuizClass, c.Subject, string(c.Status), c.ExpiresAt, c.CreatedAt)
	return err
}

// GetByID returns the challenge for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Challenge, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+challengeColumns+` FROM challenges WHERE id = $1`, id)
	c, err := scanChallenge(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// ApplySubmission writes one side's result fields plus status and winner in one update.
func (r *PostgresRepository) ApplySubmission(ctx context.Context, id string, sub Submission) error {
	var q string
	switch sub.Side {
	case domain.SideChallenger:
		q = `UPDATE challenges
			SET challenger_score = $2, challenger_percentage = $3, challenger_time_taken = $4,
			    status = $5, winner_id = $6
			WHERE id = $1`
	case domain.SideChallenged:
		q = `UPDATE challenges
			SET challenged_score = $2, challenged_percentage = $3, challenged_time_taken = $4,
			    status = $5, winner_id = $6
			WHERE id = $1`
	default:
		return fmt.Errorf("submission side must be challenger or challenged, got %d", sub.Side)
	}
	var winner sql.NullString
	if sub.WinnerID != nil {
		winner = sql.NullString{String: *sub.WinnerID, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, q, id, sub.Score, sub.Percentage, sub.TimeTaken, string(sub.NewStatus), winner)
	return err
}

// ListByUser returns challenges where the user is challenger or challenged, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, limit, offset int32) ([]*domain.Challenge, error) {
	const q = `SELECT ` + challengeColumns + `
		FROM challenges WHERE challenger_id = $1 OR challenged_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Challenge
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChallenge(row rowScanner) (*domain.Challenge, error) {
	var (
		c           domain.Challenge
		questionIDs []byte
		status      string
		chrScore    sql.NullInt64
		chrPct      sql.NullFloat64
		chrTime     sql.NullInt64
		chdScore    sql.NullInt64
		chdPct      sql.NullFloat64
		chdTime     sql.NullInt64
		winner      sql.NullString
	)
	err := row.Scan(
		&c.ID, &c.ChallengerID, &c.ChallengedID, &c.TopicID, &c.TopicName, &c.Difficulty,
		&c.NumQuestions, &questionIDs, &c.QuizClass, &c.Subject, &status,
		&chrScore, &chrPct, &chrTime, &chdScore, &chdPct, &chdTime,
		&winner, &c.ExpiresAt, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(questionIDs, &c.QuestionIDs); err != nil {
		return nil, fmt.Errorf("challenge %s: decode question_ids: %w", c.ID, err)
	}
	c.Status = domain.Status(status)
	if chrScore.Valid {
		v := int(chrScore.Int64)
		c.ChallengerScore = &v
	}
	if chrPct.Valid {
		c.ChallengerPercentage = &chrPct.Float64
	}
	if chrTime.Valid {
		v := int(chrTime.Int64)
		c.ChallengerTimeTaken = &v
	}
	if chdScore.Valid {
		v := int(chdScore.Int64)
		c.ChallengedScore = &v
	}
	if chdPct.Valid {
		c.ChallengedPercentage = &chdPct.Float64
	}
	if chdTime.Valid {
		v := int(chdTime.Int64)
		c.ChallengedTimeTaken = &v
	}
	if winner.Valid {
		c.WinnerID = &winner.String
	}
	return &c, nil
}
