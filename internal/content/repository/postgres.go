package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"reactiquiz/backend/internal/content/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a content repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListSubjects returns all subjects in display order.
func (r *PostgresRepository) ListSubjects(ctx context.Context) ([]*domain.Subject, error) {
	const q = `SELECT id, name, description, display_order FROM subjects ORDER BY display_order, name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Subject
	for rows.Next() {
		var s domain.Subject
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.DisplayOrder); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// ListTopicsBySubject returns the subject's topics ordered by name.
func (r *PostgresRepository) ListTopicsBySubject(ctx context.Context, subjectID string) ([]*domain.Topic, error) {
	const q = `SELECT id, subject_id, name, class, genre FROM topics WHERE subject_id = $1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Topic
	for rows.Next() {
		var t domain.Topic
		if err := rows.Scan(&t.ID, &t.SubjectID, &t.Name, &t.Class, &t.Genre); err != nil {
			return nil, err
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

// GetTopic returns the topic for id, or nil if not found.
func (r *PostgresRepository) GetTopic(ctx context.Context, id string) (*domain.Topic, error) {
	const q = `SELECT id, subject_id, name, class, genre FROM topics WHERE id = $1`
	var t domain.Topic
	err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.SubjectID, &t.Name, &t.Class, &t.Genre)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// ListQuestionsByTopic returns all questions of the topic.
func (r *PostgresRepository) ListQuestionsByTopic(ctx context.Context, topicID string) ([]*domain.Question, error) {
	const q = `SELECT id, topic_id, text, options, correct_option, difficulty, explanation
		FROM questions WHERE topic_id = $1`
	rows, err := r.db.QueryContext(ctx, q, topicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Question
	for rows.Next() {
		var (
			question domain.Question
			options  []byte
		)
		if err := rows.Scan(&question.ID, &question.TopicID, &question.Text, &options,
			&question.CorrectOption, &question.Difficulty, &question.Explanation); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(options, &question.Options); err != nil {
			return nil, fmt.Errorf("question %s: decode options: %w", question.ID, err)
		}
		out = append(out, &question)
	}
	return out, rows.Err()
}

// UpsertSubject inserts or updates the subject by id.
func (r *PostgresRepository) UpsertSubject(ctx context.Context, s *domain.Subject) error {
	const q = `
		INSERT INTO subjects (id, name, description, display_order)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, description = EXCLUDED.description, display_order = EXCLUDED.display_order`
	_, err := r.db.ExecContext(ctx, q, s.ID, s.Name, s.Description, s.DisplayOrder)
	return err
}

// UpsertTopic inserts or updates the topic by id.
func (r *PostgresRepository) UpsertTopic(ctx context.Context, t *domain.Topic) error {
	const q = `
		INSERT INTO topics (id, subject_id, name, class, genre)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET subject_id = EXCLUDED.subject_id, name = EXCLUDED.name,
		    class = EXCLUDED.class, genre = EXCLUDED.genre`
	_, err := r.db.ExecContext(ctx, q, t.ID, t.SubjectID, t.Name, t.Class, t.Genre)
	return err
}

// UpsertQuestion inserts or updates the question by id.
func (r *PostgresRepository) UpsertQuestion(ctx context.Context, question *domain.Question) error {
	options, err := json.Marshal(question.Options)
	if err != nil {
		return err
	}
	const q = `
		INSERT INTO questions (id, topic_id, text, options, correct_option, difficulty, explanation)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET topic_id = EXCLUDED.topic_id, text = EXCLUDED.text, options = EXCLUDED.options,
		    correct_option = EXCLUDED.correct_option, difficulty = EXCLUDED.difficulty,
		    explanation = EXCLUDED.explanation`
	_, err = r.db.ExecContext(ctx, q,
		question.ID, question.TopicID, question.Text, options,
		question.CorrectOption, question.Difficulty, question.Explanation)
	return err
}
