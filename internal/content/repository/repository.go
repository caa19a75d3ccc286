package repository

import (
	"context"

	"reactiquiz/backend/internal/content/domain"
)

// Repository defines persistence for quiz content: subjects, topics, questions.
type Repository interface {
	ListSubjects(ctx context.Context) ([]*domain.Subject, error)
	ListTopicsBySubject(ctx context.Context, subjectID string) ([]*domain.Topic, error)
	GetTopic(ctx context.Context, id string) (*domain.Topic, error)
	ListQuestionsByTopic(ctx context.Context, topicID string) ([]*domain.Question, error)

	// Admin-side upserts.
	UpsertSubject(ctx context.Context, s *domain.Subject) error
	UpsertTopic(ctx context.Context, t *domain.Topic) error
	UpsertQuestion(ctx context.Context, q *domain.Question) error
}
