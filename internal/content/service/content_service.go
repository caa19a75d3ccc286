package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"reactiquiz/backend/internal/content/domain"
	contentrepo "reactiquiz/backend/internal/content/repository"
)

// Sentinel errors for the content service.
var (
	ErrNotFound   = errors.New("topic not found")
	ErrValidation = errors.New("validation failed")
)

// ContentService serves quiz content and handles admin-side upserts.
type ContentService struct {
	repo contentrepo.Repository
}

// NewContentService returns a ContentService backed by repo.
func NewContentService(repo contentrepo.Repository) *ContentService {
	return &ContentService{repo: repo}
}

// ListSubjects returns all subjects ordered for display.
func (s *ContentService) ListSubjects(ctx context.Context) ([]*domain.Subject, error) {
	return s.repo.ListSubjects(ctx)
}

// ListTopics returns the topics of a subject.
func (s *ContentService) ListTopics(ctx context.Context, subjectID string) ([]*domain.Topic, error) {
	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" {
		return nil, fmt.Errorf("%w: subjectId is required", ErrValidation)
	}
	return s.repo.ListTopicsBySubject(ctx, subjectID)
}

// ListQuestions returns a topic's question pool. The topic must exist.
func (s *ContentService) ListQuestions(ctx context.Context, topicID string) ([]*domain.Question, error) {
	topicID = strings.TrimSpace(topicID)
	if topicID == "" {
		return nil, fmt.Errorf("%w: topicId is required", ErrValidation)
	}
	topic, err := s.repo.GetTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	if topic == nil {
		return nil, ErrNotFound
	}
	return s.repo.ListQuestionsByTopic(ctx, topicID)
}

// UpsertSubject creates or replaces a subject. Admin-only at the route level.
func (s *ContentService) UpsertSubject(ctx context.Context, sub *domain.Subject) error {
	if sub == nil || strings.TrimSpace(sub.ID) == "" || strings.TrimSpace(sub.Name) == "" {
		return fmt.Errorf("%w: subject id and name are required", ErrValidation)
	}
	return s.repo.UpsertSubject(ctx, sub)
}

// UpsertTopic creates or replaces a topic. Admin-only at the route level.
func (s *ContentService) UpsertTopic(ctx context.Context, t *domain.Topic) error {
	if t == nil || strings.TrimSpace(t.ID) == "" || strings.TrimSpace(t.SubjectID) == "" || strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: topic id, subjectId and name are required", ErrValidation)
	}
	return s.repo.UpsertTopic(ctx, t)
}

// UpsertQuestion creates or replaces a question. Admin-only at the route level.
func (s *ContentService) UpsertQuestion(ctx context.Context, q *domain.Question) error {
	switch {
	case q == nil, strings.TrimSpace(q.ID) == "", strings.TrimSpace(q.TopicID) == "":
		return fmt.Errorf("%w: question id and topicId are required", ErrValidation)
	case strings.TrimSpace(q.Text) == "":
		return fmt.Errorf("%w: question text is required", ErrValidation)
	case len(q.Options) < 2:
		return fmt.Errorf("%w: at least two options are required", ErrValidation)
	}
	found := false
	for _, opt := range q.Options {
		if opt.ID == q.CorrectOption {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: correctOption must reference an option id", ErrValidation)
	}
	return s.repo.UpsertQuestion(ctx, q)
}
