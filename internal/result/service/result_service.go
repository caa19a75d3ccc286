package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	resultdomain "reactiquiz/backend/internal/result/domain"
	resultrepo "reactiquiz/backend/internal/result/repository"
)

// Sentinel errors for the result service.
var (
	ErrNotFound   = errors.New("result not found")
	ErrForbidden  = errors.New("not the owner of this result")
	ErrValidation = errors.New("validation failed")
)

// RecordInput holds the fields for recording a finished quiz attempt.
type RecordInput struct {
	UserID         string // from the authenticated session
	TopicID        string
	Subject        string
	Difficulty     string
	Class          string
	Score          int
	TotalQuestions int
	Percentage     float64
	TimeTaken      int
	Answers        []resultdomain.Answer
}

// ResultService records and retrieves quiz results.
type ResultService struct {
	repo resultrepo.Repository
}

// NewResultService returns a ResultService backed by repo.
func NewResultService(repo resultrepo.Repository) *ResultService {
	return &ResultService{repo: repo}
}

// Record persists one finished attempt and returns it.
func (s *ResultService) Record(ctx context.Context, in RecordInput) (*resultdomain.QuizResult, error) {
	in.TopicID = strings.TrimSpace(in.TopicID)
	switch {
	case in.UserID == "":
		return nil, fmt.Errorf("%w: user is required", ErrValidation)
	case in.TopicID == "":
		return nil, fmt.Errorf("%w: topicId is required", ErrValidation)
	case in.TotalQuestions <= 0:
		return nil, fmt.Errorf("%w: totalQuestions must be positive", ErrValidation)
	case in.Score < 0 || in.Score > in.TotalQuestions:
		return nil, fmt.Errorf("%w: score must be between 0 and totalQuestions", ErrValidation)
	case in.TimeTaken < 0:
		return nil, fmt.Errorf("%w: timeTaken must not be negative", ErrValidation)
	}

	res := &resultdomain.QuizResult{
		ID:             uuid.New().String(),
		UserID:         in.UserID,
		TopicID:        in.TopicID,
		Subject:        strings.TrimSpace(in.Subject),
		Difficulty:     in.Difficulty,
		Class:          strings.TrimSpace(in.Class),
		Score:          in.Score,
		TotalQuestions: in.TotalQuestions,
		Percentage:     in.Percentage,
		TimeTaken:      in.TimeTaken,
		Answers:        in.Answers,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// ListForUser returns the user's results, newest first.
func (s *ResultService) ListForUser(ctx context.Context, userID string, limit, offset int32) ([]*resultdomain.QuizResult, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// Delete removes a result owned by the given user.
func (s *ResultService) Delete(ctx context.Context, resultID, userID string) error {
	res, err := s.repo.GetByID(ctx, resultID)
	if err != nil {
		return err
	}
	if res == nil {
		return ErrNotFound
	}
	if res.UserID != userID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, resultID)
}
