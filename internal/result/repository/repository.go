package repository

import (
	"context"

	"reactiquiz/backend/internal/result/domain"
)

// Repository defines persistence for quiz results.
type Repository interface {
	Create(ctx context.Context, r *domain.QuizResult) error
	GetByID(ctx context.Context, id string) (*domain.QuizResult, error)
	ListByUser(ctx context.Context, userID string, limit, offset int32) ([]*domain.QuizResult, error)
	Delete(ctx context.Context, id string) error
	// SetChallengeID stamps the result row with the challenge it was played for.
	SetChallengeID(ctx context.Context, resultID, challengeID string) error
}
