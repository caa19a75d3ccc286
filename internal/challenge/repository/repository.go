package repository

import (
	"context"

	"reactiquiz/backend/internal/challenge/domain"
)

// Submission carries one side's result fields plus the transition outcome,
// applied to the challenge row in a single update.
type Submission struct {
	Side       domain.Side
	Score      int
	Percentage float64
	TimeTaken  int
	NewStatus  domain.Status
	WinnerID   *string
}

// Repository defines persistence for challenges.
type Repository interface {
	Create(ctx context.Context, c *domain.Challenge) error
	GetByID(ctx context.Context, id string) (*domain.Challenge, error)
	// ApplySubmission writes one side's score fields, the new status, and the
	// winner (if computed) atomically for the row.
	ApplySubmission(ctx context.Context, id string, sub Submission) error
	// ListByUser returns challenges where the user is either side, newest first.
	ListByUser(ctx context.Context, userID string, limit, offset int32) ([]*domain.Challenge, error)
}
