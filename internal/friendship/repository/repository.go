package repository

import (
	"context"

	"reactiquiz/backend/internal/friendship/domain"
)

// Repository defines persistence for friendships.
type Repository interface {
	Create(ctx context.Context, f *domain.Friendship) error
	GetByID(ctx context.Context, id string) (*domain.Friendship, error)
	// GetByPair returns the friendship between the two users in either
	// direction, or nil if none exists.
	GetByPair(ctx context.Context, userA, userB string) (*domain.Friendship, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) error
	Delete(ctx context.Context, id string) error
	// ListByUser returns friendships involving the user with the given status.
	ListByUser(ctx context.Context, userID string, status domain.Status) ([]*domain.Friendship, error)
}
