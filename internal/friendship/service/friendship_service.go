package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	friendshipdomain "reactiquiz/backend/internal/friendship/domain"
	friendshiprepo "reactiquiz/backend/internal/friendship/repository"
	userdomain "reactiquiz/backend/internal/user/domain"
)

// Sentinel errors for the friendship service.
var (
	ErrNotFound     = errors.New("friend request not found")
	ErrForbidden    = errors.New("not a party of this friendship")
	ErrConflict     = errors.New("friendship already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUserNotFound = errors.New("user not found")
)

// UserRepo resolves users by identifier for friend requests.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
	GetByIdentifier(ctx context.Context, identifier string) (*userdomain.User, error)
}

// FriendshipService manages friend requests and the accepted-friends list.
type FriendshipService struct {
	repo     friendshiprepo.Repository
	userRepo UserRepo
}

// NewFriendshipService returns a FriendshipService with the given dependencies.
func NewFriendshipService(repo friendshiprepo.Repository, userRepo UserRepo) *FriendshipService {
	return &FriendshipService{repo: repo, userRepo: userRepo}
}

// Request creates a pending friend request from requesterID to the user with
// the given identifier.
func (s *FriendshipService) Request(ctx context.Context, requesterID, addresseeIdentifier string) (*friendshipdomain.Friendship, error) {
	addresseeIdentifier = strings.TrimSpace(addresseeIdentifier)
	if addresseeIdentifier == "" {
		return nil, fmt.Errorf("%w: identifier is required", ErrValidation)
	}
	addressee, err := s.userRepo.GetByIdentifier(ctx, addresseeIdentifier)
	if err != nil {
		return nil, err
	}
	if addressee == nil {
		return nil, ErrUserNotFound
	}
	if addressee.ID == requesterID {
		return nil, fmt.Errorf("%w: cannot befriend yourself", ErrValidation)
	}
	existing, err := s.repo.GetByPair(ctx, requesterID, addressee.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConflict
	}

	now := time.Now().UTC()
	f := &friendshipdomain.Friendship{
		ID:          uuid.New().String(),
		RequesterID: requesterID,
		AddresseeID: addressee.ID,
		Status:      friendshipdomain.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// Accept marks a pending request as accepted. Only the addressee may accept.
func (s *FriendshipService) Accept(ctx context.Context, friendshipID, userID string) error {
	f, err := s.repo.GetByID(ctx, friendshipID)
	if err != nil {
		return err
	}
	if f == nil {
		return ErrNotFound
	}
	if f.AddresseeID != userID {
		return ErrForbidden
	}
	if f.Status != friendshipdomain.StatusPending {
		return ErrConflict
	}
	return s.repo.UpdateStatus(ctx, friendshipID, friendshipdomain.StatusAccepted)
}

// Remove deletes a friendship or declines a pending request. Either party may remove.
func (s *FriendshipService) Remove(ctx context.Context, friendshipID, userID string) error {
	f, err := s.repo.GetByID(ctx, friendshipID)
	if err != nil {
		return err
	}
	if f == nil {
		return ErrNotFound
	}
	if !f.Involves(userID) {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, friendshipID)
}

// Friend pairs a friendship row with the other party's public profile.
type Friend struct {
	FriendshipID string            `json:"friendshipId"`
	User         userdomain.Public `json:"user"`
}

// ListFriends returns the user's accepted friends.
func (s *FriendshipService) ListFriends(ctx context.Context, userID string) ([]Friend, error) {
	return s.listWithProfiles(ctx, userID, friendshipdomain.StatusAccepted)
}

// ListPending returns pending requests involving the user (sent and received).
func (s *FriendshipService) ListPending(ctx context.Context, userID string) ([]Friend, error) {
	return s.listWithProfiles(ctx, userID, friendshipdomain.StatusPending)
}

func (s *FriendshipService) listWithProfiles(ctx context.Context, userID string, status friendshipdomain.Status) ([]Friend, error) {
	list, err := s.repo.ListByUser(ctx, userID, status)
	if err != nil {
		return nil, err
	}
	out := make([]Friend, 0, len(list))
	for _, f := range list {
		other, err := s.userRepo.GetByID(ctx, f.OtherParty(userID))
		if err != nil {
			return nil, err
		}
		if other == nil {
			continue // dangling reference; skip rather than fail the whole list
		}
		out = append(out, Friend{FriendshipID: f.ID, User: other.Public()})
	}
	return out, nil
}
