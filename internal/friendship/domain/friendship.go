package domain

import "time"

// Status is the friendship request state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
)

// Friendship is a directed request between two users; once accepted it is
// treated as an unordered pair.
type Friendship struct {
	ID          string
	RequesterID string
	AddresseeID string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Involves reports whether userID is either party.
func (f *Friendship) Involves(userID string) bool {
	return f.RequesterID == userID || f.AddresseeID == userID
}

// OtherParty returns the other user of the pair, or "" if userID is not a party.
func (f *Friendship) OtherParty(userID string) string {
	switch userID {
	case f.RequesterID:
		return f.AddresseeID
	case f.AddresseeID:
		return f.RequesterID
	default:
		return ""
	}
}
