package domain

import "time"

// Status is the challenge lifecycle state.
type Status string

const (
	// StatusPending: created, neither side has submitted.
	StatusPending Status = "pending"
	// StatusChallengerCompleted: only the challenger has submitted.
	StatusChallengerCompleted Status = "challenger_completed"
	// StatusCompleted: the challenged side has submitted (which always
	// finalizes the status). There is no challenged_completed state; when
	// the challenged side goes first, the challenger's later submission
	// arrives under this status and resolves the winner.
	StatusCompleted Status = "completed"
)

// Side identifies which participant of a challenge a user is.
type Side int

const (
	SideNone Side = iota
	SideChallenger
	SideChallenged
)

// Challenge is a pairwise, asynchronous quiz contest between two users over
// an identical fixed set of questions.
type Challenge struct {
	ID           string
	ChallengerID string
	ChallengedID string
	TopicID      string
	TopicName    string
	Difficulty   string
	NumQuestions int
	// QuestionIDs is the immutable snapshot fixing which questions both
	// parties answer; set at creation, never mutated.
	QuestionIDs []string
	QuizClass   string
	Subject     string

	Status Status

	ChallengerScore      *int
	ChallengerPercentage *float64
	ChallengerTimeTaken  *int
	ChallengedScore      *int
	ChallengedPercentage *float64
	ChallengedTimeTaken  *int

	// WinnerID is computed once both scores are present; nil on a tie.
	WinnerID *string

	ExpiresAt time.Time
	CreatedAt time.Time
}

// SideOf returns which side of the challenge userID is, or SideNone.
func (c *Challenge) SideOf(userID string) Side {
	switch userID {
	case c.ChallengerID:
		return SideChallenger
	case c.ChallengedID:
		return SideChallenged
	default:
		return SideNone
	}
}

// Expired reports whether the challenge is past its expiry at the given time.
// Expiry is lazy: rows are never swept, just inert.
func (c *Challenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
