package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"reactiquiz/backend/internal/audit"
	challengedomain "reactiquiz/backend/internal/challenge/domain"
	challengerepo "reactiquiz/backend/internal/challenge/repository"
	userdomain "reactiquiz/backend/internal/user/domain"
)

// Sentinel errors for the challenge service; the handler maps them to HTTP statuses.
var (
	ErrNotFound     = errors.New("challenge not found")
	ErrForbidden    = errors.New("not a participant of this challenge")
	ErrConflict     = errors.New("challenge no longer accepts submissions")
	ErrValidation   = errors.New("validation failed")
	ErrUserNotFound = errors.New("challenged user not found")
)

// UserRepo is the minimal user repository needed by the challenge service:
// participants must be resolvable users.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
}

// ResultStamper cross-links the quiz-result row that produced a submission
// back to its challenge.
type ResultStamper interface {
	SetChallengeID(ctx context.Context, resultID, challengeID string) error
}

// CreateInput holds the fields for creating a challenge.
type CreateInput struct {
	ChallengerID string // from the authenticated session
	ChallengedID string
	TopicID      string
	TopicName    string
	Difficulty   string
	NumQuestions int
	QuestionIDs  []string
	QuizClass    string
	Subject      string
}

// SubmitInput holds one participant's score submission.
type SubmitInput struct {
	ChallengeID string
	UserID      string // from the authenticated session
	Score       int
	Percentage  float64
	TimeTaken   int
	// ResultID is the quiz_results row just created for this attempt,
	// stamped with the challenge id for traceability. Optional.
	ResultID string
}

// ChallengeService coordinates the two-party asynchronous quiz contest:
// exactly one submission per party and deterministic winner resolution.
type ChallengeService struct {
	repo     challengerepo.Repository
	userRepo UserRepo
	results  ResultStamper // may be nil
	ttl      time.Duration
	auditLog audit.AuditLogger // may be nil
}

// NewChallengeService returns a ChallengeService with the given dependencies.
// results and auditLog may be nil.
func NewChallengeService(
	repo challengerepo.Repository,
	userRepo UserRepo,
	results ResultStamper,
	ttl time.Duration,
	auditLog audit.AuditLogger,
) *ChallengeService {
	return &ChallengeService{
		repo:     repo,
		userRepo: userRepo,
		results:  results,
		ttl:      ttl,
		auditLog: auditLog,
	}
}

// Create opens a new pending challenge from the challenger to the challenged
// user, snapshotting the question set so both sides are quizzed identically.
func (s *ChallengeService) Create(ctx context.Context, in CreateInput) (*challengedomain.Challenge, error) {
	in.ChallengedID = strings.TrimSpace(in.ChallengedID)
	in.TopicID = strings.TrimSpace(in.TopicID)
	switch {
	case in.ChallengerID == "":
		return nil, fmt.Errorf("%w: challenger is required", ErrValidation)
	case in.ChallengedID == "":
		return nil, fmt.Errorf("%w: challengedId is required", ErrValidation)
	case in.TopicID == "":
		return nil, fmt.Errorf("%w: topicId is required", ErrValidation)
	case in.Difficulty == "":
		return nil, fmt.Errorf("%w: difficulty is required", ErrValidation)
	case in.NumQuestions <= 0:
		return nil, fmt.Errorf("%w: numQuestions must be positive", ErrValidation)
	case len(in.QuestionIDs) == 0:
		return nil, fmt.Errorf("%w: questionIds snapshot is required", ErrValidation)
	case in.ChallengedID == in.ChallengerID:
		return nil, fmt.Errorf("%w: cannot challenge yourself", ErrValidation)
	}

	challenged, err := s.userRepo.GetByID(ctx, in.ChallengedID)
	if err != nil {
		return nil, err
	}
	if challenged == nil {
		return nil, ErrUserNotFound
	}

	now := time.Now().UTC()
	c := &challengedomain.Challenge{
		ID:           uuid.New().String(),
		ChallengerID: in.ChallengerID,
		ChallengedID: in.ChallengedID,
		TopicID:      in.TopicID,
		TopicName:    strings.TrimSpace(in.TopicName),
		Difficulty:   in.Difficulty,
		NumQuestions: in.NumQuestions,
		QuestionIDs:  append([]string(nil), in.QuestionIDs...),
		QuizClass:    strings.TrimSpace(in.QuizClass),
		Subject:      strings.TrimSpace(in.Subject),
		Status:       challengedomain.StatusPending,
		ExpiresAt:    now.Add(s.ttl),
		CreatedAt:    now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.logEvent(ctx, in.ChallengerID, "challenge.created", "challenge", c.ID)
	return c, nil
}

// SubmitScore records one participant's result and advances the state machine:
//
//	pending --challenger submits--> challenger_completed
//	pending --challenged submits--> completed (winner still open)
//	challenger_completed --challenged submits--> completed
//	completed --challenger's first submission--> completed, winner resolved
//
// Each party gets exactly one submission; a repeat from either side is
// ErrConflict with state unchanged. A challenged-first completion therefore
// still accepts the challenger's later first submission, which is when the
// winner gets resolved. The winner is only computed once both scores are
// present; equal scores leave WinnerID nil (tie).
func (s *ChallengeService) SubmitScore(ctx context.Context, in SubmitInput) (*challengedomain.Challenge, error) {
	c, err := s.repo.GetByID(ctx, in.ChallengeID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	side := c.SideOf(in.UserID)
	if side == challengedomain.SideNone {
		return nil, ErrForbidden
	}
	if c.Expired(time.Now().UTC()) {
		return nil, fmt.Errorf("%w: challenge expired", ErrConflict)
	}
	// One submission per party, guarded per side rather than by status:
	// a challenged-first completion must still let the challenger in.
	if side == challengedomain.SideChallenger && c.ChallengerScore != nil {
		return nil, ErrConflict
	}
	if side == challengedomain.SideChallenged && c.ChallengedScore != nil {
		return nil, ErrConflict
	}

	var newStatus challengedomain.Status
	if side == challengedomain.SideChallenger {
		newStatus = challengedomain.StatusChallengerCompleted
		if c.ChallengedScore != nil {
			newStatus = challengedomain.StatusCompleted
		}
	} else {
		// The challenged side finishing always finalizes the pair.
		newStatus = challengedomain.StatusCompleted
	}

	score := in.Score
	pct := in.Percentage
	timeTaken := in.TimeTaken
	sub := challengerepo.Submission{
		Side:       side,
		Score:      score,
		Percentage: pct,
		TimeTaken:  timeTaken,
		NewStatus:  newStatus,
	}

	if newStatus == challengedomain.StatusCompleted {
		challengerScore := c.ChallengerScore
		challengedScore := c.ChallengedScore
		if side == challengedomain.SideChallenger {
			challengerScore = &score
		} else {
			challengedScore = &score
		}
		// Winner only exists once both sides are present; strictly higher
		// score wins, ties record no winner.
		if challengerScore != nil && challengedScore != nil {
			switch {
			case *challengerScore > *challengedScore:
				sub.WinnerID = &c.ChallengerID
			case *challengedScore > *challengerScore:
				sub.WinnerID = &c.ChallengedID
			}
		}
	}

	if err := s.repo.ApplySubmission(ctx, c.ID, sub); err != nil {
		return nil, err
	}
	// The submission is already persisted at this point; a failed stamp only
	// loses the result-to-challenge back-reference, so it is best-effort.
	if s.results != nil && in.ResultID != "" {
		if err := s.results.SetChallengeID(ctx, in.ResultID, c.ID); err != nil {
			log.Printf("challenge %s: stamping result %s failed: %v", c.ID, in.ResultID, err)
		}
	}
	s.logEvent(ctx, in.UserID, "challenge.score_submitted", "challenge", c.ID)

	updated, err := s.repo.GetByID(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// Get returns a challenge visible to the given participant.
func (s *ChallengeService) Get(ctx context.Context, challengeID, userID string) (*challengedomain.Challenge, error) {
	c, err := s.repo.GetByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	if c.SideOf(userID) == challengedomain.SideNone {
		return nil, ErrForbidden
	}
	return c, nil
}

// ListForUser returns challenges involving the user, newest first.
func (s *ChallengeService) ListForUser(ctx context.Context, userID string, limit, offset int32) ([]*challengedomain.Challenge, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

func (s *ChallengeService) logEvent(ctx context.Context, userID, action, resource, metadata string) {
	if s.auditLog == nil {
		return
	}
	s.auditLog.LogEvent(ctx, userID, action, resource, metadata)
}
