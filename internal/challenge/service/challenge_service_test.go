package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	challengedomain "reactiquiz/backend/internal/challenge/domain"
	challengerepo "reactiquiz/backend/internal/challenge/repository"
	userdomain "reactiquiz/backend/internal/user/domain"
)

type memChallengeRepo struct {
	mu sync.Mutex
	m  map[string]*challengedomain.Challenge
}

func (r *memChallengeRepo) Create(ctx context.Context, c *challengedomain.Challenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c2 := *c
	r.m[c.ID] = &c2
	return nil
}

func (r *memChallengeRepo) GetByID(ctx context.Context, id string) (*challengedomain.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.m[id]
	if !ok {
		return nil, nil
	}
	c2 := *c
	return &c2, nil
}

func (r *memChallengeRepo) ApplySubmission(ctx context.Context, id string, sub challengerepo.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.m[id]
	if !ok {
		return errors.New("challenge vanished")
	}
	score, pct, taken := sub.Score, sub.Percentage, sub.TimeTaken
	if sub.Side == challengedomain.SideChallenger {
		c.ChallengerScore = &score
		c.ChallengerPercentage = &pct
		c.ChallengerTimeTaken = &taken
	} else {
		c.ChallengedScore = &score
		c.ChallengedPercentage = &pct
		c.ChallengedTimeTaken = &taken
	}
	c.Status = sub.NewStatus
	c.WinnerID = sub.WinnerID
	return nil
}

func (r *memChallengeRepo) ListByUser(ctx context.Context, userID string, limit, offset int32) ([]*challengedomain.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*challengedomain.Challenge
	for _, c := range r.m {
		if c.ChallengerID == userID || c.ChallengedID == userID {
			c2 := *c
			out = append(out, &c2)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type memUserRepo struct {
	mu sync.Mutex
	m  map[string]*userdomain.User
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*userdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.m[id]
	if !ok {
		return nil, nil
	}
	u2 := *u
	return &u2, nil
}

type memResultStamper struct {
	mu      sync.Mutex
	stamped map[string]string // resultID -> challengeID
	failErr error
}

func (s *memResultStamper) SetChallengeID(ctx context.Context, resultID, challengeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return s.failErr
	}
	if s.stamped == nil {
		s.stamped = make(map[string]string)
	}
	s.stamped[resultID] = challengeID
	return nil
}

func newTestChallengeService(t *testing.T) (*ChallengeService, *memChallengeRepo, *memResultStamper) {
	t.Helper()
	repo := &memChallengeRepo{m: make(map[string]*challengedomain.Challenge)}
	users := &memUserRepo{m: map[string]*userdomain.User{
		"u1": {ID: "u1", Identifier: "alice"},
		"u2": {ID: "u2", Identifier: "bob"},
	}}
	stamper := &memResultStamper{}
	svc := NewChallengeService(repo, users, stamper, 7*24*time.Hour, nil)
	return svc, repo, stamper
}

func createChallenge(t *testing.T, svc *ChallengeService) *challengedomain.Challenge {
	t.Helper()
	c, err := svc.Create(context.Background(), CreateInput{
		ChallengerID: "u1",
		ChallengedID: "u2",
		TopicID:      "kinematics-9th",
		TopicName:    "Kinematics",
		Difficulty:   "medium",
		NumQuestions: 3,
		QuestionIDs:  []string{"q1", "q2", "q3"},
		QuizClass:    "9",
		Subject:      "physics",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return c
}

func submit(t *testing.T, svc *ChallengeService, challengeID, userID string, score int) *challengedomain.Challenge {
	t.Helper()
	c, err := svc.SubmitScore(context.Background(), SubmitInput{
		ChallengeID: challengeID,
		UserID:      userID,
		Score:       score,
		Percentage:  float64(score) / 3 * 100,
		TimeTaken:   60,
	})
	if err != nil {
		t.Fatalf("SubmitScore(%s, %d): %v", userID, score, err)
	}
	return c
}

func TestChallengeService_Create(t *testing.T) {
	svc, _, _ := newTestChallengeService(t)
	c := createChallenge(t, svc)

	if c.Status != challengedomain.StatusPending {
		t.Errorf("status = %s, want pending", c.Status)
	}
	if c.WinnerID != nil {
		t.Error("new challenge should have no winner")
	}
	if len(c.QuestionIDs) != 3 {
		t.Errorf("questionIds = %v, want 3 entries", c.QuestionIDs)
	}
	if !c.ExpiresAt.After(c.CreatedAt) {
		t.Error("expiry should be after creation")
	}
}

func TestChallengeService_Create_QuestionSnapshotIsCopied(t *testing.T) {
	svc, repo, _ := newTestChallengeService(t)
	ids := []string{"q1", "q2", "q3"}
	c, err := svc.Create(context.Background(), CreateInput{
		ChallengerID: "u1",
		ChallengedID: "u2",
		TopicID:      "t",
		Difficulty:   "easy",
		NumQuestions: 3,
		QuestionIDs:  ids,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	ids[0] = "mutated"
	stored, _ := repo.GetByID(context.Background(), c.ID)
	if stored.QuestionIDs[0] != "q1" {
		t.Error("stored snapshot must not alias the caller's slice")
	}
}

func TestChallengeService_Create_Validation(t *testing.T) {
	svc, _, _ := newTestChallengeService(t)
	ctx := context.Background()

	base := CreateInput{
		ChallengerID: "u1",
		ChallengedID: "u2",
		TopicID:      "t",
		Difficulty:   "easy",
		NumQuestions: 3,
		QuestionIDs:  []string{"q1"},
	}

	selfIn := base
	selfIn.ChallengedID = "u1"
	if _, err := svc.Create(ctx, selfIn); !errors.Is(err, ErrValidation) {
		t.Errorf("self-challenge: want ErrValidation, got %v", err)
	}

	noQuestions := base
	noQuestions.QuestionIDs = nil
	if _, err := svc.Create(ctx, noQuestions); !errors.Is(err, ErrValidation) {
		t.Errorf("empty snapshot: want ErrValidation, got %v", err)
	}

	unknownUser := base
	unknownUser.ChallengedID = "u404"
	if _, err := svc.Create(ctx, unknownUser); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown challenged user: want ErrUserNotFound, got %v", err)
	}
}

func TestChallengeService_ChallengerFirstThenChallenged(t *testing.T) {
	svc, _, _ := newTestChallengeService(t)
	c := createChallenge(t, svc)

	c = submit(t, svc, c.ID, "u1", 2)
	if c.Status != challengedomain.StatusChallengerCompleted {
		t.Fatalf("after challenger: status = %s, want challenger_completed", c.Status)
	}
	if c.WinnerID != nil {
		t.Fatal("no winner before both sides submitted")
	}

	c = submit(t, svc, c.ID, "u2", 3)
	if c.Status != challengedomain.StatusCompleted {
		t.Fatalf("after challenged: status = %s, want completed", c.Status)
	}
	if c.WinnerID == nil || *c.WinnerID != "u2" {
		t.Errorf("winner = %v, want u2", c.WinnerID)
	}
}

func TestChallengeService_ChallengedFirstThenChallengerResolvesWinner(t *testing.T) {
	svc, _, _ := newTestChallengeService(t)
	c := createChallenge(t, svc)

	// The challenged side going first finalizes the status with a single
	// score, but the winner stays open until the challenger also plays.
	c = submit(t, svc, c.ID, "u2", 3)
	if c.Status != challengedomain.StatusCompleted {
		t.Fatalf("after challenged: status = %s, want completed", c.Status)
	}
	if c.WinnerID != nil {
		t.Fatal("winner needs both scores; one-sided completion has none")
	}

	// The challenger's first submission is still accepted and resolves the
	// winner from both scores.
	c = submit(t, svc, c.ID, "u1", 2)
	if c.Status != challengedomain.StatusCompleted {
		t.Fatalf("after challenger: status = %s, want completed", c.Status)
	}
	if c.WinnerID == nil || *c.WinnerID != "u2" {
		t.Fatalf("winner = %v, want u2", c.WinnerID)
	}
	if c.ChallengerScore == nil || *c.ChallengerScore != 2 {
		t.Errorf("challenger score = %v, want 2", c.ChallengerScore)
	}

	// With both scores in, either side re-submitting is a conflict.
	_, err := svc.SubmitScore(context.Background(), SubmitInput{ChallengeID: c.ID, UserID: "u1", Score: 3})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("challenger re-submit: want ErrConflict, got %v", err)
	}
	_, err = svc.SubmitScore(context.Background(), SubmitInput{ChallengeID: c.ID, UserID: "u2", Score: 1})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("challenged re-submit: want ErrConflict, got %v", err)
	}
}

func TestChallengeService_TieHasNoWinner(t *testing.T) {
	svc, _, _ := newTestChallengeService(t)
	c := createChallenge(t, svc)

	submit(t, svc, c.ID, "u1", 2)
	c = submit(t, svc, c.ID, "u2", 2)

	if c.Status != challengedomain.StatusCompleted {
		t.Fatalf("status = %s, want completed", c.Status)
	}
	if c.WinnerID != nil {
		t.Errorf("tie should leave winner nil, got %v", *c.WinnerID)
	}
}

func TestChallengeService_ChallengerWins(t *testing.T) {
	svc, _, _ := newTestChallengeService(t)
	c := createChallenge(t, svc)

	submit(t, svc, c.ID, "u1", 3)
	c = submit(t, svc, c.ID, "u2", 1)

	if c.WinnerID == nil || *c.WinnerID != "u1" {
		t.Errorf("winner = %v, want u1", c.WinnerID)
	}
}

func TestChallengeService_DoubleChallengerSubmit(t *testing.T) {
	svc, _, _ := newTestChallengeService(t)
	c := createChallenge(t, svc)

	submit(t, svc, c.ID, "u1", 2)
	_, err := svc.SubmitScore(context.Background(), SubmitInput{ChallengeID: c.ID, UserID: "u1", Score: 3})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("second challenger submit: want ErrConflict, got %v", err)
	}

	// First submission must be untouched.
	got, err := svc.Get(context.Background(), c.ID, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ChallengerScore == nil || *got.ChallengerScore != 2 {
		t.Errorf("challenger score = %v, want 2", got.ChallengerScore)
	}
}

func TestChallengeService_ThirdPartyForbidden(t *testing.T) {
	svc, _, _ := newTestChallengeService(t)
	c := createChallenge(t, svc)

	if _, err := svc.SubmitScore(context.Background(), SubmitInput{ChallengeID: c.ID, UserID: "u3", Score: 1}); !errors.Is(err, ErrForbidden) {
		t.Errorf("submit: want ErrForbidden, got %v", err)
	}
	if _, err := svc.Get(context.Background(), c.ID, "u3"); !errors.Is(err, ErrForbidden) {
		t.Errorf("get: want ErrForbidden, got %v", err)
	}
}

func TestChallengeService_SubmitUnknownChallenge(t *testing.T) {
	svc, _, _ := newTestChallengeService(t)
	_, err := svc.SubmitScore(context.Background(), SubmitInput{ChallengeID: "nope", UserID: "u1", Score: 1})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestChallengeService_ExpiredChallenge(t *testing.T) {
	repo := &memChallengeRepo{m: make(map[string]*challengedomain.Challenge)}
	users := &memUserRepo{m: map[string]*userdomain.User{
		"u1": {ID: "u1"}, "u2": {ID: "u2"},
	}}
	// Negative TTL: the challenge is born expired.
	svc := NewChallengeService(repo, users, nil, -time.Hour, nil)
	c := createChallenge(t, svc)

	_, err := svc.SubmitScore(context.Background(), SubmitInput{ChallengeID: c.ID, UserID: "u1", Score: 1})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expired: want ErrConflict, got %v", err)
	}
	// Rows are never swept; they just stop accepting submissions.
	got, err := svc.Get(context.Background(), c.ID, "u1")
	if err != nil {
		t.Fatalf("Get after expiry: %v", err)
	}
	if got.Status != challengedomain.StatusPending {
		t.Errorf("status = %s, want pending (expiry is lazy)", got.Status)
	}
}

func TestChallengeService_ResultStamping(t *testing.T) {
	svc, _, stamper := newTestChallengeService(t)
	c := createChallenge(t, svc)

	if _, err := svc.SubmitScore(context.Background(), SubmitInput{
		ChallengeID: c.ID,
		UserID:      "u1",
		Score:       2,
		ResultID:    "result-42",
	}); err != nil {
		t.Fatalf("SubmitScore: %v", err)
	}
	stamper.mu.Lock()
	got := stamper.stamped["result-42"]
	stamper.mu.Unlock()
	if got != c.ID {
		t.Errorf("result-42 stamped with %q, want %q", got, c.ID)
	}
}

func TestChallengeService_StampFailureKeepsSubmission(t *testing.T) {
	svc, _, stamper := newTestChallengeService(t)
	c := createChallenge(t, svc)
	stamper.failErr = errors.New("results table unavailable")

	// The score is persisted before the stamp; a stamp failure only loses the
	// back-reference and must not surface as a failed submission.
	got, err := svc.SubmitScore(context.Background(), SubmitInput{
		ChallengeID: c.ID,
		UserID:      "u1",
		Score:       2,
		ResultID:    "result-43",
	})
	if err != nil {
		t.Fatalf("SubmitScore: %v", err)
	}
	if got.ChallengerScore == nil || *got.ChallengerScore != 2 {
		t.Errorf("challenger score = %v, want 2", got.ChallengerScore)
	}
	if got.Status != challengedomain.StatusChallengerCompleted {
		t.Errorf("status = %s, want challenger_completed", got.Status)
	}
}

func TestChallengeService_ListForUser(t *testing.T) {
	svc, _, _ := newTestChallengeService(t)
	first := createChallenge(t, svc)
	_ = first

	list, err := svc.ListForUser(context.Background(), "u1", 0, 0)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("len = %d, want 1", len(list))
	}
	list, err = svc.ListForUser(context.Background(), "u3", 0, 0)
	if err != nil {
		t.Fatalf("ListForUser u3: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("outsider list len = %d, want 0", len(list))
	}
}
