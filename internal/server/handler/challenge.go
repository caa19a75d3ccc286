package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	challengedomain "reactiquiz/backend/internal/challenge/domain"
	challengeservice "reactiquiz/backend/internal/challenge/service"
	"reactiquiz/backend/internal/server/middleware"
)

// ChallengeHandler exposes the pairwise quiz contest endpoints.
type ChallengeHandler struct {
	challenges *challengeservice.ChallengeService
}

// NewChallengeHandler returns a ChallengeHandler backed by challenges.
func NewChallengeHandler(challenges *challengeservice.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{challenges: challenges}
}

type createChallengeRequest struct {
	ChallengedID string   `json:"challengedId" binding:"required"`
	TopicID      string   `json:"topicId" binding:"required"`
	TopicName    string   `json:"topicName"`
	Difficulty   string   `json:"difficulty" binding:"required"`
	NumQuestions int      `json:"numQuestions" binding:"required"`
	QuestionIDs  []string `json:"questionIds" binding:"required"`
	QuizClass    string   `json:"quizClass"`
	Subject      string   `json:"subject"`
}

// Create opens a pending challenge against another user.
func (h *ChallengeHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	var req createChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ch, err := h.challenges.Create(c.Request.Context(), challengeservice.CreateInput{
		ChallengerID: user.ID,
		ChallengedID: req.ChallengedID,
		TopicID:      req.TopicID,
		TopicName:    req.TopicName,
		Difficulty:   req.Difficulty,
		NumQuestions: req.NumQuestions,
		QuestionIDs:  req.QuestionIDs,
		QuizClass:    req.QuizClass,
		Subject:      req.Subject,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"challenge": toChallengeResponse(ch)})
}

type submitScoreRequest struct {
	Score      int     `json:"score"`
	Percentage float64 `json:"percentage"`
	TimeTaken  int     `json:"timeTaken"`
	ResultID   string  `json:"resultId"`
}

// SubmitScore records the authenticated participant's result for a challenge.
func (h *ChallengeHandler) SubmitScore(c *gin.Context) {
	user := middleware.CurrentUser(c)
	var req submitScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ch, err := h.challenges.SubmitScore(c.Request.Context(), challengeservice.SubmitInput{
		ChallengeID: c.Param("id"),
		UserID:      user.ID,
		Score:       req.Score,
		Percentage:  req.Percentage,
		TimeTaken:   req.TimeTaken,
		ResultID:    req.ResultID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"challenge": toChallengeResponse(ch)})
}

// Get returns one challenge; participants only.
func (h *ChallengeHandler) Get(c *gin.Context) {
	user := middleware.CurrentUser(c)
	ch, err := h.challenges.Get(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"challenge": toChallengeResponse(ch)})
}

// List returns the authenticated user's challenges, newest first.
func (h *ChallengeHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	limit := queryInt32(c, "limit", 50)
	offset := queryInt32(c, "offset", 0)
	list, err := h.challenges.ListForUser(c.Request.Context(), user.ID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]challengeResponse, 0, len(list))
	for _, ch := range list {
		out = append(out, toChallengeResponse(ch))
	}
	c.JSON(http.StatusOK, gin.H{"challenges": out})
}

// challengeResponse is the JSON shape of a challenge.
type challengeResponse struct {
	ID           string   `json:"id"`
	ChallengerID string   `json:"challengerId"`
	ChallengedID string   `json:"challengedId"`
	TopicID      string   `json:"topicId"`
	TopicName    string   `json:"topicName,omitempty"`
	Difficulty   string   `json:"difficulty"`
	NumQuestions int      `json:"numQuestions"`
	QuestionIDs  []string `json:"questionIds"`
	QuizClass    string   `json:"quizClass,omitempty"`
	Subject      string   `json:"subject,omitempty"`
	Status       string   `json:"status"`

	ChallengerScore      *int     `json:"challengerScore"`
	ChallengerPercentage *float64 `json:"challengerPercentage"`
	ChallengerTimeTaken  *int     `json:"challengerTimeTaken"`
	ChallengedScore      *int     `json:"challengedScore"`
	ChallengedPercentage *float64 `json:"challengedPercentage"`
	ChallengedTimeTaken  *int     `json:"challengedTimeTaken"`

	WinnerID *string `json:"winnerId"`

	ExpiresAt string `json:"expiresAt"`
	CreatedAt string `json:"createdAt"`
}

func toChallengeResponse(ch *challengedomain.Challenge) challengeResponse {
	return challengeResponse{
		ID:                   ch.ID,
		ChallengerID:         ch.ChallengerID,
		ChallengedID:         ch.ChallengedID,
		TopicID:              ch.TopicID,
		TopicName:            ch.TopicName,
		Difficulty:           ch.Difficulty,
		NumQuestions:         ch.NumQuestions,
		QuestionIDs:          ch.QuestionIDs,
		QuizClass:            ch.QuizClass,
		Subject:              ch.Subject,
		Status:               string(ch.Status),
		ChallengerScore:      ch.ChallengerScore,
		ChallengerPercentage: ch.ChallengerPercentage,
		ChallengerTimeTaken:  ch.ChallengerTimeTaken,
		ChallengedScore:      ch.ChallengedScore,
		ChallengedPercentage: ch.ChallengedPercentage,
		ChallengedTimeTaken:  ch.ChallengedTimeTaken,
		WinnerID:             ch.WinnerID,
		ExpiresAt:            ch.ExpiresAt.UTC().Format(time.RFC3339),
		CreatedAt:            ch.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// queryInt32 parses an int32 query param with a default.
func queryInt32(c *gin.Context, name string, def int32) int32 {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return def
	}
	return int32(v)
}
