package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	resultdomain "reactiquiz/backend/internal/result/domain"
	resultservice "reactiquiz/backend/internal/result/service"
	"reactiquiz/backend/internal/server/middleware"
)

// ResultHandler exposes quiz-result recording and history.
type ResultHandler struct {
	results *resultservice.ResultService
}

// NewResultHandler returns a ResultHandler backed by results.
func NewResultHandler(results *resultservice.ResultService) *ResultHandler {
	return &ResultHandler{results: results}
}

type recordResultRequest struct {
	TopicID        string                `json:"topicId" binding:"required"`
	Subject        string                `json:"subject"`
	Difficulty     string                `json:"difficulty"`
	Class          string                `json:"class"`
	Score          int                   `json:"score"`
	TotalQuestions int                   `json:"totalQuestions" binding:"required"`
	Percentage     float64               `json:"percentage"`
	TimeTaken      int                   `json:"timeTaken"`
	Answers        []resultdomain.Answer `json:"answers"`
}

// Record persists one finished quiz attempt for the authenticated user.
func (h *ResultHandler) Record(c *gin.Context) {
	user := middleware.CurrentUser(c)
	var req recordResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.results.Record(c.Request.Context(), resultservice.RecordInput{
		UserID:         user.ID,
		TopicID:        req.TopicID,
		Subject:        req.Subject,
		Difficulty:     req.Difficulty,
		Class:          req.Class,
		Score:          req.Score,
		TotalQuestions: req.TotalQuestions,
		Percentage:     req.Percentage,
		TimeTaken:      req.TimeTaken,
		Answers:        req.Answers,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"result": toResultResponse(res)})
}

// List returns the authenticated user's results, newest first.
func (h *ResultHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	limit := queryInt32(c, "limit", 50)
	offset := queryInt32(c, "offset", 0)
	list, err := h.results.ListForUser(c.Request.Context(), user.ID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]resultResponse, 0, len(list))
	for _, res := range list {
		out = append(out, toResultResponse(res))
	}
	c.JSON(http.StatusOK, gin.H{"results": out})
}

// Delete removes one of the authenticated user's results.
func (h *ResultHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := h.results.Delete(c.Request.Context(), c.Param("id"), user.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// resultResponse is the JSON shape of a quiz result.
type resultResponse struct {
	ID             string                `json:"id"`
	UserID         string                `json:"userId"`
	TopicID        string                `json:"topicId"`
	Subject        string                `json:"subject,omitempty"`
	Difficulty     string                `json:"difficulty,omitempty"`
	Class          string                `json:"class,omitempty"`
	Score          int                   `json:"score"`
	TotalQuestions int                   `json:"totalQuestions"`
	Percentage     float64               `json:"percentage"`
	TimeTaken      int                   `json:"timeTaken"`
	Answers        []resultdomain.Answer `json:"answers"`
	ChallengeID    *string               `json:"challengeId"`
	CreatedAt      string                `json:"createdAt"`
}

func toResultResponse(res *resultdomain.QuizResult) resultResponse {
	return resultResponse{
		ID:             res.ID,
		UserID:         res.UserID,
		TopicID:        res.TopicID,
		Subject:        res.Subject,
		Difficulty:     res.Difficulty,
		Class:          res.Class,
		Score:          res.Score,
		TotalQuestions: res.TotalQuestions,
		Percentage:     res.Percentage,
		TimeTaken:      res.TimeTaken,
		Answers:        res.Answers,
		ChallengeID:    res.ChallengeID,
		CreatedAt:      res.CreatedAt.UTC().Format(time.RFC3339),
	}
}
