package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	contentdomain "reactiquiz/backend/internal/content/domain"
	contentservice "reactiquiz/backend/internal/content/service"
)

// ContentHandler exposes quiz content: subjects, topics, questions, and the
// admin-side upserts.
type ContentHandler struct {
	content *contentservice.ContentService
}

// NewContentHandler returns a ContentHandler backed by content.
func NewContentHandler(content *contentservice.ContentService) *ContentHandler {
	return &ContentHandler{content: content}
}

// ListSubjects returns all subjects.
func (h *ContentHandler) ListSubjects(c *gin.Context) {
	subjects, err := h.content.ListSubjects(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subjects": subjects})
}

// ListTopics returns the topics of one subject.
func (h *ContentHandler) ListTopics(c *gin.Context) {
	topics, err := h.content.ListTopics(c.Request.Context(), c.Param("subjectId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": topics})
}

// ListQuestions returns a topic's question pool.
func (h *ContentHandler) ListQuestions(c *gin.Context) {
	questions, err := h.content.ListQuestions(c.Request.Context(), c.Param("topicId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

// UpsertSubject creates or replaces a subject. Admin route.
func (h *ContentHandler) UpsertSubject(c *gin.Context) {
	var sub contentdomain.Subject
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.content.UpsertSubject(c.Request.Context(), &sub); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subject": sub})
}

// UpsertTopic creates or replaces a topic. Admin route.
func (h *ContentHandler) UpsertTopic(c *gin.Context) {
	var topic contentdomain.Topic
	if err := c.ShouldBindJSON(&topic); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.content.UpsertTopic(c.Request.Context(), &topic); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topic": topic})
}

// UpsertQuestion creates or replaces a question. Admin route.
func (h *ContentHandler) UpsertQuestion(c *gin.Context) {
	var q contentdomain.Question
	if err := c.ShouldBindJSON(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.content.UpsertQuestion(c.Request.Context(), &q); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"question": q})
}
