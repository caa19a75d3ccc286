package domain

import "time"

// Answer records one answered question inside a result snapshot.
type Answer struct {
	QuestionID string `json:"questionId"`
	Selected   string `json:"selected"`
	Correct    bool   `json:"correct"`
}

// QuizResult is one finished quiz attempt by a user.
type QuizResult struct {
	ID             string
	UserID         string
	TopicID        string
	Subject        string
	Difficulty     string
	Class          string
	Score          int
	TotalQuestions int
	Percentage     float64
	TimeTaken      int // seconds
	Answers        []Answer
	// ChallengeID links the attempt to the challenge it was played for, if any.
	ChallengeID *string
	CreatedAt   time.Time
}
