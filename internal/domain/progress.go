package domain

import (
	"encoding/json"
	"time"
)

// ChapterProgress tracks a user's visits and completion of a chapter.
type ChapterProgress struct {
	UserID       string
	ChapterID    string
	Completed    bool
	LastAccessed time.Time
}

// QuizResult is one saved quiz attempt.
type QuizResult struct {
	ID             int64
	UserID         string
	ChapterID      string
	QuizID         string
	Score          int
	TotalQuestions int
	Answers        json.RawMessage
	CompletedAt    time.Time
}
