package models

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
)

// WritingTask records one writing-assistance invocation. TokenSpent is
// computed once when the task is created and never changes afterwards.
type WritingTask struct {
	TaskID                 uuid.UUID  `json:"task_id"`
	UserID                 int64      `json:"user_id"`
	SourceLanguage         string     `json:"source_language"`
	TargetLanguage         string     `json:"target_language"`
	ModelType              string     `json:"model_type"`
	AIUnderstandingContent string     `json:"ai_understanding_content"`
	UserAttemptContent     string     `json:"user_attempt_content"`
	AIGuidanceContent      string     `json:"ai_guidance_content"`
	TokenSpent             int        `json:"token_spent"`
	TaskQuota              int        `json:"task_quota"`
	Status                 TaskStatus `json:"status"`
	Description            string     `json:"description,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
}
