package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	TaskStatusPending    = "pending"
	TaskStatusProcessing = "processing"
	TaskStatusCompleted  = "completed"
	TaskStatusFailed     = "failed"
)

const (
	TaskKindGeneration  = "generation"
	TaskKindMatchmaking = "matchmaking"
)

// Task tracks one unit of asynchronous work. The API returns a task_id on
// submission; the client polls GET /api/v1/tasks/{task_id} until status is
// completed or failed. Status only moves forward: pending -> processing ->
// completed|failed (pending may also fail directly), and terminal states
// are final.
type Task struct {
	ID           uuid.UUID   `db:"id"            json:"id"`
	OwnerID      string      `db:"owner_id"      json:"owner_id"`
	Kind         string      `db:"kind"          json:"kind"`
	Status       string      `db:"status"        json:"status"`
	Input        TaskInput   `db:"input"         json:"input"`
	Output       *TaskOutput `db:"output"        json:"output,omitempty"`
	ErrorMessage *string     `db:"error_message" json:"error_message,omitempty"`
	StartedAt    *time.Time  `db:"started_at"    json:"started_at,omitempty"`
	CompletedAt  *time.Time  `db:"completed_at"  json:"completed_at,omitempty"`
	CreatedAt    time.Time   `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"    json:"updated_at"`
}

// TaskInput describes the requested work. Only the fields for the task's
// kind are set; the rest stay zero so the queue core never has to know
// what any particular kind means.
type TaskInput struct {
	// Prompt is set for generation tasks.
	Prompt string `json:"prompt,omitempty"`
	// Mode is set for matchmaking tasks (e.g. "ranked", "casual").
	Mode string `json:"mode,omitempty"`
}

// TaskOutput carries the result of a completed task. It is nil unless the
// task status is completed.
type TaskOutput struct {
	// ArtifactURL is set when a generation task completes.
	ArtifactURL *string `json:"artifact_url,omitempty"`
	// GameSessionID is set when a matchmaking task completes. A poller
	// waiting on a match treats its presence as the stop condition.
	GameSessionID *uuid.UUID `json:"game_session_id,omitempty"`
}

// IsTerminal reports whether the task has reached a final status.
func (t *Task) IsTerminal() bool {
	return t.Status == TaskStatusCompleted || t.Status == TaskStatusFailed
}
