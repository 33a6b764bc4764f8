// Package queue is the domain API over the task store: it owns the legal
// state-transition table and is the only writer path for task status.
//
// Workers advance tasks through it; polling clients only ever read. The
// queue itself holds no state — correctness under concurrent writers comes
// entirely from the store's compare-and-swap update.
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/gamesmith/internal/cache"
	"github.com/kiranshivaraju/gamesmith/internal/store"
	"github.com/kiranshivaraju/gamesmith/pkg/models"
)

// ErrInvalidTransition means the requested status change violates the state
// machine. It is raised before storage is touched, so the stored task is
// unchanged. Not retryable: it indicates a caller or worker bug.
var ErrInvalidTransition = errors.New("invalid task status transition")

var validTransitions = map[string][]string{
	models.TaskStatusPending:    {models.TaskStatusProcessing, models.TaskStatusFailed},
	models.TaskStatusProcessing: {models.TaskStatusCompleted, models.TaskStatusFailed},
}

func transitionAllowed(from, to string) bool {
	for _, a := range validTransitions[from] {
		if a == to {
			return true
		}
	}
	return false
}

// TaskQueue tracks asynchronous work. Create and Advance write through the
// store; Get is a pure read used by pollers.
type TaskQueue struct {
	store store.Store
	cache cache.Cache
}

// New creates a TaskQueue. The cache may be nil; transition notifications
// are then skipped and clients rely on polling alone.
func New(st store.Store, ca cache.Cache) *TaskQueue {
	return &TaskQueue{store: st, cache: ca}
}

// Create inserts a fresh pending task and returns it. The returned id is
// unique and the task is immediately readable via Get.
func (q *TaskQueue) Create(ctx context.Context, ownerID, kind string, input models.TaskInput) (*models.Task, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("owner id is required")
	}

	now := time.Now().UTC()
	task := &models.Task{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Kind:      kind,
		Status:    models.TaskStatusPending,
		Input:     input,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := q.store.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	q.notify(ctx, task)
	return task, nil
}

// Get returns the current state of a task. Safe to call repeatedly and from
// any number of readers; it never mutates the task.
func (q *TaskQueue) Get(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	return q.store.GetTask(ctx, id)
}

// ListByOwner returns the owner's tasks, newest first. Tasks are never
// deleted, so this doubles as an audit trail of past work.
func (q *TaskQueue) ListByOwner(ctx context.Context, ownerID string, limit int) ([]*models.Task, error) {
	return q.store.ListTasksByOwner(ctx, ownerID, limit)
}

// Advance validates the transition against the current status and applies it
// through the store's atomic update. A completed task must carry an output;
// a failed one carries a reason instead. store.ErrConflict means another
// writer won the race: re-read and retry, or accept the winner's state.
func (q *TaskQueue) Advance(ctx context.Context, id uuid.UUID, newStatus string, opts ...AdvanceOption) (*models.Task, error) {
	params := &advanceParams{}
	for _, opt := range opts {
		opt(params)
	}

	switch newStatus {
	case models.TaskStatusProcessing, models.TaskStatusCompleted, models.TaskStatusFailed:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, newStatus)
	}
	if newStatus == models.TaskStatusCompleted && params.output == nil {
		return nil, fmt.Errorf("%w: completed requires an output", ErrInvalidTransition)
	}
	if newStatus != models.TaskStatusCompleted && params.output != nil {
		return nil, fmt.Errorf("%w: output is only valid on completed", ErrInvalidTransition)
	}

	current, err := q.store.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if !transitionAllowed(current.Status, newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, newStatus)
	}

	var storeOpts []store.TaskUpdateOption
	if params.output != nil {
		storeOpts = append(storeOpts, store.WithOutput(*params.output))
	}
	if params.reason != "" {
		storeOpts = append(storeOpts, store.WithErrorMessage(params.reason))
	}

	task, err := q.store.AdvanceTask(ctx, id, current.Status, newStatus, storeOpts...)
	if err != nil {
		return nil, err
	}

	q.notify(ctx, task)
	return task, nil
}

// notify publishes a transition event. Best effort: pollers do not depend
// on it, so a publish failure is logged and swallowed.
func (q *TaskQueue) notify(ctx context.Context, task *models.Task) {
	if q.cache == nil {
		return
	}
	err := q.cache.PublishTaskEvent(ctx, cache.TaskEvent{TaskID: task.ID, Status: task.Status})
	if err != nil {
		slog.Warn("publish task event failed", "task_id", task.ID, "error", err)
	}
}

type advanceParams struct {
	output *models.TaskOutput
	reason string
}

type AdvanceOption func(*advanceParams)

// WithOutput attaches the result payload for a completed transition.
func WithOutput(out models.TaskOutput) AdvanceOption {
	return func(p *advanceParams) {
		p.output = &out
	}
}

// WithFailureReason attaches the reason payload for a failed transition.
func WithFailureReason(reason string) AdvanceOption {
	return func(p *advanceParams) {
		p.reason = reason
	}
}
