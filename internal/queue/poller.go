package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/gamesmith/pkg/models"
)

// ErrPollTimeout means the caller-side ceiling elapsed before the task
// reached a terminal status. The task itself is untouched and may still
// complete later; only this wait gave up.
var ErrPollTimeout = errors.New("timed out waiting for task")

// ErrTaskFailed wraps the failure reason of a task that ended in failed.
var ErrTaskFailed = errors.New("task failed")

const (
	defaultPollInterval = time.Second
	defaultPollTimeout  = 2 * time.Minute
)

// Poller waits for a task to finish by reading it on a fixed interval.
// Reads are idempotent and side-effect-free, so any number of pollers may
// watch the same task, and a restarted client can resume with just the id.
type Poller struct {
	queue    *TaskQueue
	interval time.Duration
	timeout  time.Duration
}

// NewPoller creates a Poller. Non-positive interval or timeout fall back to
// the defaults (1s interval, 2m ceiling).
func NewPoller(q *TaskQueue, interval, timeout time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if timeout <= 0 {
		timeout = defaultPollTimeout
	}
	return &Poller{queue: q, interval: interval, timeout: timeout}
}

// Wait polls until the task is terminal and returns it, whether completed or
// failed; inspecting the outcome is the caller's job. store.ErrNotFound is
// permanent and returned immediately, never retried.
func (p *Poller) Wait(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	deadline := time.Now().Add(p.timeout)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		task, err := p.queue.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if task.IsTerminal() {
			return task, nil
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s after %s", ErrPollTimeout, id, p.timeout)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// WaitForMatch polls a matchmaking task until its output carries a game
// session id, which is definitionally the terminal condition for a match.
// A failed task surfaces its reason wrapped in ErrTaskFailed.
func (p *Poller) WaitForMatch(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	deadline := time.Now().Add(p.timeout)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		task, err := p.queue.Get(ctx, id)
		if err != nil {
			return uuid.Nil, err
		}

		if task.Output != nil && task.Output.GameSessionID != nil {
			return *task.Output.GameSessionID, nil
		}
		if task.Status == models.TaskStatusFailed {
			reason := "no reason given"
			if task.ErrorMessage != nil {
				reason = *task.ErrorMessage
			}
			return uuid.Nil, fmt.Errorf("%w: %s", ErrTaskFailed, reason)
		}
		if task.Status == models.TaskStatusCompleted {
			return uuid.Nil, fmt.Errorf("task %s completed without a game session id", id)
		}

		if time.Now().After(deadline) {
			return uuid.Nil, fmt.Errorf("%w: %s after %s", ErrPollTimeout, id, p.timeout)
		}

		select {
		case <-ctx.Done():
			return uuid.Nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
