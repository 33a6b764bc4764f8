// Package worker holds the collaborators that perform long-running work and
// report the outcome through the task queue. Every task a worker accepts is
// advanced exactly once into a terminal status; a worker that drops a task
// orphans it in processing forever.
package worker

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/gamesmith/internal/queue"
	"github.com/kiranshivaraju/gamesmith/internal/store"
	"github.com/kiranshivaraju/gamesmith/pkg/models"
)

const maxAdvanceAttempts = 3

// advanceWithRetry reapplies the read-validate-write cycle when a concurrent
// writer wins the storage race. Any other error, including an invalid
// transition, is returned as is.
func advanceWithRetry(ctx context.Context, q *queue.TaskQueue, id uuid.UUID, status string, opts ...queue.AdvanceOption) (*models.Task, error) {
	var (
		task *models.Task
		err  error
	)
	for attempt := 0; attempt < maxAdvanceAttempts; attempt++ {
		task, err = q.Advance(ctx, id, status, opts...)
		if !errors.Is(err, store.ErrConflict) {
			return task, err
		}
	}
	return nil, err
}
