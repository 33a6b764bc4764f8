package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/gamesmith/pkg/models"
)

var (
	// ErrNotFound means no task exists for the given id.
	ErrNotFound = errors.New("resource not found")
	// ErrDuplicateTask means a task with the given id already exists.
	ErrDuplicateTask = errors.New("duplicate task")
	// ErrConflict means a concurrent writer changed the task between the
	// caller's read and its write. The caller should re-read and retry.
	ErrConflict = errors.New("concurrent update conflict")
)

// Store is the data access interface. All database operations go through here.
//
// AdvanceTask is the linearization point for the task state machine: it
// compare-and-swaps on the status the caller observed, so two concurrent
// writers can never interleave a partial update. The loser gets ErrConflict.
type Store interface {
	Ping(ctx context.Context) error

	CreateTask(ctx context.Context, task *models.Task) error
	GetTask(ctx context.Context, id uuid.UUID) (*models.Task, error)
	AdvanceTask(ctx context.Context, id uuid.UUID, from, to string, opts ...TaskUpdateOption) (*models.Task, error)
	ListTasksByStatus(ctx context.Context, kind, status string, limit int) ([]*models.Task, error)
	ListTasksByOwner(ctx context.Context, ownerID string, limit int) ([]*models.Task, error)
}

type taskUpdateParams struct {
	Output       *models.TaskOutput
	ErrorMessage *string
}

type TaskUpdateOption func(*taskUpdateParams)

func WithOutput(out models.TaskOutput) TaskUpdateOption {
	return func(p *taskUpdateParams) {
		p.Output = &out
	}
}

func WithErrorMessage(msg string) TaskUpdateOption {
	return func(p *taskUpdateParams) {
		p.ErrorMessage = &msg
	}
}
