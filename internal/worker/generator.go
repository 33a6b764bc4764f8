package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/gamesmith/internal/queue"
	"github.com/kiranshivaraju/gamesmith/pkg/models"
)

// Generator runs image generation tasks. Submit returns as soon as the
// pending task is durable; the provider call happens in a background
// goroutine with its own deadline.
type Generator struct {
	queue    *queue.TaskQueue
	provider models.ImageProvider
	timeout  time.Duration
}

// NewGenerator creates a Generator.
func NewGenerator(q *queue.TaskQueue, provider models.ImageProvider, timeout time.Duration) *Generator {
	return &Generator{queue: q, provider: provider, timeout: timeout}
}

// Submit creates a pending generation task and dispatches the work.
// Returns the task immediately without waiting for generation to complete.
func (g *Generator) Submit(ctx context.Context, ownerID, prompt string) (*models.Task, error) {
	task, err := g.queue.Create(ctx, ownerID, models.TaskKindGeneration, models.TaskInput{Prompt: prompt})
	if err != nil {
		return nil, err
	}

	go g.run(task.ID, prompt)

	return task, nil
}

// run performs the actual generation in a goroutine. It recovers from panics
// and always moves the task to a terminal status.
func (g *Generator) run(taskID uuid.UUID, prompt string) {
	ctx := context.Background()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic in generation worker", "error", r, "task_id", taskID)
			g.fail(ctx, taskID, fmt.Sprintf("panic: %v", r))
		}
	}()

	if _, err := advanceWithRetry(ctx, g.queue, taskID, models.TaskStatusProcessing); err != nil {
		// Another writer already moved the task; it is not ours to finish.
		slog.Warn("could not claim generation task", "task_id", taskID, "error", err)
		return
	}

	genCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	img, err := g.provider.Generate(genCtx, models.GenerationRequest{Prompt: prompt})
	if err != nil {
		g.fail(ctx, taskID, err.Error())
		return
	}

	_, err = advanceWithRetry(ctx, g.queue, taskID, models.TaskStatusCompleted,
		queue.WithOutput(models.TaskOutput{ArtifactURL: &img.URL}))
	if err != nil {
		slog.Error("could not complete generation task", "task_id", taskID, "error", err)
	}
}

func (g *Generator) fail(ctx context.Context, taskID uuid.UUID, reason string) {
	_, err := advanceWithRetry(ctx, g.queue, taskID, models.TaskStatusFailed,
		queue.WithFailureReason(reason))
	if err != nil {
		slog.Error("could not fail generation task", "task_id", taskID, "error", err)
	}
}
