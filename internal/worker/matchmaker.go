package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/gamesmith/internal/queue"
	"github.com/kiranshivaraju/gamesmith/internal/store"
	"github.com/kiranshivaraju/gamesmith/pkg/models"
)

const matchBatchSize = 100

// Matchmaker pairs waiting matchmaking tasks into game sessions. It scans
// pending tasks oldest-first on a fixed interval and completes each pair
// with a shared session id. An unpaired task simply stays pending until an
// opponent shows up or the submitting client gives up waiting.
type Matchmaker struct {
	queue    *queue.TaskQueue
	store    store.Store
	interval time.Duration
}

// NewMatchmaker creates a Matchmaker.
func NewMatchmaker(q *queue.TaskQueue, st store.Store, interval time.Duration) *Matchmaker {
	return &Matchmaker{queue: q, store: st, interval: interval}
}

// Run loops until the context is cancelled.
func (m *Matchmaker) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	slog.Info("matchmaker started", "interval", m.interval)
	for {
		select {
		case <-ctx.Done():
			slog.Info("matchmaker stopped")
			return
		case <-ticker.C:
			if err := m.PairWaiting(ctx); err != nil {
				slog.Error("matchmaking pass failed", "error", err)
			}
		}
	}
}

// PairWaiting runs one matchmaking pass: list pending tasks oldest-first and
// pair them two at a time. Exported so tests and manual triggers can run a
// pass without the ticker.
func (m *Matchmaker) PairWaiting(ctx context.Context) error {
	tasks, err := m.store.ListTasksByStatus(ctx, models.TaskKindMatchmaking, models.TaskStatusPending, matchBatchSize)
	if err != nil {
		return err
	}

	for i := 0; i+1 < len(tasks); i += 2 {
		m.pair(ctx, tasks[i], tasks[i+1])
	}
	return nil
}

// pair claims both tasks and completes them with a shared game session id.
// A conflict on the first claim means another writer got there; the pass
// moves on and the partner is re-paired next tick. A conflict on the second
// claim leaves the first task claimed with no opponent, so it is failed
// rather than orphaned in processing.
func (m *Matchmaker) pair(ctx context.Context, a, b *models.Task) {
	if _, err := m.queue.Advance(ctx, a.ID, models.TaskStatusProcessing); err != nil {
		if !errors.Is(err, store.ErrConflict) {
			slog.Error("could not claim matchmaking task", "task_id", a.ID, "error", err)
		}
		return
	}
	if _, err := m.queue.Advance(ctx, b.ID, models.TaskStatusProcessing); err != nil {
		if !errors.Is(err, store.ErrConflict) {
			slog.Error("could not claim matchmaking task", "task_id", b.ID, "error", err)
		}
		m.fail(ctx, a.ID, "opponent no longer available, please resubmit")
		return
	}

	sessionID := uuid.New()
	output := models.TaskOutput{GameSessionID: &sessionID}

	if _, err := advanceWithRetry(ctx, m.queue, a.ID, models.TaskStatusCompleted, queue.WithOutput(output)); err != nil {
		slog.Error("could not complete matchmaking task", "task_id", a.ID, "error", err)
		m.fail(ctx, b.ID, "match could not be finalized, please resubmit")
		return
	}
	if _, err := advanceWithRetry(ctx, m.queue, b.ID, models.TaskStatusCompleted, queue.WithOutput(output)); err != nil {
		slog.Error("could not complete matchmaking task", "task_id", b.ID, "error", err)
		return
	}

	slog.Info("match made", "session_id", sessionID, "task_a", a.ID, "task_b", b.ID)
}

func (m *Matchmaker) fail(ctx context.Context, taskID uuid.UUID, reason string) {
	_, err := advanceWithRetry(ctx, m.queue, taskID, models.TaskStatusFailed,
		queue.WithFailureReason(reason))
	if err != nil {
		slog.Error("could not fail matchmaking task", "task_id", taskID, "error", err)
	}
}
