package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/gamesmith/pkg/models"
)

// MemoryStore is a fully in-memory implementation of Store.
// Safe for concurrent access. Intended for unit testing and development;
// the single mutex gives the same linearization guarantee the Postgres
// store gets from its conditional UPDATE.
type MemoryStore struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]*models.Task
}

// NewMemoryStore returns a new empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tasks: make(map[uuid.UUID]*models.Task)}
}

// Ping always succeeds for the memory store.
func (s *MemoryStore) Ping(_ context.Context) error { return nil }

func (s *MemoryStore) CreateTask(_ context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[task.ID]; exists {
		return ErrDuplicateTask
	}
	cp := *task
	s.tasks[task.ID] = &cp
	return nil
}

func (s *MemoryStore) GetTask(_ context.Context, id uuid.UUID) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *MemoryStore) AdvanceTask(_ context.Context, id uuid.UUID, from, to string, opts ...TaskUpdateOption) (*models.Task, error) {
	params := &taskUpdateParams{}
	for _, opt := range opts {
		opt(params)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	if t.Status != from {
		return nil, ErrConflict
	}

	now := time.Now().UTC()
	cp := *t
	cp.Status = to
	cp.UpdatedAt = now
	if to == models.TaskStatusProcessing {
		cp.StartedAt = &now
	}
	if to == models.TaskStatusCompleted || to == models.TaskStatusFailed {
		cp.CompletedAt = &now
	}
	if params.Output != nil {
		out := *params.Output
		cp.Output = &out
	}
	if params.ErrorMessage != nil {
		msg := *params.ErrorMessage
		cp.ErrorMessage = &msg
	}

	s.tasks[id] = &cp
	result := cp
	return &result, nil
}

func (s *MemoryStore) ListTasksByStatus(_ context.Context, kind, status string, limit int) ([]*models.Task, error) {
	if limit <= 0 {
		limit = 100
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var tasks []*models.Task
	for _, t := range s.tasks {
		if t.Kind == kind && t.Status == status {
			cp := *t
			tasks = append(tasks, &cp)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
	if len(tasks) > limit {
		tasks = tasks[:limit]
	}
	return tasks, nil
}

func (s *MemoryStore) ListTasksByOwner(_ context.Context, ownerID string, limit int) ([]*models.Task, error) {
	if limit <= 0 {
		limit = 100
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var tasks []*models.Task
	for _, t := range s.tasks {
		if t.OwnerID == ownerID {
			cp := *t
			tasks = append(tasks, &cp)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	if len(tasks) > limit {
		tasks = tasks[:limit]
	}
	return tasks, nil
}

var _ Store = (*MemoryStore)(nil)
var _ Store = (*PostgresStore)(nil)
