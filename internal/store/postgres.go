package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kiranshivaraju/gamesmith/pkg/models"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

const taskColumns = `id, owner_id, kind, status, input, output, error_message, started_at, completed_at, created_at, updated_at`

// scanTask reads one task row. Input and output are stored as jsonb.
func scanTask(row pgx.Row) (*models.Task, error) {
	var (
		t         models.Task
		inputRaw  []byte
		outputRaw []byte
	)
	err := row.Scan(&t.ID, &t.OwnerID, &t.Kind, &t.Status, &inputRaw, &outputRaw,
		&t.ErrorMessage, &t.StartedAt, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(inputRaw, &t.Input); err != nil {
		return nil, fmt.Errorf("decode task input: %w", err)
	}
	if len(outputRaw) > 0 {
		var out models.TaskOutput
		if err := json.Unmarshal(outputRaw, &out); err != nil {
			return nil, fmt.Errorf("decode task output: %w", err)
		}
		t.Output = &out
	}
	return &t, nil
}

func (s *PostgresStore) CreateTask(ctx context.Context, task *models.Task) error {
	input, err := json.Marshal(task.Input)
	if err != nil {
		return fmt.Errorf("encode task input: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO tasks (id, owner_id, kind, status, input, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		task.ID, task.OwnerID, task.Kind, task.Status, input, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateTask
		}
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetTask(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)

	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// AdvanceTask moves a task from one status to another in a single statement.
// The WHERE clause matches on the status the caller observed, which is what
// serializes concurrent writers: the row is updated only if nobody got there
// first. A missing row is disambiguated into ErrNotFound or ErrConflict with
// a follow-up existence check.
func (s *PostgresStore) AdvanceTask(ctx context.Context, id uuid.UUID, from, to string, opts ...TaskUpdateOption) (*models.Task, error) {
	params := &taskUpdateParams{}
	for _, opt := range opts {
		opt(params)
	}

	now := time.Now().UTC()
	query := `UPDATE tasks SET status = $3, updated_at = $4`
	args := []any{id, from, to, now}
	argIdx := 5

	if to == models.TaskStatusProcessing {
		query += fmt.Sprintf(", started_at = $%d", argIdx)
		args = append(args, now)
		argIdx++
	}
	if to == models.TaskStatusCompleted || to == models.TaskStatusFailed {
		query += fmt.Sprintf(", completed_at = $%d", argIdx)
		args = append(args, now)
		argIdx++
	}
	if params.Output != nil {
		output, err := json.Marshal(params.Output)
		if err != nil {
			return nil, fmt.Errorf("encode task output: %w", err)
		}
		query += fmt.Sprintf(", output = $%d", argIdx)
		args = append(args, output)
		argIdx++
	}
	if params.ErrorMessage != nil {
		query += fmt.Sprintf(", error_message = $%d", argIdx)
		args = append(args, *params.ErrorMessage)
		argIdx++
	}

	query += " WHERE id = $1 AND status = $2 RETURNING " + taskColumns

	t, err := scanTask(s.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		// Either the task does not exist or a concurrent writer moved it
		// off the expected status.
		var exists bool
		checkErr := s.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1)`, id).Scan(&exists)
		if checkErr != nil {
			return nil, fmt.Errorf("check task existence: %w", checkErr)
		}
		if !exists {
			return nil, ErrNotFound
		}
		return nil, ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("advance task: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) ListTasksByStatus(ctx context.Context, kind, status string, limit int) ([]*models.Task, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE kind = $1 AND status = $2 ORDER BY created_at ASC LIMIT $3`,
		kind, status, limit)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *PostgresStore) ListTasksByOwner(ctx context.Context, ownerID string, limit int) ([]*models.Task, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE owner_id = $1 ORDER BY created_at DESC LIMIT $2`,
		ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list tasks by owner: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
