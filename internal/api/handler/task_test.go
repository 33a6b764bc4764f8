package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	mw "github.com/kiranshivaraju/gamesmith/internal/api/middleware"
	"github.com/kiranshivaraju/gamesmith/internal/store"
	"github.com/kiranshivaraju/gamesmith/pkg/models"
)

// --- mock TaskReader ---

type mockReader struct {
	getFn  func(id uuid.UUID) (*models.Task, error)
	listFn func(ownerID string, limit int) ([]*models.Task, error)
}

func (m *mockReader) Get(_ context.Context, id uuid.UUID) (*models.Task, error) {
	return m.getFn(id)
}

func (m *mockReader) ListByOwner(_ context.Context, ownerID string, limit int) ([]*models.Task, error) {
	return m.listFn(ownerID, limit)
}

func getTaskReq(t *testing.T, taskID string, playerID string) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/"+taskID, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("taskID", taskID)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	if playerID != "" {
		ctx = mw.SetPlayerID(ctx, playerID)
	}
	return r.WithContext(ctx)
}

func TestGetTaskHandler_Pending(t *testing.T) {
	task := pendingTask("player-1", models.TaskKindGeneration, models.TaskInput{Prompt: "p"})
	h := NewGetTaskHandler(&mockReader{getFn: func(id uuid.UUID) (*models.Task, error) {
		if id != task.ID {
			t.Errorf("expected lookup of %s, got %s", task.ID, id)
		}
		return task, nil
	}})

	rec := httptest.NewRecorder()
	h(rec, getTaskReq(t, task.ID.String(), "player-1"))

	data := parseData(t, rec, http.StatusOK)
	if data["status"] != models.TaskStatusPending {
		t.Errorf("expected pending, got %v", data["status"])
	}
	if data["output"] != nil {
		t.Errorf("pending task must have no output, got %v", data["output"])
	}
}

func TestGetTaskHandler_Completed(t *testing.T) {
	url := "https://assets.invalid/cat.png"
	now := time.Now().UTC()
	task := pendingTask("player-1", models.TaskKindGeneration, models.TaskInput{Prompt: "p"})
	task.Status = models.TaskStatusCompleted
	task.Output = &models.TaskOutput{ArtifactURL: &url}
	task.StartedAt = &now
	task.CompletedAt = &now

	h := NewGetTaskHandler(&mockReader{getFn: func(uuid.UUID) (*models.Task, error) {
		return task, nil
	}})

	rec := httptest.NewRecorder()
	h(rec, getTaskReq(t, task.ID.String(), "player-1"))

	data := parseData(t, rec, http.StatusOK)
	if data["status"] != models.TaskStatusCompleted {
		t.Errorf("expected completed, got %v", data["status"])
	}
	output, ok := data["output"].(map[string]any)
	if !ok {
		t.Fatalf("expected output object, got %v", data["output"])
	}
	if output["artifact_url"] != url {
		t.Errorf("expected artifact url %q, got %v", url, output["artifact_url"])
	}
}

func TestGetTaskHandler_NotFound(t *testing.T) {
	h := NewGetTaskHandler(&mockReader{getFn: func(uuid.UUID) (*models.Task, error) {
		return nil, store.ErrNotFound
	}})

	rec := httptest.NewRecorder()
	h(rec, getTaskReq(t, uuid.NewString(), "player-1"))

	status, code := parseErr(t, rec)
	if status != http.StatusNotFound || code != "TASK_NOT_FOUND" {
		t.Errorf("expected 404 TASK_NOT_FOUND, got %d %s", status, code)
	}
}

func TestGetTaskHandler_InvalidID(t *testing.T) {
	h := NewGetTaskHandler(&mockReader{getFn: func(uuid.UUID) (*models.Task, error) {
		t.Fatal("service must not be called for an invalid id")
		return nil, nil
	}})

	rec := httptest.NewRecorder()
	h(rec, getTaskReq(t, "not-a-uuid", "player-1"))

	status, code := parseErr(t, rec)
	if status != http.StatusBadRequest || code != "INVALID_REQUEST" {
		t.Errorf("expected 400 INVALID_REQUEST, got %d %s", status, code)
	}
}

func TestGetTaskHandler_StoreError(t *testing.T) {
	h := NewGetTaskHandler(&mockReader{getFn: func(uuid.UUID) (*models.Task, error) {
		return nil, errors.New("db down")
	}})

	rec := httptest.NewRecorder()
	h(rec, getTaskReq(t, uuid.NewString(), "player-1"))

	status, code := parseErr(t, rec)
	if status != http.StatusInternalServerError || code != "INTERNAL_ERROR" {
		t.Errorf("expected 500 INTERNAL_ERROR, got %d %s", status, code)
	}
}

func TestListTasksHandler_ReturnsOwnerTasks(t *testing.T) {
	var gotOwner string
	h := NewListTasksHandler(&mockReader{listFn: func(ownerID string, limit int) ([]*models.Task, error) {
		gotOwner = ownerID
		return []*models.Task{
			pendingTask(ownerID, models.TaskKindGeneration, models.TaskInput{Prompt: "p"}),
			pendingTask(ownerID, models.TaskKindMatchmaking, models.TaskInput{Mode: "casual"}),
		}, nil
	}})

	rec := httptest.NewRecorder()
	h(rec, playerReq(t, http.MethodGet, "/api/v1/tasks", nil, "player-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotOwner != "player-1" {
		t.Errorf("expected owner player-1, got %s", gotOwner)
	}
}

func TestListTasksHandler_EmptyIsArrayNotNull(t *testing.T) {
	h := NewListTasksHandler(&mockReader{listFn: func(string, int) ([]*models.Task, error) {
		return nil, nil
	}})

	rec := httptest.NewRecorder()
	h(rec, playerReq(t, http.MethodGet, "/api/v1/tasks", nil, "player-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"data":[]`) {
		t.Errorf("expected empty array data, got %s", body)
	}
}

func TestListTasksHandler_NoPlayer(t *testing.T) {
	h := NewListTasksHandler(&mockReader{listFn: func(string, int) ([]*models.Task, error) {
		return nil, nil
	}})

	rec := httptest.NewRecorder()
	h(rec, playerReq(t, http.MethodGet, "/api/v1/tasks", nil, ""))

	status, code := parseErr(t, rec)
	if status != http.StatusUnauthorized || code != "MISSING_PLAYER" {
		t.Errorf("expected 401 MISSING_PLAYER, got %d %s", status, code)
	}
}
