package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	mw "github.com/kiranshivaraju/gamesmith/internal/api/middleware"
	"github.com/kiranshivaraju/gamesmith/internal/api/response"
	"github.com/kiranshivaraju/gamesmith/internal/store"
	"github.com/kiranshivaraju/gamesmith/pkg/models"
)

// TaskReader defines the interface the poll handler depends on.
type TaskReader interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Task, error)
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]*models.Task, error)
}

// NewGetTaskHandler returns an http.HandlerFunc for GET /api/v1/tasks/{taskID}.
// This is the poll endpoint: a pure read, safe to hit on every tick from any
// number of clients. An unknown id is permanent — pollers must stop, not retry.
func NewGetTaskHandler(svc TaskReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID, err := uuid.Parse(chi.URLParam(r, "taskID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"taskID must be a valid UUID", nil)
			return
		}

		task, err := svc.Get(r.Context(), taskID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "TASK_NOT_FOUND",
					"No task with that id", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}

		response.JSON(w, task)
	}
}

// NewListTasksHandler returns an http.HandlerFunc for GET /api/v1/tasks.
// Tasks are never deleted, so this lists the caller's history newest first.
func NewListTasksHandler(svc TaskReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := mw.GetPlayerID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "MISSING_PLAYER", "Missing player id", nil)
			return
		}

		tasks, err := svc.ListByOwner(r.Context(), playerID, 100)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}
		if tasks == nil {
			tasks = []*models.Task{}
		}

		response.JSON(w, tasks)
	}
}
