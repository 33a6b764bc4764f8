package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kiranshivaraju/gamesmith/internal/api/response"
	"github.com/kiranshivaraju/gamesmith/internal/queue"
	"github.com/kiranshivaraju/gamesmith/internal/store"
)

// MatchWaiter defines the interface the long-poll handler depends on.
type MatchWaiter interface {
	WaitForMatch(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// NewMatchSessionHandler returns an http.HandlerFunc for
// GET /api/v1/matches/{taskID}/session. It blocks until the matchmaking task
// carries a game session id or the wait ceiling elapses, saving the client
// its own poll loop. Plain task polling still works; this is a convenience.
func NewMatchSessionHandler(waiter MatchWaiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID, err := uuid.Parse(chi.URLParam(r, "taskID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"taskID must be a valid UUID", nil)
			return
		}

		sessionID, err := waiter.WaitForMatch(r.Context(), taskID)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrNotFound):
				response.Error(w, http.StatusNotFound, "TASK_NOT_FOUND",
					"No task with that id", nil)
			case errors.Is(err, queue.ErrPollTimeout):
				response.Error(w, http.StatusRequestTimeout, "WAIT_TIMEOUT",
					"No match within the wait window; poll the task or retry", nil)
			case errors.Is(err, queue.ErrTaskFailed):
				response.Error(w, http.StatusConflict, "MATCH_FAILED",
					err.Error(), nil)
			default:
				response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
					"An unexpected error occurred", nil)
			}
			return
		}

		response.JSON(w, map[string]string{"game_session_id": sessionID.String()})
	}
}
