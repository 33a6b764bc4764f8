package handler

import (
	"context"
	"encoding/json"
	"net/http"

	mw "github.com/kiranshivaraju/gamesmith/internal/api/middleware"
	"github.com/kiranshivaraju/gamesmith/internal/api/response"
	"github.com/kiranshivaraju/gamesmith/pkg/models"
)

var validModes = map[string]bool{
	"casual": true,
	"ranked": true,
}

// TaskCreator defines the interface the handler depends on.
type TaskCreator interface {
	Create(ctx context.Context, ownerID, kind string, input models.TaskInput) (*models.Task, error)
}

// NewMatchHandler returns an http.HandlerFunc for POST /api/v1/matches.
// A matchmaking request is just a task whose output will eventually carry a
// game session id; the client polls the task endpoint until it does.
func NewMatchHandler(svc TaskCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := mw.GetPlayerID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "MISSING_PLAYER", "Missing player id", nil)
			return
		}

		var req struct {
			Mode string `json:"mode"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		mode := req.Mode
		if mode == "" {
			mode = "casual"
		}
		if !validModes[mode] {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"mode must be one of casual, ranked", nil)
			return
		}

		task, err := svc.Create(r.Context(), playerID, models.TaskKindMatchmaking, models.TaskInput{Mode: mode})
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Could not submit matchmaking task", nil)
			return
		}

		response.Accepted(w, task)
	}
}
