package handler

import (
	"context"
	"encoding/json"
	"net/http"

	mw "github.com/kiranshivaraju/gamesmith/internal/api/middleware"
	"github.com/kiranshivaraju/gamesmith/internal/api/response"
	"github.com/kiranshivaraju/gamesmith/pkg/models"
)

const maxPromptLength = 2000

// GenerationSubmitter defines the interface the handler depends on.
type GenerationSubmitter interface {
	Submit(ctx context.Context, ownerID, prompt string) (*models.Task, error)
}

// NewGenerateHandler returns an http.HandlerFunc for POST /api/v1/generations.
// The response is 202 with the pending task; the client polls the task
// endpoint for the artifact.
func NewGenerateHandler(svc GenerationSubmitter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := mw.GetPlayerID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "MISSING_PLAYER", "Missing player id", nil)
			return
		}

		var req struct {
			Prompt string `json:"prompt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		if req.Prompt == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "prompt is required", nil)
			return
		}
		if len(req.Prompt) > maxPromptLength {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "prompt is too long", nil)
			return
		}

		task, err := svc.Submit(r.Context(), playerID, req.Prompt)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Could not submit generation task", nil)
			return
		}

		response.Accepted(w, task)
	}
}
