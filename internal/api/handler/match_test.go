package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kiranshivaraju/gamesmith/pkg/models"
)

// --- mock TaskCreator ---

type mockCreator struct {
	fn func(ownerID, kind string, input models.TaskInput) (*models.Task, error)
}

func (m *mockCreator) Create(_ context.Context, ownerID, kind string, input models.TaskInput) (*models.Task, error) {
	return m.fn(ownerID, kind, input)
}

func successCreator() *mockCreator {
	return &mockCreator{fn: func(ownerID, kind string, input models.TaskInput) (*models.Task, error) {
		return pendingTask(ownerID, kind, input), nil
	}}
}

func TestMatchHandler_Accepted(t *testing.T) {
	var gotKind, gotMode string
	h := NewMatchHandler(&mockCreator{fn: func(ownerID, kind string, input models.TaskInput) (*models.Task, error) {
		gotKind, gotMode = kind, input.Mode
		return pendingTask(ownerID, kind, input), nil
	}})

	rec := httptest.NewRecorder()
	h(rec, playerReq(t, http.MethodPost, "/api/v1/matches",
		map[string]string{"mode": "ranked"}, "player-1"))

	data := parseData(t, rec, http.StatusAccepted)
	if data["status"] != models.TaskStatusPending {
		t.Errorf("expected pending task, got %v", data["status"])
	}
	if gotKind != models.TaskKindMatchmaking {
		t.Errorf("expected matchmaking kind, got %s", gotKind)
	}
	if gotMode != "ranked" {
		t.Errorf("expected ranked mode, got %s", gotMode)
	}
}

func TestMatchHandler_DefaultMode(t *testing.T) {
	var gotMode string
	h := NewMatchHandler(&mockCreator{fn: func(ownerID, kind string, input models.TaskInput) (*models.Task, error) {
		gotMode = input.Mode
		return pendingTask(ownerID, kind, input), nil
	}})

	rec := httptest.NewRecorder()
	h(rec, playerReq(t, http.MethodPost, "/api/v1/matches", map[string]string{}, "player-1"))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotMode != "casual" {
		t.Errorf("expected default casual mode, got %s", gotMode)
	}
}

func TestMatchHandler_UnknownMode(t *testing.T) {
	h := NewMatchHandler(successCreator())

	rec := httptest.NewRecorder()
	h(rec, playerReq(t, http.MethodPost, "/api/v1/matches",
		map[string]string{"mode": "battle-royale"}, "player-1"))

	status, code := parseErr(t, rec)
	if status != http.StatusBadRequest || code != "INVALID_REQUEST" {
		t.Errorf("expected 400 INVALID_REQUEST, got %d %s", status, code)
	}
}

func TestMatchHandler_InvalidJSON(t *testing.T) {
	h := NewMatchHandler(successCreator())

	rec := httptest.NewRecorder()
	h(rec, playerReq(t, http.MethodPost, "/api/v1/matches", "{not json", "player-1"))

	status, code := parseErr(t, rec)
	if status != http.StatusBadRequest || code != "INVALID_REQUEST" {
		t.Errorf("expected 400 INVALID_REQUEST, got %d %s", status, code)
	}
}

func TestMatchHandler_NoPlayer(t *testing.T) {
	h := NewMatchHandler(successCreator())

	rec := httptest.NewRecorder()
	h(rec, playerReq(t, http.MethodPost, "/api/v1/matches",
		map[string]string{"mode": "casual"}, ""))

	status, code := parseErr(t, rec)
	if status != http.StatusUnauthorized || code != "MISSING_PLAYER" {
		t.Errorf("expected 401 MISSING_PLAYER, got %d %s", status, code)
	}
}

func TestMatchHandler_CreateError(t *testing.T) {
	h := NewMatchHandler(&mockCreator{fn: func(_, _ string, _ models.TaskInput) (*models.Task, error) {
		return nil, errors.New("db down")
	}})

	rec := httptest.NewRecorder()
	h(rec, playerReq(t, http.MethodPost, "/api/v1/matches",
		map[string]string{"mode": "casual"}, "player-1"))

	status, code := parseErr(t, rec)
	if status != http.StatusInternalServerError || code != "INTERNAL_ERROR" {
		t.Errorf("expected 500 INTERNAL_ERROR, got %d %s", status, code)
	}
}
