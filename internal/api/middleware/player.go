package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/kiranshivaraju/gamesmith/internal/api/response"
)

type contextKey string

const playerIDKey contextKey = "player_id"

// PlayerHeader identifies the requesting player. Verifying the identity
// belongs to the auth gateway in front of this service, not here.
const PlayerHeader = "X-Player-ID"

func SetPlayerID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, playerIDKey, id)
}

func GetPlayerID(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(playerIDKey).(string)
	return id, ok && id != ""
}

// Identify extracts the player id from the request header and stores it in
// the request context. Requests without one are rejected.
func Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		playerID := strings.TrimSpace(r.Header.Get(PlayerHeader))
		if playerID == "" {
			response.Error(w, http.StatusUnauthorized, "MISSING_PLAYER",
				"X-Player-ID header is required", nil)
			return
		}
		next.ServeHTTP(w, r.WithContext(SetPlayerID(r.Context(), playerID)))
	})
}
