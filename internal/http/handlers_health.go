package httpx

import (
	"net/http"
)

type healthJSON struct {
	Status  string `json:"status"`
	Session string `json:"session"`
}

// healthHandler reports liveness plus whether the session has finished hydrating.
// It answers 200 either way; hydration is not a readiness failure.
func healthHandler(session SessionSnapshotter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := "ready"
		if session != nil && session.Snapshot().IsLoading {
			state = "loading"
		}
		if r.Method == http.MethodHead {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			return
		}
		WriteJSON(w, http.StatusOK, healthJSON{Status: "ok", Session: state})
	}
}
