package bot

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// StateSnapshot reports the size of the volatile stores
type StateSnapshot struct {
	Accounts       int `json:"accounts"`
	LiveChallenges int `json:"live_challenges"`
	Panels         int `json:"panels"`
	RewardChannels int `json:"reward_channels"`
}

// StateProvider produces a fresh snapshot per request
type StateProvider func() StateSnapshot

// HealthResponse wraps the /debug/state payload
type HealthResponse struct {
	Success bool          `json:"success"`
	Data    StateSnapshot `json:"data"`
}

// NewHealthHandler serves /health and /debug/state
func NewHealthHandler(state StateProvider) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("/debug/state", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(HealthResponse{Success: true, Data: state()}); err != nil {
			log.WithError(err).Warn("Failed to encode state snapshot")
		}
	})

	return mux
}

// StartHealthAPI starts the health API in the background. The returned
// server is shut down by the caller.
func StartHealthAPI(port int, state StateProvider) *http.Server {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      otelhttp.NewHandler(NewHealthHandler(state), "health-api"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Health API listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("Health API server error: %v", err)
		}
	}()

	return server
}
