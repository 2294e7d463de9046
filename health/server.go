package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"streak-bot/model"
	"streak-bot/utils"
)

// Server provides HTTP health check endpoints.
type Server struct {
	server *http.Server
}

type statusResponse struct {
	Ready      bool             `json:"ready"`
	RosterSize int              `json:"roster_size"`
	LastRun    *model.RunRecord `json:"last_run"`
}

// NewRouter builds the routes served by the health server.
func NewRouter(status model.StatusProvider) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	r.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		last, err := status.LastRun()
		if err != nil {
			utils.Logger.Warn("status: could not load last run", "err", err)
		}
		resp := statusResponse{
			Ready:      status.IsReady(),
			RosterSize: status.RosterSize(),
			LastRun:    last,
		}
		w.Header().Set("Content-Type", "application/json")
		if !resp.Ready {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(resp)
	}).Methods(http.MethodGet)

	return r
}

// New creates a new health check server.
func New(addr string, status model.StatusProvider) *Server {
	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(status),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	utils.Logger.Info("health check server listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	utils.Logger.Info("shutting down health check server")
	return s.server.Shutdown(ctx)
}
