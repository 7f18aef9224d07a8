// Package httpapi exposes the dashboard over a small JSON HTTP API.
package httpapi

import (
	"context"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hammamikhairi/vitalsvoice/internal/dashboard"
	"github.com/hammamikhairi/vitalsvoice/internal/domain"
	"github.com/hammamikhairi/vitalsvoice/internal/logger"
)

// Dashboard is the subset of the dashboard session the API drives.
type Dashboard interface {
	Snapshot() dashboard.Snapshot
	Page(ctx context.Context, page, perPage int) (domain.ReadingPage, error)
	ExportCSV(ctx context.Context, w io.Writer) error
	SetVoice(on bool)
	ReadAloud() uint64
	Refresh()
}

var _ Dashboard = (*dashboard.Dashboard)(nil)

// Server holds the handlers.
type Server struct {
	dash Dashboard
	log  *logger.Logger
}

// NewServer creates the API handlers around dash.
func NewServer(dash Dashboard, log *logger.Logger) *Server {
	return &Server{dash: dash, log: log}
}

// Router returns the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)

	r.HandleFunc("/api/status", s.status).Methods(http.MethodGet)
	r.HandleFunc("/api/readings", s.readings).Methods(http.MethodGet)
	r.HandleFunc("/api/readings.csv", s.readingsCSV).Methods(http.MethodGet)
	r.HandleFunc("/api/recommendations", s.recommendations).Methods(http.MethodGet)
	r.HandleFunc("/api/voice", s.setVoice).Methods(http.MethodPut)
	r.HandleFunc("/api/voice/read", s.readAloud).Methods(http.MethodPost)
	r.HandleFunc("/api/refresh", s.refresh).Methods(http.MethodPost)

	return r
}
