package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/handlers"

	"github.com/hammamikhairi/vitalsvoice/internal/logger"
)

// Listener serves the API until its context is cancelled.
type Listener struct {
	srv *http.Server
	log *logger.Logger
}

// NewListener wraps the router with request logging to the app logger.
func NewListener(addr string, s *Server, log *logger.Logger) *Listener {
	h := handlers.LoggingHandler(log.Writer(), s.Router())
	return &Listener{
		srv: &http.Server{
			Addr:              addr,
			Handler:           h,
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log,
	}
}

// Start begins serving in the background and shuts down when ctx ends.
func (l *Listener) Start(ctx context.Context) {
	go func() {
		l.log.Info("api: listening on %s", l.srv.Addr)
		if err := l.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.log.Error("api: %v", err)
		}
	}()
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := l.srv.Shutdown(sctx); err != nil {
			l.log.Warn("api: shutdown: %v", err)
		}
	}()
}
