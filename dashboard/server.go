package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dnldd/chartboard/shared"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

const (
	// shutdownTimeout is the maximum time to wait for in-flight requests on shutdown.
	shutdownTimeout = time.Second * 5
	// readHeaderTimeout bounds the time to read request headers.
	readHeaderTimeout = time.Second * 5
)

// ServerConfig represents the configuration for the dashboard http server.
type ServerConfig struct {
	// View is the dashboard view served.
	View *View
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Validate asserts the config sane inputs.
func (cfg *ServerConfig) Validate() error {
	var errs error

	if cfg.View == nil {
		errs = errors.Join(errs, fmt.Errorf("view cannot be nil"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, fmt.Errorf("logger cannot be nil"))
	}

	return errs
}

// Server serves the dashboard over http.
type Server struct {
	cfg    *ServerConfig
	router *mux.Router
}

// NewServer initializes the dashboard http server.
func NewServer(cfg *ServerConfig) (*Server, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating server config: %w", err)
	}

	s := &Server{
		cfg:    cfg,
		router: mux.NewRouter(),
	}

	s.router.HandleFunc("/", s.handlePage).Methods(http.MethodGet)
	s.router.HandleFunc("/api/state", s.handleState).Methods(http.MethodGet)
	s.router.HandleFunc("/charts/{kind:[a-z]+}.svg", s.handleChart).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	return s, nil
}

// Handler returns the http handler serving the dashboard.
func (s *Server) Handler() http.Handler {
	return s.router
}

// handlePage serves the dashboard page.
func (s *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	err := s.cfg.View.RenderPage(w)
	if err != nil {
		s.cfg.Logger.Error().Err(err).Msg("rendering dashboard page")
		http.Error(w, "unable to render dashboard", http.StatusInternalServerError)
	}
}

// handleState serves the json form of the dashboard.
func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	err := json.NewEncoder(w).Encode(s.cfg.View.StateView())
	if err != nil {
		s.cfg.Logger.Error().Err(err).Msg("encoding dashboard state")
	}
}

// handleChart serves the svg drawing of a charted panel.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	kind, err := shared.ParseChartKind(mux.Vars(r)["kind"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")

	err = s.cfg.View.RenderChart(w, kind)
	switch {
	case errors.Is(err, ErrNotCharted):
		http.Error(w, err.Error(), http.StatusNotFound)
	case err != nil:
		s.cfg.Logger.Error().Err(err).Msgf("rendering %s chart", kind.String())
		http.Error(w, "unable to render chart", http.StatusInternalServerError)
	}
}

// handleHealth reports the server is up.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// Run serves the dashboard on the provided address until the context is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info().Msgf("serving dashboard on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving dashboard: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		if err != nil {
			return fmt.Errorf("shutting down dashboard server: %w", err)
		}
		return nil
	}
}
