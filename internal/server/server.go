// Package server exposes the published boards over HTTP and WebSocket and
// mounts the relay and the metrics endpoint next to them.
package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"MarketPulse/internal/board"
	"MarketPulse/internal/logger"
	"MarketPulse/internal/metrics"
	"MarketPulse/internal/model"
)

// Options configures a Server.
type Options struct {
	Addr        string
	Board       *board.Board
	Relay       http.Handler
	Metrics     *metrics.Registry
	Calibration string
}

// Server is the read-only board API.
type Server struct {
	router  *mux.Router
	server  *http.Server
	board   *board.Board
	metrics *metrics.Registry
	calib   string
	started time.Time
	log     *logger.Entry
}

type ctxKey struct{}

// RequestID returns the id assigned to the request carrying ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// New builds a server and its routes.
func New(opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	s := &Server{
		router:  mux.NewRouter(),
		board:   opts.Board,
		metrics: opts.Metrics,
		calib:   opts.Calibration,
		started: time.Now(),
		log:     logger.GetLogger().WithComponent("server"),
	}
	s.setupRoutes(opts.Relay)
	s.server = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes(relay http.Handler) {
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.requestLoggingMiddleware)

	s.router.HandleFunc("/health", s.health).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(jsonContentTypeMiddleware)
	api.HandleFunc("/boards", s.boards).Methods(http.MethodGet)
	api.HandleFunc("/boards/{page}", s.boardByPage).Methods(http.MethodGet)

	s.router.HandleFunc("/ws", s.stream).Methods(http.MethodGet)

	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}
	if relay != nil {
		s.router.PathPrefix("/relay").Handler(relay)
	}

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	})
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.log.WithField("addr", s.server.Addr).Info("http server listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen %s: %w", s.server.Addr, err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

type errorBody struct {
	Error string `json:"error"`
}

type healthBody struct {
	Status      string         `json:"status"`
	Uptime      string         `json:"uptime"`
	Calibration string         `json:"calibration,omitempty"`
	Pages       map[string]int `json:"pages"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	pages := make(map[string]int)
	for page, snap := range s.board.All() {
		pages[string(page)] = int(snap.Sequence())
	}
	writeJSON(w, http.StatusOK, healthBody{
		Status:      "ok",
		Uptime:      time.Since(s.started).Truncate(time.Second).String(),
		Calibration: s.calib,
		Pages:       pages,
	})
}

func (s *Server) boards(w http.ResponseWriter, r *http.Request) {
	all := s.board.All()
	out := make([]model.Snapshot, 0, len(all))
	for _, page := range model.AllPages {
		if snap, ok := all[page]; ok {
			out = append(out, snap)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) boardByPage(w http.ResponseWriter, r *http.Request) {
	page := model.Page(mux.Vars(r)["page"])
	snap, ok := s.board.Get(page)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: fmt.Sprintf("page %q not published", page)})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()[:8]
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func (s *Server) requestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)
		s.log.WithFields(logger.Fields{
			"request_id":  RequestID(r.Context()),
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      wrapper.statusCode,
			"duration_ms": float64(time.Since(start).Microseconds()) / 1000,
			"remote":      r.RemoteAddr,
		}).Debug("request")
	})
}

func jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// responseWrapper captures the status code for logging.
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack lets the websocket upgrader take over the connection.
func (rw *responseWrapper) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	rw.statusCode = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (rw *responseWrapper) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
