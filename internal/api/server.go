// Package api serves a read-only JSON view of archived interviews for
// dashboards, plus health and Prometheus endpoints.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/hanuman1123/interviewAIAgent/internal/archive"
	"github.com/hanuman1123/interviewAIAgent/internal/metrics"
	"github.com/hanuman1123/interviewAIAgent/internal/session"
)

// Archive is the read side the handlers need.
type Archive interface {
	Search(query string, field archive.Field) []session.ArchivedSession
	Get(id string) (session.ArchivedSession, error)
}

// Server routes the dashboard endpoints.
type Server struct {
	archive   Archive
	cache     Cache
	metrics   metrics.Recorder
	log       zerolog.Logger
	startTime time.Time
}

// Option configures a Server.
type Option func(*Server)

func WithCache(c Cache) Option { return func(s *Server) { s.cache = c } }

func WithMetrics(m metrics.Recorder) Option { return func(s *Server) { s.metrics = m } }

func WithLogger(l zerolog.Logger) Option { return func(s *Server) { s.log = l } }

// NewServer builds a Server over a.
func NewServer(a Archive, opts ...Option) *Server {
	s := &Server{
		archive:   a,
		cache:     noopCache{},
		metrics:   metrics.Noop(),
		log:       zerolog.Nop(),
		startTime: time.Now(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Handler returns the routed, instrumented handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.health)
	mux.Handle("GET /metrics", metrics.Handler(s.metrics))
	mux.HandleFunc("GET /api/interviews", s.listInterviews)
	mux.HandleFunc("GET /api/interviews/{id}", s.getInterview)
	return metrics.Middleware(s.metrics, mux)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("dashboard API listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("api: listen: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info().Msg("dashboard API shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(s.startTime)
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
	})
}

// interviewSummary is the list row; details stay on the item endpoint.
type interviewSummary struct {
	ID        string                `json:"id"`
	Date      time.Time             `json:"date"`
	Candidate session.CandidateInfo `json:"candidate"`
	Score     *int                  `json:"score"`
	Summary   string                `json:"summary,omitempty"`
	Questions int                   `json:"questions"`
}

type listResponse struct {
	Count      int                `json:"count"`
	Interviews []interviewSummary `json:"interviews"`
}

func (s *Server) listInterviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	field, err := archive.ParseField(q.Get("by"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	query := q.Get("q")

	s.serveFromCacheOrCompute(w, "list:"+string(field)+":"+query, func() (any, error) {
		entries := s.archive.Search(query, field)
		resp := listResponse{Count: len(entries), Interviews: make([]interviewSummary, 0, len(entries))}
		for _, e := range entries {
			resp.Interviews = append(resp.Interviews, interviewSummary{
				ID:        e.ID,
				Date:      e.Date,
				Candidate: e.CandidateInfo,
				Score:     e.FinalScore,
				Summary:   e.Summary,
				Questions: len(e.Questions),
			})
		}
		return resp, nil
	})
}

func (s *Server) getInterview(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	entry, err := s.archive.Get(id)
	if errors.Is(err, archive.ErrNotFound) {
		writeError(w, http.StatusNotFound, "interview not found")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("archive lookup failed")
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	s.serveFromCacheOrCompute(w, "item:"+id, func() (any, error) {
		return entry, nil
	})
}

func (s *Server) serveFromCacheOrCompute(w http.ResponseWriter, key string, compute func() (any, error)) {
	if data, ok := s.cache.Get(key); ok {
		writeRaw(w, http.StatusOK, data)
		return
	}

	result, err := compute()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("encode response")
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	s.cache.Set(key, data)
	writeRaw(w, http.StatusOK, data)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeRaw(w, status, data)
}

func writeRaw(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}
