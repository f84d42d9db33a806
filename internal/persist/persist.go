// Package persist saves and restores the interview state. A save never
// fails its caller and a load always yields a usable state, however
// damaged the stored document is.
package persist

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/hanuman1123/interviewAIAgent/internal/metrics"
	"github.com/hanuman1123/interviewAIAgent/internal/session"
)

const (
	// StateKey holds the full interview state.
	StateKey = "interviewState_v1"
	// CandidateKey caches the last archived candidate for restarts.
	CandidateKey = "savedCandidateInfo"
)

// MalformedStateError describes fields that were dropped while loading.
type MalformedStateError struct {
	Fields []string
}

func (e *MalformedStateError) Error() string {
	return fmt.Sprintf("persist: malformed state, defaulted %s", strings.Join(e.Fields, ", "))
}

// Store implements session.Persister over a Backend.
type Store struct {
	backend Backend
	log     zerolog.Logger
	metrics metrics.Recorder
	mu      sync.Mutex
}

var _ session.Persister = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option { return func(s *Store) { s.log = l } }

// WithMetrics sets the metrics recorder.
func WithMetrics(m metrics.Recorder) Option { return func(s *Store) { s.metrics = m } }

// New returns a Store over b.
func New(b Backend, opts ...Option) *Store {
	s := &Store{backend: b, log: zerolog.Nop(), metrics: metrics.Noop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Save writes st. Failures are logged.
func (s *Store) Save(ctx context.Context, st session.State) {
	start := time.Now()
	defer func() { s.metrics.ObservePersistDuration(time.Since(start)) }()

	data, err := json.Marshal(st)
	if err != nil {
		s.log.Error().Err(err).Msg("encode interview state")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.Put(ctx, StateKey, data); err != nil {
		s.log.Error().Err(err).Msg("save interview state")
	}
}

// Load returns the stored state, merged field by field over the
// defaults. Unreadable fields are logged and defaulted.
func (s *Store) Load(ctx context.Context) session.State {
	data, ok, err := s.backend.Get(ctx, StateKey)
	if err != nil {
		s.log.Error().Err(err).Msg("load interview state, using defaults")
		return session.NewState()
	}
	if !ok || len(data) == 0 {
		return session.NewState()
	}
	st, err := DecodeState(data)
	if err != nil {
		s.log.Warn().Err(err).Msg("load interview state")
	}
	return st
}

// SaveCandidate caches info for later restarts. Failures are logged.
func (s *Store) SaveCandidate(ctx context.Context, info session.CandidateInfo) {
	data, err := json.Marshal(info)
	if err != nil {
		s.log.Error().Err(err).Msg("encode candidate info")
		return
	}
	if err := s.backend.Put(ctx, CandidateKey, data); err != nil {
		s.log.Error().Err(err).Msg("save candidate info")
	}
}

// LoadCandidate returns the cached candidate, if any.
func (s *Store) LoadCandidate(ctx context.Context) (session.CandidateInfo, bool) {
	var info session.CandidateInfo
	data, ok, err := s.backend.Get(ctx, CandidateKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("load candidate info")
		return info, false
	}
	if !ok {
		return info, false
	}
	if err := json.Unmarshal(data, &info); err != nil {
		s.log.Warn().Err(err).Msg("decode candidate info")
		return session.CandidateInfo{}, false
	}
	return info, true
}

// Clear removes both the state and the cached candidate.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.Delete(ctx, StateKey); err != nil {
		return err
	}
	return s.backend.Delete(ctx, CandidateKey)
}
