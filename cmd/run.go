package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hanuman1123/interviewAIAgent/internal/archive"
	"github.com/hanuman1123/interviewAIAgent/internal/assistant"
	"github.com/hanuman1123/interviewAIAgent/internal/config"
	"github.com/hanuman1123/interviewAIAgent/internal/interview"
	"github.com/hanuman1123/interviewAIAgent/internal/llm"
	"github.com/hanuman1123/interviewAIAgent/internal/logging"
	"github.com/hanuman1123/interviewAIAgent/internal/metrics"
	"github.com/hanuman1123/interviewAIAgent/internal/persist"
	"github.com/hanuman1123/interviewAIAgent/internal/sequencer"
	"github.com/hanuman1123/interviewAIAgent/internal/session"
	"github.com/hanuman1123/interviewAIAgent/internal/store"
)

// app holds the dependencies shared by the commands.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	db       *store.Store
	persist  *persist.Store
	machine  *session.Machine
	metrics  metrics.Recorder
	registry *prometheus.Registry
	closers  []io.Closer
}

// openApp loads config, opens storage and restores the saved state.
func openApp(cmd *cobra.Command) (*app, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	log, logCloser, err := logging.New(logging.Options{
		Level: cfg.Log.Level,
		File:  cfg.Log.File,
		JSON:  cfg.Log.JSON,
	}, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	a := &app{cfg: cfg, log: log, metrics: metrics.Noop(), closers: []io.Closer{logCloser}}

	dbPath, err := resolveDBPath(cmd, cfg.Storage.DBPath)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	a.db, err = store.Open(dbPath)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	a.closers = append(a.closers, a.db)

	var backend persist.Backend = a.db.Documents()
	if cfg.Storage.Backend == "file" {
		fb, err := persist.NewFileBackend(cfg.Storage.Dir)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, fb)
		backend = fb
	}

	if cfg.Metrics.Enabled {
		a.registry = prometheus.NewRegistry()
		a.metrics = metrics.New(a.registry)
	}

	a.persist = persist.New(backend, persist.WithLogger(log), persist.WithMetrics(a.metrics))
	a.machine = session.NewMachine(a.persist.Load(cmd.Context()), a.persist, session.WithLogger(log))

	log.Debug().
		Str("db", dbPath).
		Str("backend", cfg.Storage.Backend).
		Str("config", cfg.Path).
		Msg("app opened")
	return a, nil
}

// Close releases everything openApp acquired, newest first.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.log.Warn().Err(err).Msg("close")
		}
	}
}

func (a *app) archive() *archive.Archive {
	return archive.New(a.machine, a.persist)
}

// provider builds the configured LLM provider. When none is configured
// an always-unavailable provider is returned so the interview runs on
// the offline question bank.
func (a *app) provider(ctx context.Context, stderr io.Writer) llm.Provider {
	cfg := a.cfg.ApplyLLM(llm.ConfigFromEnv())
	if cfg.Validate() != nil {
		if discovered, ok := llm.DiscoverConfig(); ok {
			discovered.RequestsPerSecond = cfg.RequestsPerSecond
			cfg = a.cfg.ApplyLLM(discovered)
		}
	}

	p, err := llm.NewProvider(ctx, cfg, a.db.EventRepo(), a.log)
	if err != nil {
		fmt.Fprintln(stderr, "LLM provider not configured:", err)
		fmt.Fprintln(stderr, "Questions will come from the offline bank and scoring will be degraded.")
		return llm.NewMockProvider()
	}
	return p
}

// controller wires the assistant, question plan and interview
// controller over the app's session machine.
func (a *app) controller(ctx context.Context, stderr io.Writer) (*interview.Controller, error) {
	plan, err := sequencer.LoadPlan(a.cfg.Interview.PlanFile)
	if err != nil {
		return nil, err
	}

	ai := assistant.New(a.provider(ctx, stderr),
		assistant.WithLogger(a.log),
		assistant.WithMetrics(a.metrics),
	)
	seq := sequencer.New(plan, ai,
		sequencer.WithLogger(a.log),
		sequencer.WithMetrics(a.metrics),
	)
	return interview.New(a.machine, seq, ai,
		interview.WithLogger(a.log),
		interview.WithMetrics(a.metrics),
		interview.WithTick(a.cfg.Interview.Tick),
	), nil
}
