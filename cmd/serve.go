package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hanuman1123/interviewAIAgent/internal/api"
	"github.com/hanuman1123/interviewAIAgent/internal/archive"
	"github.com/hanuman1123/interviewAIAgent/internal/persist"
	"github.com/hanuman1123/interviewAIAgent/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read-only dashboard API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		addr := a.cfg.API.Addr
		if flag, _ := cmd.Flags().GetString("addr"); flag != "" {
			addr = flag
		}

		srv := api.NewServer(&liveArchive{store: a.persist},
			api.WithCache(api.NewCache(a.cfg.API.CacheMB, a.cfg.API.CacheTTL, a.log)),
			api.WithMetrics(a.metrics),
			api.WithLogger(a.log),
		)
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides api.addr)")
}

// liveArchive reloads the saved state on every read so interviews
// finished by other processes show up.
type liveArchive struct {
	store *persist.Store
}

func (l *liveArchive) load() *archive.Archive {
	st := l.store.Load(context.Background())
	return archive.New(session.NewMachine(st, nil), nil)
}

func (l *liveArchive) Search(query string, field archive.Field) []session.ArchivedSession {
	return l.load().Search(query, field)
}

func (l *liveArchive) Get(id string) (session.ArchivedSession, error) {
	return l.load().Get(id)
}
