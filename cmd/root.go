package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hanuman1123/interviewAIAgent/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "interview-agent",
	Short: "AI interview assistant for full-stack candidates",
	Long: "interview-agent runs timed, AI-generated technical interviews in the terminal, " +
		"scores them, and keeps an archive interviewers can search, export and serve.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInterview(cmd, interviewFlags{})
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides INTERVIEW_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: ./config.yaml if present)")

	rootCmd.AddCommand(interviewCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path, then INTERVIEW_DB / the default XDG path.
func resolveDBPath(cmd *cobra.Command, configured string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if configured != "" {
		return configured, store.EnsureDir(configured)
	}
	return store.DefaultDBPath()
}
