package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hanuman1123/interviewAIAgent/internal/archive"
	"github.com/hanuman1123/interviewAIAgent/internal/export"
	"github.com/hanuman1123/interviewAIAgent/internal/session"
	"github.com/hanuman1123/interviewAIAgent/internal/ui/theme"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Browse and manage archived interviews",
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived interviews ranked by score",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := searchArchive(cmd)
		if err != nil {
			return err
		}
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		printArchiveTable(cmd.OutOrStdout(), entries(a.archive()))
		return nil
	},
}

var archiveShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one archived interview with its answers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		e, err := a.archive().Get(args[0])
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		printArchived(cmd.OutOrStdout(), e)
		return nil
	},
}

var archiveDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an archived interview",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.archive().Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Deleted", args[0])
		return nil
	},
}

var archiveDiscardCmd = &cobra.Command{
	Use:   "discard",
	Short: "Discard the paused interview and reset the live session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		a.archive().Discard(cmd.Context())
		fmt.Fprintln(cmd.OutOrStdout(), "Paused interview discarded.")
		return nil
	},
}

var archiveRestartCmd = &cobra.Command{
	Use:   "restart <id>",
	Short: "Start a new interview for the candidate of an archived one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInterview(cmd, interviewFlags{restartID: args[0]})
	},
}

var archiveExportCmd = &cobra.Command{
	Use:   "export <file.xlsx>",
	Short: "Export archived interviews to an Excel workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := searchArchive(cmd)
		if err != nil {
			return err
		}
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		rows := entries(a.archive())
		path, err := export.ToExcel(rows, args[0], time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d interviews to %s\n", len(rows), path)
		return nil
	},
}

// searchArchive reads the --query/--by flags and returns a function that
// runs the search once the app is open.
func searchArchive(cmd *cobra.Command) (func(*archive.Archive) []session.ArchivedSession, error) {
	query, _ := cmd.Flags().GetString("query")
	by, _ := cmd.Flags().GetString("by")
	field, err := archive.ParseField(by)
	if err != nil {
		return nil, err
	}
	return func(a *archive.Archive) []session.ArchivedSession {
		return a.Search(query, field)
	}, nil
}

func printArchiveTable(w io.Writer, entries []session.ArchivedSession) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No archived interviews found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-36s  %-16s  %-24s  %-12s  %-16s  %s\n",
		"Rank", "ID", "Date", "Candidate", "Phone", "Email", "Score")
	fmt.Fprintln(w, strings.Repeat("─", 124))
	for i, e := range entries {
		score := "-"
		if e.FinalScore != nil {
			score = theme.ScoreStyle(*e.FinalScore).Render(fmt.Sprintf("%3d", *e.FinalScore))
		}
		fmt.Fprintf(w, "%-4d  %-36s  %-16s  %-24s  %-12s  %-16s  %s\n",
			i+1,
			e.ID,
			e.Date.Local().Format("2006-01-02 15:04"),
			truncate(e.CandidateInfo.Name, 24),
			truncate(e.CandidateInfo.Phone, 12),
			truncate(e.CandidateInfo.Email, 16),
			score,
		)
	}
}

func printArchived(w io.Writer, e session.ArchivedSession) {
	sep := strings.Repeat("─", 60)

	fmt.Fprintf(w, "ID:        %s\n", e.ID)
	fmt.Fprintf(w, "Date:      %s\n", e.Date.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Candidate: %s\n", e.CandidateInfo.Name)
	fmt.Fprintf(w, "Email:     %s\n", e.CandidateInfo.Email)
	fmt.Fprintf(w, "Phone:     %s\n", e.CandidateInfo.Phone)
	if e.FinalScore != nil {
		fmt.Fprintf(w, "Score:     %s\n", theme.ScoreStyle(*e.FinalScore).Render(fmt.Sprintf("%d/100", *e.FinalScore)))
	} else {
		fmt.Fprintln(w, "Score:     -")
	}
	if e.Summary != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, e.Summary)
	}

	for i, q := range e.Questions {
		fmt.Fprintln(w)
		fmt.Fprintln(w, sep)
		head := fmt.Sprintf("Q%d", i+1)
		if q.Difficulty != "" {
			head += " (" + string(q.Difficulty) + ")"
		}
		fmt.Fprintln(w, theme.Label.Render(head), q.Text)
		fmt.Fprintln(w, sep)
		answer := e.AnswerAt(i)
		if answer == "" {
			answer = session.NoAnswer
		}
		fmt.Fprintln(w, answer)
		if q.Score != nil {
			fmt.Fprintf(w, "\nScore: %d/10\n", *q.Score)
		}
		if q.Feedback != nil {
			fmt.Fprintln(w, theme.Subtitle.Render(*q.Feedback))
		}
	}
}

func init() {
	for _, c := range []*cobra.Command{archiveListCmd, archiveExportCmd} {
		c.Flags().StringP("query", "q", "", "Search text (case-insensitive substring)")
		c.Flags().String("by", "name", "Field to search: name, email, phone or all")
	}

	archiveCmd.AddCommand(archiveListCmd)
	archiveCmd.AddCommand(archiveShowCmd)
	archiveCmd.AddCommand(archiveDeleteCmd)
	archiveCmd.AddCommand(archiveDiscardCmd)
	archiveCmd.AddCommand(archiveRestartCmd)
	archiveCmd.AddCommand(archiveExportCmd)
}
