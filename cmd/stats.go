package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hanuman1123/interviewAIAgent/internal/session"
	"github.com/hanuman1123/interviewAIAgent/internal/ui/theme"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show interview statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		printStats(cmd.OutOrStdout(), a.machine.Snapshot())
		return nil
	},
}

type scoreStats struct {
	count, scored        int
	sum, lowest, highest int
	bands                [4]int
}

func computeStats(entries []session.ArchivedSession) scoreStats {
	var s scoreStats
	s.count = len(entries)
	for _, e := range entries {
		if e.FinalScore == nil {
			continue
		}
		v := *e.FinalScore
		if s.scored == 0 {
			s.lowest, s.highest = v, v
		}
		s.scored++
		s.sum += v
		s.lowest = min(s.lowest, v)
		s.highest = max(s.highest, v)
		switch {
		case v >= 90:
			s.bands[0]++
		case v >= 70:
			s.bands[1]++
		case v >= 50:
			s.bands[2]++
		default:
			s.bands[3]++
		}
	}
	return s
}

func printStats(w io.Writer, st session.State) {
	s := computeStats(st.Interviews)

	fmt.Fprintln(w, theme.Title.Render("Interview Statistics"))
	fmt.Fprintln(w, strings.Repeat("─", 40))
	fmt.Fprintf(w, "%-24s %d\n", "Archived interviews", s.count)
	if p := st.LastActiveSession; p != nil {
		fmt.Fprintf(w, "%-24s %s (question %d)\n", "Paused interview", p.CandidateInfo.Name, p.CurrentQuestionIndex+1)
	}
	if s.scored == 0 {
		return
	}
	fmt.Fprintf(w, "%-24s %.1f\n", "Average score", float64(s.sum)/float64(s.scored))
	fmt.Fprintf(w, "%-24s %d\n", "Highest score", s.highest)
	fmt.Fprintf(w, "%-24s %d\n", "Lowest score", s.lowest)
	fmt.Fprintln(w)
	for i, label := range []string{"Excellent (90-100)", "Good (70-89)", "Fair (50-69)", "Poor (<50)"} {
		fmt.Fprintf(w, "%-24s %d\n", label, s.bands[i])
	}
}
