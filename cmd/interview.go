package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/hanuman1123/interviewAIAgent/internal/archive"
	"github.com/hanuman1123/interviewAIAgent/internal/interview"
	"github.com/hanuman1123/interviewAIAgent/internal/resume"
	"github.com/hanuman1123/interviewAIAgent/internal/session"
	"github.com/hanuman1123/interviewAIAgent/internal/ui/theme"
)

var (
	errInputClosed = errors.New("input closed")
	errQuit        = errors.New("interview paused")
)

type interviewFlags struct {
	resumeFile string
	name       string
	email      string
	phone      string

	// restartID starts over for the candidate of an archived interview.
	restartID string
}

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Run a timed interview for a candidate",
	Long: "Collects the candidate's details (from a resume file or by prompting), then asks six " +
		"timed questions. On a terminal, type an answer and press Enter; Esc pauses. With piped " +
		"input an answer spans lines up to an empty one and /quit pauses. /skip submits an empty " +
		"answer. A paused or interrupted interview can be resumed by entering the same email and phone.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var f interviewFlags
		f.resumeFile, _ = cmd.Flags().GetString("resume-file")
		f.name, _ = cmd.Flags().GetString("name")
		f.email, _ = cmd.Flags().GetString("email")
		f.phone, _ = cmd.Flags().GetString("phone")
		return runInterview(cmd, f)
	},
}

func init() {
	interviewCmd.Flags().StringP("resume-file", "r", "", "Resume to read contact details from (.pdf, .txt, .md)")
	interviewCmd.Flags().String("name", "", "Candidate name")
	interviewCmd.Flags().String("email", "", "Candidate email")
	interviewCmd.Flags().String("phone", "", "Candidate phone number")
}

// runInterview opens the app and drives one interview on the terminal.
// An interactive terminal gets the full-screen question view; piped input
// is read line by line.
func runInterview(cmd *cobra.Command, f interviewFlags) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctrl, err := a.controller(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var r *runner
	if in, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(in.Fd()) {
		r = newRunner(out, nil, a.machine, ctrl, a.archive())
		r.term = &teaTerminal{in: in, out: out, ctrl: ctrl}
	} else {
		r = newRunner(out, lineChannel(ctx, cmd.InOrStdin()), a.machine, ctrl, a.archive())
	}
	r.extractor = resume.NewExtractor(resume.WithLogger(a.log))
	return r.run(ctx, f)
}

// runner collects the candidate, settles resume and hands the question
// phase to its terminal.
type runner struct {
	*console
	term      terminal
	machine   *session.Machine
	ctrl      *interview.Controller
	archive   *archive.Archive
	extractor *resume.Extractor
}

// newRunner builds a runner that reads candidate input line by line from in.
func newRunner(out io.Writer, in <-chan string, m *session.Machine, ctrl *interview.Controller, arch *archive.Archive) *runner {
	con := &console{w: out}
	return &runner{
		console: con,
		term:    &lineTerminal{console: con, in: in, ctrl: ctrl},
		machine: m,
		ctrl:    ctrl,
		archive: arch,
	}
}

// run collects the candidate, starts or resumes the interview and runs
// it until it is archived or paused. Pausing saves a resumable pointer.
func (r *runner) run(ctx context.Context, f interviewFlags) error {
	err := r.start(ctx, f)
	r.ctrl.Close(context.WithoutCancel(ctx))

	switch {
	case err == nil:
		return nil
	case errors.Is(err, errQuit), errors.Is(err, errInputClosed), errors.Is(err, context.Canceled):
		if p := r.machine.Resumable(); p != nil {
			if same, _ := session.SameCandidate(p.CandidateInfo, r.machine.Current().CandidateInfo); same {
				r.println()
				r.println(theme.Hint.Render("Progress saved. Enter the same email and phone next time to resume."))
			}
		}
		return nil
	default:
		return err
	}
}

func (r *runner) start(ctx context.Context, f interviewFlags) error {
	r.println(theme.Title.Render("Full-stack interview"))

	if f.restartID != "" {
		info, err := r.archive.Restart(ctx, f.restartID)
		if err != nil {
			return err
		}
		r.println(theme.Subtitle.Render("Starting over for " + info.Name))
		return r.resumeCurrent(ctx)
	}

	info, err := r.collect(ctx, f)
	if err != nil {
		return err
	}

	resumed, err := r.offerResume(ctx, info)
	if err != nil {
		return err
	}
	if resumed {
		return r.resumeCurrent(ctx)
	}

	turn, ok, err := r.ctrl.Intake(ctx, info)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("candidate details incomplete: missing %s", strings.Join(resume.Missing(info), ", "))
	}
	return r.runQuestions(ctx, turn)
}

// offerResume offers the candidate their unfinished interview: either the
// live session a crash left running or the saved pointer. A live session
// that belongs to someone else is parked first. It reports whether the
// live session is now the one to continue.
func (r *runner) offerResume(ctx context.Context, info session.CandidateInfo) (bool, error) {
	running, welcome := r.machine.RunningFor(info)
	saved, savedWelcome := r.machine.HasResumable(info)
	if !running && r.machine.Current().Status == session.StatusInProgress {
		r.machine.ParkResumable(ctx)
		r.machine.Reset(ctx)
	}
	if !running && !saved {
		return false, nil
	}

	q := "A saved interview matches this email and phone. Resume it?"
	if welcome || savedWelcome {
		q = fmt.Sprintf("Welcome back, %s! Resume your previous interview?", info.Name)
	}
	yes, err := r.confirm(ctx, q)
	if err != nil {
		return false, err
	}
	switch {
	case !yes && saved:
		r.machine.DiscardSession(ctx)
		return false, nil
	case !yes:
		r.machine.Reset(ctx)
		return false, nil
	case saved:
		// A paused interview is both live and saved; resuming clears the pointer.
		return true, r.machine.ResumeFromPointer(ctx)
	default:
		return true, nil
	}
}

func (r *runner) resumeCurrent(ctx context.Context) error {
	turn, err := r.ctrl.Current(ctx)
	if err != nil {
		return err
	}
	return r.runQuestions(ctx, turn)
}

// runQuestions runs the question phase and prints the outcome.
func (r *runner) runQuestions(ctx context.Context, turn interview.Turn) error {
	res, err := r.term.questions(ctx, turn)
	if err != nil {
		return err
	}
	r.showResult(*res)
	return nil
}

// collect gathers name, email and phone from flags, the resume file and
// prompts, in that order of precedence.
func (r *runner) collect(ctx context.Context, f interviewFlags) (session.CandidateInfo, error) {
	var given session.CandidateInfo
	for _, flag := range []struct{ field, value string }{
		{resume.FieldName, f.name},
		{resume.FieldEmail, f.email},
		{resume.FieldPhone, f.phone},
	} {
		if flag.value == "" {
			continue
		}
		clean, err := resume.ValidateField(flag.field, flag.value)
		if err != nil {
			r.println(theme.Bad.Render(err.Error()))
			continue
		}
		setField(&given, flag.field, clean)
	}

	info := given
	if f.resumeFile != "" && r.extractor != nil {
		text, err := r.extractor.Extract(ctx, f.resumeFile)
		if err != nil {
			r.println(theme.Caution.Render("Could not read resume: " + err.Error()))
			r.println(theme.Hint.Render("Please enter your details manually."))
		} else {
			info = resume.ParseContact(text).Merge(given)
			r.println(theme.Subtitle.Render("From your resume:"))
			for _, line := range []struct{ k, v string }{{"Name", info.Name}, {"Email", info.Email}, {"Phone", info.Phone}} {
				if line.v != "" {
					r.println("  " + theme.Label.Render(line.k+":") + " " + line.v)
				}
			}
		}
	}

	for _, field := range resume.Missing(info) {
		clean, err := r.term.prompt(ctx, fieldLabel(field), checkField(field))
		if err != nil {
			return info, err
		}
		setField(&info, field, clean)
	}
	return info, nil
}

func setField(info *session.CandidateInfo, field, value string) {
	switch field {
	case resume.FieldName:
		info.Name = value
	case resume.FieldEmail:
		info.Email = value
	case resume.FieldPhone:
		info.Phone = value
	}
}

func fieldLabel(field string) string {
	switch field {
	case resume.FieldName:
		return "Full name"
	case resume.FieldEmail:
		return "Email"
	default:
		return "Phone"
	}
}

// checkField validates a typed field, reducing rejections to their
// message.
func checkField(field string) func(string) (string, error) {
	return func(value string) (string, error) {
		clean, err := resume.ValidateField(field, value)
		var verr *resume.ValidationError
		if errors.As(err, &verr) {
			return "", errors.New(verr.Message)
		}
		return clean, err
	}
}

func (r *runner) confirm(ctx context.Context, question string) (bool, error) {
	line, err := r.term.prompt(ctx, question+" [Y/n]", nil)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (r *runner) showResult(res interview.Result) {
	r.println()
	r.println(theme.Title.Render("Interview complete"))
	r.println(theme.Label.Render("Final score: ") + theme.ScoreStyle(res.Score).Render(fmt.Sprintf("%d/100", res.Score)))
	if res.Degraded {
		r.println(theme.Degraded.Render("AI evaluation was unavailable; a default score was recorded."))
	}
	if res.Archived.Summary != "" {
		r.println()
		r.println(theme.Card.Render(res.Archived.Summary))
	}
	for i, q := range res.Archived.Questions {
		if q.Score == nil && q.Feedback == nil {
			continue
		}
		line := theme.Label.Render(fmt.Sprintf("Q%d", i+1))
		if q.Score != nil {
			line += " " + theme.Body.Render(fmt.Sprintf("%d/10", *q.Score))
		}
		if q.Feedback != nil {
			line += "  " + theme.Subtitle.Render(*q.Feedback)
		}
		r.println(line)
	}
	r.println(theme.Hint.Render("Archived as " + res.Archived.ID))
}
