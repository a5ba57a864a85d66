package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/nightdriver/ndsmon/internal/api"
	"github.com/nightdriver/ndsmon/internal/config"
	"github.com/nightdriver/ndsmon/internal/errors"
	"github.com/nightdriver/ndsmon/internal/fleet"
	"github.com/nightdriver/ndsmon/internal/logger"
	"github.com/nightdriver/ndsmon/internal/notify"
	"github.com/nightdriver/ndsmon/internal/ui"
	"golang.org/x/term"
)

// stdinIsTerminal is swapped out in tests.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// stderrIsTerminal decides whether spinners are drawn.
var stderrIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// confirmGate picks how destructive one-shot commands are confirmed:
// --yes approves, an interactive terminal asks with huh, anything else
// gets no gate and the command fails asking for --yes.
func confirmGate(yes bool) fleet.Gate {
	switch {
	case yes:
		return fleet.AlwaysConfirm
	case stdinIsTerminal():
		return huhGate
	default:
		return nil
	}
}

// huhGate asks for confirmation with a huh form on the terminal.
var huhGate = fleet.GateFunc(func(ctx context.Context, p fleet.Prompt) (bool, error) {
	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(p.Title).
				Description(p.Message).
				Affirmative(p.ConfirmText).
				Negative(p.CancelText).
				Value(&confirmed),
		),
	)
	if err := form.RunWithContext(ctx); err != nil {
		if stderrors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, errors.WrapWithCode(err, errors.ErrValidation,
			"Failed to get user input",
			"Pass --yes to skip the confirmation prompt")
	}
	return confirmed, nil
})

// session is a one-shot fleet store: one snapshot, then at most one
// command, driven synchronously instead of through a Bubble Tea program.
type session struct {
	store *fleet.Store
	out   io.Writer
	log   logger.Logger
}

func newSession(cfg *config.Config, gate fleet.Gate, out io.Writer) (*session, error) {
	log := sessionLogger()
	client, err := api.NewClient(cfg.Server, api.Options{Timeout: cfg.RequestTimeout, Logger: logger.With(log, "api")})
	if err != nil {
		return nil, err
	}
	autoRefresh := false
	store := fleet.NewStore(client, fleet.Options{
		PollDelay:      cfg.PollDelay,
		RequestTimeout: cfg.RequestTimeout,
		AutoRefresh:    &autoRefresh,
		Gate:           gate,
		Notifications:  notify.NewCenter(notify.Options{}),
		Logger:         logger.With(log, "fleet"),
	})
	return &session{store: store, out: out, log: log}, nil
}

// sessionLogger keeps one-shot output clean: store warnings repeat the
// error the command returns, so they are only printed with NDSMON_DEBUG.
func sessionLogger() logger.Logger {
	if !logger.DebugEnabled() {
		return logger.Noop()
	}
	return logger.New("[ndsmon]")
}

// fetch loads one snapshot.
func (s *session) fetch() ([]fleet.Canvas, error) {
	spinner := s.spinner("Fetching canvases")
	msg := s.store.Start()()
	s.store.Update(msg)
	if err := s.store.ConnectionError(); err != nil {
		spinner.fail()
		return nil, err
	}
	spinner.success()
	return s.store.Canvases(), nil
}

// run executes one store command and reports the outcome on out.
func (s *session) run(cmd tea.Cmd, done string) error {
	result, ok := cmd().(fleet.CommandResultMsg)
	if !ok {
		return errors.New(errors.ErrTransport, "Unexpected command result", "")
	}
	s.store.Update(result)

	switch {
	case result.Cancelled:
		fmt.Fprintln(s.out, ui.MutedStyle().Render("Cancelled"))
		return nil
	case result.Err != nil:
		return result.Err
	}
	fmt.Fprintf(s.out, "%s %s\n", ui.SuccessStyle().Render(ui.SymbolSuccess), done)
	return nil
}

// noMatch is returned when none of the requested ids are in the snapshot.
func noMatch(what string, ids []int) error {
	return errors.New(errors.ErrValidation,
		fmt.Sprintf("No %s matches %v", what, ids),
		"Run 'ndsmon canvases list' to see the current ids")
}

type cliSpinner struct{ s *ui.Spinner }

func (s *session) spinner(label string) cliSpinner {
	if !stderrIsTerminal() {
		return cliSpinner{}
	}
	sp := ui.NewSpinner(label)
	sp.SetOutput(func(text string) { fmt.Fprint(os.Stderr, text) })
	sp.Start()
	return cliSpinner{s: sp}
}

func (c cliSpinner) success() {
	if c.s != nil {
		c.s.Success()
	}
}

func (c cliSpinner) fail() {
	if c.s != nil {
		c.s.Fail()
	}
}
