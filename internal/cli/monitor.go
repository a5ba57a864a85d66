package cli

import (
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nightdriver/ndsmon/internal/api"
	"github.com/nightdriver/ndsmon/internal/config"
	"github.com/nightdriver/ndsmon/internal/errors"
	"github.com/nightdriver/ndsmon/internal/fleet"
	"github.com/nightdriver/ndsmon/internal/logger"
	"github.com/nightdriver/ndsmon/internal/monitor"
	"github.com/nightdriver/ndsmon/internal/notify"
	"github.com/nightdriver/ndsmon/internal/prefs"
	"github.com/nightdriver/ndsmon/internal/query"
	"github.com/nightdriver/ndsmon/internal/ui"
)

// monitorOptions carries the monitor command's flags.
type monitorOptions struct {
	Paused  bool
	LogFile string
}

// monitorCommand starts the TUI dashboard.
func monitorCommand(cfg *config.Config, opts monitorOptions) error {
	// The alternate screen owns the terminal; log lines go to the log file
	// or nowhere.
	if opts.LogFile != "" {
		f, err := tea.LogToFile(opts.LogFile, "ndsmon")
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Couldn't open log file "+opts.LogFile,
				"Check the --log-file path is writable")
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}
	lg := logger.New("[monitor]")

	store, err := prefs.Open(cfg.Preferences.Backend, cfg.PreferencesPath())
	if err != nil {
		return err
	}
	defer store.Close()
	if fs, ok := store.(*prefs.FileStore); ok && fs.Discarded() != nil {
		lg.Debug("ignoring unreadable preferences: %v", fs.Discarded())
	}

	client, err := api.NewClient(cfg.Server, api.Options{Timeout: cfg.RequestTimeout, Logger: logger.With(lg, "api")})
	if err != nil {
		return err
	}

	gate := monitor.NewGate()
	autoRefresh := !opts.Paused
	fleetStore := fleet.NewStore(client, fleet.Options{
		PollDelay:      cfg.PollDelay,
		RequestTimeout: cfg.RequestTimeout,
		AutoRefresh:    &autoRefresh,
		Gate:           gate,
		Notifications: notify.NewCenter(notify.Options{
			MaxVisible: cfg.Notifications.MaxVisible,
			TTL:        cfg.Notifications.TTL,
		}),
		Logger: logger.With(lg, "fleet"),
	})

	model := monitor.NewModel(fleetStore, query.NewTable(store, logger.With(lg, "prefs")), gate, monitor.Options{
		Server: cfg.Server,
		Cells: ui.CellOptions{
			DeltaThreshold: cfg.Delta.Threshold,
			DeltaWidth:     cfg.Delta.Width,
		},
		Logger: lg,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()

	// Release any command goroutine still waiting on a confirmation.
	gate.Close()

	return err
}
