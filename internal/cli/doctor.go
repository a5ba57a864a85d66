package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/nightdriver/ndsmon/internal/api"
	"github.com/nightdriver/ndsmon/internal/config"
	"github.com/nightdriver/ndsmon/internal/doctor"
	"github.com/nightdriver/ndsmon/internal/errors"
	"github.com/nightdriver/ndsmon/internal/ui"
	"github.com/spf13/cobra"
)

var doctorOutput string

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose config, server and preferences problems",
	Long: `Run diagnostic checks and report what needs fixing.

Checks the config file, whether the canvas server answers and how many
features are connected, and whether the preferences store can be opened.

Examples:
  ndsmon doctor
  ndsmon doctor --server http://10.0.0.5:7777/api -o json`,
	Args: cobra.NoArgs,
	// Doctor reports a broken config instead of refusing to start.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := ParseOutputFormat(doctorOutput)
		if err != nil {
			return err
		}
		return doctorCommand(cmd.Context(), format, cmd.OutOrStdout())
	},
}

func init() {
	doctorCmd.Flags().StringVarP(&doctorOutput, "output", "o", OutputTable, "output format: table or json")
	rootCmd.AddCommand(doctorCmd)
}

// doctorChecks builds the checks for the current flags. Server and
// preferences checks only run when the config loads.
func doctorChecks() []doctor.Check {
	checks := []doctor.Check{
		&doctor.ConfigFileCheck{ConfigPath: cfgFile},
		&doctor.ConfigSchemaCheck{ConfigPath: cfgFile, Server: serverFlag},
	}

	cfg, _, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return checks
	}
	if serverFlag != "" {
		cfg.Server = serverFlag
	}

	if client, err := api.NewClient(cfg.Server, api.Options{Timeout: cfg.RequestTimeout}); err == nil {
		checks = append(checks,
			&doctor.ServerCheck{Server: cfg.Server, Client: client},
			&doctor.FleetCheck{Client: client},
		)
	}
	return append(checks, &doctor.PrefsCheck{
		Backend: cfg.Preferences.Backend,
		Path:    cfg.PreferencesPath(),
	})
}

func doctorCommand(ctx context.Context, format string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	results := doctor.RunAllParallel(ctx, doctorChecks())

	if format == OutputJSON {
		if err := WriteJSONSuccess(out, results); err != nil {
			return err
		}
	} else {
		writeDoctorTable(out, results)
	}

	if doctor.HasFailures(results) {
		err := errors.New(errors.ErrValidation, doctor.Summary(results), "Fix the failed checks above")
		if format == OutputJSON {
			return reportedError{err}
		}
		return err
	}
	return nil
}

func writeDoctorTable(out io.Writer, results []doctor.CheckResult) {
	grouped := doctor.GroupByCategory(results)
	var body [][]string
	for _, cat := range doctor.Categories {
		for _, r := range grouped[cat] {
			body = append(body, []string{statusSymbol(r.Status), cat, r.Message})
			if r.Suggestion != "" && r.Status != doctor.StatusPass {
				body = append(body, []string{"", "", "  " + r.Suggestion})
			}
		}
	}
	fmt.Fprintln(out, ui.RenderSimpleTable([]string{"", "Check", "Result"}, body))

	summary := doctor.Summary(results)
	switch {
	case doctor.HasFailures(results):
		fmt.Fprintln(out, ui.ErrorStyle().Render(ui.SymbolFail+" "+summary))
	case doctor.HasIssues(results):
		fmt.Fprintln(out, ui.WarningStyle().Render(ui.SymbolWarning+" "+summary))
	default:
		fmt.Fprintln(out, ui.SuccessStyle().Render(ui.SymbolSuccess+" "+summary))
	}
}

func statusSymbol(s doctor.CheckStatus) string {
	switch s {
	case doctor.StatusPass:
		return ui.SymbolSuccess
	case doctor.StatusWarn:
		return ui.SymbolWarning
	default:
		return ui.SymbolFail
	}
}
