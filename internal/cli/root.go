package cli

import (
	stderrors "errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/nightdriver/ndsmon/internal/config"
	"github.com/nightdriver/ndsmon/internal/errors"
	"github.com/nightdriver/ndsmon/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Global flags
var (
	cfgFile    string
	serverFlag string
	noColor    bool
	logFile    string
)

// Config resolved by the root PersistentPreRunE, and the file it came from
// ("" when running on defaults).
var (
	loadedConfig *config.Config
	loadedFrom   string
)

var rootCmd = &cobra.Command{
	Use:   "ndsmon",
	Short: "Monitor and control an NDSCPP canvas server",
	Long: `ndsmon watches the canvases and LED features of an NDSCPP server.

Run "ndsmon monitor" for the live dashboard, or use the one-shot commands
to list, start, stop and delete canvases from scripts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
}

// loadConfig resolves the config file, applies flag overrides and validates.
func loadConfig() error {
	cfg, path, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return err
	}
	if serverFlag != "" {
		cfg.Server = serverFlag
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	loadedConfig = cfg
	loadedFrom = path
	applyColorMode(cfg.Output.Color)
	return nil
}

// applyColorMode turns colour off for --no-color, output.color "never", or
// "auto" when stdout is not a terminal.
func applyColorMode(mode string) {
	switch {
	case noColor, mode == "never":
		ui.DisableColors()
	case mode == "always":
		lipgloss.SetColorProfile(termenv.TrueColor)
	case !term.IsTerminal(int(os.Stdout.Fd())):
		ui.DisableColors()
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./.ndsmon.yaml, then ~/.config/ndsmon/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverFlag, "server", "", "canvas server API URL (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write dashboard logs to this file")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	if errors.IsCode(err, errors.ErrCancelled) {
		return
	}
	var reported reportedError
	if stderrors.As(err, &reported) {
		os.Exit(1)
	}

	if isUnknownCommandError(err) {
		msg := err.Error()
		if name := extractUnknownCommand(err); name != "" {
			msg = fmt.Sprintf("Unknown command '%s'", name)
		}
		fmt.Fprintln(os.Stderr, errors.New(errors.ErrConfig,
			msg,
			"Run 'ndsmon --help' to see available commands").Error())
		os.Exit(1)
	}

	fmt.Fprintln(os.Stderr, err.Error())
	os.Exit(1)
}

var unknownCommandPattern = regexp.MustCompile(`unknown command "([^"]+)"`)

// isUnknownCommandError reports whether err is cobra's unknown command or
// flag error.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}

// extractUnknownCommand returns the command name from cobra's unknown
// command error, or "".
func extractUnknownCommand(err error) string {
	m := unknownCommandPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return ""
	}
	return m[1]
}
