package cli

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nightdriver/ndsmon/internal/config"
	"github.com/nightdriver/ndsmon/internal/errors"
	"github.com/nightdriver/ndsmon/internal/fleet"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Command-specific flags
var (
	listFlags     ListFlags
	canvasYes     bool
	featureYes    bool
	monitorPaused bool
)

// monitorCmd starts the dashboard
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Live dashboard of canvases and features",
	Long: `Open the live fleet dashboard.

The dashboard polls the server continuously and shows one row per feature
with health-coloured telemetry. Filter, sort, select and act on rows from
the keyboard; press ? for the full key list.

Examples:
  ndsmon monitor
  ndsmon monitor --server http://10.0.0.5:7777/api
  ndsmon monitor --paused --log-file /tmp/ndsmon.log`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorCommand(loadedConfig, monitorOptions{Paused: monitorPaused, LogFile: logFile})
	},
}

// canvasesCmd groups the one-shot canvas commands
var canvasesCmd = &cobra.Command{
	Use:     "canvases",
	Aliases: []string{"canvas"},
	Short:   "List and control canvases",
}

var canvasesListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Print the feature table once",
	Long: `Fetch one snapshot and print it as a table, JSON or YAML.

Rows are derived, filtered and sorted the same way the dashboard does it.
Without --columns the saved dashboard column layout is used.

Examples:
  ndsmon canvases list
  ndsmon canvases list --filter porch --sort fps --desc
  ndsmon canvases list --columns canvasName,host,status -o yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := listCommand(loadedConfig, listFlags, cmd.OutOrStdout())
		if f, _ := ParseOutputFormat(listFlags.Output); err != nil && f == OutputJSON {
			return reportJSON(cmd.OutOrStdout(), err)
		}
		return err
	},
}

var canvasesStartCmd = &cobra.Command{
	Use:   "start <id>...",
	Short: "Start canvases",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return startStopCommand(loadedConfig, args, true, cmd.OutOrStdout())
	},
}

var canvasesStopCmd = &cobra.Command{
	Use:   "stop <id>...",
	Short: "Stop canvases",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return startStopCommand(loadedConfig, args, false, cmd.OutOrStdout())
	},
}

var canvasesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a canvas",
	Long: `Delete a canvas after confirmation.

Asks interactively when stdin is a terminal; otherwise pass --yes.

Examples:
  ndsmon canvases delete 3
  ndsmon canvases delete 3 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return deleteCanvasCommand(loadedConfig, args[0], confirmGate(canvasYes), cmd.OutOrStdout())
	},
}

// featuresCmd groups feature commands
var featuresCmd = &cobra.Command{
	Use:     "features",
	Aliases: []string{"feature"},
	Short:   "Manage features on a canvas",
}

var featuresDeleteCmd = &cobra.Command{
	Use:   "delete <canvas-id> <feature-id>",
	Short: "Delete a feature from a canvas",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return deleteFeatureCommand(loadedConfig, args[0], args[1], confirmGate(featureYes), cmd.OutOrStdout())
	},
}

// configCmd groups config commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if loadedFrom != "" {
			fmt.Fprintf(out, "# source: %s\n", loadedFrom)
		} else {
			fmt.Fprintln(out, "# source: defaults")
		}
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(loadedConfig)
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for ndsmon.

Examples:
  # Bash
  ndsmon completion bash > /etc/bash_completion.d/ndsmon

  # Zsh
  ndsmon completion zsh > "${fpath[1]}/_ndsmon"

  # Fish
  ndsmon completion fish > ~/.config/fish/completions/ndsmon.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	// Completion works without a config file.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(out)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(out)
		default:
			return errors.New(errors.ErrConfig,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	monitorCmd.Flags().BoolVar(&monitorPaused, "paused", false, "start with auto-refresh off (press p to resume)")

	AddListFlags(canvasesListCmd, &listFlags)
	canvasesDeleteCmd.Flags().BoolVarP(&canvasYes, "yes", "y", false, "skip the confirmation prompt")
	featuresDeleteCmd.Flags().BoolVarP(&featureYes, "yes", "y", false, "skip the confirmation prompt")

	canvasesCmd.AddCommand(canvasesListCmd, canvasesStartCmd, canvasesStopCmd, canvasesDeleteCmd)
	featuresCmd.AddCommand(featuresDeleteCmd)
	configCmd.AddCommand(configShowCmd)

	// Register all commands
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(canvasesCmd)
	rootCmd.AddCommand(featuresCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(completionCmd)
}

// startStopCommand starts or stops the given canvases.
func startStopCommand(cfg *config.Config, args []string, start bool, out io.Writer) error {
	ids, err := ParseIDs(args)
	if err != nil {
		return err
	}
	s, err := newSession(cfg, nil, out)
	if err != nil {
		return err
	}
	if _, err := s.fetch(); err != nil {
		return err
	}

	var (
		verb string
		cmd  tea.Cmd
	)
	if start {
		verb, cmd = "Started", s.store.StartCanvases(ids)
	} else {
		verb, cmd = "Stopped", s.store.StopCanvases(ids)
	}
	if cmd == nil {
		return noMatch("canvas", ids)
	}
	return s.run(cmd, fmt.Sprintf("%s %s", verb, canvasList(s.store.Canvases(), ids)))
}

func deleteCanvasCommand(cfg *config.Config, arg string, gate fleet.Gate, out io.Writer) error {
	ids, err := ParseIDs([]string{arg})
	if err != nil {
		return err
	}
	s, err := newSession(cfg, gate, out)
	if err != nil {
		return err
	}
	canvases, err := s.fetch()
	if err != nil {
		return err
	}
	if fleet.FindCanvas(canvases, ids[0]) == nil {
		return noMatch("canvas", ids)
	}
	return s.run(s.store.DeleteCanvas(ids[0]), "Deleted "+canvasList(canvases, ids))
}

func deleteFeatureCommand(cfg *config.Config, canvasArg, featureArg string, gate fleet.Gate, out io.Writer) error {
	ids, err := ParseIDs([]string{canvasArg, featureArg})
	if err != nil {
		return err
	}
	canvasID, featureID := ids[0], ids[1]

	s, err := newSession(cfg, gate, out)
	if err != nil {
		return err
	}
	canvases, err := s.fetch()
	if err != nil {
		return err
	}
	canvas := fleet.FindCanvas(canvases, canvasID)
	if canvas == nil {
		return noMatch("canvas", []int{canvasID})
	}
	if canvas.FindFeature(featureID) == nil {
		return noMatch("feature on canvas "+canvasLabel(canvas), []int{featureID})
	}
	return s.run(s.store.DeleteFeature(canvasID, featureID),
		fmt.Sprintf("Deleted feature %d from %s", featureID, canvasLabel(canvas)))
}

// canvasList names the canvases among ids that exist in the snapshot.
func canvasList(canvases []fleet.Canvas, ids []int) string {
	var names []string
	for _, id := range ids {
		if c := fleet.FindCanvas(canvases, id); c != nil {
			names = append(names, canvasLabel(c))
		}
	}
	return strings.Join(names, ", ")
}

func canvasLabel(c *fleet.Canvas) string {
	if c.Name == "" {
		return fmt.Sprintf("canvas %d", c.ID)
	}
	return fmt.Sprintf("%q (%d)", c.Name, c.ID)
}
