// Package cli implements the ndsmon command-line interface.
//
// Every command is a cobra.Command registered on rootCmd. The root
// PersistentPreRunE loads the config (flag, project file, global file,
// then defaults), applies --server and the colour mode, and validates it
// before any subcommand runs.
//
// # Command Structure
//
//	ndsmon monitor                       - live dashboard (Bubble Tea)
//	ndsmon canvases list                 - one snapshot as table, JSON or YAML
//	ndsmon canvases start|stop <id>...   - start or stop canvases
//	ndsmon canvases delete <id>          - delete a canvas
//	ndsmon features delete <cid> <fid>   - delete a feature
//	ndsmon config show                   - effective configuration
//
// # One-shot Commands
//
// The non-interactive commands drive the same fleet.Store the dashboard
// uses, synchronously: a session fetches one snapshot, then runs at most
// one store command and prints its outcome. Deletes are confirmed with a
// huh prompt on a terminal, or skipped with --yes; without either they
// fail with a VALIDATION error.
//
// With -o json, failures are written to stdout in the same envelope as
// successful output.
package cli
