// Package monitor implements the ndsmon fleet dashboard, a Bubble Tea TUI
// over a canvas server.
//
// # Architecture
//
// The package uses the Bubble Tea framework (Model-Update-View):
//
//   - Model: holds the fleet.Store (snapshot, poll loop, commands), the
//     query.Table (filter, sort, columns, selection) and view state
//   - Update: routes keystrokes to table and command intents and feeds
//     store messages (poll results, ticks, command results) back to the store
//   - View: renders the header, connection banner, fleet table and
//     notification stack
//
// # Message Flow
//
//  1. Init starts the store's poll loop and waits for confirmation prompts
//  2. fleet.PollResultMsg arrives; the store keeps the snapshot and re-arms
//  3. the model re-derives rows and recomputes the table view
//  4. View() re-renders with the new rows
//
// Destructive commands ask the Gate for confirmation. The Gate hands the
// prompt to the update loop as a promptMsg and blocks the command until the
// user answers in the modal.
//
// # Views
//
//	ViewList     the fleet table, one row per feature
//	ViewDetail   one canvas: its features and the focused feature's telemetry
//	ViewColumns  the column editor (visibility and order)
package monitor
