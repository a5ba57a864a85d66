// Package ui provides the shared terminal styling for ndsmon: the colour
// palette, status symbols, per-column cell rendering for fleet rows, static
// tables for one-shot CLI output and a spinner for single requests.
//
// # Color Scheme
//
// Colors are defined as ANSI codes for broad terminal compatibility:
//
//	ColorSuccess   (green)  - good health, successful commands
//	ColorWarning   (yellow) - warning health
//	ColorError     (red)    - danger health, failures
//	ColorInfo      (cyan)   - informational messages
//	ColorMuted     (gray)   - secondary text, disconnected rows
//
// Use DisableColors() to switch to monochrome output (for --no-color).
//
// # Tables
//
// RenderTable draws rows of Cells, colouring each cell by its health tag:
//
//	cells := ui.RowCells(&row, keys, ui.CellOptions{})
//	fmt.Print(ui.RenderTable(headers, [][]ui.Cell{cells}, ui.TableOptions{Highlight: -1}))
package ui
