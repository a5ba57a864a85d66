package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess      = "✓" // Command succeeded
	SymbolFail         = "✗" // Command failed
	SymbolWarning      = "⚠"
	SymbolConnected    = "●"
	SymbolDisconnected = "○"
	SymbolSortAsc      = "▲"
	SymbolSortDesc     = "▼"
	SymbolChecked      = "[x]"
	SymbolUnchecked    = "[ ]"
	SymbolPartial      = "[-]" // Some but not all rows selected
)
