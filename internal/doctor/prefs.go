package doctor

import (
	"context"
	"fmt"

	"github.com/nightdriver/ndsmon/internal/errors"
	"github.com/nightdriver/ndsmon/internal/prefs"
	"github.com/nightdriver/ndsmon/internal/query"
)

// PrefsCheck opens the preferences store and decodes the saved table
// layout.
type PrefsCheck struct {
	Backend string
	Path    string
}

func (c *PrefsCheck) Name() string     { return "preferences" }
func (c *PrefsCheck) Category() string { return "PREFERENCES" }

func (c *PrefsCheck) Run(context.Context) CheckResult {
	store, err := prefs.Open(c.Backend, c.Path)
	if err != nil {
		return CheckResult{
			Status:     StatusFail,
			Message:    errors.Message(err),
			Suggestion: "Close any running dashboard, or set preferences.backend: memory",
		}
	}
	defer store.Close()

	where := c.Backend
	if c.Path != "" {
		where = fmt.Sprintf("%s at %s", c.Backend, c.Path)
	}

	if fs, ok := store.(*prefs.FileStore); ok && fs.Discarded() != nil {
		return CheckResult{
			Status:     StatusWarn,
			Message:    fmt.Sprintf("%s is unreadable; the dashboard will start from defaults and rewrite it", where),
			Suggestion: "Delete the file, or change a column or filter in the dashboard to rewrite it",
		}
	}

	raw, ok, err := store.Get(query.StorageKey)
	switch {
	case err != nil:
		return CheckResult{
			Status:  StatusFail,
			Message: fmt.Sprintf("Couldn't read %s: %v", where, err),
		}
	case !ok || raw == "":
		return CheckResult{
			Status:  StatusPass,
			Message: fmt.Sprintf("%s store, no saved layout yet", where),
		}
	}

	cfg, err := query.Decode([]byte(raw))
	if err != nil {
		return CheckResult{
			Status:     StatusWarn,
			Message:    "Saved table layout is unreadable; the dashboard will use defaults",
			Suggestion: "Press R in the column editor to rewrite it",
		}
	}
	return CheckResult{
		Status: StatusPass,
		Message: fmt.Sprintf("%s store, %d of %d columns shown",
			where, len(cfg.DataColumns()), len(cfg.Columns)),
	}
}
