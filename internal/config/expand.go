package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves environment variables and a leading ~ in a path
// from the config file, so "$XDG_STATE_HOME/ndsmon/prefs.db" and
// "~/prefs.json" both work. ~user is left alone.
func ExpandPath(path string) string {
	path = os.ExpandEnv(path)
	switch {
	case path == "~":
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
	case strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~/"))
		}
	}
	return path
}
