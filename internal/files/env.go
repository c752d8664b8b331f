package files

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultDirName defines the folder under the user's home directory.
	DefaultDirName = ".eldlog"
	// HomeEnv overrides the logbook root when set.
	HomeEnv = "ELDLOG_HOME"
)

// ResolveBasePath determines where eldlog keeps its logbooks, defaulting to
// ~/.eldlog. The location can be overridden by exporting ELDLOG_HOME.
func ResolveBasePath() (string, error) {
	if override, ok := os.LookupEnv(HomeEnv); ok {
		override = strings.TrimSpace(override)
		if override != "" {
			return normalizePath(override)
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultDirName), nil
}

func normalizePath(input string) (string, error) {
	if input == "~" || strings.HasPrefix(input, "~/") || strings.HasPrefix(input, "~"+string(filepath.Separator)) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		input = filepath.Join(home, strings.TrimPrefix(input, "~"))
	}
	return input, nil
}
