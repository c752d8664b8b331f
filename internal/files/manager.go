package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	dirPermissions  = 0o755
	filePermissions = 0o644

	// ConfigFileName is the optional settings file kept next to the logbooks.
	ConfigFileName = "config.yaml"
)

// Manager centralizes where logbooks live on disk and how month files are
// named.
type Manager struct {
	basePath string
}

// NewManager constructs a Manager rooted at the provided directory. If basePath
// is empty, it falls back to ~/.eldlog (or another location determined by
// ResolveBasePath).
func NewManager(basePath string) (*Manager, error) {
	var err error
	if basePath == "" {
		basePath, err = ResolveBasePath()
		if err != nil {
			return nil, err
		}
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, err
	}

	return &Manager{basePath: abs}, nil
}

// BasePath returns the root directory storing all log files.
func (m *Manager) BasePath() string {
	return m.basePath
}

// ConfigPath returns where the default config file is looked up.
func (m *Manager) ConfigPath() string {
	return filepath.Join(m.basePath, ConfigFileName)
}

// MonthPath resolves the absolute path to the markdown file for the supplied time.
// The file may not exist yet; callers can choose to create it.
func (m *Manager) MonthPath(t time.Time) string {
	yearDir := filepath.Join(m.basePath, fmt.Sprintf("%04d", t.Year()))
	return filepath.Join(yearDir, fmt.Sprintf("%04d-%02d.md", t.Year(), t.Month()))
}

// MonthExists reports whether a month file has been written for t.
func (m *Manager) MonthExists(t time.Time) bool {
	_, err := os.Stat(m.MonthPath(t))
	return err == nil
}

// Months lists the months that have a log file, newest first, as the first
// day of each month in loc.
func (m *Manager) Months(loc *time.Location) ([]time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	paths, err := filepath.Glob(filepath.Join(m.basePath, "[0-9][0-9][0-9][0-9]", "*.md"))
	if err != nil {
		return nil, err
	}

	var months []time.Time
	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".md")
		month, err := time.ParseInLocation("2006-01", name, loc)
		if err != nil || filepath.Base(filepath.Dir(path)) != fmt.Sprintf("%04d", month.Year()) {
			continue
		}
		months = append(months, month)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].After(months[j])
	})
	return months, nil
}

// EnsureMonthFile guarantees the directory tree exists and the month file is
// present with the expected heading. It returns the absolute path to the file.
func (m *Manager) EnsureMonthFile(t time.Time) (string, error) {
	if m == nil {
		return "", errors.New("files.Manager is nil")
	}

	path := m.MonthPath(t)
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return "", fmt.Errorf("create directories: %w", err)
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, filePermissions)
	if err != nil {
		return "", fmt.Errorf("open month file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("stat month file: %w", err)
	}

	if info.Size() == 0 {
		if _, err := file.WriteString(monthHeader(t)); err != nil {
			return "", fmt.Errorf("write month header: %w", err)
		}
	}

	return path, nil
}

func monthHeader(t time.Time) string {
	return fmt.Sprintf("# Driver's Daily Log - %s %04d\n\n", t.Month().String(), t.Year())
}
