//go:build windows

package log

import (
	"os"
	"path/filepath"
)

// getDefaultDir resolves %LOCALAPPDATA%\murmur\logs, falling back to the
// conventional AppData\Local path when the variable is unset.
func getDefaultDir() (string, error) {
	base := os.Getenv("LOCALAPPDATA")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, "AppData", "Local")
	}
	return filepath.Join(base, "murmur", "logs"), nil
}
