package config

import (
	"os"
	"path/filepath"
)

// GetHelioDir returns the application directory (~/.heliofetch), creating the
// path string only - callers create it on demand.
func GetHelioDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".heliofetch"
	}
	return filepath.Join(homeDir, ".heliofetch")
}

// GetStateDir returns the directory holding the history database.
func GetStateDir() string {
	return filepath.Join(GetHelioDir(), "state")
}

// GetLogsDir returns the directory holding debug logs.
func GetLogsDir() string {
	return filepath.Join(GetHelioDir(), "logs")
}

// GetRuntimeDir returns the directory for runtime artifacts (lock files).
func GetRuntimeDir() string {
	return filepath.Join(GetHelioDir(), "run")
}
