package cmd

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/heliofetch/heliofetch/internal/config"
)

var runLock *flock.Flock

// AcquireLock takes the instance lock. It returns false when another
// process already holds it.
func AcquireLock() (bool, error) {
	runDir := config.GetRuntimeDir()
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return false, err
	}
	runLock = flock.New(filepath.Join(runDir, "heliofetch.lock"))
	return runLock.TryLock()
}

// ReleaseLock releases the instance lock if held.
func ReleaseLock() {
	if runLock != nil {
		runLock.Unlock()
		runLock = nil
	}
}
