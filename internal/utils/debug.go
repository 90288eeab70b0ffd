package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	debugMu     sync.Mutex
	debugFile   *os.File
	logsDir     string
	consoleEcho bool
)

// EnableConsoleDebug additionally echoes debug lines to stderr.
func EnableConsoleDebug() {
	debugMu.Lock()
	consoleEcho = true
	debugMu.Unlock()
}

// ConfigureDebug directs debug output to a timestamped file under dir.
// Before configuration, Debug calls are dropped.
func ConfigureDebug(dir string) {
	debugMu.Lock()
	defer debugMu.Unlock()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return
	}
	logsDir = dir

	name := fmt.Sprintf("heliofetch-%s.log", time.Now().Format("20060102-150405"))
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return
	}
	if debugFile != nil {
		debugFile.Close()
	}
	debugFile = f
}

// Debug writes a timestamped message to the configured log file.
func Debug(format string, args ...any) {
	debugMu.Lock()
	defer debugMu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	line := fmt.Sprintf("[%s] %s\n", timestamp, fmt.Sprintf(format, args...))
	if consoleEcho {
		fmt.Fprint(os.Stderr, line)
	}
	if debugFile == nil {
		return
	}
	fmt.Fprint(debugFile, line)
	debugFile.Sync() // Flush immediately
}

// CleanupLogs removes old log files, keeping the most recent retain files.
func CleanupLogs(retain int) {
	debugMu.Lock()
	dir := logsDir
	debugMu.Unlock()

	if dir == "" || retain <= 0 {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	var logs []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "heliofetch-") && strings.HasSuffix(e.Name(), ".log") {
			logs = append(logs, e.Name())
		}
	}

	// Names sort chronologically because of the timestamp format
	sort.Strings(logs)
	if len(logs) <= retain {
		return
	}
	for _, name := range logs[:len(logs)-retain] {
		_ = os.Remove(filepath.Join(dir, name))
	}
}
