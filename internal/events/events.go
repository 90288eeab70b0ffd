// Package events defines the messages emitted while a batch runs. They are
// pumped over a shared channel into whichever consumer is active (TUI or
// headless printer) and never influence scheduling.
package events

import "time"

// BatchStartedMsg signals that the catalog listing finished and downloads
// are about to begin.
type BatchStartedMsg struct {
	RunID string
	Total int
}

// FileCompleteMsg signals the terminal outcome of one descriptor.
type FileCompleteMsg struct {
	RunID    string
	URL      string
	Filename string
	Status   string // "success", "skipped" or "failed"
	Reason   string // failure reason, empty otherwise
	Bytes    int64
	Elapsed  time.Duration
}

// BatchCompleteMsg signals that every descriptor reached a terminal outcome.
type BatchCompleteMsg struct {
	RunID     string
	Total     int
	Succeeded int
	Failed    int
	Elapsed   time.Duration
}

// BatchErrorMsg signals that the run aborted before downloads started
// (catalog failure).
type BatchErrorMsg struct {
	RunID string
	Err   error
}
