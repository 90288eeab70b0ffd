package fetch

import (
	"time"

	"github.com/heliofetch/heliofetch/internal/catalog"
)

// Status is the terminal state of one download attempt.
type Status int

const (
	// StatusSuccess means the file was fetched and written to disk.
	StatusSuccess Status = iota
	// StatusSkipped means the destination already existed; the local copy
	// is trusted as complete and counts as a success.
	StatusSkipped
	// StatusFailed means the attempt failed; the reason is recorded and the
	// batch continues.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Outcome is the terminal result of attempting one descriptor. Created by a
// worker, consumed by the aggregator, never mutated afterwards.
type Outcome struct {
	Descriptor catalog.Descriptor
	Status     Status
	Reason     error  // nil unless Status == StatusFailed
	Filename   string // resolved local filename ("" when never resolved)
	Bytes      int64
	FileType   string // sniffed MIME type of the written payload
	Elapsed    time.Duration
}

// BatchResult is the aggregate tally across all descriptors in one run.
// Skipped downloads count as succeeded; Skipped is informational.
type BatchResult struct {
	Total     int
	Succeeded int
	Skipped   int
	Failed    int
}
