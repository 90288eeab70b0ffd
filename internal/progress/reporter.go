// Package progress tracks batch completion counts for live reporting.
package progress

import "sync"

// Snapshot is a point-in-time view of a running batch.
type Snapshot struct {
	Total     int
	Completed int
	Succeeded int
	Skipped   int
	Failed    int
}

// Done reports whether every file reached a terminal state.
func (s Snapshot) Done() bool {
	return s.Total > 0 && s.Completed == s.Total
}

// Reporter accumulates per-file completions. Counters only move forward.
// Safe for concurrent use.
type Reporter struct {
	mu   sync.Mutex
	snap Snapshot
}

// NewReporter creates a reporter expecting total completions.
func NewReporter(total int) *Reporter {
	return &Reporter{snap: Snapshot{Total: total}}
}

// Succeeded records one successful download.
func (r *Reporter) Succeeded() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snap.Completed++
	r.snap.Succeeded++
}

// Skipped records one file that already existed. Skips count as successes.
func (r *Reporter) Skipped() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snap.Completed++
	r.snap.Succeeded++
	r.snap.Skipped++
}

// Failed records one failed download.
func (r *Reporter) Failed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snap.Completed++
	r.snap.Failed++
}

// Snapshot returns the current counts.
func (r *Reporter) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap
}
