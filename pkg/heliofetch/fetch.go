// Package heliofetch is the programmatic entry point: one call queries the
// catalog and downloads every matching file.
package heliofetch

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/heliofetch/heliofetch/internal/catalog"
	"github.com/heliofetch/heliofetch/internal/config"
	"github.com/heliofetch/heliofetch/internal/events"
	"github.com/heliofetch/heliofetch/internal/fetch"
	"github.com/heliofetch/heliofetch/internal/history"
	"github.com/heliofetch/heliofetch/internal/utils"
)

// Options selects what to fetch and where to put it. Zero-value timeouts
// and concurrency fall back to the defaults in config.
type Options struct {
	Query     catalog.Query
	OutputDir string

	// Concurrency overrides the configured worker count when positive.
	Concurrency int

	// EventCh receives events.* messages when set. The consumer must drain
	// it; the run blocks on a full channel.
	EventCh chan<- any

	// History records the run when set.
	History *history.Store

	// Settings carries the catalog endpoint and download tuning. When nil,
	// defaults are used.
	Settings *config.Settings
}

// Fetch queries the catalog and downloads every returned file. Per-file
// failures are tallied in the result, not raised. A query the catalog
// rejects (valid response, success flag false) ends the run with an empty
// result and no error; transport and validation errors are returned.
func Fetch(ctx context.Context, opts Options) (fetch.BatchResult, error) {
	start := time.Now()
	runID := uuid.NewString()

	settings := opts.Settings
	if settings == nil {
		settings = config.DefaultSettings()
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = settings.General.DefaultOutputDir
	}

	client := catalog.NewClient(settings.Catalog)
	descriptors, err := client.Search(ctx, opts.Query)
	if err != nil {
		if errors.Is(err, catalog.ErrRejected) {
			// The catalog answered; there is just nothing to do.
			utils.Debug("Run %s: catalog rejected the query", runID)
			emit(opts.EventCh, events.BatchStartedMsg{RunID: runID, Total: 0})
			emit(opts.EventCh, events.BatchCompleteMsg{RunID: runID, Elapsed: time.Since(start)})
			return fetch.BatchResult{}, nil
		}
		emit(opts.EventCh, events.BatchErrorMsg{RunID: runID, Err: err})
		return fetch.BatchResult{}, err
	}

	utils.Debug("Run %s: catalog returned %d files", runID, len(descriptors))
	emit(opts.EventCh, events.BatchStartedMsg{RunID: runID, Total: len(descriptors)})

	downloads := settings.Downloads
	if opts.Concurrency > 0 {
		downloads.Concurrency = opts.Concurrency
	}

	pool := fetch.NewPool(outputDir, downloads, settings.Catalog.UserAgent)
	pool.RunID = runID
	pool.ProgressCh = opts.EventCh

	result, outcomes, err := pool.Run(ctx, descriptors)
	if err != nil {
		emit(opts.EventCh, events.BatchErrorMsg{RunID: runID, Err: err})
		return result, err
	}

	elapsed := time.Since(start)
	emit(opts.EventCh, events.BatchCompleteMsg{
		RunID:     runID,
		Total:     result.Total,
		Succeeded: result.Succeeded,
		Failed:    result.Failed,
		Elapsed:   elapsed,
	})

	if opts.History != nil {
		if err := recordRun(ctx, opts.History, runID, start, elapsed, opts.Query, outputDir, result, outcomes); err != nil {
			// History is best effort; the downloads already happened.
			utils.Debug("Run %s: failed to record history: %v", runID, err)
		}
	}

	return result, nil
}

func emit(ch chan<- any, msg any) {
	if ch != nil {
		ch <- msg
	}
}

func recordRun(ctx context.Context, store *history.Store, runID string, start time.Time,
	elapsed time.Duration, q catalog.Query, outputDir string, result fetch.BatchResult,
	outcomes []fetch.Outcome) error {

	files := make([]history.FileRecord, 0, len(outcomes))
	for _, o := range outcomes {
		reason := ""
		if o.Reason != nil {
			reason = o.Reason.Error()
		}
		files = append(files, history.FileRecord{
			URL:      o.Descriptor.URL,
			Filename: o.Filename,
			Status:   o.Status.String(),
			Reason:   reason,
			Bytes:    o.Bytes,
			FileType: o.FileType,
		})
	}

	return store.RecordRun(ctx, history.Run{
		ID:         runID,
		StartedAt:  start,
		StartDate:  q.StartDate,
		EndDate:    q.EndDate,
		Wavelength: q.Wavelength,
		Cadence:    q.Cadence.Encode(),
		OutputDir:  outputDir,
		Total:      result.Total,
		Succeeded:  result.Succeeded,
		Skipped:    result.Skipped,
		Failed:     result.Failed,
		Elapsed:    elapsed,
	}, files)
}
