package cmd

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/heliofetch/heliofetch/internal/events"
	"github.com/heliofetch/heliofetch/internal/fetch"
	"github.com/heliofetch/heliofetch/internal/progress"
	"github.com/heliofetch/heliofetch/internal/utils"
	"github.com/heliofetch/heliofetch/pkg/heliofetch"
)

const roundTo = 100 * time.Millisecond

// runHeadless drives the fetch with line-based output for scripts and
// non-interactive terminals.
func runHeadless(ctx context.Context, opts heliofetch.Options, eventCh chan any) error {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		printEvents(eventCh)
	}()

	result, err := heliofetch.Fetch(ctx, opts)
	close(eventCh)
	wg.Wait()

	if err != nil {
		return err
	}
	if result.Failed > 0 {
		return fmt.Errorf("%d of %d downloads failed", result.Failed, result.Total)
	}
	return nil
}

func printEvents(eventCh <-chan any) {
	var reporter *progress.Reporter

	for msg := range eventCh {
		switch m := msg.(type) {
		case events.BatchStartedMsg:
			reporter = progress.NewReporter(m.Total)
			fmt.Printf("Found %d files to download\n", m.Total)
		case events.FileCompleteMsg:
			switch m.Status {
			case fetch.StatusSuccess.String():
				if reporter != nil {
					reporter.Succeeded()
				}
				fmt.Printf("  ok      %s (%s)\n", m.Filename, utils.FormatBytes(m.Bytes))
			case fetch.StatusSkipped.String():
				if reporter != nil {
					reporter.Skipped()
				}
				fmt.Printf("  skip    %s (exists)\n", m.Filename)
			default:
				if reporter != nil {
					reporter.Failed()
				}
				name := m.Filename
				if name == "" {
					name = m.URL
				}
				fmt.Printf("  failed  %s: %s\n", name, m.Reason)
			}
		case events.BatchCompleteMsg:
			if reporter != nil {
				snap := reporter.Snapshot()
				fmt.Printf("Downloaded %d/%d files (%d skipped, %d failed) in %v\n",
					snap.Succeeded, snap.Total, snap.Skipped, snap.Failed,
					m.Elapsed.Round(roundTo))
			}
		case events.BatchErrorMsg:
			fmt.Printf("Run aborted: %v\n", m.Err)
		}
	}
}
