package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/heliofetch/heliofetch/internal/catalog"
	"github.com/heliofetch/heliofetch/internal/config"
	"github.com/heliofetch/heliofetch/internal/events"
	"github.com/heliofetch/heliofetch/internal/utils"
)

// IncompleteSuffix marks files still being written. A completed run never
// leaves one behind.
const IncompleteSuffix = ".part"

const keepAliveDuration = 30 * time.Second

// errReadStalled is the failure reason when the body transfer produced no
// data for longer than the read-stall timeout.
var errReadStalled = errors.New("read stalled")

// Pool downloads a batch of descriptors with a bounded number of workers.
// Per-file failures become outcomes; nothing aborts the batch.
type Pool struct {
	OutputDir   string
	Concurrency int
	UserAgent   string
	RunID       string

	// ProgressCh receives events.FileCompleteMsg per outcome when set.
	ProgressCh chan<- any

	cfg config.DownloadSettings

	nameMu  sync.Mutex
	claimed map[string]int
}

// NewPool creates a pool writing into outputDir. Concurrency and timeouts
// come from cfg; a non-positive concurrency falls back to the default.
func NewPool(outputDir string, cfg config.DownloadSettings, userAgent string) *Pool {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = config.DefaultSettings().Downloads.Concurrency
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = config.DefaultSettings().Downloads.ConnectTimeout
	}
	if cfg.ReadStallTimeout <= 0 {
		cfg.ReadStallTimeout = config.DefaultSettings().Downloads.ReadStallTimeout
	}
	if cfg.WorkerBufferSize <= 0 {
		cfg.WorkerBufferSize = config.DefaultSettings().Downloads.WorkerBufferSize
	}
	return &Pool{
		OutputDir:   outputDir,
		Concurrency: cfg.Concurrency,
		UserAgent:   userAgent,
		cfg:         cfg,
		claimed:     make(map[string]int),
	}
}

// newClient builds an http.Client shared by all workers. The connect timeout
// lives on the dialer; body stalls are handled per download by a watchdog.
func (p *Pool) newClient() *http.Client {
	transport := &http.Transport{
		MaxIdleConnsPerHost:   p.Concurrency + 2,
		MaxConnsPerHost:       p.Concurrency,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: p.cfg.ReadStallTimeout,
		DialContext: (&net.Dialer{
			Timeout:   p.cfg.ConnectTimeout,
			KeepAlive: keepAliveDuration,
		}).DialContext,
	}
	return &http.Client{Transport: transport}
}

// Run downloads every descriptor and returns once all of them reached a
// terminal outcome. The returned slice is ordered by completion, which is
// unconstrained.
func (p *Pool) Run(ctx context.Context, descriptors []catalog.Descriptor) (BatchResult, []Outcome, error) {
	if err := os.MkdirAll(p.OutputDir, 0755); err != nil {
		return BatchResult{}, nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	client := p.newClient()
	defer client.CloseIdleConnections()

	tasks := make(chan catalog.Descriptor)
	results := make(chan Outcome, p.Concurrency)

	var wg sync.WaitGroup
	for i := 0; i < p.Concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for desc := range tasks {
				results <- p.download(ctx, client, desc)
			}
		}(i)
	}

	// Single consumer owns the counters; workers never touch shared state.
	result := BatchResult{Total: len(descriptors)}
	outcomes := make([]Outcome, 0, len(descriptors))
	done := make(chan struct{})
	go func() {
		defer close(done)
		for outcome := range results {
			switch outcome.Status {
			case StatusSuccess:
				result.Succeeded++
			case StatusSkipped:
				result.Succeeded++
				result.Skipped++
			case StatusFailed:
				result.Failed++
			}
			outcomes = append(outcomes, outcome)

			if p.ProgressCh != nil {
				reason := ""
				if outcome.Reason != nil {
					reason = outcome.Reason.Error()
				}
				p.ProgressCh <- events.FileCompleteMsg{
					RunID:    p.RunID,
					URL:      outcome.Descriptor.URL,
					Filename: outcome.Filename,
					Status:   outcome.Status.String(),
					Reason:   reason,
					Bytes:    outcome.Bytes,
					Elapsed:  outcome.Elapsed,
				}
			}
		}
	}()

	for _, desc := range descriptors {
		tasks <- desc
	}
	close(tasks)

	wg.Wait()
	close(results)
	<-done

	return result, outcomes, nil
}

// download fetches one descriptor. Every error is converted into a Failed
// outcome; nothing propagates.
func (p *Pool) download(ctx context.Context, client *http.Client, desc catalog.Descriptor) Outcome {
	start := time.Now()
	outcome := Outcome{Descriptor: desc}

	fail := func(err error) Outcome {
		utils.Debug("Download failed: %s: %v", desc.URL, err)
		outcome.Status = StatusFailed
		outcome.Reason = err
		outcome.Elapsed = time.Since(start)
		return outcome
	}

	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, desc.URL, nil)
	if err != nil {
		return fail(err)
	}
	// Same session headers as the catalog request; the endpoint serves
	// both surfaces.
	req.Header.Set("User-Agent", p.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := client.Do(req)
	if err != nil {
		return fail(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fail(fmt.Errorf("unexpected status: %d", resp.StatusCode))
	}

	outcome.Filename = p.claimFilename(desc, resp.Header)
	destPath := filepath.Join(p.OutputDir, outcome.Filename)

	if info, err := os.Stat(destPath); err == nil {
		// Existing file is trusted as complete; the body stays unread.
		utils.Debug("Skipping %s: %s already exists", desc.URL, outcome.Filename)
		outcome.Status = StatusSkipped
		outcome.Bytes = info.Size()
		outcome.Elapsed = time.Since(start)
		return outcome
	}

	written, err := p.writeBody(reqCtx, cancel, resp.Body, destPath)
	if err != nil {
		return fail(err)
	}

	outcome.Status = StatusSuccess
	outcome.Bytes = written
	outcome.FileType = utils.DetectFileType(destPath)
	outcome.Elapsed = time.Since(start)
	utils.Debug("Downloaded %s (%d bytes) in %v", outcome.Filename, written, outcome.Elapsed)
	return outcome
}

// claimFilename resolves the destination filename and reserves it for this
// run. Two descriptors resolving to the same name get " (n)" suffixes so
// neither silently overwrites the other.
func (p *Pool) claimFilename(desc catalog.Descriptor, header http.Header) string {
	name := utils.ContentDispositionFilename(header)
	if name == "" {
		name = utils.SanitizeFilename(desc.SuggestedFilename)
	}
	if name == "" {
		name = utils.URLFilename(desc.URL)
	}

	p.nameMu.Lock()
	defer p.nameMu.Unlock()

	if p.claimed[name] == 0 {
		p.claimed[name]++
		return name
	}

	// A suffixed candidate can itself already be claimed, either by an
	// earlier collision or by a server that served the suffixed name
	// directly. Keep counting until one is free.
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for n := p.claimed[name]; ; n++ {
		candidate := fmt.Sprintf("%s (%d)%s", base, n, ext)
		if p.claimed[candidate] == 0 {
			p.claimed[name]++
			p.claimed[candidate]++
			return candidate
		}
	}
}

// writeBody streams the response body to destPath via a temp file. A
// watchdog cancels the request when no data arrives within the read-stall
// timeout; a slow-start connection was already bounded by the dial timeout.
func (p *Pool) writeBody(ctx context.Context, cancel context.CancelFunc, body io.Reader, destPath string) (int64, error) {
	workingPath := destPath + IncompleteSuffix
	outFile, err := os.Create(workingPath)
	if err != nil {
		return 0, err
	}

	success := false
	defer func() {
		outFile.Close()
		if !success {
			os.Remove(workingPath)
		}
	}()

	var stalled atomic.Bool
	watchdog := time.AfterFunc(p.cfg.ReadStallTimeout, func() {
		stalled.Store(true)
		cancel()
	})
	defer watchdog.Stop()

	var written int64
	buf := make([]byte, p.cfg.WorkerBufferSize)
	for {
		nr, readErr := body.Read(buf)
		if nr > 0 {
			watchdog.Reset(p.cfg.ReadStallTimeout)
			nw, writeErr := outFile.Write(buf[:nr])
			written += int64(nw)
			if writeErr != nil {
				return written, fmt.Errorf("write error: %w", writeErr)
			}
			if nw != nr {
				return written, io.ErrShortWrite
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			if stalled.Load() {
				return written, fmt.Errorf("%w after %v", errReadStalled, p.cfg.ReadStallTimeout)
			}
			return written, fmt.Errorf("read error: %w", readErr)
		}
	}

	if err := outFile.Sync(); err != nil {
		return written, fmt.Errorf("sync error: %w", err)
	}
	if err := outFile.Close(); err != nil {
		return written, fmt.Errorf("close error: %w", err)
	}
	if err := os.Rename(workingPath, destPath); err != nil {
		return written, fmt.Errorf("failed to finalize file: %w", err)
	}

	success = true
	return written, nil
}
