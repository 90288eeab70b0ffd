package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// ServedFile describes one downloadable path on a FileServer.
type ServedFile struct {
	Data        []byte
	Filename    string // Content-Disposition filename ("" = header omitted)
	StatusCode  int    // 0 means 200
	Hang        bool   // Never write a body (for stall/timeout tests)
	HangHeaders bool   // Never even write headers
	Latency     time.Duration
}

// FileServer is a configurable mock of the per-file download endpoints.
// Paths are registered relative to the server root, e.g. "/files/a.fits".
type FileServer struct {
	Server *httptest.Server

	// Tracking
	RequestCount   atomic.Int64
	ActiveRequests atomic.Int64
	PeakActive     atomic.Int64

	mu    sync.Mutex
	files map[string]ServedFile

	// Release unblocks any hanging handlers on Close.
	release chan struct{}
}

// FileServerOption configures a FileServer.
type FileServerOption func(*FileServer)

// WithServedFile registers a file at the given path.
func WithServedFile(path string, f ServedFile) FileServerOption {
	return func(s *FileServer) {
		s.files[path] = f
	}
}

// NewFileServer creates a mock download server and skips the test if binding
// fails.
func NewFileServer(t *testing.T, opts ...FileServerOption) *FileServer {
	t.Helper()
	s := &FileServer{
		files:   make(map[string]ServedFile),
		release: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.Server = NewHTTPServerT(t, http.HandlerFunc(s.handleRequest))
	t.Cleanup(func() {
		close(s.release)
		s.Server.Close()
	})
	return s
}

// URL returns the full URL for a registered path.
func (s *FileServer) URL(path string) string {
	return s.Server.URL + path
}

// Serve registers or replaces a file after the server has started.
func (s *FileServer) Serve(path string, f ServedFile) {
	s.mu.Lock()
	s.files[path] = f
	s.mu.Unlock()
}

func (s *FileServer) handleRequest(w http.ResponseWriter, r *http.Request) {
	s.RequestCount.Add(1)
	active := s.ActiveRequests.Add(1)
	defer s.ActiveRequests.Add(-1)

	// Record the high-water mark of simultaneous requests
	for {
		peak := s.PeakActive.Load()
		if active <= peak || s.PeakActive.CompareAndSwap(peak, active) {
			break
		}
	}

	s.mu.Lock()
	f, ok := s.files[r.URL.Path]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	if f.HangHeaders {
		<-s.release
		return
	}

	if f.Latency > 0 {
		select {
		case <-time.After(f.Latency):
		case <-s.release:
			return
		}
	}

	if f.StatusCode != 0 && f.StatusCode != http.StatusOK {
		http.Error(w, fmt.Sprintf("status %d", f.StatusCode), f.StatusCode)
		return
	}

	if f.Filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Filename))
	}
	w.Header().Set("Content-Type", "application/octet-stream")

	if f.Hang {
		// Headers out, then stall the body forever
		w.WriteHeader(http.StatusOK)
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
		<-s.release
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write(f.Data)
}
