package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
)

// CatalogServer is a configurable mock of the records-listing endpoint.
type CatalogServer struct {
	Server *httptest.Server

	// Configuration
	Records    []CatalogRecord // Records returned in the "data" array
	Success    bool            // Value of the "success" flag
	StatusCode int             // HTTP status to answer with (default 200)
	RawBody    string          // If set, served verbatim instead of JSON

	// Tracking
	RequestCount atomic.Int64

	queryMu   sync.Mutex
	lastQuery url.Values
}

// CatalogRecord is one entry of the mocked "data" array.
type CatalogRecord struct {
	Get      string `json:"get"`
	Filename string `json:"filename,omitempty"`
}

// CatalogServerOption configures a CatalogServer.
type CatalogServerOption func(*CatalogServer)

// WithRecords sets the download links returned by the listing.
func WithRecords(urls ...string) CatalogServerOption {
	return func(c *CatalogServer) {
		for _, u := range urls {
			c.Records = append(c.Records, CatalogRecord{Get: u})
		}
	}
}

// WithRecord appends one record with an explicit filename hint.
func WithRecord(rec CatalogRecord) CatalogServerOption {
	return func(c *CatalogServer) {
		c.Records = append(c.Records, rec)
	}
}

// WithSuccess sets the "success" flag of the response.
func WithSuccess(success bool) CatalogServerOption {
	return func(c *CatalogServer) {
		c.Success = success
	}
}

// WithStatusCode makes the server answer with the given HTTP status.
func WithStatusCode(code int) CatalogServerOption {
	return func(c *CatalogServer) {
		c.StatusCode = code
	}
}

// WithRawBody serves the given body verbatim (for malformed-JSON cases).
func WithRawBody(body string) CatalogServerOption {
	return func(c *CatalogServer) {
		c.RawBody = body
	}
}

// NewCatalogServer creates a mock catalog endpoint and skips the test if
// binding fails.
func NewCatalogServer(t *testing.T, opts ...CatalogServerOption) *CatalogServer {
	t.Helper()
	c := &CatalogServer{
		Success:    true,
		StatusCode: http.StatusOK,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Server = NewHTTPServerT(t, http.HandlerFunc(c.handleRequest))
	t.Cleanup(c.Server.Close)
	return c
}

// URL returns the server's URL.
func (c *CatalogServer) URL() string {
	return c.Server.URL
}

// LastQuery returns the query parameters of the most recent request.
func (c *CatalogServer) LastQuery() url.Values {
	c.queryMu.Lock()
	defer c.queryMu.Unlock()
	return c.lastQuery
}

func (c *CatalogServer) handleRequest(w http.ResponseWriter, r *http.Request) {
	c.RequestCount.Add(1)

	c.queryMu.Lock()
	c.lastQuery = r.URL.Query()
	c.queryMu.Unlock()

	if c.StatusCode != http.StatusOK {
		http.Error(w, fmt.Sprintf("status %d", c.StatusCode), c.StatusCode)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if c.RawBody != "" {
		fmt.Fprint(w, c.RawBody)
		return
	}

	records := c.Records
	if records == nil {
		records = []CatalogRecord{}
	}
	json.NewEncoder(w).Encode(map[string]any{
		"success": c.Success,
		"data":    records,
	})
}
