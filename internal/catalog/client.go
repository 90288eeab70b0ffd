package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/heliofetch/heliofetch/internal/config"
	"github.com/heliofetch/heliofetch/internal/utils"
)

// maxBodySize caps how much of a listing response is read. The endpoint
// returns at most one page of records.
const maxBodySize = 16 * config.MB

// Descriptor identifies one remote file to download.
type Descriptor struct {
	// URL is the direct download link from the record's "get" field.
	URL string
	// SuggestedFilename is an optional hint; the download response headers
	// take precedence.
	SuggestedFilename string
}

// Client lists records from the catalog endpoint. Safe for concurrent use.
type Client struct {
	BaseURL    string
	UserAgent  string
	PageLimit  int
	HTTPClient *http.Client
}

// NewClient creates a catalog client from settings.
func NewClient(cfg config.CatalogSettings) *Client {
	return &Client{
		BaseURL:    cfg.BaseURL,
		UserAgent:  cfg.UserAgent,
		PageLimit:  cfg.PageLimit,
		HTTPClient: &http.Client{Timeout: cfg.RequestTimeout},
	}
}

type listResponse struct {
	Success bool         `json:"success"`
	Data    []listRecord `json:"data"`
}

type listRecord struct {
	Get      string `json:"get"`
	Filename string `json:"filename"`
}

// Search performs the single record-listing request and returns one
// descriptor per record, in catalog order.
//
// Error contract: *ValidationError before any network call, *UpstreamError
// on a non-success status, *ResponseFormatError on a malformed body, and
// ErrRejected when the response's success flag is false.
func (c *Client) Search(ctx context.Context, q Query) ([]Descriptor, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	limit := c.PageLimit
	if limit <= 0 {
		limit = 300
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL, nil)
	if err != nil {
		return nil, err
	}
	req.URL.RawQuery = q.params(limit).Encode()
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	utils.Debug("Catalog query: %s", req.URL.String())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, &UpstreamError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, err
	}

	var listing listResponse
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, &ResponseFormatError{Err: err}
	}

	if !listing.Success {
		return nil, ErrRejected
	}

	descriptors := make([]Descriptor, 0, len(listing.Data))
	for i, rec := range listing.Data {
		if rec.Get == "" {
			utils.Debug("Catalog record %d has no download link, skipping", i)
			continue
		}
		descriptors = append(descriptors, Descriptor{
			URL:               rec.Get,
			SuggestedFilename: rec.Filename,
		})
	}

	utils.Debug("Catalog returned %d records (%d usable)", len(listing.Data), len(descriptors))
	return descriptors, nil
}
