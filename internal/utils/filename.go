package utils

import (
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/vfaronov/httpheader"
)

// fallbackName is used when neither the response headers nor the URL yield
// a usable filename.
const fallbackName = "download.bin"

// DetermineFilename resolves the local filename for a downloaded file.
// It prefers the Content-Disposition filename parameter, falling back to the
// last path segment of the URL. The result is always sanitized.
func DetermineFilename(rawurl string, header http.Header) string {
	if name := ContentDispositionFilename(header); name != "" {
		return name
	}
	return URLFilename(rawurl)
}

// ContentDispositionFilename extracts the sanitized filename parameter from
// a Content-Disposition header, or "" when absent.
func ContentDispositionFilename(header http.Header) string {
	if header == nil {
		return ""
	}
	_, filename, _ := httpheader.ContentDisposition(header)
	if filename == "" {
		return ""
	}
	return SanitizeFilename(filename)
}

// URLFilename extracts the last path segment of a URL, ignoring any query string.
func URLFilename(rawurl string) string {
	segment := rawurl
	if parsed, err := url.Parse(rawurl); err == nil && parsed.Path != "" {
		segment = parsed.Path
	} else if idx := strings.IndexByte(segment, '?'); idx != -1 {
		segment = segment[:idx]
	}

	name := SanitizeFilename(path.Base(segment))
	if name == "" || name == "." || name == "/" {
		return fallbackName
	}
	return name
}

// SanitizeFilename makes a server-supplied filename safe for the local
// filesystem: colons are replaced for cross-platform safety and any path
// components are stripped.
func SanitizeFilename(name string) string {
	name = strings.Trim(name, `"`)
	name = strings.ReplaceAll(name, ":", "-")
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	if name == "." || name == "/" {
		return ""
	}
	return name
}
