package helpers

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yasaga2k/explore-with-me/internal/domain"
)

// Pagination query parameter defaults and limits.
const (
	DefaultPageSize = 10
	MaxPageSize     = 1000
)

// DateTimeLayout is the format for date-time query parameters and JSON
// date-time fields in request and response bodies.
const DateTimeLayout = "2006-01-02 15:04:05"

// ParsePagination reads from and size from the request query string, clamps
// them to valid ranges, and returns domain.PaginationParams.
// Invalid or missing values fall back to defaults (from=0, size=10).
func ParsePagination(r *http.Request) domain.PaginationParams {
	from := 0
	if s := r.URL.Query().Get("from"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			from = v
		}
	}
	size := DefaultPageSize
	if s := r.URL.Query().Get("size"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 {
			size = v
			if size > MaxPageSize {
				size = MaxPageSize
			}
		}
	}
	return domain.PaginationParams{From: from, Size: size}
}

// PathID parses the named path segment as a positive int64 id.
// On failure it writes a 400 JSON error and returns false.
func PathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

// ParseDateTime parses a date-time value in the API's "2006-01-02 15:04:05"
// format, falling back to RFC 3339.
func ParseDateTime(s string) (time.Time, error) {
	if t, err := time.Parse(DateTimeLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// ParseIDList parses a repeated or comma-separated int64 query parameter.
// Unparseable items are skipped.
func ParseIDList(r *http.Request, name string) []int64 {
	var ids []int64
	for _, raw := range r.URL.Query()[name] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if id, err := strconv.ParseInt(part, 10, 64); err == nil {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// ClientIP returns the client address for hit recording, preferring the
// first X-Forwarded-For entry when the service runs behind a proxy.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
