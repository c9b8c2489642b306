package domain

import (
	"context"
	"time"
)

// EndpointHit is a single recorded hit on a public endpoint.
type EndpointHit struct {
	App       string    `json:"app"`
	URI       string    `json:"uri"`
	IP        string    `json:"ip"`
	Timestamp time.Time `json:"timestamp"`
}

// ViewStats is the aggregated hit count for one URI.
type ViewStats struct {
	App  string `json:"app"`
	URI  string `json:"uri"`
	Hits int64  `json:"hits"`
}

// StatsClient is the read/record interface of the external stats service.
// Both calls are advisory: callers degrade to zero views or a dropped hit on
// error and must never hold a store lock while calling.
type StatsClient interface {
	Hit(ctx context.Context, uri, ip string) error
	Stats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]ViewStats, error)
}
