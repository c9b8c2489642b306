package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yasaga2k/explore-with-me/internal/domain"
)

// timestampLayout is the wire format the stats service expects for hit
// timestamps and the start/end query parameters.
const timestampLayout = "2006-01-02 15:04:05"

type hitPayload struct {
	App       string `json:"app"`
	URI       string `json:"uri"`
	IP        string `json:"ip"`
	Timestamp string `json:"timestamp"`
}

type httpStatsClient struct {
	client  *http.Client
	baseURL string
	app     string
	now     func() time.Time
}

// NewHTTPClient returns a stats client that calls the external stats service
// over HTTP. The app name is attached to every recorded hit.
func NewHTTPClient(client *http.Client, baseURL, app string) domain.StatsClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpStatsClient{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		app:     app,
		now:     time.Now,
	}
}

func (c *httpStatsClient) Hit(ctx context.Context, uri, ip string) error {
	payload := hitPayload{
		App:       c.app,
		URI:       uri,
		IP:        ip,
		Timestamp: c.now().Format(timestampLayout),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal hit: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/hit", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to record hit: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("stats service returned status: %d", resp.StatusCode)
	}
	return nil
}

func (c *httpStatsClient) Stats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]domain.ViewStats, error) {
	params := url.Values{}
	params.Set("start", start.Format(timestampLayout))
	params.Set("end", end.Format(timestampLayout))
	for _, u := range uris {
		params.Add("uris", u)
	}
	params.Set("unique", strconv.FormatBool(unique))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stats?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stats: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stats service returned status: %d", resp.StatusCode)
	}
	var data []domain.ViewStats
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode stats response: %w", err)
	}
	return data, nil
}
