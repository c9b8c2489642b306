package stats

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHTTPStatsClient_Hit(t *testing.T) {
	var got hitPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/hit", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewHTTPClient(server.Client(), server.URL, "ewm-main-service").(*httpStatsClient)
	client.now = func() time.Time { return time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC) }

	err := client.Hit(context.Background(), "/events/7", "1.2.3.4")
	require.NoError(t, err)
	require.Equal(t, "ewm-main-service", got.App)
	require.Equal(t, "/events/7", got.URI)
	require.Equal(t, "1.2.3.4", got.IP)
	require.Equal(t, "2026-03-01 12:30:00", got.Timestamp)
}

func TestHTTPStatsClient_Hit_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewHTTPClient(server.Client(), server.URL, "ewm-main-service")
	err := client.Hit(context.Background(), "/events/7", "1.2.3.4")
	require.Error(t, err)
}

func TestHTTPStatsClient_Stats(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/stats", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "2026-03-01 00:00:00", q.Get("start"))
		require.Equal(t, "2026-03-02 00:00:00", q.Get("end"))
		require.Equal(t, []string{"/events/1", "/events/2"}, q["uris"])
		require.Equal(t, "true", q.Get("unique"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"app":"ewm-main-service","uri":"/events/1","hits":12}]`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.Client(), server.URL, "ewm-main-service")
	stats, err := client.Stats(context.Background(),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		[]string{"/events/1", "/events/2"}, true)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	require.Equal(t, "/events/1", stats[0].URI)
	require.Equal(t, int64(12), stats[0].Hits)
}

func TestHTTPStatsClient_Stats_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewHTTPClient(server.Client(), server.URL, "ewm-main-service")
	_, err := client.Stats(context.Background(), time.Now().Add(-time.Hour), time.Now(), nil, false)
	require.Error(t, err)
}
