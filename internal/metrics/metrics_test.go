package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func scrape(t *testing.T) string {
	t.Helper()

	server := httptest.NewServer(promhttp.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("Failed to get metrics: %v", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			t.Errorf("failed to close response body: %v", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	return string(body)
}

func TestMetricsEndpoint(t *testing.T) {
	RecordRequest("stalker", "handshake", 200)
	RecordCatalogGeneration("stalker", "default")
	SetCachedIdentities("stalker", 0)
	RecordFavoritesOperation("add")
	RecordReset("stalker")

	output := scrape(t)

	expectedMetrics := []string{
		"portal_mock_requests_total",
		"portal_mock_catalog_generations_total",
		"portal_mock_cached_identities",
		"portal_mock_favorites_operations_total",
		"portal_mock_resets_total",
	}

	for _, metric := range expectedMetrics {
		if !strings.Contains(output, metric) {
			t.Errorf("Expected metric %s not found in output", metric)
		}
	}
}

func TestMetricsValues(t *testing.T) {
	SetCachedIdentities("xtream", 4)
	RecordRequest("xtream", "", 400)

	output := scrape(t)

	tests := []struct {
		name     string
		contains string
	}{
		{"cached_identities", `portal_mock_cached_identities{protocol="xtream"} 4`},
		{"empty_action", `portal_mock_requests_total{action="none",protocol="xtream",status="400"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected to find %s in output", tt.contains)
			}
		})
	}
}
