package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Requests tracks dispatched portal requests by protocol, action and HTTP status
	Requests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_mock_requests_total",
		Help: "Total number of portal requests",
	}, []string{"protocol", "action", "status"})

	// CatalogGenerations tracks how many catalogs were generated per scenario
	CatalogGenerations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_mock_catalog_generations_total",
		Help: "Total number of generated catalogs",
	}, []string{"protocol", "scenario"})

	// CachedIdentities tracks the number of identities with a cached catalog
	CachedIdentities = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "portal_mock_cached_identities",
		Help: "Number of identities with a cached catalog",
	}, []string{"protocol"})

	// FavoritesOperations tracks favorites mutations and reads
	FavoritesOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_mock_favorites_operations_total",
		Help: "Total number of favorites operations",
	}, []string{"operation"})

	// Resets tracks full state resets
	Resets = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_mock_resets_total",
		Help: "Total number of full state resets",
	}, []string{"protocol"})
)

// RecordRequest increments the request counter
func RecordRequest(protocol, action string, status int) {
	if action == "" {
		action = "none"
	}
	Requests.WithLabelValues(protocol, action, strconv.Itoa(status)).Inc()
}

// RecordCatalogGeneration increments the generation counter for a scenario
func RecordCatalogGeneration(protocol, scenario string) {
	CatalogGenerations.WithLabelValues(protocol, scenario).Inc()
}

// SetCachedIdentities sets the number of cached catalogs of a protocol
func SetCachedIdentities(protocol string, count int) {
	CachedIdentities.WithLabelValues(protocol).Set(float64(count))
}

// RecordFavoritesOperation increments the favorites counter for an operation
// (get, add, remove or reset)
func RecordFavoritesOperation(operation string) {
	FavoritesOperations.WithLabelValues(operation).Inc()
}

// RecordReset increments the reset counter of a protocol
func RecordReset(protocol string) {
	Resets.WithLabelValues(protocol).Inc()
}
