package driver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	memory "github.com/alorle/iptv-portal-mock/internal/adapter/driven"
	"github.com/alorle/iptv-portal-mock/internal/application"
	"github.com/alorle/iptv-portal-mock/internal/catalog"
	"github.com/alorle/iptv-portal-mock/internal/generator"
	"github.com/alorle/iptv-portal-mock/internal/port/driven"
	"github.com/alorle/iptv-portal-mock/internal/scenario"
)

const (
	testMAC      = "00:1a:79:aa:00:01"
	testUsername = "tester"
	testPassword = "secret"
)

var (
	testNow    = time.Date(2025, time.March, 10, 12, 47, 13, 0, time.UTC)
	testExpiry = time.Date(2030, time.June, 30, 0, 0, 0, 0, time.UTC)
)

// smallScenario yields 2 categories per kind with 3 items each. The first
// movie of every VOD category is flagged as a series container.
func smallScenario() scenario.Scenario {
	return scenario.Scenario{
		Name:              "small",
		Seed:              42,
		Categories:        scenario.Counts{Live: 2, Vod: 2, Series: 2},
		ItemsPerCategory:  3,
		SeasonsPerSeries:  2,
		EpisodesPerSeason: 3,
		IsSeriesFraction:  0.3,
		Status:            scenario.StatusActive,
		ExpiresAt:         testExpiry,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newStalkerService(store driven.CatalogStore) *application.PortalService {
	resolver := scenario.NewStalkerResolver(map[string]scenario.Scenario{testMAC: smallScenario()})
	gen := generator.New(generator.Stalker(), generator.WithClock(func() time.Time { return testNow }))
	return application.NewPortalService("stalker", resolver, gen, store, discardLogger())
}

func newXtreamService(store driven.CatalogStore) *application.PortalService {
	key := testUsername + ":" + testPassword
	resolver := scenario.NewXtreamResolver(map[string]scenario.Scenario{key: smallScenario()})
	gen := generator.New(generator.Xtream(), generator.WithClock(func() time.Time { return testNow }))
	return application.NewPortalService("xtream", resolver, gen, store, discardLogger())
}

func newTestStalkerHandler() *StalkerHTTPHandler {
	return NewStalkerHTTPHandler(newStalkerService(memory.NewCatalogMemoryStore()), discardLogger())
}

func newTestXtreamHandler() *XtreamHTTPHandler {
	h := NewXtreamHTTPHandler(newXtreamService(memory.NewCatalogMemoryStore()), XtreamServerInfo{
		PublicURL:     "http://localhost:3211",
		Port:          "3211",
		StreamStubURL: "https://stub.example/stream.m3u8",
	}, discardLogger())
	h.now = func() time.Time { return testNow }
	return h
}

// failingStore is a CatalogStore whose every operation fails.
type failingStore struct{}

var errStoreDown = errors.New("store down")

func (failingStore) LoadOrGenerate(ctx context.Context, key string, generate func() *catalog.Portal) (*catalog.Portal, error) {
	return nil, errStoreDown
}

func (failingStore) Favorites(ctx context.Context, key string) ([]string, error) {
	return nil, errStoreDown
}

func (failingStore) AddFavorite(ctx context.Context, key, itemID string) error {
	return errStoreDown
}

func (failingStore) RemoveFavorite(ctx context.Context, key, itemID string) error {
	return errStoreDown
}

func (failingStore) ResetFavorites(ctx context.Context, key string) error {
	return errStoreDown
}

func (failingStore) ResetAll(ctx context.Context) error {
	return errStoreDown
}

func (failingStore) Size(ctx context.Context) (int, error) {
	return 0, errStoreDown
}

// decodeBody decodes the recorded JSON response into T.
func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return v
}
