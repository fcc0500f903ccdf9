package driven

import (
	"context"

	"github.com/alorle/iptv-portal-mock/internal/catalog"
)

// CatalogStore defines the per-identity state of a mock portal: the generated
// catalog and the identity's favorites. Keys are normalized identity keys.
type CatalogStore interface {
	// LoadOrGenerate returns the cached catalog for key. On a miss it calls
	// generate exactly once, even under concurrent callers, caches the result
	// and returns it to every waiting caller.
	LoadOrGenerate(ctx context.Context, key string, generate func() *catalog.Portal) (*catalog.Portal, error)

	// Favorites returns the favorite item ids of key in insertion order.
	// An identity without favorites yields an empty slice.
	Favorites(ctx context.Context, key string) ([]string, error)

	// AddFavorite adds itemID to the favorites of key. Adding an id that is
	// already present is a no-op.
	AddFavorite(ctx context.Context, key, itemID string) error

	// RemoveFavorite removes itemID from the favorites of key. Removing an
	// absent id is a no-op.
	RemoveFavorite(ctx context.Context, key, itemID string) error

	// ResetFavorites clears the favorites of one identity.
	ResetFavorites(ctx context.Context, key string) error

	// ResetAll drops every cached catalog and all favorites.
	ResetAll(ctx context.Context) error

	// Size returns the number of identities with a cached catalog.
	Size(ctx context.Context) (int, error)
}
