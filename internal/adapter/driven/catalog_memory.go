package driven

import (
	"context"
	"slices"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/alorle/iptv-portal-mock/internal/catalog"
)

// CatalogMemoryStore implements the CatalogStore port in process memory.
// State lives for the lifetime of the store.
type CatalogMemoryStore struct {
	mu        sync.RWMutex
	portals   map[string]*catalog.Portal
	favorites map[string]*favoriteSet
	// epoch is bumped by ResetAll so generations started before a reset are
	// never cached after it.
	epoch uint64
	group singleflight.Group
}

// NewCatalogMemoryStore creates an empty in-memory store.
func NewCatalogMemoryStore() *CatalogMemoryStore {
	return &CatalogMemoryStore{
		portals:   make(map[string]*catalog.Portal),
		favorites: make(map[string]*favoriteSet),
	}
}

// LoadOrGenerate returns the cached catalog for key, generating it at most
// once per key and reset epoch.
func (s *CatalogMemoryStore) LoadOrGenerate(ctx context.Context, key string, generate func() *catalog.Portal) (*catalog.Portal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	p, ok := s.portals[key]
	epoch := s.epoch
	s.mu.RUnlock()
	if ok {
		return p, nil
	}

	v, _, _ := s.group.Do(strconv.FormatUint(epoch, 10)+"/"+key, func() (any, error) {
		s.mu.RLock()
		p, ok := s.portals[key]
		s.mu.RUnlock()
		if ok {
			return p, nil
		}

		generated := generate()

		s.mu.Lock()
		defer s.mu.Unlock()
		if existing, ok := s.portals[key]; ok {
			return existing, nil
		}
		if s.epoch == epoch {
			s.portals[key] = generated
		}
		return generated, nil
	})
	return v.(*catalog.Portal), nil
}

// Favorites returns a copy of the favorites of key.
func (s *CatalogMemoryStore) Favorites(ctx context.Context, key string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.favorites[key]
	if !ok {
		return []string{}, nil
	}
	return append([]string{}, set.ids...), nil
}

// AddFavorite adds itemID to the favorites of key.
func (s *CatalogMemoryStore) AddFavorite(ctx context.Context, key, itemID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.favorites[key]
	if !ok {
		set = newFavoriteSet()
		s.favorites[key] = set
	}
	set.add(itemID)
	return nil
}

// RemoveFavorite removes itemID from the favorites of key.
func (s *CatalogMemoryStore) RemoveFavorite(ctx context.Context, key, itemID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if set, ok := s.favorites[key]; ok {
		set.remove(itemID)
	}
	return nil
}

// ResetFavorites clears the favorites of key.
func (s *CatalogMemoryStore) ResetFavorites(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.favorites, key)
	return nil
}

// ResetAll drops all catalogs and favorites.
func (s *CatalogMemoryStore) ResetAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.portals = make(map[string]*catalog.Portal)
	s.favorites = make(map[string]*favoriteSet)
	s.epoch++
	return nil
}

// Size returns the number of cached catalogs.
func (s *CatalogMemoryStore) Size(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.portals), nil
}

// favoriteSet is a set of ids that remembers insertion order.
type favoriteSet struct {
	ids   []string
	index map[string]struct{}
}

func newFavoriteSet() *favoriteSet {
	return &favoriteSet{index: make(map[string]struct{})}
}

func (f *favoriteSet) add(id string) {
	if _, ok := f.index[id]; ok {
		return
	}
	f.index[id] = struct{}{}
	f.ids = append(f.ids, id)
}

func (f *favoriteSet) remove(id string) {
	if _, ok := f.index[id]; !ok {
		return
	}
	delete(f.index, id)
	f.ids = slices.DeleteFunc(f.ids, func(v string) bool { return v == id })
}
