package driven

import (
	port "github.com/alorle/iptv-portal-mock/internal/port/driven"
)

// Compile-time check that CatalogMemoryStore implements CatalogStore interface
var _ port.CatalogStore = (*CatalogMemoryStore)(nil)
