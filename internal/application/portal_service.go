package application

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/alorle/iptv-portal-mock/internal/catalog"
	"github.com/alorle/iptv-portal-mock/internal/generator"
	"github.com/alorle/iptv-portal-mock/internal/metrics"
	"github.com/alorle/iptv-portal-mock/internal/port/driven"
	"github.com/alorle/iptv-portal-mock/internal/scenario"
)

// PortalService provides the use cases shared by both mock portals: catalog
// lookup, lazily built detail structures, favorites and reset.
// One instance serves one protocol.
type PortalService struct {
	protocol  string
	resolver  *scenario.Resolver
	generator *generator.Generator
	store     driven.CatalogStore
	logger    *slog.Logger
}

// NewPortalService creates a new PortalService for the named protocol.
func NewPortalService(protocol string, resolver *scenario.Resolver, gen *generator.Generator, store driven.CatalogStore, logger *slog.Logger) *PortalService {
	return &PortalService{
		protocol:  protocol,
		resolver:  resolver,
		generator: gen,
		store:     store,
		logger:    logger,
	}
}

// Protocol returns the protocol name used in logs and metrics.
func (s *PortalService) Protocol() string {
	return s.protocol
}

// Scenario resolves the scenario of an identity without generating anything.
func (s *PortalService) Scenario(id scenario.Identity) scenario.Scenario {
	return s.resolver.Resolve(id)
}

// NamedScenarios lists the predefined scenarios of this protocol.
func (s *PortalService) NamedScenarios() []scenario.Named {
	return s.resolver.Named()
}

// Portal returns the catalog of an identity, generating it on first access.
func (s *PortalService) Portal(ctx context.Context, id scenario.Identity) (*catalog.Portal, error) {
	generated := false
	p, err := s.store.LoadOrGenerate(ctx, id.Key, func() *catalog.Portal {
		generated = true
		sc := s.resolver.Resolve(id)
		s.logger.Info("generating portal data",
			"protocol", s.protocol,
			"identity", id.Label,
			"scenario", sc.Name,
			"seed", sc.Seed)
		metrics.RecordCatalogGeneration(s.protocol, sc.Name)
		return s.generator.Generate(sc)
	})
	if err != nil {
		return nil, err
	}

	if generated {
		if size, err := s.store.Size(ctx); err == nil {
			metrics.SetCachedIdentities(s.protocol, size)
		}
	}
	return p, nil
}

// Seasons returns the season tree of a series. When no series has the id, the
// movies are scanned and a matching movie is opened as a series.
// Returns catalog.ErrSeriesNotFound if neither exists.
func (s *PortalService) Seasons(ctx context.Context, id scenario.Identity, itemID int) (*catalog.SeriesInfo, error) {
	p, err := s.Portal(ctx, id)
	if err != nil {
		return nil, err
	}

	if series, ok := p.FindSeries(itemID); ok {
		return s.seriesInfo(p, series), nil
	}
	if v, ok := p.FindVod(itemID); ok {
		return s.seriesInfo(p, catalog.SeriesFromVod(v)), nil
	}
	return nil, catalog.ErrSeriesNotFound
}

// SeriesInfo returns the season tree of a series.
// Returns catalog.ErrSeriesNotFound if the series does not exist.
func (s *PortalService) SeriesInfo(ctx context.Context, id scenario.Identity, seriesID int) (*catalog.SeriesInfo, error) {
	p, err := s.Portal(ctx, id)
	if err != nil {
		return nil, err
	}

	series, ok := p.FindSeries(seriesID)
	if !ok {
		return nil, catalog.ErrSeriesNotFound
	}
	return s.seriesInfo(p, series), nil
}

func (s *PortalService) seriesInfo(p *catalog.Portal, series catalog.Series) *catalog.SeriesInfo {
	sc := p.Scenario
	return p.SeriesInfo(series.ID, func() *catalog.SeriesInfo {
		s.logger.Debug("generating seasons", "protocol", s.protocol, "series_id", series.ID)
		return s.generator.Seasons(sc.Seed, series, sc.SeasonsPerSeries, sc.EpisodesPerSeason)
	})
}

// EPG returns the programme guide of a channel. Channels without a guide get
// one generated on first request; label prefixes its programme titles.
func (s *PortalService) EPG(ctx context.Context, id scenario.Identity, channelID, label string) ([]catalog.Program, error) {
	p, err := s.Portal(ctx, id)
	if err != nil {
		return nil, err
	}

	return p.EPG(channelID, func() []catalog.Program {
		return s.generator.EPG(p.Scenario.Seed, channelID, label)
	}), nil
}

// VodDetail returns the extended metadata of a movie.
// Returns catalog.ErrVodNotFound if the movie does not exist.
func (s *PortalService) VodDetail(ctx context.Context, id scenario.Identity, vodID int) (*catalog.VodDetail, error) {
	p, err := s.Portal(ctx, id)
	if err != nil {
		return nil, err
	}

	v, ok := p.FindVod(vodID)
	if !ok {
		return nil, catalog.ErrVodNotFound
	}
	return p.VodDetail(vodID, func() *catalog.VodDetail {
		return s.generator.VodDetail(p.Scenario.Seed, v)
	}), nil
}

// Favorites returns the favorite items of an identity in insertion order.
// Ids that do not resolve to an item of the catalog are skipped.
func (s *PortalService) Favorites(ctx context.Context, id scenario.Identity) ([]catalog.Item, error) {
	p, err := s.Portal(ctx, id)
	if err != nil {
		return nil, err
	}

	ids, err := s.store.Favorites(ctx, id.Key)
	if err != nil {
		return nil, err
	}
	metrics.RecordFavoritesOperation("get")

	items := make([]catalog.Item, 0, len(ids))
	for _, itemID := range ids {
		if item, ok := p.FindItem(itemID); ok {
			items = append(items, item)
		}
	}
	return items, nil
}

// AddFavorite marks an item as favorite. Adding it twice is a no-op.
func (s *PortalService) AddFavorite(ctx context.Context, id scenario.Identity, itemID string) error {
	if err := s.store.AddFavorite(ctx, id.Key, itemID); err != nil {
		return err
	}
	metrics.RecordFavoritesOperation("add")
	return nil
}

// RemoveFavorite unmarks an item. Removing an absent item is a no-op.
func (s *PortalService) RemoveFavorite(ctx context.Context, id scenario.Identity, itemID string) error {
	if err := s.store.RemoveFavorite(ctx, id.Key, itemID); err != nil {
		return err
	}
	metrics.RecordFavoritesOperation("remove")
	return nil
}

// ResetFavorites clears the favorites of one identity.
func (s *PortalService) ResetFavorites(ctx context.Context, id scenario.Identity) error {
	if err := s.store.ResetFavorites(ctx, id.Key); err != nil {
		return err
	}
	metrics.RecordFavoritesOperation("reset")
	return nil
}

// ResetAll drops every cached catalog and all favorites of this protocol.
func (s *PortalService) ResetAll(ctx context.Context) error {
	if err := s.store.ResetAll(ctx); err != nil {
		return err
	}
	metrics.RecordReset(s.protocol)
	metrics.SetCachedIdentities(s.protocol, 0)
	s.logger.Info("portal state reset", "protocol", s.protocol)
	return nil
}

// ParseID parses a numeric content id.
// Returns catalog.ErrInvalidID if raw is not a number.
func ParseID(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, catalog.ErrInvalidID
	}
	return n, nil
}
