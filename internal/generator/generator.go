package generator

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/cespare/xxhash/v2"

	"github.com/alorle/iptv-portal-mock/internal/catalog"
	"github.com/alorle/iptv-portal-mock/internal/scenario"
)

// Epoch anchors every generated date that is not relative to the current
// time, so catalogs are identical across runs.
var Epoch = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

const (
	// EPGSlots is the number of programmes in a generated guide.
	EPGSlots = 12
	// EPGSlot is the length of one programme.
	EPGSlot = 30 * time.Minute
)

// Generator synthesizes portal catalogs from scenarios.
// It holds no per-catalog state and is safe for concurrent use.
type Generator struct {
	layout Layout
	now    func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock sets the time source used for EPG windows and GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// New creates a generator for the given protocol layout.
func New(layout Layout, opts ...Option) *Generator {
	g := &Generator{
		layout: layout,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Layout returns the numbering conventions of the generator.
func (g *Generator) Layout() Layout {
	return g.layout
}

// Generate builds the full catalog for a scenario. Categories, channels,
// movies and series are drawn in that order from a single faker seeded with
// the scenario seed. Negative counts are treated as zero.
func (g *Generator) Generate(s scenario.Scenario) *catalog.Portal {
	f := newFaker(s.Seed)
	p := catalog.NewPortal(s, g.now())
	items := nonNegative(s.ItemsPerCategory)

	p.Categories[catalog.KindLive] = g.categories(catalog.KindLive, s.Categories.Live)
	for _, cat := range p.Categories[catalog.KindLive] {
		first := len(p.Channels)
		for i := 0; i < items; i++ {
			p.Channels = append(p.Channels, g.channel(f, cat, len(p.Channels)))
		}
		if g.layout.PrefetchEPG {
			for _, ch := range p.Channels[first:] {
				id := strconv.Itoa(ch.ID)
				p.SetEPG(id, g.programs(f, id, ch.Name))
			}
		}
	}

	isSeries := clampFraction(s.IsSeriesFraction)
	embedded := clampFraction(s.EmbeddedSeriesFraction)
	episodes := clampCount(s.SeasonsPerSeries, MaxSeasons) * clampCount(s.EpisodesPerSeason, MaxEpisodes)

	p.Categories[catalog.KindVod] = g.categories(catalog.KindVod, s.Categories.Vod)
	for _, cat := range p.Categories[catalog.KindVod] {
		for i := 0; i < items; i++ {
			v := vod(f, cat, len(p.Vods))
			position := float64(i) / float64(items)
			v.IsSeries = position < isSeries
			if !v.IsSeries && position < isSeries+embedded {
				v.Episodes = embeddedEpisodes(v, episodes)
			}
			p.Vods = append(p.Vods, v)
		}
	}

	p.Categories[catalog.KindSeries] = g.categories(catalog.KindSeries, s.Categories.Series)
	for _, cat := range p.Categories[catalog.KindSeries] {
		for i := 0; i < items; i++ {
			p.Series = append(p.Series, series(f, cat, len(p.Series)))
		}
	}

	return p
}

func (g *Generator) categories(kind catalog.Kind, count int) []catalog.Category {
	titles := categoryTitles[kind]
	count = nonNegative(count)
	out := make([]catalog.Category, count)
	for i := range out {
		title := titles[i%len(titles)]
		out[i] = catalog.Category{
			ID:    g.layout.CategoryBase[kind] + i + 1,
			Kind:  kind,
			Title: title,
			Alias: strings.ToLower(strings.Join(strings.Fields(title), "_")),
		}
	}
	return out
}

func (g *Generator) channel(f *gofakeit.Faker, cat catalog.Category, index int) catalog.Channel {
	id := channelIDBase + index
	return catalog.Channel{
		ID:         id,
		Num:        index + 1,
		CategoryID: cat.ID,
		Name:       f.Company() + " TV",
		Cmd:        fmt.Sprintf("ffrt4://ch/live/%d/index.m3u8", id),
		Logo:       picsum(fmt.Sprintf("logo-ch-%d", id), 100, 100),
		XMLTVID:    fmt.Sprintf("channel-%d%s", id, g.layout.XMLTVSuffix),
		Rating:     round1(f.Float64Range(6, 9)),
		Added:      Epoch.Add(-time.Duration(f.IntRange(0, 10_000_000)) * time.Second),
	}
}

func vod(f *gofakeit.Faker, cat catalog.Category, index int) catalog.Vod {
	id := vodIDBase + index
	name := f.SongName() + ": " + f.Word() + " " + f.Word()
	description := paragraph(f)
	actors := people(f, 4)
	director := f.Name()
	year := Epoch.Year() - f.IntRange(0, 19)
	genre := f.SongGenre()
	genres := []string{f.SongGenre(), f.SongGenre()}
	imdb := round1(f.Float64Range(5, 9))
	kinopoisk := round1(f.Float64Range(5, 9))
	added := Epoch.Add(-time.Duration(f.IntRange(0, 100_000_000)) * time.Second)

	return catalog.Vod{
		ID:                 id,
		Num:                index + 1,
		CategoryID:         cat.ID,
		Name:               name,
		Cmd:                fmt.Sprintf("ffrt4://vod/%d/index.m3u8", id),
		Icon:               picsum(fmt.Sprintf("vod-%d", id), 300, 450),
		Screenshot:         picsum(fmt.Sprintf("vod-%d", id), 300, 200),
		Cover:              picsum(fmt.Sprintf("vod-cover-%d", id), 300, 450),
		Description:        description,
		Actors:             actors,
		Director:           director,
		Year:               year,
		Genre:              genre,
		Genres:             genres,
		RatingIMDB:         imdb,
		RatingKinopoisk:    kinopoisk,
		ContainerExtension: containerExtensions[id%len(containerExtensions)],
		Added:              added,
	}
}

func embeddedEpisodes(v catalog.Vod, count int) []catalog.EmbeddedEpisode {
	out := make([]catalog.EmbeddedEpisode, count)
	for i := range out {
		out[i] = catalog.EmbeddedEpisode{
			ID:   v.ID*100 + i,
			Name: fmt.Sprintf("Episode %d", i+1),
			Cmd:  fmt.Sprintf("ffrt4://vod/%d/ep%d/index.m3u8", v.ID, i+1),
		}
	}
	return out
}

func series(f *gofakeit.Faker, cat catalog.Category, index int) catalog.Series {
	id := seriesIDBase + index
	name := catchPhrase(f)
	plot := paragraph(f)
	cast := people(f, 4)
	director := f.Name()
	release := Epoch.AddDate(0, 0, -f.IntRange(30, 3650))
	modified := Epoch.AddDate(0, 0, -f.IntRange(0, 30))
	genres := []string{f.SongGenre(), f.SongGenre()}
	rating := round1(f.Float64Range(5, 9))
	kinopoisk := round1(f.Float64Range(5, 9))
	runTime := f.IntRange(22, 60)

	return catalog.Series{
		ID:              id,
		Num:             index + 1,
		CategoryID:      cat.ID,
		Name:            name,
		Cmd:             fmt.Sprintf("ffrt4://series/%d", id),
		Screenshot:      picsum(fmt.Sprintf("series-%d", id), 300, 200),
		Cover:           picsum(fmt.Sprintf("series-cover-%d", id), 300, 450),
		Backdrop:        picsum(fmt.Sprintf("series-bg-%d", id), 1280, 720),
		Plot:            plot,
		Cast:            cast,
		Director:        director,
		Genres:          genres,
		Rating:          rating,
		RatingKinopoisk: kinopoisk,
		EpisodeRunTime:  runTime,
		ReleaseDate:     release,
		LastModified:    modified,
	}
}

// Seasons builds the season tree of a series. The result depends only on the
// seed, the series and the counts, never on what was generated before.
// Counts are clamped to [0, MaxSeasons] and [0, MaxEpisodes].
func (g *Generator) Seasons(seed uint64, s catalog.Series, seasons, episodes int) *catalog.SeriesInfo {
	f := subFaker(seed, "seasons", s.ID)
	seasons = clampCount(seasons, MaxSeasons)
	episodes = clampCount(episodes, MaxEpisodes)

	info := &catalog.SeriesInfo{Series: s, Seasons: make([]catalog.Season, seasons)}
	for si := range info.Seasons {
		n := si + 1
		season := catalog.Season{
			SeriesID:   s.ID,
			Number:     n,
			Name:       fmt.Sprintf("Season %d", n),
			Cmd:        fmt.Sprintf("ffrt4://series/%d/season/%d", s.ID, n),
			Overview:   f.Sentence(8),
			Cover:      picsum(fmt.Sprintf("season-%d-%d", s.ID, n), 300, 450),
			CoverBig:   picsum(fmt.Sprintf("season-big-%d-%d", s.ID, n), 500, 750),
			Screenshot: picsum(fmt.Sprintf("%d-s%d", s.ID, n), 300, 200),
			AirDate:    Epoch.AddDate(0, 0, -f.IntRange(0, 5*365)),
			Added:      Epoch.Add(-time.Duration(f.IntRange(0, 10_000_000)) * time.Second),
			Episodes:   make([]catalog.Episode, episodes),
		}
		for ei := range season.Episodes {
			id := s.ID*10000 + n*100 + ei + 1
			season.Episodes[ei] = catalog.Episode{
				ID:                 id,
				SeriesID:           s.ID,
				Season:             n,
				Number:             ei + 1,
				Title:              fmt.Sprintf("%s S%dE%d", s.Name, n, ei+1),
				ContainerExtension: "mkv",
				Plot:               f.Sentence(10),
				Image:              picsum(fmt.Sprintf("ep-%d", id), 300, 200),
				DurationSecs:       f.IntRange(1200, 3600),
				TMDBID:             f.IntRange(100, 999999),
				Bitrate:            f.IntRange(1500, 8000),
				Rating:             round1(f.Float64Range(7, 10)),
				ReleaseDate:        Epoch.AddDate(0, 0, -f.IntRange(0, 5*365)),
				Added:              Epoch.Add(-time.Duration(f.IntRange(0, 10_000_000)) * time.Second),
			}
		}
		info.Seasons[si] = season
	}
	return info
}

// EPG builds a guide for a channel that was not covered by the initial
// generation pass. Programme titles are prefixed with label when it is set.
func (g *Generator) EPG(seed uint64, channelID, label string) []catalog.Program {
	return g.programs(subFaker(seed, "epg:"+channelID, 0), channelID, label)
}

// programs emits EPGSlots consecutive programmes. The window starts six slots
// before the current slot boundary.
func (g *Generator) programs(f *gofakeit.Faker, channelID, label string) []catalog.Program {
	start := g.now().UTC().Truncate(EPGSlot).Add(-EPGSlots / 2 * EPGSlot)
	out := make([]catalog.Program, EPGSlots)
	for i := range out {
		title := catchPhrase(f)
		if label != "" {
			title = label + ": " + title
		}
		out[i] = catalog.Program{
			ID:          i + 1,
			ChannelID:   channelID,
			Title:       title,
			Description: f.Sentence(10),
			Category:    programCategories[i%len(programCategories)],
			Start:       start.Add(time.Duration(i) * EPGSlot),
			Stop:        start.Add(time.Duration(i+1) * EPGSlot),
		}
	}
	return out
}

// VodDetail builds the extended metadata of a movie.
func (g *Generator) VodDetail(seed uint64, v catalog.Vod) *catalog.VodDetail {
	f := subFaker(seed, "vod", v.ID)
	return &catalog.VodDetail{
		Vod:          v,
		TMDBID:       f.IntRange(100, 999999),
		CoverBig:     picsum(fmt.Sprintf("vod-big-%d", v.ID), 500, 750),
		MovieImage:   picsum(fmt.Sprintf("vod-img-%d", v.ID), 300, 450),
		Backdrop:     picsum(fmt.Sprintf("vod-backdrop-%d", v.ID), 1280, 720),
		ReleaseDate:  Epoch.AddDate(0, 0, -f.IntRange(30, 20*365)),
		DurationSecs: f.IntRange(3600, 9000),
		Director:     f.Name(),
		Actors:       people(f, 5),
		Cast:         people(f, 5),
		Description:  paragraph(f),
		Plot:         paragraph(f),
		RatingCount:  f.IntRange(100, 50000),
		Country:      f.Country(),
		Genres:       []string{f.SongGenre(), f.SongGenre()},
		Bitrate:      f.IntRange(1500, 8000),
	}
}

// newFaker seeds a faker. Seed 0 would make gofakeit pick a random seed.
func newFaker(seed uint64) *gofakeit.Faker {
	if seed == 0 {
		seed = 0x9e3779b97f4a7c15
	}
	return gofakeit.New(seed)
}

// subFaker derives an independent faker for a lazily built structure.
func subFaker(seed uint64, scope string, id int) *gofakeit.Faker {
	return newFaker(xxhash.Sum64String(fmt.Sprintf("%d/%s/%d", seed, scope, id)))
}

func catchPhrase(f *gofakeit.Faker) string {
	return capitalize(f.Adjective()) + " " + f.BuzzWord() + " " + f.Noun()
}

func paragraph(f *gofakeit.Faker) string {
	return f.Paragraph(1, 3, 10, " ")
}

func people(f *gofakeit.Faker, n int) string {
	names := make([]string, n)
	for i := range names {
		names[i] = f.Name()
	}
	return strings.Join(names, ", ")
}

func picsum(seed string, width, height int) string {
	return fmt.Sprintf("https://picsum.photos/seed/%s/%d/%d", seed, width, height)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func nonNegative(n int) int {
	return max(n, 0)
}

func clampCount(n, limit int) int {
	return min(max(n, 0), limit)
}

func clampFraction(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return math.Min(math.Max(x, 0), 1)
}
