package catalog

import (
	"strconv"
	"sync"
	"time"

	"github.com/alorle/iptv-portal-mock/internal/scenario"
)

// Portal is the complete synthesized catalog of one identity.
//
// The category and item slices are fixed once the portal is generated.
// Seasons, EPG and VOD details are filled lazily; each entry is built at most
// once and the same pointer or slice is returned on every later access.
type Portal struct {
	Scenario    scenario.Scenario
	GeneratedAt time.Time
	Categories  map[Kind][]Category
	Channels    []Channel
	Vods        []Vod
	Series      []Series

	mu         sync.Mutex
	seasons    map[int]*SeriesInfo
	epg        map[string][]Program
	vodDetails map[int]*VodDetail
}

// NewPortal returns an empty portal ready to be filled by a generator.
func NewPortal(s scenario.Scenario, generatedAt time.Time) *Portal {
	return &Portal{
		Scenario:    s,
		GeneratedAt: generatedAt,
		Categories:  make(map[Kind][]Category, len(Kinds)),
		seasons:     make(map[int]*SeriesInfo),
		epg:         make(map[string][]Program),
		vodDetails:  make(map[int]*VodDetail),
	}
}

// ChannelsIn returns the channels of a category, or all channels when
// categoryID is nil.
func (p *Portal) ChannelsIn(categoryID *int) []Channel {
	if categoryID == nil {
		return p.Channels
	}
	out := make([]Channel, 0)
	for _, c := range p.Channels {
		if c.CategoryID == *categoryID {
			out = append(out, c)
		}
	}
	return out
}

// VodsIn returns the movies of a category, or all movies when categoryID is nil.
func (p *Portal) VodsIn(categoryID *int) []Vod {
	if categoryID == nil {
		return p.Vods
	}
	out := make([]Vod, 0)
	for _, v := range p.Vods {
		if v.CategoryID == *categoryID {
			out = append(out, v)
		}
	}
	return out
}

// SeriesIn returns the series of a category, or all series when categoryID is nil.
func (p *Portal) SeriesIn(categoryID *int) []Series {
	if categoryID == nil {
		return p.Series
	}
	out := make([]Series, 0)
	for _, s := range p.Series {
		if s.CategoryID == *categoryID {
			out = append(out, s)
		}
	}
	return out
}

// FindSeries looks up a series by id.
func (p *Portal) FindSeries(id int) (Series, bool) {
	for _, s := range p.Series {
		if s.ID == id {
			return s, true
		}
	}
	return Series{}, false
}

// FindVod looks up a movie by id. This is a linear scan over all movies.
func (p *Portal) FindVod(id int) (Vod, bool) {
	for _, v := range p.Vods {
		if v.ID == id {
			return v, true
		}
	}
	return Vod{}, false
}

// FindItem searches channels, then movies, then series for the given id.
func (p *Portal) FindItem(id string) (Item, bool) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return nil, false
	}
	for _, c := range p.Channels {
		if c.ID == n {
			return c, true
		}
	}
	if v, ok := p.FindVod(n); ok {
		return v, true
	}
	if s, ok := p.FindSeries(n); ok {
		return s, true
	}
	return nil, false
}

// SeriesInfo returns the cached season tree for id, building it with build
// on first access.
func (p *Portal) SeriesInfo(id int, build func() *SeriesInfo) *SeriesInfo {
	p.mu.Lock()
	defer p.mu.Unlock()
	if si, ok := p.seasons[id]; ok {
		return si
	}
	si := build()
	p.seasons[id] = si
	return si
}

// EPG returns the cached programs of a channel, building them with build on
// first access.
func (p *Portal) EPG(channelID string, build func() []Program) []Program {
	p.mu.Lock()
	defer p.mu.Unlock()
	if programs, ok := p.epg[channelID]; ok {
		return programs
	}
	programs := build()
	p.epg[channelID] = programs
	return programs
}

// SetEPG stores programs for a channel during generation.
func (p *Portal) SetEPG(channelID string, programs []Program) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.epg[channelID] = programs
}

// VodDetail returns the cached detail for a movie, building it on first access.
func (p *Portal) VodDetail(id int, build func() *VodDetail) *VodDetail {
	p.mu.Lock()
	defer p.mu.Unlock()
	if d, ok := p.vodDetails[id]; ok {
		return d
	}
	d := build()
	p.vodDetails[id] = d
	return d
}
