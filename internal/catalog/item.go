package catalog

import (
	"strings"
	"time"
)

// Kind discriminates the three content families a portal serves.
type Kind string

const (
	KindLive   Kind = "live"
	KindVod    Kind = "vod"
	KindSeries Kind = "series"
)

// Kinds lists every content kind in generation order.
var Kinds = []Kind{KindLive, KindVod, KindSeries}

// ParseKind maps a protocol type string to a Kind.
// Stalker calls live TV "itv", Xtream calls it "live"; both are accepted.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "itv", "live":
		return KindLive, true
	case "vod", "movie":
		return KindVod, true
	case "series":
		return KindSeries, true
	}
	return "", false
}

// Category groups content items of a single kind.
type Category struct {
	ID    int
	Kind  Kind
	Title string
	Alias string
}

// Ref is the kind-independent view of a content item.
type Ref struct {
	Kind       Kind
	ID         int
	CategoryID int
	Name       string
}

// Item is implemented by Channel, Vod and Series.
type Item interface {
	Kind() Kind
	Ref() Ref
}

// Channel is a live TV stream.
type Channel struct {
	ID         int
	Num        int
	CategoryID int
	Name       string
	Cmd        string
	Logo       string
	XMLTVID    string
	Rating     float64
	Added      time.Time
}

func (c Channel) Kind() Kind { return KindLive }

func (c Channel) Ref() Ref {
	return Ref{Kind: KindLive, ID: c.ID, CategoryID: c.CategoryID, Name: c.Name}
}

// EmbeddedEpisode is an episode carried inline by a VOD item.
type EmbeddedEpisode struct {
	ID   int
	Name string
	Cmd  string
}

// Vod is a movie. Some portals flag movies as series containers (IsSeries)
// or embed their episode list directly (Episodes).
type Vod struct {
	ID                 int
	Num                int
	CategoryID         int
	Name               string
	Cmd                string
	Icon               string
	Screenshot         string
	Cover              string
	Description        string
	Actors             string
	Director           string
	Year               int
	Genre              string
	Genres             []string
	RatingIMDB         float64
	RatingKinopoisk    float64
	ContainerExtension string
	IsSeries           bool
	Episodes           []EmbeddedEpisode
	Added              time.Time
}

func (v Vod) Kind() Kind { return KindVod }

func (v Vod) Ref() Ref {
	return Ref{Kind: KindVod, ID: v.ID, CategoryID: v.CategoryID, Name: v.Name}
}

// Series is the season-less summary of a show.
type Series struct {
	ID              int
	Num             int
	CategoryID      int
	Name            string
	Cmd             string
	Screenshot      string
	Cover           string
	Backdrop        string
	Plot            string
	Cast            string
	Director        string
	Genres          []string
	Rating          float64
	RatingKinopoisk float64
	EpisodeRunTime  int
	ReleaseDate     time.Time
	LastModified    time.Time
}

func (s Series) Kind() Kind { return KindSeries }

func (s Series) Ref() Ref {
	return Ref{Kind: KindSeries, ID: s.ID, CategoryID: s.CategoryID, Name: s.Name}
}

// Year returns the release year of the series.
func (s Series) Year() int {
	return s.ReleaseDate.Year()
}

// SeriesFromVod adapts a movie to the shape the season generator needs.
// Portals in "is_series" mode open movies as if they were shows.
func SeriesFromVod(v Vod) Series {
	genres := v.Genres
	if len(genres) == 0 && v.Genre != "" {
		genres = []string{v.Genre}
	}
	return Series{
		ID:              v.ID,
		Num:             v.Num,
		CategoryID:      v.CategoryID,
		Name:            v.Name,
		Cmd:             v.Cmd,
		Screenshot:      v.Screenshot,
		Cover:           v.Cover,
		Plot:            v.Description,
		Cast:            v.Actors,
		Director:        v.Director,
		Genres:          genres,
		Rating:          v.RatingIMDB,
		RatingKinopoisk: v.RatingKinopoisk,
		ReleaseDate:     time.Date(v.Year, time.January, 1, 0, 0, 0, 0, time.UTC),
		LastModified:    v.Added,
	}
}
