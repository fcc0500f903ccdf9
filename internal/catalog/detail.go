package catalog

import "time"

// Episode is a single playable episode of a season.
type Episode struct {
	ID                 int
	SeriesID           int
	Season             int
	Number             int
	Title              string
	ContainerExtension string
	Plot               string
	Image              string
	DurationSecs       int
	TMDBID             int
	Bitrate            int
	Rating             float64
	ReleaseDate        time.Time
	Added              time.Time
}

// Season groups the episodes of one season of a series.
type Season struct {
	SeriesID int
	Number   int
	Name     string
	Cmd      string
	Overview string
	Cover    string
	CoverBig string
	// Screenshot is the landscape still Stalker shows in season lists.
	Screenshot string
	AirDate    time.Time
	Added      time.Time
	Episodes   []Episode
}

// ID returns the numeric season id, unique per series.
func (s Season) ID() int {
	return s.SeriesID*100 + s.Number
}

// SeriesInfo is the season/episode tree of one series.
type SeriesInfo struct {
	Series  Series
	Seasons []Season
}

// EpisodeCount returns the total number of episodes across all seasons.
func (si *SeriesInfo) EpisodeCount() int {
	n := 0
	for _, s := range si.Seasons {
		n += len(s.Episodes)
	}
	return n
}

// Program is one EPG entry of a channel.
type Program struct {
	ID          int
	ChannelID   string
	Title       string
	Description string
	Category    string
	Start       time.Time
	Stop        time.Time
}

// VodDetail is the extended metadata shown on a movie's detail page.
type VodDetail struct {
	Vod          Vod
	TMDBID       int
	CoverBig     string
	MovieImage   string
	Backdrop     string
	ReleaseDate  time.Time
	DurationSecs int
	Director     string
	Actors       string
	Cast         string
	Description  string
	Plot         string
	Country      string
	Genres       []string
	Bitrate      int
	RatingCount  int
}
