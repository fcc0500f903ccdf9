package generator

import "github.com/alorle/iptv-portal-mock/internal/catalog"

// Layout holds the protocol-specific numbering conventions of a portal.
type Layout struct {
	// CategoryBase is added to the 1-based category index to form its id.
	CategoryBase map[catalog.Kind]int
	// XMLTVSuffix is appended to "channel-<id>" to form the XMLTV id.
	XMLTVSuffix string
	// PrefetchEPG generates every channel's programme guide up front,
	// drawing from the catalog's random sequence.
	PrefetchEPG bool
}

// Stalker returns the layout of Stalker/Ministra portals.
func Stalker() Layout {
	return Layout{
		CategoryBase: map[catalog.Kind]int{
			catalog.KindLive:   1000,
			catalog.KindVod:    2000,
			catalog.KindSeries: 3000,
		},
		XMLTVSuffix: ".example",
		PrefetchEPG: true,
	}
}

// Xtream returns the layout of Xtream Codes panels.
func Xtream() Layout {
	return Layout{
		CategoryBase: map[catalog.Kind]int{
			catalog.KindLive:   100,
			catalog.KindVod:    200,
			catalog.KindSeries: 300,
		},
		XMLTVSuffix: ".mock",
	}
}

// Item id bases, shared by both protocols.
const (
	channelIDBase = 10000
	vodIDBase     = 20000
	seriesIDBase  = 30000
)

// MaxSeasons and MaxEpisodes bound the season tree so episode ids stay unique.
const (
	MaxSeasons  = 99
	MaxEpisodes = 99
)

var categoryTitles = map[catalog.Kind][]string{
	catalog.KindLive: {
		"News", "Sports", "Movies", "Entertainment", "Kids",
		"Documentary", "Music", "Comedy", "Drama", "Reality TV",
		"Lifestyle", "Travel", "Food", "Tech", "Science",
		"History", "Nature", "Animation", "Gaming", "Shopping",
	},
	catalog.KindVod: {
		"Action", "Comedy", "Drama", "Horror", "Thriller",
		"Romance", "Sci-Fi", "Fantasy", "Animation", "Documentary",
		"Biography", "Crime", "Mystery", "Adventure", "Family",
		"War", "Western", "Musical", "Sport", "History",
	},
	catalog.KindSeries: {
		"Drama Series", "Comedy Series", "Crime Series", "Sci-Fi Series",
		"Reality Shows", "Anime", "Soap Opera", "Mini Series",
		"Documentary Series", "Kids Shows", "Action Series", "Fantasy Series",
		"Medical", "Legal", "Political", "Romance Series", "Historical",
		"Thriller Series", "Horror Series", "Western Series",
	},
}

var programCategories = []string{"News", "Movie", "Documentary", "Entertainment", "Sports", "Kids", "Series"}

var containerExtensions = []string{"mkv", "mp4", "avi"}
