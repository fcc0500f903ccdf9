package driver

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alorle/iptv-portal-mock/internal/catalog"
)

// stalkerPageSize is the fixed page size of get_ordered_list.
const stalkerPageSize = 14

// stalkerEnvelope wraps every Stalker response.
type stalkerEnvelope struct {
	JS any `json:"js"`
}

type stalkerError struct {
	Error string `json:"error"`
}

// stalkerFlag encodes the is_series quirk: set flags are the string "1",
// unset flags the number 0.
type stalkerFlag bool

func (f stalkerFlag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte(`"1"`), nil
	}
	return []byte("0"), nil
}

type stalkerHandshake struct {
	Token  string `json:"token"`
	Random string `json:"random"`
}

type stalkerProfile struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Login           string `json:"login"`
	MAC             string `json:"mac"`
	Status          int    `json:"status"`
	Blocked         string `json:"blocked"`
	StbType         string `json:"stb_type"`
	Locale          string `json:"locale"`
	Timezone        string `json:"default_timezone"`
	ParentPassword  string `json:"parent_password"`
	WatchdogTimeout int    `json:"watchdog_timeout"`
	PlayInPreview   int    `json:"play_in_preview_by_ok"`
}

// mockProfile is returned by do_auth and get_profile for every caller.
var mockProfile = stalkerProfile{
	ID:              1,
	Name:            "Mock Subscriber",
	Login:           "mock",
	MAC:             "00:1A:79:00:00:01",
	Status:          0,
	Blocked:         "0",
	StbType:         "MAG250",
	Locale:          "en_GB.utf8",
	Timezone:        "UTC",
	ParentPassword:  "0000",
	WatchdogTimeout: 120,
	PlayInPreview:   1,
}

type stalkerCategory struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Alias string `json:"alias"`
}

type stalkerGenre struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Alias    string `json:"alias"`
	Censored int    `json:"censored"`
}

type stalkerChannel struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	OName      string `json:"o_name"`
	Cmd        string `json:"cmd"`
	Logo       string `json:"logo"`
	CategoryID string `json:"category_id"`
	TvGenreID  string `json:"tv_genre_id"`
	XMLTVID    string `json:"xmltv_id"`
}

type stalkerEmbeddedEpisode struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Cmd  string `json:"cmd"`
}

type stalkerVod struct {
	ID              string                   `json:"id"`
	Name            string                   `json:"name"`
	OName           string                   `json:"o_name"`
	Title           string                   `json:"title"`
	Cmd             string                   `json:"cmd"`
	ScreenshotURI   string                   `json:"screenshot_uri"`
	Cover           string                   `json:"cover"`
	Description     string                   `json:"description"`
	Actors          string                   `json:"actors"`
	Director        string                   `json:"director"`
	Year            string                   `json:"year"`
	Genre           string                   `json:"genre"`
	GenresStr       string                   `json:"genres_str"`
	RatingIMDB      string                   `json:"rating_imdb"`
	RatingKinopoisk string                   `json:"rating_kinopoisk"`
	CategoryID      string                   `json:"category_id"`
	IsSeries        stalkerFlag              `json:"is_series"`
	HasFiles        int                      `json:"has_files"`
	Series          []stalkerEmbeddedEpisode `json:"series,omitempty"`
}

type stalkerSeries struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	OName           string      `json:"o_name"`
	Title           string      `json:"title"`
	Cmd             string      `json:"cmd"`
	ScreenshotURI   string      `json:"screenshot_uri"`
	Cover           string      `json:"cover"`
	Description     string      `json:"description"`
	Actors          string      `json:"actors"`
	Director        string      `json:"director"`
	Year            string      `json:"year"`
	GenresStr       string      `json:"genres_str"`
	RatingIMDB      string      `json:"rating_imdb"`
	RatingKinopoisk string      `json:"rating_kinopoisk"`
	CategoryID      string      `json:"category_id"`
	IsSeries        stalkerFlag `json:"is_series"`
	HasFiles        int         `json:"has_files"`
}

type stalkerSeason struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Cmd             string   `json:"cmd"`
	Description     string   `json:"description"`
	Director        string   `json:"director"`
	Actors          string   `json:"actors"`
	Year            string   `json:"year"`
	GenresStr       string   `json:"genres_str"`
	Age             string   `json:"age"`
	RatingIMDB      string   `json:"rating_imdb"`
	RatingKinopoisk string   `json:"rating_kinopoisk"`
	ScreenshotURI   string   `json:"screenshot_uri"`
	Added           string   `json:"added"`
	Series          []string `json:"series"`
}

type stalkerProgram struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Start          string `json:"start"`
	Stop           string `json:"stop"`
	StartTimestamp int64  `json:"start_timestamp"`
	StopTimestamp  int64  `json:"stop_timestamp"`
	Descr          string `json:"descr"`
	Category       string `json:"category"`
}

type stalkerOrderedList struct {
	Data         []any `json:"data"`
	TotalItems   int   `json:"total_items"`
	MaxPageItems int   `json:"max_page_items"`
	CurPage      int   `json:"cur_page"`
	TotalPages   int   `json:"total_pages"`
	SelectedItem int   `json:"selected_item"`
}

type stalkerFavorites struct {
	Data       []any `json:"data"`
	TotalItems int   `json:"total_items"`
}

type stalkerEPG struct {
	Data []stalkerProgram `json:"data"`
}

type stalkerLink struct {
	Cmd        string `json:"cmd"`
	StreamerID string `json:"streamer_id"`
	Load       string `json:"load"`
	Error      string `json:"error"`
}

// isoTime formats timestamps the way JavaScript's toISOString does.
func isoTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

func toStalkerCategories(cats []catalog.Category) []stalkerCategory {
	out := make([]stalkerCategory, len(cats))
	for i, c := range cats {
		out[i] = stalkerCategory{ID: strconv.Itoa(c.ID), Title: c.Title, Alias: c.Alias}
	}
	return out
}

func toStalkerGenres(cats []catalog.Category) []stalkerGenre {
	out := make([]stalkerGenre, len(cats))
	for i, c := range cats {
		out[i] = stalkerGenre{ID: strconv.Itoa(c.ID), Title: c.Title, Alias: c.Alias}
	}
	return out
}

// toStalkerItem renders any catalog item in its Stalker listing shape.
func toStalkerItem(item catalog.Item) any {
	switch it := item.(type) {
	case catalog.Channel:
		return toStalkerChannel(it)
	case catalog.Vod:
		return toStalkerVod(it)
	case catalog.Series:
		return toStalkerSeries(it)
	}
	return nil
}

func toStalkerChannel(c catalog.Channel) stalkerChannel {
	id := strconv.Itoa(c.ID)
	category := strconv.Itoa(c.CategoryID)
	return stalkerChannel{
		ID:         id,
		Name:       c.Name,
		OName:      c.Name,
		Cmd:        c.Cmd,
		Logo:       c.Logo,
		CategoryID: category,
		TvGenreID:  category,
		XMLTVID:    c.XMLTVID,
	}
}

func toStalkerVod(v catalog.Vod) stalkerVod {
	dto := stalkerVod{
		ID:              strconv.Itoa(v.ID),
		Name:            v.Name,
		OName:           v.Name,
		Title:           v.Name,
		Cmd:             v.Cmd,
		ScreenshotURI:   v.Screenshot,
		Cover:           v.Cover,
		Description:     v.Description,
		Actors:          v.Actors,
		Director:        v.Director,
		Year:            strconv.Itoa(v.Year),
		Genre:           v.Genre,
		GenresStr:       strings.Join(v.Genres, ", "),
		RatingIMDB:      formatRating(v.RatingIMDB),
		RatingKinopoisk: formatRating(v.RatingKinopoisk),
		CategoryID:      strconv.Itoa(v.CategoryID),
		IsSeries:        stalkerFlag(v.IsSeries),
		HasFiles:        1,
	}
	if v.IsSeries {
		dto.HasFiles = 0
	}
	if len(v.Episodes) > 0 {
		dto.Series = make([]stalkerEmbeddedEpisode, len(v.Episodes))
		for i, ep := range v.Episodes {
			dto.Series[i] = stalkerEmbeddedEpisode{ID: ep.ID, Name: ep.Name, Cmd: ep.Cmd}
		}
	}
	return dto
}

func toStalkerSeries(s catalog.Series) stalkerSeries {
	return stalkerSeries{
		ID:              strconv.Itoa(s.ID),
		Name:            s.Name,
		OName:           s.Name,
		Title:           s.Name,
		Cmd:             s.Cmd,
		ScreenshotURI:   s.Screenshot,
		Cover:           s.Cover,
		Description:     s.Plot,
		Actors:          s.Cast,
		Director:        s.Director,
		Year:            strconv.Itoa(s.Year()),
		GenresStr:       strings.Join(s.Genres, ", "),
		RatingIMDB:      formatRating(s.Rating),
		RatingKinopoisk: formatRating(s.RatingKinopoisk),
		CategoryID:      strconv.Itoa(s.CategoryID),
	}
}

func toStalkerSeasons(info *catalog.SeriesInfo) []stalkerSeason {
	s := info.Series
	out := make([]stalkerSeason, len(info.Seasons))
	for i, season := range info.Seasons {
		id := fmt.Sprintf("%d-s%d", s.ID, season.Number)
		episodes := make([]string, len(season.Episodes))
		for e := range season.Episodes {
			episodes[e] = fmt.Sprintf("%s-e%d", id, e+1)
		}
		out[i] = stalkerSeason{
			ID:              id,
			Name:            season.Name,
			Cmd:             season.Cmd,
			Description:     season.Overview,
			Director:        s.Director,
			Actors:          s.Cast,
			Year:            strconv.Itoa(s.Year()),
			GenresStr:       strings.Join(s.Genres, ", "),
			Age:             "16",
			RatingIMDB:      formatRating(s.Rating),
			RatingKinopoisk: formatRating(s.RatingKinopoisk),
			ScreenshotURI:   season.Screenshot,
			Added:           isoTime(season.Added),
			Series:          episodes,
		}
	}
	return out
}

func toStalkerPrograms(programs []catalog.Program) []stalkerProgram {
	out := make([]stalkerProgram, len(programs))
	for i, p := range programs {
		out[i] = stalkerProgram{
			ID:             strconv.Itoa(p.ID),
			Name:           p.Title,
			Start:          isoTime(p.Start),
			Stop:           isoTime(p.Stop),
			StartTimestamp: p.Start.Unix(),
			StopTimestamp:  p.Stop.Unix(),
			Descr:          p.Description,
			Category:       p.Category,
		}
	}
	return out
}
