package driver

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alorle/iptv-portal-mock/internal/catalog"
)

const (
	xtreamDateFormat     = "2006-01-02"
	xtreamDateTimeFormat = "2006-01-02 15:04:05"
)

type xtreamUserInfo struct {
	Username             string   `json:"username"`
	Password             string   `json:"password"`
	Message              string   `json:"message"`
	Auth                 int      `json:"auth"`
	Status               string   `json:"status"`
	ExpDate              string   `json:"exp_date"`
	IsTrial              string   `json:"is_trial"`
	ActiveCons           string   `json:"active_cons"`
	CreatedAt            string   `json:"created_at"`
	MaxConnections       string   `json:"max_connections"`
	AllowedOutputFormats []string `json:"allowed_output_formats"`
}

type xtreamServerInfo struct {
	URL            string `json:"url"`
	Port           string `json:"port"`
	HTTPSPort      string `json:"https_port"`
	ServerProtocol string `json:"server_protocol"`
	RTMPPort       string `json:"rtmp_port"`
	Timezone       string `json:"timezone"`
	TimestampNow   int64  `json:"timestamp_now"`
	TimeNow        string `json:"time_now"`
}

type xtreamAccountInfo struct {
	UserInfo   xtreamUserInfo   `json:"user_info"`
	ServerInfo xtreamServerInfo `json:"server_info"`
}

type xtreamCategory struct {
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
	ParentID     int    `json:"parent_id"`
}

type xtreamLiveStream struct {
	Num               int    `json:"num"`
	Name              string `json:"name"`
	StreamType        string `json:"stream_type"`
	StreamID          int    `json:"stream_id"`
	StreamIcon        string `json:"stream_icon"`
	EPGChannelID      string `json:"epg_channel_id"`
	Added             string `json:"added"`
	CategoryID        string `json:"category_id"`
	CustomSID         string `json:"custom_sid"`
	DirectSource      string `json:"direct_source"`
	TVArchive         int    `json:"tv_archive"`
	TVArchiveDuration int    `json:"tv_archive_duration"`
	RatingIMDB        string `json:"rating_imdb"`
}

type xtreamVodStream struct {
	Num                int     `json:"num"`
	Name               string  `json:"name"`
	StreamType         string  `json:"stream_type"`
	StreamID           int     `json:"stream_id"`
	StreamIcon         string  `json:"stream_icon"`
	Added              string  `json:"added"`
	CategoryID         string  `json:"category_id"`
	CustomSID          string  `json:"custom_sid"`
	DirectSource       string  `json:"direct_source"`
	Rating             float64 `json:"rating"`
	Rating5Based       float64 `json:"rating_5based"`
	RatingIMDB         string  `json:"rating_imdb"`
	ContainerExtension string  `json:"container_extension"`
	Type               string  `json:"type"`
}

type xtreamSeries struct {
	Num            int      `json:"num"`
	Name           string   `json:"name"`
	SeriesID       int      `json:"series_id"`
	Cover          string   `json:"cover"`
	Plot           string   `json:"plot"`
	Cast           string   `json:"cast"`
	Director       string   `json:"director"`
	Genre          string   `json:"genre"`
	ReleaseDate    string   `json:"releaseDate"`
	LastModified   string   `json:"last_modified"`
	Rating         string   `json:"rating"`
	Rating5Based   float64  `json:"rating_5based"`
	BackdropPath   []string `json:"backdrop_path"`
	YoutubeTrailer string   `json:"youtube_trailer"`
	EpisodeRunTime string   `json:"episode_run_time"`
	CategoryID     int      `json:"category_id"`
}

type xtreamSeriesMeta struct {
	Name           string   `json:"name"`
	Cover          string   `json:"cover"`
	Plot           string   `json:"plot"`
	Cast           string   `json:"cast"`
	Director       string   `json:"director"`
	Genre          string   `json:"genre"`
	ReleaseDate    string   `json:"releaseDate"`
	LastModified   string   `json:"last_modified"`
	Rating         string   `json:"rating"`
	Rating5Based   float64  `json:"rating_5based"`
	BackdropPath   []string `json:"backdrop_path"`
	YoutubeTrailer string   `json:"youtube_trailer"`
	EpisodeRunTime string   `json:"episode_run_time"`
	CategoryID     string   `json:"category_id"`
}

type xtreamSeason struct {
	AirDate      string `json:"air_date"`
	EpisodeCount int    `json:"episode_count"`
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Overview     string `json:"overview"`
	SeasonNumber int    `json:"season_number"`
	Cover        string `json:"cover"`
	CoverBig     string `json:"cover_big"`
}

type xtreamEpisodeInfo struct {
	TMDBID       int     `json:"tmdb_id"`
	ReleaseDate  string  `json:"releasedate"`
	Plot         string  `json:"plot"`
	DurationSecs int     `json:"duration_secs"`
	Duration     string  `json:"duration"`
	MovieImage   string  `json:"movie_image"`
	Bitrate      int     `json:"bitrate"`
	Rating       float64 `json:"rating"`
}

type xtreamEpisode struct {
	ID                 string            `json:"id"`
	EpisodeNum         int               `json:"episode_num"`
	Title              string            `json:"title"`
	ContainerExtension string            `json:"container_extension"`
	Info               xtreamEpisodeInfo `json:"info"`
	CustomSID          string            `json:"custom_sid"`
	Added              string            `json:"added"`
	Season             int               `json:"season"`
	DirectSource       string            `json:"direct_source"`
}

type xtreamSeriesInfo struct {
	Seasons  []xtreamSeason             `json:"seasons"`
	Info     xtreamSeriesMeta           `json:"info"`
	Episodes map[string][]xtreamEpisode `json:"episodes"`
}

type xtreamVodInfoMeta struct {
	KinopoiskURL         string   `json:"kinopoisk_url"`
	TMDBID               int      `json:"tmdb_id"`
	Name                 string   `json:"name"`
	OName                string   `json:"o_name"`
	CoverBig             string   `json:"cover_big"`
	MovieImage           string   `json:"movie_image"`
	ReleaseDate          string   `json:"releasedate"`
	EpisodeRunTime       int      `json:"episode_run_time"`
	YoutubeTrailer       string   `json:"youtube_trailer"`
	Director             string   `json:"director"`
	Actors               string   `json:"actors"`
	Cast                 string   `json:"cast"`
	Description          string   `json:"description"`
	Plot                 string   `json:"plot"`
	Age                  string   `json:"age"`
	MPAARating           string   `json:"mpaa_rating"`
	RatingCountKinopoisk int      `json:"rating_count_kinopoisk"`
	Country              string   `json:"country"`
	Genre                string   `json:"genre"`
	BackdropPath         []string `json:"backdrop_path"`
	DurationSecs         int      `json:"duration_secs"`
	Duration             string   `json:"duration"`
	Video                []string `json:"video"`
	Audio                []string `json:"audio"`
	Bitrate              int      `json:"bitrate"`
	Rating               float64  `json:"rating"`
	RatingKinopoisk      string   `json:"rating_kinopoisk"`
	RatingIMDB           string   `json:"rating_imdb"`
}

type xtreamMovieData struct {
	StreamID           int    `json:"stream_id"`
	Name               string `json:"name"`
	Added              string `json:"added"`
	CategoryID         string `json:"category_id"`
	ContainerExtension string `json:"container_extension"`
	CustomSID          string `json:"custom_sid"`
	DirectSource       string `json:"direct_source"`
}

type xtreamVodInfo struct {
	Info      xtreamVodInfoMeta `json:"info"`
	MovieData xtreamMovieData   `json:"movie_data"`
}

type xtreamEPGListing struct {
	ID             string `json:"id"`
	EPGID          string `json:"epg_id"`
	Title          string `json:"title"`
	Lang           string `json:"lang"`
	Start          string `json:"start"`
	End            string `json:"end"`
	Description    string `json:"description"`
	ChannelID      string `json:"channel_id"`
	StartTimestamp string `json:"start_timestamp"`
	StopTimestamp  string `json:"stop_timestamp"`
}

type xtreamEPG struct {
	Listings []xtreamEPGListing `json:"epg_listings"`
}

func toXtreamCategories(cats []catalog.Category) []xtreamCategory {
	out := make([]xtreamCategory, len(cats))
	for i, c := range cats {
		out[i] = xtreamCategory{CategoryID: strconv.Itoa(c.ID), CategoryName: c.Title}
	}
	return out
}

func toXtreamLiveStream(c catalog.Channel) xtreamLiveStream {
	return xtreamLiveStream{
		Num:          c.Num,
		Name:         c.Name,
		StreamType:   "live",
		StreamID:     c.ID,
		StreamIcon:   c.Logo,
		EPGChannelID: c.XMLTVID,
		Added:        unixString(c.Added.Unix()),
		CategoryID:   strconv.Itoa(c.CategoryID),
		RatingIMDB:   formatRating(c.Rating),
	}
}

func toXtreamVodStream(v catalog.Vod) xtreamVodStream {
	return xtreamVodStream{
		Num:                v.Num,
		Name:               v.Name,
		StreamType:         "movie",
		StreamID:           v.ID,
		StreamIcon:         v.Icon,
		Added:              unixString(v.Added.Unix()),
		CategoryID:         strconv.Itoa(v.CategoryID),
		Rating:             v.RatingIMDB,
		Rating5Based:       halfRating(v.RatingIMDB),
		RatingIMDB:         formatRating(v.RatingIMDB),
		ContainerExtension: v.ContainerExtension,
		Type:               "movie",
	}
}

func toXtreamSeries(s catalog.Series) xtreamSeries {
	return xtreamSeries{
		Num:            s.Num,
		Name:           s.Name,
		SeriesID:       s.ID,
		Cover:          s.Cover,
		Plot:           s.Plot,
		Cast:           s.Cast,
		Director:       s.Director,
		Genre:          strings.Join(s.Genres, ", "),
		ReleaseDate:    s.ReleaseDate.Format(xtreamDateFormat),
		LastModified:   s.LastModified.Format(xtreamDateFormat),
		Rating:         formatRating(s.Rating),
		Rating5Based:   halfRating(s.Rating),
		BackdropPath:   []string{s.Backdrop},
		EpisodeRunTime: strconv.Itoa(s.EpisodeRunTime),
		CategoryID:     s.CategoryID,
	}
}

func toXtreamSeriesInfo(info *catalog.SeriesInfo) xtreamSeriesInfo {
	s := info.Series
	out := xtreamSeriesInfo{
		Seasons: make([]xtreamSeason, len(info.Seasons)),
		Info: xtreamSeriesMeta{
			Name:           s.Name,
			Cover:          s.Cover,
			Plot:           s.Plot,
			Cast:           s.Cast,
			Director:       s.Director,
			Genre:          strings.Join(s.Genres, ", "),
			ReleaseDate:    s.ReleaseDate.Format(xtreamDateFormat),
			LastModified:   s.LastModified.Format(xtreamDateFormat),
			Rating:         formatRating(s.Rating),
			Rating5Based:   halfRating(s.Rating),
			BackdropPath:   []string{s.Backdrop},
			EpisodeRunTime: strconv.Itoa(s.EpisodeRunTime),
			CategoryID:     strconv.Itoa(s.CategoryID),
		},
		Episodes: make(map[string][]xtreamEpisode, len(info.Seasons)),
	}

	for i, season := range info.Seasons {
		out.Seasons[i] = xtreamSeason{
			AirDate:      season.AirDate.Format(xtreamDateFormat),
			EpisodeCount: len(season.Episodes),
			ID:           season.ID(),
			Name:         season.Name,
			Overview:     season.Overview,
			SeasonNumber: season.Number,
			Cover:        season.Cover,
			CoverBig:     season.CoverBig,
		}

		episodes := make([]xtreamEpisode, len(season.Episodes))
		for j, ep := range season.Episodes {
			episodes[j] = xtreamEpisode{
				ID:                 strconv.Itoa(ep.ID),
				EpisodeNum:         ep.Number,
				Title:              ep.Title,
				ContainerExtension: ep.ContainerExtension,
				Info: xtreamEpisodeInfo{
					TMDBID:       ep.TMDBID,
					ReleaseDate:  ep.ReleaseDate.Format(xtreamDateFormat),
					Plot:         ep.Plot,
					DurationSecs: ep.DurationSecs,
					Duration:     fmt.Sprintf("%dmin", ep.DurationSecs/60),
					MovieImage:   ep.Image,
					Bitrate:      ep.Bitrate,
					Rating:       ep.Rating,
				},
				Added:  unixString(ep.Added.Unix()),
				Season: ep.Season,
			}
		}
		out.Episodes[strconv.Itoa(season.Number)] = episodes
	}
	return out
}

func toXtreamVodInfo(d *catalog.VodDetail) xtreamVodInfo {
	v := d.Vod
	return xtreamVodInfo{
		Info: xtreamVodInfoMeta{
			TMDBID:               d.TMDBID,
			Name:                 v.Name,
			OName:                v.Name,
			CoverBig:             d.CoverBig,
			MovieImage:           d.MovieImage,
			ReleaseDate:          d.ReleaseDate.Format(xtreamDateFormat),
			EpisodeRunTime:       d.DurationSecs,
			Director:             d.Director,
			Actors:               d.Actors,
			Cast:                 d.Cast,
			Description:          d.Description,
			Plot:                 d.Plot,
			Age:                  "16",
			MPAARating:           "PG-13",
			RatingCountKinopoisk: d.RatingCount,
			Country:              d.Country,
			Genre:                strings.Join(d.Genres, ", "),
			BackdropPath:         []string{d.Backdrop},
			DurationSecs:         d.DurationSecs,
			Duration:             fmt.Sprintf("%dh %dmin", d.DurationSecs/3600, d.DurationSecs%3600/60),
			Video:                []string{"H.264"},
			Audio:                []string{"AAC"},
			Bitrate:              d.Bitrate,
			Rating:               v.RatingIMDB,
			RatingKinopoisk:      formatRating(v.RatingKinopoisk),
			RatingIMDB:           formatRating(v.RatingIMDB),
		},
		MovieData: xtreamMovieData{
			StreamID:           v.ID,
			Name:               v.Name,
			Added:              unixString(v.Added.Unix()),
			CategoryID:         strconv.Itoa(v.CategoryID),
			ContainerExtension: v.ContainerExtension,
		},
	}
}

// toXtreamListings renders programmes with base64 text fields, as Xtream
// panels do.
func toXtreamListings(streamID int, programs []catalog.Program) []xtreamEPGListing {
	out := make([]xtreamEPGListing, len(programs))
	for i, p := range programs {
		out[i] = xtreamEPGListing{
			ID:             strconv.Itoa(streamID*100 + i),
			EPGID:          fmt.Sprintf("channel-%d.mock", streamID),
			Title:          base64.StdEncoding.EncodeToString([]byte(p.Title)),
			Lang:           "en",
			Start:          xtreamTime(p.Start),
			End:            xtreamTime(p.Stop),
			Description:    base64.StdEncoding.EncodeToString([]byte(p.Description)),
			ChannelID:      fmt.Sprintf("channel-%d", streamID),
			StartTimestamp: unixString(p.Start.Unix()),
			StopTimestamp:  unixString(p.Stop.Unix()),
		}
	}
	return out
}

func halfRating(r float64) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(r/2, 'f', 1, 64), 64)
	return v
}

func xtreamTime(t time.Time) string {
	return t.UTC().Format(xtreamDateTimeFormat)
}
