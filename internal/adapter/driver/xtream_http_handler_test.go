package driver

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
)

func xtreamRequest(h *XtreamHTTPHandler, params url.Values) *httptest.ResponseRecorder {
	if !params.Has("username") {
		params.Set("username", testUsername)
		params.Set("password", testPassword)
	}
	req := httptest.NewRequest(http.MethodGet, "/player_api.php?"+params.Encode(), nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func xtreamParams(name string, kv ...string) url.Values {
	v := url.Values{"action": {name}}
	for i := 0; i+1 < len(kv); i += 2 {
		v.Set(kv[i], kv[i+1])
	}
	return v
}

func TestXtreamHTTPHandler_AccountInfo(t *testing.T) {
	handler := newTestXtreamHandler()

	for _, params := range []url.Values{xtreamParams(""), {}} {
		rec := xtreamRequest(handler, params)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		info := decodeBody[xtreamAccountInfo](t, rec)

		if info.UserInfo.Username != testUsername || info.UserInfo.Password != testPassword {
			t.Errorf("unexpected credentials %+v", info.UserInfo)
		}
		if info.UserInfo.Status != "Active" || info.UserInfo.Auth != 1 {
			t.Errorf("unexpected status %+v", info.UserInfo)
		}
		if info.UserInfo.ExpDate != strconv.FormatInt(testExpiry.Unix(), 10) {
			t.Errorf("expected exp_date %d, got %s", testExpiry.Unix(), info.UserInfo.ExpDate)
		}
		if info.ServerInfo.TimestampNow != testNow.Unix() || info.ServerInfo.TimeNow != "2025-03-10 12:47:13" {
			t.Errorf("unexpected server time %+v", info.ServerInfo)
		}
		if info.ServerInfo.URL != "http://localhost:3211" || info.ServerInfo.Port != "3211" || info.ServerInfo.ServerProtocol != "http" {
			t.Errorf("unexpected server info %+v", info.ServerInfo)
		}
	}
}

func TestXtreamHTTPHandler_AccountStatus(t *testing.T) {
	handler := newTestXtreamHandler()

	tests := []struct {
		user       string
		wantStatus string
		wantExpiry string
	}{
		{user: "expired", wantStatus: "Active", wantExpiry: "1577836800"},
		{user: "inactive", wantStatus: "Disabled", wantExpiry: "1577836800"},
	}
	for _, tt := range tests {
		t.Run(tt.user, func(t *testing.T) {
			rec := xtreamRequest(handler, xtreamParams("get_account_info", "username", tt.user, "password", tt.user))
			info := decodeBody[xtreamAccountInfo](t, rec)
			if info.UserInfo.Status != tt.wantStatus || info.UserInfo.ExpDate != tt.wantExpiry {
				t.Errorf("expected %s/%s, got %s/%s", tt.wantStatus, tt.wantExpiry, info.UserInfo.Status, info.UserInfo.ExpDate)
			}
		})
	}
}

func TestXtreamHTTPHandler_Categories(t *testing.T) {
	handler := newTestXtreamHandler()

	tests := map[string]string{
		"get_live_categories":   "101",
		"get_vod_categories":    "201",
		"get_series_categories": "301",
	}
	for name, firstID := range tests {
		t.Run(name, func(t *testing.T) {
			cats := decodeBody[[]xtreamCategory](t, xtreamRequest(handler, xtreamParams(name)))
			if len(cats) != 2 {
				t.Fatalf("expected 2 categories, got %d", len(cats))
			}
			if cats[0].CategoryID != firstID || cats[0].ParentID != 0 || cats[0].CategoryName == "" {
				t.Errorf("unexpected category %+v", cats[0])
			}
		})
	}
}

func TestXtreamHTTPHandler_CategoryFilter(t *testing.T) {
	handler := newTestXtreamHandler()

	t.Run("live streams", func(t *testing.T) {
		all := decodeBody[[]xtreamLiveStream](t, xtreamRequest(handler, xtreamParams("get_live_streams")))
		if len(all) != 6 {
			t.Fatalf("expected 6 streams, got %d", len(all))
		}

		filtered := decodeBody[[]xtreamLiveStream](t, xtreamRequest(handler, xtreamParams("get_live_streams", "category_id", "102")))
		if len(filtered) != 3 {
			t.Fatalf("expected 3 streams, got %d", len(filtered))
		}
		for _, s := range filtered {
			if s.CategoryID != "102" {
				t.Errorf("stream %d has category %s", s.StreamID, s.CategoryID)
			}
			if s.StreamType != "live" || !strings.HasSuffix(s.EPGChannelID, ".mock") {
				t.Errorf("unexpected stream %+v", s)
			}
		}
	})

	t.Run("vod streams", func(t *testing.T) {
		filtered := decodeBody[[]xtreamVodStream](t, xtreamRequest(handler, xtreamParams("get_vod_streams", "category_id", "201")))
		if len(filtered) != 3 {
			t.Fatalf("expected 3 movies, got %d", len(filtered))
		}
		for _, v := range filtered {
			if v.CategoryID != "201" || v.Type != "movie" {
				t.Errorf("unexpected movie %+v", v)
			}
		}
	})

	t.Run("series", func(t *testing.T) {
		filtered := decodeBody[[]xtreamSeries](t, xtreamRequest(handler, xtreamParams("get_series", "category_id", "302")))
		if len(filtered) != 3 {
			t.Fatalf("expected 3 series, got %d", len(filtered))
		}
		for _, s := range filtered {
			if s.CategoryID != 302 {
				t.Errorf("unexpected series category %d", s.CategoryID)
			}
		}
	})

	t.Run("no match", func(t *testing.T) {
		rec := xtreamRequest(handler, xtreamParams("get_live_streams", "category_id", "999"))
		if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
			t.Errorf("expected empty array, got %s", got)
		}
	})
}

func TestXtreamHTTPHandler_VodInfo(t *testing.T) {
	handler := newTestXtreamHandler()

	tests := []struct {
		name       string
		params     url.Values
		wantStatus int
		wantBody   string
	}{
		{name: "missing id", params: xtreamParams("get_vod_info"), wantStatus: http.StatusBadRequest, wantBody: `{"error":"vod_id required"}`},
		{name: "unknown id", params: xtreamParams("get_vod_info", "vod_id", "99999"), wantStatus: http.StatusNotFound, wantBody: `{"error":"VOD not found"}`},
		{name: "non numeric id", params: xtreamParams("get_vod_info", "vod_id", "abc"), wantStatus: http.StatusNotFound, wantBody: `{"error":"VOD not found"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := xtreamRequest(handler, tt.params)
			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if got := strings.TrimSpace(rec.Body.String()); got != tt.wantBody {
				t.Errorf("expected body %s, got %s", tt.wantBody, got)
			}
		})
	}

	t.Run("known id", func(t *testing.T) {
		first := xtreamRequest(handler, xtreamParams("get_vod_info", "vod_id", "20004"))
		if first.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", first.Code)
		}
		info := decodeBody[xtreamVodInfo](t, first)
		if info.MovieData.StreamID != 20004 || info.MovieData.CategoryID != "202" {
			t.Errorf("unexpected movie data %+v", info.MovieData)
		}
		if info.Info.Name == "" || info.Info.Age != "16" || len(info.Info.BackdropPath) != 1 {
			t.Errorf("unexpected info %+v", info.Info)
		}
		if info.Info.EpisodeRunTime != info.Info.DurationSecs {
			t.Errorf("expected episode_run_time to equal duration_secs")
		}

		second := xtreamRequest(handler, xtreamParams("get_vod_info", "vod_id", "20004"))
		if first.Body.String() != second.Body.String() {
			t.Error("expected VOD details to be cached")
		}
	})
}

func TestXtreamHTTPHandler_SeriesInfo(t *testing.T) {
	handler := newTestXtreamHandler()

	rec := xtreamRequest(handler, xtreamParams("get_series_info"))
	if rec.Code != http.StatusBadRequest || strings.TrimSpace(rec.Body.String()) != `{"error":"series_id required"}` {
		t.Errorf("unexpected missing-id response %d %s", rec.Code, rec.Body.String())
	}

	rec = xtreamRequest(handler, xtreamParams("get_series_info", "series_id", "20000"))
	if rec.Code != http.StatusNotFound || strings.TrimSpace(rec.Body.String()) != `{"error":"Series not found"}` {
		t.Errorf("unexpected unknown-id response %d %s", rec.Code, rec.Body.String())
	}

	first := xtreamRequest(handler, xtreamParams("get_series_info", "series_id", "30001"))
	if first.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", first.Code)
	}
	info := decodeBody[xtreamSeriesInfo](t, first)
	if len(info.Seasons) != 2 || len(info.Episodes) != 2 {
		t.Fatalf("expected 2 seasons, got %d/%d", len(info.Seasons), len(info.Episodes))
	}
	if info.Seasons[1].ID != 3000102 || info.Seasons[1].EpisodeCount != 3 {
		t.Errorf("unexpected season %+v", info.Seasons[1])
	}
	episodes := info.Episodes["2"]
	if len(episodes) != 3 || episodes[0].ID != "300010201" || episodes[0].Season != 2 || episodes[0].EpisodeNum != 1 {
		t.Errorf("unexpected episodes %+v", episodes)
	}
	if info.Info.CategoryID != "301" {
		t.Errorf("expected category 301, got %s", info.Info.CategoryID)
	}

	second := xtreamRequest(handler, xtreamParams("get_series_info", "series_id", "30001"))
	if first.Body.String() != second.Body.String() {
		t.Error("expected series info to be cached")
	}
}

func TestXtreamHTTPHandler_ShortEPG(t *testing.T) {
	handler := newTestXtreamHandler()

	t.Run("missing stream id", func(t *testing.T) {
		rec := xtreamRequest(handler, xtreamParams("get_short_epg"))
		if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"epg_listings":[]}` {
			t.Errorf("unexpected response %d %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("limits", func(t *testing.T) {
		tests := map[string]int{"": 12, "4": 4, "100": 12, "-1": 0, "x": 12}
		for limit, want := range tests {
			params := xtreamParams("get_short_epg", "stream_id", "10002")
			if limit != "" {
				params.Set("limit", limit)
			}
			epg := decodeBody[xtreamEPG](t, xtreamRequest(handler, params))
			if len(epg.Listings) != want {
				t.Errorf("limit=%q: expected %d listings, got %d", limit, want, len(epg.Listings))
			}
		}
	})

	t.Run("listing shape", func(t *testing.T) {
		epg := decodeBody[xtreamEPG](t, xtreamRequest(handler, xtreamParams("get_short_epg", "stream_id", "10002", "limit", "2")))
		first := epg.Listings[0]
		if first.ID != "1000200" || first.EPGID != "channel-10002.mock" || first.ChannelID != "channel-10002" {
			t.Errorf("unexpected ids %+v", first)
		}
		if first.Start != "2025-03-10 09:30:00" || first.End != "2025-03-10 10:00:00" {
			t.Errorf("unexpected times %s - %s", first.Start, first.End)
		}
		if first.StopTimestamp != epg.Listings[1].StartTimestamp {
			t.Error("expected consecutive listings")
		}
		if _, err := base64.StdEncoding.DecodeString(first.Title); err != nil {
			t.Errorf("expected base64 title, got %s", first.Title)
		}
	})
}

func TestXtreamHTTPHandler_UnknownAction(t *testing.T) {
	handler := newTestXtreamHandler()

	rec := xtreamRequest(handler, xtreamParams("bogus"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"error":"Unknown action: bogus"}` {
		t.Errorf("unexpected body %s", got)
	}
}

func TestXtreamHTTPHandler_Identities(t *testing.T) {
	handler := newTestXtreamHandler()

	own := decodeBody[[]xtreamCategory](t, xtreamRequest(handler, xtreamParams("get_live_categories")))
	def := decodeBody[[]xtreamCategory](t, xtreamRequest(handler, xtreamParams("get_live_categories", "username", "user1", "password", "pass1")))
	if len(own) == len(def) {
		t.Errorf("expected different catalogs per credentials, both have %d categories", len(own))
	}
}

func TestXtreamHTTPHandler_ServeProxy(t *testing.T) {
	handler := newTestXtreamHandler()

	serve := func(query string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/xtream?"+query, nil)
		rec := httptest.NewRecorder()
		handler.ServeProxy(rec, req)
		return rec
	}

	rec := serve("url=http%3A%2F%2Flocalhost%3A3211&action=get_vod_categories&username=tester&password=secret")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := decodeBody[struct {
		Payload []xtreamCategory `json:"payload"`
		Action  string           `json:"action"`
	}](t, rec)
	if body.Action != "get_vod_categories" || len(body.Payload) != 2 {
		t.Errorf("unexpected proxy body %+v", body)
	}

	rec = serve("url=x&action=get_vod_info&username=tester&password=secret")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"error":{"error":"vod_id required"}}` {
		t.Errorf("unexpected body %s", got)
	}
}

func TestXtreamHTTPHandler_ServeStream(t *testing.T) {
	handler := newTestXtreamHandler()

	tests := []struct {
		path       string
		wantStatus int
	}{
		{path: "/live/u/p/10000.m3u8", wantStatus: http.StatusFound},
		{path: "/live/u/p/10000.ts", wantStatus: http.StatusFound},
		{path: "/live/u/p/10000.mkv", wantStatus: http.StatusNotFound},
		{path: "/movie/u/p/20000.mkv", wantStatus: http.StatusFound},
		{path: "/series/u/p/300010101.mp4", wantStatus: http.StatusFound},
		{path: "/series/u/p/300010101", wantStatus: http.StatusNotFound},
		{path: "/movie/u/20000.mkv", wantStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()
			handler.ServeStream(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantStatus == http.StatusFound {
				if loc := rec.Header().Get("Location"); loc != "https://stub.example/stream.m3u8" {
					t.Errorf("unexpected Location %s", loc)
				}
			}
		})
	}
}

func TestXtreamHTTPHandler_StoreFailure(t *testing.T) {
	handler := NewXtreamHTTPHandler(newXtreamService(failingStore{}), XtreamServerInfo{}, discardLogger())

	rec := xtreamRequest(handler, xtreamParams("get_live_streams"))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rec.Code)
	}

	rec = xtreamRequest(handler, xtreamParams("get_vod_info"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected validation before store access, got %d", rec.Code)
	}
}
