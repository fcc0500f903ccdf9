package driver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/alorle/iptv-portal-mock/internal/application"
	"github.com/alorle/iptv-portal-mock/internal/catalog"
	"github.com/alorle/iptv-portal-mock/internal/metrics"
	"github.com/alorle/iptv-portal-mock/internal/scenario"
)

const (
	defaultEPGLimit = 12
	maxEPGLimit     = 50
)

var xtreamActions = map[string]bool{
	"get_account_info":      true,
	"get_live_categories":   true,
	"get_vod_categories":    true,
	"get_series_categories": true,
	"get_live_streams":      true,
	"get_vod_streams":       true,
	"get_series":            true,
	"get_vod_info":          true,
	"get_series_info":       true,
	"get_short_epg":         true,
}

// XtreamServerInfo describes how the server advertises itself in
// get_account_info and where stream URLs are redirected.
type XtreamServerInfo struct {
	PublicURL     string
	Port          string
	StreamStubURL string
}

// XtreamHTTPHandler dispatches Xtream Codes player API actions.
type XtreamHTTPHandler struct {
	service *application.PortalService
	info    XtreamServerInfo
	logger  *slog.Logger
	now     func() time.Time
}

// NewXtreamHTTPHandler creates a new HTTP handler for the Xtream API.
func NewXtreamHTTPHandler(service *application.PortalService, info XtreamServerInfo, logger *slog.Logger) *XtreamHTTPHandler {
	return &XtreamHTTPHandler{
		service: service,
		info:    info,
		logger:  logger,
		now:     time.Now,
	}
}

// xtreamResult is the outcome of one dispatched action.
type xtreamResult struct {
	status int
	body   any
}

func xtreamOK(body any) xtreamResult {
	return xtreamResult{status: http.StatusOK, body: body}
}

func xtreamFail(status int, message string) xtreamResult {
	return xtreamResult{status: status, body: errorResponse{Error: message}}
}

// xtreamProxyResponse is the envelope of the /xtream endpoint.
type xtreamProxyResponse struct {
	Payload any    `json:"payload"`
	Action  string `json:"action"`
}

type xtreamProxyError struct {
	Error any `json:"error"`
}

// ServeHTTP handles GET /player_api.php?username=...&password=...&action=...
func (h *XtreamHTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	params := requestParams(r)
	action := params.Get("action")

	res, err := h.dispatch(r.Context(), action, params)
	if err != nil {
		h.internalError(w, action, err)
		return
	}
	writeJSON(w, res.status, res.body)
	metrics.RecordRequest(h.service.Protocol(), xtreamActionLabel(action), res.status)
}

// ServeProxy handles GET /xtream?url=...&action=...&username=...&password=...
// Successful results are wrapped as {"payload": ..., "action": ...}; failures
// keep their status and nest the error body under "error".
func (h *XtreamHTTPHandler) ServeProxy(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	params := requestParams(r)
	params.Del("url")
	action := params.Get("action")

	res, err := h.dispatch(r.Context(), action, params)
	if err != nil {
		h.internalError(w, action, err)
		return
	}
	if res.status != http.StatusOK {
		writeJSON(w, res.status, xtreamProxyError{Error: res.body})
	} else {
		writeJSON(w, http.StatusOK, xtreamProxyResponse{Payload: res.body, Action: action})
	}
	metrics.RecordRequest(h.service.Protocol(), xtreamActionLabel(action), res.status)
}

// ServeStream handles the stream URLs players build from listings:
// /live/{user}/{pass}/{id}.m3u8|ts, /movie/{user}/{pass}/{id}.{ext} and
// /series/{user}/{pass}/{id}.{ext}. Every stream redirects to the stub URL.
func (h *XtreamHTTPHandler) ServeStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !validStreamPath(r.URL.Path) {
		writeError(w, http.StatusNotFound, "stream not found")
		return
	}
	http.Redirect(w, r, h.info.StreamStubURL, http.StatusFound)
}

func validStreamPath(p string) bool {
	parts := strings.Split(strings.Trim(p, "/"), "/")
	if len(parts) != 4 {
		return false
	}
	ext := path.Ext(parts[3])
	id := strings.TrimSuffix(parts[3], ext)
	if id == "" || len(ext) < 2 {
		return false
	}

	switch parts[0] {
	case "live":
		return ext == ".m3u8" || ext == ".ts"
	case "movie", "series":
		return true
	}
	return false
}

func (h *XtreamHTTPHandler) internalError(w http.ResponseWriter, action string, err error) {
	h.logger.Error("player api action failed", "action", action, "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
	metrics.RecordRequest(h.service.Protocol(), xtreamActionLabel(action), http.StatusInternalServerError)
}

// dispatch runs one player API action. Client mistakes come back as non-200
// results; the error return is reserved for store failures.
func (h *XtreamHTTPHandler) dispatch(ctx context.Context, action string, q url.Values) (xtreamResult, error) {
	username, password := q.Get("username"), q.Get("password")
	id := scenario.FromCredentials(username, password)

	switch action {
	case "", "get_account_info":
		return h.accountInfo(ctx, id, username, password)
	case "get_live_categories":
		return h.categories(ctx, id, catalog.KindLive)
	case "get_vod_categories":
		return h.categories(ctx, id, catalog.KindVod)
	case "get_series_categories":
		return h.categories(ctx, id, catalog.KindSeries)
	case "get_live_streams":
		return h.liveStreams(ctx, id, q.Get("category_id"))
	case "get_vod_streams":
		return h.vodStreams(ctx, id, q.Get("category_id"))
	case "get_series":
		return h.seriesList(ctx, id, q.Get("category_id"))
	case "get_vod_info":
		return h.vodInfo(ctx, id, q.Get("vod_id"))
	case "get_series_info":
		return h.seriesInfo(ctx, id, q.Get("series_id"))
	case "get_short_epg":
		return h.shortEPG(ctx, id, q.Get("stream_id"), q.Get("limit"))
	}

	h.logger.Warn("unknown player api action", "action", action, "identity", id.Label)
	return xtreamFail(http.StatusBadRequest, "Unknown action: "+action), nil
}

func (h *XtreamHTTPHandler) accountInfo(ctx context.Context, id scenario.Identity, username, password string) (xtreamResult, error) {
	p, err := h.service.Portal(ctx, id)
	if err != nil {
		return xtreamResult{}, err
	}
	sc := p.Scenario
	now := h.now()
	if sc.Expired(now) {
		h.logger.Debug("serving expired account", "identity", id.Label, "scenario", sc.Name)
	}

	protocol := "http"
	if u, err := url.Parse(h.info.PublicURL); err == nil && u.Scheme != "" {
		protocol = u.Scheme
	}

	return xtreamOK(xtreamAccountInfo{
		UserInfo: xtreamUserInfo{
			Username:             username,
			Password:             password,
			Auth:                 1,
			Status:               string(sc.Status),
			ExpDate:              unixString(sc.ExpiresAt.Unix()),
			IsTrial:              "0",
			ActiveCons:           "1",
			CreatedAt:            unixString(now.AddDate(0, 0, -365).Unix()),
			MaxConnections:       "2",
			AllowedOutputFormats: []string{"m3u8", "ts", "rtmp"},
		},
		ServerInfo: xtreamServerInfo{
			URL:            h.info.PublicURL,
			Port:           h.info.Port,
			ServerProtocol: protocol,
			Timezone:       "UTC",
			TimestampNow:   now.Unix(),
			TimeNow:        xtreamTime(now),
		},
	}), nil
}

func (h *XtreamHTTPHandler) categories(ctx context.Context, id scenario.Identity, kind catalog.Kind) (xtreamResult, error) {
	p, err := h.service.Portal(ctx, id)
	if err != nil {
		return xtreamResult{}, err
	}
	return xtreamOK(toXtreamCategories(p.Categories[kind])), nil
}

func (h *XtreamHTTPHandler) liveStreams(ctx context.Context, id scenario.Identity, categoryID string) (xtreamResult, error) {
	p, err := h.service.Portal(ctx, id)
	if err != nil {
		return xtreamResult{}, err
	}
	out := make([]xtreamLiveStream, 0, len(p.Channels))
	for _, c := range p.Channels {
		if matchesCategory(c.CategoryID, categoryID) {
			out = append(out, toXtreamLiveStream(c))
		}
	}
	return xtreamOK(out), nil
}

func (h *XtreamHTTPHandler) vodStreams(ctx context.Context, id scenario.Identity, categoryID string) (xtreamResult, error) {
	p, err := h.service.Portal(ctx, id)
	if err != nil {
		return xtreamResult{}, err
	}
	out := make([]xtreamVodStream, 0, len(p.Vods))
	for _, v := range p.Vods {
		if matchesCategory(v.CategoryID, categoryID) {
			out = append(out, toXtreamVodStream(v))
		}
	}
	return xtreamOK(out), nil
}

func (h *XtreamHTTPHandler) seriesList(ctx context.Context, id scenario.Identity, categoryID string) (xtreamResult, error) {
	p, err := h.service.Portal(ctx, id)
	if err != nil {
		return xtreamResult{}, err
	}
	out := make([]xtreamSeries, 0, len(p.Series))
	for _, s := range p.Series {
		if matchesCategory(s.CategoryID, categoryID) {
			out = append(out, toXtreamSeries(s))
		}
	}
	return xtreamOK(out), nil
}

func (h *XtreamHTTPHandler) vodInfo(ctx context.Context, id scenario.Identity, rawID string) (xtreamResult, error) {
	if rawID == "" {
		return xtreamFail(http.StatusBadRequest, "vod_id required"), nil
	}
	vodID, err := application.ParseID(rawID)
	if err != nil {
		return xtreamFail(http.StatusNotFound, "VOD not found"), nil
	}

	detail, err := h.service.VodDetail(ctx, id, vodID)
	if errors.Is(err, catalog.ErrVodNotFound) {
		return xtreamFail(http.StatusNotFound, "VOD not found"), nil
	}
	if err != nil {
		return xtreamResult{}, err
	}
	return xtreamOK(toXtreamVodInfo(detail)), nil
}

func (h *XtreamHTTPHandler) seriesInfo(ctx context.Context, id scenario.Identity, rawID string) (xtreamResult, error) {
	if rawID == "" {
		return xtreamFail(http.StatusBadRequest, "series_id required"), nil
	}
	seriesID, err := application.ParseID(rawID)
	if err != nil {
		return xtreamFail(http.StatusNotFound, "Series not found"), nil
	}

	info, err := h.service.SeriesInfo(ctx, id, seriesID)
	if errors.Is(err, catalog.ErrSeriesNotFound) {
		return xtreamFail(http.StatusNotFound, "Series not found"), nil
	}
	if err != nil {
		return xtreamResult{}, err
	}
	return xtreamOK(toXtreamSeriesInfo(info)), nil
}

func (h *XtreamHTTPHandler) shortEPG(ctx context.Context, id scenario.Identity, rawStreamID, rawLimit string) (xtreamResult, error) {
	empty := xtreamOK(xtreamEPG{Listings: []xtreamEPGListing{}})
	if rawStreamID == "" {
		return empty, nil
	}
	streamID, err := application.ParseID(rawStreamID)
	if err != nil {
		return empty, nil
	}

	limit, err := strconv.Atoi(rawLimit)
	if err != nil {
		limit = defaultEPGLimit
	}
	limit = max(0, min(limit, maxEPGLimit))

	programs, err := h.service.EPG(ctx, id, strconv.Itoa(streamID), "")
	if err != nil {
		return xtreamResult{}, err
	}
	programs = programs[:min(limit, len(programs))]
	return xtreamOK(xtreamEPG{Listings: toXtreamListings(streamID, programs)}), nil
}

// matchesCategory applies the category_id filter by string equality. An
// empty filter matches everything.
func matchesCategory(categoryID int, filter string) bool {
	return filter == "" || strconv.Itoa(categoryID) == filter
}

func xtreamActionLabel(action string) string {
	if action == "" || xtreamActions[action] {
		return action
	}
	return "unknown"
}
