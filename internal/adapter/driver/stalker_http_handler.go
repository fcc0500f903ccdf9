package driver

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/alorle/iptv-portal-mock/internal/application"
	"github.com/alorle/iptv-portal-mock/internal/catalog"
	"github.com/alorle/iptv-portal-mock/internal/generator"
	"github.com/alorle/iptv-portal-mock/internal/metrics"
	"github.com/alorle/iptv-portal-mock/internal/scenario"
)

const (
	tokenPrefix = "MOCK"

	// proxyDefaultMAC is assumed by the /stalker endpoint when the caller
	// does not name a MAC address.
	proxyDefaultMAC = "00:1a:79:00:00:01"

	defaultEPGSize = 12
)

var stalkerActions = map[string]bool{
	"handshake":        true,
	"do_auth":          true,
	"get_profile":      true,
	"get_categories":   true,
	"get_genres_vod":   true,
	"get_genres_itv":   true,
	"get_genres":       true,
	"get_ordered_list": true,
	"create_link":      true,
	"favorites":        true,
	"get_short_epg":    true,
	"get_epg_info":     true,
}

// StalkerHTTPHandler dispatches Stalker/Ministra portal actions.
type StalkerHTTPHandler struct {
	service *application.PortalService
	logger  *slog.Logger
}

// NewStalkerHTTPHandler creates a new HTTP handler for the Stalker portal.
func NewStalkerHTTPHandler(service *application.PortalService, logger *slog.Logger) *StalkerHTTPHandler {
	return &StalkerHTTPHandler{service: service, logger: logger}
}

// proxyResponse is the envelope of the /stalker endpoint.
type proxyResponse struct {
	Payload any `json:"payload"`
}

// ServeHTTP handles GET /portal.php?action=...
// The caller is identified by the mac cookie, then by a bearer token from a
// previous handshake.
func (h *StalkerHTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	h.serve(w, r, stalkerIdentity(r), false)
}

// ServeProxy handles GET /stalker?macAddress=...&action=...
// It runs the same dispatcher and wraps the answer as {"payload": ...}.
func (h *StalkerHTTPHandler) ServeProxy(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	mac := r.URL.Query().Get("macAddress")
	if mac == "" {
		mac = proxyDefaultMAC
	}
	h.serve(w, r, scenario.FromMAC(mac), true)
}

func (h *StalkerHTTPHandler) serve(w http.ResponseWriter, r *http.Request, id scenario.Identity, wrap bool) {
	params := requestParams(r)
	action := params.Get("action")

	js, err := h.dispatch(r.Context(), id, action, params)
	if err != nil {
		h.logger.Error("portal action failed", "action", action, "identity", id.Label, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		metrics.RecordRequest(h.service.Protocol(), stalkerActionLabel(action), http.StatusInternalServerError)
		return
	}

	var body any = stalkerEnvelope{JS: js}
	if wrap {
		body = proxyResponse{Payload: body}
	}
	writeJSON(w, http.StatusOK, body)
	metrics.RecordRequest(h.service.Protocol(), stalkerActionLabel(action), http.StatusOK)
}

// dispatch runs one portal action and returns the value of the js field.
// Unknown actions are answered with a soft error, never a transport error.
func (h *StalkerHTTPHandler) dispatch(ctx context.Context, id scenario.Identity, action string, q url.Values) (any, error) {
	switch action {
	case "handshake":
		return stalkerHandshake{Token: EncodeToken(id.Key), Random: handshakeRandom(id.Key)}, nil
	case "do_auth", "get_profile":
		return mockProfile, nil
	case "get_categories", "get_genres_vod", "get_genres_itv":
		return h.categories(ctx, id, q, catalog.KindVod, false)
	case "get_genres":
		return h.categories(ctx, id, q, catalog.KindLive, true)
	case "get_ordered_list":
		// movie_id turns a listing into a seasons request.
		if movieID := q.Get("movie_id"); movieID != "" {
			return h.seasons(ctx, id, movieID)
		}
		return h.orderedList(ctx, id, q)
	case "create_link":
		return h.createLink(id, q.Get("cmd")), nil
	case "favorites":
		return h.favorites(ctx, id, q)
	case "get_short_epg", "get_epg_info":
		return h.shortEPG(ctx, id, q)
	}

	h.logger.Warn("unknown portal action", "action", action, "identity", id.Label)
	return stalkerError{Error: "Unknown action: " + action}, nil
}

func (h *StalkerHTTPHandler) categories(ctx context.Context, id scenario.Identity, q url.Values, fallback catalog.Kind, genres bool) (any, error) {
	p, err := h.service.Portal(ctx, id)
	if err != nil {
		return nil, err
	}
	cats := p.Categories[requestKind(q.Get("type"), fallback)]
	if genres {
		return toStalkerGenres(cats), nil
	}
	return toStalkerCategories(cats), nil
}

func (h *StalkerHTTPHandler) orderedList(ctx context.Context, id scenario.Identity, q url.Values) (any, error) {
	p, err := h.service.Portal(ctx, id)
	if err != nil {
		return nil, err
	}

	var items []catalog.Item
	if categoryID, ok := stalkerCategoryFilter(q); ok {
		switch requestKind(q.Get("type"), catalog.KindVod) {
		case catalog.KindLive:
			for _, c := range p.ChannelsIn(categoryID) {
				items = append(items, c)
			}
		case catalog.KindSeries:
			for _, s := range p.SeriesIn(categoryID) {
				items = append(items, s)
			}
		default:
			for _, v := range p.VodsIn(categoryID) {
				items = append(items, v)
			}
		}
	}

	if search := strings.ToLower(q.Get("search")); search != "" {
		var matched []catalog.Item
		for _, item := range items {
			if strings.Contains(strings.ToLower(item.Ref().Name), search) {
				matched = append(matched, item)
			}
		}
		items = matched
	}

	page, err := strconv.Atoi(q.Get("p"))
	if err != nil || page < 1 {
		page = 1
	}
	total := len(items)
	start := min((page-1)*stalkerPageSize, total)
	end := min(start+stalkerPageSize, total)

	data := make([]any, 0, end-start)
	for _, item := range items[start:end] {
		data = append(data, toStalkerItem(item))
	}

	return stalkerOrderedList{
		Data:         data,
		TotalItems:   total,
		MaxPageItems: stalkerPageSize,
		CurPage:      page,
		TotalPages:   (total + stalkerPageSize - 1) / stalkerPageSize,
		SelectedItem: 0,
	}, nil
}

func (h *StalkerHTTPHandler) seasons(ctx context.Context, id scenario.Identity, movieID string) (any, error) {
	itemID, err := application.ParseID(movieID)
	if err != nil {
		return []stalkerSeason{}, nil
	}
	info, err := h.service.Seasons(ctx, id, itemID)
	if errors.Is(err, catalog.ErrSeriesNotFound) {
		return []stalkerSeason{}, nil
	}
	if err != nil {
		return nil, err
	}
	return toStalkerSeasons(info), nil
}

func (h *StalkerHTTPHandler) createLink(id scenario.Identity, cmd string) stalkerLink {
	streamURL := generator.ResolveStreamURL(cmd, generator.CmdIndex(cmd))
	h.logger.Debug("create_link", "identity", id.Label, "cmd", cmd, "url", streamURL)
	return stalkerLink{Cmd: streamURL, StreamerID: "1"}
}

func (h *StalkerHTTPHandler) favorites(ctx context.Context, id scenario.Identity, q url.Values) (any, error) {
	itemID := q.Get("item_id")

	switch q.Get("fav_action") {
	case "add", "set":
		if itemID != "" {
			if err := h.service.AddFavorite(ctx, id, itemID); err != nil {
				return nil, err
			}
		}
		return stalkerError{}, nil
	case "remove", "unset":
		if itemID != "" {
			if err := h.service.RemoveFavorite(ctx, id, itemID); err != nil {
				return nil, err
			}
		}
		return stalkerError{}, nil
	}

	items, err := h.service.Favorites(ctx, id)
	if err != nil {
		return nil, err
	}
	data := make([]any, len(items))
	for i, item := range items {
		data[i] = toStalkerItem(item)
	}
	return stalkerFavorites{Data: data, TotalItems: len(data)}, nil
}

func (h *StalkerHTTPHandler) shortEPG(ctx context.Context, id scenario.Identity, q url.Values) (any, error) {
	channelID := q.Get("ch_id")
	if channelID == "" {
		return stalkerEPG{Data: []stalkerProgram{}}, nil
	}

	size, err := strconv.Atoi(q.Get("size"))
	if err != nil {
		size = defaultEPGSize
	}

	programs, err := h.service.EPG(ctx, id, channelID, "Channel "+channelID)
	if err != nil {
		return nil, err
	}
	size = max(0, min(size, len(programs)))
	return stalkerEPG{Data: toStalkerPrograms(programs[:size])}, nil
}

// EncodeToken returns the handshake token of a MAC address. The token is a
// reversible encoding, not a secret.
func EncodeToken(mac string) string {
	return tokenPrefix + base64.RawURLEncoding.EncodeToString([]byte(mac))
}

// DecodeToken reverses EncodeToken.
func DecodeToken(token string) (string, bool) {
	encoded, ok := strings.CutPrefix(token, tokenPrefix)
	if !ok {
		return "", false
	}
	mac, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", false
	}
	return string(mac), true
}

func handshakeRandom(mac string) string {
	return strings.ReplaceAll(uuid.NewSHA1(uuid.NameSpaceOID, []byte(mac)).String(), "-", "")
}

// stalkerIdentity reads the caller's MAC from the mac cookie, falling back to
// the Authorization bearer token and finally to scenario.DefaultMAC.
func stalkerIdentity(r *http.Request) scenario.Identity {
	if c, err := r.Cookie("mac"); err == nil {
		return scenario.FromMAC(c.Value)
	}
	if bearer, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		if mac, ok := DecodeToken(strings.TrimSpace(bearer)); ok {
			return scenario.FromMAC(mac)
		}
	}
	return scenario.FromMAC("")
}

// stalkerCategoryFilter reads the category of a listing request. A nil id
// selects every category; ok is false when no category can match.
func stalkerCategoryFilter(q url.Values) (id *int, ok bool) {
	raw := q.Get("category")
	if raw == "" {
		raw = q.Get("genre")
	}
	if raw == "" {
		raw = q.Get("category_id")
	}
	if raw == "" || raw == "*" {
		return nil, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, false
	}
	return &n, true
}

// requestKind maps the type parameter to a content kind.
func requestKind(raw string, fallback catalog.Kind) catalog.Kind {
	if kind, ok := catalog.ParseKind(raw); ok {
		return kind
	}
	return fallback
}

// requestParams merges the query string with a form body.
func requestParams(r *http.Request) url.Values {
	if err := r.ParseForm(); err != nil {
		return r.URL.Query()
	}
	return r.Form
}

func stalkerActionLabel(action string) string {
	if action == "" || stalkerActions[action] {
		return action
	}
	return "unknown"
}
