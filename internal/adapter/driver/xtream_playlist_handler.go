package driver

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/alorle/iptv-portal-mock/internal/catalog"
	"github.com/alorle/iptv-portal-mock/internal/m3u"
	"github.com/alorle/iptv-portal-mock/internal/metrics"
	"github.com/alorle/iptv-portal-mock/internal/scenario"
)

const playlistAction = "get_playlist"

// ServePlaylist handles GET /get.php?username=...&password=...&type=m3u_plus&output=ts
// It exports every live channel and movie of the identity as an M3U playlist
// pointing at the stream stub routes of this server.
func (h *XtreamHTTPHandler) ServePlaylist(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	params := requestParams(r)

	output := params.Get("output")
	if output == "" {
		output = "ts"
	}
	if output != "ts" && output != "m3u8" {
		writeError(w, http.StatusBadRequest, "unsupported output: "+output)
		metrics.RecordRequest(h.service.Protocol(), playlistAction, http.StatusBadRequest)
		return
	}

	username, password := params.Get("username"), params.Get("password")
	p, err := h.service.Portal(r.Context(), scenario.FromCredentials(username, password))
	if err != nil {
		h.internalError(w, playlistAction, err)
		return
	}

	enc := h.playlist(p, username, password, output)
	var buf bytes.Buffer
	if err := enc.Encode(&buf); err != nil {
		h.internalError(w, playlistAction, err)
		return
	}

	h.logger.Debug("playlist exported", "entries", enc.Len(), "output", output)
	w.Header().Set("Content-Type", "audio/x-mpegurl")
	w.Header().Set("Content-Disposition", `attachment; filename="playlist.m3u"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
	metrics.RecordRequest(h.service.Protocol(), playlistAction, http.StatusOK)
}

func (h *XtreamHTTPHandler) playlist(p *catalog.Portal, username, password, output string) *m3u.Encoder {
	liveGroups := categoryTitles(p.Categories[catalog.KindLive])
	vodGroups := categoryTitles(p.Categories[catalog.KindVod])

	creds := url.PathEscape(username) + "/" + url.PathEscape(password)
	streamURL := func(kind string, id int, ext string) string {
		return fmt.Sprintf("%s/%s/%s/%d.%s", h.info.PublicURL, kind, creds, id, ext)
	}

	enc := m3u.NewEncoder()
	for _, c := range p.Channels {
		enc.Add(m3u.Entry{
			Title: c.Name,
			URI:   streamURL("live", c.ID, output),
			Tags: m3u.TVGTags{
				ID:         c.XMLTVID,
				Name:       c.Name,
				Logo:       c.Logo,
				GroupTitle: liveGroups[c.CategoryID],
			},
		})
	}
	for _, v := range p.Vods {
		ext := v.ContainerExtension
		if ext == "" {
			ext = "mp4"
		}
		enc.Add(m3u.Entry{
			Title: v.Name,
			URI:   streamURL("movie", v.ID, ext),
			Tags: m3u.TVGTags{
				ID:         strconv.Itoa(v.ID),
				Name:       v.Name,
				Logo:       v.Icon,
				GroupTitle: vodGroups[v.CategoryID],
			},
		})
	}
	return enc
}

func categoryTitles(categories []catalog.Category) map[int]string {
	titles := make(map[int]string, len(categories))
	for _, c := range categories {
		titles[c.ID] = c.Title
	}
	return titles
}
