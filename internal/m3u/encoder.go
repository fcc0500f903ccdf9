// Package m3u writes extended M3U playlists in the layout IPTV players expect
// from an Xtream get.php export.
package m3u

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Entry is one playlist item.
type Entry struct {
	Title string
	URI   string
	Tags  TVGTags
}

// TVGTags are the attributes players use to group and decorate entries.
type TVGTags struct {
	ID         string
	Name       string
	Logo       string
	GroupTitle string
}

func (t TVGTags) encode(w io.Writer) error {
	attrs := []struct{ key, value string }{
		{"tvg-id", t.ID},
		{"tvg-name", t.Name},
		{"tvg-logo", t.Logo},
		{"group-title", t.GroupTitle},
	}
	for _, a := range attrs {
		if _, err := fmt.Fprintf(w, " %s=\"%s\"", a.key, sanitize(a.value)); err != nil {
			return err
		}
	}
	return nil
}

// Encoder accumulates entries and writes them as a single playlist.
type Encoder struct {
	entries []Entry
}

func NewEncoder() *Encoder {
	return &Encoder{}
}

func (e *Encoder) Add(entry Entry) {
	e.entries = append(e.entries, entry)
}

// Len returns the number of entries added so far.
func (e *Encoder) Len() int {
	return len(e.entries)
}

// Encode writes the playlist to w.
func (e *Encoder) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString("#EXTM3U\n"); err != nil {
		return err
	}

	for _, entry := range e.entries {
		if _, err := bw.WriteString("#EXTINF:-1"); err != nil {
			return err
		}
		if err := entry.Tags.encode(bw); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(bw, ",%s\n%s\n", sanitize(entry.Title), entry.URI); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// sanitize keeps attribute values on one line and inside their quotes.
func sanitize(s string) string {
	return strings.NewReplacer("\"", "'", "\r", " ", "\n", " ").Replace(s)
}
