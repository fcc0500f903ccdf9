package m3u

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEncoder_Encode(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		want    string
	}{
		{
			name: "empty playlist",
			want: "#EXTM3U\n",
		},
		{
			name: "entries keep insertion order",
			entries: []Entry{
				{
					Title: "News 24",
					URI:   "http://localhost:3211/live/u/p/10000.ts",
					Tags:  TVGTags{ID: "channel-10000", Name: "News 24", Logo: "http://logo/1.png", GroupTitle: "News"},
				},
				{
					Title: "The Movie",
					URI:   "http://localhost:3211/movie/u/p/20000.mp4",
					Tags:  TVGTags{Name: "The Movie", GroupTitle: "Drama"},
				},
			},
			want: "#EXTM3U\n" +
				"#EXTINF:-1 tvg-id=\"channel-10000\" tvg-name=\"News 24\" tvg-logo=\"http://logo/1.png\" group-title=\"News\",News 24\n" +
				"http://localhost:3211/live/u/p/10000.ts\n" +
				"#EXTINF:-1 tvg-id=\"\" tvg-name=\"The Movie\" tvg-logo=\"\" group-title=\"Drama\",The Movie\n" +
				"http://localhost:3211/movie/u/p/20000.mp4\n",
		},
		{
			name: "quotes and newlines are neutralised",
			entries: []Entry{
				{Title: "Bad\nTitle", URI: "u", Tags: TVGTags{Name: `Say "hi"`}},
			},
			want: "#EXTM3U\n" +
				"#EXTINF:-1 tvg-id=\"\" tvg-name=\"Say 'hi'\" tvg-logo=\"\" group-title=\"\",Bad Title\n" +
				"u\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := NewEncoder()
			for _, e := range tt.entries {
				enc.Add(e)
			}
			if enc.Len() != len(tt.entries) {
				t.Errorf("expected %d entries, got %d", len(tt.entries), enc.Len())
			}

			var buf bytes.Buffer
			if err := enc.Encode(&buf); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
				t.Errorf("playlist mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
