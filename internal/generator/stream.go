package generator

import "strings"

// testStreams are public HLS test streams handed out by create_link.
var testStreams = []string{
	"https://test-streams.mux.dev/x36xhzz/x36xhzz.m3u8",
	"https://devstreaming-cdn.apple.com/videos/streaming/examples/bipbop_4x3/bipbop_4x3_variant.m3u8",
	"https://playertest.longtailvideo.com/adaptive/oceans/oceans.m3u8",
	"https://playertest.longtailvideo.com/adaptive/bbbfull/bbbfull.m3u8",
}

// DefaultStreamURL is the stream served for non-portal commands.
var DefaultStreamURL = testStreams[0]

// CmdIndex derives a stable index from a command token by summing its
// character codes.
func CmdIndex(cmd string) int {
	sum := 0
	for _, r := range cmd {
		sum += int(r)
	}
	return sum
}

// ResolveStreamURL maps a command token to one of the test streams.
// Portal commands (ffrt4://) pick by index; anything else gets the first stream.
func ResolveStreamURL(cmd string, index int) string {
	if !strings.HasPrefix(cmd, "ffrt4://") {
		return DefaultStreamURL
	}
	if index < 0 {
		index = -index
	}
	return testStreams[index%len(testStreams)]
}
