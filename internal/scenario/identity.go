package scenario

import (
	"net"
	"net/url"
	"strings"
	"unicode/utf16"
)

// DefaultMAC is used when a request carries no usable MAC address.
const DefaultMAC = "00:00:00:00:00:00"

// Identity identifies one simulated account.
type Identity struct {
	// Key is the normalized cache key.
	Key string
	// Lookup is the key into the named scenario table.
	Lookup string
	// Label is a human-readable name used in logs and descriptions.
	Label string
}

// NormalizeMAC returns the lower-case, colon-separated form of raw.
// The second result is false when raw is not a 6-byte MAC address.
func NormalizeMAC(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if unescaped, err := url.QueryUnescape(raw); err == nil {
		raw = unescaped
	}
	hw, err := net.ParseMAC(raw)
	if err != nil || len(hw) != 6 {
		return "", false
	}
	return hw.String(), true
}

// FromMAC builds a Stalker identity. Malformed addresses map to DefaultMAC.
func FromMAC(raw string) Identity {
	mac, ok := NormalizeMAC(raw)
	if !ok {
		mac = DefaultMAC
	}
	return Identity{Key: mac, Lookup: mac, Label: mac}
}

// FromCredentials builds an Xtream identity. Empty strings are valid and
// distinct credentials.
func FromCredentials(username, password string) Identity {
	return Identity{
		Key:    CredentialsKey(username, password),
		Lookup: username + ":" + password,
		Label:  username,
	}
}

// CredentialsKey joins username and password into a collision-free cache key.
func CredentialsKey(username, password string) string {
	return url.QueryEscape(username) + ":" + url.QueryEscape(password)
}

// MACSeed sums the byte values of a normalized MAC address.
func MACSeed(mac string) uint64 {
	hw, err := net.ParseMAC(mac)
	if err != nil {
		return 0
	}
	var sum uint64
	for _, b := range hw {
		sum += uint64(b)
	}
	return sum
}

// CredentialsSeed hashes "username:password" with a 31-multiplier string hash
// over UTF-16 code units, truncated to 32 bits.
func CredentialsSeed(username, password string) uint64 {
	var h int32
	for _, unit := range utf16.Encode([]rune(username + ":" + password)) {
		h = h*31 + int32(unit)
	}
	return uint64(uint32(h))
}
