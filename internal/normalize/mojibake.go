package normalize

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// mojibakeMarkers are characters that almost never occur legitimately but
// show up when UTF-8 bytes were mis-decoded as Windows-1252 ("â€™", "Ã©").
const mojibakeMarkers = "ÃÂâ€šžŸ"

// FixEncoding repairs the common UTF-8-read-as-Windows-1252 mangling and
// strips control characters, then applies NFC normalization. Strings
// without mojibake markers pass through untouched.
func FixEncoding(raw string) string {
	s := raw
	if strings.ContainsAny(s, mojibakeMarkers) {
		// Undo the bad decode: re-encode each rune back to its
		// Windows-1252 byte and reinterpret the bytes as UTF-8.
		if repaired, ok := win1252Roundtrip(s); ok {
			s = repaired
		}
	}
	s = norm.NFC.String(s)
	return strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\n' && r != '\t' {
			return -1
		}
		if r == utf8.RuneError || r == 0xFEFF {
			return -1
		}
		return r
	}, s)
}

func win1252Roundtrip(s string) (string, bool) {
	encoded, err := charmap.Windows1252.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return "", false
	}
	if !utf8.Valid(encoded) {
		return "", false
	}
	repaired := string(encoded)
	// Only accept the roundtrip when it actually removed the markers;
	// otherwise the original was legitimate text.
	if strings.ContainsAny(repaired, mojibakeMarkers) {
		return "", false
	}
	return repaired, true
}
