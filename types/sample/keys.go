package sample

import (
	"strings"
	"unicode"
)

var keyAliases = map[string]string{
	"GPSHeading":   KeyHeading,
	"GPSLat":       KeyLatitude,
	"GPSLon":       KeyLongitude,
	"GPSLng":       KeyLongitude,
	"GPSElevation": KeyAltitude,
}

// NormalizeKey folds loose raw key spellings onto the canonical Key* names.
// Whitespace and the separators '_', '/', '-', '.' are dropped, so
// "GPS Date/Time", "GPSDate_Time" and "GPSDateTime" all become KeyTimestamp.
// A leading exiftool group tag like "[QuickTime]" is removed.
// Unrecognized keys are returned with separators stripped.
func NormalizeKey(key string) string {
	key = strings.TrimSpace(key)
	if strings.HasPrefix(key, "[") {
		if i := strings.Index(key, "]"); i >= 0 {
			key = key[i+1:]
		}
	}
	key = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		switch r {
		case '_', '/', '-', '.':
			return -1
		}
		return r
	}, key)
	if canon, ok := keyAliases[key]; ok {
		return canon
	}
	return key
}

// NormalizeFields returns a copy of raw with every key normalized.
// Later duplicates win.
func NormalizeFields(raw map[string]string) map[string]string {
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		out[NormalizeKey(k)] = v
	}
	return out
}
