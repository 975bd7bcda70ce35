package mapper

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// mbps is the factor from the API's megabit figures to bits per second.
const mbps = 1_000_000

// Wire formats used by the API for timestamps; both are UTC.
var timestampLayouts = []string{
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05.999999999Z",
}

// ResourceID extracts the id from a resource URL such as /2.2/networks/42 or
// /2.2/eeros/7. The id is path segment 3 of the slash-split URL (the leading
// empty segment counts as 0).
func ResourceID(url string) (string, error) {
	parts := strings.Split(url, "/")
	if len(parts) < 4 || parts[3] == "" {
		return "", fmt.Errorf("resource url %q has no id segment", url)
	}
	return parts[3], nil
}

// ParseTimestamp converts either wire format to Unix seconds. The fractional
// part is dropped.
func ParseTimestamp(s string) (float64, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return float64(t.Unix()), nil
		}
	}
	return 0, fmt.Errorf("unrecognised timestamp %q", s)
}

// ParseSignal reads a signal strength such as "-65 dBm": the trailing four
// characters are the unit and the rest is a signed integer.
func ParseSignal(s string) (float64, error) {
	if len(s) <= 4 {
		return 0, fmt.Errorf("signal %q too short", s)
	}
	v, err := strconv.Atoi(strings.TrimSpace(s[:len(s)-4]))
	if err != nil {
		return 0, fmt.Errorf("signal %q: %w", s, err)
	}
	return float64(v), nil
}

// ParseLinkSpeed reads a wired link speed in Mbps decorated with a unit
// marker character (e.g. "P1000") and returns bits per second.
func ParseLinkSpeed(s string) (float64, error) {
	num := strings.TrimFunc(s, func(r rune) bool { return !unicode.IsDigit(r) && r != '.' })
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("link speed %q: %w", s, err)
	}
	return v * mbps, nil
}

// labelName turns an arbitrary API key into a valid Prometheus label name.
func labelName(key string) string {
	var b strings.Builder
	for i, r := range key {
		switch {
		case r == '_', r <= unicode.MaxASCII && unicode.IsLetter(r):
			b.WriteRune(r)
		case r <= unicode.MaxASCII && unicode.IsDigit(r):
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
