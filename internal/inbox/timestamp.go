package inbox

import (
	"strings"
	"time"
)

// DisplayLayout is how timestamps of appended messages are rendered.
const DisplayLayout = "Jan 2, 3:04 PM"

// Layouts without a year get the reference year.
var timestampLayouts = []struct {
	layout  string
	hasYear bool
}{
	{DisplayLayout, false},
	{"Jan 2, 15:04", false},
	{"Jan 2, 2006, 3:04 PM", true},
	{"Jan 2, 2006 15:04", true},
	{time.RFC3339, true},
}

// ParseTimestamp reads a display timestamp such as "Apr 24, 16:55 PM".
// A 24-hour clock followed by a meridiem is accepted and the meridiem ignored.
// Unparsable input yields the zero time.
func ParseTimestamp(s string, year int, loc *time.Location) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if loc == nil {
		loc = time.Local
	}

	candidates := []string{s}
	if trimmed, ok := trimMeridiem(s); ok {
		candidates = append(candidates, trimmed)
	}

	for _, c := range candidates {
		for _, l := range timestampLayouts {
			t, err := time.ParseInLocation(l.layout, c, loc)
			if err != nil {
				continue
			}
			if !l.hasYear {
				t = time.Date(year, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
			}
			return t
		}
	}
	return time.Time{}
}

func trimMeridiem(s string) (string, bool) {
	upper := strings.ToUpper(s)
	for _, suffix := range []string{" AM", " PM"} {
		if strings.HasSuffix(upper, suffix) {
			return strings.TrimSpace(s[:len(s)-len(suffix)]), true
		}
	}
	return s, false
}

// FormatTimestamp renders t for display.
func FormatTimestamp(t time.Time) string {
	return t.Format(DisplayLayout)
}
