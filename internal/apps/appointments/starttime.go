package appointments

import (
	"strings"
	"time"
)

var startTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseStartTime accepts RFC 3339 and the zone-less forms browsers send from
// datetime-local inputs. Zone-less values are read as wall-clock time in UTC.
func ParseStartTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrStartTimeRequired
	}
	for _, layout := range startTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidStartTime
}
