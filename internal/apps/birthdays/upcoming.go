package birthdays

import (
	"sort"
	"time"

	"github.com/ahmetcoskunkizilkaya/officedesk/internal/importer/dates"
)

// NextOccurrence is the first date on or after from (by calendar day) that
// celebrates b. 29 February falls on 28 February in common years.
func NextOccurrence(b *Birthday, from time.Time) time.Time {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	for year := start.Year(); ; year++ {
		day := b.Day
		if last := dates.DaysIn(time.Month(b.Month), year); day > last {
			day = last
		}
		d := time.Date(year, time.Month(b.Month), day, 0, 0, 0, 0, from.Location())
		if !d.Before(start) {
			return d
		}
	}
}

// Upcoming lists birthdays falling within days of from (inclusive of
// today), soonest first.
func Upcoming(list []Birthday, from time.Time, days int) []UpcomingBirthday {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	out := make([]UpcomingBirthday, 0)
	for _, b := range list {
		if b.Month < 1 || b.Month > 12 || b.Day < 1 {
			continue
		}
		next := NextOccurrence(&b, start)
		away := int(next.Sub(start).Hours()+12) / 24
		if away > days {
			continue
		}
		u := UpcomingBirthday{Birthday: b, Date: next.Format("2006-01-02"), DaysAway: away}
		if b.Year != nil && *b.Year > 0 {
			age := next.Year() - *b.Year
			u.Turning = &age
		}
		out = append(out, u)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DaysAway != out[j].DaysAway {
			return out[i].DaysAway < out[j].DaysAway
		}
		return NameKey(out[i].FullName) < NameKey(out[j].FullName)
	})
	return out
}
