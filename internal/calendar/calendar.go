// Package calendar holds the list and calendar presentation logic for
// appointments: filtering, search, day buckets and the day, week, month
// and year layouts.
package calendar

import (
	"sort"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/officedesk/internal/apps/appointments"
)

const dayLayout = "2006-01-02"

// Filter selects appointments by status and a free-text search. Empty
// fields match everything.
type Filter struct {
	Status string
	Search string
}

// Match reports whether a passes the filter. The search is a
// case-insensitive substring match over program name, contact number,
// notes, address and event source.
func (f Filter) Match(a *appointments.Appointment) bool {
	if f.Status != "" && f.Status != "all" && a.Status != f.Status {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	for _, field := range []string{a.ProgramName, a.ContactNumber, a.Notes, a.Address, a.EventFrom} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Apply returns the matching appointments sorted by start time.
func (f Filter) Apply(list []appointments.Appointment) []appointments.Appointment {
	out := make([]appointments.Appointment, 0, len(list))
	for i := range list {
		if f.Match(&list[i]) {
			out = append(out, list[i])
		}
	}
	SortByStart(out)
	return out
}

// SortByStart orders by start time, then id. Unparseable start times sort
// first.
func SortByStart(list []appointments.Appointment) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i].Start(), list[j].Start()
		if !a.Equal(b) {
			return a.Before(b)
		}
		return list[i].ID < list[j].ID
	})
}

type Day struct {
	Date         string                     `json:"date"`
	Appointments []appointments.Appointment `json:"appointments"`
}

// GroupByDay buckets list by calendar day of the start time, days in
// ascending order.
func GroupByDay(list []appointments.Appointment) []Day {
	sorted := append([]appointments.Appointment(nil), list...)
	SortByStart(sorted)

	var days []Day
	for _, a := range sorted {
		key := DayKey(a.Start())
		if n := len(days); n > 0 && days[n-1].Date == key {
			days[n-1].Appointments = append(days[n-1].Appointments, a)
			continue
		}
		days = append(days, Day{Date: key, Appointments: []appointments.Appointment{a}})
	}
	return days
}

// On returns the appointments that start on the calendar day of t.
func On(list []appointments.Appointment, t time.Time) []appointments.Appointment {
	key := DayKey(t)
	out := make([]appointments.Appointment, 0)
	for _, a := range list {
		if DayKey(a.Start()) == key {
			out = append(out, a)
		}
	}
	SortByStart(out)
	return out
}

func DayKey(t time.Time) string {
	return t.Format(dayLayout)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekOf returns the seven days of the Monday-started week containing t.
func WeekOf(t time.Time) [7]time.Time {
	start := midnight(t)
	offset := (int(start.Weekday()) + 6) % 7
	start = start.AddDate(0, 0, -offset)

	var week [7]time.Time
	for i := range week {
		week[i] = start.AddDate(0, 0, i)
	}
	return week
}

type Cell struct {
	Date    time.Time
	InMonth bool
	Count   int
	Urgent  int
}

// MonthGrid lays out month as whole Monday-started weeks. Cells outside the
// month are padding with InMonth false; counts cover every cell.
func MonthGrid(year int, month time.Month, list []appointments.Appointment) [][7]Cell {
	counts, urgent := countByDay(list)

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	cursor := WeekOf(first)[0]
	var grid [][7]Cell
	for {
		var week [7]Cell
		for i := range week {
			key := DayKey(cursor)
			week[i] = Cell{Date: cursor, InMonth: cursor.Month() == month, Count: counts[key], Urgent: urgent[key]}
			cursor = cursor.AddDate(0, 0, 1)
		}
		grid = append(grid, week)
		if cursor.Month() != month {
			break
		}
	}
	return grid
}

type MonthSummary struct {
	Month  time.Month `json:"month"`
	Total  int        `json:"total"`
	Urgent int        `json:"urgent"`
	Going  int        `json:"going"`
}

// YearSummary counts appointments per month of year.
func YearSummary(year int, list []appointments.Appointment) [12]MonthSummary {
	var out [12]MonthSummary
	for i := range out {
		out[i].Month = time.Month(i + 1)
	}
	for i := range list {
		t := list[i].Start()
		if t.IsZero() || t.Year() != year {
			continue
		}
		s := &out[t.Month()-1]
		s.Total++
		if list[i].IsUrgent {
			s.Urgent++
		}
		if list[i].Status == appointments.StatusGoing {
			s.Going++
		}
	}
	return out
}

// DateStrip returns the swipeable strip of days around center: n days
// before, center itself and n days after.
func DateStrip(center time.Time, n int) []time.Time {
	if n < 0 {
		n = 0
	}
	c := midnight(center)
	out := make([]time.Time, 0, 2*n+1)
	for i := -n; i <= n; i++ {
		out = append(out, c.AddDate(0, 0, i))
	}
	return out
}

func countByDay(list []appointments.Appointment) (map[string]int, map[string]int) {
	counts := make(map[string]int)
	urgent := make(map[string]int)
	for i := range list {
		t := list[i].Start()
		if t.IsZero() {
			continue
		}
		key := DayKey(t)
		counts[key]++
		if list[i].IsUrgent {
			urgent[key]++
		}
	}
	return counts, urgent
}
