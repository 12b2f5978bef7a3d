package calendar

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/officedesk/internal/apps/appointments"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/apps/birthdays"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/org"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() []appointments.Appointment {
	return []appointments.Appointment{
		{ID: "appt_3", ProgramName: "Ward meeting", StartTime: "2024-05-02T18:00", Status: "scheduled", Address: "Ward 4 hall"},
		{ID: "appt_1", ProgramName: "Temple visit", StartTime: "2024-05-01T10:00", Status: "going", IsUrgent: true, ContactNumber: "9876543210"},
		{ID: "appt_2", ProgramName: "School day", StartTime: "2024-05-01T09:00", Status: "not-going", Notes: "Bring the Principal's letter"},
		{ID: "appt_4", ProgramName: "Press", StartTime: "2024-06-10T11:00", Status: "going", EventFrom: "District Collector"},
	}
}

func ids(list []appointments.Appointment) []string {
	out := make([]string, len(list))
	for i, a := range list {
		out[i] = a.ID
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"everything sorted", Filter{}, []string{"appt_2", "appt_1", "appt_3", "appt_4"}},
		{"all status", Filter{Status: "all"}, []string{"appt_2", "appt_1", "appt_3", "appt_4"}},
		{"status", Filter{Status: "going"}, []string{"appt_1", "appt_4"}},
		{"program name any case", Filter{Search: "TEMPLE"}, []string{"appt_1"}},
		{"contact number", Filter{Search: "98765"}, []string{"appt_1"}},
		{"notes", Filter{Search: "principal"}, []string{"appt_2"}},
		{"address", Filter{Search: "ward 4"}, []string{"appt_3"}},
		{"event from", Filter{Search: "collector"}, []string{"appt_4"}},
		{"status and search", Filter{Status: "scheduled", Search: "temple"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(tt.filter.Apply(sample())))
		})
	}
}

func TestGroupByDay(t *testing.T) {
	days := GroupByDay(sample())
	require.Len(t, days, 3)
	assert.Equal(t, "2024-05-01", days[0].Date)
	assert.Equal(t, []string{"appt_2", "appt_1"}, ids(days[0].Appointments))
	assert.Equal(t, "2024-05-02", days[1].Date)
	assert.Equal(t, "2024-06-10", days[2].Date)

	assert.Equal(t, []string{"appt_2", "appt_1"}, ids(On(sample(), time.Date(2024, 5, 1, 23, 0, 0, 0, time.UTC))))
}

func TestWeekOf_StartsMonday(t *testing.T) {
	// 2024-05-01 is a Wednesday
	week := WeekOf(time.Date(2024, 5, 1, 15, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-04-29", DayKey(week[0]))
	assert.Equal(t, time.Monday, week[0].Weekday())
	assert.Equal(t, "2024-05-05", DayKey(week[6]))

	sunday := WeekOf(time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-04-29", DayKey(sunday[0]))
}

func TestMonthGrid(t *testing.T) {
	grid := MonthGrid(2024, time.May, sample())
	require.Len(t, grid, 5)
	assert.Equal(t, "2024-04-29", DayKey(grid[0][0].Date))
	assert.False(t, grid[0][0].InMonth)

	may1 := grid[0][2]
	assert.Equal(t, "2024-05-01", DayKey(may1.Date))
	assert.True(t, may1.InMonth)
	assert.Equal(t, 2, may1.Count)
	assert.Equal(t, 1, may1.Urgent)
	assert.Equal(t, 1, grid[0][3].Count)

	last := grid[4][6]
	assert.Equal(t, "2024-06-02", DayKey(last.Date))

	// February 2021 fills exactly four weeks
	assert.Len(t, MonthGrid(2021, time.February, nil), 4)
}

func TestYearSummary(t *testing.T) {
	summary := YearSummary(2024, sample())
	assert.Equal(t, time.May, summary[4].Month)
	assert.Equal(t, 3, summary[4].Total)
	assert.Equal(t, 1, summary[4].Urgent)
	assert.Equal(t, 1, summary[4].Going)
	assert.Equal(t, 1, summary[5].Total)
	assert.Equal(t, 0, summary[0].Total)

	assert.Equal(t, 0, YearSummary(2023, sample())[4].Total)
}

func TestDateStrip(t *testing.T) {
	strip := DateStrip(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), 2)
	require.Len(t, strip, 5)
	assert.Equal(t, "2024-02-28", DayKey(strip[0]))
	assert.Equal(t, "2024-02-29", DayKey(strip[1]))
	assert.Equal(t, "2024-03-01", DayKey(strip[2]))
	assert.Equal(t, "2024-03-03", DayKey(strip[4]))

	assert.Len(t, DateStrip(time.Now(), -1), 1)
}

func TestStatusButtons(t *testing.T) {
	registry := org.Defaults()
	a := &appointments.Appointment{Status: appointments.StatusGoing}

	principal := registry.Get(org.DefaultID).ViewFor("mla")
	assert.Equal(t, []string{"not-going"}, StatusButtons(principal, a))

	staff := registry.Get(org.DefaultID).ViewFor("pa")
	assert.Empty(t, StatusButtons(staff, a))
	assert.True(t, staff.Allows(org.ActionDelete))

	secondary := registry.Get(org.SecondaryID).ViewFor("mla")
	assert.Equal(t, []string{"going"}, StatusButtons(secondary, &appointments.Appointment{Status: "scheduled"}))
	assert.True(t, secondary.Allows(org.ActionExport))
}

func TestUpcomingBirthdays(t *testing.T) {
	from := time.Date(2023, 2, 27, 0, 0, 0, 0, time.UTC)
	list := []birthdays.Birthday{{ID: "leap", FullName: "Leap", Day: 29, Month: 2}}

	got := UpcomingBirthdays(list, from, 7)
	require.Len(t, got, 1)
	assert.Equal(t, "2023-02-28", got[0].Date)
	assert.Equal(t, 1, got[0].DaysAway)
}
