package birthdays

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindDuplicates(t *testing.T) {
	list := []Birthday{
		{ID: "1", FullName: "Asha Rao", Day: 5, Month: 6, Ward: "3", ReminderTime: "09:00"},
		{ID: "2", FullName: "Vikram", Day: 1, Month: 1, ReminderTime: "09:00"},
		{ID: "3", FullName: "asha  rao", Day: 5, Month: 6, Ward: "3", ReminderTime: "09:00"},
		{ID: "4", FullName: "Vikram", Day: 1, Month: 1, ReminderTime: "09:00"},
		{ID: "5", FullName: "Asha Rao", Day: 5, Month: 6, Ward: "4", ReminderTime: "09:00"},
		{ID: "6", FullName: "Asha Rao", Day: 5, Month: 6, Ward: "3", ReminderTime: "09:00"},
		{ID: "7", FullName: "Vikram", Day: 1, Month: 1, Year: intp(1970), ReminderTime: "09:00"},
	}

	groups := FindDuplicates(list)
	require.Len(t, groups, 2)
	assert.Equal(t, []string{"1", "3", "6"}, ids(groups[0]))
	assert.Equal(t, []string{"2", "4"}, ids(groups[1]))

	assert.Empty(t, FindDuplicates(list[:2]))
}

func TestKeepOne(t *testing.T) {
	group := []Birthday{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	drop, err := KeepOne(group, "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, drop)

	_, err = KeepOne(group, "z")
	assert.ErrorIs(t, err, ErrKeepNotInGroup)
}

func ids(list []Birthday) []string {
	out := make([]string, len(list))
	for i, b := range list {
		out[i] = b.ID
	}
	return out
}

func TestNextOccurrence(t *testing.T) {
	from := time.Date(2025, 2, 20, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		b    Birthday
		want string
	}{
		{"later this year", Birthday{Day: 10, Month: 3}, "2025-03-10"},
		{"today", Birthday{Day: 20, Month: 2}, "2025-02-20"},
		{"already passed", Birthday{Day: 19, Month: 2}, "2026-02-19"},
		{"leap day in common year", Birthday{Day: 29, Month: 2}, "2025-02-28"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextOccurrence(&tt.b, from)
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
		})
	}

	leap := time.Date(2028, 2, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2028-02-29", NextOccurrence(&Birthday{Day: 29, Month: 2}, leap).Format("2006-01-02"))
}

func TestUpcoming(t *testing.T) {
	from := time.Date(2025, 2, 20, 9, 0, 0, 0, time.UTC)
	list := []Birthday{
		{ID: "far", FullName: "Far", Day: 1, Month: 1},
		{ID: "leap", FullName: "Leap", Day: 29, Month: 2, Year: intp(2000)},
		{ID: "today", FullName: "Today", Day: 20, Month: 2},
		{ID: "march", FullName: "March", Day: 15, Month: 3},
	}

	got := Upcoming(list, from, 30)
	require.Len(t, got, 3)

	assert.Equal(t, "today", got[0].ID)
	assert.Equal(t, 0, got[0].DaysAway)
	assert.Nil(t, got[0].Turning)

	assert.Equal(t, "leap", got[1].ID)
	assert.Equal(t, "2025-02-28", got[1].Date)
	assert.Equal(t, 8, got[1].DaysAway)
	require.NotNil(t, got[1].Turning)
	assert.Equal(t, 25, *got[1].Turning)

	assert.Equal(t, "march", got[2].ID)
	assert.Equal(t, 23, got[2].DaysAway)

	assert.Len(t, Upcoming(list, from, 0), 1)
}
