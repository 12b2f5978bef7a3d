package calendar

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/officedesk/internal/apps/appointments"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/apps/birthdays"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/org"
)

// StatusButtons lists the status transitions view offers for a. The
// appointment's current status is left out.
func StatusButtons(view org.View, a *appointments.Appointment) []string {
	out := make([]string, 0, len(view.StatusActions))
	for _, s := range view.StatusActions {
		if s != a.Status {
			out = append(out, s)
		}
	}
	return out
}

// UpcomingBirthdays lists birthdays in the next days days starting at from.
func UpcomingBirthdays(list []birthdays.Birthday, from time.Time, days int) []birthdays.UpcomingBirthday {
	return birthdays.Upcoming(list, from, days)
}
