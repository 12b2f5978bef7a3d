package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ahmetcoskunkizilkaya/officedesk/internal/apps/appointments"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/apps/birthdays"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/calendar"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/org"
)

func (a *App) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.streams.Out, 0, 4, 2, ' ', 0)
}

func clock(appt *appointments.Appointment) string {
	t := appt.Start()
	if t.IsZero() {
		return appt.StartTime
	}
	return t.Format("15:04")
}

func urgentMark(appt *appointments.Appointment) string {
	if appt.IsUrgent {
		return "!"
	}
	return ""
}

func (a *App) renderList(list []appointments.Appointment, view org.View) {
	if len(list) == 0 {
		a.printf("No appointments.\n")
		return
	}
	for _, day := range calendar.GroupByDay(list) {
		a.printf("%s\n", day.Date)
		a.renderRows(day.Appointments, view)
	}
}

func (a *App) renderRows(list []appointments.Appointment, view org.View) {
	w := a.table()
	for i := range list {
		appt := &list[i]
		actions := strings.Join(calendar.StatusButtons(view, appt), ",")
		fmt.Fprintf(w, "  %s\t%s\t%s%s\t%s\t%s\t%s\n",
			appt.ID, clock(appt), appt.ProgramName, urgentMark(appt), appt.Status, appt.Address, actions)
	}
	_ = w.Flush()
}

func (a *App) renderDay(list []appointments.Appointment, day time.Time, view org.View) {
	strip := calendar.DateStrip(day, 3)
	labels := make([]string, len(strip))
	for i, d := range strip {
		label := d.Format("Mon 02")
		if calendar.DayKey(d) == calendar.DayKey(day) {
			label = "[" + label + "]"
		}
		labels[i] = label
	}
	a.printf("%s\n", strings.Join(labels, "  "))

	todays := calendar.On(list, day)
	if len(todays) == 0 {
		a.printf("No appointments on %s.\n", calendar.DayKey(day))
		return
	}
	a.renderRows(todays, view)
}

func (a *App) renderWeek(list []appointments.Appointment, day time.Time) {
	w := a.table()
	for _, d := range calendar.WeekOf(day) {
		entries := calendar.On(list, d)
		names := make([]string, len(entries))
		for i := range entries {
			names[i] = clock(&entries[i]) + " " + entries[i].ProgramName + urgentMark(&entries[i])
		}
		fmt.Fprintf(w, "%s\t%s\n", d.Format("Mon 02 Jan"), strings.Join(names, "; "))
	}
	_ = w.Flush()
}

func (a *App) renderMonth(list []appointments.Appointment, day time.Time) {
	a.printf("%s\n", day.Format("January 2006"))
	w := a.table()
	fmt.Fprintln(w, "Mon\tTue\tWed\tThu\tFri\tSat\tSun\t")
	for _, week := range calendar.MonthGrid(day.Year(), day.Month(), list) {
		for _, cell := range week {
			text := ""
			if cell.InMonth {
				text = strconv.Itoa(cell.Date.Day())
				if cell.Count > 0 {
					text += "(" + strconv.Itoa(cell.Count) + ")"
				}
				if cell.Urgent > 0 {
					text += "!"
				}
			}
			fmt.Fprint(w, text+"\t")
		}
		fmt.Fprintln(w)
	}
	_ = w.Flush()
}

func (a *App) renderYear(list []appointments.Appointment, year int) {
	a.printf("%d\n", year)
	w := a.table()
	fmt.Fprintln(w, "Month\tTotal\tGoing\tUrgent")
	for _, m := range calendar.YearSummary(year, list) {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", m.Month, m.Total, m.Going, m.Urgent)
	}
	_ = w.Flush()
}

func birthdayDate(b *birthdays.Birthday) string {
	if b.Year != nil {
		return fmt.Sprintf("%02d/%02d/%d", b.Day, b.Month, *b.Year)
	}
	return fmt.Sprintf("%02d/%02d", b.Day, b.Month)
}

func (a *App) renderBirthdays(list []birthdays.Birthday) {
	if len(list) == 0 {
		a.printf("No birthdays.\n")
		return
	}
	w := a.table()
	fmt.Fprintln(w, "ID\tName\tDate\tPhone\tWard\tReminder")
	for i := range list {
		b := &list[i]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", b.ID, b.FullName, birthdayDate(b), b.Phone, b.Ward, b.ReminderTime)
	}
	_ = w.Flush()
}

func (a *App) renderUpcoming(list []birthdays.UpcomingBirthday) {
	if len(list) == 0 {
		a.printf("No upcoming birthdays.\n")
		return
	}
	w := a.table()
	for i := range list {
		u := &list[i]
		when := "in " + strconv.Itoa(u.DaysAway) + " days"
		switch u.DaysAway {
		case 0:
			when = "today"
		case 1:
			when = "tomorrow"
		}
		turning := ""
		if u.Turning != nil {
			turning = "turns " + strconv.Itoa(*u.Turning)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", u.Date, when, u.FullName, turning, u.Phone)
	}
	_ = w.Flush()
}

func (a *App) renderImport(resp *birthdays.ImportResponse) {
	a.printf("Imported %d, replaced %d, failed %d\n", resp.Imported, resp.Replaced, resp.Failed)
	for _, w := range resp.Warnings {
		a.printf("  warning: %s\n", w)
	}
	for _, e := range resp.Errors {
		a.printf("  error: %s\n", e)
	}
}
