package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/officedesk/internal/apps/appointments"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/calendar"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/org"
	"github.com/spf13/cobra"
)

const (
	viewList  = "list"
	viewDay   = "day"
	viewWeek  = "week"
	viewMonth = "month"
	viewYear  = "year"
)

func (a *App) appointmentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "appointments",
		Aliases: []string{"appt"},
		Short:   "List appointments and change their status",
	}
	cmd.AddCommand(a.appointmentsListCommand(), a.appointmentsStatusCommand())
	return cmd
}

func (a *App) appointmentsListCommand() *cobra.Command {
	var (
		filter calendar.Filter
		view   string
		date   string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show appointments as a list or a day, week, month or year calendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if filter.Status != "" && filter.Status != "all" && !appointments.ValidStatus(filter.Status) {
				return fmt.Errorf("unknown status %q", filter.Status)
			}
			at, err := a.parseDate(date)
			if err != nil {
				return err
			}

			api := a.api()
			list, err := api.ListAppointments(cmd.Context())
			if err != nil {
				return err
			}
			roleView := org.View{}
			if v, err := api.View(cmd.Context()); err == nil {
				roleView = org.View{StatusActions: v.StatusActions, Actions: v.Actions}
			}

			list = filter.Apply(list)
			switch view {
			case viewList, "":
				a.renderList(list, roleView)
			case viewDay:
				a.renderDay(list, at, roleView)
			case viewWeek:
				a.renderWeek(list, at)
			case viewMonth:
				a.renderMonth(list, at)
			case viewYear:
				a.renderYear(list, at.Year())
			default:
				return fmt.Errorf("unknown view %q (want list, day, week, month or year)", view)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&filter.Status, "status", "", "only this status (scheduled, going, not-going)")
	f.StringVar(&filter.Search, "search", "", "search program, contact, notes, address and organiser")
	f.StringVar(&view, "view", viewList, "list, day, week, month or year")
	f.StringVar(&date, "date", "", "calendar date YYYY-MM-DD (default today)")
	return cmd
}

func (a *App) appointmentsStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Mark an appointment going or not-going",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, status := args[0], strings.ToLower(args[1])
			if !appointments.ValidStatus(status) {
				return fmt.Errorf("unknown status %q", status)
			}

			api := a.api()
			v, err := api.View(cmd.Context())
			if err != nil {
				return err
			}
			if !contains(v.StatusActions, status) {
				return fmt.Errorf("role %s cannot set status %s in %s", v.Role, status, v.OrgName)
			}

			updated, err := api.SetStatus(cmd.Context(), id, status)
			if err != nil {
				return err
			}
			a.printf("%s %s is now %s\n", updated.ID, updated.ProgramName, updated.Status)
			return nil
		},
	}
}

func (a *App) parseDate(s string) (time.Time, error) {
	if s == "" {
		now := a.now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
	}
	return t, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
