package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ahmetcoskunkizilkaya/officedesk/internal/apps/birthdays"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/calendar"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/client"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/importer"
	"github.com/spf13/cobra"
)

func (a *App) birthdaysCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "birthdays",
		Aliases: []string{"bday"},
		Short:   "Manage birthday reminders on the server or in the offline store",
	}
	cmd.AddCommand(
		a.birthdaysListCommand(),
		a.birthdaysImportCommand(),
		a.birthdaysDuplicatesCommand(),
		a.birthdaysUpcomingCommand(),
	)
	return cmd
}

func (a *App) listBirthdays(ctx context.Context, local bool) ([]birthdays.Birthday, error) {
	if local {
		store, err := a.localStore()
		if err != nil {
			return nil, err
		}
		return store.List()
	}
	return a.api().ListBirthdays(ctx)
}

func (a *App) birthdaysListCommand() *cobra.Command {
	var local bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List birthdays in calendar order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := a.listBirthdays(cmd.Context(), local)
			if err != nil {
				return err
			}
			a.renderBirthdays(list)
			return nil
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "use the offline store")
	return cmd
}

func (a *App) birthdaysImportCommand() *cobra.Command {
	var (
		local      bool
		serverSide bool
		retries    int
	)
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import birthdays from a CSV, XLS or XLSX file",
		Long: "Rows are parsed locally and sent one create call at a time, five at once with a\n" +
			"one second pause between batches. Rows whose call failed can be re-sent with\n" +
			"--retry or at the prompt. --server-side uploads the file for the server to parse.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			name := filepath.Base(args[0])

			if serverSide {
				resp, err := a.api().ImportFile(cmd.Context(), name, content)
				if err != nil {
					return err
				}
				a.renderImport(resp)
				return nil
			}

			rows, err := importer.ReadRows(bytes.NewReader(content), name)
			if err != nil {
				return err
			}
			parsed, err := importer.Parse(rows)
			if err != nil {
				return err
			}
			a.printf("Detected %s layout, %d rows to import\n", parsed.Layout, len(parsed.Records))

			if local {
				store, err := a.localStore()
				if err != nil {
					return err
				}
				resp, err := store.Import(parsed)
				if err != nil {
					return err
				}
				a.renderImport(resp)
				return nil
			}
			return a.upload(cmd.Context(), parsed, retries)
		},
	}
	f := cmd.Flags()
	f.BoolVar(&local, "local", false, "write into the offline store instead of the server")
	f.BoolVar(&serverSide, "server-side", false, "upload the file and let the server import it")
	f.IntVar(&retries, "retry", 0, "re-send failed rows up to this many times")
	return cmd
}

func (a *App) upload(ctx context.Context, parsed *importer.Result, retries int) error {
	for _, w := range parsed.Warnings {
		a.printf("  warning: %s\n", w)
	}
	for _, e := range parsed.Errors {
		a.printf("  error: %s\n", e)
	}

	items := make([]client.Item, len(parsed.Records))
	for i, rec := range parsed.Records {
		items[i] = client.Item{Row: rec.Row, Request: birthdays.FromRecord(rec)}
	}

	uploader := client.NewUploader(a.api())
	tally, err := uploader.Upload(ctx, items)
	a.printTally(tally)
	if err != nil {
		return err
	}

	for attempt := 1; len(uploader.Failed()) > 0; attempt++ {
		if attempt > retries {
			if !a.interactive() || !a.confirm(fmt.Sprintf("Retry %d failed rows?", len(uploader.Failed()))) {
				break
			}
		}
		a.printf("Retrying %d failed rows\n", len(uploader.Failed()))
		tally, err = uploader.RetryFailed(ctx)
		a.printTally(tally)
		if err != nil {
			return err
		}
	}

	if n := len(uploader.Failed()); n > 0 {
		return fmt.Errorf("%d rows were not imported", n)
	}
	return nil
}

func (a *App) printTally(t client.Tally) {
	a.printf("Succeeded %d, replaced %d, failed %d\n", t.Succeeded, t.Replaced, t.Failed)
	for _, e := range t.Errors {
		a.printf("  error: %s\n", e)
	}
}

func (a *App) birthdaysDuplicatesCommand() *cobra.Command {
	var local, keepFirst bool
	cmd := &cobra.Command{
		Use:   "duplicates",
		Short: "Find records identical in every field, optionally keeping only the first of each group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := a.listBirthdays(cmd.Context(), local)
			if err != nil {
				return err
			}
			groups := birthdays.FindDuplicates(list)
			if len(groups) == 0 {
				a.printf("No duplicates.\n")
				return nil
			}

			var drop []string
			for i, g := range groups {
				a.printf("Group %d: %s, %s (%d records)\n", i+1, g[0].FullName, birthdayDate(&g[0]), len(g))
				for _, b := range g {
					a.printf("  %s\n", b.ID)
				}
				ids, err := birthdays.KeepOne(g, g[0].ID)
				if err != nil {
					return err
				}
				drop = append(drop, ids...)
			}
			if !keepFirst {
				return nil
			}

			n, err := a.deleteBirthdays(cmd.Context(), local, drop)
			if err != nil {
				return err
			}
			a.printf("Removed %d duplicates\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "use the offline store")
	cmd.Flags().BoolVar(&keepFirst, "keep-first", false, "delete all but the first record of each group")
	return cmd
}

func (a *App) deleteBirthdays(ctx context.Context, local bool, ids []string) (int64, error) {
	if local {
		store, err := a.localStore()
		if err != nil {
			return 0, err
		}
		n, err := store.BulkDelete(ids)
		return int64(n), err
	}
	return a.api().BulkDeleteBirthdays(ctx, ids)
}

func (a *App) birthdaysUpcomingCommand() *cobra.Command {
	var (
		local bool
		days  int
	)
	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "Show birthdays coming up in the next days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if local {
				list, err := a.listBirthdays(cmd.Context(), true)
				if err != nil {
					return err
				}
				a.renderUpcoming(calendar.UpcomingBirthdays(list, a.now(), days))
				return nil
			}
			list, err := a.api().UpcomingBirthdays(cmd.Context(), days)
			if err != nil {
				return err
			}
			a.renderUpcoming(list)
			return nil
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "use the offline store")
	cmd.Flags().IntVar(&days, "days", 30, "how many days ahead to look")
	return cmd
}
