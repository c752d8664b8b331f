package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/faizmokh/eldlog/internal/duty"
	"github.com/faizmokh/eldlog/internal/logbook"
	"github.com/faizmokh/eldlog/internal/render"
)

func newStatusCommand(e *env) *cobra.Command {
	var (
		dateFlag     string
		atFlag       string
		locationFlag string
	)

	cmd := &cobra.Command{
		Use:   "status <off|sb|driving|on> [remarks ...]",
		Short: "Change duty status, closing the running period.",
		Long: "status closes the duty period that is still running and starts a new one. " +
			"A period left running on an earlier day is carried across every day up to now.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := duty.Parse(args[0])
			if err != nil {
				return err
			}

			date, err := e.resolveDate(dateFlag)
			if err != nil {
				return err
			}
			at, err := e.resolveTime(date, atFlag)
			if err != nil {
				return err
			}

			remarks := strings.TrimSpace(strings.Join(args[1:], " "))
			entry, err := e.writer().ChangeStatus(e.ctx, at, status, remarks, locationFlag)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s since %s %s\n",
				entry.Status.Label(), entry.Start.Format(dateLayout), entry.Start.Format(clockLayout))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Date of the change in YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&atFlag, "at", "", "Time of the change in HH:MM (default: current time)")
	cmd.Flags().StringVarP(&locationFlag, "location", "l", "", "City and state where the change happened")

	return cmd
}

func newEndCommand(e *env) *cobra.Command {
	var (
		dateFlag string
		atFlag   string
	)

	cmd := &cobra.Command{
		Use:   "end",
		Short: "Close the running duty period without starting another.",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := e.resolveDate(dateFlag)
			if err != nil {
				return err
			}
			at, err := e.resolveTime(date, atFlag)
			if err != nil {
				return err
			}

			entry, err := e.writer().End(e.ctx, at)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Closed %s at %s %s\n",
				entry.Status.Label(), at.Format(dateLayout), at.Format(clockLayout))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Date in YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&atFlag, "at", "", "Time in HH:MM (default: current time)")

	return cmd
}

func newLogCommand(e *env) *cobra.Command {
	var (
		dateFlag     string
		fromFlag     string
		toFlag       string
		locationFlag string
	)

	cmd := &cobra.Command{
		Use:   "log <status> [remarks ...]",
		Short: "Record a duty period after the fact.",
		Long:  "log inserts a period under the target date in start-time order. Omit --to to leave it running.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := duty.Parse(args[0])
			if err != nil {
				return err
			}
			if fromFlag == "" {
				return fmt.Errorf("--from is required")
			}

			date, err := e.resolveDate(dateFlag)
			if err != nil {
				return err
			}
			start, err := parseClock(date, fromFlag)
			if err != nil {
				return err
			}

			entry := logbook.Entry{
				Status:   status,
				Start:    start,
				Remarks:  strings.TrimSpace(strings.Join(args[1:], " ")),
				Location: locationFlag,
			}
			if toFlag != "" {
				if entry.End, err = parseClock(date, toFlag); err != nil {
					return err
				}
			}

			if err := e.writer().Append(e.ctx, date, entry); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged %s\n", formatEntry(entry))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Target date in YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&fromFlag, "from", "", "Start time in HH:MM")
	cmd.Flags().StringVar(&toFlag, "to", "", "End time in HH:MM, 24:00 for midnight")
	cmd.Flags().StringVarP(&locationFlag, "location", "l", "", "City and state")

	return cmd
}

func newDeleteCommand(e *env) *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "delete <index>",
		Short: "Remove an entry by index.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}

			date, err := e.resolveDate(dateFlag)
			if err != nil {
				return err
			}

			entry, err := e.writer().Delete(e.ctx, date, index)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted entry %d: %s\n", index, formatEntry(entry))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Target date in YYYY-MM-DD (default: today)")

	return cmd
}

func newEditCommand(e *env) *cobra.Command {
	var (
		dateFlag     string
		fromFlag     string
		toFlag       string
		statusFlag   string
		locationFlag string
		openFlag     bool
	)

	cmd := &cobra.Command{
		Use:   "edit <index> [remarks ...]",
		Short: "Modify an entry by index.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			remarkArgs := args[1:]

			date, err := e.resolveDate(dateFlag)
			if err != nil {
				return err
			}

			day, err := e.reader().Day(e.ctx, date)
			if err != nil {
				return err
			}
			if index > len(day.Entries) {
				return logbook.ErrInvalidIndex
			}

			updated := day.Entries[index-1]
			if len(remarkArgs) > 0 {
				updated.Remarks = strings.TrimSpace(strings.Join(remarkArgs, " "))
			}
			if cmd.Flags().Changed("location") {
				updated.Location = locationFlag
			}
			if fromFlag != "" {
				if updated.Start, err = parseClock(date, fromFlag); err != nil {
					return err
				}
			}
			switch {
			case openFlag:
				updated.End = time.Time{}
			case toFlag != "":
				if updated.End, err = parseClock(date, toFlag); err != nil {
					return err
				}
			}
			if updated.Status, err = parseStatusFlag(statusFlag, updated.Status); err != nil {
				return err
			}

			if err := e.writer().Edit(e.ctx, date, index, updated); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated entry %d: %s\n", index, formatEntry(updated))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Target date in YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&fromFlag, "from", "", "Start time in HH:MM (default: unchanged)")
	cmd.Flags().StringVar(&toFlag, "to", "", "End time in HH:MM (default: unchanged)")
	cmd.Flags().BoolVar(&openFlag, "open", false, "Reopen the entry so it runs until the next change")
	cmd.Flags().StringVar(&statusFlag, "status", "", "off, sb, driving or on (default: unchanged)")
	cmd.Flags().StringVarP(&locationFlag, "location", "l", "", "City and state (default: unchanged)")

	return cmd
}

func newMilesCommand(e *env) *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "miles <driving> [total]",
		Short: "Record miles driven today and total mileage.",
		Long:  "miles records the day's driving miles. Total mileage defaults to the driving miles.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			driving, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("parse miles %q: %w", args[0], err)
			}
			var total float64
			if len(args) == 2 {
				if total, err = strconv.ParseFloat(args[1], 64); err != nil {
					return fmt.Errorf("parse total %q: %w", args[1], err)
				}
			}

			date, err := e.resolveDate(dateFlag)
			if err != nil {
				return err
			}

			m, err := e.writer().SetMileage(e.ctx, date, driving, total)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Miles for %s: %s driving, %s total\n",
				date.Format(dateLayout), render.Miles(m.Driving), render.Miles(m.Total))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Target date in YYYY-MM-DD (default: today)")

	return cmd
}

func newRouteCommand(e *env) *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "route <from> <to>",
		Short: "Record where the day's trip started and ended.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := e.resolveDate(dateFlag)
			if err != nil {
				return err
			}

			route := logbook.Route{From: strings.TrimSpace(args[0]), To: strings.TrimSpace(args[1])}
			if err := e.writer().SetRoute(e.ctx, date, route); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Route for %s: %s -> %s\n", date.Format(dateLayout), route.From, route.To)
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Target date in YYYY-MM-DD (default: today)")

	return cmd
}
