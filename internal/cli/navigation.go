package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/faizmokh/eldlog/internal/logbook"
)

func newPrevCommand(e *env) *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "prev",
		Short: "Show the previous day's duty periods.",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := e.resolveDate(dateFlag)
			if err != nil {
				return err
			}
			return e.displayDay(cmd, date.AddDate(0, 0, -1))
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Reference date in YYYY-MM-DD (default: today)")

	return cmd
}

func newNextCommand(e *env) *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next day's duty periods.",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := e.resolveDate(dateFlag)
			if err != nil {
				return err
			}
			return e.displayDay(cmd, date.AddDate(0, 0, 1))
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Reference date in YYYY-MM-DD (default: today)")

	return cmd
}

func newJumpCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jump <date>",
		Short: "Show duty periods for the specified date.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := e.resolveDate(args[0])
			if err != nil {
				return err
			}
			return e.displayDay(cmd, target)
		},
	}

	return cmd
}

func newListCommand(e *env) *cobra.Command {
	var (
		dateFlag string
		daysFlag int
		weekFlag bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List duty periods across a range of days.",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := e.resolveDate(dateFlag)
			if err != nil {
				return err
			}

			days := daysFlag
			if weekFlag {
				days = 8
			}
			if days <= 0 {
				days = 1
			}

			start := date.AddDate(0, 0, -(days - 1))
			found, err := e.reader().DaysBetween(e.ctx, start, date)
			if err != nil {
				return err
			}

			if len(found) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No entries between %s and %s\n",
					start.Format(dateLayout), date.Format(dateLayout))
				return nil
			}

			return printDays(cmd, found)
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "End date in YYYY-MM-DD (default: today)")
	cmd.Flags().IntVar(&daysFlag, "days", 0, "Number of days to include ending on target date")
	cmd.Flags().BoolVar(&weekFlag, "week", false, "Shortcut for the 8 days of a 70 hour cycle")

	return cmd
}

func newSearchCommand(e *env) *cobra.Command {
	var (
		dateFlag      string
		caseSensitive bool
		outputJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search remarks, locations and statuses within the month.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := strings.TrimSpace(args[0])
			if term == "" {
				return fmt.Errorf("term is required")
			}
			date, err := e.resolveDate(dateFlag)
			if err != nil {
				return err
			}

			startOfMonth := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
			endOfMonth := startOfMonth.AddDate(0, 1, -1)

			days, err := e.reader().DaysBetween(e.ctx, startOfMonth, endOfMonth)
			if err != nil {
				return err
			}

			results := filterDaysByTerm(days, term, caseSensitive)
			if outputJSON {
				return printSearchResultsJSON(cmd, results)
			}
			return printSearchResultsText(cmd, term, startOfMonth, results)
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Reference date in YYYY-MM-DD (default: today)")
	cmd.Flags().BoolVar(&caseSensitive, "case-sensitive", false, "Match term with case sensitivity")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Emit results as JSON objects")

	return cmd
}

func (e *env) displayDay(cmd *cobra.Command, date time.Time) error {
	day, err := e.reader().Day(e.ctx, date)
	if err != nil {
		if errors.Is(err, logbook.ErrDayNotFound) {
			printMissingDay(cmd, date)
			return nil
		}
		return err
	}
	return printDay(cmd, day)
}

type searchResult struct {
	day   logbook.Day
	entry logbook.Entry
	index int
}

func filterDaysByTerm(days []logbook.Day, term string, caseSensitive bool) []searchResult {
	var results []searchResult
	for _, day := range days {
		for idx, entry := range day.Entries {
			if matchesEntry(entry, term, caseSensitive) {
				results = append(results, searchResult{
					day:   day,
					entry: entry,
					index: idx,
				})
			}
		}
	}
	return results
}

func matchesEntry(entry logbook.Entry, needle string, caseSensitive bool) bool {
	fields := []string{entry.Remarks, entry.Location, string(entry.Status), entry.Status.Label()}
	if !caseSensitive {
		needle = strings.ToLower(needle)
	}
	for _, field := range fields {
		if !caseSensitive {
			field = strings.ToLower(field)
		}
		if strings.Contains(field, needle) {
			return true
		}
	}
	return false
}

func printSearchResultsText(cmd *cobra.Command, term string, start time.Time, results []searchResult) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Results for %q in %s\n", term, start.Format("2006-01"))
	if len(results) == 0 {
		fmt.Fprintln(out, "(no matches)")
		return nil
	}

	for _, res := range results {
		fmt.Fprintf(out, "%s #%d %s\n",
			res.day.Date.Format(dateLayout),
			res.index+1,
			formatEntry(res.entry),
		)
	}
	return nil
}

func printSearchResultsJSON(cmd *cobra.Command, results []searchResult) error {
	type dto struct {
		Date  string        `json:"date"`
		Index int           `json:"index"`
		Entry logbook.Entry `json:"entry"`
	}

	list := make([]dto, 0, len(results))
	for _, res := range results {
		list = append(list, dto{
			Date:  res.day.Date.Format(dateLayout),
			Index: res.index + 1,
			Entry: res.entry,
		})
	}

	return printJSON(cmd, list)
}
