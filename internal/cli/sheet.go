package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/faizmokh/eldlog/internal/recap"
	"github.com/faizmokh/eldlog/internal/render"
)

func newGridCommand(e *env) *cobra.Command {
	var (
		dateFlag  string
		plainFlag bool
	)

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Draw the 24 hour duty grid for a day.",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := e.resolveDate(dateFlag)
			if err != nil {
				return err
			}
			sheet, err := e.buildSheet(date)
			if err != nil {
				return err
			}

			theme := themeFor(cmd, plainFlag)
			fmt.Fprint(cmd.OutOrStdout(), theme.Grid(sheet.Grid, render.SheetRows(sheet)))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Target date in YYYY-MM-DD (default: today)")
	cmd.Flags().BoolVar(&plainFlag, "plain", false, "Disable colour")

	return cmd
}

func newSheetCommand(e *env) *cobra.Command {
	var (
		dateFlag   string
		plainFlag  bool
		outputJSON bool
	)

	cmd := &cobra.Command{
		Use:   "sheet",
		Short: "Print the complete Driver's Daily Log for a day.",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := e.resolveDate(dateFlag)
			if err != nil {
				return err
			}
			sheet, err := e.buildSheet(date)
			if err != nil {
				return err
			}

			if outputJSON {
				return printJSON(cmd, sheet)
			}
			fmt.Fprint(cmd.OutOrStdout(), themeFor(cmd, plainFlag).Sheet(sheet))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Target date in YYYY-MM-DD (default: today)")
	cmd.Flags().BoolVar(&plainFlag, "plain", false, "Disable colour")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Emit the sheet as JSON")

	return cmd
}

func newRecapCommand(e *env) *cobra.Command {
	var (
		dateFlag   string
		plainFlag  bool
		outputJSON bool
	)

	cmd := &cobra.Command{
		Use:   "recap",
		Short: "Show on-duty hours against the 70/8 and 60/7 limits.",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := e.resolveDate(dateFlag)
			if err != nil {
				return err
			}
			days, err := e.reader().DaysBetween(e.ctx, recap.Window(date), date)
			if err != nil {
				return err
			}

			r := recap.Compute(days, date, e.clock(), e.cfg.Cycle)
			if outputJSON {
				return printJSON(cmd, r)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Recap for %s\n", date.Format(dateLayout))
			fmt.Fprint(out, themeFor(cmd, plainFlag).Recap(r))
			fmt.Fprintf(out, "Available tomorrow (%s): %s hours\n", r.Cycle, render.Hours(r.Available()))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Target date in YYYY-MM-DD (default: today)")
	cmd.Flags().BoolVar(&plainFlag, "plain", false, "Disable colour")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Emit the recap as JSON")

	return cmd
}
