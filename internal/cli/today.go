package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/faizmokh/eldlog/internal/logbook"
)

func newTodayCommand(e *env) *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show the duty periods for today or a specific date.",
		RunE: func(cmd *cobra.Command, args []string) error {
			targetDate, err := e.resolveDate(dateFlag)
			if err != nil {
				return err
			}

			day, err := e.reader().Day(e.ctx, targetDate)
			if err != nil {
				if errors.Is(err, logbook.ErrDayNotFound) {
					printMissingDay(cmd, targetDate)
					return nil
				}
				return err
			}

			return printDay(cmd, day)
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Target date in YYYY-MM-DD (default: today)")

	return cmd
}
