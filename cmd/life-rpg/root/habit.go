package root

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Laz627/life-rpg/internal/engine"
	"github.com/Laz627/life-rpg/internal/ui"
)

func newHabitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habit [description]",
		Short: "Show week/month trends for a numeric habit",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, user, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				habits, err := svc.NumericHabits(ctx, user.ID)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, ui.Heading(ui.IconLoop, "Tracked habits"))
				if len(habits) == 0 {
					fmt.Fprintln(out, ui.Muted.Render("(none yet: complete a task with a logged value first)"))
					return nil
				}
				for _, h := range habits {
					fmt.Fprintln(out, "- "+h)
				}
				return nil
			}

			report, err := svc.HabitProgress(ctx, user.ID, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(out, ui.Heading(ui.IconLoop, report.Description))
			if report.IsNegative {
				fmt.Fprintln(out, ui.Muted.Render("negative habit: less is better, changes are sign-flipped"))
			}
			printWindow(out, "This week", report.Week, report.Unit)
			printWindow(out, "This month", report.Month, report.Unit)
			return nil
		},
	}

	return cmd
}

func printWindow(out io.Writer, label string, w engine.TrendWindow, unit string) {
	fmt.Fprintln(out, ui.H2.Render(label))
	fmt.Fprintf(out, "- total: %g %s (prev %g, %s)\n", w.Current.Total, unit, w.Previous.Total, changeText(w.TotalChange))
	fmt.Fprintf(out, "- daily avg: %g %s (prev %g, %s)\n", w.Current.Avg, unit, w.Previous.Avg, changeText(w.AvgChange))
}

func changeText(change float64) string {
	switch {
	case change > 0:
		return ui.Good.Render(fmt.Sprintf("+%.1f%%", change))
	case change < 0:
		return ui.Bad.Render(fmt.Sprintf("%.1f%%", change))
	default:
		return ui.Muted.Render("±0%")
	}
}
