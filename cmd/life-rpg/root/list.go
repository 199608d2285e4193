package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Laz627/life-rpg/internal/ui"
)

func newListCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a day's tasks (materializes due recurring tasks)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, user, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			tasks, err := svc.ListTasks(ctx, user.ID, date)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconScroll, "Tasks"))
			if len(tasks) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(no tasks)"))
				return nil
			}
			for _, t := range tasks {
				icon := ui.KindIcon(t.IsNegativeHabit, t.NumericUnit != nil)
				line := fmt.Sprintf("%s %d %s [%s]", icon, t.ID, t.Description, ui.TaskStatus(t.IsCompleted, t.IsSkipped))
				if t.NumericValue != nil && t.NumericUnit != nil {
					verb := "goal"
					if t.IsNegativeHabit {
						verb = "limit"
					}
					line += " " + ui.Muted.Render(fmt.Sprintf("(%s %g %s)", verb, *t.NumericValue, *t.NumericUnit))
				}
				if t.XPGained > 0 {
					line += " " + ui.Dim.Render(fmt.Sprintf("+%d xp", t.XPGained))
				}
				fmt.Fprintln(out, line)
			}

			st, err := svc.DailyStatFor(ctx, user.ID, date)
			if err != nil {
				return err
			}
			if st != nil {
				fmt.Fprintln(out, ui.Muted.Render(fmt.Sprintf("Day so far: %d completed, %d xp", st.TasksCompleted, st.TotalXPGained)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to list (YYYY-MM-DD, defaults to today)")

	return cmd
}
