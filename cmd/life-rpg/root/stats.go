package root

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Laz627/life-rpg/internal/ui"
)

func newStatsCmd() *cobra.Command {
	var (
		heatmap string
		history int
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show attributes, levels, and global counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, user, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()

			if heatmap != "" {
				var year, month int
				if _, err := fmt.Sscanf(heatmap, "%d-%d", &year, &month); err != nil {
					return fmt.Errorf("heatmap month must be YYYY-MM")
				}
				rows, err := svc.Heatmap(ctx, user.ID, year, month)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, ui.Heading(ui.IconFire, fmt.Sprintf("Activity %s", heatmap)))
				if len(rows) == 0 {
					fmt.Fprintln(out, ui.Muted.Render("(no activity)"))
					return nil
				}
				for _, r := range rows {
					fmt.Fprintf(out, "%s  %d tasks, %d xp\n", r.Date, r.TasksCompleted, r.TotalXPGained)
				}
				return nil
			}

			if history > 0 {
				hist, err := svc.AttributeHistory(ctx, user.ID, history)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, ui.Heading(ui.IconBolt, fmt.Sprintf("Levels over the last %d days", history)))
				names := make([]string, 0, len(hist.Levels))
				for name := range hist.Levels {
					names = append(names, name)
				}
				sort.Strings(names)
				last := len(hist.Dates) - 1
				for _, name := range names {
					levels := hist.Levels[name]
					fmt.Fprintf(out, "- %s: lvl %d → %d\n", ui.Key.Render(name), levels[0], levels[last])
				}
				return nil
			}

			attrs, err := svc.AttributeOverview(ctx, user.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Attributes"))
			for _, a := range attrs {
				p := a.Progress
				fmt.Fprintf(out, "- %s lvl %d (xp %d, %d/%d to next, %.0f%%)\n",
					ui.Key.Render(a.Name), p.Level, p.XP, p.Gained, p.Needed, p.Percent)
				for _, sub := range a.Subskills {
					fmt.Fprintf(out, "    %s lvl %d (xp %d)\n", ui.Muted.Render(sub.Name), sub.Progress.Level, sub.Progress.XP)
				}
			}
			fmt.Fprintln(out, "")

			stats, err := svc.Stats(ctx, user.ID)
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(stats))
			for k := range stats {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintln(out, ui.H2.Render("📊 Counters"))
			for _, k := range keys {
				fmt.Fprintln(out, "- "+ui.LabelValue(k, stats[k]))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&heatmap, "heatmap", "", "Show the activity ledger for a month (YYYY-MM)")
	cmd.Flags().IntVar(&history, "history", 0, "Show level change per attribute over the last N days")

	return cmd
}
