package root

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Laz627/life-rpg/internal/ui"
)

func newMilestonesCmd() *cobra.Command {
	var (
		page    int
		perPage int
		rmID    int64
	)

	cmd := &cobra.Command{
		Use:   "milestones [rm <id>]",
		Short: "Browse earned milestones",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, user, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if len(args) == 2 && args[0] == "rm" {
				id, err := strconv.ParseInt(args[1], 10, 64)
				if err != nil {
					return fmt.Errorf("id must be an integer")
				}
				rmID = id
			}
			if rmID > 0 {
				if err := svc.DeleteMilestone(ctx, user.ID, rmID); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Deleted."))
				return nil
			}

			mp, err := svc.ListMilestones(ctx, user.ID, page, perPage)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconTrophy, fmt.Sprintf("Milestones (page %d/%d, %d total)", mp.Page, mp.Pages, mp.Total)))
			if len(mp.Milestones) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(none yet)"))
				return nil
			}
			for _, m := range mp.Milestones {
				fmt.Fprintf(out, "%d %s %s %s\n", m.ID, ui.Muted.Render(m.Date), ui.Key.Render(m.Title), ui.Dim.Render("["+m.AchievementType+"]"))
				if m.Description != "" {
					fmt.Fprintln(out, "    "+ui.Muted.Render(m.Description))
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&perPage, "per-page", 5, "Milestones per page")

	return cmd
}
