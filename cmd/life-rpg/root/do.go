package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Laz627/life-rpg/internal/ui"
)

func newDoCmd() *cobra.Command {
	var value float64

	cmd := &cobra.Command{
		Use:   "do <id>",
		Short: "Complete a task, optionally logging a numeric value",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("id is required")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return errors.New("id must be an integer")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, user, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id, _ := strconv.ParseInt(args[0], 10, 64)
			var logged *float64
			if cmd.Flags().Changed("value") {
				logged = &value
			}

			res, err := svc.CompleteTask(ctx, user.ID, id, logged)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if res.WasSuccess {
				fmt.Fprintln(out, ui.Good.Render(ui.IconDone+" Success!")+" "+ui.LabelValue("xp", res.XPAwarded))
				if res.LevelUp {
					fmt.Fprintf(out, "%s %s level %d → %d\n", ui.BadgeLevelUp, ui.IconTrophy, res.LevelBefore, res.LevelAfter)
				}
			} else {
				fmt.Fprintln(out, ui.Warn.Render(ui.IconWarn+" Logged, but the goal was not met. No XP this time."))
			}
			return nil
		},
	}

	cmd.Flags().Float64VarP(&value, "value", "v", 0, "Logged numeric value (pages read, occurrences, ...)")

	return cmd
}
