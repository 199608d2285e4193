package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Laz627/life-rpg/internal/ui"
)

func newResetCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Wipe a day: reverse its XP grants and delete its tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, user, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			reversed, err := svc.ResetDay(ctx, user.ID, date)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s reversed %d completed task(s)\n", ui.Warn.Render(ui.IconWarn+" Day reset:"), reversed)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to reset (YYYY-MM-DD, defaults to today)")

	return cmd
}
