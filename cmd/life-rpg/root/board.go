package root

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Laz627/life-rpg/internal/tui"
)

func newBoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the TUI day board",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, user, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			return tui.RunBoard(ctx, svc, user.ID, cmd.OutOrStdout())
		},
	}

	return cmd
}
