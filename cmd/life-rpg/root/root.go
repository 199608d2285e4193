package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Laz627/life-rpg/internal/ui"
)

const Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "life-rpg",
	Short:         "Life RPG: turn daily tasks into an RPG progression",
	Long:          "Life RPG is a local-first CLI/TUI that turns tasks, habits, and goals into XP, levels, and an ongoing story.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.AddCommand(
		newAddCmd(),
		newDoCmd(),
		newSkipCmd(),
		newRmCmd(),
		newListCmd(),
		newStatsCmd(),
		newHabitCmd(),
		newRecurringCmd(),
		newResetCmd(),
		newStoryCmd(),
		newQuestCmd(),
		newMilestonesCmd(),
		newBoardCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
