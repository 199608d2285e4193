package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Laz627/life-rpg/internal/engine"
	"github.com/Laz627/life-rpg/internal/ui"
)

func newAddCmd() *cobra.Command {
	var (
		date       string
		attr       string
		subskill   string
		difficulty string
		xp         int
		stress     int
		negative   bool
		goal       float64
		unit       string
	)

	cmd := &cobra.Command{
		Use:   "add <description>",
		Short: "Add a task, numeric goal, or negative habit for a day",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("description is required")
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

			in := engine.AddTaskInput{
				Date:            date,
				Description:     args[0],
				Attribute:       attr,
				Subskill:        subskill,
				Difficulty:      difficulty,
				ExplicitXP:      xp,
				StressEffect:    stress,
				IsNegativeHabit: negative,
			}
			if cmd.Flags().Changed("goal") {
				in.NumericValue = &goal
			}
			if unit != "" {
				in.NumericUnit = &unit
			}

			id, err := svc.AddTask(ctx, user.ID, in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconPlus+" Added")+" "+ui.LabelValue("id", id))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Task date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVarP(&attr, "attr", "a", "", "Attribute to reward (Strength|Dexterity|Constitution|Intelligence|Wisdom|Charisma)")
	cmd.Flags().StringVar(&subskill, "subskill", "", "Subskill under the attribute")
	cmd.Flags().StringVarP(&difficulty, "diff", "d", "", "Difficulty (easy|medium|hard|extra_hard)")
	cmd.Flags().IntVar(&xp, "xp", 0, "Explicit XP reward (overrides difficulty)")
	cmd.Flags().IntVar(&stress, "stress", 0, "Stress effect when a negative habit occurs")
	cmd.Flags().BoolVar(&negative, "negative", false, "Track as a negative habit (success means avoiding it)")
	cmd.Flags().Float64Var(&goal, "goal", 0, "Numeric goal / ceiling value")
	cmd.Flags().StringVar(&unit, "unit", "", "Unit for the numeric value (pages, minutes, ...)")

	return cmd
}
