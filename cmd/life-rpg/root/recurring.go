package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Laz627/life-rpg/internal/engine"
	"github.com/Laz627/life-rpg/internal/ui"
)

func newRecurringCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recurring",
		Short: "Manage recurring task templates",
	}
	cmd.AddCommand(
		newRecurringListCmd(),
		newRecurringAddCmd(),
		newRecurringToggleCmd(),
		newRecurringRmCmd(),
	)
	return cmd
}

func newRecurringListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recurring templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, user, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			templates, err := svc.ListRecurringTasks(ctx, user.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconLoop, "Recurring"))
			if len(templates) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(none)"))
				return nil
			}
			for _, rt := range templates {
				state := ui.Good.Render("active")
				if !rt.IsActive {
					state = ui.Muted.Render("paused")
				}
				line := fmt.Sprintf("%d %s [%s] since %s", rt.ID, rt.Description, state, rt.StartDate)
				if rt.IsNegativeHabit {
					line += " " + ui.Warn.Render("(negative habit)")
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

func newRecurringAddCmd() *cobra.Command {
	var (
		start      string
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
		Short: "Add a recurring template (materializes daily from its start date)",
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

			in := engine.AddRecurringInput{
				Description:     args[0],
				Attribute:       attr,
				Subskill:        subskill,
				Difficulty:      difficulty,
				ExplicitXP:      xp,
				StressEffect:    stress,
				IsNegativeHabit: negative,
				StartDate:       start,
			}
			if cmd.Flags().Changed("goal") {
				in.NumericValue = &goal
			}
			if unit != "" {
				in.NumericUnit = &unit
			}

			id, err := svc.AddRecurringTask(ctx, user.ID, in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconPlus+" Added")+" "+ui.LabelValue("id", id))
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "First date to materialize (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVarP(&attr, "attr", "a", "", "Attribute to reward")
	cmd.Flags().StringVar(&subskill, "subskill", "", "Subskill under the attribute")
	cmd.Flags().StringVarP(&difficulty, "diff", "d", "", "Difficulty (easy|medium|hard|extra_hard)")
	cmd.Flags().IntVar(&xp, "xp", 0, "Explicit XP reward (overrides difficulty)")
	cmd.Flags().IntVar(&stress, "stress", 0, "Stress effect when a negative habit occurs")
	cmd.Flags().BoolVar(&negative, "negative", false, "Track as a negative habit")
	cmd.Flags().Float64Var(&goal, "goal", 0, "Numeric goal / ceiling value")
	cmd.Flags().StringVar(&unit, "unit", "", "Unit for the numeric value")

	return cmd
}

func newRecurringToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Pause or resume a template",
		Args:  requireID,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, user, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id, _ := strconv.ParseInt(args[0], 10, 64)
			active, err := svc.ToggleRecurringTask(ctx, user.ID, id)
			if err != nil {
				return err
			}
			if active {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render("Resumed."))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Paused."))
			}
			return nil
		},
	}
}

func newRecurringRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a template (already materialized tasks are kept)",
		Args:  requireID,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, user, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id, _ := strconv.ParseInt(args[0], 10, 64)
			if err := svc.DeleteRecurringTask(ctx, user.ID, id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Deleted."))
			return nil
		},
	}
}

func requireID(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("id is required")
	}
	if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
		return errors.New("id must be an integer")
	}
	return nil
}
