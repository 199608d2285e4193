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

func newQuestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quest",
		Short: "Manage multi-day quests",
	}
	cmd.AddCommand(
		newQuestListCmd(),
		newQuestAddCmd(),
		newQuestEditCmd(),
		newQuestDoneCmd(),
		newQuestStepCmd(),
		newQuestGenCmd(),
		newQuestEnhanceCmd(),
	)
	return cmd
}

func newQuestListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List quests and their steps",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, user, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			quests, err := svc.ListQuests(ctx, user.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconSword, "Quests"))
			if len(quests) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(none)"))
				return nil
			}
			for _, qv := range quests {
				q := qv.Quest
				status := ui.Warn.Render(q.Status)
				if q.Status == "Completed" {
					status = ui.Good.Render(q.Status)
				}
				line := fmt.Sprintf("%d %s [%s] %s, %d xp", q.ID, ui.Key.Render(q.Title), status, q.Difficulty, q.XPReward)
				if q.AttributeFocus != "" {
					line += " → " + q.AttributeFocus
				}
				if q.DueDate != nil {
					line += ui.Muted.Render(" (due " + *q.DueDate + ")")
				}
				fmt.Fprintln(out, line)
				if q.Description != "" {
					fmt.Fprintln(out, "    "+ui.Muted.Render(q.Description))
				}
				for _, step := range qv.Steps {
					mark := " "
					if step.IsCompleted {
						mark = "x"
					}
					fmt.Fprintf(out, "    [%s] %d %s\n", mark, step.ID, step.Description)
				}
			}
			return nil
		},
	}
}

func newQuestAddCmd() *cobra.Command {
	var (
		description string
		difficulty  string
		xp          int
		attr        string
		due         string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a quest",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("title is required")
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

			in := engine.AddQuestInput{
				Title:          args[0],
				Description:    description,
				Difficulty:     difficulty,
				XPReward:       xp,
				AttributeFocus: attr,
			}
			if due != "" {
				in.DueDate = &due
			}

			id, err := svc.AddQuest(ctx, user.ID, in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconPlus+" Added")+" "+ui.LabelValue("id", id))
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "desc", "", "Quest description")
	cmd.Flags().StringVarP(&difficulty, "diff", "d", "", "Difficulty (Easy|Medium|Hard|Epic)")
	cmd.Flags().IntVar(&xp, "xp", 0, "XP reward (defaults by difficulty)")
	cmd.Flags().StringVarP(&attr, "attr", "a", "", "Attribute rewarded on completion")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")

	return cmd
}

func newQuestEditCmd() *cobra.Command {
	var (
		title       string
		description string
		difficulty  string
		attr        string
		due         string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a quest's fields",
		Args:  requireID,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, user, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			var in engine.UpdateQuestInput
			if cmd.Flags().Changed("title") {
				in.Title = &title
			}
			if cmd.Flags().Changed("desc") {
				in.Description = &description
			}
			if cmd.Flags().Changed("diff") {
				in.Difficulty = &difficulty
			}
			if cmd.Flags().Changed("attr") {
				in.AttributeFocus = &attr
			}
			if cmd.Flags().Changed("due") {
				in.DueDate = &due
			}

			id, _ := strconv.ParseInt(args[0], 10, 64)
			if err := svc.UpdateQuest(ctx, user.ID, id, in); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconDone+" Updated."))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "desc", "", "New description")
	cmd.Flags().StringVarP(&difficulty, "diff", "d", "", "New difficulty")
	cmd.Flags().StringVarP(&attr, "attr", "a", "", "New attribute focus")
	cmd.Flags().StringVar(&due, "due", "", "New due date (YYYY-MM-DD)")

	return cmd
}

func newQuestDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Complete a quest and claim its XP reward",
		Args:  requireID,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, user, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id, _ := strconv.ParseInt(args[0], 10, 64)
			if err := svc.CompleteQuest(ctx, user.ID, id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconTrophy+" Quest completed!"))
			return nil
		},
	}
}

func newQuestStepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "step",
		Short: "Manage quest steps",
	}

	add := &cobra.Command{
		Use:   "add <quest-id> <description>",
		Short: "Add a step to a quest",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("quest id and description are required")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return errors.New("quest id must be an integer")
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

			questID, _ := strconv.ParseInt(args[0], 10, 64)
			id, err := svc.AddQuestStep(ctx, user.ID, questID, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconPlus+" Added")+" "+ui.LabelValue("step", id))
			return nil
		},
	}

	toggle := &cobra.Command{
		Use:   "toggle <step-id>",
		Short: "Flip a step's completion",
		Args:  requireID,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, user, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id, _ := strconv.ParseInt(args[0], 10, 64)
			done, err := svc.ToggleQuestStep(ctx, user.ID, id)
			if err != nil {
				return err
			}
			if done {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconDone+" Step done."))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Step reopened."))
			}
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm <step-id>",
		Short: "Delete a step",
		Args:  requireID,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, user, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id, _ := strconv.ParseInt(args[0], 10, 64)
			if err := svc.DeleteQuestStep(ctx, user.ID, id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Deleted."))
			return nil
		},
	}

	cmd.AddCommand(add, toggle, rm)
	return cmd
}

func newQuestGenCmd() *cobra.Command {
	var (
		attr       string
		difficulty string
		accept     bool
	)

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a quest proposal (needs GEMINI_API_KEY)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, user, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			gq, err := svc.GenerateQuest(ctx, attr, difficulty)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, gq.Title))
			fmt.Fprintln(out, gq.Description)
			fmt.Fprintln(out, ui.LabelValue("Difficulty", gq.Difficulty))
			fmt.Fprintln(out, ui.LabelValue("Attribute", gq.AttributeFocus))
			fmt.Fprintln(out, ui.LabelValue("Reward", fmt.Sprintf("%d xp", gq.XPReward)))
			fmt.Fprintln(out, ui.LabelValue("Due", gq.DueDate))

			if !accept {
				fmt.Fprintln(out, ui.Muted.Render("Run again with --accept to save it."))
				return nil
			}
			due := gq.DueDate
			id, err := svc.AddQuest(ctx, user.ID, engine.AddQuestInput{
				Title:          gq.Title,
				Description:    gq.Description,
				Difficulty:     gq.Difficulty,
				XPReward:       gq.XPReward,
				AttributeFocus: gq.AttributeFocus,
				DueDate:        &due,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(out, ui.Good.Render(ui.IconPlus+" Saved")+" "+ui.LabelValue("id", id))
			return nil
		},
	}

	cmd.Flags().StringVarP(&attr, "attr", "a", "", "Attribute focus (random when empty)")
	cmd.Flags().StringVarP(&difficulty, "diff", "d", "", "Difficulty (Easy|Medium|Hard|Epic, random when empty)")
	cmd.Flags().BoolVar(&accept, "accept", false, "Save the generated quest")

	return cmd
}

func newQuestEnhanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enhance <description>",
		Short: "Rewrite a plain goal as a fantasy quest description (needs GEMINI_API_KEY)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("description is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, _, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			enhanced, err := svc.EnhanceQuestDescription(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), enhanced)
			return nil
		},
	}
}
