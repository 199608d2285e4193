package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Laz627/life-rpg/internal/ui"
)

func newStoryCmd() *cobra.Command {
	var (
		advance bool
		date    string
		history int
	)

	cmd := &cobra.Command{
		Use:   "story",
		Short: "Show story progress, or generate today's chapter entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, user, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()

			if history > 0 {
				entries, err := svc.ListNarratives(ctx, user.ID, history, 0)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, ui.Heading(ui.IconScroll, "Chronicle"))
				if len(entries) == 0 {
					fmt.Fprintln(out, ui.Muted.Render("(no entries yet)"))
					return nil
				}
				for _, e := range entries {
					fmt.Fprintln(out, ui.H2.Render(e.Date))
					fmt.Fprintln(out, e.Narrative)
					fmt.Fprintln(out, "")
				}
				return nil
			}

			if advance {
				res, err := svc.AdvanceNarrative(ctx, user.ID, date)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, ui.Heading(ui.IconScroll, fmt.Sprintf("Day %d — Chapter %d (%s)", res.StoryDay, res.Chapter, res.Phase)))
				fmt.Fprintln(out, res.Narrative)
				fmt.Fprintln(out, "")
				fmt.Fprintln(out, ui.LabelValue("Location", res.Location))
				fmt.Fprintln(out, ui.LabelValue("Quest", res.Quest))
				return nil
			}

			sp, err := svc.StoryProgress(ctx, user.ID)
			if err != nil {
				return err
			}
			info := sp.Info
			fmt.Fprintln(out, ui.Heading(ui.IconScroll, "Your Saga"))
			fmt.Fprintln(out, ui.LabelValue("Story day", fmt.Sprintf("%d (chapter %d, day %d, %s)", info.StoryDay, info.Chapter, info.DayInChapter, info.Phase)))
			fmt.Fprintln(out, ui.LabelValue("Power", fmt.Sprintf("%s — %s", info.Complexity, info.Scope)))
			fmt.Fprintln(out, ui.LabelValue("Location", sp.State.CurrentLocation))
			fmt.Fprintln(out, ui.LabelValue("Quest", sp.State.MainQuest))
			fmt.Fprintln(out, ui.LabelValue("Companions", sp.State.Companions))
			fmt.Fprintln(out, ui.LabelValue("Recent", sp.State.RecentEvents))

			prose, err := svc.Narrative(ctx, user.ID, date)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "")
			if prose == "" {
				fmt.Fprintln(out, ui.Muted.Render("No adventure recorded for this day yet..."))
			} else {
				fmt.Fprintln(out, prose)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&advance, "advance", false, "Generate the entry and advance the story day (needs GEMINI_API_KEY)")
	cmd.Flags().StringVar(&date, "date", "", "Calendar date for the entry (YYYY-MM-DD, defaults to today)")
	cmd.Flags().IntVar(&history, "history", 0, "Show the last N chronicle entries instead")

	return cmd
}
