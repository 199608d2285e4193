package engine

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/Laz627/life-rpg/internal/storage"
)

// Stats derives the global aggregate map by scanning task and attribute
// rows. The DailyStat cache is never consulted here; it only serves
// calendar views and is allowed to drift on deletion.
func (s *Service) Stats(ctx context.Context, userID int64) (map[string]int, error) {
	out := map[string]int{}

	charStats, err := s.chars.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, cs := range charStats {
		out[cs.StatName] = cs.Value
	}

	today := s.today()
	counts := []struct {
		key string
		fn  func() (int, error)
	}{
		{"Total Tasks Completed", func() (int, error) { return s.tasks.CountCompleted(ctx, userID) }},
		{"Negative Habits Done", func() (int, error) { return s.tasks.CountNegativeHabit(ctx, userID, true) }},
		{"Negative Habits Avoided", func() (int, error) { return s.tasks.CountNegativeHabit(ctx, userID, false) }},
		{"Tasks Skipped Today", func() (int, error) { return s.tasks.CountSkippedOnDate(ctx, userID, today) }},
		{"Tasks Remaining Today", func() (int, error) { return s.tasks.CountPendingOnDate(ctx, userID, today) }},
		{"Total XP", func() (int, error) { return s.attrs.TotalXP(ctx, userID) }},
		{"Active Quests", func() (int, error) { return s.quests.CountByStatus(ctx, userID, "Active") }},
		{"Completed Quests", func() (int, error) { return s.quests.CountByStatus(ctx, userID, "Completed") }},
	}
	for _, c := range counts {
		n, err := c.fn()
		if err != nil {
			return nil, err
		}
		out[c.key] = n
	}
	return out, nil
}

// ResetDay wipes one calendar day: every completed non-negative-habit task's
// XP grant is reversed (floored at zero), then the day's tasks, DailyStat
// row, and cached narrative are deleted. All of it commits or none of it
// does. Returns the number of completed tasks whose rewards were reversed.
func (s *Service) ResetDay(ctx context.Context, userID int64, date string) (int, error) {
	if date == "" {
		date = s.today()
	}
	if err := validDate(date); err != nil {
		return 0, err
	}

	defer s.lockUser(userID)()

	reversed := 0
	err := storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		tasks := storage.NewTaskRepo(tx)
		attrs := storage.NewAttributeRepo(tx)
		stats := storage.NewStatRepo(tx)
		narr := storage.NewNarrativeRepo(tx)

		completed, err := tasks.ListCompletedRewarded(ctx, userID, date)
		if err != nil {
			return err
		}
		for _, t := range completed {
			if t.XPGained <= 0 {
				continue
			}
			if t.AttributeID != nil {
				if err := attrs.AddXP(ctx, *t.AttributeID, -t.XPGained); err != nil {
					return err
				}
			}
			if t.SubskillID != nil {
				if err := attrs.AddSubskillXP(ctx, *t.SubskillID, -t.XPGained); err != nil {
					return err
				}
			}
		}
		reversed = len(completed)

		if _, err := tasks.DeleteByDate(ctx, userID, date); err != nil {
			return err
		}
		if err := stats.Delete(ctx, userID, date); err != nil {
			return err
		}
		return narr.DeleteDaily(ctx, userID, date)
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("day reset",
		zap.Int64("user_id", userID),
		zap.String("date", date),
		zap.Int("reversed", reversed))
	return reversed, nil
}

// Heatmap returns the cached DailyStat rows for one calendar month.
func (s *Service) Heatmap(ctx context.Context, userID int64, year, month int) ([]storage.DailyStat, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month %d: %w", month, ErrInvalidInput)
	}
	start := fmt.Sprintf("%04d-%02d-01", year, month)
	endYear, endMonth := year, month+1
	if month == 12 {
		endYear, endMonth = year+1, 1
	}
	end := fmt.Sprintf("%04d-%02d-01", endYear, endMonth)
	return s.stats.ListRange(ctx, userID, start, end)
}

// AttributeHistory is a per-attribute level time series over the trailing
// window, replayed from completed task XP by date.
type AttributeHistory struct {
	Dates  []string
	Levels map[string][]int
}

func (s *Service) AttributeHistory(ctx context.Context, userID int64, days int) (*AttributeHistory, error) {
	if days <= 0 {
		days = 30
	}
	end := s.now().UTC()
	start := end.AddDate(0, 0, -days)

	dates := make([]string, 0, days+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(dateLayout))
	}

	attrs, err := s.attrs.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &AttributeHistory{Dates: dates, Levels: map[string][]int{}}
	for _, attr := range attrs {
		byDate, err := s.tasks.XPByDateForAttribute(ctx, userID, attr.ID, dates[0], dates[len(dates)-1])
		if err != nil {
			return nil, err
		}
		levels := make([]int, len(dates))
		running := 0
		for i, d := range dates {
			running += byDate[d]
			levels[i] = LevelForXP(running)
		}
		out.Levels[attr.Name] = levels
	}
	return out, nil
}

// AttributeView is an attribute with its level progress and subskills,
// shaped for display.
type AttributeView struct {
	ID        int64
	Name      string
	Progress  Progress
	Subskills []SubskillView
}

type SubskillView struct {
	ID       int64
	Name     string
	Progress Progress
}

func (s *Service) AttributeOverview(ctx context.Context, userID int64) ([]AttributeView, error) {
	attrs, err := s.attrs.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]AttributeView, 0, len(attrs))
	for _, attr := range attrs {
		view := AttributeView{
			ID:       attr.ID,
			Name:     attr.Name,
			Progress: ProgressForXP(attr.CurrentXP),
		}
		subs, err := s.attrs.ListSubskills(ctx, attr.ID)
		if err != nil {
			return nil, err
		}
		for _, sub := range subs {
			view.Subskills = append(view.Subskills, SubskillView{
				ID:       sub.ID,
				Name:     sub.Name,
				Progress: ProgressForXP(sub.CurrentXP),
			})
		}
		out = append(out, view)
	}
	return out, nil
}

// DailyStatFor reads the cached ledger row for one day, nil when no task
// has been completed on it.
func (s *Service) DailyStatFor(ctx context.Context, userID int64, date string) (*storage.DailyStat, error) {
	if date == "" {
		date = s.today()
	}
	if err := validDate(date); err != nil {
		return nil, err
	}
	return s.stats.Get(ctx, userID, date)
}
