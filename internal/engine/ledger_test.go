package engine

import (
	"context"
	"errors"
	"testing"
)

func TestResetDayReversesRewards(t *testing.T) {
	svc, userID, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	for _, desc := range []string{"Run", "Read"} {
		id, err := svc.AddTask(ctx, userID, AddTaskInput{
			Description: desc,
			Attribute:   "Constitution",
			ExplicitXP:  20,
		})
		if err != nil {
			t.Fatalf("AddTask: %v", err)
		}
		if _, err := svc.CompleteTask(ctx, userID, id, nil); err != nil {
			t.Fatalf("CompleteTask: %v", err)
		}
	}
	if attr := attributeByName(t, svc, userID, "Constitution"); attr.CurrentXP != 40 {
		t.Fatalf("attribute xp=%d, want 40", attr.CurrentXP)
	}

	reversed, err := svc.ResetDay(ctx, userID, "")
	if err != nil {
		t.Fatalf("ResetDay: %v", err)
	}
	if reversed != 2 {
		t.Fatalf("reversed=%d, want 2", reversed)
	}

	if attr := attributeByName(t, svc, userID, "Constitution"); attr.CurrentXP != 0 {
		t.Fatalf("attribute xp=%d, want 0 after reset", attr.CurrentXP)
	}
	tasks, err := svc.tasks.ListByDate(ctx, userID, testToday)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("tasks=%d, want 0 after reset", len(tasks))
	}
	if st := dailyStat(t, svc, userID, testToday); st != nil {
		t.Fatalf("daily stat=%+v, want deleted", st)
	}
}

func TestResetDaySparesOtherDays(t *testing.T) {
	svc, userID, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	id, err := svc.AddTask(ctx, userID, AddTaskInput{
		Description: "Yesterday's win",
		Date:        "2024-03-12",
		Attribute:   "Wisdom",
		ExplicitXP:  25,
	})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if _, err := svc.CompleteTask(ctx, userID, id, nil); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}

	// Resetting a different day leaves the task and its reward alone.
	if _, err := svc.ResetDay(ctx, userID, "2024-03-11"); err != nil {
		t.Fatalf("ResetDay: %v", err)
	}
	if attr := attributeByName(t, svc, userID, "Wisdom"); attr.CurrentXP != 25 {
		t.Fatalf("attribute xp=%d, want 25", attr.CurrentXP)
	}
	tasks, err := svc.tasks.ListByDate(ctx, userID, "2024-03-12")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("tasks=%d, want 1", len(tasks))
	}
}

func TestHeatmapValidatesMonth(t *testing.T) {
	svc, userID, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := svc.Heatmap(ctx, userID, 2024, 13); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("month 13 err=%v, want ErrInvalidInput", err)
	}

	id, err := svc.AddTask(ctx, userID, AddTaskInput{Description: "March task", ExplicitXP: 10})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if _, err := svc.CompleteTask(ctx, userID, id, nil); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}

	rows, err := svc.Heatmap(ctx, userID, 2024, 3)
	if err != nil {
		t.Fatalf("Heatmap: %v", err)
	}
	if len(rows) != 1 || rows[0].Date != testToday {
		t.Fatalf("heatmap=%+v, want one row for %s", rows, testToday)
	}
	rows, err = svc.Heatmap(ctx, userID, 2024, 4)
	if err != nil {
		t.Fatalf("Heatmap: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("april rows=%d, want 0", len(rows))
	}
}

func TestStatsCounters(t *testing.T) {
	svc, userID, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	done, err := svc.AddTask(ctx, userID, AddTaskInput{Description: "Done", Attribute: "Strength", ExplicitXP: 10})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if _, err := svc.CompleteTask(ctx, userID, done, nil); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}

	skipped, err := svc.AddTask(ctx, userID, AddTaskInput{Description: "Skipped"})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if err := svc.SkipTask(ctx, userID, skipped); err != nil {
		t.Fatalf("SkipTask: %v", err)
	}
	if _, err := svc.AddTask(ctx, userID, AddTaskInput{Description: "Pending"}); err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	stats, err := svc.Stats(ctx, userID)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	checks := map[string]int{
		"Total Tasks Completed": 1,
		"Tasks Skipped Today":   1,
		"Tasks Remaining Today": 1,
		"Total XP":              10,
		"Stress":                0,
	}
	for k, want := range checks {
		if stats[k] != want {
			t.Fatalf("%s=%d, want %d", k, stats[k], want)
		}
	}
}

func TestAttributeHistoryReplaysLevels(t *testing.T) {
	svc, userID, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	id, err := svc.AddTask(ctx, userID, AddTaskInput{
		Description: "Breakthrough",
		Date:        "2024-03-10",
		Attribute:   "Intelligence",
		ExplicitXP:  150,
	})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if _, err := svc.CompleteTask(ctx, userID, id, nil); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}

	hist, err := svc.AttributeHistory(ctx, userID, 7)
	if err != nil {
		t.Fatalf("AttributeHistory: %v", err)
	}
	levels := hist.Levels["Intelligence"]
	if len(levels) != len(hist.Dates) {
		t.Fatalf("series length mismatch")
	}
	if levels[0] != 1 {
		t.Fatalf("level before grant=%d, want 1", levels[0])
	}
	if levels[len(levels)-1] != 2 {
		t.Fatalf("level after grant=%d, want 2", levels[len(levels)-1])
	}
}
