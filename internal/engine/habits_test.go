package engine

import (
	"context"
	"testing"
	"time"
)

func TestPercentChange(t *testing.T) {
	cases := []struct {
		current, previous float64
		negative          bool
		want              float64
	}{
		{20, 10, false, 100},
		{10, 20, false, -50},
		{5, 10, true, 50},
		{20, 10, true, -100},
		{15, 0, false, 100},
		{15, 0, true, -100},
		{0, 0, false, 0},
		{0, 0, true, 0},
		{10, 3, false, 233.3},
	}
	for _, tc := range cases {
		got := percentChange(tc.current, tc.previous, tc.negative)
		if got != tc.want {
			t.Fatalf("percentChange(%g, %g, %v)=%g, want %g", tc.current, tc.previous, tc.negative, got, tc.want)
		}
	}
}

func TestStartOfWeekIsMonday(t *testing.T) {
	cases := []struct {
		day  string
		want string
	}{
		{"2024-03-13", "2024-03-11"}, // Wednesday
		{"2024-03-11", "2024-03-11"}, // Monday maps to itself
		{"2024-03-10", "2024-03-04"}, // Sunday belongs to the prior Monday
	}
	for _, tc := range cases {
		d, err := time.Parse(dateLayout, tc.day)
		if err != nil {
			t.Fatalf("parse %s: %v", tc.day, err)
		}
		if got := startOfWeek(d).Format(dateLayout); got != tc.want {
			t.Fatalf("startOfWeek(%s)=%s, want %s", tc.day, got, tc.want)
		}
	}
}

func completeLogged(t *testing.T, svc *Service, userID int64, in AddTaskInput, logged float64) {
	t.Helper()
	ctx := context.Background()
	id, err := svc.AddTask(ctx, userID, in)
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if _, err := svc.CompleteTask(ctx, userID, id, &logged); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
}

func TestHabitProgressWeekWindows(t *testing.T) {
	svc, userID, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	unit := "pages"
	completeLogged(t, svc, userID, AddTaskInput{
		Description: "Reading",
		Date:        "2024-03-05",
		NumericUnit: &unit,
	}, 10)
	completeLogged(t, svc, userID, AddTaskInput{
		Description: "Reading",
		Date:        "2024-03-12",
		NumericUnit: &unit,
	}, 20)

	report, err := svc.HabitProgress(ctx, userID, "Reading")
	if err != nil {
		t.Fatalf("HabitProgress: %v", err)
	}
	if report.Unit != "pages" {
		t.Fatalf("unit=%q, want pages", report.Unit)
	}
	if report.IsNegative {
		t.Fatalf("unexpected negative habit")
	}
	if report.Week.Current.Total != 20 || report.Week.Previous.Total != 10 {
		t.Fatalf("week totals=%g/%g, want 20/10", report.Week.Current.Total, report.Week.Previous.Total)
	}
	if report.Week.TotalChange != 100 {
		t.Fatalf("week change=%g, want 100", report.Week.TotalChange)
	}
	// Both tasks fall in March; February logged nothing.
	if report.Month.Current.Total != 30 || report.Month.Previous.Total != 0 {
		t.Fatalf("month totals=%g/%g, want 30/0", report.Month.Current.Total, report.Month.Previous.Total)
	}
	if report.Month.TotalChange != 100 {
		t.Fatalf("month change=%g, want 100", report.Month.TotalChange)
	}
}

func TestHabitProgressFlipsNegativeHabit(t *testing.T) {
	svc, userID, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	completeLogged(t, svc, userID, AddTaskInput{
		Description:     "Smoking",
		Date:            "2024-03-05",
		IsNegativeHabit: true,
	}, 10)
	completeLogged(t, svc, userID, AddTaskInput{
		Description:     "Smoking",
		Date:            "2024-03-12",
		IsNegativeHabit: true,
	}, 5)

	report, err := svc.HabitProgress(ctx, userID, "Smoking")
	if err != nil {
		t.Fatalf("HabitProgress: %v", err)
	}
	if !report.IsNegative {
		t.Fatalf("expected negative habit shape")
	}
	// Halving a bad habit reads as +50% progress.
	if report.Week.TotalChange != 50 {
		t.Fatalf("week change=%g, want 50", report.Week.TotalChange)
	}
}

func TestNumericHabitsListing(t *testing.T) {
	svc, userID, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	unit := "minutes"
	if _, err := svc.AddTask(ctx, userID, AddTaskInput{Description: "Plank", NumericUnit: &unit}); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if _, err := svc.AddTask(ctx, userID, AddTaskInput{Description: "Plain task"}); err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	habits, err := svc.NumericHabits(ctx, userID)
	if err != nil {
		t.Fatalf("NumericHabits: %v", err)
	}
	if len(habits) != 1 || habits[0] != "Plank" {
		t.Fatalf("habits=%v, want [Plank]", habits)
	}
}
