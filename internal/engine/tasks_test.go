package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/Laz627/life-rpg/internal/storage"
)

func TestCompleteStandardTaskGrantsXP(t *testing.T) {
	svc, userID, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	id, err := svc.AddTask(ctx, userID, AddTaskInput{
		Description: "Morning run",
		Attribute:   "Strength",
		Subskill:    "Athletics",
		ExplicitXP:  40,
	})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	res, err := svc.CompleteTask(ctx, userID, id, nil)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if !res.WasSuccess {
		t.Fatalf("expected success")
	}
	if res.XPAwarded != 40 {
		t.Fatalf("xp=%d, want 40", res.XPAwarded)
	}

	attr := attributeByName(t, svc, userID, "Strength")
	if attr.CurrentXP != 40 {
		t.Fatalf("attribute xp=%d, want 40", attr.CurrentXP)
	}
	sub, err := svc.attrs.GetSubskillByName(ctx, attr.ID, "Athletics")
	if err != nil || sub == nil {
		t.Fatalf("get subskill: %v %v", sub, err)
	}
	if sub.CurrentXP != 40 {
		t.Fatalf("subskill xp=%d, want 40", sub.CurrentXP)
	}

	st := dailyStat(t, svc, userID, testToday)
	if st == nil || st.TasksCompleted != 1 || st.TotalXPGained != 40 {
		t.Fatalf("daily stat=%+v, want 1 completed / 40 xp", st)
	}
}

func TestCompleteTwiceIsConflict(t *testing.T) {
	svc, userID, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	id, err := svc.AddTask(ctx, userID, AddTaskInput{Description: "Water plants"})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if _, err := svc.CompleteTask(ctx, userID, id, nil); err != nil {
		t.Fatalf("first complete: %v", err)
	}
	if _, err := svc.CompleteTask(ctx, userID, id, nil); !errors.Is(err, ErrConflict) {
		t.Fatalf("second complete err=%v, want ErrConflict", err)
	}

	st := dailyStat(t, svc, userID, testToday)
	if st.TasksCompleted != 1 {
		t.Fatalf("tasks completed=%d, want 1", st.TasksCompleted)
	}
}

func TestSkipThenCompleteIsConflict(t *testing.T) {
	svc, userID, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	id, err := svc.AddTask(ctx, userID, AddTaskInput{Description: "Stretch"})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if err := svc.SkipTask(ctx, userID, id); err != nil {
		t.Fatalf("SkipTask: %v", err)
	}
	if _, err := svc.CompleteTask(ctx, userID, id, nil); !errors.Is(err, ErrConflict) {
		t.Fatalf("complete after skip err=%v, want ErrConflict", err)
	}
	if err := svc.SkipTask(ctx, userID, id); !errors.Is(err, ErrConflict) {
		t.Fatalf("double skip err=%v, want ErrConflict", err)
	}
}

func TestNumericGoalRequiresLoggedValue(t *testing.T) {
	svc, userID, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	unit := "pages"
	id, err := svc.AddTask(ctx, userID, AddTaskInput{
		Description: "Read",
		Attribute:   "Intelligence",
		ExplicitXP:  30,
		NumericUnit: &unit,
	})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	res, err := svc.CompleteTask(ctx, userID, id, nil)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if res.WasSuccess {
		t.Fatalf("expected failure without a logged value")
	}
	if attr := attributeByName(t, svc, userID, "Intelligence"); attr.CurrentXP != 0 {
		t.Fatalf("attribute xp=%d, want 0", attr.CurrentXP)
	}

	id2, err := svc.AddTask(ctx, userID, AddTaskInput{
		Description: "Read more",
		Attribute:   "Intelligence",
		ExplicitXP:  30,
		NumericUnit: &unit,
	})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	res2, err := svc.CompleteTask(ctx, userID, id2, ptrF(12))
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if !res2.WasSuccess || res2.XPAwarded != 30 {
		t.Fatalf("res=%+v, want success with 30 xp", res2)
	}

	got, err := svc.tasks.Get(ctx, id2)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.LoggedNumericValue == nil || *got.LoggedNumericValue != 12 {
		t.Fatalf("logged=%v, want 12", got.LoggedNumericValue)
	}
}

func TestNegativeHabitCeilingBoundary(t *testing.T) {
	svc, userID, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	id, err := svc.AddTask(ctx, userID, AddTaskInput{
		Description:     "Cigarettes",
		IsNegativeHabit: true,
		NumericValue:    ptrF(2),
	})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	// At the ceiling counts as avoided.
	res, err := svc.CompleteTask(ctx, userID, id, ptrF(2))
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if !res.WasSuccess {
		t.Fatalf("logged == ceiling should succeed")
	}
	if res.XPAwarded != 0 {
		t.Fatalf("negative habit xp=%d, want 0", res.XPAwarded)
	}

	got, err := svc.tasks.Get(ctx, id)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.NegativeHabitDone == nil || *got.NegativeHabitDone {
		t.Fatalf("negative_habit_done=%v, want false", got.NegativeHabitDone)
	}
	if got.NumericUnit == nil || *got.NumericUnit != "occurrence" {
		t.Fatalf("unit=%v, want occurrence", got.NumericUnit)
	}

	st := dailyStat(t, svc, userID, testToday)
	if st.TasksCompleted != 1 || st.TotalXPGained != 0 {
		t.Fatalf("daily stat=%+v, want 1 completed / 0 xp", st)
	}
}

func TestFailedHabitStillCounted(t *testing.T) {
	svc, userID, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	id, err := svc.AddTask(ctx, userID, AddTaskInput{
		Description:     "Doomscrolling",
		IsNegativeHabit: true,
		StressEffect:    7,
	})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	res, err := svc.CompleteTask(ctx, userID, id, ptrF(3))
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if res.WasSuccess {
		t.Fatalf("logging above the ceiling should fail")
	}

	got, err := svc.tasks.Get(ctx, id)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.NegativeHabitDone == nil || !*got.NegativeHabitDone {
		t.Fatalf("negative_habit_done=%v, want true", got.NegativeHabitDone)
	}

	stress, err := svc.chars.Get(ctx, userID, storage.StressStat)
	if err != nil {
		t.Fatalf("get stress: %v", err)
	}
	if stress.Value != 7 {
		t.Fatalf("stress=%d, want 7", stress.Value)
	}

	// The failed completion still counts toward the day's tally.
	st := dailyStat(t, svc, userID, testToday)
	if st == nil || st.TasksCompleted != 1 || st.TotalXPGained != 0 {
		t.Fatalf("daily stat=%+v, want 1 completed / 0 xp", st)
	}
}

func TestAvoidedHabitRelievesStress(t *testing.T) {
	svc, userID, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	fail, err := svc.AddTask(ctx, userID, AddTaskInput{
		Description:     "Late snacks",
		IsNegativeHabit: true,
		StressEffect:    -8,
	})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	// Stress effects apply as magnitude regardless of sign.
	if _, err := svc.CompleteTask(ctx, userID, fail, ptrF(1)); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}

	avoid, err := svc.AddTask(ctx, userID, AddTaskInput{
		Description:     "Late snacks again",
		IsNegativeHabit: true,
	})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if _, err := svc.CompleteTask(ctx, userID, avoid, ptrF(0)); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}

	stress, err := svc.chars.Get(ctx, userID, storage.StressStat)
	if err != nil {
		t.Fatalf("get stress: %v", err)
	}
	if stress.Value != 3 {
		t.Fatalf("stress=%d, want 3 (8 up, 5 relief)", stress.Value)
	}
}

func TestLevelUpRecordsMilestone(t *testing.T) {
	svc, userID, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	id, err := svc.AddTask(ctx, userID, AddTaskInput{
		Description: "Finish the course",
		Attribute:   "Wisdom",
		ExplicitXP:  120,
	})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	res, err := svc.CompleteTask(ctx, userID, id, nil)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if !res.LevelUp || res.LevelBefore != 1 || res.LevelAfter != 2 {
		t.Fatalf("res=%+v, want level 1 → 2", res)
	}

	page, err := svc.ListMilestones(ctx, userID, 1, 10)
	if err != nil {
		t.Fatalf("ListMilestones: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("milestones=%d, want 1", page.Total)
	}
	if page.Milestones[0].AchievementType != "level_up" {
		t.Fatalf("type=%q, want level_up", page.Milestones[0].AchievementType)
	}
}

func TestDifficultyAndDefaultXP(t *testing.T) {
	svc, userID, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	cases := []struct {
		difficulty string
		want       int
	}{
		{"easy", 10},
		{"medium", 25},
		{"hard", 50},
		{"extra_hard", 100},
		{"", DefaultTaskXP},
		{"nonsense", DefaultTaskXP},
	}
	for _, tc := range cases {
		id, err := svc.AddTask(ctx, userID, AddTaskInput{
			Description: "t " + tc.difficulty,
			Difficulty:  tc.difficulty,
		})
		if err != nil {
			t.Fatalf("AddTask(%q): %v", tc.difficulty, err)
		}
		got, err := svc.tasks.Get(ctx, id)
		if err != nil {
			t.Fatalf("get task: %v", err)
		}
		if got.XPGained != tc.want {
			t.Fatalf("difficulty %q xp=%d, want %d", tc.difficulty, got.XPGained, tc.want)
		}
	}
}

func TestDeleteReversesXP(t *testing.T) {
	svc, userID, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	id, err := svc.AddTask(ctx, userID, AddTaskInput{
		Description: "Lift",
		Attribute:   "Strength",
		ExplicitXP:  30,
	})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if _, err := svc.CompleteTask(ctx, userID, id, nil); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if err := svc.DeleteTask(ctx, userID, id); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}

	if attr := attributeByName(t, svc, userID, "Strength"); attr.CurrentXP != 0 {
		t.Fatalf("attribute xp=%d, want 0 after delete", attr.CurrentXP)
	}
	got, err := svc.tasks.Get(ctx, id)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got != nil {
		t.Fatalf("task still present after delete")
	}
}

// Deletion reverses attribute XP but leaves the day's ledger row alone: the
// cached count records "ever completed", not "currently present".
func TestDeleteDoesNotTouchDailyStat(t *testing.T) {
	svc, userID, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	id, err := svc.AddTask(ctx, userID, AddTaskInput{
		Description: "Lift",
		Attribute:   "Strength",
		ExplicitXP:  30,
	})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if _, err := svc.CompleteTask(ctx, userID, id, nil); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if err := svc.DeleteTask(ctx, userID, id); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}

	st := dailyStat(t, svc, userID, testToday)
	if st == nil || st.TasksCompleted != 1 || st.TotalXPGained != 30 {
		t.Fatalf("daily stat=%+v, want untouched 1 completed / 30 xp", st)
	}
}

func TestDeleteFloorsAtZero(t *testing.T) {
	svc, userID, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	id, err := svc.AddTask(ctx, userID, AddTaskInput{
		Description: "Big win",
		Attribute:   "Charisma",
		ExplicitXP:  50,
	})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if _, err := svc.CompleteTask(ctx, userID, id, nil); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}

	// Drain the attribute below the grant before deleting.
	attr := attributeByName(t, svc, userID, "Charisma")
	if err := svc.attrs.AddXP(ctx, attr.ID, -45); err != nil {
		t.Fatalf("drain xp: %v", err)
	}
	if err := svc.DeleteTask(ctx, userID, id); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if attr := attributeByName(t, svc, userID, "Charisma"); attr.CurrentXP != 0 {
		t.Fatalf("attribute xp=%d, want floor 0", attr.CurrentXP)
	}
}

func TestOwnershipHidesForeignTasks(t *testing.T) {
	svc, userID, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	otherID, err := svc.InitUser(ctx, "other", "other@example.com")
	if err != nil {
		t.Fatalf("init other: %v", err)
	}
	id, err := svc.AddTask(ctx, otherID, AddTaskInput{Description: "Their task"})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	if _, err := svc.CompleteTask(ctx, userID, id, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign complete err=%v, want ErrNotFound", err)
	}
	if err := svc.DeleteTask(ctx, userID, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign delete err=%v, want ErrNotFound", err)
	}
}

func TestAddTaskValidation(t *testing.T) {
	svc, userID, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := svc.AddTask(ctx, userID, AddTaskInput{Description: "   "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank description err=%v, want ErrInvalidInput", err)
	}
	if _, err := svc.AddTask(ctx, userID, AddTaskInput{Description: "x", Date: "13-03-2024"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad date err=%v, want ErrInvalidInput", err)
	}
}
