package engine

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Laz627/life-rpg/internal/storage"
)

// testNow pins the clock so date math is deterministic. A Wednesday.
var testNow = time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)

const testToday = "2024-03-13"

func newTestService(t *testing.T) (*Service, int64, func()) {
	t.Helper()
	ctx := context.Background()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	db, err := storage.Open(ctx, path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	svc := NewService(db, nil)
	svc.now = func() time.Time { return testNow }

	userID, err := svc.InitUser(ctx, "tester", "tester@example.com")
	if err != nil {
		t.Fatalf("init user: %v", err)
	}

	cleanup := func() {
		_ = db.Close()
	}
	return svc, userID, cleanup
}

func attributeByName(t *testing.T, svc *Service, userID int64, name string) *storage.Attribute {
	t.Helper()
	attr, err := svc.attrs.GetByName(context.Background(), userID, name)
	if err != nil {
		t.Fatalf("get attribute %s: %v", name, err)
	}
	if attr == nil {
		t.Fatalf("attribute %s missing", name)
	}
	return attr
}

func dailyStat(t *testing.T, svc *Service, userID int64, date string) *storage.DailyStat {
	t.Helper()
	st, err := svc.stats.Get(context.Background(), userID, date)
	if err != nil {
		t.Fatalf("get daily stat: %v", err)
	}
	return st
}

func ptrF(v float64) *float64 { return &v }

func TestInitUserSeedsCatalog(t *testing.T) {
	svc, userID, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	attrs, err := svc.attrs.ListByUser(ctx, userID)
	if err != nil {
		t.Fatalf("list attributes: %v", err)
	}
	if len(attrs) != 6 {
		t.Fatalf("attributes=%d, want 6", len(attrs))
	}
	for _, a := range attrs {
		subs, err := svc.attrs.ListSubskills(ctx, a.ID)
		if err != nil {
			t.Fatalf("list subskills: %v", err)
		}
		if len(subs) != 5 {
			t.Fatalf("%s subskills=%d, want 5", a.Name, len(subs))
		}
		if a.CurrentXP != 0 {
			t.Fatalf("%s xp=%d, want 0", a.Name, a.CurrentXP)
		}
	}

	stress, err := svc.chars.Get(ctx, userID, storage.StressStat)
	if err != nil {
		t.Fatalf("get stress: %v", err)
	}
	if stress == nil || stress.Value != 0 {
		t.Fatalf("stress stat=%v, want 0", stress)
	}

	progress, err := svc.narr.GetProgress(ctx, userID)
	if err != nil {
		t.Fatalf("get progress: %v", err)
	}
	if progress == nil || progress.StoryDay != 1 {
		t.Fatalf("story day=%v, want 1", progress)
	}
}
