package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestAdvanceNarrativeUpdatesState(t *testing.T) {
	svc, userID, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	gen := &stubGenerator{text: "The road bent north toward the mountains.\n" +
		"[LOCATION: Ironhold Keep]\n" +
		"[EVENTS: Fought off wolves at dusk]"}
	svc.SetGenerator(gen, time.Second)

	res, err := svc.AdvanceNarrative(ctx, userID, "")
	if err != nil {
		t.Fatalf("AdvanceNarrative: %v", err)
	}
	if res.StoryDay != 1 {
		t.Fatalf("result story day=%d, want 1 (the day just narrated)", res.StoryDay)
	}
	if res.Chapter != 1 || res.Phase != "Opening" {
		t.Fatalf("chapter/phase=%d/%s, want 1/Opening", res.Chapter, res.Phase)
	}
	if strings.Contains(res.Narrative, "[LOCATION") || strings.Contains(res.Narrative, "[EVENTS") {
		t.Fatalf("tags leaked into prose: %q", res.Narrative)
	}

	progress, err := svc.narr.GetProgress(ctx, userID)
	if err != nil {
		t.Fatalf("get progress: %v", err)
	}
	if progress.StoryDay != 2 {
		t.Fatalf("story day=%d, want 2", progress.StoryDay)
	}
	if progress.CurrentLocation != "Ironhold Keep" {
		t.Fatalf("location=%q, want Ironhold Keep", progress.CurrentLocation)
	}
	if progress.RecentEvents != "Fought off wolves at dusk" {
		t.Fatalf("events=%q", progress.RecentEvents)
	}
	// Absent tags keep the seeded values.
	if progress.Companions != "None yet" {
		t.Fatalf("companions=%q, want untouched default", progress.Companions)
	}

	prose, err := svc.Narrative(ctx, userID, testToday)
	if err != nil {
		t.Fatalf("Narrative: %v", err)
	}
	if prose != res.Narrative {
		t.Fatalf("cached prose=%q, want %q", prose, res.Narrative)
	}
}

func TestAdvanceNarrativeFailureKeepsState(t *testing.T) {
	svc, userID, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	gen := &stubGenerator{err: fmt.Errorf("model unavailable")}
	svc.SetGenerator(gen, time.Second)

	if _, err := svc.AdvanceNarrative(ctx, userID, ""); !errors.Is(err, ErrUpstream) {
		t.Fatalf("err=%v, want ErrUpstream", err)
	}

	progress, err := svc.narr.GetProgress(ctx, userID)
	if err != nil {
		t.Fatalf("get progress: %v", err)
	}
	if progress.StoryDay != 1 {
		t.Fatalf("story day=%d, want unmoved 1", progress.StoryDay)
	}
	prose, err := svc.Narrative(ctx, userID, testToday)
	if err != nil {
		t.Fatalf("Narrative: %v", err)
	}
	if prose != "" {
		t.Fatalf("prose=%q, want none cached", prose)
	}
}

func TestAdvanceNarrativeWithoutGenerator(t *testing.T) {
	svc, userID, cleanup := newTestService(t)
	defer cleanup()

	if _, err := svc.AdvanceNarrative(context.Background(), userID, ""); !errors.Is(err, ErrUpstream) {
		t.Fatalf("err=%v, want ErrUpstream", err)
	}
}

func TestAdvanceNarrativeFeedsYesterday(t *testing.T) {
	svc, userID, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	gen := &stubGenerator{text: "Day one prose."}
	svc.SetGenerator(gen, time.Second)

	if _, err := svc.AdvanceNarrative(ctx, userID, "2024-03-12"); err != nil {
		t.Fatalf("first advance: %v", err)
	}
	if _, err := svc.AdvanceNarrative(ctx, userID, "2024-03-13"); err != nil {
		t.Fatalf("second advance: %v", err)
	}
	if gen.calls != 2 {
		t.Fatalf("calls=%d, want 2", gen.calls)
	}
	if !strings.Contains(gen.prompts[1], "Yesterday's Events: Day one prose.") {
		t.Fatalf("second prompt missing yesterday's prose")
	}
	if !strings.Contains(gen.prompts[1], "Overall Day: 2") {
		t.Fatalf("second prompt should be for story day 2")
	}
}

func TestStoryProgressDerivesChapter(t *testing.T) {
	svc, userID, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	progress, err := svc.narr.GetProgress(ctx, userID)
	if err != nil {
		t.Fatalf("get progress: %v", err)
	}
	progress.StoryDay = 51
	if err := svc.narr.UpdateProgress(ctx, progress); err != nil {
		t.Fatalf("update progress: %v", err)
	}

	sp, err := svc.StoryProgress(ctx, userID)
	if err != nil {
		t.Fatalf("StoryProgress: %v", err)
	}
	if sp.Info.Chapter != 2 || sp.Info.DayInChapter != 1 {
		t.Fatalf("chapter/day=%d/%d, want 2/1", sp.Info.Chapter, sp.Info.DayInChapter)
	}
	if sp.Info.Phase != "Opening" {
		t.Fatalf("phase=%s, want Opening", sp.Info.Phase)
	}
	// Day 51 crosses into the second power tier.
	if sp.Info.Complexity != "Regional Champion" {
		t.Fatalf("complexity=%q, want Regional Champion", sp.Info.Complexity)
	}
}
