package engine

import "testing"

func TestXPForLevelBoundaries(t *testing.T) {
	if got := XPForLevel(0); got != 0 {
		t.Fatalf("XPForLevel(0)=%d, want 0", got)
	}
	if got := XPForLevel(1); got != 0 {
		t.Fatalf("XPForLevel(1)=%d, want 0", got)
	}
	if got := XPForLevel(2); got != 100 {
		t.Fatalf("XPForLevel(2)=%d, want 100", got)
	}
	for l := 2; l < 60; l++ {
		if XPForLevel(l+1) <= XPForLevel(l) {
			t.Fatalf("curve not strictly increasing at level %d", l)
		}
	}
}

func TestLevelForXPBoundaries(t *testing.T) {
	if got := LevelForXP(-5); got != 1 {
		t.Fatalf("LevelForXP(-5)=%d, want 1", got)
	}
	if got := LevelForXP(0); got != 1 {
		t.Fatalf("LevelForXP(0)=%d, want 1", got)
	}
	if got := LevelForXP(99); got != 1 {
		t.Fatalf("LevelForXP(99)=%d, want 1", got)
	}
	if got := LevelForXP(100); got != 2 {
		t.Fatalf("LevelForXP(100)=%d, want 2", got)
	}
	// Four medium tasks cross the first boundary exactly.
	if got := LevelForXP(4 * DefaultTaskXP); got != 2 {
		t.Fatalf("LevelForXP(100)=%d, want 2", got)
	}
}

// Both directions truncate, so the threshold XP itself may still report the
// previous level. The drift is bounded to a single level and one XP past the
// threshold always lands on the new level's side or above.
func TestCurveBoundaryDrift(t *testing.T) {
	for l := 2; l <= 40; l++ {
		at := LevelForXP(XPForLevel(l))
		if at != l && at != l-1 {
			t.Fatalf("LevelForXP(XPForLevel(%d))=%d, want %d or %d", l, at, l, l-1)
		}
		past := LevelForXP(XPForLevel(l) + 1)
		if past < at {
			t.Fatalf("LevelForXP decreasing at level %d threshold", l)
		}
	}
	for xp := 0; xp < 5000; xp += 7 {
		if LevelForXP(xp+7) < LevelForXP(xp) {
			t.Fatalf("LevelForXP not monotonic near xp=%d", xp)
		}
	}
}

func TestProgressForXP(t *testing.T) {
	p := ProgressForXP(150)
	if p.Level != 2 {
		t.Fatalf("level=%d, want 2", p.Level)
	}
	if p.Gained != 50 {
		t.Fatalf("gained=%d, want 50", p.Gained)
	}
	if p.Needed != XPForLevel(3)-XPForLevel(2) {
		t.Fatalf("needed=%d, want %d", p.Needed, XPForLevel(3)-XPForLevel(2))
	}
	if p.Percent <= 0 || p.Percent >= 100 {
		t.Fatalf("percent=%f, want in (0,100)", p.Percent)
	}
}
