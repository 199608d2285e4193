package engine

import "math"

// XPForLevel returns the accumulated XP threshold for a level:
// floor(100 * (level-1)^2.2), 0 for level <= 1. Strictly increasing from
// level 1. This is the authoritative direction for "XP required".
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return int(100 * math.Pow(float64(level-1), 2.2))
}

// LevelForXP returns floor(1 + (xp/100)^(1/2.2)), 1 for xp <= 0.
//
// The pair is not an exact inverse: both directions truncate, so at rare
// boundary values LevelForXP(XPForLevel(L)) can report L-1. Display-grade
// only; threshold checks go through XPForLevel.
func LevelForXP(xp int) int {
	if xp <= 0 {
		return 1
	}
	return int(1 + math.Pow(float64(xp)/100, 1/2.2))
}

// Progress describes where an XP total sits inside its current level.
type Progress struct {
	Level   int
	XP      int     // accumulated XP
	Gained  int     // XP into the current level
	Needed  int     // XP span of the current level
	Percent float64 // Gained/Needed*100, 100 when the span is empty
}

func ProgressForXP(xp int) Progress {
	level := LevelForXP(xp)
	base := XPForLevel(level)
	next := XPForLevel(level + 1)

	p := Progress{
		Level:  level,
		XP:     xp,
		Gained: xp - base,
		Needed: next - base,
	}
	if p.Needed > 0 {
		p.Percent = float64(p.Gained) / float64(p.Needed) * 100
	} else {
		p.Percent = 100
	}
	return p
}
