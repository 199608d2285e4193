// Package narrative drives the story-progression state machine and the
// external text-generation collaborator. The structured state (story day,
// chapter, phase, power tier) is deterministic; the prose around it is
// externally produced and opaque except for four bracketed update tags.
package narrative

import "fmt"

// Phase is a fixed slice of a 50-day chapter arc.
type Phase string

const (
	PhaseOpening        Phase = "Opening"
	PhaseRisingAction   Phase = "Rising Action"
	PhaseClimaxBuilding Phase = "Climax Building"
	PhaseClimax         Phase = "Climax"
	PhaseResolution     Phase = "Resolution"
)

// DaysPerChapter is the length of one story arc.
const DaysPerChapter = 50

// StoryInfo is the derived (never stored) view of a story day.
type StoryInfo struct {
	StoryDay     int
	Chapter      int
	DayInChapter int
	Phase        Phase
	Focus        string
	Complexity   string
	Scope        string
}

// InfoForDay derives chapter, phase, and power tier for an absolute story
// day. Days count from 1.
func InfoForDay(storyDay int) StoryInfo {
	info := StoryInfo{
		StoryDay:     storyDay,
		Chapter:      (storyDay-1)/DaysPerChapter + 1,
		DayInChapter: (storyDay-1)%DaysPerChapter + 1,
	}

	switch {
	case info.DayInChapter <= 10:
		info.Phase = PhaseOpening
		if info.Chapter > 1 {
			info.Focus = fmt.Sprintf("Chapter %d begins! New lands, new challenges.", info.Chapter)
		} else {
			info.Focus = "Begin your legendary journey."
		}
	case info.DayInChapter <= 25:
		info.Phase = PhaseRisingAction
		info.Focus = "Develop the main plot, introduce allies, enemies, and mysteries."
	case info.DayInChapter <= 40:
		info.Phase = PhaseClimaxBuilding
		info.Focus = "Major conflicts intensify, prepare for the climax."
	case info.DayInChapter <= 45:
		info.Phase = PhaseClimax
		info.Focus = "The chapter's main conflict reaches its peak!"
	default:
		info.Phase = PhaseResolution
		info.Focus = "Conclude the arc, celebrate victories, and set up the next adventure."
	}

	switch {
	case storyDay <= 50:
		info.Complexity = "Local Hero"
		info.Scope = "Focus on personal growth and local threats."
	case storyDay <= 100:
		info.Complexity = "Regional Champion"
		info.Scope = "Expand to affect kingdoms, face greater magical threats."
	case storyDay <= 200:
		info.Complexity = "Continental Legend"
		info.Scope = "Multi-kingdom politics, ancient evils."
	default:
		info.Complexity = "Mythic Figure"
		info.Scope = "Godlike powers, planar threats."
	}
	return info
}

// specialInstructions returns extra prompt guidance for chapter boundaries
// and the climax run-up.
func specialInstructions(dayInChapter, chapter int) string {
	switch {
	case dayInChapter == 1 && chapter > 1:
		return fmt.Sprintf("CHAPTER %d OPENING: Introduce new setting, escalated threats.", chapter)
	case dayInChapter == DaysPerChapter:
		return "CHAPTER FINALE: Provide satisfying conclusion to this chapter's main arc."
	case dayInChapter >= 45 && dayInChapter <= 49:
		return "CLIMAX SEQUENCE: This is peak drama! Make it epic."
	default:
		return "Continue the natural story progression."
	}
}
