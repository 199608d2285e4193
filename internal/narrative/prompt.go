package narrative

import (
	"fmt"
	"strings"
)

// SystemMessage frames the generator as the saga's narrator.
const SystemMessage = "You are a master D&D dungeon master creating a continuous, evolving epic saga. " +
	"Each day should meaningfully advance the narrative with proper story structure. " +
	"Create memorable moments that build toward greater adventures. " +
	"Avoid repetition and ensure real progression through escalating challenges and character growth."

// State is the persisted story state fed back into each day's prompt.
type State struct {
	Location   string
	MainQuest  string
	Companions string
	Events     string
	StoryDay   int
	Yesterday  string // previous day's prose, empty on day one
}

// BuildPrompt assembles the daily generation prompt from the persisted state
// and the derived phase info for the current story day.
func BuildPrompt(st State) string {
	info := InfoForDay(st.StoryDay)

	var b strings.Builder
	b.WriteString("Write today's D&D adventure entry for an ongoing epic story.\n\n")
	fmt.Fprintf(&b, "STORY PROGRESSION:\n- Overall Day: %d\n- Chapter: %d\n- Day in Chapter: %d\n- Phase: %s\n- Power Level: %s\n\n",
		st.StoryDay, info.Chapter, info.DayInChapter, info.Phase, info.Complexity)
	fmt.Fprintf(&b, "Current Story State:\n- Location: %s\n- Main Quest: %s\n- Companions: %s\n- Recent Events: %s\n- Story Day: %d\n",
		st.Location, st.MainQuest, st.Companions, st.Events, st.StoryDay)
	if st.Yesterday != "" {
		fmt.Fprintf(&b, "Yesterday's Events: %s\n", st.Yesterday)
	}
	b.WriteString("\nWRITING GUIDELINES:\n")
	fmt.Fprintf(&b, "- %s\n- %s\n", info.Focus, info.Scope)
	b.WriteString("- Advance the story meaningfully - no repetition or circular events\n")
	b.WriteString("- Include specific details: names, places, discoveries, or encounters\n")
	b.WriteString("- Show character growth and escalating power/responsibility\n")
	b.WriteString("- Keep it engaging and around 120-150 words\n")
	b.WriteString("- End with a hook for tomorrow\n\n")
	fmt.Fprintf(&b, "SPECIAL INSTRUCTIONS:\n%s\n\n", specialInstructions(info.DayInChapter, info.Chapter))
	b.WriteString("At the end, update the story state in this format:\n")
	b.WriteString("[LOCATION: new location if changed]\n")
	b.WriteString("[QUEST: updated main quest if evolved]\n")
	b.WriteString("[COMPANIONS: current companions]\n")
	b.WriteString("[EVENTS: summary of today's key events]")
	return b.String()
}

// QuestPrompt asks the generator for a quest at a given difficulty focused
// on one attribute, in a Title/Description line format.
func QuestPrompt(attribute, difficulty string) string {
	return fmt.Sprintf("Create a self-improvement quest for %s at %s difficulty. Format:\nTitle: [quest title]\nDescription: [50 word description]",
		attribute, difficulty)
}

// QuestSystemMessage frames quest generation.
const QuestSystemMessage = "You are a quest master."

// EnhancePrompt rewrites a plain goal as a short fantasy quest description.
func EnhancePrompt(description string) string {
	return fmt.Sprintf("Transform this goal into an epic fantasy quest description (15-25 words):\n\nGoal: %q", description)
}

// EnhanceSystemMessage frames description enhancement.
const EnhanceSystemMessage = "You are a master storyteller."
