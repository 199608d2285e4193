package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Life RPG theme (CLI + TUI).
// Kept intentionally small: reusable styles and a few emojis.

const (
	IconSword   = "⚔️"
	IconSparkle = "✨"
	IconPlus    = "➕"
	IconDone    = "✅"
	IconSkip    = "⏭️"
	IconTrophy  = "🏆"
	IconBolt    = "⚡"
	IconShield  = "🛡️"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconLoop    = "🔁"
	IconScroll  = "📜"
	IconFire    = "🔥"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)
	Dim   = lipgloss.NewStyle().Foreground(cMuted)

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	PanelTitle  = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)

	BadgeLevelUp = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("LEVEL UP")
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// TaskStatus renders a task's lifecycle state.
func TaskStatus(completed, skipped bool) string {
	switch {
	case completed:
		return Good.Render("done")
	case skipped:
		return Muted.Render("skipped")
	default:
		return Warn.Render("pending")
	}
}

// KindIcon picks the marker for a task's variant.
func KindIcon(isNegative bool, isNumeric bool) string {
	if isNegative {
		return IconFire
	}
	if isNumeric {
		return IconLoop
	}
	return IconSword
}
