package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Laz627/life-rpg/internal/engine"
	"github.com/Laz627/life-rpg/internal/storage"
)

type boardModel struct {
	ctx    context.Context
	svc    *engine.Service
	userID int64

	width  int
	height int

	attrs []engine.AttributeView
	tasks []storage.Task

	selected int

	// logging mode collects a numeric value before completing.
	logging  bool
	logInput string

	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	attrs []engine.AttributeView
	tasks []storage.Task
	err   error
}

type completedMsg struct {
	id  int64
	res *engine.CompleteResult
	err error
}

type skippedMsg struct {
	id  int64
	err error
}

func newBoardModel(ctx context.Context, svc *engine.Service, userID int64) boardModel {
	return boardModel{
		ctx:     ctx,
		svc:     svc,
		userID:  userID,
		loading: true,
		lastLog: "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		attrs, err := m.svc.AttributeOverview(m.ctx, m.userID)
		if err != nil {
			return loadedMsg{err: err}
		}
		tasks, err := m.svc.ListTasks(m.ctx, m.userID, "")
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{attrs: attrs, tasks: tasks}
	}
}

func (m boardModel) completeCmd(id int64, logged *float64) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.CompleteTask(m.ctx, m.userID, id, logged)
		return completedMsg{id: id, res: res, err: err}
	}
}

func (m boardModel) skipCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		err := m.svc.SkipTask(m.ctx, m.userID, id)
		return skippedMsg{id: id, err: err}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.attrs = msg.attrs
		m.tasks = msg.tasks
		if m.selected >= len(m.tasks) {
			m.selected = len(m.tasks) - 1
		}
		if m.selected < 0 {
			m.selected = 0
		}
		m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
		return m, nil
	case completedMsg:
		if msg.err != nil {
			m.lastLog = "Complete failed: " + msg.err.Error()
			return m, nil
		}
		if msg.res.WasSuccess {
			m.lastLog = fmt.Sprintf("Completed %d: +%d XP", msg.res.TaskID, msg.res.XPAwarded)
			if msg.res.LevelUp {
				m.lastLog += fmt.Sprintf(" (level %d → %d)", msg.res.LevelBefore, msg.res.LevelAfter)
			}
		} else {
			m.lastLog = fmt.Sprintf("Logged %d: goal not met.", msg.res.TaskID)
		}
		return m, m.loadCmd()
	case skippedMsg:
		if msg.err != nil {
			m.lastLog = "Skip failed: " + msg.err.Error()
			return m, nil
		}
		m.lastLog = fmt.Sprintf("Skipped %d.", msg.id)
		return m, m.loadCmd()
	case tea.KeyMsg:
		if m.logging {
			return m.updateLogging(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.lastLog = "Refreshing…"
			return m, m.loadCmd()
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < len(m.tasks)-1 {
				m.selected++
			}
			return m, nil
		case "s":
			t := m.selectedTask()
			if t == nil {
				return m, nil
			}
			if t.IsCompleted || t.IsSkipped {
				m.lastLog = "Already resolved."
				return m, nil
			}
			m.lastLog = fmt.Sprintf("Skipping %d…", t.ID)
			return m, m.skipCmd(t.ID)
		case "c", " ":
			t := m.selectedTask()
			if t == nil {
				return m, nil
			}
			if t.IsCompleted || t.IsSkipped {
				m.lastLog = "Already resolved."
				return m, nil
			}
			if t.NumericUnit != nil || t.IsNegativeHabit {
				m.logging = true
				m.logInput = ""
				unit := "value"
				if t.NumericUnit != nil {
					unit = *t.NumericUnit
				}
				m.lastLog = fmt.Sprintf("Log %s for %q, then enter:", unit, t.Description)
				return m, nil
			}
			m.lastLog = fmt.Sprintf("Completing %d…", t.ID)
			return m, m.completeCmd(t.ID, nil)
		}
	}
	return m, nil
}

// updateLogging handles the numeric entry mode for goal and habit tasks.
func (m boardModel) updateLogging(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.logging = false
		m.logInput = ""
		m.lastLog = "Cancelled."
		return m, nil
	case "backspace":
		if len(m.logInput) > 0 {
			m.logInput = m.logInput[:len(m.logInput)-1]
		}
		return m, nil
	case "enter":
		t := m.selectedTask()
		m.logging = false
		if t == nil {
			return m, nil
		}
		var logged *float64
		if m.logInput != "" {
			v, err := strconv.ParseFloat(m.logInput, 64)
			if err != nil {
				m.lastLog = "Not a number: " + m.logInput
				m.logInput = ""
				return m, nil
			}
			logged = &v
		}
		m.logInput = ""
		m.lastLog = fmt.Sprintf("Completing %d…", t.ID)
		return m, m.completeCmd(t.ID, logged)
	default:
		s := msg.String()
		if len(s) == 1 && (s[0] == '.' || (s[0] >= '0' && s[0] <= '9')) {
			m.logInput += s
		}
		return m, nil
	}
}

func (m boardModel) selectedTask() *storage.Task {
	if m.selected < 0 || m.selected >= len(m.tasks) {
		return nil
	}
	return &m.tasks[m.selected]
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}

	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderMain()
	footer := m.renderFooter()

	// Simple 2-column layout.
	leftW := 26
	if m.width > 0 {
		maxLeft := m.width / 2
		if maxLeft < leftW {
			leftW = maxLeft
		}
		if leftW < 18 {
			leftW = 18
		}
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	max := len(linesLeft)
	if len(linesRight) > max {
		max = len(linesRight)
	}

	var body strings.Builder
	for i := 0; i < max; i++ {
		l := ""
		r := ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return header + "\n" + body.String() + footer
}

func (m boardModel) renderHeader() string {
	total := 0
	for _, a := range m.attrs {
		total += a.Progress.XP
	}
	return fmt.Sprintf("Life RPG | Level %d | Total XP %d | %s",
		engine.LevelForXP(total), total, time.Now().Format("2006-01-02"))
}

func (m boardModel) renderSidebar() string {
	lines := []string{"Attributes"}
	if len(m.attrs) == 0 {
		lines = append(lines, "Loading…")
	}
	for _, a := range m.attrs {
		bar := progressBar(a.Progress.Gained, a.Progress.Needed, 14)
		lines = append(lines, fmt.Sprintf("- %s L%d %s", shortName(a.Name), a.Progress.Level, bar))
	}
	lines = append(lines, "")
	lines = append(lines, "Keys")
	lines = append(lines, "- ↑/↓ or j/k: move")
	lines = append(lines, "- c/space: complete")
	lines = append(lines, "- s: skip")
	lines = append(lines, "- r: refresh")
	lines = append(lines, "- q: quit")
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	if m.loading {
		return "Loading…"
	}
	var out []string
	out = append(out, "Today")
	if len(m.tasks) == 0 {
		out = append(out, "(no tasks)")
		return strings.Join(out, "\n")
	}
	for i, t := range m.tasks {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		marker := " "
		switch {
		case t.IsCompleted:
			marker = "x"
		case t.IsSkipped:
			marker = "-"
		}
		kind := ""
		if t.IsNegativeHabit {
			kind = "[NH] "
		} else if t.NumericUnit != nil {
			kind = "[#] "
		}
		extra := ""
		if t.XPGained > 0 {
			extra = fmt.Sprintf(" (xp=%d)", t.XPGained)
		}
		out = append(out, fmt.Sprintf("%s[%s] %d %s%s%s", cursor, marker, t.ID, kind, t.Description, extra))
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderFooter() string {
	if m.logging {
		return "\n" + m.lastLog + " " + m.logInput + "_"
	}
	return "\n" + m.lastLog
}

// shortName abbreviates catalog attribute names for the sidebar.
func shortName(name string) string {
	if len(name) <= 3 {
		return strings.ToUpper(name)
	}
	return strings.ToUpper(name[:3])
}

func progressBar(value int, total int, width int) string {
	if total <= 0 {
		total = 1
	}
	if width <= 3 {
		width = 3
	}
	if value < 0 {
		value = 0
	}
	if value > total {
		value = total
	}
	ratio := float64(value) / float64(total)
	filled := int(ratio * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}
