package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Laz627/life-rpg/internal/engine"
)

func RunBoard(ctx context.Context, svc *engine.Service, userID int64, out io.Writer) error {
	m := newBoardModel(ctx, svc, userID)
	p := tea.NewProgram(m, tea.WithOutput(out))
	_, err := p.Run()
	return err
}
