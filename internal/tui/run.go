package tui

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"taskman/internal/service"
	"taskman/internal/view"
)

// Run starts the interactive program on the start screen and blocks until the
// user quits or ctx is cancelled.
func Run(ctx context.Context, svc service.Service, policy view.Policy, start view.Route, logger *slog.Logger) error {
	m := New(ctx, svc, policy, logger)
	m.start = start
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	m.send = p.Send

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
