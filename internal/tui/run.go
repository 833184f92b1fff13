package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
)

// Run starts the terminal workbench and blocks until the user quits or ctx
// is cancelled. The database opens in the background while the first frame
// draws.
func Run(ctx context.Context, cfg Config, opts ...tea.ProgramOption) error {
	m := New(cfg)
	defer m.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(m, opts...)

	eg, egctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		err := cfg.Engine.Open(egctx)
		p.Send(ConnectedMsg{Err: err})
		// An open failure is shown in the status line; the program keeps running.
		return nil
	})

	eg.Go(func() error {
		defer cancel()
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("terminal workbench failed: %w", err)
		}
		return nil
	})

	return eg.Wait()
}
