package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"booklog/internal/catalog"
)

// Run starts the calendar in the terminal and blocks until the user quits
// or ctx is cancelled. Catalog reloads are forwarded to the running
// program so the grid redraws with the new snapshot.
func Run(ctx context.Context, opts Options) error {
	if opts.Catalog == nil {
		return fmt.Errorf("tui: catalog is required")
	}

	m := NewModel(opts)
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)

	opts.Catalog.OnReload(func(s *catalog.Snapshot) {
		p.Send(CatalogReloadedMsg{Version: s.Version})
	})

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("running calendar: %w", err)
	}
	return nil
}
