package tui

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/notifier"
)

// RunOptions configures the TUI.
type RunOptions struct {
	Config *config.Config
	Logger *slog.Logger
}

// Run starts the playground and blocks until the user quits or ctx ends.
func Run(ctx context.Context, opts RunOptions) error {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	r := NewRenderer()
	n, err := notifier.New(r,
		notifier.WithConfig(cfg),
		notifier.WithLogger(opts.Logger),
	)
	if err != nil {
		return err
	}

	p := tea.NewProgram(New(n, r), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()

	n.Close()
	r.Stop()
	return err
}
