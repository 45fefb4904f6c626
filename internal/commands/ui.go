package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"taskman/internal/config"
	"taskman/internal/exitcode"
	"taskman/internal/service"
	"taskman/internal/tui"
	"taskman/internal/view"
)

func init() {
	Register(&UICmd{})
}

// UICmd starts the interactive terminal UI.
type UICmd struct {
	route string
}

// SetRoute sets the start screen (for testing).
func (c *UICmd) SetRoute(route string) {
	c.route = route
}

func (c *UICmd) Name() string       { return "ui" }
func (c *UICmd) Aliases() []string  { return []string{"tui"} }
func (c *UICmd) Synopsis() string   { return "Browse and edit tasks interactively" }
func (c *UICmd) Usage() string      { return "taskman ui [--route <path>]" }
func (c *UICmd) NeedsService() bool { return true }

func (c *UICmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.route, "route", "", "")
}

func (c *UICmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	start := view.ListRoute()
	if c.route != "" {
		r, err := view.ParseRoute(c.route)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		start = r
	}

	// The screen is owned by the program, so diagnostics go to a file.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if cfg.Debug {
		if err := cfg.EnsureDir(); err != nil {
			fmt.Fprintf(errOut, "error: %s\n", err)
			return exitcode.ConfigError
		}
		f, err := tea.LogToFile(filepath.Join(cfg.Dir, "debug.log"), "taskman")
		if err != nil {
			fmt.Fprintf(errOut, "error: %s\n", err)
			return exitcode.ConfigError
		}
		defer f.Close()
		logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	if err := tui.Run(ctx, svc, policyFor(cfg), start, logger); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
