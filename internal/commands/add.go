package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskman/internal/config"
	"taskman/internal/exitcode"
	"taskman/internal/service"
	"taskman/internal/view"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	completed bool
}

// SetCompleted sets the completed flag (for testing).
func (c *AddCmd) SetCompleted(done bool) {
	c.completed = done
}

func (c *AddCmd) Name() string       { return "add" }
func (c *AddCmd) Aliases() []string  { return []string{"create"} }
func (c *AddCmd) Synopsis() string   { return "Create a task" }
func (c *AddCmd) Usage() string      { return "taskman add [--completed] <title...>" }
func (c *AddCmd) NeedsService() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.completed, "completed", false, "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	// The title rule belongs to the policy; only a missing argument is a usage error.
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}
	title := strings.Join(args, " ")

	policy := policyFor(cfg)
	form := view.NewFormController(svc, policy, nil, cfg.NewLogger(errOut))
	if err := form.Init(ctx, view.NewRoute()); err != nil {
		return reportFailure(errOut, form.State().Error, err)
	}
	form.SetTitle(title)
	form.SetCompleted(c.completed)

	return submit(ctx, cfg, form, out, errOut)
}

// submit runs the form submission shared by add, edit and done.
func submit(ctx context.Context, cfg *config.Config, form *view.FormController, out, errOut io.Writer) int {
	if err := form.Submit(ctx); err != nil {
		if errors.Is(err, view.ErrTitleTooShort) {
			fmt.Fprintf(errOut, "error: title must be at least %d characters\n", form.Policy().MinTitleLength)
			return exitcode.UserError
		}
		return reportFailure(errOut, form.State().Error, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
