package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"

	"taskman/internal/config"
	"taskman/internal/exitcode"
	"taskman/internal/service"
	"taskman/internal/view"
)

func init() {
	Register(&EditCmd{})
}

// optionalString is a string flag that remembers whether it was given.
type optionalString struct {
	set   bool
	value string
}

func (s *optionalString) String() string { return s.value }

func (s *optionalString) Set(v string) error {
	s.set, s.value = true, v
	return nil
}

// optionalBool is a bool flag that remembers whether it was given.
// "--completed" alone means true.
type optionalBool struct {
	set   bool
	value bool
}

func (b *optionalBool) String() string { return strconv.FormatBool(b.value) }

func (b *optionalBool) Set(v string) error {
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return err
	}
	b.set, b.value = true, parsed
	return nil
}

func (b *optionalBool) IsBoolFlag() bool { return true }

// EditCmd implements the edit command.
type EditCmd struct {
	title     optionalString
	completed optionalBool
}

// SetTitle sets the new title (for testing).
func (c *EditCmd) SetTitle(title string) {
	c.title = optionalString{set: true, value: title}
}

// SetCompleted sets the completed flag (for testing).
func (c *EditCmd) SetCompleted(done bool) {
	c.completed = optionalBool{set: true, value: done}
}

func (c *EditCmd) Name() string       { return "edit" }
func (c *EditCmd) Aliases() []string  { return []string{"update"} }
func (c *EditCmd) Synopsis() string   { return "Change a task's title or completion" }
func (c *EditCmd) Usage() string      { return "taskman edit [--title <title>] [--completed=<bool>] <id>" }
func (c *EditCmd) NeedsService() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.title = optionalString{}
	c.completed = optionalBool{}
	fs.Var(&c.title, "title", "")
	fs.Var(&c.completed, "completed", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if !c.title.set && !c.completed.set {
		fmt.Fprintln(errOut, "error: nothing to change (use --title or --completed)")
		return exitcode.UserError
	}

	return runEdit(ctx, cfg, svc, id, func(form *view.FormController) {
		if c.title.set {
			form.SetTitle(c.title.value)
		}
		if c.completed.set {
			form.SetCompleted(c.completed.value)
		}
	}, out, errOut)
}

// runEdit loads task id into an edit form, applies change and submits.
func runEdit(ctx context.Context, cfg *config.Config, svc service.Service, id int, change func(*view.FormController), out, errOut io.Writer) int {
	form := view.NewFormController(svc, policyFor(cfg), nil, cfg.NewLogger(errOut))
	if err := form.Init(ctx, view.EditRoute(id)); err != nil {
		return reportFailure(errOut, form.State().Error, err)
	}
	change(form)
	return submit(ctx, cfg, form, out, errOut)
}
