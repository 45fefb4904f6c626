package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"taskman/internal/config"
	"taskman/internal/exitcode"
	"taskman/internal/service"
	"taskman/internal/view"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	yes bool
	in  io.Reader
}

// SetInput sets the reader answering the confirmation prompt (for testing).
func (c *RmCmd) SetInput(r io.Reader) {
	c.in = r
}

// SetYes skips the confirmation prompt (for testing).
func (c *RmCmd) SetYes(yes bool) {
	c.yes = yes
}

func (c *RmCmd) Name() string       { return "rm" }
func (c *RmCmd) Aliases() []string  { return []string{"delete"} }
func (c *RmCmd) Synopsis() string   { return "Delete a task after confirmation" }
func (c *RmCmd) Usage() string      { return "taskman rm [--yes] <id>" }
func (c *RmCmd) NeedsService() bool { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.yes, "yes", false, "")
	fs.BoolVar(&c.yes, "y", false, "")
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	list := view.NewListController(svc, policyFor(cfg), c.confirmer(errOut), cfg.NewLogger(errOut))
	if err := list.Load(ctx); err != nil {
		return reportFailure(errOut, list.State().Error, err)
	}

	task, err := lookupTask(ctx, svc, list, id)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitCodeFor(err)
	}

	deleted, err := list.Delete(ctx, task)
	if err != nil {
		return reportFailure(errOut, list.State().Error, err)
	}

	if !cfg.Quiet {
		if deleted {
			fmt.Fprintln(out, "ok")
		} else {
			fmt.Fprintln(out, "cancelled")
		}
	}
	return exitcode.Success
}

// confirmer prompts on errOut and reads a y/N answer.
func (c *RmCmd) confirmer(errOut io.Writer) view.Confirmer {
	if c.yes {
		return view.ConfirmFunc(func(string) bool { return true })
	}
	in := c.in
	if in == nil {
		in = os.Stdin
	}
	return view.ConfirmFunc(func(prompt string) bool {
		fmt.Fprintf(errOut, "%s [y/N] ", prompt)
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	})
}
