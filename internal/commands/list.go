package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskman/internal/config"
	"taskman/internal/exitcode"
	"taskman/internal/output"
	"taskman/internal/service"
	"taskman/internal/view"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `taskman` (no args) and `taskman list --search <term>`.
type ListCmd struct {
	search string
}

// SetSearch sets the search term (for testing).
func (c *ListCmd) SetSearch(term string) {
	c.search = term
}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "List tasks (first 20), optionally filtered" }
func (c *ListCmd) Usage() string      { return "taskman list [--search <term>]" }
func (c *ListCmd) NeedsService() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.search, "search", "", "")
	fs.StringVar(&c.search, "s", "", "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	list := view.NewListController(svc, policyFor(cfg), nil, cfg.NewLogger(errOut))
	if err := list.Load(ctx); err != nil {
		return reportFailure(errOut, list.State().Error, err)
	}
	if c.search != "" {
		list.SetSearchTerm(c.search)
	}

	tasks := list.State().Filtered
	for _, task := range tasks {
		output.FormatTask(out, task)
	}

	if len(tasks) == 0 && !cfg.Quiet {
		fmt.Fprintln(out, "no tasks found")
	}
	return exitcode.Success
}
