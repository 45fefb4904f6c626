package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"taskman/internal/config"
	"taskman/internal/exitcode"
	"taskman/internal/service"
	"taskman/internal/view"
)

// policyFor builds the controller policy from settings. The variant picks the
// preset; a positive min_title_length overrides its length rule.
func policyFor(cfg *config.Config) view.Policy {
	p := view.StrictPolicy()
	if cfg.Settings.Variant == config.VariantFast {
		p = view.FastPolicy()
	}
	if cfg.Settings.MinTitleLength > 0 {
		p.MinTitleLength = cfg.Settings.MinTitleLength
	}
	return p
}

// lookupTask finds a task in the loaded working set, falling back to a
// direct fetch for tasks beyond the list cap.
func lookupTask(ctx context.Context, svc service.Service, list *view.ListController, id int) (service.Task, error) {
	if task, ok := list.Find(id); ok {
		return task, nil
	}
	return svc.GetTask(ctx, id)
}

// exitCodeFor maps an error to an exit code.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, view.ErrTitleTooShort),
		errors.Is(err, view.ErrNoID),
		errors.Is(err, service.ErrInvalidID):
		return exitcode.UserError
	default:
		return exitcode.TransportError
	}
}

// reportFailure prints a controller failure and returns the exit code.
// A surfaced message (policy SurfaceErrors) is printed with the cause;
// otherwise the controller has already logged the diagnostic.
func reportFailure(errOut io.Writer, surfaced string, err error) int {
	if surfaced != "" {
		fmt.Fprintf(errOut, "error: %s: %v\n", surfaced, err)
	}
	return exitCodeFor(err)
}
