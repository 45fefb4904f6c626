package view

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"taskman/internal/service"
)

// MaxListedTasks caps the working set kept after a load.
const MaxListedTasks = 20

// Messages stored in ListState.Error when the policy surfaces errors.
const (
	MsgLoadTasksFailed  = "failed to load tasks"
	MsgDeleteTaskFailed = "failed to delete task"
)

// ListState is a snapshot of the list screen.
type ListState struct {
	Tasks      []service.Task // working set, at most MaxListedTasks
	Filtered   []service.Task // Tasks matching SearchTerm, in order
	SearchTerm string
	Loading    bool
	Error      string
}

// ListController drives the task list screen: load, search and delete.
type ListController struct {
	notifier

	svc     service.Service
	policy  Policy
	confirm Confirmer
	log     *slog.Logger

	mu         sync.RWMutex
	tasks      []service.Task
	filtered   []service.Task
	searchTerm string
	loading    bool
	err        string
}

// NewListController creates a controller. confirm gates Delete; a nil logger discards diagnostics.
func NewListController(svc service.Service, policy Policy, confirm Confirmer, logger *slog.Logger) *ListController {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &ListController{
		svc:     svc,
		policy:  policy,
		confirm: confirm,
		log:     logger,
		loading: true,
	}
}

// State returns a copy of the current state.
func (c *ListController) State() ListState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return ListState{
		Tasks:      cloneTasks(c.tasks),
		Filtered:   cloneTasks(c.filtered),
		SearchTerm: c.searchTerm,
		Loading:    c.loading,
		Error:      c.err,
	}
}

// Load fetches the task list and keeps the first MaxListedTasks entries.
// On failure the working set is left as it was.
func (c *ListController) Load(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()
	c.notify()

	tasks, err := c.svc.ListTasks(ctx)

	c.mu.Lock()
	c.loading = false
	if err != nil {
		c.fail(MsgLoadTasksFailed, err)
	} else {
		if len(tasks) > MaxListedTasks {
			tasks = tasks[:MaxListedTasks]
		}
		c.tasks = cloneTasks(tasks)
		c.err = ""
		c.filterLocked()
	}
	c.mu.Unlock()
	c.notify()

	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	return nil
}

// SetSearchTerm stores the term and recomputes the filtered view.
func (c *ListController) SetSearchTerm(term string) {
	c.mu.Lock()
	c.searchTerm = term
	c.filterLocked()
	c.mu.Unlock()
	c.notify()
}

// Filter recomputes the filtered view from the working set. It never
// contacts the server.
func (c *ListController) Filter() {
	c.mu.Lock()
	c.filterLocked()
	c.mu.Unlock()
	c.notify()
}

func (c *ListController) filterLocked() {
	c.filtered = FilterTasks(c.tasks, c.searchTerm)
}

// FilterTasks returns, in order, the tasks whose title contains term
// case-insensitively. An empty term matches every task.
func FilterTasks(tasks []service.Task, term string) []service.Task {
	term = strings.ToLower(term)
	result := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), term) {
			result = append(result, t)
		}
	}
	return result
}

// Find returns the working-set task with the given id.
func (c *ListController) Find(id int) (service.Task, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, t := range c.tasks {
		if t.HasID() && *t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

// DeletePrompt is the confirmation question asked before deleting task.
func DeletePrompt(task service.Task) string {
	return fmt.Sprintf("Delete %q?", task.Title)
}

// Delete removes task after the Confirmer approves. It reports whether the
// task was deleted; a declined confirmation returns false and no error.
// The delete is never retried.
func (c *ListController) Delete(ctx context.Context, task service.Task) (bool, error) {
	if !task.HasID() {
		return false, ErrNoID
	}
	if c.confirm == nil || !c.confirm.Confirm(DeletePrompt(task)) {
		return false, nil
	}

	id := *task.ID
	err := c.svc.DeleteTask(ctx, id)

	c.mu.Lock()
	if err != nil {
		c.fail(MsgDeleteTaskFailed, err)
	} else {
		kept := make([]service.Task, 0, len(c.tasks))
		for _, t := range c.tasks {
			if t.IDValue() != id {
				kept = append(kept, t)
			}
		}
		c.tasks = kept
		c.err = ""
		c.filterLocked()
	}
	c.mu.Unlock()
	c.notify()

	if err != nil {
		return false, fmt.Errorf("delete task %d: %w", id, err)
	}
	return true, nil
}

// fail records err according to the policy. Callers hold c.mu.
func (c *ListController) fail(msg string, err error) {
	if c.policy.SurfaceErrors {
		c.err = msg
		c.log.Debug(msg, "error", err)
		return
	}
	c.log.Error(msg, "error", err)
}

func cloneTasks(tasks []service.Task) []service.Task {
	if tasks == nil {
		return nil
	}
	result := make([]service.Task, len(tasks))
	copy(result, tasks)
	return result
}
