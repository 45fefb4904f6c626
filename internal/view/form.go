package view

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"taskman/internal/service"
)

// Messages stored in FormState.Error when the policy surfaces errors.
const (
	MsgLoadTaskFailed   = "failed to load task"
	MsgUpdateTaskFailed = "failed to update task"
	MsgCreateTaskFailed = "failed to create task"
)

// FormState is a snapshot of the create/edit screen.
type FormState struct {
	Task       service.Task
	IsEditMode bool
	TaskID     int // 0 in create mode
	Loading    bool
	Error      string
}

// FormController drives the create/edit form.
type FormController struct {
	notifier

	svc    service.Service
	policy Policy
	nav    Navigator
	log    *slog.Logger

	mu       sync.RWMutex
	task     service.Task
	editMode bool
	taskID   int
	loading  bool
	err      string
}

// NewFormController creates a controller in create mode with an empty task.
func NewFormController(svc service.Service, policy Policy, nav Navigator, logger *slog.Logger) *FormController {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &FormController{
		svc:    svc,
		policy: policy,
		nav:    nav,
		log:    logger,
		task:   service.Task{Title: "", Completed: false},
	}
}

// State returns a copy of the current state.
func (c *FormController) State() FormState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return FormState{
		Task:       c.task,
		IsEditMode: c.editMode,
		TaskID:     c.taskID,
		Loading:    c.loading,
		Error:      c.err,
	}
}

// Policy returns the policy the controller was built with.
func (c *FormController) Policy() Policy {
	return c.policy
}

// Init reads the identifier from route. With one, the form switches to edit
// mode and fetches the task; without, it stays in create mode.
func (c *FormController) Init(ctx context.Context, route Route) error {
	id, ok := route.TaskID()
	if !ok {
		return nil
	}

	c.mu.Lock()
	c.editMode = true
	c.taskID = id
	c.loading = true
	c.mu.Unlock()
	c.notify()

	task, err := c.svc.GetTask(ctx, id)

	c.mu.Lock()
	c.loading = false
	if err != nil {
		c.fail(MsgLoadTaskFailed, err)
	} else {
		c.task = task
		c.err = ""
	}
	c.mu.Unlock()
	c.notify()

	if err != nil {
		return fmt.Errorf("load task %d: %w", id, err)
	}
	return nil
}

// SetTitle edits the working copy. No request is made.
func (c *FormController) SetTitle(title string) {
	c.mu.Lock()
	c.task.Title = title
	c.mu.Unlock()
	c.notify()
}

// SetCompleted edits the working copy. No request is made.
func (c *FormController) SetCompleted(completed bool) {
	c.mu.Lock()
	c.task.Completed = completed
	c.mu.Unlock()
	c.notify()
}

// Valid reports whether the current title passes the policy's length rule.
func (c *FormController) Valid() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.policy.ValidTitle(c.task.Title)
}

// Submit updates (edit mode) or creates (create mode) the task and navigates
// to the list on success. On failure the form state is kept and no
// navigation happens.
func (c *FormController) Submit(ctx context.Context) error {
	c.mu.RLock()
	task := c.task
	editMode := c.editMode
	id := c.taskID
	c.mu.RUnlock()

	if !c.policy.ValidTitle(task.Title) {
		return ErrTitleTooShort
	}

	var err error
	var msg string
	if editMode && id > 0 {
		msg = MsgUpdateTaskFailed
		_, err = c.svc.UpdateTask(ctx, id, task)
	} else {
		msg = MsgCreateTaskFailed
		_, err = c.svc.CreateTask(ctx, task)
	}

	if err != nil {
		c.mu.Lock()
		c.fail(msg, err)
		c.mu.Unlock()
		c.notify()
		if editMode && id > 0 {
			return fmt.Errorf("update task %d: %w", id, err)
		}
		return fmt.Errorf("create task: %w", err)
	}

	c.mu.Lock()
	c.err = ""
	c.mu.Unlock()
	c.notify()

	c.navigate(ListRoute())
	return nil
}

// Cancel leaves the form without submitting.
func (c *FormController) Cancel() error {
	if !c.policy.EnableCancel {
		return ErrCancelDisabled
	}
	c.navigate(ListRoute())
	return nil
}

func (c *FormController) navigate(r Route) {
	if c.nav != nil {
		c.nav.Navigate(r)
	}
}

// fail records err according to the policy. Callers hold c.mu.
func (c *FormController) fail(msg string, err error) {
	if c.policy.SurfaceErrors {
		c.err = msg
		c.log.Debug(msg, "error", err)
		return
	}
	c.log.Error(msg, "error", err)
}
