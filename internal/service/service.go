// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for task backend operations.
// Every remote call goes through this interface; controllers and commands
// never build HTTP requests themselves.
type Service interface {
	// ListTasks returns the tasks of the base resource in API order.
	// No pagination parameters are sent.
	ListTasks(ctx context.Context) ([]Task, error)

	// GetTask returns a single task. id must be positive.
	GetTask(ctx context.Context, id int) (Task, error)

	// CreateTask stores a new task and returns the server representation,
	// which carries the newly assigned ID. task.ID is ignored.
	CreateTask(ctx context.Context, task Task) (Task, error)

	// UpdateTask replaces the task with the given id (full replace, not a merge).
	UpdateTask(ctx context.Context, id int, task Task) (Task, error)

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, id int) error
}
