// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"sync"

	"taskman/internal/service"
)

// ErrNotFound is returned when a task does not exist.
var ErrNotFound = errors.New("not found")

// Call records one invocation of a FakeService method.
type Call struct {
	Method string // "ListTasks", "GetTask", "CreateTask", "UpdateTask", "DeleteTask"
	ID     int    // 0 for ListTasks and CreateTask
	Task   service.Task
}

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu     sync.RWMutex
	tasks  []service.Task
	nextID int
	calls  []Call

	// Error injection for testing
	ListTasksErr  error
	GetTaskErr    error
	CreateTaskErr error
	UpdateTaskErr error
	DeleteTaskErr error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{nextID: 1}
}

// AddTask adds a task with the given id and returns it.
func (f *FakeService) AddTask(id int, title string, completed bool) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	task := service.Task{ID: service.IntPtr(id), Title: title, Completed: completed}
	f.tasks = append(f.tasks, task)
	if id >= f.nextID {
		f.nextID = id + 1
	}
	return task
}

// Tasks returns a copy of the stored tasks.
func (f *FakeService) Tasks() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.Task, len(f.tasks))
	copy(result, f.tasks)
	return result
}

// Calls returns the recorded calls in order.
func (f *FakeService) Calls() []Call {
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]Call, len(f.calls))
	copy(result, f.calls)
	return result
}

// CallCount returns how many times method was invoked.
func (f *FakeService) CallCount(method string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	n := 0
	for _, c := range f.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

func (f *FakeService) record(c Call) {
	f.calls = append(f.calls, c)
}

func (f *FakeService) indexOf(id int) int {
	for i, t := range f.tasks {
		if t.ID != nil && *t.ID == id {
			return i
		}
	}
	return -1
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Method: "ListTasks"})

	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	result := make([]service.Task, len(f.tasks))
	copy(result, f.tasks)
	return result, nil
}

// GetTask implements service.Service.
func (f *FakeService) GetTask(ctx context.Context, id int) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Method: "GetTask", ID: id})

	if f.GetTaskErr != nil {
		return service.Task{}, f.GetTaskErr
	}
	i := f.indexOf(id)
	if i < 0 {
		return service.Task{}, ErrNotFound
	}
	return f.tasks[i], nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, task service.Task) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Method: "CreateTask", Task: task})

	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	task.ID = service.IntPtr(f.nextID)
	f.nextID++
	f.tasks = append(f.tasks, task)
	return task, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id int, task service.Task) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Method: "UpdateTask", ID: id, Task: task})

	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	i := f.indexOf(id)
	if i < 0 {
		return service.Task{}, ErrNotFound
	}
	task.ID = service.IntPtr(id)
	f.tasks[i] = task
	return task, nil
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Method: "DeleteTask", ID: id})

	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	i := f.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
	return nil
}
