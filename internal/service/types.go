// Package service defines the backend-agnostic interface for task operations.
package service

// Task represents a single task item.
type Task struct {
	// ID is assigned by the remote API. Nil for a task that was never persisted.
	ID        *int   `json:"id,omitempty"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`

	// UserID is carried through untouched when the API returns one.
	UserID *int `json:"userId,omitempty"`
}

// HasID reports whether the task has a server-assigned id.
func (t Task) HasID() bool {
	return t.ID != nil
}

// IDValue returns the task id, or 0 if none has been assigned.
func (t Task) IDValue() int {
	if t.ID == nil {
		return 0
	}
	return *t.ID
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
