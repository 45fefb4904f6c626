package view

import (
	"fmt"
	"strconv"
	"strings"
)

// RouteKind identifies a screen.
type RouteKind int

const (
	RouteList RouteKind = iota
	RouteNew
	RouteEdit
)

// Route is a navigation target. ID is set only for RouteEdit.
type Route struct {
	Kind RouteKind
	ID   int
}

// ListRoute is the task list screen.
func ListRoute() Route { return Route{Kind: RouteList} }

// NewRoute is the form screen without an identifier (create).
func NewRoute() Route { return Route{Kind: RouteNew} }

// EditRoute is the form screen for an existing task.
func EditRoute(id int) Route { return Route{Kind: RouteEdit, ID: id} }

// TaskID returns the identifier carried by the route, if any.
func (r Route) TaskID() (int, bool) {
	if r.Kind == RouteEdit && r.ID > 0 {
		return r.ID, true
	}
	return 0, false
}

func (r Route) String() string {
	switch r.Kind {
	case RouteNew:
		return "/tasks/new"
	case RouteEdit:
		return "/tasks/edit/" + strconv.Itoa(r.ID)
	default:
		return "/tasks"
	}
}

// ParseRoute parses "/tasks", "/tasks/new" and "/tasks/edit/{id}".
func ParseRoute(path string) (Route, error) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 0 || parts[0] != "tasks" {
		return Route{}, fmt.Errorf("unknown route: %s", path)
	}

	switch {
	case len(parts) == 1:
		return ListRoute(), nil
	case len(parts) == 2 && parts[1] == "new":
		return NewRoute(), nil
	case len(parts) == 3 && parts[1] == "edit":
		id, err := strconv.Atoi(parts[2])
		if err != nil || id < 1 {
			return Route{}, fmt.Errorf("invalid task id in route: %s", parts[2])
		}
		return EditRoute(id), nil
	}
	return Route{}, fmt.Errorf("unknown route: %s", path)
}

// Navigator moves the front end to another screen.
type Navigator interface {
	Navigate(r Route)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(r Route)

// Navigate calls f(r).
func (f NavigatorFunc) Navigate(r Route) { f(r) }

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm calls f(prompt).
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }
