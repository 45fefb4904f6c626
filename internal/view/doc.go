// Package view holds the screen controllers for the task list and the
// create/edit form.
//
// Controllers own their state and expose copies through State. They drive a
// service.Service, never render anything themselves, and announce every state
// change to subscribers so a rendering layer (the CLI commands or the
// terminal UI) can redraw. The strict and fast behaviors are selected with a
// Policy.
package view
