package view

import (
	"strings"
	"unicode/utf8"
)

// Policy selects the behavior that differs between the strict and fast front ends.
type Policy struct {
	// MinTitleLength is the minimum trimmed title length accepted on submit.
	// Zero disables validation.
	MinTitleLength int

	// SurfaceErrors stores a user-visible message in the controller state on
	// failure. When false, failures only reach the diagnostic log.
	SurfaceErrors bool

	// EnableCancel allows the form to be abandoned without submitting.
	EnableCancel bool
}

// StrictPolicy validates titles, surfaces errors and offers cancel.
func StrictPolicy() Policy {
	return Policy{MinTitleLength: 3, SurfaceErrors: true, EnableCancel: true}
}

// FastPolicy does none of that.
func FastPolicy() Policy {
	return Policy{}
}

// ValidTitle reports whether title passes the length rule.
func (p Policy) ValidTitle(title string) bool {
	if p.MinTitleLength <= 0 {
		return true
	}
	return utf8.RuneCountInString(strings.TrimSpace(title)) >= p.MinTitleLength
}
