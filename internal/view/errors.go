package view

import "errors"

var (
	// ErrTitleTooShort is returned by Submit when the title fails validation.
	// No request is issued and no navigation happens.
	ErrTitleTooShort = errors.New("title too short")

	// ErrNoID is returned when deleting a task the API never assigned an id to.
	ErrNoID = errors.New("task has no id")

	// ErrCancelDisabled is returned by Cancel when the policy does not offer it.
	ErrCancelDisabled = errors.New("cancel is disabled")
)
