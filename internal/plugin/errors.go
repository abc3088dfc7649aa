package plugin

import "errors"

// Plugin lifecycle errors.
var (
	// ErrAlreadyActive is returned when activating an active plugin.
	ErrAlreadyActive = errors.New("plugin is already active")

	// ErrNotActive is returned when an operation needs an active plugin.
	ErrNotActive = errors.New("plugin is not active")
)
