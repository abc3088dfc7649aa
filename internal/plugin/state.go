package plugin

// State represents the lifecycle state of a plugin.
type State int

// Plugin states.
const (
	// StateInactive - Plugin is constructed or deactivated.
	StateInactive State = iota

	// StateActivating - Settings are being loaded.
	StateActivating

	// StateActive - Plugin is active and persisting edits.
	StateActive

	// StateDeactivating - Pending saves are being flushed.
	StateDeactivating

	// StateError - Activation failed.
	StateError
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateActivating:
		return "activating"
	case StateActive:
		return "active"
	case StateDeactivating:
		return "deactivating"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
