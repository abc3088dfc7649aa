// Package settings defines the persisted configuration record of the image
// toolkit plugin.
//
// The record is flat and fixed-shape. It is created once at plugin
// activation by overlaying persisted data on the defaults, mutated field by
// field through the settings panel controller, and written back as a whole
// after every edit.
//
// # Loading
//
// LoadWithDefaults never fails to produce a record. Problems with individual
// fields are isolated: the offending field keeps its default and the problem
// is reported as a *FieldError joined into the returned error.
//
//	rec, err := settings.LoadWithDefaults(persisted)
//	if err != nil {
//	    log.Warn().Err(err).Msg("settings loaded with defaults for some fields")
//	}
//
// # Sub-packages
//
//   - registry: field definitions used for rendering and validation
//   - loader: JSON and TOML decoding of persisted data
//   - notify: change notification for field edits and reloads
//   - watcher: file watching for external edits of the data file
package settings
