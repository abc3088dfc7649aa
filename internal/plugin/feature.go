package plugin

import (
	"slices"

	"github.com/dshills/imagetoolkit/internal/settings"
)

// Target is a host area where clicking an image opens the viewer.
type Target uint8

// Viewer targets.
const (
	TargetEditor Target = iota + 1
	TargetCommunityPlugins
)

// String returns the target name.
func (t Target) String() string {
	switch t {
	case TargetEditor:
		return "editor"
	case TargetCommunityPlugins:
		return "community-plugins"
	default:
		return "unknown"
	}
}

// FeatureState is where image viewing is currently attached.
type FeatureState struct {
	Active  bool
	Targets []Target
}

// Equal reports whether two states attach to the same targets.
func (f FeatureState) Equal(o FeatureState) bool {
	return f.Active == o.Active && slices.Equal(f.Targets, o.Targets)
}

// FeatureStateOf derives the feature state from a record. The global
// switch gates both areas.
func FeatureStateOf(rec settings.Settings) FeatureState {
	if !rec.ViewImageGlobal {
		return FeatureState{}
	}
	var targets []Target
	if rec.ViewImageEditor {
		targets = append(targets, TargetEditor)
	}
	if rec.ViewImageInCPB {
		targets = append(targets, TargetCommunityPlugins)
	}
	return FeatureState{Active: len(targets) > 0, Targets: targets}
}

// Viewer attaches the image viewer to host areas.
type Viewer interface {
	// Attach replaces the attached targets with targets.
	Attach(targets []Target) error

	// Detach removes the viewer from every area.
	Detach() error
}
