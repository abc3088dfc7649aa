// Package panel implements the settings panel of the image toolkit plugin.
//
// The Controller binds the settings record to controls on a Surface and
// turns control changes into record edits. Every edit writes the record,
// runs the host's feature refresh when the edited toggle affects image
// viewing, and asks the host to persist the complete record without
// waiting for the write.
//
// Surfaces are supplied by the host. This package depends only on the
// minimal capability set below; memsurface and termsurface provide
// headless and terminal implementations.
package panel

import "github.com/dshills/imagetoolkit/internal/settings"

// Surface is the rendered region hosting the controls of one panel display.
type Surface interface {
	// Clear removes every previously added control.
	Clear()

	// AddHeading appends a title line.
	AddHeading(text string)

	// AddToggle appends a labeled boolean switch.
	AddToggle(name, desc string) Toggle

	// AddSlider appends a labeled bounded numeric control.
	AddSlider(name, desc string) Slider

	// AddDropdown appends a labeled enumerated choice control.
	AddDropdown(name, desc string) Dropdown
}

// Toggle is a boolean switch.
type Toggle interface {
	SetValue(v bool)
	Value() bool
	// OnChange registers the callback for user changes. Setting the value
	// programmatically does not call it.
	OnChange(fn func(v bool))
}

// Slider is a bounded integer control with a text readout next to it.
type Slider interface {
	SetLimits(min, max, step int)
	SetValue(v int)
	Value() int
	SetReadout(text string)
	OnChange(fn func(v int))
}

// Dropdown is a choice among labeled keys.
type Dropdown interface {
	AddOption(key, label string)
	SetValue(key string)
	Value() string
	OnChange(fn func(key string))
}

// Tab is what the host holds for a settings panel.
type Tab interface {
	// Display clears the surface and renders every field from the current
	// record.
	Display(surface Surface)

	// Dispose detaches the panel from the last surface it rendered.
	Dispose()
}

// Host is the plugin instance the panel edits on behalf of.
type Host interface {
	// Settings returns the live record. The panel mutates it in place.
	Settings() *settings.Settings

	// RefreshFeatureState re-evaluates whether image viewing is active.
	RefreshFeatureState()

	// SaveSettings requests persistence of the complete current record and
	// returns without waiting for it.
	SaveSettings()
}
