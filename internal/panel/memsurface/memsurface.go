// Package memsurface provides an in-memory settings surface.
//
// It backs headless hosts (the command line prints it) and tests, which
// drive it through the Fire methods the way a user would drive real
// controls.
package memsurface

import (
	"github.com/dshills/imagetoolkit/internal/panel"
)

// Kind identifies a control type.
type Kind string

// Control kinds.
const (
	KindHeading  Kind = "heading"
	KindToggle   Kind = "toggle"
	KindSlider   Kind = "slider"
	KindDropdown Kind = "dropdown"
)

// Option is a dropdown entry.
type Option struct {
	Key   string
	Label string
}

// Control is the comparable state of one rendered control.
type Control struct {
	Kind Kind
	Name string
	Desc string

	// Toggle
	On bool

	// Slider
	Min, Max, Step int
	Number         int
	Readout        string

	// Dropdown
	Options  []Option
	Selected string
}

// Surface records controls in the order they were added.
type Surface struct {
	controls []*control
	clears   int
}

var _ panel.Surface = (*Surface)(nil)

// New creates an empty surface.
func New() *Surface {
	return &Surface{}
}

// Clear removes every control. Controls handed out earlier stay usable
// but are no longer part of the surface.
func (s *Surface) Clear() {
	s.controls = nil
	s.clears++
}

// Clears returns how many times Clear was called.
func (s *Surface) Clears() int {
	return s.clears
}

// AddHeading implements panel.Surface.
func (s *Surface) AddHeading(text string) {
	s.controls = append(s.controls, &control{state: Control{Kind: KindHeading, Name: text}})
}

// AddToggle implements panel.Surface.
func (s *Surface) AddToggle(name, desc string) panel.Toggle {
	c := &control{state: Control{Kind: KindToggle, Name: name, Desc: desc}}
	s.controls = append(s.controls, c)
	return (*toggle)(c)
}

// AddSlider implements panel.Surface.
func (s *Surface) AddSlider(name, desc string) panel.Slider {
	c := &control{state: Control{Kind: KindSlider, Name: name, Desc: desc}}
	s.controls = append(s.controls, c)
	return (*slider)(c)
}

// AddDropdown implements panel.Surface.
func (s *Surface) AddDropdown(name, desc string) panel.Dropdown {
	c := &control{state: Control{Kind: KindDropdown, Name: name, Desc: desc}}
	s.controls = append(s.controls, c)
	return (*dropdown)(c)
}

// Snapshot returns the state of every control in order.
func (s *Surface) Snapshot() []Control {
	out := make([]Control, len(s.controls))
	for i, c := range s.controls {
		out[i] = c.state
		if c.state.Options != nil {
			out[i].Options = append([]Option(nil), c.state.Options...)
		}
	}
	return out
}

// Len returns the number of controls, headings included.
func (s *Surface) Len() int {
	return len(s.controls)
}

// Find returns the index of the first control with the given name, or -1.
func (s *Surface) Find(name string) int {
	for i, c := range s.controls {
		if c.state.Name == name {
			return i
		}
	}
	return -1
}

// FireToggle simulates the user setting the toggle at index i.
func (s *Surface) FireToggle(i int, v bool) {
	c := s.at(i, KindToggle)
	c.state.On = v
	if c.onBool != nil {
		c.onBool(v)
	}
}

// FireSlider simulates the user moving the slider at index i. The value is
// limited and stepped like a real slider would.
func (s *Surface) FireSlider(i int, v int) {
	c := s.at(i, KindSlider)
	v = c.limit(v)
	c.state.Number = v
	if c.onInt != nil {
		c.onInt(v)
	}
}

// FireDropdown simulates the user choosing key in the dropdown at index i.
// Keys that are not options are passed through, as a tampered host might.
func (s *Surface) FireDropdown(i int, key string) {
	c := s.at(i, KindDropdown)
	c.state.Selected = key
	if c.onString != nil {
		c.onString(key)
	}
}

func (s *Surface) at(i int, kind Kind) *control {
	if i < 0 || i >= len(s.controls) || s.controls[i].state.Kind != kind {
		panic("memsurface: no " + string(kind) + " at index")
	}
	return s.controls[i]
}

type control struct {
	state    Control
	onBool   func(bool)
	onInt    func(int)
	onString func(string)
}

func (c *control) limit(v int) int {
	st := c.state
	if st.Max > st.Min {
		if v < st.Min {
			v = st.Min
		}
		if v > st.Max {
			v = st.Max
		}
		if st.Step > 1 {
			v = st.Min + (v-st.Min)/st.Step*st.Step
		}
	}
	return v
}

type toggle control

func (t *toggle) SetValue(v bool)          { t.state.On = v }
func (t *toggle) Value() bool              { return t.state.On }
func (t *toggle) OnChange(fn func(v bool)) { t.onBool = fn }

type slider control

func (s *slider) SetLimits(min, max, step int) {
	s.state.Min, s.state.Max, s.state.Step = min, max, step
}
func (s *slider) SetValue(v int)          { s.state.Number = v }
func (s *slider) Value() int              { return s.state.Number }
func (s *slider) SetReadout(text string)  { s.state.Readout = text }
func (s *slider) OnChange(fn func(v int)) { s.onInt = fn }

type dropdown control

func (d *dropdown) AddOption(key, label string) {
	d.state.Options = append(d.state.Options, Option{Key: key, Label: label})
}
func (d *dropdown) SetValue(key string)          { d.state.Selected = key }
func (d *dropdown) Value() string                { return d.state.Selected }
func (d *dropdown) OnChange(fn func(key string)) { d.onString = fn }
