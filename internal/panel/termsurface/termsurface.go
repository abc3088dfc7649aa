// Package termsurface renders the settings panel in a terminal using tcell.
//
// A Surface is driven from a single goroutine running Run. Other goroutines
// hand work to it with Dispatch.
package termsurface

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"

	"github.com/dshills/imagetoolkit/internal/panel"
)

// ErrClosed is returned by Run after Close.
var ErrClosed = errors.New("surface closed")

// DefaultAccent is the highlight color of the focused row.
const DefaultAccent = "#7f6df2"

type rowKind uint8

const (
	rowHeading rowKind = iota
	rowToggle
	rowSlider
	rowDropdown
)

type option struct {
	key   string
	label string
}

type row struct {
	kind rowKind
	name string
	desc string

	on bool

	min, max, step int
	number         int
	readout        string

	options  []option
	selected string

	onBool   func(bool)
	onInt    func(int)
	onString func(string)
}

// Surface is a tcell-backed panel.Surface.
type Surface struct {
	screen tcell.Screen
	rows   []*row
	focus  int
	accent tcell.Color

	closeOnce sync.Once
	closed    bool
}

var _ panel.Surface = (*Surface)(nil)

// Option configures a Surface.
type Option func(*Surface) error

// WithAccent sets the focus highlight from a hex color such as "#7f6df2".
func WithAccent(hex string) Option {
	return func(s *Surface) error {
		c, err := colorful.Hex(hex)
		if err != nil {
			return fmt.Errorf("invalid accent color %q: %w", hex, err)
		}
		r, g, b := c.RGB255()
		s.accent = tcell.NewRGBColor(int32(r), int32(g), int32(b))
		return nil
	}
}

// New wraps an initialized screen.
func New(screen tcell.Screen, opts ...Option) (*Surface, error) {
	s := &Surface{screen: screen, focus: -1}
	if err := WithAccent(DefaultAccent)(s); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// NewTerminal opens and initializes the controlling terminal.
func NewTerminal(opts ...Option) (*Surface, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("opening terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initializing terminal: %w", err)
	}
	s, err := New(screen, opts...)
	if err != nil {
		screen.Fini()
		return nil, err
	}
	return s, nil
}

// Close restores the terminal. It is safe to call more than once.
func (s *Surface) Close() {
	s.closeOnce.Do(func() {
		s.closed = true
		s.screen.Fini()
	})
}

// Clear implements panel.Surface.
func (s *Surface) Clear() {
	s.rows = nil
	s.focus = -1
}

// AddHeading implements panel.Surface.
func (s *Surface) AddHeading(text string) {
	s.add(&row{kind: rowHeading, name: text})
}

// AddToggle implements panel.Surface.
func (s *Surface) AddToggle(name, desc string) panel.Toggle {
	r := &row{kind: rowToggle, name: name, desc: desc}
	s.add(r)
	return (*toggle)(r)
}

// AddSlider implements panel.Surface.
func (s *Surface) AddSlider(name, desc string) panel.Slider {
	r := &row{kind: rowSlider, name: name, desc: desc, step: 1}
	s.add(r)
	return (*slider)(r)
}

// AddDropdown implements panel.Surface.
func (s *Surface) AddDropdown(name, desc string) panel.Dropdown {
	r := &row{kind: rowDropdown, name: name, desc: desc}
	s.add(r)
	return (*dropdown)(r)
}

func (s *Surface) add(r *row) {
	s.rows = append(s.rows, r)
	if s.focus < 0 && r.kind != rowHeading {
		s.focus = len(s.rows) - 1
	}
}

// Focus returns the index of the focused control, or -1.
func (s *Surface) Focus() int {
	return s.focus
}

// Dispatch runs fn on the goroutine executing Run and redraws afterwards.
// It is safe for concurrent use. It reports false if the event queue was
// full or the surface is not running.
func (s *Surface) Dispatch(fn func()) bool {
	return s.screen.PostEvent(tcell.NewEventInterrupt(fn)) == nil
}

// Run draws the panel and processes input until the user quits, ctx is
// cancelled, or the surface is closed.
func (s *Surface) Run(ctx context.Context) error {
	if s.closed {
		return ErrClosed
	}

	stop := context.AfterFunc(ctx, func() {
		_ = s.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	s.Draw()
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return ErrClosed
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.HandleEvent(ev) {
			return nil
		}
		s.Draw()
	}
}

// HandleEvent applies one input event. It reports whether the user asked
// to quit.
func (s *Surface) HandleEvent(ev tcell.Event) bool {
	switch e := ev.(type) {
	case *tcell.EventInterrupt:
		if fn, ok := e.Data().(func()); ok && fn != nil {
			fn()
		}
	case *tcell.EventResize:
		s.screen.Sync()
	case *tcell.EventKey:
		return s.handleKey(e)
	}
	return false
}

func (s *Surface) handleKey(e *tcell.EventKey) bool {
	switch e.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		s.moveFocus(-1)
	case tcell.KeyDown, tcell.KeyTab:
		s.moveFocus(1)
	case tcell.KeyLeft:
		s.adjust(-1)
	case tcell.KeyRight:
		s.adjust(1)
	case tcell.KeyEnter:
		s.activate()
	case tcell.KeyRune:
		switch e.Rune() {
		case 'q':
			return true
		case 'k':
			s.moveFocus(-1)
		case 'j':
			s.moveFocus(1)
		case 'h', '-':
			s.adjust(-1)
		case 'l', '+':
			s.adjust(1)
		case ' ':
			s.activate()
		}
	}
	return false
}

func (s *Surface) moveFocus(delta int) {
	if s.focus < 0 {
		return
	}
	for i := s.focus + delta; i >= 0 && i < len(s.rows); i += delta {
		if s.rows[i].kind != rowHeading {
			s.focus = i
			return
		}
	}
}

func (s *Surface) focused() *row {
	if s.focus < 0 || s.focus >= len(s.rows) {
		return nil
	}
	return s.rows[s.focus]
}

func (s *Surface) activate() {
	r := s.focused()
	if r == nil {
		return
	}
	switch r.kind {
	case rowToggle:
		r.on = !r.on
		if r.onBool != nil {
			r.onBool(r.on)
		}
	case rowDropdown:
		s.adjust(1)
	}
}

func (s *Surface) adjust(delta int) {
	r := s.focused()
	if r == nil {
		return
	}
	switch r.kind {
	case rowToggle:
		if on := delta > 0; on != r.on {
			r.on = on
			if r.onBool != nil {
				r.onBool(on)
			}
		}
	case rowSlider:
		v := max(r.min, min(r.max, r.number+delta*r.step))
		if v == r.number {
			return
		}
		r.number = v
		if r.onInt != nil {
			r.onInt(v)
		}
	case rowDropdown:
		if len(r.options) == 0 {
			return
		}
		i := 0
		for j, o := range r.options {
			if o.key == r.selected {
				i = j
				break
			}
		}
		i = (i + delta + len(r.options)) % len(r.options)
		r.selected = r.options[i].key
		if r.onString != nil {
			r.onString(r.selected)
		}
	}
}

// Draw renders every row.
func (s *Surface) Draw() {
	s.screen.Clear()
	width, _ := s.screen.Size()

	base := tcell.StyleDefault
	dim := base.Dim(true)
	y := 0
	for i, r := range s.rows {
		style := base
		if i == s.focus {
			style = style.Background(s.accent).Foreground(tcell.ColorWhite)
		}
		switch r.kind {
		case rowHeading:
			s.text(0, y, width, r.name, base.Bold(true))
			y++
		default:
			s.text(0, y, width, s.line(r), style)
			y++
			if r.desc != "" {
				s.text(4, y, width, r.desc, dim)
				y++
			}
		}
		y++
	}
	s.text(0, y, width, "↑/↓ move  ←/→ change  space toggle  q quit", dim)
	s.screen.Show()
}

func (s *Surface) line(r *row) string {
	switch r.kind {
	case rowToggle:
		mark := ' '
		if r.on {
			mark = 'x'
		}
		return fmt.Sprintf("[%c] %s", mark, r.name)
	case rowSlider:
		return fmt.Sprintf("    %s  %s%s", r.name, bar(r.min, r.max, r.number), r.readout)
	case rowDropdown:
		label := r.selected
		for _, o := range r.options {
			if o.key == r.selected {
				label = o.label
				break
			}
		}
		return fmt.Sprintf("    %s  < %s >", r.name, label)
	}
	return r.name
}

const barWidth = 20

func bar(lo, hi, v int) string {
	if hi <= lo {
		return ""
	}
	pos := (v - lo) * (barWidth - 1) / (hi - lo)
	return "[" + strings.Repeat("=", pos) + "|" + strings.Repeat("-", barWidth-1-pos) + "]"
}

// text draws str at (x, y), advancing by grapheme width and clipping at
// width.
func (s *Surface) text(x, y, width int, str string, style tcell.Style) {
	g := uniseg.NewGraphemes(str)
	for g.Next() {
		runes := g.Runes()
		w := g.Width()
		if x+w > width {
			return
		}
		s.screen.SetContent(x, y, runes[0], runes[1:], style)
		x += w
	}
}

type toggle row

func (t *toggle) SetValue(v bool)          { t.on = v }
func (t *toggle) Value() bool              { return t.on }
func (t *toggle) OnChange(fn func(v bool)) { t.onBool = fn }

type slider row

func (sl *slider) SetLimits(lo, hi, step int) {
	sl.min, sl.max = lo, hi
	if step > 0 {
		sl.step = step
	}
}
func (sl *slider) SetValue(v int)          { sl.number = v }
func (sl *slider) Value() int              { return sl.number }
func (sl *slider) SetReadout(text string)  { sl.readout = text }
func (sl *slider) OnChange(fn func(v int)) { sl.onInt = fn }

type dropdown row

func (d *dropdown) AddOption(key, label string) {
	d.options = append(d.options, option{key: key, label: label})
}
func (d *dropdown) SetValue(key string)          { d.selected = key }
func (d *dropdown) Value() string                { return d.selected }
func (d *dropdown) OnChange(fn func(key string)) { d.onString = fn }
