package settings

// FullScreenMode selects how an image is scaled in full-screen preview.
type FullScreenMode uint8

const (
	// ModeFit scales the image to fit inside the screen.
	ModeFit FullScreenMode = iota
	// ModeFill scales the image to cover the screen.
	ModeFill
	// ModeStretch stretches the image to the screen size.
	ModeStretch
)

var modeKeys = [...]string{
	ModeFit:     "FIT",
	ModeFill:    "FILL",
	ModeStretch: "STRETCH",
}

// Modes returns every full-screen mode in declaration order.
func Modes() []FullScreenMode {
	return []FullScreenMode{ModeFit, ModeFill, ModeStretch}
}

// Key returns the persisted key of the mode ("FIT", "FILL", "STRETCH").
func (m FullScreenMode) Key() string {
	if int(m) < len(modeKeys) {
		return modeKeys[m]
	}
	return "unknown"
}

// LabelKey returns the translation key for the mode's display label.
// Mode labels are keyed by the mode key itself.
func (m FullScreenMode) LabelKey() string {
	return m.Key()
}

// String implements fmt.Stringer.
func (m FullScreenMode) String() string {
	return m.Key()
}

// Valid reports whether m is a declared mode.
func (m FullScreenMode) Valid() bool {
	return int(m) < len(modeKeys)
}

// ParseFullScreenMode returns the mode with the given persisted key.
// Unknown keys fail with ErrInvalidMode.
func ParseFullScreenMode(key string) (FullScreenMode, error) {
	for i, k := range modeKeys {
		if k == key {
			return FullScreenMode(i), nil
		}
	}
	return ModeFit, &FieldError{Field: FieldFullScreenMode, Value: key, Err: ErrInvalidMode}
}

// MarshalText implements encoding.TextMarshaler.
func (m FullScreenMode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, &FieldError{Field: FieldFullScreenMode, Value: uint8(m), Err: ErrInvalidMode}
	}
	return []byte(m.Key()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *FullScreenMode) UnmarshalText(text []byte) error {
	mode, err := ParseFullScreenMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}
