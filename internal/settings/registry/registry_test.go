package registry

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/imagetoolkit/internal/settings"
)

func TestSettingType_String(t *testing.T) {
	tests := []struct {
		typ  SettingType
		want string
	}{
		{TypeBool, "boolean"},
		{TypeInt, "integer"},
		{TypeEnum, "enum"},
		{SettingType(255), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("SettingType(%d).String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestRegistry_Register(t *testing.T) {
	r := New()

	if err := r.Register(Setting{Path: "a", Type: TypeBool}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	err := r.Register(Setting{Path: "a", Type: TypeInt})
	if !errors.Is(err, ErrSettingAlreadyRegistered) {
		t.Errorf("duplicate Register error = %v, want ErrSettingAlreadyRegistered", err)
	}
}

func TestRegistry_MustRegister_Panics(t *testing.T) {
	r := New()
	r.MustRegister(Setting{Path: "a"})

	defer func() {
		if recover() == nil {
			t.Error("expected panic for duplicate MustRegister")
		}
	}()
	r.MustRegister(Setting{Path: "a"})
}

func TestBuiltin_CoversRecord(t *testing.T) {
	r := Builtin()

	var paths []string
	for _, s := range r.All() {
		paths = append(paths, s.Path)
	}
	if diff := cmp.Diff(settings.Fields(), paths); diff != "" {
		t.Errorf("registered paths mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(settings.Defaults().Map(), r.Defaults()); diff != "" {
		t.Errorf("registry defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestBuiltin_VisibleSkipsDeprecated(t *testing.T) {
	r := Builtin()

	for _, s := range r.Visible() {
		if s.Path == settings.FieldViewImageToggle {
			t.Errorf("deprecated %s is visible", s.Path)
		}
		if s.NameKey == "" {
			t.Errorf("visible %s has no name key", s.Path)
		}
	}
	if n := len(r.Visible()); n != 6 {
		t.Errorf("Visible() len = %d, want 6", n)
	}

	dep := r.Deprecated()
	if len(dep) != 1 || dep[0].Path != settings.FieldViewImageToggle {
		t.Errorf("Deprecated() = %v, want only %s", dep, settings.FieldViewImageToggle)
	}
}

func TestBuiltin_RefreshFlags(t *testing.T) {
	r := Builtin()

	want := map[string]bool{
		settings.FieldViewImageGlobal:    true,
		settings.FieldViewImageEditor:    true,
		settings.FieldViewImageInCPB:     true,
		settings.FieldViewImageWithALink: false,
		settings.FieldImageMoveSpeed:     false,
		settings.FieldFullScreenMode:     false,
	}
	for path, refresh := range want {
		s := r.Get(path)
		if s == nil {
			t.Fatalf("Get(%s) = nil", path)
		}
		if s.RefreshesFeature != refresh {
			t.Errorf("%s RefreshesFeature = %v, want %v", path, s.RefreshesFeature, refresh)
		}
	}
}

func TestRegistry_Validate(t *testing.T) {
	r := Builtin()

	tests := []struct {
		path    string
		value   any
		wantErr error
	}{
		{settings.FieldViewImageGlobal, true, nil},
		{settings.FieldViewImageGlobal, "true", ErrInvalidValue},
		{settings.FieldImageMoveSpeed, 1, nil},
		{settings.FieldImageMoveSpeed, 30, nil},
		{settings.FieldImageMoveSpeed, float64(12), nil},
		{settings.FieldImageMoveSpeed, 0, ErrInvalidValue},
		{settings.FieldImageMoveSpeed, 31, ErrInvalidValue},
		{settings.FieldImageMoveSpeed, 1.5, ErrInvalidValue},
		{settings.FieldFullScreenMode, "FILL", nil},
		{settings.FieldFullScreenMode, "ZOOM", ErrInvalidValue},
		{settings.FieldFullScreenMode, 3, ErrInvalidValue},
		{"unknown", true, ErrSettingNotFound},
	}

	for _, tt := range tests {
		err := r.Validate(tt.path, tt.value)
		if tt.wantErr == nil && err != nil {
			t.Errorf("Validate(%s, %v) unexpected error %v", tt.path, tt.value, err)
		}
		if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
			t.Errorf("Validate(%s, %v) error = %v, want %v", tt.path, tt.value, err, tt.wantErr)
		}
	}
}
