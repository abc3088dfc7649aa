package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/imagetoolkit/internal/settings"
)

type failingFS struct{ err error }

func (f failingFS) ReadFile(string) ([]byte, error) { return nil, f.err }

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"data.json", FormatJSON},
		{"settings.toml", FormatTOML},
		{"SETTINGS.TOML", FormatTOML},
		{"data", FormatJSON},
		{"dir.toml/data.json", FormatJSON},
	}

	for _, tt := range tests {
		if got := FormatOf(tt.path); got != tt.want {
			t.Errorf("FormatOf(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestJSONParser(t *testing.T) {
	got, err := JSONParser{}.Parse("data.json", []byte(`{
		"viewImageGlobal": false,
		"imageMoveSpeed": 25,
		"imgFullScreenMode": "FILL",
		"futureField": {"nested": [1, 2]}
	}`))
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}

	if got["viewImageGlobal"] != false {
		t.Errorf("viewImageGlobal = %v, want false", got["viewImageGlobal"])
	}
	if got["imageMoveSpeed"] != float64(25) {
		t.Errorf("imageMoveSpeed = %#v, want float64(25)", got["imageMoveSpeed"])
	}
	if _, ok := got["futureField"]; !ok {
		t.Error("unknown fields should be decoded, not dropped")
	}
}

func TestJSONParser_EmptyAndNull(t *testing.T) {
	for _, in := range []string{"", "   \n", "null"} {
		got, err := JSONParser{}.Parse("data.json", []byte(in))
		if err != nil || got != nil {
			t.Errorf("Parse(%q) = %v, %v; want nil, nil", in, got, err)
		}
	}
}

func TestJSONParser_Invalid(t *testing.T) {
	for _, in := range []string{`{"a":`, `[1,2]`, `"text"`, `{"a" 1}`} {
		_, err := JSONParser{}.Parse("data.json", []byte(in))
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("Parse(%q) error = %v, want *ParseError", in, err)
			continue
		}
		if pe.Path != "data.json" {
			t.Errorf("ParseError.Path = %q", pe.Path)
		}
	}
}

func TestTOMLParser(t *testing.T) {
	got, err := TOMLParser{}.Parse("settings.toml", []byte(`
viewImageEditor = false
imageMoveSpeed = 7
imgFullScreenMode = "STRETCH"
`))
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}
	if got["imageMoveSpeed"] != int64(7) {
		t.Errorf("imageMoveSpeed = %#v, want int64(7)", got["imageMoveSpeed"])
	}

	rec, err := settings.LoadWithDefaults(got)
	if err != nil {
		t.Fatalf("LoadWithDefaults error = %v", err)
	}
	want := settings.Defaults()
	want.ViewImageEditor = false
	want.ImageMoveSpeed = 7
	want.FullScreenMode = settings.ModeStretch
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestTOMLParser_Invalid(t *testing.T) {
	_, err := TOMLParser{}.Parse("settings.toml", []byte("a = 1\nb = = 2\n"))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if pe.Line != 2 {
		t.Errorf("ParseError.Line = %d, want 2", pe.Line)
	}
	if !strings.Contains(pe.Error(), "line 2") {
		t.Errorf("Error() = %q, want line number", pe.Error())
	}
}

func TestFileSource_MissingFile(t *testing.T) {
	l := ForPathWithFS(fstest.MapFS{}, "data.json")
	got, err := l.Load()
	if err != nil || got != nil {
		t.Errorf("Load() = %v, %v; want nil, nil", got, err)
	}
}

func TestFileSource_ReadError(t *testing.T) {
	boom := errors.New("boom")
	l := ForPathWithFS(failingFS{err: boom}, "data.json")
	if _, err := l.Load(); !errors.Is(err, boom) {
		t.Errorf("Load() error = %v, want wrapped boom", err)
	}
}

func TestFileSource_PicksParserByExtension(t *testing.T) {
	fsys := fstest.MapFS{
		"data.json":     {Data: []byte(`{"imageMoveSpeed": 3}`)},
		"settings.toml": {Data: []byte(`imageMoveSpeed = 4`)},
	}

	j, err := ForPathWithFS(fsys, "data.json").Load()
	if err != nil {
		t.Fatalf("json Load error = %v", err)
	}
	if j["imageMoveSpeed"] != float64(3) {
		t.Errorf("json imageMoveSpeed = %#v", j["imageMoveSpeed"])
	}

	tm, err := ForPathWithFS(fsys, "settings.toml").Load()
	if err != nil {
		t.Fatalf("toml Load error = %v", err)
	}
	if tm["imageMoveSpeed"] != int64(4) {
		t.Errorf("toml imageMoveSpeed = %#v", tm["imageMoveSpeed"])
	}
}

func TestFileSource_OSAndReader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	if err := os.WriteFile(path, []byte(`{"viewImageInCPB": false}`), 0o644); err != nil {
		t.Fatal(err)
	}

	l := ForPath(path)
	if l.Path() != path {
		t.Errorf("Path() = %q", l.Path())
	}
	got, err := l.Load()
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if got["viewImageInCPB"] != false {
		t.Errorf("viewImageInCPB = %v", got["viewImageInCPB"])
	}

	got, err = l.LoadFromReader(strings.NewReader(`{"viewImageWithALink": true}`))
	if err != nil {
		t.Fatalf("LoadFromReader error = %v", err)
	}
	if got["viewImageWithALink"] != true {
		t.Errorf("viewImageWithALink = %v", got["viewImageWithALink"])
	}

	missing, err := ForPath(filepath.Join(dir, "nope.json")).Load()
	if err != nil || missing != nil {
		t.Errorf("missing Load() = %v, %v", missing, err)
	}
}

func TestForFormat_Reader(t *testing.T) {
	tests := []struct {
		format Format
		input  string
	}{
		{FormatJSON, `{"imageMoveSpeed": 12}`},
		{FormatTOML, "imageMoveSpeed = 12\n"},
	}

	for _, tt := range tests {
		var l ReaderLoader = ForFormat(tt.format)
		got, err := l.LoadFromReader(strings.NewReader(tt.input))
		if err != nil {
			t.Fatalf("%v LoadFromReader error = %v", tt.format, err)
		}
		if got["imageMoveSpeed"] == nil {
			t.Errorf("%v imageMoveSpeed missing from %v", tt.format, got)
		}
	}

	_, err := ForFormat(FormatJSON).LoadFromReader(strings.NewReader(`{"imageMoveSpeed": `))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Errorf("invalid input error = %v, want *ParseError", err)
	}
}
