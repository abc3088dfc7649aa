package panel_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/imagetoolkit/internal/i18n"
	"github.com/dshills/imagetoolkit/internal/panel"
	"github.com/dshills/imagetoolkit/internal/panel/memsurface"
	"github.com/dshills/imagetoolkit/internal/settings"
	"github.com/dshills/imagetoolkit/internal/settings/notify"
)

// fakeHost records side effects and persistence requests.
type fakeHost struct {
	rec       settings.Settings
	refreshes int
	saves     []settings.Settings
}

func newFakeHost(rec settings.Settings) *fakeHost {
	return &fakeHost{rec: rec}
}

func (h *fakeHost) Settings() *settings.Settings { return &h.rec }
func (h *fakeHost) RefreshFeatureState()         { h.refreshes++ }
func (h *fakeHost) SaveSettings()                { h.saves = append(h.saves, h.rec) }

// Control indexes on the surface: heading first, then visible fields in
// registry order.
const (
	idxHeading = iota
	idxGlobal
	idxEditor
	idxCPB
	idxLink
	idxSpeed
	idxMode
	controlCount
)

func display(t *testing.T, c *panel.Controller) *memsurface.Surface {
	t.Helper()
	s := memsurface.New()
	c.Display(s)
	if s.Len() != controlCount {
		t.Fatalf("rendered %d controls, want %d", s.Len(), controlCount)
	}
	return s
}

func TestDisplay_RendersRecord(t *testing.T) {
	rec := settings.Defaults()
	rec.ViewImageInCPB = false
	rec.ImageMoveSpeed = 12
	host := newFakeHost(rec)

	c := panel.New(host, nil, i18n.Identity)
	s := display(t, c)
	got := s.Snapshot()

	want := []memsurface.Control{
		{Kind: memsurface.KindHeading, Name: i18n.KeySettingsTitle},
		{Kind: memsurface.KindToggle, Name: i18n.KeyViewImageGlobalName, Desc: i18n.KeyViewImageGlobalDesc, On: true},
		{Kind: memsurface.KindToggle, Name: i18n.KeyViewImageEditorName, Desc: i18n.KeyViewImageEditorDesc, On: true},
		{Kind: memsurface.KindToggle, Name: i18n.KeyViewImageInCPBName, Desc: i18n.KeyViewImageInCPBDesc, On: false},
		{Kind: memsurface.KindToggle, Name: i18n.KeyViewImageWithALinkName, Desc: i18n.KeyViewImageWithALinkDesc, On: false},
		{
			Kind: memsurface.KindSlider, Name: i18n.KeyMoveSpeedName, Desc: i18n.KeyMoveSpeedDesc,
			Min: 1, Max: 30, Step: 1, Number: 12, Readout: " 12",
		},
		{
			Kind: memsurface.KindDropdown, Name: i18n.KeyFullScreenModeName,
			Options: []memsurface.Option{
				{Key: "FIT", Label: "FIT"},
				{Key: "FILL", Label: "FILL"},
				{Key: "STRETCH", Label: "STRETCH"},
			},
			Selected: "FIT",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rendered controls mismatch (-want +got):\n%s", diff)
	}

	if host.refreshes != 0 || len(host.saves) != 0 {
		t.Errorf("Display had side effects: refreshes=%d saves=%d", host.refreshes, len(host.saves))
	}
}

func TestDisplay_Translates(t *testing.T) {
	host := newFakeHost(settings.Defaults())
	c := panel.New(host, nil, i18n.New("en").Func())
	s := display(t, c)

	snap := s.Snapshot()
	if snap[idxHeading].Name != "Image Toolkit Settings" {
		t.Errorf("heading = %q", snap[idxHeading].Name)
	}
	if snap[idxMode].Options[1].Label != "Fill" {
		t.Errorf("FILL label = %q, want Fill", snap[idxMode].Options[1].Label)
	}
}

func TestDisplay_Idempotent(t *testing.T) {
	host := newFakeHost(settings.Defaults())
	c := panel.New(host, nil, i18n.Identity)

	s := memsurface.New()
	c.Display(s)
	first := s.Snapshot()
	c.Display(s)
	second := s.Snapshot()

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second display differs (-first +second):\n%s", diff)
	}
	if s.Clears() != 2 {
		t.Errorf("Clear called %d times, want once per display", s.Clears())
	}
	if s.Len() != controlCount {
		t.Errorf("controls accumulated across displays: %d", s.Len())
	}
}

func TestToggle_FeatureToggleRefreshesAndSaves(t *testing.T) {
	tests := []struct {
		name  string
		index int
		field string
	}{
		{"global", idxGlobal, settings.FieldViewImageGlobal},
		{"editor", idxEditor, settings.FieldViewImageEditor},
		{"cpb", idxCPB, settings.FieldViewImageInCPB},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := newFakeHost(settings.Defaults())
			c := panel.New(host, nil, i18n.Identity)
			s := display(t, c)

			s.FireToggle(tt.index, false)

			if host.refreshes != 1 {
				t.Errorf("RefreshFeatureState called %d times, want 1", host.refreshes)
			}
			if len(host.saves) != 1 {
				t.Fatalf("SaveSettings called %d times, want 1", len(host.saves))
			}

			want := settings.Defaults()
			if err := want.SetBool(tt.field, false); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(want, host.saves[0]); diff != "" {
				t.Errorf("persisted record mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(want, host.rec); diff != "" {
				t.Errorf("live record mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestToggle_LinkSavesWithoutRefresh(t *testing.T) {
	host := newFakeHost(settings.Defaults())
	c := panel.New(host, nil, i18n.Identity)
	s := display(t, c)

	s.FireToggle(idxLink, true)

	if !host.rec.ViewImageWithALink {
		t.Error("ViewImageWithALink not written")
	}
	if host.refreshes != 0 {
		t.Errorf("RefreshFeatureState called %d times, want 0", host.refreshes)
	}
	if len(host.saves) != 1 {
		t.Errorf("SaveSettings called %d times, want 1", len(host.saves))
	}
}

func TestSlider_UpdatesReadoutRecordAndCache(t *testing.T) {
	host := newFakeHost(settings.Defaults())
	cache := panel.NewLastKnownGood(host.rec)
	c := panel.New(host, cache, i18n.Identity)
	s := display(t, c)

	s.FireSlider(idxSpeed, 25)

	snap := s.Snapshot()
	if snap[idxSpeed].Readout != " 25" {
		t.Errorf("readout = %q, want %q", snap[idxSpeed].Readout, " 25")
	}
	if host.rec.ImageMoveSpeed != 25 {
		t.Errorf("record speed = %d, want 25", host.rec.ImageMoveSpeed)
	}
	if cache.MoveSpeed != 25 {
		t.Errorf("cache speed = %d, want 25", cache.MoveSpeed)
	}
	if host.refreshes != 0 {
		t.Errorf("RefreshFeatureState called %d times, want 0", host.refreshes)
	}
	if len(host.saves) != 1 || host.saves[0].ImageMoveSpeed != 25 {
		t.Errorf("saves = %+v, want one save with speed 25", host.saves)
	}
}

func TestSetMoveSpeed_Clamps(t *testing.T) {
	host := newFakeHost(settings.Defaults())
	c := panel.New(host, nil, i18n.Identity)
	s := display(t, c)

	c.SetMoveSpeed(99)
	if host.rec.ImageMoveSpeed != 30 {
		t.Errorf("speed = %d, want 30", host.rec.ImageMoveSpeed)
	}
	snap := s.Snapshot()
	if snap[idxSpeed].Number != 30 || snap[idxSpeed].Readout != " 30" {
		t.Errorf("slider = %d %q, want 30 \" 30\"", snap[idxSpeed].Number, snap[idxSpeed].Readout)
	}

	c.SetMoveSpeed(-4)
	if host.rec.ImageMoveSpeed != 1 || c.Cache().MoveSpeed != 1 {
		t.Errorf("speed = %d cache = %d, want 1", host.rec.ImageMoveSpeed, c.Cache().MoveSpeed)
	}
}

func TestDropdown_CacheSurvivesReopen(t *testing.T) {
	host := newFakeHost(settings.Defaults())
	cache := panel.NewLastKnownGood(host.rec)

	first := panel.New(host, cache, i18n.Identity)
	s := display(t, first)
	s.FireDropdown(idxMode, "FILL")
	first.Dispose()

	if host.rec.FullScreenMode != settings.ModeFill {
		t.Errorf("record mode = %v, want FILL", host.rec.FullScreenMode)
	}
	if len(host.saves) != 1 || host.saves[0].FullScreenMode != settings.ModeFill {
		t.Errorf("saves = %+v, want one save with FILL", host.saves)
	}

	// A fresh panel over the same cache pre-selects the last choice even
	// though the static default is FIT.
	reopened := panel.New(host, cache, i18n.Identity)
	s2 := display(t, reopened)
	if got := s2.Snapshot()[idxMode].Selected; got != "FILL" {
		t.Errorf("reopened selection = %q, want FILL", got)
	}
	if settings.Defaults().FullScreenMode != settings.ModeFit {
		t.Error("static default changed")
	}
}

func TestDropdown_InitialSelectionFromCache(t *testing.T) {
	host := newFakeHost(settings.Defaults())
	cache := &panel.LastKnownGood{MoveSpeed: 10, FullScreenMode: settings.ModeStretch}

	c := panel.New(host, cache, i18n.Identity)
	s := display(t, c)
	if got := s.Snapshot()[idxMode].Selected; got != "STRETCH" {
		t.Errorf("selection = %q, want cache value STRETCH", got)
	}
}

func TestDropdown_InvalidModeIgnored(t *testing.T) {
	host := newFakeHost(settings.Defaults())
	cache := panel.NewLastKnownGood(host.rec)
	c := panel.New(host, cache, i18n.Identity)
	s := display(t, c)

	s.FireDropdown(idxMode, "ZOOM")

	if host.rec.FullScreenMode != settings.ModeFit {
		t.Errorf("record mode = %v, want FIT retained", host.rec.FullScreenMode)
	}
	if cache.FullScreenMode != settings.ModeFit {
		t.Errorf("cache mode = %v, want FIT retained", cache.FullScreenMode)
	}
	if len(host.saves) != 0 {
		t.Errorf("invalid mode persisted %d times", len(host.saves))
	}
	if got := s.Snapshot()[idxMode].Selected; got != "FIT" {
		t.Errorf("dropdown selection = %q, want reset to FIT", got)
	}

	if err := c.SetFullScreenMode("ZOOM"); !errors.Is(err, settings.ErrInvalidMode) {
		t.Errorf("SetFullScreenMode error = %v, want ErrInvalidMode", err)
	}
}

func TestDispose_IgnoresStaleSurface(t *testing.T) {
	host := newFakeHost(settings.Defaults())
	c := panel.New(host, nil, i18n.Identity)
	old := display(t, c)

	c.Dispose()
	old.FireToggle(idxGlobal, false)
	if !host.rec.ViewImageGlobal || len(host.saves) != 0 {
		t.Error("edit from disposed surface was applied")
	}

	// Re-displaying also invalidates the previous surface.
	current := display(t, c)
	old.FireSlider(idxSpeed, 5)
	if host.rec.ImageMoveSpeed != settings.DefaultMoveSpeed {
		t.Error("edit from replaced surface was applied")
	}
	current.FireSlider(idxSpeed, 5)
	if host.rec.ImageMoveSpeed != 5 {
		t.Errorf("speed = %d, want 5", host.rec.ImageMoveSpeed)
	}
}

func TestSet_ScriptedEditsSyncDisplayedControls(t *testing.T) {
	host := newFakeHost(settings.Defaults())
	c := panel.New(host, nil, i18n.Identity)
	s := display(t, c)

	if err := c.Set(settings.FieldViewImageEditor, false); err != nil {
		t.Fatalf("Set toggle error = %v", err)
	}
	if err := c.Set(settings.FieldImageMoveSpeed, float64(20)); err != nil {
		t.Fatalf("Set speed error = %v", err)
	}
	if err := c.Set(settings.FieldFullScreenMode, "STRETCH"); err != nil {
		t.Fatalf("Set mode error = %v", err)
	}

	snap := s.Snapshot()
	if snap[idxEditor].On {
		t.Error("editor toggle not synced")
	}
	if snap[idxSpeed].Number != 20 || snap[idxSpeed].Readout != " 20" {
		t.Errorf("slider = %d %q, want 20", snap[idxSpeed].Number, snap[idxSpeed].Readout)
	}
	if snap[idxMode].Selected != "STRETCH" {
		t.Errorf("dropdown = %q, want STRETCH", snap[idxMode].Selected)
	}
	if host.refreshes != 1 || len(host.saves) != 3 {
		t.Errorf("refreshes=%d saves=%d, want 1 and 3", host.refreshes, len(host.saves))
	}
}

func TestSet_Errors(t *testing.T) {
	host := newFakeHost(settings.Defaults())
	c := panel.New(host, nil, i18n.Identity)

	tests := []struct {
		field   string
		value   any
		wantErr error
	}{
		{"nope", true, settings.ErrUnknownField},
		{settings.FieldViewImageToggle, false, panel.ErrNotEditable},
		{settings.FieldViewImageGlobal, "false", nil},
		{settings.FieldImageMoveSpeed, 2.5, settings.ErrTypeMismatch},
		{settings.FieldImageMoveSpeed, "fast", settings.ErrTypeMismatch},
		{settings.FieldFullScreenMode, 1, settings.ErrTypeMismatch},
		{settings.FieldFullScreenMode, "ZOOM", settings.ErrInvalidMode},
	}

	for _, tt := range tests {
		err := c.Set(tt.field, tt.value)
		if err == nil {
			t.Errorf("Set(%s, %v) succeeded, want error", tt.field, tt.value)
			continue
		}
		if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
			t.Errorf("Set(%s, %v) error = %v, want %v", tt.field, tt.value, err, tt.wantErr)
		}
	}

	if diff := cmp.Diff(settings.Defaults(), host.rec); diff != "" {
		t.Errorf("failed edits changed the record (-want +got):\n%s", diff)
	}
	if len(host.saves) != 0 || host.refreshes != 0 {
		t.Errorf("failed edits had side effects: saves=%d refreshes=%d", len(host.saves), host.refreshes)
	}

	if err := c.SetToggle(settings.FieldImageMoveSpeed, true); !errors.Is(err, settings.ErrUnknownField) {
		t.Errorf("SetToggle on slider field error = %v", err)
	}
}

func TestController_PublishesChanges(t *testing.T) {
	host := newFakeHost(settings.Defaults())
	n := notify.New()
	var changes []notify.Change
	n.Subscribe(func(ch notify.Change) { changes = append(changes, ch) })

	c := panel.New(host, nil, i18n.Identity, panel.WithNotifier(n), panel.WithSource("lua"))
	c.SetMoveSpeed(7)
	_ = c.SetFullScreenMode("FILL")
	_ = c.SetFullScreenMode("BAD")

	want := []notify.Change{
		{Field: settings.FieldImageMoveSpeed, Type: notify.ChangeSet, OldValue: 10, NewValue: 7, Source: "lua"},
		{Field: settings.FieldFullScreenMode, Type: notify.ChangeSet, OldValue: "FIT", NewValue: "FILL", Source: "lua"},
	}
	if diff := cmp.Diff(want, changes); diff != "" {
		t.Errorf("changes mismatch (-want +got):\n%s", diff)
	}
}

func TestReadout(t *testing.T) {
	if got := panel.Readout(25); got != " 25" {
		t.Errorf("Readout(25) = %q", got)
	}
}

func TestTabInterface(t *testing.T) {
	var tab panel.Tab = panel.New(newFakeHost(settings.Defaults()), nil, nil)
	s := memsurface.New()
	tab.Display(s)
	if s.Snapshot()[idxHeading].Name != i18n.KeySettingsTitle {
		t.Error("nil translate should render raw keys")
	}
	tab.Dispose()
}
