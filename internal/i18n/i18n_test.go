package i18n

import (
	"testing"

	"golang.org/x/text/language"
)

func TestNew_Matching(t *testing.T) {
	tests := []struct {
		locale string
		want   language.Tag
	}{
		{"", language.English},
		{"en", language.English},
		{"en-GB", language.English},
		{"zh-CN", language.SimplifiedChinese},
		{"zh", language.SimplifiedChinese},
		{"zh-TW", language.TraditionalChinese},
		{"zh-Hant", language.TraditionalChinese},
		{"fr-FR, zh-CN;q=0.8", language.SimplifiedChinese},
		{"de", language.English},
		{"%%%", language.English},
	}

	for _, tt := range tests {
		got := New(tt.locale).Language()
		if got != tt.want {
			t.Errorf("New(%q).Language() = %v, want %v", tt.locale, got, tt.want)
		}
	}
}

func TestTranslator_T(t *testing.T) {
	en := New("en")
	if got := en.T(KeyModeFill); got != "Fill" {
		t.Errorf("en T(FILL) = %q, want Fill", got)
	}
	if got := en.T("NO_SUCH_KEY"); got != "NO_SUCH_KEY" {
		t.Errorf("missing key = %q, want key itself", got)
	}

	zh := New("zh-CN")
	if got := zh.T(KeyModeFill); got != "填充" {
		t.Errorf("zh T(FILL) = %q, want 填充", got)
	}
}

func TestCatalogs_Complete(t *testing.T) {
	for i, catalog := range catalogs {
		for key := range english {
			if _, ok := catalog[key]; !ok {
				t.Errorf("catalog %v missing %s", supported[i], key)
			}
		}
	}
}

func TestIdentity(t *testing.T) {
	var f Func = Identity
	if got := f(KeySettingsTitle); got != KeySettingsTitle {
		t.Errorf("Identity = %q", got)
	}
	if got := New("en").Func()(KeySettingsTitle); got != english[KeySettingsTitle] {
		t.Errorf("Func() = %q", got)
	}
}

func TestKeys_MatchLocaleCatalogs(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{KeySettingsTitle, "IMAGE_TOOLKIT_SETTINGS_TITLE"},
		{KeyViewImageGlobalName, "VIEW_IMAGE_GLOBAL_NAME"},
		{KeyViewImageEditorName, "VIEW_IMAGE_EDITOR_NAME"},
		{KeyViewImageInCPBName, "VIEW_IMAGE_IN_CPB_NAME"},
		{KeyViewImageWithALinkName, "VIEW_IMAGE_WITH_A_LINK_NAME"},
		{KeyMoveSpeedName, "IMAG_MOVE_SPEED_NAME"},
		{KeyMoveSpeedDesc, "IMAG_MOVE_SPEED_DESC"},
		{KeyFullScreenModeName, "IMG_FULL_SCREEN_MODE_NAME"},
	}

	for _, tt := range tests {
		if tt.key != tt.want {
			t.Errorf("key = %q, want %q", tt.key, tt.want)
		}
	}
	if got := New("en").T("IMAG_MOVE_SPEED_NAME"); got != "Moving the image" {
		t.Errorf("T(IMAG_MOVE_SPEED_NAME) = %q, want Moving the image", got)
	}
}
