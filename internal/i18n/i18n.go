// Package i18n provides display strings for the settings panel.
package i18n

import (
	"golang.org/x/text/language"
)

// Translation keys.
const (
	KeySettingsTitle          = "IMAGE_TOOLKIT_SETTINGS_TITLE"
	KeyViewImageGlobalName    = "VIEW_IMAGE_GLOBAL_NAME"
	KeyViewImageGlobalDesc    = "VIEW_IMAGE_GLOBAL_DESC"
	KeyViewImageEditorName    = "VIEW_IMAGE_EDITOR_NAME"
	KeyViewImageEditorDesc    = "VIEW_IMAGE_EDITOR_DESC"
	KeyViewImageInCPBName     = "VIEW_IMAGE_IN_CPB_NAME"
	KeyViewImageInCPBDesc     = "VIEW_IMAGE_IN_CPB_DESC"
	KeyViewImageWithALinkName = "VIEW_IMAGE_WITH_A_LINK_NAME"
	KeyViewImageWithALinkDesc = "VIEW_IMAGE_WITH_A_LINK_DESC"
	KeyMoveSpeedName          = "IMAG_MOVE_SPEED_NAME"
	KeyMoveSpeedDesc          = "IMAG_MOVE_SPEED_DESC"
	KeyFullScreenModeName     = "IMG_FULL_SCREEN_MODE_NAME"
	KeyModeFit                = "FIT"
	KeyModeFill               = "FILL"
	KeyModeStretch            = "STRETCH"
)

// Func maps a translation key to a display string.
type Func func(key string) string

// Identity returns keys unchanged. Useful in tests.
func Identity(key string) string {
	return key
}

var supported = []language.Tag{
	language.English,
	language.SimplifiedChinese,
	language.TraditionalChinese,
}

var catalogs = []map[string]string{
	english,
	simplifiedChinese,
	traditionalChinese,
}

var matcher = language.NewMatcher(supported)

// Translator looks up display strings in one catalog with English fallback.
type Translator struct {
	tag     language.Tag
	catalog map[string]string
}

// New returns a translator for the best supported match of locale, which
// may be a BCP 47 tag ("zh-CN") or an Accept-Language style list. Empty or
// unparseable locales select English.
func New(locale string) *Translator {
	idx := 0
	if locale != "" {
		if tags, _, err := language.ParseAcceptLanguage(locale); err == nil && len(tags) > 0 {
			_, idx, _ = matcher.Match(tags...)
		}
	}
	return &Translator{
		tag:     supported[idx],
		catalog: catalogs[idx],
	}
}

// Language returns the selected language tag.
func (t *Translator) Language() language.Tag {
	return t.tag
}

// T returns the display string for key. Missing keys fall back to English
// and then to the key itself.
func (t *Translator) T(key string) string {
	if s, ok := t.catalog[key]; ok {
		return s
	}
	if s, ok := english[key]; ok {
		return s
	}
	return key
}

// Func returns t.T as a Func.
func (t *Translator) Func() Func {
	return t.T
}
