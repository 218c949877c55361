package model

// Font sizes accepted by the UI.
const (
	FontSmall  = "small"
	FontMedium = "medium"
	FontLarge  = "large"
)

// Themes accepted by the UI.
const (
	ThemeSystem = "system"
	ThemeLight  = "light"
	ThemeDark   = "dark"
)

// Settings is the flat user-preference record. Every field is
// independently stored and independently defaulted.
type Settings struct {
	APIKey       string `json:"-"` // never serialized alongside the rest
	FontSize     string `json:"fontSize"`
	AutoSave     bool   `json:"autoSave"`
	SoundEnabled bool   `json:"soundEnabled"`
	Theme        string `json:"theme"`
}

// DefaultSettings returns the documented defaults: medium font, autosave
// on, sound off, system theme, no credential.
func DefaultSettings() Settings {
	return Settings{
		FontSize:     FontMedium,
		AutoSave:     true,
		SoundEnabled: false,
		Theme:        ThemeSystem,
	}
}

// ValidFontSize reports whether s is a member of the font-size enum.
func ValidFontSize(s string) bool {
	return s == FontSmall || s == FontMedium || s == FontLarge
}

// ValidTheme reports whether s is a member of the theme enum.
func ValidTheme(s string) bool {
	return s == ThemeSystem || s == ThemeLight || s == ThemeDark
}
