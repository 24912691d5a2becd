package bridge

import (
	"pairlog/pkg/models"
	"pairlog/pkg/store"
)

// Per-setting metadata keys, carried over from the legacy store so
// existing installations keep their preferences.
const (
	globalThemeKey   = "chat-app-global-theme"
	titleBarTextKey  = "chat-app-title-bar-text"
	fontKey          = "chat-backup-font"
	fontSizeKey      = "chat-backup-font-size"
	letterSpacingKey = "chat-backup-letter-spacing"
)

// Settings are the application-wide preferences that live outside any
// pair: the global UI theme and the typography knobs.
type Settings struct {
	GlobalTheme   map[string]string `json:"globalTheme"`
	TitleBarText  string            `json:"titleBarText"`
	Font          string            `json:"font"`
	FontSize      float64           `json:"fontSize"`
	LetterSpacing float64           `json:"letterSpacing"`
}

// DefaultSettings returns the out-of-the-box preferences.
func DefaultSettings() Settings {
	return Settings{
		GlobalTheme:   models.DefaultGlobalTheme(),
		TitleBarText:  "PairLog",
		Font:          "'Paperozi', sans-serif",
		FontSize:      15,
		LetterSpacing: 0,
	}
}

// LoadSettings assembles the settings from their per-key entries. Each
// key falls back to its default independently, so one corrupt entry
// cannot take the rest down with it.
func LoadSettings() Settings {
	s := DefaultSettings()
	store.LoadJSON(globalThemeKey, &s.GlobalTheme)
	store.LoadJSON(titleBarTextKey, &s.TitleBarText)
	store.LoadJSON(fontKey, &s.Font)
	store.LoadJSON(fontSizeKey, &s.FontSize)
	store.LoadJSON(letterSpacingKey, &s.LetterSpacing)
	return s
}

// SaveSettings persists every setting under its own key. The first
// failed write aborts; already-written keys stay, which is safe because
// each key is independently defaulted on load.
func SaveSettings(s Settings) error {
	writes := []struct {
		key string
		val any
	}{
		{globalThemeKey, s.GlobalTheme},
		{titleBarTextKey, s.TitleBarText},
		{fontKey, s.Font},
		{fontSizeKey, s.FontSize},
		{letterSpacingKey, s.LetterSpacing},
	}
	for _, w := range writes {
		if err := store.SaveJSON(w.key, w.val); err != nil {
			return err
		}
	}
	return nil
}
