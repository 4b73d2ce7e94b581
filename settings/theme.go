package settings

import (
	"context"

	"github.com/horockey/rxprefs"
)

const ThemeNamespace = "theme_preferences"

const (
	ThemeModeSystem = "system"
	ThemeModeLight  = "light"
	ThemeModeDark   = "dark"
)

var ThemeModeKey = rxprefs.StringKey("theme_mode", ThemeModeSystem)

type ThemePreferences struct {
	ns *rxprefs.Namespace
}

func NewThemePreferences(ns *rxprefs.Namespace) *ThemePreferences {
	return &ThemePreferences{ns: ns}
}

func (tp *ThemePreferences) Namespace() *rxprefs.Namespace {
	return tp.ns
}

// ThemeMode emits stored modes as-is, including ones this version does not know.
func (tp *ThemePreferences) ThemeMode(ctx context.Context) <-chan string {
	return rxprefs.Observe(ctx, tp.ns, ThemeModeKey)
}

func (tp *ThemePreferences) SetThemeMode(ctx context.Context, mode string) error {
	switch mode {
	case ThemeModeSystem, ThemeModeLight, ThemeModeDark:
	default:
		return UnknownThemeModeError{Mode: mode}
	}
	return rxprefs.Set(ctx, tp.ns, ThemeModeKey, mode)
}
