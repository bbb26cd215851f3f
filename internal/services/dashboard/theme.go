package dashboard

const (
	ThemeLight = "light"
	ThemeDark  = "dark"

	// ThemeCookie stores the visitor's explicit choice.
	ThemeCookie = "theme"
	// ColorSchemeHint is the client hint carrying the system preference.
	ColorSchemeHint = "Sec-CH-Prefers-Color-Scheme"
)

// ResolveTheme picks the saved theme when there is one, otherwise the
// system preference, otherwise light.
func ResolveTheme(saved, systemHint string) string {
	switch saved {
	case ThemeDark, ThemeLight:
		return saved
	}
	if systemHint == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// Toggle flips between dark and light.
func Toggle(theme string) string {
	if theme == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ToggleLabel is the caption of the button that switches away from theme.
func ToggleLabel(theme string) string {
	if theme == ThemeDark {
		return "Light Mode"
	}
	return "Dark Mode"
}
