package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the colour scheme of tables, plots and the live view.
type Theme struct {
	Name       string
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Labile     lipgloss.Color
	Refractory lipgloss.Color
	Inorganic  lipgloss.Color
	Biomass    lipgloss.Color
	Warning    lipgloss.Color
}

var (
	ThemeMarsh = Theme{
		Name:       "marsh",
		Primary:    lipgloss.Color("#6fbf73"),
		Secondary:  lipgloss.Color("#4a90a4"),
		Accent:     lipgloss.Color("#e3c567"),
		Text:       lipgloss.Color("#e8f0e8"),
		Muted:      lipgloss.Color("#667766"),
		Labile:     lipgloss.Color("#7fbf3f"),
		Refractory: lipgloss.Color("#8b5a2b"),
		Inorganic:  lipgloss.Color("#b0b0b0"),
		Biomass:    lipgloss.Color("#2e8b57"),
		Warning:    lipgloss.Color("#ff8800"),
	}

	ThemeEstuary = Theme{
		Name:       "estuary",
		Primary:    lipgloss.Color("#00a8cc"),
		Secondary:  lipgloss.Color("#0077be"),
		Accent:     lipgloss.Color("#ffd700"),
		Text:       lipgloss.Color("#e0f0ff"),
		Muted:      lipgloss.Color("#4488aa"),
		Labile:     lipgloss.Color("#5fd068"),
		Refractory: lipgloss.Color("#c08040"),
		Inorganic:  lipgloss.Color("#a0b8c8"),
		Biomass:    lipgloss.Color("#00ff88"),
		Warning:    lipgloss.Color("#ffcc00"),
	}

	ThemePeat = Theme{
		Name:       "peat",
		Primary:    lipgloss.Color("#c9a66b"),
		Secondary:  lipgloss.Color("#8b6b4c"),
		Accent:     lipgloss.Color("#ff9f43"),
		Text:       lipgloss.Color("#f5efe6"),
		Muted:      lipgloss.Color("#7a6a5a"),
		Labile:     lipgloss.Color("#a3b86c"),
		Refractory: lipgloss.Color("#5c3d2e"),
		Inorganic:  lipgloss.Color("#bfb5a8"),
		Biomass:    lipgloss.Color("#6b8e23"),
		Warning:    lipgloss.Color("#ff4757"),
	}

	ThemeMinimal = Theme{
		Name:       "minimal",
		Primary:    lipgloss.Color("#ffffff"),
		Secondary:  lipgloss.Color("#cccccc"),
		Accent:     lipgloss.Color("#0088ff"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#888888"),
		Labile:     lipgloss.Color("#dddddd"),
		Refractory: lipgloss.Color("#999999"),
		Inorganic:  lipgloss.Color("#666666"),
		Biomass:    lipgloss.Color("#ffffff"),
		Warning:    lipgloss.Color("#ffaa00"),
	}

	// Default theme
	CurrentTheme = ThemeMarsh

	Themes = []Theme{
		ThemeMarsh,
		ThemeEstuary,
		ThemePeat,
		ThemeMinimal,
	}
)

// GetTheme returns a theme by name, falling back to the default.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeMarsh
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
	CurrentTheme = ThemeMarsh
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
