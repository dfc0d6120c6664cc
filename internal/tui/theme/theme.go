// Package theme defines the color themes shared by CLI output, forms and the
// ledger dashboard.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme maps budget display roles to colors.
type Theme struct {
	Name string

	Background   lipgloss.Color
	Surface      lipgloss.Color // cards and panels
	SurfaceHover lipgloss.Color // active tab
	Border       lipgloss.Color
	BorderAccent lipgloss.Color

	TextDim      lipgloss.Color // hints, empty values
	TextMuted    lipgloss.Color // labels
	TextPrimary  lipgloss.Color
	Accent       lipgloss.Color
	AccentBright lipgloss.Color

	// Savings standing, best to worst.
	Good    lipgloss.Color
	Caution lipgloss.Color
	Warn    lipgloss.Color
	Bad     lipgloss.Color

	// Expense categories.
	Needs lipgloss.Color
	Wants lipgloss.Color

	Key lipgloss.Color // key bindings in help
}

// Active is the theme used for rendering.
var Active = FlexokiDark

// FlexokiDark is the default: warm paper tones on near-black.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Background:   lipgloss.Color("#100F0F"),
	Surface:      lipgloss.Color("#1C1B1A"),
	SurfaceHover: lipgloss.Color("#282726"),
	Border:       lipgloss.Color("#403E3C"),
	BorderAccent: lipgloss.Color("#3AA99F"),
	TextDim:      lipgloss.Color("#575653"),
	TextMuted:    lipgloss.Color("#878580"),
	TextPrimary:  lipgloss.Color("#FFFCF0"),
	Accent:       lipgloss.Color("#3AA99F"),
	AccentBright: lipgloss.Color("#5BC8BE"),
	Good:         lipgloss.Color("#879A39"),
	Caution:      lipgloss.Color("#D0A215"),
	Warn:         lipgloss.Color("#DA702C"),
	Bad:          lipgloss.Color("#D14D41"),
	Needs:        lipgloss.Color("#4385BE"),
	Wants:        lipgloss.Color("#CE5D97"),
	Key:          lipgloss.Color("#24837B"),
}

// CatppuccinMocha uses the Catppuccin Mocha pastels.
var CatppuccinMocha = Theme{
	Name:         "catppuccin-mocha",
	Background:   lipgloss.Color("#1E1E2E"),
	Surface:      lipgloss.Color("#313244"),
	SurfaceHover: lipgloss.Color("#45475A"),
	Border:       lipgloss.Color("#585B70"),
	BorderAccent: lipgloss.Color("#89B4FA"),
	TextDim:      lipgloss.Color("#6C7086"),
	TextMuted:    lipgloss.Color("#A6ADC8"),
	TextPrimary:  lipgloss.Color("#CDD6F4"),
	Accent:       lipgloss.Color("#89B4FA"),
	AccentBright: lipgloss.Color("#B4D0FB"),
	Good:         lipgloss.Color("#A6E3A1"),
	Caution:      lipgloss.Color("#F9E2AF"),
	Warn:         lipgloss.Color("#FAB387"),
	Bad:          lipgloss.Color("#F38BA8"),
	Needs:        lipgloss.Color("#89B4FA"),
	Wants:        lipgloss.Color("#F5C2E7"),
	Key:          lipgloss.Color("#94E2D5"),
}

// TokyoNight is a cool blue and purple palette.
var TokyoNight = Theme{
	Name:         "tokyo-night",
	Background:   lipgloss.Color("#1A1B26"),
	Surface:      lipgloss.Color("#24283B"),
	SurfaceHover: lipgloss.Color("#343A52"),
	Border:       lipgloss.Color("#565F89"),
	BorderAccent: lipgloss.Color("#7AA2F7"),
	TextDim:      lipgloss.Color("#565F89"),
	TextMuted:    lipgloss.Color("#A9B1D6"),
	TextPrimary:  lipgloss.Color("#C0CAF5"),
	Accent:       lipgloss.Color("#7AA2F7"),
	AccentBright: lipgloss.Color("#A9C1FF"),
	Good:         lipgloss.Color("#9ECE6A"),
	Caution:      lipgloss.Color("#E0AF68"),
	Warn:         lipgloss.Color("#FF9E64"),
	Bad:          lipgloss.Color("#F7768E"),
	Needs:        lipgloss.Color("#7AA2F7"),
	Wants:        lipgloss.Color("#BB9AF7"),
	Key:          lipgloss.Color("#7DCFFF"),
}

// Terminal sticks to the ANSI 16 colors so it follows the terminal's own scheme.
var Terminal = Theme{
	Name:         "terminal",
	Background:   lipgloss.Color("0"),
	Surface:      lipgloss.Color("0"),
	SurfaceHover: lipgloss.Color("8"),
	Border:       lipgloss.Color("8"),
	BorderAccent: lipgloss.Color("6"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("6"),
	AccentBright: lipgloss.Color("14"),
	Good:         lipgloss.Color("2"),
	Caution:      lipgloss.Color("3"),
	Warn:         lipgloss.Color("3"),
	Bad:          lipgloss.Color("1"),
	Needs:        lipgloss.Color("4"),
	Wants:        lipgloss.Color("5"),
	Key:          lipgloss.Color("6"),
}

// All available themes.
var All = []Theme{FlexokiDark, CatppuccinMocha, TokyoNight, Terminal}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

// Names lists the available theme names.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// Savings picks the color for a savings rate: Good at or above target,
// Caution from half the target, Warn when positive, Bad otherwise.
func (t Theme) Savings(percent, target float64) lipgloss.Color {
	switch {
	case percent >= target:
		return t.Good
	case percent >= target/2:
		return t.Caution
	case percent > 0:
		return t.Warn
	default:
		return t.Bad
	}
}
