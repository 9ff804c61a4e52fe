package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Theme represents a color theme for the TUI
type Theme struct {
	Name string

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Accent    lipgloss.AdaptiveColor

	// Verdict colors
	AI    lipgloss.AdaptiveColor
	Human lipgloss.AdaptiveColor

	Warning lipgloss.AdaptiveColor
	Error   lipgloss.AdaptiveColor

	Border   lipgloss.AdaptiveColor
	Muted    lipgloss.AdaptiveColor
	Selected lipgloss.AdaptiveColor
}

// palette is [light, dark] per role, in Theme field order
type palette struct {
	primary, secondary, accent, ai, human, warning, errorColor, border, muted, selected [2]string
}

func buildTheme(name string, p palette) Theme {
	c := func(v [2]string) lipgloss.AdaptiveColor {
		return lipgloss.AdaptiveColor{Light: v[0], Dark: v[1]}
	}
	return Theme{
		Name:      name,
		Primary:   c(p.primary),
		Secondary: c(p.secondary),
		Accent:    c(p.accent),
		AI:        c(p.ai),
		Human:     c(p.human),
		Warning:   c(p.warning),
		Error:     c(p.errorColor),
		Border:    c(p.border),
		Muted:     c(p.muted),
		Selected:  c(p.selected),
	}
}

// Available themes
var (
	DefaultTheme = buildTheme("default", palette{
		primary:    [2]string{"#4338CA", "#818CF8"},
		secondary:  [2]string{"#6B7280", "#9CA3AF"},
		accent:     [2]string{"#7C3AED", "#A855F7"},
		ai:         [2]string{"#DC2626", "#F87171"},
		human:      [2]string{"#059669", "#34D399"},
		warning:    [2]string{"#D97706", "#F59E0B"},
		errorColor: [2]string{"#B91C1C", "#EF4444"},
		border:     [2]string{"#D1D5DB", "#475569"},
		muted:      [2]string{"#6B7280", "#94A3B8"},
		selected:   [2]string{"#E0E7FF", "#312E81"},
	})

	HighContrastTheme = buildTheme("high-contrast", palette{
		primary:    [2]string{"#000000", "#FFFFFF"},
		secondary:  [2]string{"#333333", "#DDDDDD"},
		accent:     [2]string{"#000080", "#8080FF"},
		ai:         [2]string{"#CC0000", "#FF4444"},
		human:      [2]string{"#006600", "#00FF00"},
		warning:    [2]string{"#CC6600", "#FFAA00"},
		errorColor: [2]string{"#CC0000", "#FF4444"},
		border:     [2]string{"#000000", "#FFFFFF"},
		muted:      [2]string{"#444444", "#BBBBBB"},
		selected:   [2]string{"#FFFF00", "#444444"},
	})

	MinimalTheme = buildTheme("minimal", palette{
		primary:    [2]string{"#2D3748", "#E2E8F0"},
		secondary:  [2]string{"#718096", "#A0AEC0"},
		accent:     [2]string{"#4A5568", "#CBD5E0"},
		ai:         [2]string{"#C53030", "#FC8181"},
		human:      [2]string{"#2F855A", "#68D391"},
		warning:    [2]string{"#C05621", "#F6AD55"},
		errorColor: [2]string{"#C53030", "#FC8181"},
		border:     [2]string{"#E2E8F0", "#2D3748"},
		muted:      [2]string{"#A0AEC0", "#718096"},
		selected:   [2]string{"#EDF2F7", "#2D3748"},
	})
)

var currentTheme = DefaultTheme

// GetTheme returns the current active theme
func GetTheme() Theme {
	return currentTheme
}

// SetTheme sets the active theme
func SetTheme(theme *Theme) {
	currentTheme = *theme
}

// SetThemeByName sets the theme by name
func SetThemeByName(name string) bool {
	switch name {
	case "", "default":
		SetTheme(&DefaultTheme)
		return true
	case "high-contrast":
		SetTheme(&HighContrastTheme)
		return true
	case "minimal":
		SetTheme(&MinimalTheme)
		return true
	default:
		return false
	}
}

// IsColorDisabled checks if colors should be disabled
func IsColorDisabled() bool {
	return os.Getenv("NO_COLOR") != ""
}

// GetAvailableThemes returns list of available theme names
func GetAvailableThemes() []string {
	return []string{"default", "high-contrast", "minimal"}
}

// Styles contains all the styled components
type Styles struct {
	Theme Theme

	Title  lipgloss.Style
	Body   lipgloss.Style
	Muted  lipgloss.Style
	Error  lipgloss.Style
	Notice lipgloss.Style

	TabActive   lipgloss.Style
	TabInactive lipgloss.Style

	Button         lipgloss.Style
	ButtonDisabled lipgloss.Style

	Spinner lipgloss.Style
	Box     lipgloss.Style
}

// GetStyles returns styles built from the current theme
func GetStyles() *Styles {
	theme := GetTheme()

	return &Styles{
		Theme: theme,

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			Padding(0, 1),

		Body: lipgloss.NewStyle(),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error).
			Bold(true),

		Notice: lipgloss.NewStyle().
			Foreground(theme.Warning),

		TabActive: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Primary).
			Foreground(theme.Primary).
			Bold(true).
			Padding(0, 2),

		TabInactive: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Foreground(theme.Secondary).
			Padding(0, 2),

		Button: lipgloss.NewStyle().
			Background(theme.Accent).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 2),

		ButtonDisabled: lipgloss.NewStyle().
			Background(theme.Border).
			Foreground(theme.Muted).
			Padding(0, 2),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Accent),

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(1, 2),
	}
}
