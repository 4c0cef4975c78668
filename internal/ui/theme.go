package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// StudyForge theme (CLI + TUI).

const (
	IconForge   = "⚒️"
	IconSparkle = "✨"
	IconXP      = "⭐"
	IconDone    = "✅"
	IconTrophy  = "🏆"
	IconBolt    = "⚡"
	IconShop    = "🛒"
	IconLock    = "🔒"
	IconIdle    = "💤"
	IconStreak  = "🔥"
	IconInfo    = "ℹ️"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconScroll  = "📜"
	IconPalette = "🎨"
	IconGear    = "⚙️"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	PanelTitle  = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)

	BadgeLevelUp = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("LEVEL UP")
)

// Palette is the accent colour pair of an unlockable theme.
type Palette struct {
	Primary lipgloss.Color
	Accent  lipgloss.Color
}

var palettes = map[string]Palette{
	"default":  {Primary: cPrimary, Accent: cAccent},
	"midnight": {Primary: lipgloss.Color("27"), Accent: lipgloss.Color("141")},
	"forest":   {Primary: lipgloss.Color("28"), Accent: lipgloss.Color("150")},
}

// PaletteFor returns the palette of a theme id, falling back to default.
func PaletteFor(theme string) Palette {
	if p, ok := palettes[theme]; ok {
		return p
	}
	return palettes["default"]
}

// Apply restyles the shared title styles with the theme's palette.
func Apply(theme string) {
	p := PaletteFor(theme)
	Title = Title.Foreground(p.Accent)
	H2 = H2.Foreground(p.Primary)
	Key = Key.Foreground(p.Primary)
	PanelTitle = PanelTitle.Foreground(p.Primary)
	SelectedRow = SelectedRow.Background(p.Primary)
}

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// MissionStatus renders a mission's claim state.
func MissionStatus(progress, target int, claimed bool) string {
	switch {
	case claimed:
		return Good.Render("claimed")
	case progress >= target:
		return Gold.Render("ready")
	default:
		return Muted.Render(fmt.Sprintf("%d/%d", progress, target))
	}
}

// OnOff renders a boolean setting.
func OnOff(v bool) string {
	if v {
		return Good.Render("on")
	}
	return Bad.Render("off")
}

// Bar renders a plain text progress bar of fraction (clamped to [0,1]).
func Bar(fraction float64, width int) string {
	if width <= 3 {
		width = 3
	}
	fraction = max(0, min(1, fraction))
	filled := min(int(fraction*float64(width)), width)
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}
