package styles

import (
	"ragchat/internal/models"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines a complete color scheme for the application
type Theme struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color

	TextMuted lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	Border lipgloss.Color

	// Mode badges
	ModeNormal lipgloss.Color
	ModeSelf   lipgloss.Color
}

// DarkTheme is the dark mode color scheme
var DarkTheme = Theme{
	Primary:   lipgloss.Color("#818CF8"), // Indigo 400
	Secondary: lipgloss.Color("#22D3EE"), // Cyan 400

	TextMuted: lipgloss.Color("#64748B"), // Slate 500

	Success: lipgloss.Color("#34D399"), // Emerald 400
	Warning: lipgloss.Color("#FBBF24"), // Amber 400
	Error:   lipgloss.Color("#FB7185"), // Rose 400

	Border: lipgloss.Color("#27272A"), // Zinc 800

	ModeNormal: lipgloss.Color("#81D4FA"),
	ModeSelf:   lipgloss.Color("#CE93D8"),
}

// LightTheme is the light mode color scheme
var LightTheme = Theme{
	Primary:   lipgloss.Color("#4F46E5"), // Indigo 600
	Secondary: lipgloss.Color("#0891B2"), // Cyan 600

	TextMuted: lipgloss.Color("#A1A1AA"), // Zinc 400

	Success: lipgloss.Color("#10B981"), // Emerald 500
	Warning: lipgloss.Color("#F59E0B"), // Amber 500
	Error:   lipgloss.Color("#EF4444"), // Red 500

	Border: lipgloss.Color("#E4E4E7"), // Zinc 200

	ModeNormal: lipgloss.Color("#0288D1"),
	ModeSelf:   lipgloss.Color("#7B1FA2"),
}

// CurrentTheme holds the active theme (set at runtime based on terminal)
var CurrentTheme = DarkTheme

// ModeColor returns the badge color for a RAG mode
func ModeColor(mode models.RAGMode) lipgloss.Color {
	if mode == models.ModeSelfRAG {
		return CurrentTheme.ModeSelf
	}
	return CurrentTheme.ModeNormal
}

// InitTheme sets the current theme based on terminal background
func InitTheme() {
	if lipgloss.HasDarkBackground() {
		CurrentTheme = DarkTheme
	} else {
		CurrentTheme = LightTheme
	}
}
