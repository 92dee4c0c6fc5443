package styles

import "github.com/charmbracelet/lipgloss"

var (
	ContentWidth = 54
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#B39DDB")).
			Padding(0, 1)

	UserLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#90CAF9")).
			Bold(true).
			Padding(0, 1).
			MarginRight(1)

	UserMsgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#E0E0E0"}).
			PaddingLeft(2).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("#90CAF9"))

	BotLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#B39DDB")).
			Bold(true).
			Padding(0, 1).
			MarginRight(1)

	BotMsgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#E0E0E0"}).
			PaddingTop(1).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("#B39DDB"))

	InputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#545454")).
			Padding(0, 1)

	FocusedInputBoxStyle = InputBoxStyle.
				BorderForeground(lipgloss.Color("#B39DDB"))

	// Resource panel
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333333")).
			Padding(0, 1)

	PanelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFCC80"))

	ResourceCountStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#888888")).
				MarginBottom(1)

	ResourceCardStyle = lipgloss.NewStyle().
				BorderLeft(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("#80CBC4")).
				PaddingLeft(1).
				MarginBottom(1)

	ResourceTopicStyle = lipgloss.NewStyle().Bold(true)

	ResourceTitleStyle = lipgloss.NewStyle().
				Italic(true).
				Foreground(lipgloss.Color("#90CAF9"))

	ResourcePrincipleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#BDBDBD"})

	// Mode line
	OptionLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#888888"))

	OptionValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFCC80")).
				Bold(true)

	WelcomeArtStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}).
			Bold(true)

	WelcomeSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#545454")).
				Italic(true)

	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#B39DDB")).
			Padding(1, 2)

	ModalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#B39DDB")).
			Width(ContentWidth).
			MarginBottom(1)

	ModalItemStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Width(ContentWidth)

	ModalSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Width(ContentWidth).
				Background(lipgloss.Color("#5C5C7A")).
				Foreground(lipgloss.Color("#FFFFFF"))

	DescStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	HintColor = lipgloss.Color("#545454")
)
