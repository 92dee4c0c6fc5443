package ui

import (
	"fmt"
	"strings"

	"ragchat/internal/models"
	"ragchat/internal/styles"

	"github.com/charmbracelet/lipgloss"
)

func (m *Model) UpdateModeSelectorContent() {
	var items []string
	for i, opt := range AvailableModes {
		isSelected := i == m.SelectedModeIndex
		isCurrent := m.Session.Mode == opt.Mode

		displayName := "  " + opt.Name
		if isCurrent {
			displayName = "● " + opt.Name
		}

		var styledItem string
		if isSelected {
			styledItem = styles.ModalSelectedStyle.Copy().
				Width(styles.ContentWidth).
				Render(displayName)
		} else {
			style := styles.ModalItemStyle.Copy().Width(styles.ContentWidth)
			if isCurrent {
				style = style.Foreground(styles.ModeColor(opt.Mode))
			}
			styledItem = style.Render(displayName)
		}
		desc := styles.ModalItemStyle.Copy().
			Width(styles.ContentWidth).
			Render(styles.DescStyle.Render("    " + opt.Description))

		items = append(items, styledItem, desc)
	}

	m.ModeViewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, items...))
}

func (m *Model) RenderModeSelector() string {
	title := styles.ModalTitleStyle.Render("Select RAG Mode")
	content := lipgloss.JoinVertical(lipgloss.Left, title, m.ModeViewport.View())

	hint := lipgloss.NewStyle().
		Foreground(styles.HintColor).
		Width(styles.ContentWidth).
		PaddingTop(1).
		Render("↑/↓: navigate • Enter: select • Esc: close")

	return lipgloss.JoinVertical(lipgloss.Left, content, hint)
}

func (m *Model) RenderShortcutsModal() string {
	title := styles.ModalTitleStyle.Render("Keyboard Shortcuts")

	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send Query"},
		{"Tab", "Switch Query / top_k"},
		{"Ctrl+R", "Cycle RAG Mode"},
		{"Ctrl+B", "Select RAG Mode"},
		{"Ctrl+T", "Cycle Query Category"},
		{"Ctrl+K", "Toggle Rerank"},
		{"Ctrl+Y", "Copy Last Answer"},
		{"Ctrl+N", "New Session"},
		{"PgUp/PgDn", "Scroll Chat"},
		{"Ctrl+S", "View Shortcuts (this menu)"},
		{"Ctrl+C", "Quit Application"},
	}

	var items []string
	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFCC80")).
		Bold(true).
		Width(12)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#E0E0E0"))

	for _, s := range shortcuts {
		line := fmt.Sprintf("%s %s", keyStyle.Render(s.key), descStyle.Render(s.desc))
		items = append(items, styles.ModalItemStyle.Render(line))
	}

	listContent := lipgloss.JoinVertical(lipgloss.Left, items...)
	content := lipgloss.JoinVertical(lipgloss.Left, title, listContent)

	hint := lipgloss.NewStyle().
		Foreground(styles.HintColor).
		Width(styles.ContentWidth).
		PaddingTop(1).
		Render("Esc/Enter: close")

	return lipgloss.JoinVertical(lipgloss.Left, content, hint)
}

// RenderModeLine shows the active retrieval options. Category and rerank
// only exist for Normal-RAG and are hidden otherwise.
func (m *Model) RenderModeLine() string {
	parts := []string{
		styles.OptionLabelStyle.Render("RAG Mode: ") + styles.OptionValueStyle.Render(string(m.Session.Mode)),
	}
	if m.Session.ShowsNormalControls() {
		rerank := "No"
		if m.Session.Rerank {
			rerank = "Yes"
		}
		parts = append(parts,
			styles.OptionLabelStyle.Render("QueryMode: ")+styles.OptionValueStyle.Render(string(m.Session.Category)),
			styles.OptionLabelStyle.Render("Rerank: ")+styles.OptionValueStyle.Render(rerank),
		)
	}
	return strings.Join(parts, "   ")
}

// RenderResources lists the resources for the current answer. The card
// count always equals the length of the session's resource list.
func (m *Model) RenderResources() string {
	width := m.ResourceView.Width
	if width <= 0 {
		width = SidebarWidth - 4
	}

	resources := m.Session.Resources
	lines := []string{
		styles.ResourceCountStyle.Render(fmt.Sprintf("Number of resources: %d", len(resources))),
	}
	for _, r := range resources {
		lines = append(lines, FormatResourceCard(r, width))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) RenderBottomBar() string {
	modeColor := styles.ModeColor(m.Session.Mode)
	badge := "NORMAL"
	if m.Session.Mode == models.ModeSelfRAG {
		badge = "SELF"
	}
	mode := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(modeColor).
		Padding(0, 1).
		Render(badge)

	backendColor := styles.CurrentTheme.TextMuted
	backendText := TruncateRunes(m.BaseURL, 30)
	if m.BackendUp != nil {
		if *m.BackendUp {
			backendColor = styles.CurrentTheme.Success
			backendText = "● " + backendText
		} else {
			backendColor = styles.CurrentTheme.Error
			backendText = "○ " + backendText
		}
	}
	backend := lipgloss.NewStyle().Foreground(backendColor).Render(backendText)

	leftSide := lipgloss.JoinHorizontal(lipgloss.Center, mode, "  ", backend)

	var right []string
	if m.Notice != "" {
		right = append(right, lipgloss.NewStyle().Foreground(styles.CurrentTheme.Secondary).Render(m.Notice))
	}
	if m.Session.Pending > 0 {
		right = append(right, lipgloss.NewStyle().
			Foreground(styles.CurrentTheme.Warning).
			Render(fmt.Sprintf("%d pending", m.Session.Pending)))
	}
	right = append(right, lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666666")).
		Render(fmt.Sprintf("Turns:%d", len(m.Session.Turns))))
	right = append(right, lipgloss.NewStyle().
		Foreground(lipgloss.Color("#555555")).
		Render("Help: ^S"))
	rightSide := strings.Join(right, "  ")

	availableWidth := m.WindowWidth - lipgloss.Width(leftSide) - lipgloss.Width(rightSide) - 2
	if availableWidth < 0 {
		availableWidth = 0
	}
	spacer := strings.Repeat(" ", availableWidth)

	bar := lipgloss.JoinHorizontal(lipgloss.Center, leftSide, spacer, rightSide)

	return lipgloss.NewStyle().
		Width(m.WindowWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.CurrentTheme.Border).
		Padding(0, 1).
		Render(bar)
}

func GetWelcomeScreen(width, height int) string {
	art := `
 ╭────────────────────────────────────────────╮
 │                                            │
 │   ██████   █████   ██████                  │
 │   ██   ██ ██   ██ ██        chat           │
 │   ██████  ███████ ██   ███                 │
 │   ██   ██ ██   ██ ██    ██                 │
 │   ██   ██ ██   ██  ██████                  │
 │                                            │
 ╰────────────────────────────────────────────╯
`
	subtitle := "Ask a question. Tab to set top_k, Ctrl+R to switch mode."

	styledArt := styles.WelcomeArtStyle.Render(art)
	styledSubtitle := styles.WelcomeSubtitleStyle.Render(subtitle)

	content := lipgloss.JoinVertical(lipgloss.Center, styledArt, "", styledSubtitle)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) UpdateViewport() {
	if len(m.Session.Turns) == 0 && m.Session.Pending == 0 {
		m.Viewport.SetContent(GetWelcomeScreen(m.Viewport.Width, m.Viewport.Height))
		return
	}

	parts := make([]string, 0, len(m.Session.Turns)+1)
	for i, turn := range m.Session.Turns {
		parts = append(parts, m.renderTurn(turn, i == 0))
	}
	if m.Session.Pending > 0 {
		loading := fmt.Sprintf("%s\n%s Searching...", styles.BotLabelStyle.Render("RAG"), m.Spinner.View())
		parts = append(parts, loading)
	}
	m.Viewport.SetContent(strings.Join(parts, "\n\n"))
	m.Viewport.GotoBottom()
}

func (m *Model) UpdateResourceView() {
	m.ResourceView.SetContent(m.RenderResources())
	m.ResourceView.GotoTop()
}

func (m *Model) renderTurn(turn models.Turn, isFirst bool) string {
	if turn.Sender == models.SenderUser {
		return FormatUserMessage(turn.Text, m.Viewport.Width, isFirst)
	}
	if cached, ok := m.rendered[turn.Key]; ok {
		return cached
	}
	content := turn.Text
	if m.Renderer != nil {
		if rendered, err := m.Renderer.Render(turn.Text); err == nil {
			content = strings.TrimSpace(rendered)
		}
	}
	out := FormatBotMessage(content)
	m.rendered[turn.Key] = out
	return out
}

func (m *Model) renderInputs() string {
	queryStyle := styles.InputBoxStyle
	topKStyle := styles.InputBoxStyle
	if m.Focus == FocusQuery {
		queryStyle = styles.FocusedInputBoxStyle
	} else {
		topKStyle = styles.FocusedInputBoxStyle
	}

	topKBox := topKStyle.Width(TopKCharLimit + 6).Render(m.TopKInput.View())
	queryWidth := m.WindowWidth - lipgloss.Width(topKBox) - 4
	if queryWidth < 14 {
		queryWidth = 14
	}
	queryBox := queryStyle.Width(queryWidth).Render(m.QueryInput.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, queryBox, topKBox)
}

func (m *Model) renderResourcePanel() string {
	title := styles.PanelTitleStyle.Render("Resource Collection")
	body := lipgloss.JoinVertical(lipgloss.Left, title, m.ResourceView.View())
	return styles.PanelStyle.Width(m.ResourceView.Width + 2).Render(body)
}

func (m *Model) View() string {
	var body string
	if m.Compact() {
		body = lipgloss.JoinVertical(lipgloss.Left, m.Viewport.View(), m.renderResourcePanel())
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.Viewport.View(), "  ", m.renderResourcePanel())
	}

	chatContent := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("RAG CHAT"),
		"",
		body,
		"",
		m.renderInputs(),
		" "+m.RenderModeLine(),
	)
	chatArea := lipgloss.PlaceHorizontal(m.WindowWidth, lipgloss.Center, chatContent)
	content := lipgloss.JoinVertical(lipgloss.Left, chatArea, m.RenderBottomBar())

	var modal string
	switch {
	case m.ModeSelectorOpen:
		modal = m.RenderModeSelector()
	case m.ShortcutsOpen:
		modal = m.RenderShortcutsModal()
	default:
		return content
	}

	modal = styles.ModalStyle.Width(ModalWidth).Render(modal)
	return lipgloss.Place(
		m.WindowWidth,
		m.WindowHeight,
		lipgloss.Center,
		lipgloss.Center,
		modal,
	)
}
