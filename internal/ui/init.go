package ui

import (
	"context"
	"time"

	"ragchat/internal/session"
	"ragchat/internal/styles"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

const healthTimeout = 3 * time.Second

type Options struct {
	Client  Searcher
	BaseURL string
	Session *session.State
	Log     zerolog.Logger
}

func InitialModel(opts Options) Model {
	qi := textinput.New()
	qi.Placeholder = "Type your query..."
	qi.Prompt = "❯ "
	qi.CharLimit = 0
	qi.Width = 60
	qi.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B39DDB")).Bold(true)
	qi.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#545454"))
	qi.Focus()

	ki := textinput.New()
	ki.Placeholder = "top_k"
	ki.Prompt = "k "
	ki.CharLimit = TopKCharLimit
	ki.Width = TopKCharLimit + 1
	ki.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFCC80")).Bold(true)
	ki.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#545454"))

	sess := opts.Session
	if sess == nil {
		sess = session.New(session.Options{})
	}
	ki.SetValue(sess.TopK)
	qi.SetValue(sess.Query)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#B39DDB"))

	selected := 0
	for i, opt := range AvailableModes {
		if opt.Mode == sess.Mode {
			selected = i
		}
	}

	return Model{
		Viewport:          viewport.New(60, 15),
		ResourceView:      viewport.New(SidebarWidth-4, 15),
		ModeViewport:      viewport.New(ModalWidth-4, 6),
		QueryInput:        qi,
		TopKInput:         ki,
		Focus:             FocusQuery,
		Spinner:           sp,
		Client:            opts.Client,
		BaseURL:           opts.BaseURL,
		Session:           sess,
		Log:               opts.Log,
		SelectedModeIndex: selected,
		rendered:          map[string]string{},
		CopyToClipboard:   clipboard.WriteAll,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.HealthCmd(),
	)
}

// HealthCmd probes the backend once so the bottom bar can show whether it
// is reachable. It never blocks submissions.
func (m *Model) HealthCmd() tea.Cmd {
	client := m.Client
	if client == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
		defer cancel()
		return HealthMsg{Err: client.Health(ctx)}
	}
}

func NewProgram(opts Options) *tea.Program {
	styles.InitTheme()
	m := InitialModel(opts)
	return tea.NewProgram(&m, tea.WithAltScreen())
}
