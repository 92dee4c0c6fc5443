package ui

import (
	"context"
	"errors"

	"ragchat/internal/search"
	"ragchat/internal/session"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.Session.Pending == 0 {
			return m, nil
		}
		var spCmd tea.Cmd
		m.Spinner, spCmd = m.Spinner.Update(msg)
		m.UpdateViewport()
		return m, spCmd

	case tea.KeyMsg:
		if m.ModeSelectorOpen {
			return m.updateModeSelector(msg)
		}

		if m.ShortcutsOpen {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "esc", "enter", "?", "ctrl+s":
				m.ShortcutsOpen = false
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab", "shift+tab":
			m.toggleFocus()
			return m, nil

		case "ctrl+r":
			m.Session.CycleMode()
			m.syncModeSelection()
			m.Log.Debug().Str("mode", string(m.Session.Mode)).Msg("rag mode changed")
			return m, nil

		case "ctrl+t":
			if m.Session.ShowsNormalControls() {
				m.Session.CycleCategory()
				m.Log.Debug().Str("query_category", string(m.Session.Category)).Msg("query category changed")
			}
			return m, nil

		case "ctrl+k":
			if m.Session.ShowsNormalControls() {
				m.Session.ToggleRerank()
				m.Log.Debug().Bool("rerank", m.Session.Rerank).Msg("rerank changed")
			}
			return m, nil

		case "ctrl+b":
			m.ModeSelectorOpen = true
			m.ShortcutsOpen = false
			m.syncModeSelection()
			m.UpdateModeSelectorContent()
			return m, nil

		case "ctrl+s":
			m.ShortcutsOpen = true
			m.ModeSelectorOpen = false
			return m, nil

		case "ctrl+n":
			m.ResetSession()
			return m, nil

		case "ctrl+y":
			m.copyLastAnswer()
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.Viewport, vpCmd = m.Viewport.Update(msg)
			return m, vpCmd

		case "enter":
			return m, m.submit()
		}

	case SearchResultMsg:
		if err := m.Session.ApplyResult(msg.Request, msg.Result); err != nil {
			m.Log.Warn().
				Err(err).
				Str("request_id", msg.Request.ID).
				Msg("expected an array for resources, keeping previous list")
		} else {
			m.Log.Info().
				Str("request_id", msg.Request.ID).
				Int("resources", len(msg.Result.Resources)).
				Msg("search completed")
		}
		m.syncDraftFromSession()
		m.UpdateViewport()
		m.UpdateResourceView()
		return m, nil

	case SearchErrMsg:
		m.Log.Error().
			Err(msg.Err).
			Str("request_id", msg.Request.ID).
			Str("target", search.Target(msg.Request)).
			Msg("error fetching data")
		m.Session.ApplyFailure(msg.Request, msg.Err)
		m.syncDraftFromSession()
		m.UpdateViewport()
		return m, nil

	case HealthMsg:
		up := msg.Err == nil
		m.BackendUp = &up
		if msg.Err != nil {
			m.Log.Warn().Err(msg.Err).Str("base_url", m.BaseURL).Msg("search backend not reachable")
		} else {
			m.Log.Info().Str("base_url", m.BaseURL).Msg("search backend is running")
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.WindowWidth = msg.Width
		m.WindowHeight = msg.Height
		m.updateLayout()

		glamourStyle := "dark"
		if !lipgloss.HasDarkBackground() {
			glamourStyle = "light"
		}
		m.Renderer, _ = glamour.NewTermRenderer(
			glamour.WithStylePath(glamourStyle),
			glamour.WithWordWrap(m.Viewport.Width-4),
		)
		m.rendered = map[string]string{}
		m.UpdateViewport()
		m.UpdateResourceView()
		return m, nil
	}

	var qiCmd, kiCmd tea.Cmd
	m.QueryInput, qiCmd = m.QueryInput.Update(msg)
	m.TopKInput, kiCmd = m.TopKInput.Update(msg)
	m.syncDraftToSession()

	return m, tea.Batch(qiCmd, kiCmd)
}

func (m *Model) updateModeSelector(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc", "ctrl+b":
		m.ModeSelectorOpen = false
	case "up", "k":
		m.SelectedModeIndex--
		if m.SelectedModeIndex < 0 {
			m.SelectedModeIndex = len(AvailableModes) - 1
		}
		m.UpdateModeSelectorContent()
	case "down", "j":
		m.SelectedModeIndex++
		if m.SelectedModeIndex >= len(AvailableModes) {
			m.SelectedModeIndex = 0
		}
		m.UpdateModeSelectorContent()
	case "enter":
		m.Session.SetMode(AvailableModes[m.SelectedModeIndex].Mode)
		m.ModeSelectorOpen = false
		m.Log.Debug().Str("mode", string(m.Session.Mode)).Msg("rag mode selected")
	}
	return m, nil
}

// submit validates the draft and, if it passes, records the user turn and
// returns the command that performs the request. Overlapping submissions
// are allowed unless the session is single-flight.
func (m *Model) submit() tea.Cmd {
	m.syncDraftToSession()

	req, err := m.Session.Submit()
	if err != nil {
		switch {
		case errors.Is(err, session.ErrEmptyQuery):
			// ignored silently
		case errors.Is(err, session.ErrInvalidTopK):
			m.Log.Warn().Err(err).Str("top_k", m.Session.TopK).Msg("top_k is not positive integer")
		case errors.Is(err, session.ErrBusy):
			m.Log.Info().Int("pending", m.Session.Pending).Msg("submission rejected, request in flight")
		default:
			m.Log.Error().Err(err).Msg("submission failed")
		}
		return nil
	}

	m.Log.Info().
		Str("request_id", req.ID).
		Str("mode", string(req.Mode)).
		Str("target", search.Target(req)).
		Msg("search issued")

	m.Notice = ""
	m.UpdateViewport()
	return tea.Batch(m.SearchCmd(req), m.Spinner.Tick)
}

// SearchCmd runs one request off the update loop. There is no cancellation;
// the result is applied whenever it arrives.
func (m *Model) SearchCmd(req search.Request) tea.Cmd {
	client := m.Client
	return func() tea.Msg {
		res, err := client.Search(context.Background(), req)
		if err != nil {
			return SearchErrMsg{Request: req, Err: err}
		}
		return SearchResultMsg{Request: req, Result: res}
	}
}

func (m *Model) toggleFocus() {
	if m.Focus == FocusQuery {
		m.Focus = FocusTopK
		m.QueryInput.Blur()
		m.TopKInput.Focus()
		return
	}
	m.Focus = FocusQuery
	m.TopKInput.Blur()
	m.QueryInput.Focus()
}

func (m *Model) syncDraftToSession() {
	m.Session.Query = m.QueryInput.Value()
	m.Session.TopK = m.TopKInput.Value()
}

func (m *Model) syncDraftFromSession() {
	m.QueryInput.SetValue(m.Session.Query)
	m.TopKInput.SetValue(m.Session.TopK)
}

func (m *Model) syncModeSelection() {
	for i, opt := range AvailableModes {
		if opt.Mode == m.Session.Mode {
			m.SelectedModeIndex = i
			return
		}
	}
}

func (m *Model) copyLastAnswer() {
	answer, ok := m.Session.LastAnswer()
	if !ok {
		return
	}
	if err := m.CopyToClipboard(answer); err != nil {
		m.Log.Warn().Err(err).Msg("copy to clipboard failed")
		return
	}
	m.Notice = "Copied answer"
}

func (m *Model) updateLayout() {
	if m.WindowWidth == 0 || m.WindowHeight == 0 {
		return
	}

	// title + inputs + mode line + bottom bar
	const reserved = 11

	chatWidth := m.WindowWidth - 2
	bodyHeight := m.WindowHeight - reserved
	if bodyHeight < 6 {
		bodyHeight = 6
	}

	if m.Compact() {
		resourceHeight := bodyHeight / 3
		if resourceHeight < 3 {
			resourceHeight = 3
		}
		m.Viewport.Height = bodyHeight - resourceHeight - 2
		m.ResourceView.Width = chatWidth - 4
		m.ResourceView.Height = resourceHeight
	} else {
		chatWidth = m.WindowWidth - SidebarWidth - 2
		m.Viewport.Height = bodyHeight
		m.ResourceView.Width = SidebarWidth - 4
		m.ResourceView.Height = bodyHeight - 2
	}
	if m.Viewport.Height < 3 {
		m.Viewport.Height = 3
	}
	m.Viewport.Width = chatWidth - 2

	inputWidth := m.WindowWidth - TopKCharLimit - 16
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.QueryInput.Width = inputWidth
}

// Compact reports whether the resource panel sits under the chat
func (m *Model) Compact() bool {
	return m.WindowWidth < CompactWidthThresh
}

func (m *Model) ResetSession() {
	m.Session.Reset()
	m.syncDraftFromSession()
	m.rendered = map[string]string{}
	m.Notice = ""
	m.UpdateViewport()
	m.UpdateResourceView()
	m.Viewport.GotoTop()
}
