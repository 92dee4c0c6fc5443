package ui

import (
	"context"

	"ragchat/internal/models"
	"ragchat/internal/search"
	"ragchat/internal/session"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog"
)

const (
	ModalWidth         = 60
	CompactWidthThresh = 100 // Width below which the resource panel moves under the chat
	SidebarWidth       = 42

	TopKCharLimit = 6
)

var AvailableModes = []models.ModeOption{
	{Mode: models.ModeNormalRAG, Name: "Normal-RAG", Description: "Adaptive retrieval with query category and rerank"},
	{Mode: models.ModeSelfRAG, Name: "Self-RAG", Description: "Self-reflective retrieval, grades its own context"},
}

// Searcher is the backend the view talks to
type Searcher interface {
	Search(ctx context.Context, req search.Request) (models.SearchResult, error)
	Health(ctx context.Context) error
}

// FocusField identifies which input receives typed keys
type FocusField int

const (
	FocusQuery FocusField = iota
	FocusTopK
)

type SearchResultMsg struct {
	Request search.Request
	Result  models.SearchResult
}

type SearchErrMsg struct {
	Request search.Request
	Err     error
}

type HealthMsg struct {
	Err error
}

type Model struct {
	Viewport     viewport.Model
	ResourceView viewport.Model
	ModeViewport viewport.Model
	QueryInput   textinput.Model
	TopKInput    textinput.Model
	Focus        FocusField
	Spinner      spinner.Model
	Client       Searcher
	BaseURL      string
	Session      *session.State
	Log          zerolog.Logger
	Renderer     *glamour.TermRenderer
	WindowWidth  int
	WindowHeight int

	ModeSelectorOpen  bool
	SelectedModeIndex int
	ShortcutsOpen     bool

	// BackendUp is nil until the startup health check reports
	BackendUp *bool
	Notice    string

	// Rendered bot answers keyed by turn key; dropped on resize
	rendered map[string]string

	CopyToClipboard func(string) error
}
