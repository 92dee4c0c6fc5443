// Package session holds the chat client's interaction state and the pure
// transitions applied to it. It knows nothing about rendering; the TUI
// drives it from its update loop, which is the only writer.
package session

import (
	"strconv"
	"strings"

	"ragchat/internal/models"
	"ragchat/internal/search"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	// ErrEmptyQuery is returned for blank queries. Callers ignore it silently.
	ErrEmptyQuery = errors.New("query is empty")
	// ErrInvalidTopK is returned when the result count is not a positive integer.
	ErrInvalidTopK = errors.New("top_k is not a positive integer")
	// ErrBusy is returned in single-flight mode while a request is pending.
	ErrBusy = errors.New("a request is already in flight")
	// ErrResourcesNotList is reported when a response's resource collection
	// was not array-shaped; the previous resources are kept.
	ErrResourcesNotList = errors.New("resource collection is not a list")
)

type State struct {
	Query string
	TopK  string

	Turns     []models.Turn
	Resources []models.Resource

	Mode     models.RAGMode
	Category models.QueryCategory
	Rerank   bool

	// Pending counts requests issued but not yet resolved
	Pending      int
	SingleFlight bool

	newID func() string
}

type Options struct {
	TopK         int
	Mode         models.RAGMode
	Category     models.QueryCategory
	Rerank       bool
	SingleFlight bool
}

func New(opts Options) *State {
	mode := opts.Mode
	if mode == "" {
		mode = models.ModeNormalRAG
	}
	category := opts.Category
	if category == "" {
		category = models.CategoryAuto
	}
	return &State{
		TopK:         strconv.Itoa(opts.TopK),
		Turns:        []models.Turn{},
		Resources:    []models.Resource{},
		Mode:         mode,
		Category:     category,
		Rerank:       opts.Rerank,
		SingleFlight: opts.SingleFlight,
		newID:        func() string { return uuid.NewString() },
	}
}

// Validate checks a draft without touching state and returns the parsed
// result count.
func Validate(query, topK string) (int, error) {
	if strings.TrimSpace(query) == "" {
		return 0, ErrEmptyQuery
	}
	n, err := strconv.Atoi(strings.TrimSpace(topK))
	if err != nil || n <= 0 {
		return 0, errors.Wrapf(ErrInvalidTopK, "got %q", topK)
	}
	return n, nil
}

// Submit validates the current draft. On success it records the user turn
// with the raw query text, marks a request pending and returns the request
// snapshot to send. On failure nothing changes.
func (s *State) Submit() (search.Request, error) {
	n, err := Validate(s.Query, s.TopK)
	if err != nil {
		return search.Request{}, err
	}
	if s.SingleFlight && s.Pending > 0 {
		return search.Request{}, ErrBusy
	}

	req := search.Request{
		ID:       s.newID(),
		Query:    s.Query,
		TopK:     n,
		Mode:     s.Mode,
		Category: s.Category,
		Rerank:   s.Rerank,
	}
	s.appendTurn(req.Query, models.SenderUser)
	s.Pending++
	return req, nil
}

// ApplyResult records a successful response. The resource list is replaced
// only when the response carried an array; otherwise it is left as-is and
// ErrResourcesNotList is returned for the caller to log.
func (s *State) ApplyResult(req search.Request, res models.SearchResult) error {
	s.resolve()
	s.appendTurn(res.Text, models.SenderBot)

	if !res.ResourcesValid {
		return errors.Wrapf(ErrResourcesNotList, "request %s", req.ID)
	}
	resources := make([]models.Resource, len(res.Resources))
	copy(resources, res.Resources)
	s.Resources = resources
	return nil
}

// ApplyFailure records a transport or decode failure: only the draft is
// cleared.
func (s *State) ApplyFailure(req search.Request, err error) {
	s.resolve()
}

func (s *State) resolve() {
	s.Query = ""
	if s.Pending > 0 {
		s.Pending--
	}
}

func (s *State) appendTurn(text string, sender models.Sender) {
	s.Turns = append(s.Turns, models.Turn{
		Key:    s.newID(),
		Text:   text,
		Sender: sender,
	})
}

// LastAnswer returns the text of the most recent bot turn.
func (s *State) LastAnswer() (string, bool) {
	for i := len(s.Turns) - 1; i >= 0; i-- {
		if s.Turns[i].Sender == models.SenderBot {
			return s.Turns[i].Text, true
		}
	}
	return "", false
}

func (s *State) ShowsNormalControls() bool {
	return s.Mode == models.ModeNormalRAG
}

func (s *State) SetMode(m models.RAGMode) {
	s.Mode = m
}

func (s *State) CycleMode() {
	s.Mode = next(models.RAGModes, s.Mode)
}

func (s *State) SetCategory(c models.QueryCategory) {
	s.Category = c
}

func (s *State) CycleCategory() {
	s.Category = next(models.QueryCategories, s.Category)
}

func (s *State) SetRerank(v bool) {
	s.Rerank = v
}

func (s *State) ToggleRerank() {
	s.Rerank = !s.Rerank
}

// Reset starts a fresh conversation. Mode selections and the result count
// carry over; in-flight requests still resolve into the new transcript.
func (s *State) Reset() {
	s.Query = ""
	s.Turns = []models.Turn{}
	s.Resources = []models.Resource{}
}

func next[T comparable](values []T, cur T) T {
	for i, v := range values {
		if v == cur {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}
