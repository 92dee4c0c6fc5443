package session

import (
	"errors"
	"fmt"
	"testing"

	"ragchat/internal/models"
	"ragchat/internal/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestState(opts Options) *State {
	s := New(opts)
	n := 0
	s.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return s
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		query string
		topK  string
		want  int
		err   error
	}{
		{"ok", "hello", "3", 3, nil},
		{"padded count", "hello", " 7 ", 7, nil},
		{"empty query", "", "3", 0, ErrEmptyQuery},
		{"whitespace query", " \t\n", "3", 0, ErrEmptyQuery},
		{"zero", "hello", "0", 0, ErrInvalidTopK},
		{"negative", "hello", "-5", 0, ErrInvalidTopK},
		{"not a number", "hello", "abc", 0, ErrInvalidTopK},
		{"trailing junk", "hello", "3abc", 0, ErrInvalidTopK},
		{"empty count", "hello", "", 0, ErrInvalidTopK},
		{"empty query wins", "", "abc", 0, ErrEmptyQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Validate(tt.query, tt.topK)
			if tt.err != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.err), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestSubmit_AppendsUserTurnWithRawText(t *testing.T) {
	s := newTestState(Options{TopK: 5, Mode: models.ModeNormalRAG, Category: models.CategoryFactual, Rerank: true})
	s.Query = "  hello  "

	req, err := s.Submit()
	require.NoError(t, err)

	require.Len(t, s.Turns, 1)
	assert.Equal(t, models.Turn{Key: "id-2", Text: "  hello  ", Sender: models.SenderUser}, s.Turns[0])
	assert.Equal(t, 1, s.Pending)
	assert.Equal(t, search.Request{
		ID:       "id-1",
		Query:    "  hello  ",
		TopK:     5,
		Mode:     models.ModeNormalRAG,
		Category: models.CategoryFactual,
		Rerank:   true,
	}, req)
	// The draft is kept until the request resolves
	assert.Equal(t, "  hello  ", s.Query)
}

func TestSubmit_InvalidDraftChangesNothing(t *testing.T) {
	for _, draft := range []struct{ query, topK string }{
		{"", "3"},
		{"   ", "3"},
		{"hello", "0"},
		{"hello", "-5"},
		{"hello", "abc"},
	} {
		t.Run(fmt.Sprintf("%q/%q", draft.query, draft.topK), func(t *testing.T) {
			s := newTestState(Options{TopK: 1})
			s.Query = draft.query
			s.TopK = draft.topK

			_, err := s.Submit()
			require.Error(t, err)
			assert.Empty(t, s.Turns)
			assert.Zero(t, s.Pending)
			assert.Equal(t, draft.query, s.Query)
		})
	}
}

func TestSubmit_OverlappingAllowedByDefault(t *testing.T) {
	s := newTestState(Options{TopK: 1})
	s.Query = "one"
	_, err := s.Submit()
	require.NoError(t, err)
	s.Query = "two"
	_, err = s.Submit()
	require.NoError(t, err)

	assert.Equal(t, 2, s.Pending)
	assert.Len(t, s.Turns, 2)
}

func TestSubmit_SingleFlightRejectsWhilePending(t *testing.T) {
	s := newTestState(Options{TopK: 1, SingleFlight: true})
	s.Query = "one"
	req, err := s.Submit()
	require.NoError(t, err)

	s.Query = "two"
	_, err = s.Submit()
	require.ErrorIs(t, err, ErrBusy)
	assert.Len(t, s.Turns, 1)

	s.ApplyFailure(req, errors.New("boom"))
	s.Query = "two"
	_, err = s.Submit()
	require.NoError(t, err)
}

func TestApplyResult_ReplacesResources(t *testing.T) {
	s := newTestState(Options{TopK: 1})
	s.Resources = []models.Resource{{Topic: "old"}, {Topic: "older"}}
	s.Query = "hello"
	req, err := s.Submit()
	require.NoError(t, err)

	err = s.ApplyResult(req, models.SearchResult{
		Text:           "answer",
		Resources:      []models.Resource{{Topic: "t", Title: "ti", Principle: "p"}},
		ResourcesValid: true,
	})
	require.NoError(t, err)

	require.Len(t, s.Turns, 2)
	assert.Equal(t, models.SenderBot, s.Turns[1].Sender)
	assert.Equal(t, "answer", s.Turns[1].Text)
	assert.Equal(t, []models.Resource{{Topic: "t", Title: "ti", Principle: "p"}}, s.Resources)
	assert.Empty(t, s.Query)
	assert.Zero(t, s.Pending)
}

func TestApplyResult_NonListKeepsPreviousResources(t *testing.T) {
	s := newTestState(Options{TopK: 1})
	prev := []models.Resource{{Topic: "kept"}}
	s.Resources = prev
	s.Query = "hello"
	req, err := s.Submit()
	require.NoError(t, err)

	err = s.ApplyResult(req, models.SearchResult{Text: "answer"})
	require.ErrorIs(t, err, ErrResourcesNotList)

	assert.Equal(t, prev, s.Resources)
	require.Len(t, s.Turns, 2)
	assert.Equal(t, "answer", s.Turns[1].Text)
	assert.Empty(t, s.Query)
}

func TestApplyFailure_OnlyClearsDraft(t *testing.T) {
	s := newTestState(Options{TopK: 1})
	s.Resources = []models.Resource{{Topic: "kept"}}
	s.Query = "hello"
	req, err := s.Submit()
	require.NoError(t, err)

	s.ApplyFailure(req, errors.New("connection refused"))

	assert.Len(t, s.Turns, 1)
	assert.Equal(t, []models.Resource{{Topic: "kept"}}, s.Resources)
	assert.Empty(t, s.Query)
	assert.Zero(t, s.Pending)
	assert.Equal(t, "1", s.TopK)
}

func TestApply_ResolutionOrder(t *testing.T) {
	s := newTestState(Options{TopK: 1})
	s.Query = "first"
	first, _ := s.Submit()
	s.Query = "second"
	second, _ := s.Submit()

	require.NoError(t, s.ApplyResult(second, models.SearchResult{Text: "B", ResourcesValid: true}))
	require.NoError(t, s.ApplyResult(first, models.SearchResult{Text: "A", ResourcesValid: true}))

	var texts []string
	for _, turn := range s.Turns {
		texts = append(texts, turn.Text)
	}
	assert.Equal(t, []string{"first", "second", "B", "A"}, texts)
}

func TestTurnKeysAreUnique(t *testing.T) {
	s := New(Options{TopK: 1})
	for i := 0; i < 20; i++ {
		s.Query = "q"
		req, err := s.Submit()
		require.NoError(t, err)
		require.NoError(t, s.ApplyResult(req, models.SearchResult{Text: "a", ResourcesValid: true}))
	}
	seen := map[string]bool{}
	for _, turn := range s.Turns {
		require.False(t, seen[turn.Key], "duplicate key %s", turn.Key)
		seen[turn.Key] = true
	}
}

func TestModeTransitions(t *testing.T) {
	s := New(Options{TopK: 1})
	assert.Equal(t, models.ModeNormalRAG, s.Mode)
	assert.Equal(t, models.CategoryAuto, s.Category)
	assert.True(t, s.ShowsNormalControls())

	s.CycleMode()
	assert.Equal(t, models.ModeSelfRAG, s.Mode)
	assert.False(t, s.ShowsNormalControls())
	s.CycleMode()
	assert.Equal(t, models.ModeNormalRAG, s.Mode)

	s.CycleCategory()
	assert.Equal(t, models.CategoryFactual, s.Category)
	s.CycleCategory()
	assert.Equal(t, models.CategoryAnalytical, s.Category)
	s.CycleCategory()
	assert.Equal(t, models.CategoryAuto, s.Category)

	s.ToggleRerank()
	assert.True(t, s.Rerank)
	s.SetRerank(false)
	assert.False(t, s.Rerank)

	s.SetMode(models.ModeSelfRAG)
	s.SetCategory(models.CategoryAnalytical)
	assert.Equal(t, models.CategoryAnalytical, s.Category)
}

func TestLastAnswerAndReset(t *testing.T) {
	s := newTestState(Options{TopK: 2, Mode: models.ModeSelfRAG})
	_, ok := s.LastAnswer()
	assert.False(t, ok)

	s.Query = "hello"
	req, err := s.Submit()
	require.NoError(t, err)
	require.NoError(t, s.ApplyResult(req, models.SearchResult{Text: "hi there", Resources: []models.Resource{{Topic: "t"}}, ResourcesValid: true}))

	got, ok := s.LastAnswer()
	require.True(t, ok)
	assert.Equal(t, "hi there", got)

	s.Reset()
	assert.Empty(t, s.Turns)
	assert.Empty(t, s.Resources)
	assert.Equal(t, models.ModeSelfRAG, s.Mode)
	assert.Equal(t, "2", s.TopK)
}
