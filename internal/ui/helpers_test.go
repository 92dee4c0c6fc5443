package ui

import (
	"strings"
	"testing"

	"ragchat/internal/models"
	"ragchat/internal/session"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
)

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "", TruncateRunes("hello", 0))
	assert.Equal(t, "hello", TruncateRunes("hello", 5))
	assert.Equal(t, "…", TruncateRunes("hello", 1))
	assert.Equal(t, "hel…", TruncateRunes("hello", 4))

	// Wide runes count as two cells
	got := TruncateRunes("影響力の武器", 7)
	assert.LessOrEqual(t, runewidth.StringWidth(got), 7)
	assert.True(t, strings.HasSuffix(got, "…"))
}

func TestOneLine(t *testing.T) {
	assert.Equal(t, "a b c", OneLine("  a\n b\t\tc "))
}

func TestFormatResourceCard(t *testing.T) {
	card := FormatResourceCard(models.Resource{
		Topic:     "Fundamental Techniques",
		Title:     "Don't criticize, condemn or complain",
		Principle: "Criticism is futile because it puts a person on the defensive.",
	}, 40)

	assert.Contains(t, card, "Fundamental Techniques")
	assert.Contains(t, card, "Don't criticize")
	assert.Contains(t, card, "Criticism")
	for _, line := range strings.Split(card, "\n") {
		assert.LessOrEqual(t, runewidth.StringWidth(stripANSI(line)), 41)
	}
}

func TestFormatResourceCard_Empty(t *testing.T) {
	card := FormatResourceCard(models.Resource{}, 30)
	assert.Contains(t, card, untitled)
}

func TestRenderResources_CountMatchesCards(t *testing.T) {
	m, _ := newTestModel(t, &fakeSearcher{}, session.Options{})
	m.Session.Resources = []models.Resource{
		{Topic: "one", Title: "t1"},
		{Topic: "two", Title: "t2"},
		{Topic: "three", Title: "t3"},
	}

	out := m.RenderResources()
	assert.Contains(t, out, "Number of resources: 3")
	for _, topic := range []string{"one", "two", "three"} {
		assert.Contains(t, out, topic)
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			inEsc = false
		case !inEsc:
			b.WriteRune(r)
		}
	}
	return b.String()
}
