package ui

import (
	"fmt"
	"strings"

	"ragchat/internal/models"
	"ragchat/internal/styles"

	"github.com/mattn/go-runewidth"
)

const untitled = "(untitled)"

// TruncateRunes shortens s to at most max display cells, ending in "…"
func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= max {
		return s
	}
	if max <= 1 {
		return "…"
	}
	return runewidth.Truncate(s, max, "…")
}

// OneLine collapses whitespace so a field renders on a single row
func OneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func FormatUserMessage(content string, width int, isFirst bool) string {
	label := styles.UserLabelStyle.Render("YOU")
	msgWidth := width - 4
	if msgWidth < 1 {
		msgWidth = 1
	}
	msg := styles.UserMsgStyle.Width(msgWidth).Render(content)
	if isFirst {
		return fmt.Sprintf("\n%s\n%s", label, msg)
	}
	return fmt.Sprintf("%s\n%s", label, msg)
}

func FormatBotMessage(content string) string {
	label := styles.BotLabelStyle.Render("RAG")
	msg := styles.BotMsgStyle.Render(content)
	return fmt.Sprintf("%s\n%s", label, msg)
}

// FormatResourceCard renders topic (bold), title (italic) and principle.
// Topic and title are kept to one line; the principle wraps.
func FormatResourceCard(r models.Resource, width int) string {
	inner := width - 2
	if inner < 4 {
		inner = 4
	}

	topic := OneLine(r.Topic)
	title := OneLine(r.Title)
	if topic == "" && title == "" {
		topic = untitled
	}

	lines := []string{styles.ResourceTopicStyle.Render(TruncateRunes(topic, inner))}
	if title != "" {
		lines = append(lines, styles.ResourceTitleStyle.Render(TruncateRunes(title, inner)))
	}
	if p := strings.TrimSpace(r.Principle); p != "" {
		lines = append(lines, styles.ResourcePrincipleStyle.Width(inner).Render(p))
	}

	return styles.ResourceCardStyle.Width(width).Render(strings.Join(lines, "\n"))
}
