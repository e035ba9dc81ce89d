package notes

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/shortnote/shortnote-bot/calendar"
	"github.com/shortnote/shortnote-bot/messages"
)

const (
	progressCells = 10
	summaryRunes  = 15

	divider = "------------------------------------\n"
)

// EventResult is a created event as shown in the final reply.
type EventResult struct {
	ID      string
	Link    string
	Summary string
}

func NewEventResult(event *calendar.Event) EventResult {
	return EventResult{
		ID:      event.ID,
		Link:    event.HTMLLink,
		Summary: truncate(event.Summary, summaryRunes) + "...",
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// Outcome aggregates what one message produced.
type Outcome struct {
	Created   []EventResult
	Notes     []string
	Total     int
	Completed int
}

// Complete reports whether every dated note became an event.
func (o Outcome) Complete() bool {
	return o.Completed == o.Total
}

func percentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// ProgressBar renders ten cells, one filled per full ten percent.
func ProgressBar(completed, total int) string {
	filled := percentage(completed, total) / 10
	if filled > progressCells {
		filled = progressCells
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", progressCells-filled)
}

func RenderProgress(texts messages.Texts, completed, total int) string {
	return fmt.Sprintf("%s\n[%s] %d%%", texts.Processing, ProgressBar(completed, total), percentage(completed, total))
}

// RenderSummary renders the final reply in Telegram HTML. Each block appears
// only when it has content, and the divider only between two blocks.
func RenderSummary(texts messages.Texts, o Outcome) string {
	var b strings.Builder

	if len(o.Created) > 0 {
		fmt.Fprintf(&b, "<b>%s</b>\n<blockquote>", html.EscapeString(texts.CreatedTitle))
		for _, r := range o.Created {
			fmt.Fprintf(&b, "✅ %s <a href=\"%s\">%s</a>\n",
				html.EscapeString(r.Summary), html.EscapeString(r.Link), html.EscapeString(texts.ViewLink))
		}
		b.WriteString("</blockquote>\n")
	}

	if len(o.Created) > 0 && len(o.Notes) > 0 {
		b.WriteString(divider)
	}

	if len(o.Notes) > 0 {
		fmt.Fprintf(&b, "<b>%s</b>\n<blockquote>", html.EscapeString(texts.NotesTitle))
		for _, note := range o.Notes {
			fmt.Fprintf(&b, "🗒 %s\n", html.EscapeString(note))
		}
		b.WriteString("</blockquote>\n")
	}

	return strings.TrimSuffix(b.String(), "\n")
}
