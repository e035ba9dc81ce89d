package notes

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shortnote/shortnote-bot/calendar"
	"github.com/shortnote/shortnote-bot/messages"
)

func englishTexts(t *testing.T) messages.Texts {
	t.Helper()
	catalog, err := messages.Load("")
	require.NoError(t, err)
	return catalog.For("en")
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		completed int
		total     int
		expected  string
	}{
		{completed: 0, total: 3, expected: "░░░░░░░░░░"},
		{completed: 1, total: 3, expected: "███░░░░░░░"},
		{completed: 2, total: 3, expected: "██████░░░░"},
		{completed: 3, total: 3, expected: "██████████"},
		{completed: 1, total: 2, expected: "█████░░░░░"},
		{completed: 1, total: 8, expected: "█░░░░░░░░░"},
		{completed: 0, total: 0, expected: "░░░░░░░░░░"},
	}

	for _, tt := range tests {
		bar := ProgressBar(tt.completed, tt.total)
		assert.Equal(t, tt.expected, bar, "%d/%d", tt.completed, tt.total)
		assert.Equal(t, 10, utf8.RuneCountInString(bar))
	}
}

func TestRenderProgress(t *testing.T) {
	texts := englishTexts(t)
	assert.Equal(t, "Processing...\n[███░░░░░░░] 33%", RenderProgress(texts, 1, 3))
	assert.Equal(t, "Processing...\n[██████████] 100%", RenderProgress(texts, 2, 2))
}

func TestNewEventResult(t *testing.T) {
	short := NewEventResult(&calendar.Event{ID: "a", HTMLLink: "https://x/a", Summary: "05/12 gym"})
	assert.Equal(t, "05/12 gym...", short.Summary)
	assert.Equal(t, "https://x/a", short.Link)

	long := NewEventResult(&calendar.Event{Summary: "05/12 team sync with design"})
	assert.Equal(t, "05/12 team sync...", long.Summary)

	vietnamese := NewEventResult(&calendar.Event{Summary: "20/11 họp lớp đại học"})
	assert.Equal(t, "20/11 họp lớp đ...", vietnamese.Summary)
}

func TestRenderSummary(t *testing.T) {
	texts := englishTexts(t)
	created := []EventResult{{Link: "https://x/1", Summary: "05/12 team sync..."}}
	notes := []string{"buy milk"}

	tests := []struct {
		name        string
		outcome     Outcome
		contains    []string
		notContains []string
	}{
		{
			name:        "created only",
			outcome:     Outcome{Created: created, Total: 1, Completed: 1},
			contains:    []string{"<b>Event successfully created</b>", `✅ 05/12 team sync... <a href="https://x/1">View</a>`},
			notContains: []string{divider, "Other notes"},
		},
		{
			name:        "notes only",
			outcome:     Outcome{Notes: notes},
			contains:    []string{"<b>Other notes</b>", "🗒 buy milk"},
			notContains: []string{divider, "Event successfully created"},
		},
		{
			name:     "both blocks are divided",
			outcome:  Outcome{Created: created, Notes: notes, Total: 1, Completed: 1},
			contains: []string{"Event successfully created", divider, "Other notes"},
		},
		{
			name:        "markup in notes is escaped",
			outcome:     Outcome{Notes: []string{"a <b> & c"}},
			contains:    []string{"🗒 a &lt;b&gt; &amp; c"},
			notContains: []string{"a <b> & c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RenderSummary(texts, tt.outcome)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, out, s)
			}
			assert.False(t, strings.HasSuffix(out, "\n"))
		})
	}
}

func TestRenderSummary_BlockOrder(t *testing.T) {
	out := RenderSummary(englishTexts(t), Outcome{
		Created: []EventResult{{Link: "l", Summary: "s..."}},
		Notes:   []string{"n"},
	})

	created := strings.Index(out, "Event successfully created")
	div := strings.Index(out, divider)
	notes := strings.Index(out, "Other notes")
	assert.True(t, created < div && div < notes, out)
}
