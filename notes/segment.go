// Package notes turns a multi-line chat message into calendar event requests
// and renders the replies that report on them.
package notes

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var dateToken = regexp.MustCompile(`\b(\d{2}/\d{2})\b`)

// Segment is one logical unit of a message. DateKey holds the DD/MM token of a
// dated segment and is empty for a plain note.
type Segment struct {
	DateKey string
	Line    int
	Text    string
}

func (s Segment) Dated() bool {
	return s.DateKey != ""
}

// ParseSegments splits text into segments in input order. Lines sharing a
// DD/MM token collapse into one segment that keeps the position of the first
// such line and the text of the last one. Blank plain lines are dropped.
func ParseSegments(text string) []Segment {
	text = norm.NFC.String(text)

	var segments []Segment
	byKey := make(map[string]int)

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")

		m := dateToken.FindStringSubmatch(line)
		if m == nil {
			if strings.TrimSpace(line) == "" {
				continue
			}
			segments = append(segments, Segment{Line: i, Text: line})
			continue
		}

		key := m[1]
		if idx, ok := byKey[key]; ok {
			segments[idx].Text = line
			segments[idx].Line = i
			continue
		}
		byKey[key] = len(segments)
		segments = append(segments, Segment{DateKey: key, Line: i, Text: line})
	}

	return segments
}
