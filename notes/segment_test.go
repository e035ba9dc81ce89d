package notes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSegments(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []Segment
	}{
		{
			name:     "empty message",
			text:     "",
			expected: nil,
		},
		{
			name:     "only blank lines",
			text:     "\n  \n\t",
			expected: nil,
		},
		{
			name: "dated and plain lines keep input order",
			text: "buy milk\n05/12 team sync\ncall mom",
			expected: []Segment{
				{Line: 0, Text: "buy milk"},
				{DateKey: "05/12", Line: 1, Text: "05/12 team sync"},
				{Line: 2, Text: "call mom"},
			},
		},
		{
			name: "same date collapses to the last line at the first position",
			text: "05/12 first\nnote\n05/12 second",
			expected: []Segment{
				{DateKey: "05/12", Line: 2, Text: "05/12 second"},
				{Line: 1, Text: "note"},
			},
		},
		{
			name: "only the first token of a line counts",
			text: "move 05/12 to 07/12",
			expected: []Segment{
				{DateKey: "05/12", Line: 0, Text: "move 05/12 to 07/12"},
			},
		},
		{
			name: "token must stand alone",
			text: "105/12 invoice\n5/12 dentist\n05/123 ref",
			expected: []Segment{
				{Line: 0, Text: "105/12 invoice"},
				{Line: 1, Text: "5/12 dentist"},
				{Line: 2, Text: "05/123 ref"},
			},
		},
		{
			name: "carriage returns are dropped",
			text: "01/01 new year\r\nparty\r\n",
			expected: []Segment{
				{DateKey: "01/01", Line: 0, Text: "01/01 new year"},
				{Line: 1, Text: "party"},
			},
		},
		{
			name: "text is normalized to NFC",
			text: "20/11 ho\u0323p lo\u031b\u0301p",
			expected: []Segment{
				{DateKey: "20/11", Line: 0, Text: "20/11 h\u1ecdp l\u1edbp"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseSegments(tt.text))
		})
	}
}

func TestSegment_Dated(t *testing.T) {
	assert.True(t, Segment{DateKey: "01/02"}.Dated())
	assert.False(t, Segment{Text: "plain"}.Dated())
}
