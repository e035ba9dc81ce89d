package notes

import (
	"github.com/shortnote/shortnote-bot/calendar"
)

// EventTemplate holds the fields every composed event shares.
type EventTemplate struct {
	TimeZone   string
	EventType  string
	Visibility string
	Location   string
}

func DefaultEventTemplate() EventTemplate {
	return EventTemplate{
		TimeZone:   "Asia/Ho_Chi_Minh",
		EventType:  "focusTime",
		Visibility: "private",
		Location:   "",
	}
}

// Compose builds the insert request for one dated segment. Summary and
// description both carry the full line.
func (t EventTemplate) Compose(date ResolvedDate, text string) calendar.EventRequest {
	return calendar.EventRequest{
		Summary:     text,
		Description: text,
		Location:    t.Location,
		Start:       calendar.EventTime{DateTime: date.StartString(), TimeZone: t.TimeZone},
		End:         calendar.EventTime{DateTime: date.EndString(), TimeZone: t.TimeZone},
		Visibility:  t.Visibility,
		EventType:   t.EventType,
	}
}
