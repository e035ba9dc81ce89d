package notes

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shortnote/shortnote-bot/calendar"
	"github.com/shortnote/shortnote-bot/telegram"
)

var errInsertRejected = errors.New("googleapi: Error 400: Bad Request")

// fakeCalendar records inserts. Summaries listed in fail are rejected and
// those in delay are held for the given duration.
type fakeCalendar struct {
	mu       sync.Mutex
	inserted []calendar.EventRequest
	fail     map[string]bool
	delay    map[string]time.Duration
	inFlight int
	peak     int
}

func (f *fakeCalendar) InsertEvent(ctx context.Context, req calendar.EventRequest) (*calendar.Event, error) {
	f.mu.Lock()
	f.inserted = append(f.inserted, req)
	n := len(f.inserted)
	f.inFlight++
	if f.inFlight > f.peak {
		f.peak = f.inFlight
	}
	wait := f.delay[req.Summary]
	fail := f.fail[req.Summary]
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if fail {
		return nil, errInsertRejected
	}
	return &calendar.Event{
		ID:       fmt.Sprintf("evt%d", n),
		HTMLLink: fmt.Sprintf("https://www.google.com/calendar/event?eid=evt%d", n),
		Summary:  req.Summary,
	}, nil
}

func (f *fakeCalendar) ListEvents(ctx context.Context) ([]*calendar.Event, error) {
	return nil, nil
}

func (f *fakeCalendar) DeleteEvent(ctx context.Context, eventID string) error {
	return nil
}

func (f *fakeCalendar) summaries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.inserted))
	for _, req := range f.inserted {
		out = append(out, req.Summary)
	}
	return out
}

type sentMessage struct {
	chatID    int64
	messageID int64
	text      string
	parseMode string
}

// fakeMessenger records every message sent or edited, in call order.
type fakeMessenger struct {
	mu      sync.Mutex
	sent    []sentMessage
	edits   []sentMessage
	sendErr error
}

func parseMode(opts []telegram.SendOption) string {
	payload := map[string]interface{}{}
	for _, opt := range opts {
		opt(payload)
	}
	mode, _ := payload["parse_mode"].(string)
	return mode
}

func (m *fakeMessenger) SendMessage(ctx context.Context, chatID int64, text string, opts ...telegram.SendOption) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return 0, m.sendErr
	}
	id := int64(100 + len(m.sent))
	m.sent = append(m.sent, sentMessage{chatID: chatID, messageID: id, text: text, parseMode: parseMode(opts)})
	return id, nil
}

func (m *fakeMessenger) EditMessageText(ctx context.Context, chatID, messageID int64, text string, opts ...telegram.SendOption) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edits = append(m.edits, sentMessage{chatID: chatID, messageID: messageID, text: text, parseMode: parseMode(opts)})
	return nil
}
