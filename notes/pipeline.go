package notes

import (
	"context"
	"fmt"
	"time"

	"github.com/shortnote/shortnote-bot/calendar"
	"github.com/shortnote/shortnote-bot/logger"
	"github.com/shortnote/shortnote-bot/messages"
	"github.com/shortnote/shortnote-bot/telegram"
)

// Messenger sends and edits chat messages.
//
//go:generate mockgen -source=pipeline.go -destination=../tests/mocks/messenger.go -package=mocks
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string, opts ...telegram.SendOption) (int64, error)
	EditMessageText(ctx context.Context, chatID, messageID int64, text string, opts ...telegram.SendOption) error
}

// Pipeline turns one chat message into calendar events and keeps a single
// reply message up to date while they are created.
type Pipeline struct {
	messenger Messenger
	submitter *Submitter
	template  EventTemplate
	catalog   *messages.Catalog
	logger    logger.Logger
	now       func() time.Time
}

func NewPipeline(messenger Messenger, submitter *Submitter, template EventTemplate, catalog *messages.Catalog, log logger.Logger) *Pipeline {
	return &Pipeline{
		messenger: messenger,
		submitter: submitter,
		template:  template,
		catalog:   catalog,
		logger:    log.With("component", "pipeline"),
		now:       time.Now,
	}
}

// Run processes text on behalf of the caller chatting in chatID. Nothing is
// sent when the message holds neither a dated nor a plain note. The final
// summary replaces the progress message only if every insert succeeded.
func (p *Pipeline) Run(ctx context.Context, chatID int64, lang string, text string, svc calendar.Service) (Outcome, error) {
	reqs, notes := p.compose(text)
	outcome := Outcome{Notes: notes, Total: len(reqs)}
	if outcome.Total == 0 && len(outcome.Notes) == 0 {
		p.logger.Debug("nothing to process", "chatId", chatID)
		return outcome, nil
	}

	texts := p.catalog.For(lang)
	messageID, err := p.messenger.SendMessage(ctx, chatID, texts.Processing)
	if err != nil {
		return outcome, fmt.Errorf("send progress message: %w", err)
	}

	results := p.submitter.Submit(ctx, svc, reqs, func(completed, total int) {
		if err := p.messenger.EditMessageText(ctx, chatID, messageID, RenderProgress(texts, completed, total)); err != nil {
			p.logger.Warn("failed to update progress", "chatId", chatID, "completed", completed, "error", err)
		}
	})
	for _, r := range results {
		if r.OK() {
			outcome.Created = append(outcome.Created, NewEventResult(r.Event))
			outcome.Completed++
		}
	}

	if !outcome.Complete() {
		p.logger.Info("not every event was created", "chatId", chatID, "total", outcome.Total, "completed", outcome.Completed)
		return outcome, nil
	}

	summary := RenderSummary(texts, outcome)
	if err := p.messenger.EditMessageText(ctx, chatID, messageID, summary, telegram.WithParseMode(telegram.ParseModeHTML)); err != nil {
		return outcome, fmt.Errorf("send summary: %w", err)
	}
	return outcome, nil
}

func (p *Pipeline) compose(text string) ([]calendar.EventRequest, []string) {
	now := p.now()

	var (
		reqs  []calendar.EventRequest
		notes []string
	)
	for _, seg := range ParseSegments(text) {
		if !seg.Dated() {
			notes = append(notes, seg.Text)
			continue
		}
		date, err := ResolveDate(seg.DateKey, now)
		if err != nil {
			p.logger.Warn("unresolvable date, keeping line as a note", "key", seg.DateKey, "error", err)
			notes = append(notes, seg.Text)
			continue
		}
		reqs = append(reqs, p.template.Compose(date, seg.Text))
	}
	return reqs, notes
}
