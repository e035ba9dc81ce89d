package telegram

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/shortnote/shortnote-bot/logger"
)

type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
}

type Chat struct {
	ID int64 `json:"id"`
}

type Message struct {
	MessageID int64  `json:"message_id"`
	From      User   `json:"from"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
}

type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

// Handler processes one inbound text message.
type Handler func(ctx context.Context, msg Message)

// Dispatcher runs every inbound message on its own goroutine, so messages of
// different callers interleave. Wait blocks until in-flight handlers return.
type Dispatcher struct {
	ctx     context.Context
	handler Handler
	logger  logger.Logger
	wg      sync.WaitGroup
}

func NewDispatcher(ctx context.Context, handler Handler, log logger.Logger) *Dispatcher {
	return &Dispatcher{ctx: ctx, handler: handler, logger: log.With("component", "dispatcher")}
}

func (d *Dispatcher) Dispatch(upd Update) {
	if upd.Message == nil || strings.TrimSpace(upd.Message.Text) == "" {
		d.logger.Debug("skipping update without text", "updateId", upd.UpdateID)
		return
	}
	msg := *upd.Message
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.logger.Error("message handler panicked", nil, "updateId", upd.UpdateID, "panic", r)
			}
		}()
		d.handler(d.ctx, msg)
	}()
}

func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Poll long-polls getUpdates and hands every update to d until ctx is done.
func (c *Client) Poll(ctx context.Context, d *Dispatcher) error {
	var offset int64
	for {
		updates, err := c.getUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("poll error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(c.cfg.PollInterval):
			}
			continue
		}

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			d.Dispatch(upd)
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}

func (c *Client) getUpdates(ctx context.Context, offset int64) ([]Update, error) {
	payload := map[string]interface{}{
		"timeout":         int(c.cfg.PollTimeout / time.Second),
		"allowed_updates": []string{"message"},
	}
	if offset > 0 {
		payload["offset"] = offset
	}

	result, err := c.call(ctx, "getUpdates", payload)
	if err != nil {
		return nil, err
	}

	var updates []Update
	if err := json.Unmarshal([]byte(result.Raw), &updates); err != nil {
		return nil, err
	}
	return updates, nil
}
