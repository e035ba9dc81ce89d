// Package bot answers chat messages: commands, the login flow and the note
// pipeline.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/shortnote/shortnote-bot/auth"
	"github.com/shortnote/shortnote-bot/calendar"
	"github.com/shortnote/shortnote-bot/logger"
	"github.com/shortnote/shortnote-bot/messages"
	"github.com/shortnote/shortnote-bot/notes"
	"github.com/shortnote/shortnote-bot/otel"
	"github.com/shortnote/shortnote-bot/store"
	"github.com/shortnote/shortnote-bot/telegram"
)

const (
	CommandStart           = "start"
	CommandDeleteAllEvents = "deleteallevents"
)

type Dependencies struct {
	Messenger   notes.Messenger
	Authorizer  auth.Authorizer
	Credentials store.CredentialStore
	Calendars   calendar.Factory
	Pipeline    *notes.Pipeline
	Catalog     *messages.Catalog
	Logger      logger.Logger
	// Telemetry may be nil.
	Telemetry otel.OpenTelemetry
	// DeleteConcurrency bounds parallel deletions of /deleteallevents.
	DeleteConcurrency int
}

type Handler struct {
	messenger   notes.Messenger
	authorizer  auth.Authorizer
	credentials store.CredentialStore
	calendars   calendar.Factory
	pipeline    *notes.Pipeline
	catalog     *messages.Catalog
	logger      logger.Logger
	telemetry   otel.OpenTelemetry
	deleteLimit int

	locks     *keyedMutex
	languages sync.Map
}

func NewHandler(deps Dependencies) *Handler {
	return &Handler{
		messenger:   deps.Messenger,
		authorizer:  deps.Authorizer,
		credentials: deps.Credentials,
		calendars:   deps.Calendars,
		pipeline:    deps.Pipeline,
		catalog:     deps.Catalog,
		logger:      deps.Logger.With("component", "bot"),
		telemetry:   deps.Telemetry,
		deleteLimit: deps.DeleteConcurrency,
		locks:       newKeyedMutex(),
	}
}

// caller is who a message came from and where to answer.
type caller struct {
	id     string
	chatID int64
	lang   string
}

func callerOf(msg telegram.Message) caller {
	chatID := msg.Chat.ID
	if chatID == 0 {
		chatID = msg.From.ID
	}
	return caller{
		id:     strconv.FormatInt(msg.From.ID, 10),
		chatID: chatID,
		lang:   msg.From.LanguageCode,
	}
}

// parseCommand returns the name of a bot command such as "/start@my_bot".
func parseCommand(text string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	name := strings.Fields(text[1:])
	if len(name) == 0 {
		return "", true
	}
	cmd, _, _ := strings.Cut(name[0], "@")
	return strings.ToLower(cmd), true
}

// HandleMessage is the entry point for every inbound text message. Messages
// of one caller are handled one at a time.
func (h *Handler) HandleMessage(ctx context.Context, msg telegram.Message) {
	c := callerOf(msg)
	if c.lang != "" {
		h.languages.Store(c.id, c.lang)
	}

	unlock := h.locks.Lock(c.id)
	defer unlock()

	text := strings.TrimSpace(msg.Text)
	cmd, isCommand := parseCommand(text)
	if !isCommand {
		h.createEvents(ctx, c, msg.Text)
		return
	}

	switch cmd {
	case CommandStart:
		h.start(ctx, c)
	case CommandDeleteAllEvents:
		h.deleteAllEvents(ctx, c)
	default:
		h.logger.Debug("ignoring unknown command", "command", cmd, "callerId", c.id)
	}
}

func (h *Handler) start(ctx context.Context, c caller) {
	_, ok, err := h.credentials.Get(c.id)
	if err != nil {
		h.logger.Error("failed to read credential", err, "callerId", c.id)
		return
	}
	if !ok {
		h.promptLogin(ctx, c)
		return
	}
	h.reply(ctx, c, h.catalog.For(c.lang).Welcome)
}

func (h *Handler) createEvents(ctx context.Context, c caller, text string) {
	svc, ok := h.authorizedService(ctx, c)
	if !ok {
		return
	}
	if _, err := h.pipeline.Run(ctx, c.chatID, c.lang, text, svc); err != nil {
		h.logger.Error("failed to process message", err, "callerId", c.id)
	}
}

func (h *Handler) deleteAllEvents(ctx context.Context, c caller) {
	svc, ok := h.authorizedService(ctx, c)
	if !ok {
		return
	}

	texts := h.catalog.For(c.lang)
	h.reply(ctx, c, texts.DeletingEvents)

	n, err := calendar.DeleteAll(ctx, svc, h.deleteLimit)
	if err != nil {
		h.logger.Error("failed to delete events", err, "callerId", c.id)
		h.reply(ctx, c, texts.DeleteFailed)
		return
	}
	h.logger.Info("deleted events", "callerId", c.id, "count", n)
	h.reply(ctx, c, texts.EventsDeleted)
}

// authorizedService returns a calendar client for c, or false after it has
// dealt with the caller itself: an unknown or expired caller is sent to the
// login flow, any other failure is logged.
func (h *Handler) authorizedService(ctx context.Context, c caller) (calendar.Service, bool) {
	cred, ok, err := h.credentials.Get(c.id)
	if err != nil {
		h.logger.Error("failed to read credential", err, "callerId", c.id)
		return nil, false
	}
	if !ok {
		h.promptLogin(ctx, c)
		return nil, false
	}

	tok := cred.Token()
	fresh, err := h.authorizer.Refresh(ctx, tok)
	if errors.Is(err, auth.ErrCredentialExpired) {
		h.logger.Info("credential expired, asking for a new login", "callerId", c.id)
		if err := h.credentials.Delete(c.id); err != nil {
			h.logger.Error("failed to delete expired credential", err, "callerId", c.id)
		}
		if h.telemetry != nil {
			h.telemetry.RecordReauthorization(ctx)
		}
		h.promptLogin(ctx, c)
		return nil, false
	}
	if err != nil {
		h.logger.Error("unexpected credential refresh failure", err, "callerId", c.id)
		return nil, false
	}

	if fresh.AccessToken != tok.AccessToken {
		h.saveRefreshed(c.id, cred, store.FromToken(fresh))
	}

	svc, err := h.calendars.ForTokenSource(ctx, h.authorizer.TokenSource(ctx, fresh))
	if err != nil {
		h.logger.Error("failed to create calendar client", err, "callerId", c.id)
		return nil, false
	}
	return svc, true
}

func (h *Handler) saveRefreshed(callerID string, old, refreshed store.Credential) {
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = old.RefreshToken
	}
	if refreshed.Scope == "" {
		refreshed.Scope = old.Scope
	}
	if refreshed.IDToken == "" {
		refreshed.IDToken = old.IDToken
	}
	if err := h.credentials.Put(callerID, refreshed); err != nil {
		h.logger.Error("failed to save refreshed credential", err, "callerId", callerID)
		return
	}
	h.logger.Debug("saved refreshed credential", "callerId", callerID)
}

func (h *Handler) promptLogin(ctx context.Context, c caller) {
	texts := h.catalog.For(c.lang)
	url := h.authorizer.AuthCodeURL(c.id)
	if _, err := h.messenger.SendMessage(ctx, c.chatID, texts.LoginPrompt, telegram.WithURLButton(texts.LoginButton, url)); err != nil {
		h.logger.Error("failed to send login prompt", err, "callerId", c.id)
	}
}

func (h *Handler) reply(ctx context.Context, c caller, text string) {
	if _, err := h.messenger.SendMessage(ctx, c.chatID, text); err != nil {
		h.logger.Error("failed to send reply", err, "callerId", c.id)
	}
}

// NotifyAuthorized tells callerID that the login went through. email names
// the account when it is known.
func (h *Handler) NotifyAuthorized(ctx context.Context, callerID string, email string) error {
	chatID, err := strconv.ParseInt(callerID, 10, 64)
	if err != nil {
		return fmt.Errorf("caller id %q is not a chat id: %w", callerID, err)
	}

	lang := ""
	if v, ok := h.languages.Load(callerID); ok {
		lang = v.(string)
	}
	if _, err := h.messenger.SendMessage(ctx, chatID, h.catalog.For(lang).LoginSucceeded(email)); err != nil {
		return fmt.Errorf("notify caller %s: %w", callerID, err)
	}
	return nil
}
