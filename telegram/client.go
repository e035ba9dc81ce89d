package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/shortnote/shortnote-bot/logger"
)

const (
	defaultAPIRoot = "https://api.telegram.org"

	ParseModeHTML = "HTML"
)

type Config struct {
	BotToken     string
	APIRoot      string
	PollTimeout  time.Duration
	PollInterval time.Duration
	HTTPClient   *http.Client
}

// Client talks to the Telegram Bot API.
type Client struct {
	cfg    Config
	http   *http.Client
	logger logger.Logger
}

func NewClient(cfg Config, log logger.Logger) *Client {
	if strings.TrimSpace(cfg.APIRoot) == "" {
		cfg.APIRoot = defaultAPIRoot
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 30 * time.Second
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		// Long polls hold the connection for PollTimeout; leave headroom.
		httpClient = &http.Client{Timeout: cfg.PollTimeout + 10*time.Second}
	}
	return &Client{
		cfg:    cfg,
		http:   httpClient,
		logger: log.With("component", "telegram"),
	}
}

// SendOption customizes an outgoing message.
type SendOption func(payload map[string]interface{})

// WithParseMode sets the markup mode of the message text.
func WithParseMode(mode string) SendOption {
	return func(payload map[string]interface{}) {
		payload["parse_mode"] = mode
	}
}

// WithURLButton attaches a single inline keyboard button opening url.
func WithURLButton(text, url string) SendOption {
	return func(payload map[string]interface{}) {
		payload["reply_markup"] = map[string]interface{}{
			"inline_keyboard": [][]map[string]string{
				{{"text": text, "url": url}},
			},
		}
	}
}

// SendMessage sends text to chatID and returns the id of the new message.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, opts ...SendOption) (int64, error) {
	payload := map[string]interface{}{
		"chat_id": chatID,
		"text":    text,
	}
	for _, opt := range opts {
		opt(payload)
	}

	result, err := c.call(ctx, "sendMessage", payload)
	if err != nil {
		return 0, err
	}
	return result.Get("message_id").Int(), nil
}

// EditMessageText replaces the text of a message previously sent by the bot.
func (c *Client) EditMessageText(ctx context.Context, chatID, messageID int64, text string, opts ...SendOption) error {
	payload := map[string]interface{}{
		"chat_id":    chatID,
		"message_id": messageID,
		"text":       text,
	}
	for _, opt := range opts {
		opt(payload)
	}

	_, err := c.call(ctx, "editMessageText", payload)
	return err
}

// SetWebhook registers url as the push endpoint for updates. An empty url
// removes the webhook and re-enables getUpdates.
func (c *Client) SetWebhook(ctx context.Context, url, secret string) error {
	payload := map[string]interface{}{
		"url":             url,
		"allowed_updates": []string{"message"},
	}
	if secret != "" {
		payload["secret_token"] = secret
	}
	_, err := c.call(ctx, "setWebhook", payload)
	return err
}

// call posts payload to method and returns the "result" member of the reply.
func (c *Client) call(ctx context.Context, method string, payload interface{}) (gjson.Result, error) {
	url := strings.TrimRight(c.cfg.APIRoot, "/") + "/bot" + c.cfg.BotToken + "/" + method
	body, err := json.Marshal(payload)
	if err != nil {
		return gjson.Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return gjson.Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("telegram %s: %w", method, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("telegram %s: read response: %w", method, err)
	}

	parsed := gjson.ParseBytes(respBody)
	if !parsed.Get("ok").Bool() {
		description := parsed.Get("description").String()
		if description == "" {
			description = strings.TrimSpace(string(respBody))
		}
		return gjson.Result{}, &APIError{Method: method, Status: resp.StatusCode, Description: description}
	}
	return parsed.Get("result"), nil
}

// APIError is a request the Bot API rejected.
type APIError struct {
	Method      string
	Status      int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram %s: status=%d: %s", e.Method, e.Status, e.Description)
}
