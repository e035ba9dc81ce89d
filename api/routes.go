package api

import (
	"context"
	"crypto/subtle"
	"net/http"

	gin "github.com/gin-gonic/gin"

	auth "github.com/shortnote/shortnote-bot/auth"
	config "github.com/shortnote/shortnote-bot/config"
	l "github.com/shortnote/shortnote-bot/logger"
	messages "github.com/shortnote/shortnote-bot/messages"
	otel "github.com/shortnote/shortnote-bot/otel"
	store "github.com/shortnote/shortnote-bot/store"
	telegram "github.com/shortnote/shortnote-bot/telegram"
)

const (
	StatusText          = "Telegram bot is running"
	AuthFailedText      = "Authentication failed"
	WebhookSecretHeader = "X-Telegram-Bot-Api-Secret-Token"
)

// Notifier tells a caller that their login went through.
type Notifier interface {
	NotifyAuthorized(ctx context.Context, callerID string, email string) error
}

// UpdateDispatcher takes over an update received by the webhook.
type UpdateDispatcher interface {
	Dispatch(upd telegram.Update)
}

type Router interface {
	NotFoundHandler(c *gin.Context)
	StatusHandler(c *gin.Context)
	HealthcheckHandler(c *gin.Context)
	OAuthCallbackHandler(c *gin.Context)
	TelegramWebhookHandler(c *gin.Context)
	MetricsHandler(c *gin.Context)
}

type RouterImpl struct {
	cfg         config.Config
	logger      l.Logger
	authorizer  auth.Authorizer
	credentials store.CredentialStore
	notifier    Notifier
	dispatcher  UpdateDispatcher
	catalog     *messages.Catalog
	telemetry   otel.OpenTelemetry
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type ResponseJSON struct {
	Message string `json:"message"`
}

// NewRouter wires the HTTP handlers. dispatcher is only used in webhook mode
// and telemetry only when it is enabled; both may be nil otherwise.
func NewRouter(cfg config.Config, logger l.Logger, authorizer auth.Authorizer, credentials store.CredentialStore, notifier Notifier, dispatcher UpdateDispatcher, catalog *messages.Catalog, telemetry otel.OpenTelemetry) Router {
	return &RouterImpl{
		cfg:         cfg,
		logger:      logger,
		authorizer:  authorizer,
		credentials: credentials,
		notifier:    notifier,
		dispatcher:  dispatcher,
		catalog:     catalog,
		telemetry:   telemetry,
	}
}

func (router *RouterImpl) NotFoundHandler(c *gin.Context) {
	router.logger.Error("requested route is not found", nil, "path", c.Request.URL.Path)
	c.JSON(http.StatusNotFound, ErrorResponse{Error: "Requested route is not found"})
}

func (router *RouterImpl) StatusHandler(c *gin.Context) {
	c.String(http.StatusOK, StatusText)
}

func (router *RouterImpl) HealthcheckHandler(c *gin.Context) {
	router.logger.Debug("healthcheck")
	c.JSON(http.StatusOK, ResponseJSON{Message: "OK"})
}

// OAuthCallbackHandler completes the login started from the chat. The state
// parameter names the caller the credential belongs to.
func (router *RouterImpl) OAuthCallbackHandler(c *gin.Context) {
	state, err := auth.ParseState(c.Query("state"))
	if err != nil {
		router.logger.Warn("oauth callback with invalid state", "error", err)
		c.String(http.StatusBadRequest, "Invalid state")
		return
	}

	code := c.Query("code")
	if code == "" {
		router.logger.Warn("oauth callback without code", "callerId", state.CallerID, "reason", c.Query("error"))
		c.String(http.StatusInternalServerError, AuthFailedText)
		return
	}

	ctx := c.Request.Context()
	tok, err := router.authorizer.Exchange(ctx, code)
	if err != nil {
		router.logger.Error("error retrieving access token", err, "callerId", state.CallerID)
		c.String(http.StatusInternalServerError, AuthFailedText)
		return
	}

	if err := router.credentials.Put(state.CallerID, store.FromToken(tok)); err != nil {
		router.logger.Error("failed to store credential", err, "callerId", state.CallerID)
		c.String(http.StatusInternalServerError, AuthFailedText)
		return
	}

	email := ""
	identity, err := router.authorizer.Identify(ctx, tok)
	if err != nil {
		router.logger.Warn("failed to verify id token", "callerId", state.CallerID, "error", err)
	} else if identity != nil {
		email = identity.Email
	}

	router.logger.Info("caller authorized", "callerId", state.CallerID)
	c.String(http.StatusOK, router.catalog.For(messages.Fallback).LoginSuccess)

	if err := router.notifier.NotifyAuthorized(ctx, state.CallerID, email); err != nil {
		router.logger.Error("failed to notify caller", err, "callerId", state.CallerID)
	}
}

// TelegramWebhookHandler accepts updates pushed by Telegram. When a secret is
// configured, requests without the matching header are rejected.
func (router *RouterImpl) TelegramWebhookHandler(c *gin.Context) {
	if router.dispatcher == nil {
		router.NotFoundHandler(c)
		return
	}

	if router.cfg.Telegram != nil && router.cfg.Telegram.WebhookSecret != "" {
		secret := router.cfg.Telegram.WebhookSecret
		got := c.GetHeader(WebhookSecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			router.logger.Warn("webhook request with wrong secret", "remoteAddr", c.ClientIP())
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
			return
		}
	}

	var upd telegram.Update
	if err := c.ShouldBindJSON(&upd); err != nil {
		router.logger.Warn("malformed webhook update", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Malformed update"})
		return
	}

	router.dispatcher.Dispatch(upd)
	c.Status(http.StatusOK)
}

func (router *RouterImpl) MetricsHandler(c *gin.Context) {
	if router.telemetry == nil {
		router.NotFoundHandler(c)
		return
	}
	router.telemetry.Handler().ServeHTTP(c.Writer, c.Request)
}
