package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/sethvargo/go-envconfig"

	api "github.com/shortnote/shortnote-bot/api"
	middlewares "github.com/shortnote/shortnote-bot/api/middlewares"
	auth "github.com/shortnote/shortnote-bot/auth"
	bot "github.com/shortnote/shortnote-bot/bot"
	calendar "github.com/shortnote/shortnote-bot/calendar"
	config "github.com/shortnote/shortnote-bot/config"
	l "github.com/shortnote/shortnote-bot/logger"
	messages "github.com/shortnote/shortnote-bot/messages"
	notes "github.com/shortnote/shortnote-bot/notes"
	otel "github.com/shortnote/shortnote-bot/otel"
	store "github.com/shortnote/shortnote-bot/store"
	telegram "github.com/shortnote/shortnote-bot/telegram"
)

func main() {
	var config config.Config
	cfg, err := config.Load(envconfig.OsLookuper())
	if err != nil {
		log.Printf("Config load error: %v", err)
		return
	}

	var logger l.Logger
	logger, err = l.NewLogger(cfg.Environment)
	if err != nil {
		log.Printf("Logger init error: %v", err)
		return
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loggerMiddleware, err := middlewares.NewLoggerMiddleware(&logger)
	if err != nil {
		logger.Error("Failed to initialize logger middleware", err)
		return
	}

	var telemetry otel.OpenTelemetry
	if cfg.EnableTelemetry {
		otelImpl := &otel.OpenTelemetryImpl{}
		if err := otelImpl.Init(cfg); err != nil {
			logger.Error("OpenTelemetry init error", err)
			return
		}
		telemetry = otelImpl
	}
	telemetryMiddleware, err := middlewares.NewTelemetryMiddleware(cfg, telemetry, logger)
	if err != nil {
		logger.Error("Failed to initialize telemetry middleware", err)
		return
	}

	credentials, err := store.New(cfg.Store.Driver, cfg.Store.Path)
	if err != nil {
		logger.Error("Failed to open credential store", err, "driver", cfg.Store.Driver, "path", cfg.Store.Path)
		return
	}
	defer credentials.Close()

	authorizer, err := auth.NewAuthorizer(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize authorizer", err)
		return
	}

	catalog, err := messages.Load(cfg.MessagesPath)
	if err != nil {
		logger.Error("Failed to load messages", err)
		return
	}

	tg := telegram.NewClient(telegram.Config{
		BotToken:     cfg.Telegram.BotToken,
		APIRoot:      cfg.Telegram.APIRoot,
		PollTimeout:  cfg.Telegram.PollTimeout,
		PollInterval: cfg.Telegram.PollInterval,
	}, logger)

	template := notes.EventTemplate{
		TimeZone:   cfg.Calendar.TimeZone,
		EventType:  cfg.Calendar.EventType,
		Visibility: cfg.Calendar.Visibility,
	}
	submitter := notes.NewSubmitter(cfg.Calendar.MaxConcurrency, cfg.Calendar.RequestTimeout, logger, telemetry)
	pipeline := notes.NewPipeline(tg, submitter, template, catalog, logger)

	handler := bot.NewHandler(bot.Dependencies{
		Messenger:         tg,
		Authorizer:        authorizer,
		Credentials:       credentials,
		Calendars:         calendar.NewGoogleFactory(cfg.Calendar.ID, logger),
		Pipeline:          pipeline,
		Catalog:           catalog,
		Logger:            logger,
		Telemetry:         telemetry,
		DeleteConcurrency: cfg.Calendar.MaxConcurrency,
	})
	dispatcher := telegram.NewDispatcher(ctx, handler.HandleMessage, logger)

	var webhook api.UpdateDispatcher
	if cfg.WebhookMode() {
		webhook = dispatcher
	}
	router := api.NewRouter(cfg, logger, authorizer, credentials, handler, webhook, catalog, telemetry)

	r := gin.New()
	r.Use(loggerMiddleware.Middleware())
	if cfg.EnableTelemetry {
		r.Use(telemetryMiddleware.Middleware())
		r.GET("/metrics", router.MetricsHandler)
	}
	r.GET("/", router.StatusHandler)
	r.GET("/health", router.HealthcheckHandler)
	r.GET("/oauth2callback", router.OAuthCallbackHandler)
	if cfg.WebhookMode() {
		r.POST("/telegram/webhook", router.TelegramWebhookHandler)
	}
	r.NoRoute(router.NotFoundHandler)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	if cfg.Server.TLSCertPath != "" && cfg.Server.TLSKeyPath != "" {
		go func() {
			logger.Info("Starting Shortnote Bot with TLS", "port", cfg.Server.Port)

			if err := server.ListenAndServeTLS(cfg.Server.TLSCertPath, cfg.Server.TLSKeyPath); err != nil && err != http.ErrServerClosed {
				logger.Error("ListenAndServeTLS error", err)
			}
		}()
	} else {
		go func() {
			logger.Info("Starting Shortnote Bot", "port", cfg.Server.Port)

			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("ListenAndServe error", err)
			}
		}()
	}

	polling := make(chan struct{})
	if cfg.WebhookMode() {
		close(polling)
		if err := tg.SetWebhook(ctx, cfg.Telegram.WebhookURL, cfg.Telegram.WebhookSecret); err != nil {
			logger.Error("Failed to register webhook", err, "url", cfg.Telegram.WebhookURL)
		} else {
			logger.Info("Receiving updates by webhook", "url", cfg.Telegram.WebhookURL)
		}
	} else {
		if err := tg.SetWebhook(ctx, "", ""); err != nil {
			logger.Warn("Failed to remove webhook", "error", err)
		}
		go func() {
			defer close(polling)
			logger.Info("Receiving updates by long polling")
			if err := tg.Poll(ctx, dispatcher); err != nil {
				logger.Error("Polling stopped", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("Server Shutdown error", err)
	} else {
		logger.Info("Server gracefully stopped")
	}

	<-polling
	dispatcher.Wait()

	if telemetry != nil {
		if err := telemetry.Shutdown(ctxShutdown); err != nil {
			logger.Error("Telemetry shutdown error", err)
		}
	}
}
