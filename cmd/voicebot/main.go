package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.mau.fi/whatsmeow/types/events"

	"voicebot/internal/cache"
	"voicebot/internal/config"
	"voicebot/internal/convo"
	"voicebot/internal/handlers"
	"voicebot/internal/metrics"
	"voicebot/internal/nlu"
	"voicebot/internal/repo"
	"voicebot/internal/sbi"
	"voicebot/internal/session"
	"voicebot/internal/whatsapp"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("voicebot stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	m := metrics.New(cfg.MetricsNamespace)
	checks := map[string]handlers.Pinger{}

	var redis *cache.Redis
	if cfg.RedisAddr != "" {
		r, err := cache.New(ctx, cache.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TLS:      cfg.RedisTLS,
		})
		if err != nil {
			return err
		}
		defer r.Close()
		redis = r
		checks["redis"] = r
	}

	var (
		store  session.Store
		locker session.TurnLocker
	)
	switch cfg.SessionStore {
	case "redis":
		store = session.NewRedisStore(redis, cfg.SessionTTL, cfg.MaxRetries, logger)
		locker = session.NewRedisLocker(redis, cfg.SessionLock, logger)
	default:
		mem := session.NewMemoryStore(cfg.SessionTTL, cfg.MaxRetries, logger)
		go mem.Run(ctx, time.Minute)
		store = mem
	}

	var (
		completer   nlu.Completer
		transcriber whatsapp.Transcriber
	)
	switch cfg.LLMProvider {
	case "gemini":
		gemini := nlu.NewGemini(logger, m, nlu.GeminiConfig{
			APIKeys:  cfg.GeminiAPIKeys,
			Model:    cfg.GeminiModel,
			Timeout:  cfg.LLMTimeout,
			Cooldown: cfg.GeminiCooldown,
		})
		completer = gemini
		transcriber = gemini
	default:
		openaiClient, err := nlu.NewOpenAI(logger, m, nlu.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.LLMTimeout,
		})
		if err != nil {
			return err
		}
		completer = openaiClient
		if len(cfg.GeminiAPIKeys) > 0 {
			transcriber = nlu.NewGemini(logger, m, nlu.GeminiConfig{
				APIKeys:  cfg.GeminiAPIKeys,
				Model:    cfg.GeminiModel,
				Timeout:  cfg.LLMTimeout,
				Cooldown: cfg.GeminiCooldown,
			})
		}
	}

	var backend convo.Backend
	if cfg.SBIOffline {
		logger.Warn("insurer backend running offline")
		backend = sbi.NewOffline(logger)
	} else {
		client, err := sbi.New(sbi.Config{
			Endpoint:     cfg.SBIEndpoint,
			ClientID:     cfg.SBIClientID,
			ClientSecret: cfg.SBIClientSecret,
			AESKey:       cfg.SBIAESKey,
			AESIV:        cfg.SBIAESIV,
			Timeout:      cfg.SBITimeout,
			TokenTTL:     cfg.SBITokenTTL,
		}, logger, m, redis)
		if err != nil {
			return err
		}
		backend = client
	}

	var transcript convo.Transcript
	if cfg.DatabaseURL != "" {
		repository, err := repo.New(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return err
		}
		defer repository.Close()
		transcript = repository
		checks["postgres"] = repository
	}

	var limiter convo.RateLimiter
	if redis != nil {
		limiter = redis
	}

	engine := convo.New(store, nlu.NewExtractor(completer, logger), backend, transcript, limiter, m, logger, convo.Options{
		HealthPolicySuffix: cfg.HealthPolicySuffix,
		ExtractTimeout:     cfg.LLMTimeout,
		BackendTimeout:     cfg.SBITimeout,
		TurnLimit:          cfg.TurnRateLimit,
		Locker:             locker,
	})

	if cfg.WhatsAppEnabled {
		gateway, err := whatsapp.NewGateway(ctx, whatsapp.GatewayConfig{
			StorePath: cfg.WhatsAppStorePath,
			LogLevel:  cfg.WhatsAppLogLevel,
		}, logger)
		if err != nil {
			return err
		}
		bridge := whatsapp.NewBridge(engine, gateway, transcriber, m, logger)
		gateway.OnMessage(func(evt *events.Message) {
			go bridge.HandleMessage(ctx, evt)
		})
		if err := gateway.Connect(ctx); err != nil {
			return err
		}
		defer gateway.Close()
	}

	srv := &http.Server{
		Addr:              cfg.HTTPListenAddr,
		Handler:           handlers.NewServer(engine, m, checks, logger).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", cfg.HTTPListenAddr, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", "error", err)
	}
	logger.Info("voicebot shut down")
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
