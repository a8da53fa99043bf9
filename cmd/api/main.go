package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voicehub/internal/actions"
	"voicehub/internal/agents"
	"voicehub/internal/auth"
	"voicehub/internal/calls"
	"voicehub/internal/config"
	"voicehub/internal/dispatch"
	"voicehub/internal/dispatch/platforms"
	"voicehub/internal/eventlog"
	"voicehub/internal/forwarder"
	"voicehub/internal/leads"
	"voicehub/internal/notify"
	"voicehub/internal/provider"
	"voicehub/internal/redact"
	"voicehub/internal/webhook"
	"voicehub/pkg/logger"
	"voicehub/pkg/storage"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

const agentCacheSize = 1024

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Missing .env is fine in deployed environments.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	db, err := storage.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), storage.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := storage.OpenRedis(rootCtx, storage.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		log.Error("redis init failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	// Domain services.
	callSvc := calls.NewService(calls.NewPostgresRepo(db))
	logSvc := eventlog.NewService(eventlog.NewPostgresRepo(db))

	resolver, err := agents.NewCachedResolver(agents.NewPostgresResolver(db), agentCacheSize)
	if err != nil {
		log.Error("agent resolver init failed", "err", err)
		os.Exit(1)
	}

	emailSender := notify.NewHTTPEmailSender(cfg.Email.BaseURL, cfg.Email.APIKey, cfg.Email.From)
	smsSender := notify.NewHTTPSMSSender(cfg.SMS.BaseURL, cfg.SMS.APIKey, cfg.SMS.From)

	connections := platforms.NewPostgresConnectionReader(db)
	channels := []dispatch.Channel{
		&dispatch.EmailSummaryChannel{Sender: emailSender},
		&dispatch.SMSNotificationChannel{Sender: smsSender},
		&dispatch.CallerFollowupChannel{Sender: emailSender, Log: log},
		&dispatch.WebhookActionChannel{},
		&platforms.ZapierAdapter{Connections: connections},
		&platforms.MakeAdapter{Connections: connections},
		&platforms.GoHighLevelAdapter{Connections: connections},
	}

	// Lead scoring is optional; without a scoring endpoint the channel is
	// left out entirely.
	if cfg.Leads.ScoringURL != "" {
		channels = append(channels, &dispatch.LeadScoringChannel{
			Adapter: leads.NewAdapter(
				leads.NewPostgresRepo(db),
				leads.NewHTTPScorer(cfg.Leads.ScoringURL, cfg.Leads.APIKey),
				log,
			),
		})
	}

	pipeline := &webhook.Pipeline{
		Calls:     callSvc,
		EventLog:  logSvc,
		Agents:    provider.NewClient(cfg.Provider.BaseURL, cfg.Provider.APIKey),
		Redaction: redact.NewPostgresConfigReader(db),
		Actions:   actions.NewPostgresReader(db),
		Dispatch:  dispatch.New(log, cfg.Dispatch.ChannelTimeout, channels...),
		Forwarder: forwarder.New(forwarder.NewPostgresSolutionsReader(db), log),
		Once:      storage.NewOnceGuard(rdb, 0),
		Log:       log,
	}
	receiver := &webhook.Handler{
		Secret:   cfg.Provider.WebhookSecret,
		Resolver: resolver,
		EventLog: logSvc,
		Pipeline: pipeline,
	}

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, receiver, authManager, callSvc, logSvc)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
