package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/leadspark-io/leadspark-backend/api/routes"
	"github.com/leadspark-io/leadspark-backend/internal/aiwriter"
	"github.com/leadspark-io/leadspark-backend/internal/auth"
	"github.com/leadspark-io/leadspark-backend/internal/leads"
	"github.com/leadspark-io/leadspark-backend/internal/requests"
	"github.com/leadspark-io/leadspark-backend/internal/templates"
	"github.com/leadspark-io/leadspark-backend/internal/usage"
	"github.com/leadspark-io/leadspark-backend/internal/users"
	"github.com/leadspark-io/leadspark-backend/internal/webhooks"
	"github.com/leadspark-io/leadspark-backend/pkg/ai"
	"github.com/leadspark-io/leadspark-backend/pkg/auth/session"
	"github.com/leadspark-io/leadspark-backend/pkg/config"
	"github.com/leadspark-io/leadspark-backend/pkg/db"
	"github.com/leadspark-io/leadspark-backend/pkg/logger"
	"github.com/leadspark-io/leadspark-backend/pkg/metrics"
	"github.com/leadspark-io/leadspark-backend/pkg/migrate"
	"github.com/leadspark-io/leadspark-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	quotaMetrics := metrics.NewQuotaMetrics(registry)

	usersRepo := users.NewRepository(dbClient.DB())
	dispatcher := webhooks.NewDispatcher(cfg.Webhooks, logg)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		UserRepo:       usersRepo,
		PasswordConfig: cfg.Password,
		Webhooks:       dispatcher,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	usageService, err := usage.NewService(usage.ServiceParams{
		Repo:    usage.NewRepository(dbClient.DB()),
		Metrics: quotaMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create usage service", err)
		os.Exit(1)
	}

	leadsService, err := leads.NewService(leads.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create leads service", err)
		os.Exit(1)
	}

	templateService, err := templates.NewService(templates.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create templates service", err)
		os.Exit(1)
	}

	requestService, err := requests.NewService(requests.ServiceParams{
		Repo:  requests.NewRepository(dbClient.DB()),
		Tx:    dbClient,
		Quota: usageService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create requests service", err)
		os.Exit(1)
	}

	aiClient, err := ai.NewClient(cfg.OpenAI, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create openai client", err)
		os.Exit(1)
	}

	aiWriter, err := aiwriter.NewService(aiwriter.ServiceParams{
		Completer: aiClient,
		Quota:     usageService,
		Timeout:   cfg.OpenAI.Timeout,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create ai writer", err)
		os.Exit(1)
	}

	handler := routes.NewRouter(routes.Deps{
		Config:          cfg,
		Logger:          logg,
		DB:              dbClient,
		Redis:           redisClient,
		SessionChecker:  sessionManager,
		Registry:        registry,
		AuthService:     authService,
		RegisterService: registerService,
		UsersRepo:       usersRepo,
		UsageService:    usageService,
		LeadsService:    leadsService,
		TemplateService: templateService,
		RequestService:  requestService,
		AIWriter:        aiWriter,
		Webhooks:        dispatcher,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down api server")
		drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(drainCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
