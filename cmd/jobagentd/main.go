// jobagentd is the orchestrator process: it wires the Event Bus, Quota
// Ledger, LLM Router, Job Search Aggregator, HR Contact Resolver, CV
// Tailor, Email Composer, Reply Watcher, Pipeline Controller and
// Supervisor into one HTTP/WebSocket API server.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/bowjob/jobagent/pkg/api"
	"github.com/bowjob/jobagent/pkg/config"
	"github.com/bowjob/jobagent/pkg/cvtailor"
	"github.com/bowjob/jobagent/pkg/emailcomposer"
	"github.com/bowjob/jobagent/pkg/eventbus"
	"github.com/bowjob/jobagent/pkg/hrresolver"
	"github.com/bowjob/jobagent/pkg/jobsearch"
	"github.com/bowjob/jobagent/pkg/llmrouter"
	"github.com/bowjob/jobagent/pkg/models"
	"github.com/bowjob/jobagent/pkg/pipeline"
	"github.com/bowjob/jobagent/pkg/quota"
	"github.com/bowjob/jobagent/pkg/replywatcher"
	"github.com/bowjob/jobagent/pkg/sessionstore"
	"github.com/bowjob/jobagent/pkg/supervisor"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func buildModelPool(providers []config.ProviderConfig) []llmrouter.ModelSpec {
	pool := make([]llmrouter.ModelSpec, 0, len(providers))
	for _, p := range providers {
		apiKey := os.Getenv(p.APIKeyEnv)
		var backend llmrouter.Backend
		if p.Provider == "gemini" {
			backend = llmrouter.NewGeminiBackend(nil, apiKey, p.ModelID)
		} else {
			backend = llmrouter.NewOpenAIBackend(apiKey, p.BaseURL, p.ModelID)
		}
		timeout := time.Duration(p.TimeoutSeconds) * time.Second
		pool = append(pool, llmrouter.ModelSpec{
			Provider: p.Provider,
			ModelID:  p.ModelID,
			RPD:      p.RPD,
			Backend:  backend,
			Timeout:  timeout,
			Credentialed: func() bool {
				return p.APIKeyEnv == "" || os.Getenv(p.APIKeyEnv) != ""
			},
		})
	}
	return pool
}

func buildQuotaStore() quota.Store {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		return quota.NewMemoryStore()
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		slog.Warn("invalid REDIS_URL, falling back to in-memory quota store", "error", err)
		return quota.NewMemoryStore()
	}
	return quota.NewRedisStore(redis.NewClient(opts))
}

func main() {
	configPath := flag.String("config", getEnv("CONFIG_PATH", "./deploy/config/config.yaml"), "Path to the YAML configuration file")
	envPath := flag.String("env", getEnv("ENV_PATH", "./deploy/config/.env"), "Path to a .env file of credential environment variables")
	flag.Parse()

	if err := godotenv.Load(*envPath); err != nil {
		slog.Warn("could not load .env file, continuing with existing environment", "path", *envPath, "error", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "path", *configPath, "error", err)
		os.Exit(1)
	}

	bus := eventbus.NewBus()
	ledger := quota.NewLedger(buildQuotaStore())
	router := llmrouter.NewRouter(buildModelPool(cfg.Providers), llmrouter.FallbackChain(cfg.FallbackChain), ledger)
	sessions := sessionstore.NewStore()
	resolver := hrresolver.NewResolver() // no HR lookup adapters shipped; out of scope
	aggregator := jobsearch.NewAggregator(resolver, bus) // no job-board adapters shipped; out of scope
	tailor := cvtailor.NewTailor(router)
	composer := emailcomposer.NewComposer(router)
	ctrl := pipeline.NewController(tailor, resolver, composer, nil, nil, bus) // PDF rendering and mail delivery are out of scope

	apps := api.NewAppStore()
	jobs := api.NewJobStore()
	cvs := api.NewCVStore()
	sup := supervisor.New(sessions, router, aggregator, resolver, tailor, composer, ctrl, apps, jobs, cvs)

	srv := api.NewServer(cfg, bus, sessions, router, ledger, aggregator, resolver, tailor, composer, ctrl, sup, apps, jobs, cvs)

	onReply := func(ctx context.Context, app replywatcher.TrackedApplication, msg models.MailboxMessage, isInterview bool) {
		slog.Info("reply observed", "application_id", app.ApplicationID, "is_interview", isInterview)
		bus.Emit(app.UserID, eventbus.WorkflowUpdate{ApplicationID: app.ApplicationID, Step: "reply_received"})
	}
	watcher := replywatcher.NewWatcher(cfg.ReplyWatcher.PollInterval, replywatcher.StubMailboxProvider{}, appSourceAdapter{apps: apps}, bus, onReply)
	srv.SetReplyWatcher(watcher)

	if err := srv.ValidateWiring(); err != nil {
		slog.Error("server wiring incomplete", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher.Start(ctx)

	c := cron.New()
	if _, err := c.AddFunc("@midnight", func() {
		if err := ledger.ResetDaily(context.Background()); err != nil {
			slog.Error("quota reset failed", "error", err)
		}
	}); err != nil {
		slog.Error("failed to schedule daily quota reset", "error", err)
		os.Exit(1)
	}
	c.Start()
	defer c.Stop()

	httpPort := getEnv("HTTP_PORT", "8080")
	slog.Info("starting jobagentd", "port", httpPort, "config", *configPath)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(":" + httpPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err := <-errCh:
		slog.Error("http server failed", "error", err)
	}

	watcher.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("jobagentd stopped")
}
