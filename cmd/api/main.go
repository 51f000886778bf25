package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/parksyhq/parksy/internal/adapters/here"
	"github.com/parksyhq/parksy/internal/adapters/http"
	"github.com/parksyhq/parksy/internal/adapters/memory"
	natsadapter "github.com/parksyhq/parksy/internal/adapters/nats"
	"github.com/parksyhq/parksy/internal/adapters/openrouter"
	"github.com/parksyhq/parksy/internal/adapters/postgres"
	"github.com/parksyhq/parksy/internal/adapters/valkey"
	"github.com/parksyhq/parksy/internal/core/ports"
	"github.com/parksyhq/parksy/internal/core/usecases"
	"github.com/parksyhq/parksy/internal/pkg/config"
	"github.com/parksyhq/parksy/internal/pkg/logging"
	"github.com/parksyhq/parksy/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("parksy-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup("parksy-api", logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	deps := &http.Dependencies{}
	sessionTTL := time.Duration(cfg.Session.TTLMinutes) * time.Minute

	// Session store: valkey when configured, in-memory otherwise
	var sessions ports.SessionStore
	if cfg.Valkey.Enabled {
		store, err := valkey.New(cfg.Valkey.Addr, sessionTTL)
		if err != nil {
			slog.Warn("valkey unavailable, using in-memory sessions", "error", err)
		} else {
			defer store.Close()
			deps.Sessions = store
			sessions = store
		}
	}
	if sessions == nil {
		store := memory.NewSessionStore(sessionTTL)
		defer store.Close()
		sessions = store
	}

	// Turn log: optional Postgres audit trail
	var turnLog ports.TurnLogger
	if cfg.Database.Enabled {
		db, err := postgres.New(ctx, cfg.Database.DSN())
		if err != nil {
			slog.Warn("database unavailable, turn logging disabled", "error", err)
		} else {
			defer db.Close()
			repo := postgres.NewTurnLogRepo(db)
			if err := repo.EnsureSchema(ctx); err != nil {
				slog.Warn("turn log schema setup failed", "error", err)
			} else {
				deps.DB = db
				turnLog = repo
			}
		}
	}

	// Search events: optional NATS JetStream
	var events ports.EventPublisher
	if cfg.NATS.Enabled {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable, search events disabled", "error", err)
		} else {
			defer pub.Close()
			deps.Events = pub
			events = pub
		}
	}

	// Providers
	hereClient := here.New(cfg.HERE.APIKey,
		here.WithEndpoints(cfg.HERE.GeocodeURL, cfg.HERE.DiscoverURL),
		here.WithTimeout(time.Duration(cfg.HERE.TimeoutSecs)*time.Second),
	)
	chatModel := openrouter.New(cfg.OpenRouter.APIKey, cfg.OpenRouter.Model,
		openrouter.WithBaseURL(cfg.OpenRouter.BaseURL),
		openrouter.WithTimeout(time.Duration(cfg.OpenRouter.TimeoutSecs)*time.Second),
	)

	// Use cases
	normalizer := usecases.NewNormalizer(time.Now)
	aggregator := usecases.NewAggregator(hereClient, normalizer, cfg.HERE.RadiusM)
	synthetic := usecases.NewSyntheticGenerator(time.Now().UnixNano())
	composer := usecases.NewComposer(chatModel, time.Now)
	deps.Assistant = usecases.NewAssistant(
		hereClient, aggregator, synthetic, composer,
		sessions, turnLog, events, cfg.Session.MaxTurns,
	)

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Parksy API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173, https://*.parksy.uk",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
