package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	appauth "github.com/provgso/requisition-api/internal/application/auth"
	"github.com/provgso/requisition-api/internal/application/requisition"
	infrapdf "github.com/provgso/requisition-api/internal/infrastructure/pdf"
	"github.com/provgso/requisition-api/internal/infrastructure/postgres"
	"github.com/provgso/requisition-api/internal/infrastructure/redisx"
	httpRouter "github.com/provgso/requisition-api/internal/interfaces/http"
	"github.com/provgso/requisition-api/pkg/config"
	"github.com/provgso/requisition-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("PostgreSQL connection")
	}
	defer pool.Close()

	itemRepo := postgres.NewItemRepository(pool)
	requestRepo := postgres.NewRequestRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	actorRepo := postgres.NewActorRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Availability cache is optional; without REDIS_ADDR reads hit the store.
	var cache requisition.AvailabilityCache
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis unreachable, availability cache disabled")
		} else {
			cache = redisx.NewAvailabilityCache(client)
			defer client.Close()
		}
	}

	workflow := requisition.NewWorkflow(txRunner, cache)
	authorizer := appauth.NewRoleAuthorizer(actorRepo)
	gateway := requisition.NewGateway(authorizer, workflow, itemRepo, requestRepo, movementRepo, cache)

	slipRenderer := infrapdf.NewMarotoSlipRenderer(cfg.App.Name)
	slipUC := requisition.NewSlipUseCase(requestRepo, actorRepo, slipRenderer)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Gateway:   gateway,
		Slips:     slipUC,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
