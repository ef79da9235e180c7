package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	httpadapter "resume-builder/internal/adapter/http"
	repo "resume-builder/internal/adapter/repository"
	"resume-builder/internal/config"
	"resume-builder/internal/infrastructure/migration"
	"resume-builder/internal/usecase"
	"resume-builder/pkg/ai"
	infra "resume-builder/pkg/infrastructure"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load("")
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	ctx := context.Background()

	pool, err := infra.NewPool(ctx, cfg.DB.URL)
	if err != nil {
		log.Error("database not available", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := migration.RunMigrations(ctx, pool); err != nil {
		log.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	var cache ai.Cache
	if cfg.Redis.URL != "" {
		rc, err := ai.NewRedisCache(ctx, cfg.Redis.URL, cfg.Redis.TTL)
		if err != nil {
			log.Warn("redis not available, using in-process ai cache", "error", err)
		} else {
			cache = rc
		}
	}
	textGen := ai.NewClient(cfg.AI.BaseURL, cfg.AI.Timeout, cache)

	renderer := infra.NewChromedpRenderer(cfg.Files.ChromePath, cfg.Files.TemplatesDir)
	word := infra.NewDocxExporter(cfg.Files.TemplatesDir)

	svc := usecase.NewService(
		repo.NewResumesRepo(pool),
		repo.NewSectionsRepo(pool),
		renderer,
		word,
		cfg.Files.ThumbnailDir,
		log,
	)

	app := fiber.New(fiber.Config{AppName: "resume-builder"})
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(recover.New())

	httpadapter.NewHandler(svc, textGen, cfg.Files.TemplatesDir).Register(app)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()
	log.Info("server started", "addr", cfg.HTTP.Addr(), "env", cfg.Env)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	_ = app.Shutdown()
}
