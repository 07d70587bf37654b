package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	routes "github.com/ssko7098/Harmonize/internal/api"
	"github.com/ssko7098/Harmonize/internal/config"
	"github.com/ssko7098/Harmonize/internal/db"
	models "github.com/ssko7098/Harmonize/internal/models"
	media "github.com/ssko7098/Harmonize/internal/storage"
	"github.com/ssko7098/Harmonize/pkg/logger"
	storage "github.com/ssko7098/Harmonize/pkg/redis"
	"github.com/ssko7098/Harmonize/pkg/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	log, err := logger.NewLogger(ctx)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer log.Close()

	rclient, err := storage.NewRedis(ctx, cfg.RedisAddr, "")
	if err != nil {
		log.Error(ctx).WithMeta(utils.Map{"error": err.Error()}).Logs("Failed to initialize Redis")
		panic(err)
	}
	defer rclient.Close(log)

	gormDB, err := db.NewDB(ctx, cfg.DSN(), models.RegisterModels(), db.WithLogger(log))
	if err != nil {
		log.Error(ctx).WithMeta(utils.Map{"error": err.Error()}).Logs("Failed to initialize PostgreSQL database")
		panic("DB init failed")
	}
	defer db.CloseDB(log)

	store, err := media.NewMediaStore(cfg.MediaDir)
	if err != nil {
		log.Error(ctx).WithMeta(utils.Map{"error": err.Error()}).Logs("Failed to prepare media storage")
		panic(err)
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 50 * 1024 * 1024,
	})
	routes.NewRoutes(app, cfg, gormDB, log, rclient, store)

	go func() {
		<-ctx.Done()
		app.Shutdown()
	}()

	if err := app.Listen(cfg.ServerAddr); err != nil {
		log.Error(context.Background()).WithMeta(utils.Map{"error": err.Error()}).Logs("Server stopped")
	}
}
