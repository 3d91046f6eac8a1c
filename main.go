package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"restaurant-api/cmd"
	"restaurant-api/internal/data/cache"
	"restaurant-api/internal/data/repository"
	"restaurant-api/internal/wire"
	"restaurant-api/pkg/database"
	"restaurant-api/pkg/storage"
	"restaurant-api/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if config.Database.AutoMigrate {
		if err := database.Migrate(ctx, db, logger); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Menu reads go through Redis when it is configured
	if config.Redis.Addr != "" {
		rdb, err := cache.ConnectRedis(config.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer rdb.Close()

		store := cache.NewRedisStore(rdb)
		repos.Dish = cache.NewCachedDishRepository(repos.Dish, store, config.Redis.CacheTTL, logger)
		repos.Category = cache.NewCachedCategoryRepository(repos.Category, store, config.Redis.CacheTTL, logger)

		logger.Info("Menu cache enabled", zap.String("addr", config.Redis.Addr))
	}

	images := storage.NewLocalStore(config.Storage.Path, config.Storage.BaseURL, config.Storage.ImageMaxWidth)

	// Wire all dependencies
	app := wire.Wiring(repos, images, utils.SystemClock(), config, logger)

	go app.Sweeper.Run(ctx)

	// Start server
	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}
}
