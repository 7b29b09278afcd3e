// main.go
package main

import (
	"log"

	"trip-sharing/cmd"
	"trip-sharing/internal/data/repository"
	"trip-sharing/internal/events"
	"trip-sharing/internal/scheduler"
	"trip-sharing/internal/wire"
	"trip-sharing/pkg/cache"
	"trip-sharing/pkg/database"
	"trip-sharing/pkg/utils"

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

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Cache backend: Redis when configured, in-process fallback otherwise
	var store cache.Store
	if config.Redis.Addr != "" {
		redisStore, err := cache.NewRedisStore(config.Redis, logger)
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer redisStore.Close()
		store = redisStore
		logger.Info("Redis cache connected", zap.String("addr", config.Redis.Addr))
	} else {
		store = cache.NewMemoryStore()
		logger.Warn("REDIS_ADDR not set, using in-memory cache")
	}

	// Domain event bus, with Kafka fan-out when brokers are configured
	var publishers []events.Publisher
	if len(config.Kafka.Brokers) > 0 {
		kafkaPub := events.NewKafkaPublisher(config.Kafka.Brokers, config.Kafka.Topic, logger)
		defer kafkaPub.Close()
		publishers = append(publishers, kafkaPub)
		logger.Info("Kafka publisher enabled",
			zap.Strings("brokers", config.Kafka.Brokers),
			zap.String("topic", config.Kafka.Topic),
		)
	}
	bus := events.NewBus(store, logger, publishers...)

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, config, store, bus, logger)

	// Background queue processing and cleanup
	if config.Scheduler.Enabled {
		sched := scheduler.New(app.Service.Queue, config, logger)
		if err := sched.Start(); err != nil {
			logger.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer sched.Stop()
	} else {
		logger.Info("Scheduler disabled")
	}

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port, logger)
}
