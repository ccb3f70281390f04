package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"time"

	"github.com/dumu-tech/boomerang/internal/adapters/http"
	"github.com/dumu-tech/boomerang/internal/adapters/messenger"
	redisRepo "github.com/dumu-tech/boomerang/internal/adapters/redis"
	"github.com/dumu-tech/boomerang/internal/config"
	"github.com/dumu-tech/boomerang/internal/core"
	"github.com/dumu-tech/boomerang/internal/service"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	// Hosted attachments live in Redis when configured, otherwise in memory
	var store core.AttachmentStore = service.NewMemoryStore()
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		if cfg.RedisPassword != "" {
			redisOpts.Password = cfg.RedisPassword
		}

		rdb := redis.NewClient(redisOpts)
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		log.Println("✓ Redis connection established")

		store = redisRepo.NewRepository(rdb)
	}

	// Initialize Messenger client
	client := messenger.NewClient(cfg.PageToken,
		messenger.WithBaseURL(cfg.GraphURL),
		messenger.WithHTTPClient(&nethttp.Client{Timeout: cfg.HTTPTimeout}),
		messenger.WithLogger(logger),
	)

	host := service.NewAttachmentHost(cfg.BaseURL, store, logger)
	bot := service.NewBot(cfg.VerifyToken, client,
		service.WithAttachmentHost(host),
		service.WithBotLogger(logger),
	)
	registerHandlers(bot)

	// Initialize HTTP Handler
	httpHandler := http.NewHandler(bot, host, logger)
	app := http.NewApp(httpHandler, cfg.WebhookPath)

	log.Println("✓ Routes registered:")
	log.Printf("  GET  %s - Messenger webhook registration", cfg.WebhookPath)
	log.Printf("  POST %s - Messenger webhook events", cfg.WebhookPath)
	log.Printf("  GET  %s/:id - Hosted attachments", service.AttachmentRoute)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.AppPort)
	log.Printf("Server starting on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
