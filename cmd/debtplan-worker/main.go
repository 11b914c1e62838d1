package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"debtplan/internal/amqp"
	"debtplan/internal/cache"
	"debtplan/internal/config"
	"debtplan/internal/engine"
	"debtplan/internal/log"
	"debtplan/internal/resultstore"
	"debtplan/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig()).WithComponent(log.ComponentWorker)
	log.SetDefault(logger)

	logger.Info("Starting debtplan-worker")

	// Load configuration
	cfg := config.Load()

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	// Initialize the result store (memory or redis)
	store, cleanup, err := resultstore.New(resultstore.Config{
		Type:      resultstore.BackendType(cfg.ResultStoreBackend),
		MaxSize:   cfg.CacheMaxSize,
		RedisAddr: cfg.RedisAddr,
		TTL:       cfg.CacheTTL,
	}, logger.WithComponent(log.ComponentResultStore))
	if err != nil {
		logger.Error("Failed to initialize result store", log.FieldError, err)
		os.Exit(1)
	}
	defer cleanup()

	// The memory store needs periodic expiry cleanup
	cacheManager := cache.NewManager()
	if mem, ok := store.(*resultstore.MemoryStore); ok {
		cacheManager.Register(mem)
		cacheManager.StartCleanup(cfg.CleanupInterval)
		defer cacheManager.Stop()
	}

	// Initialize AMQP client for consuming requests and publishing results
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.RequestQueue, cfg.ResultQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	planner := engine.NewPlanner(logger.WithComponent(log.ComponentEngine))
	simWorker := worker.NewSimWorker(planner, store, amqpClient, cfg.Concurrency, logger)

	go func() {
		handler := func(msg *amqp.PlanRequestMessage) error {
			return simWorker.HandlePlanRequest(ctx, msg)
		}
		if err := amqpClient.ConsumePlanRequests(ctx, handler); err != nil {
			if err != context.Canceled {
				logger.Error("Message consumption failed", log.FieldError, err)
			}
			cancel()
		}
	}()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	// Graceful shutdown
	logger.Info("Shutting down worker...")
	cancel()

	// Give in-flight simulations time to finish
	time.Sleep(2 * time.Second)
	logger.Info("Worker shutdown complete")
}
