// File: cmd/server/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"log" // Standard log for critical startup/shutdown messages before/after zap is active
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"pagination_backend/internal/catalog"
	"pagination_backend/internal/config"
	"pagination_backend/internal/platform/database"
	platformElasticsearch "pagination_backend/internal/platform/elasticsearch"
	"pagination_backend/internal/platform/logger"

	"go.uber.org/zap"
)

func main() {
	reindexCmd := flag.NewFlagSet("reindex", flag.ExitOnError)
	batchSize := reindexCmd.Int("batch-size", 0, "Batch size for reindexing categories (default CATALOG_REINDEX_BATCH_SIZE)")

	if len(os.Args) > 1 && os.Args[1] == "reindex" {
		if err := reindexCmd.Parse(os.Args[2:]); err != nil {
			log.Fatalf("FATAL: %v", err)
		}
		runReindex(*batchSize)
		return
	}

	startServer()
}

func startServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	server, cleanup, err := initializeServer(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize server: %v", err)
	}
	defer cleanup()

	if server.ESClient != nil {
		if err := platformElasticsearch.CreateCategoriesIndexIfNotExists(context.Background(), server.ESClient, server.AppLogger); err != nil {
			server.AppLogger.Error("Failed to create Elasticsearch categories index; search requests may fail.", zap.Error(err))
		}
	} else {
		server.AppLogger.Info("Elasticsearch client not initialized, skipping index creation.")
	}

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: Server failed to start or crashed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("INFO: Received signal '%s'. Shutting down server...", sig)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ServerTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown due to error: %v", err)
	} else {
		log.Println("INFO: Server shutdown complete.")
	}
	log.Println("INFO: Application exiting.")
}

// runReindex copies every category into the search index once and exits.
func runReindex(batchSize int) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration for reindex: %v", err)
	}
	if batchSize < 1 {
		batchSize = cfg.CatalogReindexBatchSize
	}

	appLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger for reindex: %v", err)
	}
	defer appLogger.Sync() //nolint:errcheck

	db, closeDB, err := database.NewGORM(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("FATAL: Failed to initialize database for reindex", zap.Error(err))
	}
	defer closeDB()

	if err := catalog.Migrate(db); err != nil {
		appLogger.Fatal("FATAL: Failed to migrate catalog schema", zap.Error(err))
	}

	esClient, err := platformElasticsearch.NewClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("FATAL: Failed to initialize Elasticsearch client for reindex", zap.Error(err))
	}
	if esClient == nil {
		appLogger.Fatal("FATAL: ELASTICSEARCH_URL must be set to reindex categories.")
	}

	ctx := context.Background()
	if err := platformElasticsearch.CreateCategoriesIndexIfNotExists(ctx, esClient, appLogger); err != nil {
		appLogger.Fatal("FATAL: Failed to create/verify Elasticsearch index before reindex", zap.Error(err))
	}

	service := catalog.NewService(
		catalog.NewGORMRepository(db),
		catalog.NewSearchRepository(esClient, appLogger),
		appLogger,
	)
	result, err := service.Reindex(ctx, batchSize)
	if err != nil {
		appLogger.Fatal("FATAL: Catalog reindex failed", zap.Error(err))
	}
	if result.Failed > 0 {
		appLogger.Error("Catalog reindex finished with failures", zap.Int("failed", result.Failed), zap.Int("indexed", result.Indexed))
		closeDB()
		os.Exit(1)
	}
	appLogger.Info("Catalog reindex completed successfully.", zap.Int("indexed", result.Indexed), zap.Int("batches", result.Batches))
}
