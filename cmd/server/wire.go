// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"pagination_backend/internal/app"
	"pagination_backend/internal/catalog"
	"pagination_backend/internal/config"
	"pagination_backend/internal/jobs"
	platformElasticsearch "pagination_backend/internal/platform/elasticsearch"
	"pagination_backend/internal/platform/logger"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,
		provideDatabase,
		platformElasticsearch.NewClient,

		// Catalog
		provideCatalogRepository,
		catalog.NewSearchRepository,
		catalog.NewService,
		catalog.NewHandler,
		jobs.NewCatalogReindexJob,

		// Application Layer
		app.NewURLBuilder,
		app.NewPagingDefaults,
		app.NewServer,
	)
	return nil, nil, nil
}
