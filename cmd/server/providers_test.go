package main

import (
	"context"
	"testing"

	"pagination_backend/internal/catalog"
	"pagination_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProvideDatabaseAndRepository(t *testing.T) {
	cfg := &config.Config{
		DBDriver:       "sqlite",
		DBSource:       "file::memory:",
		LogLevel:       "error",
		DBMaxIdleConns: 1,
		DBMaxOpenConns: 1,
	}

	db, cleanup, err := provideDatabase(cfg, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()

	repo, err := provideCatalogRepository(db)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &catalog.Category{Name: "Bikes", Slug: "bikes"}))
	total, err := repo.Count(ctx, catalog.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
