// File: internal/catalog/service.go
package catalog

import (
	"context"
	"fmt"
	"strings"

	"pagination_backend/internal/common"
	"pagination_backend/internal/paging"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// Service defines the interface for catalog business logic.
type Service interface {
	ListCategories(ctx context.Context, state *paging.State, filter ListFilter) ([]CategoryResponse, error)
	SearchCategories(ctx context.Context, state *paging.State, query string) ([]CategoryResponse, error)
	GetCategory(ctx context.Context, idOrSlug string) (*Category, error)
	CreateCategory(ctx context.Context, req CreateCategoryRequest) (*Category, error)
	Reindex(ctx context.Context, batchSize int) (ReindexResult, error)
}

type service struct {
	repo     Repository
	searcher Searcher
	logger   *zap.Logger
}

// NewService creates a new catalog service. searcher may be nil when search
// is not configured.
func NewService(repo Repository, searcher Searcher, logger *zap.Logger) Service {
	return &service{
		repo:     repo,
		searcher: searcher,
		logger:   logger.Named("CatalogService"),
	}
}

func pageQuery(state *paging.State) PageQuery {
	offset, limit := state.Limit()
	sort, dir := state.OrderBy()
	return PageQuery{Offset: offset, Limit: limit, Sort: sort, Dir: dir}
}

// ListCategories counts first so the page can be clamped into range before
// the offset is taken from the state.
func (s *service) ListCategories(ctx context.Context, state *paging.State, filter ListFilter) ([]CategoryResponse, error) {
	if _, ok := SortColumn(state.Sort()); !ok {
		return nil, ErrUnsupportedSort(state.Sort())
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to count categories", zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not retrieve categories.")
	}
	state.SetCount(total)

	categories, err := s.repo.List(ctx, filter, pageQuery(state))
	if err != nil {
		if apiErr, ok := common.IsAPIError(err); ok {
			return nil, apiErr
		}
		s.logger.Error("Failed to list categories", zap.Error(err), zap.Int("page", state.CurrentPage()))
		return nil, common.ErrInternalServer.WithDetails("Could not retrieve categories.")
	}
	return ToCategoryResponses(categories), nil
}

// inSearchWindow reports whether page can be served by a single search.
func inSearchWindow(page PageQuery) bool {
	return page.Limit <= MaxSearchWindow && page.Offset <= MaxSearchWindow-page.Limit
}

// SearchCategories learns the total from the first response. When that total
// clamps the requested page, the query is repeated at the clamped offset.
// A requested page past the search window is not sent as is: a hits-free
// query fetches the total first.
func (s *service) SearchCategories(ctx context.Context, state *paging.State, query string) ([]CategoryResponse, error) {
	if s.searcher == nil {
		return nil, common.ErrServiceUnavailable.WithDetails("Category search is not enabled.")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, common.ErrBadRequest.WithDetails("Search query must not be empty.")
	}

	first := pageQuery(state)
	if !inSearchWindow(first) {
		first = PageQuery{Offset: 0, Limit: 0, Sort: first.Sort, Dir: first.Dir}
	}
	categories, total, err := s.searcher.Search(ctx, query, first)
	if err != nil {
		if apiErr, ok := common.IsAPIError(err); ok {
			return nil, apiErr
		}
		s.logger.Error("Category search failed", zap.Error(err), zap.String("query", query))
		return nil, common.ErrInternalServer.WithDetails("Could not search categories.")
	}
	state.SetCount(total)

	clamped := pageQuery(state)
	if !inSearchWindow(clamped) {
		return nil, common.ErrUnprocessableEntity.WithDetails(
			fmt.Sprintf("Search results can only be paged through the first %d matches.", MaxSearchWindow))
	}
	if clamped != first && total > 0 {
		categories, _, err = s.searcher.Search(ctx, query, clamped)
		if err != nil {
			s.logger.Error("Category search failed on clamped page", zap.Error(err), zap.String("query", query))
			return nil, common.ErrInternalServer.WithDetails("Could not search categories.")
		}
	}
	return ToCategoryResponses(categories), nil
}

func (s *service) GetCategory(ctx context.Context, idOrSlug string) (*Category, error) {
	if id, err := uuid.Parse(idOrSlug); err == nil {
		return s.repo.FindByID(ctx, id)
	}
	return s.repo.FindBySlug(ctx, idOrSlug)
}

func (s *service) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*Category, error) {
	finalSlug := strings.TrimSpace(req.Slug)
	if finalSlug == "" {
		finalSlug = slug.Make(req.Name)
	} else {
		finalSlug = slug.Make(finalSlug)
	}
	if finalSlug == "" {
		return nil, common.ErrBadRequest.WithDetails("A slug could not be derived from the category name.")
	}

	category := &Category{
		Name:        strings.TrimSpace(req.Name),
		Slug:        finalSlug,
		Description: req.Description,
	}

	if err := s.repo.Create(ctx, category); err != nil {
		s.logger.Error("Failed to create category", zap.Error(err), zap.String("name", req.Name))
		return nil, err
	}
	s.logger.Info("Category created successfully", zap.String("id", category.ID.String()), zap.String("slug", category.Slug))

	if s.searcher != nil {
		if err := s.searcher.Index(ctx, category); err != nil {
			// The next reindex run picks the category up.
			s.logger.Warn("Failed to index new category", zap.Error(err), zap.String("id", category.ID.String()))
		}
	}
	return category, nil
}

// Reindex copies every category into the search index, batch by batch.
func (s *service) Reindex(ctx context.Context, batchSize int) (ReindexResult, error) {
	var result ReindexResult
	if s.searcher == nil {
		return result, common.ErrServiceUnavailable.WithDetails("Category search is not enabled.")
	}
	if batchSize < 1 {
		batchSize = paging.DefaultSize
	}

	for offset := 0; ; offset += batchSize {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		batch, err := s.repo.FindAllForSync(ctx, offset, batchSize)
		if err != nil {
			return result, err
		}
		if len(batch) == 0 {
			break
		}
		result.Batches++

		indexed, err := s.searcher.BulkIndex(ctx, batch)
		if err != nil {
			s.logger.Error("Bulk index failed", zap.Error(err), zap.Int("batch", result.Batches), zap.Int("offset", offset))
			result.Failed += len(batch)
		} else {
			result.Indexed += indexed
			result.Failed += len(batch) - indexed
		}

		if len(batch) < batchSize {
			break
		}
	}

	s.logger.Info("Catalog reindex finished",
		zap.Int("indexed", result.Indexed),
		zap.Int("failed", result.Failed),
		zap.Int("batches", result.Batches),
	)
	return result, nil
}
