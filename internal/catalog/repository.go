// File: internal/catalog/repository.go
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pagination_backend/internal/common"
	"pagination_backend/internal/paging"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// sortColumns whitelists the sort fields accepted from requests.
var sortColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"slug":       "slug",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// SortColumn maps a requested sort field to its column.
func SortColumn(field string) (string, bool) {
	col, ok := sortColumns[field]
	return col, ok
}

// ErrUnsupportedSort builds the error returned for a sort field outside the whitelist.
func ErrUnsupportedSort(field string) *common.APIError {
	return common.ErrBadRequest.WithDetails(fmt.Sprintf("Unsupported sort field %q.", field))
}

// Repository defines the interface for category data operations.
type Repository interface {
	Create(ctx context.Context, category *Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindBySlug(ctx context.Context, slug string) (*Category, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)
	List(ctx context.Context, filter ListFilter, page PageQuery) ([]Category, error)
	FindAllForSync(ctx context.Context, offset, limit int) ([]Category, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM category repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Migrate creates or updates the catalog tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Category{}); err != nil {
		return fmt.Errorf("failed to migrate catalog schema: %w", err)
	}
	return nil
}

func (r *gormRepository) Create(ctx context.Context, category *Category) error {
	category.Slug = strings.ToLower(strings.TrimSpace(category.Slug))
	err := r.db.WithContext(ctx).Create(category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			return common.ErrConflict.WithDetails("Category with this name or slug already exists.")
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	var category Category
	err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Category not found.")
		}
		return nil, fmt.Errorf("failed to find category %s: %w", id, err)
	}
	return &category, nil
}

func (r *gormRepository) FindBySlug(ctx context.Context, slug string) (*Category, error) {
	var category Category
	normalizedSlug := strings.ToLower(strings.TrimSpace(slug))
	err := r.db.WithContext(ctx).First(&category, "slug = ?", normalizedSlug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Category not found.")
		}
		return nil, fmt.Errorf("failed to find category by slug %q: %w", normalizedSlug, err)
	}
	return &category, nil
}

func (r *gormRepository) filtered(ctx context.Context, filter ListFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&Category{})
	if name := strings.TrimSpace(filter.Name); name != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	return query
}

func (r *gormRepository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return total, nil
}

// List returns one page of categories. The sort column is whitelisted and
// quoted; id is appended as a tie-breaker so pages never overlap.
func (r *gormRepository) List(ctx context.Context, filter ListFilter, page PageQuery) ([]Category, error) {
	col, ok := SortColumn(page.Sort)
	if !ok {
		return nil, ErrUnsupportedSort(page.Sort)
	}
	dir := "DESC"
	if page.Dir == paging.DirAsc {
		dir = "ASC"
	}

	query := r.filtered(ctx, filter).Order(pq.QuoteIdentifier(col) + " " + dir)
	if col != "id" {
		query = query.Order(pq.QuoteIdentifier("id") + " " + dir)
	}

	var categories []Category
	err := query.Offset(page.Offset).Limit(page.Limit).Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// FindAllForSync walks every category in id order for the search reindex.
func (r *gormRepository) FindAllForSync(ctx context.Context, offset, limit int) ([]Category, error) {
	var categories []Category
	err := r.db.WithContext(ctx).Order("id ASC").Offset(offset).Limit(limit).Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories for sync (offset %d): %w", offset, err)
	}
	return categories, nil
}
