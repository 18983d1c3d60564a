// File: internal/catalog/model.go
package catalog

import (
	"time"

	"pagination_backend/internal/common"

	"github.com/google/uuid"
)

// Category represents the category model in the database.
type Category struct {
	common.BaseModel
	Name        string  `gorm:"type:varchar(100);not null;uniqueIndex:idx_categories_name"`
	Slug        string  `gorm:"type:varchar(100);not null;uniqueIndex:idx_categories_slug"`
	Description *string `gorm:"type:text"`
}

// TableName specifies the table name for the Category model.
func (Category) TableName() string {
	return "categories"
}

// --- Query values ---

// PageQuery is the slice of the result set a repository should return.
type PageQuery struct {
	Offset int
	Limit  int
	Sort   string
	Dir    string
}

// ListFilter narrows the category listing.
type ListFilter struct {
	Name string
}

// --- DTOs ---

// CategoryResponse defines the structure for category data sent in API responses.
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToCategoryResponse converts a Category model to a CategoryResponse DTO.
func ToCategoryResponse(category *Category) CategoryResponse {
	return CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}

// ToCategoryResponses converts a slice of models.
func ToCategoryResponses(categories []Category) []CategoryResponse {
	out := make([]CategoryResponse, len(categories))
	for i := range categories {
		out[i] = ToCategoryResponse(&categories[i])
	}
	return out
}

// CreateCategoryRequest is the body of POST /categories.
type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Slug        string  `json:"slug" binding:"omitempty,max=100,alphanumdash"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=2000"`
}

// ListCategoriesQuery holds the filter query parameters of GET /categories.
// Pagination parameters are read separately by the paging package.
type ListCategoriesQuery struct {
	Name string `form:"name" binding:"omitempty,max=100"`
}

// SearchCategoriesQuery holds the query parameters of GET /categories/search.
type SearchCategoriesQuery struct {
	Q string `form:"q" binding:"required,max=200"`
}

// ReindexResult summarizes a reindex run.
type ReindexResult struct {
	Indexed int `json:"indexed"`
	Failed  int `json:"failed"`
	Batches int `json:"batches"`
}
