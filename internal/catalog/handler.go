// File: internal/catalog/handler.go
package catalog

import (
	"errors"

	"pagination_backend/internal/common"
	"pagination_backend/internal/middleware"
	"pagination_backend/internal/paging"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Route names used for dispatch and URL building.
const (
	Module     = "catalog"
	Controller = "categories"

	ActionList   = "list"
	ActionSearch = "search"
	ActionGet    = "get"
	ActionCreate = "create"
)

// Handler struct holds dependencies for category handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new category handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.Named("CatalogHandler"),
	}
}

// RegisterRoutes sets up the category routes and registers the paths of the
// paginated ones with urls so pagination links point back at them.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, urls *paging.PathBuilder) {
	categoryGroup := router.Group("/categories")
	{
		categoryGroup.GET("", middleware.Dispatch(Module, Controller, ActionList), h.listCategories)
		categoryGroup.GET("/search", middleware.Dispatch(Module, Controller, ActionSearch), h.searchCategories)
		categoryGroup.GET("/:idOrSlug", middleware.Dispatch(Module, Controller, ActionGet), h.getCategory)
		categoryGroup.POST("", middleware.Dispatch(Module, Controller, ActionCreate), h.createCategory)
	}

	if urls != nil {
		base := categoryGroup.BasePath()
		urls.Handle(Module, Controller, ActionList, base)
		urls.Handle(Module, Controller, ActionSearch, base+"/search")
	}
}

func (h *Handler) bindError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
		return
	}
	common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
}

func (h *Handler) listCategories(c *gin.Context) {
	var query ListCategoriesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.logger.Warn("List categories: Invalid query parameters", zap.Error(err))
		h.bindError(c, err)
		return
	}

	state := paging.Page(c)
	if query.Name != "" {
		state.SetWhere(paging.Params{"name": query.Name})
	}

	categories, err := h.service.ListCategories(c.Request.Context(), state, ListFilter{Name: query.Name})
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Categories retrieved successfully.", categories, state)
}

func (h *Handler) searchCategories(c *gin.Context) {
	var query SearchCategoriesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.logger.Warn("Search categories: Invalid query parameters", zap.Error(err))
		h.bindError(c, err)
		return
	}

	state := paging.Page(c)
	state.SetWhere(paging.Params{"q": query.Q})

	categories, err := h.service.SearchCategories(c.Request.Context(), state, query.Q)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Categories retrieved successfully.", categories, state)
}

func (h *Handler) getCategory(c *gin.Context) {
	category, err := h.service.GetCategory(c.Request.Context(), c.Param("idOrSlug"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Category retrieved successfully.", ToCategoryResponse(category))
}

func (h *Handler) createCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Create category: Invalid request body", zap.Error(err))
		h.bindError(c, err)
		return
	}
	category, err := h.service.CreateCategory(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Category created successfully.", ToCategoryResponse(category))
}
