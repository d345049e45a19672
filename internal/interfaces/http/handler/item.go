package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// ItemService reads and seeds the catalog
type ItemService interface {
	List(ctx context.Context, in catalog.ListItemsInput) ([]catalog.ItemResponse, int64, error)
	Get(ctx context.Context, id uint) (*catalog.ItemResponse, error)
	Categories(ctx context.Context) ([]inventory.Category, error)
	Seed(ctx context.Context, in catalog.SeedItemsInput) ([]catalog.ItemResponse, error)
}

// ListItemsQuery are the catalog query parameters
type ListItemsQuery struct {
	Category    string `form:"category"`
	Subcategory string `form:"subcategory"`
	Search      string `form:"search" binding:"max=100"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy     string `form:"order_by" binding:"omitempty,oneof=name price quantity sku created_at"`
	OrderDir    string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ItemHandler serves the item catalog
type ItemHandler struct {
	BaseHandler
	service ItemService
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(service ItemService) *ItemHandler {
	return &ItemHandler{service: service}
}

// List godoc
// @ID           listItems
// @Summary      List catalog items
// @Tags         items
// @Produce      json
// @Param        category query string false "Category"
// @Param        subcategory query string false "Subcategory"
// @Param        search query string false "Name or SKU search"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]catalog.ItemResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /items [get]
func (h *ItemHandler) List(c *gin.Context) {
	var q ListItemsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.ValidationError(c, err)
		return
	}

	items, total, err := h.service.List(c.Request.Context(), catalog.ListItemsInput(q))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := q.Page, q.PageSize
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, items, total, page, pageSize)
}

// Categories godoc
// @ID           listItemCategories
// @Summary      List categories with their subcategories
// @Tags         items
// @Produce      json
// @Success      200 {object} APIResponse[[]inventory.Category]
// @Router       /items/categories [get]
func (h *ItemHandler) Categories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, categories)
}

// Get godoc
// @ID           getItem
// @Summary      Get an item
// @Tags         items
// @Produce      json
// @Param        id path int true "Item ID"
// @Success      200 {object} APIResponse[catalog.ItemResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /items/{id} [get]
func (h *ItemHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.Fail(c, dto.ErrCodeBadRequest, "Invalid item ID")
		return
	}

	item, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// Seed godoc
// @ID           seedItems
// @Summary      Create or overwrite catalog items by SKU
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body catalog.SeedItemsInput true "Items"
// @Success      201 {object} APIResponse[[]catalog.ItemResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /admin/seed-items [post]
func (h *ItemHandler) Seed(c *gin.Context) {
	var input catalog.SeedItemsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.InvalidJSON(c)
		return
	}

	items, err := h.service.Seed(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, items)
}
