// Package catalog serves the item catalog and its admin seeding.
package catalog

import (
	"context"
	"errors"
	"fmt"

	appshared "github.com/storefront/backend/internal/application/shared"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const maxPageSize = 100

// ItemService handles catalog reads and seeding
type ItemService struct {
	itemRepo inventory.ItemRepository
	logger   *zap.Logger
}

// NewItemService creates a new ItemService
func NewItemService(itemRepo inventory.ItemRepository, logger *zap.Logger) *ItemService {
	return &ItemService{
		itemRepo: itemRepo,
		logger:   logger,
	}
}

// List returns a page of items and the total number matching
func (s *ItemService) List(ctx context.Context, in ListItemsInput) ([]ItemResponse, int64, error) {
	filter := shared.DefaultFilter()
	if in.Page > 0 {
		filter.Page = in.Page
	}
	if in.PageSize > 0 {
		filter.PageSize = min(in.PageSize, maxPageSize)
	}
	if in.OrderBy != "" {
		filter.OrderBy = in.OrderBy
	}
	if in.OrderDir != "" {
		filter.OrderDir = in.OrderDir
	}
	filter.Search = in.Search
	filter.Filters[inventory.FilterCategory] = in.Category
	filter.Filters[inventory.FilterSubcategory] = in.Subcategory

	items, total, err := s.itemRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	out := make([]ItemResponse, 0, len(items))
	for i := range items {
		out = append(out, ToItemResponse(&items[i]))
	}
	return out, total, nil
}

// Get returns one item
func (s *ItemService) Get(ctx context.Context, id uint) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToItemResponse(item)
	return &resp, nil
}

// Categories returns every category with its subcategories
func (s *ItemService) Categories(ctx context.Context) ([]inventory.Category, error) {
	return s.itemRepo.Categories(ctx)
}

// Seed creates or overwrites each item by SKU, in request order. The batch
// is validated up front so a bad entry writes nothing.
func (s *ItemService) Seed(ctx context.Context, in SeedItemsInput) ([]ItemResponse, error) {
	if err := appshared.ValidateStruct(in); err != nil {
		return nil, err
	}

	items := make([]*inventory.Item, 0, len(in.Items))
	for i, entry := range in.Items {
		item, err := inventory.NewItem(entry.spec())
		if err != nil {
			var de *shared.DomainError
			if errors.As(err, &de) {
				return nil, appshared.NewValidationError(fmt.Sprintf("items[%d]", i), de.Message)
			}
			return nil, err
		}
		items = append(items, item)
	}

	out := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		if err := s.itemRepo.UpsertBySKU(ctx, item); err != nil {
			return nil, err
		}
		out = append(out, ToItemResponse(item))
	}

	s.logger.Info("catalog seeded", zap.Int("items", len(out)))
	return out, nil
}
