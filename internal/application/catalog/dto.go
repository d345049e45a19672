package catalog

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/inventory"
)

// ItemResponse is a catalog item with its on-hand stock
type ItemResponse struct {
	ID                uint            `json:"id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	Subcategory       string          `json:"subcategory"`
	Description       string          `json:"description,omitempty"`
	ImageURL          string          `json:"imageUrl,omitempty"`
	Price             decimal.Decimal `json:"price"`
	Quantity          int             `json:"quantity"`
	LowStockThreshold int             `json:"lowStockThreshold"`
	LowStock          bool            `json:"lowStock"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// ToItemResponse converts a domain item
func ToItemResponse(i *inventory.Item) ItemResponse {
	return ItemResponse{
		ID:                i.ID,
		SKU:               i.SKU,
		Name:              i.Name,
		Category:          i.Category,
		Subcategory:       i.Subcategory,
		Description:       i.Description,
		ImageURL:          i.ImageURL,
		Price:             i.Price,
		Quantity:          i.Quantity,
		LowStockThreshold: i.LowStockThreshold,
		LowStock:          i.IsLowStock(),
		CreatedAt:         i.CreatedAt,
		UpdatedAt:         i.UpdatedAt,
	}
}

// ListItemsInput filters and pages the catalog
type ListItemsInput struct {
	Category    string
	Subcategory string
	Search      string
	Page        int
	PageSize    int
	OrderBy     string
	OrderDir    string
}

// SeedItemInput is one catalog entry to create or overwrite by SKU
type SeedItemInput struct {
	SKU               string          `json:"sku" validate:"required,max=64"`
	Name              string          `json:"name" validate:"required,max=200"`
	Category          string          `json:"category" validate:"required"`
	Subcategory       string          `json:"subcategory" validate:"required"`
	Description       string          `json:"description"`
	ImageURL          string          `json:"imageUrl" validate:"omitempty,url"`
	Price             decimal.Decimal `json:"price"`
	Quantity          int             `json:"quantity" validate:"gte=0"`
	LowStockThreshold *int            `json:"lowStockThreshold" validate:"omitempty,gte=0"`
}

// SeedItemsInput is a batch of catalog entries
type SeedItemsInput struct {
	Items []SeedItemInput `json:"items" validate:"min=1,dive"`
}

func (in SeedItemInput) spec() inventory.ItemSpec {
	return inventory.ItemSpec{
		SKU:               in.SKU,
		Name:              in.Name,
		Category:          in.Category,
		Subcategory:       in.Subcategory,
		Description:       in.Description,
		ImageURL:          in.ImageURL,
		Price:             in.Price,
		Quantity:          in.Quantity,
		LowStockThreshold: in.LowStockThreshold,
	}
}
