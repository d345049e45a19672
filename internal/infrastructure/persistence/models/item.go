package models

import (
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/inventory"
)

// ItemModel is the persistence model for the inventory ledger
type ItemModel struct {
	BaseModel
	SKU               string          `gorm:"type:varchar(64);not null;uniqueIndex"`
	Name              string          `gorm:"type:varchar(200);not null"`
	Category          string          `gorm:"type:varchar(100);not null;index:idx_items_category"`
	Subcategory       string          `gorm:"type:varchar(100);not null;index:idx_items_category"`
	Description       string          `gorm:"type:text"`
	ImageURL          string          `gorm:"type:varchar(500)"`
	Price             decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Quantity          int             `gorm:"not null;default:0"`
	LowStockThreshold int             `gorm:"not null;default:10"`
}

// TableName returns the table name for GORM
func (ItemModel) TableName() string {
	return "items"
}

// ToDomain converts the persistence model to a domain Item
func (m *ItemModel) ToDomain() *inventory.Item {
	return &inventory.Item{
		BaseEntity:        m.BaseModel.Entity(),
		SKU:               m.SKU,
		Name:              m.Name,
		Category:          m.Category,
		Subcategory:       m.Subcategory,
		Description:       m.Description,
		ImageURL:          m.ImageURL,
		Price:             m.Price,
		Quantity:          m.Quantity,
		LowStockThreshold: m.LowStockThreshold,
	}
}

// FromDomain populates the persistence model from a domain Item
func (m *ItemModel) FromDomain(i *inventory.Item) {
	m.BaseModel = baseModel(i.BaseEntity)
	m.SKU = i.SKU
	m.Name = i.Name
	m.Category = i.Category
	m.Subcategory = i.Subcategory
	m.Description = i.Description
	m.ImageURL = i.ImageURL
	m.Price = i.Price
	m.Quantity = i.Quantity
	m.LowStockThreshold = i.LowStockThreshold
}

// ItemModelFromDomain creates a persistence model from a domain Item
func ItemModelFromDomain(i *inventory.Item) *ItemModel {
	m := &ItemModel{}
	m.FromDomain(i)
	return m
}
