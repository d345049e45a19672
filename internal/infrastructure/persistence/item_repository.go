package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormItemRepository implements inventory.ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindByID finds an item by its ID
func (r *GormItemRepository) FindByID(ctx context.Context, id uint) (*inventory.Item, error) {
	var m models.ItemModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventory.NewItemNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to find item %d: %w", id, err)
	}
	return m.ToDomain(), nil
}

// FindBySKU finds an item by its SKU
func (r *GormItemRepository) FindBySKU(ctx context.Context, sku string) (*inventory.Item, error) {
	var m models.ItemModel
	if err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find item by sku: %w", err)
	}
	return m.ToDomain(), nil
}

// List returns a page of items and the total matching the filter
func (r *GormItemRepository) List(ctx context.Context, filter shared.Filter) ([]inventory.Item, int64, error) {
	query := r.applyConditions(r.db.WithContext(ctx).Model(&models.ItemModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count items: %w", err)
	}

	query = query.Clauses(itemSortColumns.orderBy(filter.OrderBy, filter.OrderDir, "created_at"))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var rows []models.ItemModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list items: %w", err)
	}

	items := make([]inventory.Item, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items, total, nil
}

func (r *GormItemRepository) applyConditions(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if category := filter.Filters[inventory.FilterCategory]; category != "" {
		query = query.Where("category = ?", category)
	}
	if sub := filter.Filters[inventory.FilterSubcategory]; sub != "" {
		query = query.Where("subcategory = ?", sub)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	return query
}

// Reserve locks the item row, checks stock through the domain and applies a
// conditional decrement. The row lock only holds when called inside a
// transaction; the conditional update alone already rules out overselling.
func (r *GormItemRepository) Reserve(ctx context.Context, id uint, qty int) (*inventory.Reservation, error) {
	db := r.db.WithContext(ctx)

	query := db
	if supportsRowLocks(db) {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var m models.ItemModel
	if err := query.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventory.NewItemNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to lock item %d: %w", id, err)
	}

	item := m.ToDomain()
	reservation, err := item.Reserve(qty)
	if err != nil {
		return nil, err
	}

	result := db.Model(&models.ItemModel{}).
		Where("id = ? AND quantity >= ?", id, qty).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity - ?", qty),
			"updated_at": item.UpdatedAt,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to decrement stock for item %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, inventory.NewInsufficientStockError(item.Name)
	}

	return reservation, nil
}

// UpsertBySKU inserts the item or overwrites the catalog fields and stock of
// the existing row with the same SKU. The item's ID is refreshed from the store.
func (r *GormItemRepository) UpsertBySKU(ctx context.Context, item *inventory.Item) error {
	db := r.db.WithContext(ctx)
	now := time.Now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	m := models.ItemModelFromDomain(item)
	m.ID = 0
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "sku"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "category", "subcategory", "description", "image_url",
			"price", "quantity", "low_stock_threshold", "updated_at",
		}),
	}).Create(m).Error
	if err != nil {
		return fmt.Errorf("failed to upsert item %s: %w", item.SKU, err)
	}

	var stored models.ItemModel
	if err := db.Where("sku = ?", item.SKU).First(&stored).Error; err != nil {
		return fmt.Errorf("failed to reload item %s: %w", item.SKU, err)
	}
	item.BaseEntity = stored.BaseModel.Entity()
	return nil
}

// Categories returns distinct category/subcategory pairs grouped by category
func (r *GormItemRepository) Categories(ctx context.Context) ([]inventory.Category, error) {
	var rows []struct {
		Category    string
		Subcategory string
	}
	err := r.db.WithContext(ctx).Model(&models.ItemModel{}).
		Distinct("category", "subcategory").
		Order("category ASC").Order("subcategory ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	result := make([]inventory.Category, 0)
	for _, row := range rows {
		if n := len(result); n > 0 && result[n-1].Name == row.Category {
			result[n-1].Subcategories = append(result[n-1].Subcategories, row.Subcategory)
			continue
		}
		result = append(result, inventory.Category{Name: row.Category, Subcategories: []string{row.Subcategory}})
	}
	return result, nil
}

// CountLowStock counts items at or below their low-stock threshold
func (r *GormItemRepository) CountLowStock(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ItemModel{}).
		Where("quantity <= low_stock_threshold").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count low stock items: %w", err)
	}
	return count, nil
}

var _ inventory.ItemRepository = (*GormItemRepository)(nil)
