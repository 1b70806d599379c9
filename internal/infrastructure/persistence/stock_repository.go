package persistence

import (
	"context"
	"errors"

	"github.com/silverledger/backend/internal/domain/inventory"
	"github.com/silverledger/backend/internal/domain/shared"
	"github.com/silverledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormStockRepository implements inventory.Repository using GORM
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a new GormStockRepository
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

// Append inserts a movement
func (r *GormStockRepository) Append(ctx context.Context, movement *inventory.Movement) error {
	return r.db.WithContext(ctx).Create(models.StockMovementModelFromDomain(movement)).Error
}

// FindLast returns the highest-sequence movement for the item, or nil
func (r *GormStockRepository) FindLast(ctx context.Context, itemName string) (*inventory.Movement, error) {
	var model models.StockMovementModel
	err := r.db.WithContext(ctx).
		Where("item_name = ?", inventory.NormalizeItemName(itemName)).
		Order("sequence DESC").
		Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists movements newest first, optionally for one item
func (r *GormStockRepository) FindAll(ctx context.Context, itemName string, filter shared.Filter) ([]inventory.Movement, error) {
	query := r.db.WithContext(ctx).Model(&models.StockMovementModel{})
	if itemName != "" {
		query = query.Where("item_name = ?", inventory.NormalizeItemName(itemName))
	}
	query = query.Order("date DESC").Order("sequence DESC")
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var rows []models.StockMovementModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toMovements(rows), nil
}

// Summaries aggregates movements per item. Totals are summed in Go so that
// SQLite, which stores decimals as floating point, still yields exact sums.
func (r *GormStockRepository) Summaries(ctx context.Context) ([]inventory.Summary, error) {
	var rows []models.StockMovementModel
	if err := r.db.WithContext(ctx).
		Select("item_name", "sequence", "weight_in", "weight_out", "current_stock").
		Order("item_name ASC").Order("sequence ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return inventory.Aggregate(toMovements(rows)), nil
}

func toMovements(rows []models.StockMovementModel) []inventory.Movement {
	out := make([]inventory.Movement, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

var _ inventory.Repository = (*GormStockRepository)(nil)
