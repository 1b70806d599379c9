package persistence

import (
	"context"
	"fmt"

	"github.com/silverledger/backend/internal/domain/billing"
	"github.com/silverledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSequenceRepository hands out gap-free numbers from the sequences table.
// The increment is a single UPDATE, so the row lock it takes serializes
// concurrent callers until their transactions finish.
type GormSequenceRepository struct {
	db *gorm.DB
}

// NewGormSequenceRepository creates a new GormSequenceRepository
func NewGormSequenceRepository(db *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: db}
}

// Next increments the named counter and returns the new value
func (r *GormSequenceRepository) Next(ctx context.Context, name string) (int64, error) {
	db := r.db.WithContext(ctx)

	for attempt := 0; attempt < 2; attempt++ {
		result := db.Model(&models.SequenceModel{}).
			Where("name = ?", name).
			UpdateColumn("value", gorm.Expr("value + ?", 1))
		if result.Error != nil {
			return 0, fmt.Errorf("increment sequence %s: %w", name, result.Error)
		}
		if result.RowsAffected == 1 {
			var seq models.SequenceModel
			if err := db.Where("name = ?", name).Take(&seq).Error; err != nil {
				return 0, fmt.Errorf("read sequence %s: %w", name, err)
			}
			return seq.Value, nil
		}

		// counter row missing, create it at zero and increment again
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.SequenceModel{Name: name, Value: 0}).Error; err != nil {
			return 0, fmt.Errorf("create sequence %s: %w", name, err)
		}
	}
	return 0, fmt.Errorf("sequence %s could not be incremented", name)
}

var _ billing.SequenceRepository = (*GormSequenceRepository)(nil)
