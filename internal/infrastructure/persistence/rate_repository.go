package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/silverledger/backend/internal/domain/rate"
	"github.com/silverledger/backend/internal/domain/shared"
	"github.com/silverledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormRateRepository implements rate.Repository using GORM
type GormRateRepository struct {
	db *gorm.DB
}

// NewGormRateRepository creates a new GormRateRepository
func NewGormRateRepository(db *gorm.DB) *GormRateRepository {
	return &GormRateRepository{db: db}
}

// Save appends a rate
func (r *GormRateRepository) Save(ctx context.Context, sr *rate.SilverRate) error {
	return r.db.WithContext(ctx).Create(models.SilverRateModelFromDomain(sr)).Error
}

// FindLatest returns the newest rate
func (r *GormRateRepository) FindLatest(ctx context.Context) (*rate.SilverRate, error) {
	var model models.SilverRateModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "No silver rate recorded")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindSince returns rates created at or after since, oldest first
func (r *GormRateRepository) FindSince(ctx context.Context, since time.Time) ([]rate.SilverRate, error) {
	var rows []models.SilverRateModel
	if err := r.db.WithContext(ctx).
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]rate.SilverRate, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

var _ rate.Repository = (*GormRateRepository)(nil)
