package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/silverledger/backend/internal/domain/ledger"
	"github.com/silverledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormLedgerRepository implements ledger.Repository using GORM
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// Append inserts a new entry
func (r *GormLedgerRepository) Append(ctx context.Context, entry *ledger.Entry) error {
	return r.db.WithContext(ctx).Create(models.LedgerEntryModelFromDomain(entry)).Error
}

// FindLast returns the customer's highest-sequence entry, or nil
func (r *GormLedgerRepository) FindLast(ctx context.Context, customerID uuid.UUID) (*ledger.Entry, error) {
	var model models.LedgerEntryModel
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
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

// FindByCustomer returns all entries of a customer in sequence order
func (r *GormLedgerRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]ledger.Entry, error) {
	var rows []models.LedgerEntryModel
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("sequence ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ledger.Entry, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// DeleteByCustomer removes every entry of a customer
func (r *GormLedgerRepository) DeleteByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("customer_id = ?", customerID).Delete(&models.LedgerEntryModel{})
	return result.RowsAffected, result.Error
}

var _ ledger.Repository = (*GormLedgerRepository)(nil)
