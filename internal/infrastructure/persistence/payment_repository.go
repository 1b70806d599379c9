package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/silverledger/backend/internal/domain/payment"
	"github.com/silverledger/backend/internal/domain/shared"
	"github.com/silverledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPaymentRepository implements payment.Repository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Save inserts a payment
func (r *GormPaymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	return r.db.WithContext(ctx).Create(models.PaymentModelFromDomain(p)).Error
}

// FindAll lists payments newest first, optionally for one customer
func (r *GormPaymentRepository) FindAll(ctx context.Context, customerID *uuid.UUID, filter shared.Filter) ([]payment.Payment, error) {
	query := r.db.WithContext(ctx).Model(&models.PaymentModel{})
	if customerID != nil {
		query = query.Where("customer_id = ?", *customerID)
	}
	query = applyPaging(query, filter, PaymentSortFields, "date")

	var rows []models.PaymentModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]payment.Payment, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

var _ payment.Repository = (*GormPaymentRepository)(nil)
