package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/silverledger/backend/internal/domain/customer"
	"github.com/silverledger/backend/internal/domain/shared"
	"github.com/silverledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCustomerRepository implements customer.Repository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	return r.find(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate finds a customer and locks its row until the transaction
// ends. SQLite has no row locks; there the single connection serializes writers.
func (r *GormCustomerRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormCustomerRepository) find(query *gorm.DB, id uuid.UUID) (*customer.Customer, error) {
	var model models.CustomerModel
	if err := query.Where("id = ?", id).Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Customer not found")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds customers matching the filter, newest first by default
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]customer.Customer, error) {
	query := r.db.WithContext(ctx).Model(&models.CustomerModel{})
	if keyword := strings.TrimSpace(filter.Search); keyword != "" {
		pattern := "%" + strings.ToLower(keyword) + "%"
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(mobile) LIKE ?)", pattern, pattern)
	}
	query = applyPaging(query, filter, CustomerSortFields, "created_at")

	var rows []models.CustomerModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toCustomers(rows), nil
}

// FindWithPositiveBalance finds customers owing money, largest balance first
func (r *GormCustomerRepository) FindWithPositiveBalance(ctx context.Context) ([]customer.Customer, error) {
	var rows []models.CustomerModel
	if err := r.db.WithContext(ctx).
		Where("current_balance > 0").
		Order("current_balance DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toCustomers(rows), nil
}

// CountCreatedSince counts customers created at or after since
func (r *GormCustomerRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CustomerModel{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

// ListIDs returns the ids of every customer
func (r *GormCustomerRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&models.CustomerModel{}).
		Order("created_at ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Save inserts a new customer
func (r *GormCustomerRepository) Save(ctx context.Context, c *customer.Customer) error {
	return r.db.WithContext(ctx).Create(models.CustomerModelFromDomain(c)).Error
}

// SaveWithLock writes the customer only if the stored version is Version-1.
// A map is used so a zero balance is written rather than skipped.
func (r *GormCustomerRepository) SaveWithLock(ctx context.Context, c *customer.Customer) error {
	result := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Where("id = ? AND version = ?", c.ID, c.Version-1).
		Updates(map[string]any{
			"name":            c.Name,
			"mobile":          c.Mobile,
			"address":         c.Address,
			"current_balance": c.CurrentBalance,
			"version":         c.Version,
			"updated_at":      c.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete deletes a customer
func (r *GormCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.CustomerModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("NOT_FOUND", "Customer not found")
	}
	return nil
}

func toCustomers(rows []models.CustomerModel) []customer.Customer {
	out := make([]customer.Customer, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

var _ customer.Repository = (*GormCustomerRepository)(nil)
