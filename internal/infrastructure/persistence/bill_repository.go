package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/silverledger/backend/internal/domain/billing"
	"github.com/silverledger/backend/internal/domain/shared"
	"github.com/silverledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBillRepository implements billing.Repository using GORM
type GormBillRepository struct {
	db *gorm.DB
}

// NewGormBillRepository creates a new GormBillRepository
func NewGormBillRepository(db *gorm.DB) *GormBillRepository {
	return &GormBillRepository{db: db}
}

// Save inserts the bill and its line items
func (r *GormBillRepository) Save(ctx context.Context, bill *billing.Bill) error {
	return r.db.WithContext(ctx).Create(models.BillModelFromDomain(bill)).Error
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// FindByID finds a bill with its customer summary
func (r *GormBillRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.BillView, error) {
	var model models.BillModel
	if err := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Where("id = ?", id).
		Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Bill not found")
		}
		return nil, err
	}
	views, err := r.withCustomers(ctx, []models.BillModel{model})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// FindAll lists bills newest first with customer name and mobile
func (r *GormBillRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.BillView, error) {
	query := r.db.WithContext(ctx).Model(&models.BillModel{}).Preload("Items", orderedItems)
	if customerID, ok := filter.Filters["customer_id"]; ok {
		query = query.Where("customer_id = ?", customerID)
	}
	query = applyPaging(query, filter, BillSortFields, "date").Order("bill_number DESC")

	var rows []models.BillModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.withCustomers(ctx, rows)
}

// withCustomers joins customer name and mobile in one extra query. Bills of
// deleted customers keep empty customer fields.
func (r *GormBillRepository) withCustomers(ctx context.Context, rows []models.BillModel) ([]billing.BillView, error) {
	ids := make([]uuid.UUID, 0, len(rows))
	seen := make(map[uuid.UUID]bool, len(rows))
	for _, b := range rows {
		if !seen[b.CustomerID] {
			seen[b.CustomerID] = true
			ids = append(ids, b.CustomerID)
		}
	}

	byID := make(map[uuid.UUID]models.CustomerModel, len(ids))
	if len(ids) > 0 {
		var customers []models.CustomerModel
		if err := r.db.WithContext(ctx).
			Select("id", "name", "mobile").
			Where("id IN ?", ids).
			Find(&customers).Error; err != nil {
			return nil, err
		}
		for _, c := range customers {
			byID[c.ID] = c
		}
	}

	views := make([]billing.BillView, len(rows))
	for i := range rows {
		c := byID[rows[i].CustomerID]
		views[i] = billing.BillView{
			Bill:           *rows[i].ToDomain(),
			CustomerName:   c.Name,
			CustomerMobile: c.Mobile,
		}
	}
	return views, nil
}

// TotalsSince aggregates bills created at or after since
func (r *GormBillRepository) TotalsSince(ctx context.Context, since time.Time) (billing.DailyTotals, error) {
	var totals billing.DailyTotals

	var agg struct {
		Count      int64
		TotalSales decimalScan
	}
	if err := r.db.WithContext(ctx).Model(&models.BillModel{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total_payable), 0) AS total_sales").
		Where("created_at >= ?", since).
		Scan(&agg).Error; err != nil {
		return totals, err
	}

	var fine struct {
		TotalFine decimalScan
	}
	if err := r.db.WithContext(ctx).Table("bill_items").
		Select("COALESCE(SUM(bill_items.fine), 0) AS total_fine").
		Joins("JOIN bills ON bills.id = bill_items.bill_id").
		Where("bills.created_at >= ?", since).
		Scan(&fine).Error; err != nil {
		return totals, err
	}

	totals.Count = agg.Count
	totals.TotalSales = agg.TotalSales.Decimal
	totals.TotalFine = fine.TotalFine.Decimal
	return totals, nil
}

var _ billing.Repository = (*GormBillRepository)(nil)
