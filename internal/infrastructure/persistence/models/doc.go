// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Money and weights are decimal(18,4) columns. Ordering columns that guard
// concurrent appends carry unique indexes:
//   - bills.bill_number
//   - ledger_entries(customer_id, sequence)
//   - stock_movements(item_name, sequence)
package models
