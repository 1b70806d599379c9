package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/silverledger/backend/internal/application/uow"
	"github.com/silverledger/backend/internal/domain/inventory"
)

// Deduct appends an outbound movement computed from the item's last
// movement. It runs inside the caller's unit of work; the result may be a
// negative stock.
func Deduct(ctx context.Context, repos uow.Repositories, itemName string, weightOut decimal.Decimal, billID *uuid.UUID) (*inventory.Movement, error) {
	last, err := repos.Stock().FindLast(ctx, itemName)
	if err != nil {
		return nil, fmt.Errorf("read last stock movement: %w", err)
	}
	mv, err := inventory.NewOutbound(itemName, weightOut, last, billID)
	if err != nil {
		return nil, err
	}
	if err := repos.Stock().Append(ctx, mv); err != nil {
		return nil, fmt.Errorf("append stock movement: %w", err)
	}
	return mv, nil
}

func receive(ctx context.Context, repos uow.Repositories, itemName string, weightIn decimal.Decimal) (*inventory.Movement, error) {
	last, err := repos.Stock().FindLast(ctx, itemName)
	if err != nil {
		return nil, fmt.Errorf("read last stock movement: %w", err)
	}
	mv, err := inventory.NewInbound(itemName, weightIn, last)
	if err != nil {
		return nil, err
	}
	if err := repos.Stock().Append(ctx, mv); err != nil {
		return nil, fmt.Errorf("append stock movement: %w", err)
	}
	return mv, nil
}
