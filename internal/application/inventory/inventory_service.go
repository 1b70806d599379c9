package inventory

import (
	"context"

	"github.com/silverledger/backend/internal/application/uow"
	"github.com/silverledger/backend/internal/domain/inventory"
	"github.com/silverledger/backend/internal/domain/shared"
	"github.com/silverledger/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Service tracks silver stock by item
type Service struct {
	scope  uow.TransactionScope
	locker uow.KeyedLocker
	stock  inventory.Repository
	logger *zap.Logger
}

// NewService creates a new inventory Service
func NewService(scope uow.TransactionScope, locker uow.KeyedLocker, stock inventory.Repository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{scope: scope, locker: locker, stock: stock, logger: log}
}

// AddStock records an inbound movement
func (s *Service) AddStock(ctx context.Context, req AddStockRequest) (*MovementResponse, error) {
	itemName := inventory.NormalizeItemName(req.ItemName)

	unlock, err := s.locker.Lock(ctx, uow.StockKey(itemName))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var mv *inventory.Movement
	err = s.scope.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		mv, err = receive(ctx, repos, itemName, req.WeightIn)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.For(ctx, s.logger).Info("stock added",
		zap.String("item", mv.ItemName),
		zap.String("weight_in", mv.WeightIn.String()),
		zap.String("current_stock", mv.CurrentStock.String()),
	)
	resp := ToMovementResponse(mv)
	return &resp, nil
}

// Summaries returns the stock position of every item
func (s *Service) Summaries(ctx context.Context) ([]SummaryResponse, error) {
	summaries, err := s.stock.Summaries(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]SummaryResponse, len(summaries))
	for i, sm := range summaries {
		out[i] = SummaryResponse{
			ItemName:     sm.ItemName,
			TotalIn:      sm.TotalIn,
			TotalOut:     sm.TotalOut,
			CurrentStock: sm.CurrentStock,
		}
	}
	return out, nil
}

// Movements lists movements newest first, optionally for one item
func (s *Service) Movements(ctx context.Context, itemName string, filter shared.Filter) ([]MovementResponse, error) {
	movements, err := s.stock.FindAll(ctx, itemName, filter)
	if err != nil {
		return nil, err
	}
	out := make([]MovementResponse, len(movements))
	for i := range movements {
		out[i] = ToMovementResponse(&movements[i])
	}
	return out, nil
}
