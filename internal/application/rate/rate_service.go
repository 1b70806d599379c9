package rate

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"
	"github.com/silverledger/backend/internal/domain/rate"
	"github.com/silverledger/backend/internal/domain/shared"
	"github.com/silverledger/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// DefaultHistoryDays is the history window when none is requested
const DefaultHistoryDays = 7

var errNoFeed = errors.New("no live feed configured")

// Feed fetches the market rate from an external source
type Feed interface {
	Fetch(ctx context.Context) (decimal.Decimal, error)
}

// Config controls the simulated feed used when no live feed answers
type Config struct {
	DefaultRate decimal.Decimal // starting point when no rate is stored
	MaxDelta    int             // bound of the random step, in rupees
}

// Service reads and records silver rates. Rates are advisory and never
// touch billing state.
type Service struct {
	rates  rate.Repository
	feed   Feed
	cfg    Config
	intN   func(n int) int
	logger *zap.Logger
}

// NewService creates a new rate Service. feed may be nil, in which case
// Refresh always simulates.
func NewService(rates rate.Repository, feed Feed, cfg Config, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MaxDelta < 0 {
		cfg.MaxDelta = 0
	}
	return &Service{
		rates:  rates,
		feed:   feed,
		cfg:    cfg,
		intN:   rand.IntN,
		logger: log,
	}
}

// GetCurrent returns the newest rate
func (s *Service) GetCurrent(ctx context.Context) (*RateResponse, error) {
	r, err := s.rates.FindLatest(ctx)
	if err != nil {
		return nil, err
	}
	resp := ToRateResponse(r)
	return &resp, nil
}

// SetManual records a rate typed in by staff
func (s *Service) SetManual(ctx context.Context, req SetRateRequest) (*RateResponse, error) {
	r, err := rate.NewSilverRate(req.Rate, rate.SourceManual)
	if err != nil {
		return nil, err
	}
	if err := s.rates.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("save rate: %w", err)
	}
	logger.For(ctx, s.logger).Info("manual rate set", zap.String("rate", r.Rate.String()))
	resp := ToRateResponse(r)
	return &resp, nil
}

// History returns the rates of the last days, oldest first
func (s *Service) History(ctx context.Context, days int) ([]RateResponse, error) {
	if days <= 0 {
		days = DefaultHistoryDays
	}
	since := time.Now().AddDate(0, 0, -days)
	rates, err := s.rates.FindSince(ctx, since)
	if err != nil {
		return nil, err
	}
	out := make([]RateResponse, len(rates))
	for i := range rates {
		out[i] = ToRateResponse(&rates[i])
	}
	return out, nil
}

// Refresh appends a new API-sourced rate, from the live feed when it
// answers and otherwise by a bounded random step from the last rate
func (s *Service) Refresh(ctx context.Context) (*RateResponse, error) {
	log := logger.For(ctx, s.logger)

	value, err := s.fetch(ctx)
	if err != nil {
		log.Warn("live rate feed unavailable, simulating", zap.Error(err))
		value, err = s.simulate(ctx)
		if err != nil {
			return nil, err
		}
	}

	r, err := rate.NewSilverRate(value, rate.SourceAPI)
	if err != nil {
		return nil, err
	}
	if err := s.rates.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("save rate: %w", err)
	}
	log.Debug("silver rate refreshed", zap.String("rate", r.Rate.String()))
	resp := ToRateResponse(r)
	return &resp, nil
}

func (s *Service) fetch(ctx context.Context) (decimal.Decimal, error) {
	if s.feed == nil {
		return decimal.Zero, errNoFeed
	}
	v, err := s.feed.Fetch(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if !v.IsPositive() {
		return decimal.Zero, fmt.Errorf("live feed returned non-positive rate %s", v)
	}
	return v, nil
}

func (s *Service) simulate(ctx context.Context) (decimal.Decimal, error) {
	base := s.cfg.DefaultRate
	last, err := s.rates.FindLatest(ctx)
	switch {
	case err == nil:
		base = last.Rate
	case !shared.IsNotFound(err):
		return decimal.Zero, err
	}

	delta := s.intN(2*s.cfg.MaxDelta+1) - s.cfg.MaxDelta
	next := base.Add(decimal.NewFromInt(int64(delta)))
	if !next.IsPositive() {
		next = base
	}
	return next, nil
}
