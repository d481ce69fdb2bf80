package currency

import (
	"context"
	"errors"
	"log/slog"
)

type StoreAPI interface {
	Latest(ctx context.Context, base Currency) (*Snapshot, error)
	Insert(ctx context.Context, snap Snapshot) error
}

// Service owns read access to the latest snapshot and the refresh path.
// Conversions only ever read the last committed snapshot, so a refresh
// racing a conversion is harmless.
type Service struct {
	store   StoreAPI
	fetcher *Fetcher
	base    Currency
}

func NewService(store StoreAPI, fetcher *Fetcher, base Currency) *Service {
	return &Service{store: store, fetcher: fetcher, base: base}
}

func (s *Service) Base() Currency {
	return s.base
}

func (s *Service) Latest(ctx context.Context) (*Snapshot, error) {
	return s.store.Latest(ctx, s.base)
}

// Convert applies the latest snapshot. Identity pairs skip the snapshot read
// entirely so they succeed even when no rates were ever fetched.
func (s *Service) Convert(ctx context.Context, amount float64, from, to Currency) (float64, error) {
	if !Supported(from) {
		return 0, unknownCurrencyError(string(from))
	}
	if !Supported(to) {
		return 0, unknownCurrencyError(string(to))
	}
	if from == to {
		return amount, nil
	}
	snap, err := s.store.Latest(ctx, s.base)
	if err != nil {
		return 0, err
	}
	return Convert(amount, from, to, snap)
}

// Refresh fetches a fresh table from the provider and records it. On any
// failure the previously stored snapshot stays authoritative.
func (s *Service) Refresh(ctx context.Context) (*Snapshot, error) {
	if s.fetcher == nil {
		return nil, errors.New("no rates provider configured")
	}
	snap, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.store.Insert(ctx, *snap); err != nil {
		return nil, err
	}
	slog.Info("exchange rates refreshed", "base", snap.Base, "date", snap.Date, "currencies", len(snap.Rates))
	return snap, nil
}
