package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"opsboard/internal/platform/db"
)

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

// Latest returns the newest snapshot for base, the authoritative table for
// current conversions.
func (s *Store) Latest(ctx context.Context, base Currency) (*Snapshot, error) {
	var snap Snapshot
	var ratesRaw []byte
	err := s.DB.QueryRow(ctx, `
    SELECT base, to_char(date, 'YYYY-MM-DD'), rates
    FROM exchange_rate_snapshots
    WHERE base = $1
    ORDER BY date DESC
    LIMIT 1
  `, string(base)).Scan(&snap.Base, &snap.Date, &ratesRaw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRatesUnavailable
		}
		return nil, err
	}
	if err := json.Unmarshal(ratesRaw, &snap.Rates); err != nil {
		return nil, fmt.Errorf("decode rates for %s/%s: %w", snap.Base, snap.Date, err)
	}
	return &snap, nil
}

// Insert records a snapshot. Re-fetching the same (base, date) replaces the
// table for that day; older snapshots are never touched.
func (s *Store) Insert(ctx context.Context, snap Snapshot) error {
	ratesRaw, err := json.Marshal(snap.Rates)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, `
    INSERT INTO exchange_rate_snapshots (base, date, rates)
    VALUES ($1, $2, $3)
    ON CONFLICT (base, date) DO UPDATE SET rates = EXCLUDED.rates
  `, string(snap.Base), snap.Date, ratesRaw)
	return err
}
