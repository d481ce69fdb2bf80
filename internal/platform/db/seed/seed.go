package seed

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"opsboard/internal/domain/currency"
	"opsboard/internal/platform/config"
)

// Seed inserts demo employees and a fallback rate snapshot so a fresh
// install works before the first provider refresh. Everything is idempotent.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensureEmployees(ctx, pool); err != nil {
		return err
	}
	return ensureRateSnapshot(ctx, pool, cfg.BaseCurrency)
}

func ensureEmployees(ctx context.Context, pool *pgxpool.Pool) error {
	seedEmployees := []struct {
		firstName string
		lastName  string
		email     string
	}{
		{"Aylin", "Demir", "aylin.demir@example.com"},
		{"Omar", "Haddad", "omar.haddad@example.com"},
		{"Elif", "Kaya", "elif.kaya@example.com"},
	}
	for _, emp := range seedEmployees {
		if _, err := pool.Exec(ctx, `
      INSERT INTO employees (first_name, last_name, email)
      VALUES ($1, $2, $3)
      ON CONFLICT (email) DO NOTHING
    `, emp.firstName, emp.lastName, emp.email); err != nil {
			return err
		}
	}
	return nil
}

func ensureRateSnapshot(ctx context.Context, pool *pgxpool.Pool, base string) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM exchange_rate_snapshots WHERE base = $1", base).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	baseCur, err := currency.Parse(base)
	if err != nil {
		return err
	}
	snapshot := currency.FallbackSnapshot(baseCur, time.Now().UTC())
	return currency.NewStore(pool).Insert(ctx, snapshot)
}
