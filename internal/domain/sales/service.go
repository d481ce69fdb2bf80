package sales

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"opsboard/internal/domain/currency"
)

type StoreAPI interface {
	CreateInvoice(ctx context.Context, inv Invoice) (string, error)
	CreateGoal(ctx context.Context, goal Goal) (string, error)
	GetGoal(ctx context.Context, goalID string) (*Goal, error)
	ListInvoiceRows(ctx context.Context, from, to time.Time) ([]InvoiceRow, error)
	ListEmployeeInvoiceRows(ctx context.Context, employeeID string, from, to time.Time) ([]InvoiceRow, error)
}

// RateSource yields the snapshot used to normalize heterogeneous invoice
// currencies before summing.
type RateSource interface {
	Latest(ctx context.Context) (*currency.Snapshot, error)
}

type Service struct {
	store StoreAPI
	rates RateSource
}

func NewService(store StoreAPI, rates RateSource) *Service {
	return &Service{store: store, rates: rates}
}

func (s *Service) CreateInvoice(ctx context.Context, inv Invoice) (string, error) {
	if inv.Status == "" {
		inv.Status = InvoiceStatusSent
	}
	if inv.IssuedAt.IsZero() {
		inv.IssuedAt = time.Now().UTC()
	}
	return s.store.CreateInvoice(ctx, inv)
}

func (s *Service) CreateGoal(ctx context.Context, goal Goal) (string, error) {
	if !goal.PeriodEnd.After(goal.PeriodStart) {
		return "", fmt.Errorf("goal period end must be after start")
	}
	return s.store.CreateGoal(ctx, goal)
}

// loadSnapshot tolerates a missing snapshot: identity-only data still
// aggregates, and Convert reports ErrRatesUnavailable itself for any
// non-identity pair. Other store errors propagate.
func (s *Service) loadSnapshot(ctx context.Context) (*currency.Snapshot, error) {
	snapshot, err := s.rates.Latest(ctx)
	if err != nil {
		if errors.Is(err, currency.ErrRatesUnavailable) {
			return nil, nil
		}
		return nil, err
	}
	return snapshot, nil
}

// Leaderboard ranks employees by their invoice totals in [from, to],
// everything converted into display. One invoice with an unknown currency
// fails the whole report; partial rankings are worse than no ranking.
func (s *Service) Leaderboard(ctx context.Context, from, to time.Time, display currency.Currency) ([]LeaderboardEntry, error) {
	rows, err := s.store.ListInvoiceRows(ctx, from, to)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	totals := map[string]*LeaderboardEntry{}
	for _, row := range rows {
		cur, err := currency.Parse(row.Currency)
		if err != nil {
			return nil, fmt.Errorf("invoice for %s: %w", row.EmployeeID, err)
		}
		converted, err := currency.Convert(row.Amount, cur, display, snapshot)
		if err != nil {
			return nil, fmt.Errorf("invoice for %s: %w", row.EmployeeID, err)
		}
		entry, ok := totals[row.EmployeeID]
		if !ok {
			entry = &LeaderboardEntry{EmployeeID: row.EmployeeID, EmployeeName: row.EmployeeName}
			totals[row.EmployeeID] = entry
		}
		entry.Total += converted
		entry.InvoiceCount++
	}

	out := make([]LeaderboardEntry, 0, len(totals))
	for _, entry := range totals {
		entry.Formatted = currency.Format(entry.Total, display)
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total == out[j].Total {
			return out[i].EmployeeID < out[j].EmployeeID
		}
		return out[i].Total > out[j].Total
	})
	return out, nil
}

// Progress reports achieved vs target revenue for one goal in display units.
func (s *Service) Progress(ctx context.Context, goalID string, display currency.Currency) (*GoalProgress, error) {
	goal, err := s.store.GetGoal(ctx, goalID)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.ListEmployeeInvoiceRows(ctx, goal.EmployeeID, goal.PeriodStart, goal.PeriodEnd)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]currency.Item, 0, len(rows))
	for _, row := range rows {
		c, err := currency.Parse(row.Currency)
		if err != nil {
			return nil, fmt.Errorf("invoice for %s: %w", goal.EmployeeID, err)
		}
		items = append(items, currency.Item{Amount: row.Amount, Currency: c})
	}
	achieved, err := currency.Sum(items, display, snapshot)
	if err != nil {
		return nil, err
	}
	target, err := currency.Convert(goal.TargetAmount, goal.Currency, display, snapshot)
	if err != nil {
		return nil, err
	}

	progress := &GoalProgress{
		GoalID:    goal.ID,
		Name:      goal.Name,
		Currency:  display,
		Target:    target,
		Achieved:  achieved,
		Formatted: currency.Format(achieved, display),
	}
	if target > 0 {
		progress.Percent = achieved / target * 100
	}
	return progress, nil
}
