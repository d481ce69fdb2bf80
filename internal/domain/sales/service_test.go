package sales

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"opsboard/internal/domain/currency"
)

type fakeSalesStore struct {
	rows     []InvoiceRow
	goal     *Goal
	invoices []Invoice
}

func (f *fakeSalesStore) CreateInvoice(_ context.Context, inv Invoice) (string, error) {
	f.invoices = append(f.invoices, inv)
	return "inv-1", nil
}

func (f *fakeSalesStore) CreateGoal(_ context.Context, _ Goal) (string, error) {
	return "goal-1", nil
}

func (f *fakeSalesStore) GetGoal(_ context.Context, _ string) (*Goal, error) {
	if f.goal == nil {
		return nil, ErrGoalNotFound
	}
	return f.goal, nil
}

func (f *fakeSalesStore) ListInvoiceRows(_ context.Context, _, _ time.Time) ([]InvoiceRow, error) {
	return f.rows, nil
}

func (f *fakeSalesStore) ListEmployeeInvoiceRows(_ context.Context, employeeID string, _, _ time.Time) ([]InvoiceRow, error) {
	var out []InvoiceRow
	for _, row := range f.rows {
		if row.EmployeeID == employeeID {
			out = append(out, row)
		}
	}
	return out, nil
}

type fakeRates struct {
	snap *currency.Snapshot
	err  error
}

func (f fakeRates) Latest(_ context.Context) (*currency.Snapshot, error) {
	return f.snap, f.err
}

func testSnapshot() *currency.Snapshot {
	return &currency.Snapshot{
		Base: currency.USD,
		Date: "2026-03-02",
		Rates: map[currency.Currency]float64{
			currency.USD: 1,
			currency.EUR: 1 / 1.10,
			currency.TRY: 1 / 0.03,
		},
	}
}

func TestLeaderboardConvertsAndRanks(t *testing.T) {
	store := &fakeSalesStore{rows: []InvoiceRow{
		{EmployeeID: "emp-1", EmployeeName: "Ayşe", Amount: 100, Currency: "USD"},
		{EmployeeID: "emp-2", EmployeeName: "Omar", Amount: 50, Currency: "EUR"},
		{EmployeeID: "emp-1", EmployeeName: "Ayşe", Amount: 200, Currency: "TRY"},
	}}
	svc := NewService(store, fakeRates{snap: testSnapshot()})

	entries, err := svc.Leaderboard(context.Background(), time.Now().AddDate(0, -1, 0), time.Now(), currency.USD)
	if err != nil {
		t.Fatalf("Leaderboard returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].EmployeeID != "emp-1" || entries[0].InvoiceCount != 2 {
		t.Fatalf("unexpected leader: %+v", entries[0])
	}
	if math.Abs(entries[0].Total-106) > 1e-9 {
		t.Fatalf("expected 106 USD for emp-1, got %v", entries[0].Total)
	}
	if math.Abs(entries[1].Total-55) > 1e-9 {
		t.Fatalf("expected 55 USD for emp-2, got %v", entries[1].Total)
	}
	if entries[0].Formatted != "$106.00" {
		t.Fatalf("unexpected formatting: %q", entries[0].Formatted)
	}
}

func TestLeaderboardFailsOnUnknownCurrency(t *testing.T) {
	store := &fakeSalesStore{rows: []InvoiceRow{
		{EmployeeID: "emp-1", Amount: 100, Currency: "USD"},
		{EmployeeID: "emp-2", Amount: 10, Currency: "GBP"},
	}}
	svc := NewService(store, fakeRates{snap: testSnapshot()})

	if _, err := svc.Leaderboard(context.Background(), time.Now().AddDate(0, -1, 0), time.Now(), currency.USD); !errors.Is(err, currency.ErrUnknownCurrency) {
		t.Fatalf("expected ErrUnknownCurrency, got %v", err)
	}
}

func TestLeaderboardWithoutSnapshotIdentityOnly(t *testing.T) {
	store := &fakeSalesStore{rows: []InvoiceRow{
		{EmployeeID: "emp-1", Amount: 100, Currency: "USD"},
	}}
	svc := NewService(store, fakeRates{err: currency.ErrRatesUnavailable})

	entries, err := svc.Leaderboard(context.Background(), time.Now().AddDate(0, -1, 0), time.Now(), currency.USD)
	if err != nil {
		t.Fatalf("identity-only leaderboard should work without rates: %v", err)
	}
	if len(entries) != 1 || entries[0].Total != 100 {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestLeaderboardWithoutSnapshotNonIdentityFails(t *testing.T) {
	store := &fakeSalesStore{rows: []InvoiceRow{
		{EmployeeID: "emp-1", Amount: 100, Currency: "EUR"},
	}}
	svc := NewService(store, fakeRates{err: currency.ErrRatesUnavailable})

	if _, err := svc.Leaderboard(context.Background(), time.Now().AddDate(0, -1, 0), time.Now(), currency.USD); !errors.Is(err, currency.ErrRatesUnavailable) {
		t.Fatalf("expected ErrRatesUnavailable, got %v", err)
	}
}

func TestProgress(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	store := &fakeSalesStore{
		goal: &Goal{
			ID:           "goal-1",
			EmployeeID:   "emp-1",
			Name:         "Q1 push",
			TargetAmount: 1000,
			Currency:     currency.EUR,
			PeriodStart:  start,
			PeriodEnd:    start.AddDate(0, 1, 0),
		},
		rows: []InvoiceRow{
			{EmployeeID: "emp-1", Amount: 100, Currency: "USD"},
			{EmployeeID: "emp-1", Amount: 400, Currency: "EUR"},
			{EmployeeID: "emp-2", Amount: 9999, Currency: "USD"},
		},
	}
	svc := NewService(store, fakeRates{snap: testSnapshot()})

	progress, err := svc.Progress(context.Background(), "goal-1", currency.USD)
	if err != nil {
		t.Fatalf("Progress returned error: %v", err)
	}
	if math.Abs(progress.Target-1100) > 1e-9 {
		t.Fatalf("expected 1100 USD target, got %v", progress.Target)
	}
	if math.Abs(progress.Achieved-540) > 1e-9 {
		t.Fatalf("expected 540 USD achieved, got %v", progress.Achieved)
	}
	if math.Abs(progress.Percent-540.0/1100*100) > 1e-9 {
		t.Fatalf("unexpected percent %v", progress.Percent)
	}
}

func TestProgressMissingGoal(t *testing.T) {
	svc := NewService(&fakeSalesStore{}, fakeRates{snap: testSnapshot()})
	if _, err := svc.Progress(context.Background(), "nope", currency.USD); !errors.Is(err, ErrGoalNotFound) {
		t.Fatalf("expected ErrGoalNotFound, got %v", err)
	}
}

func TestCreateGoalRejectsInvertedPeriod(t *testing.T) {
	svc := NewService(&fakeSalesStore{}, fakeRates{snap: testSnapshot()})
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.CreateGoal(context.Background(), Goal{
		EmployeeID:   "emp-1",
		TargetAmount: 100,
		Currency:     currency.USD,
		PeriodStart:  start,
		PeriodEnd:    start,
	})
	if err == nil {
		t.Fatal("expected error for empty period")
	}
}

func TestCreateInvoiceDefaults(t *testing.T) {
	store := &fakeSalesStore{}
	svc := NewService(store, fakeRates{snap: testSnapshot()})

	if _, err := svc.CreateInvoice(context.Background(), Invoice{
		EmployeeID: "emp-1",
		Amount:     250,
		Currency:   currency.TRY,
	}); err != nil {
		t.Fatalf("CreateInvoice returned error: %v", err)
	}
	if len(store.invoices) != 1 {
		t.Fatalf("expected 1 stored invoice, got %d", len(store.invoices))
	}
	if store.invoices[0].Status != InvoiceStatusSent {
		t.Fatalf("expected default status sent, got %s", store.invoices[0].Status)
	}
	if store.invoices[0].IssuedAt.IsZero() {
		t.Fatal("expected IssuedAt to be defaulted")
	}
}
