package currency

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fakeRatesStore struct {
	snap      *Snapshot
	latestErr error
	insertErr error
	inserted  []Snapshot
}

func (f *fakeRatesStore) Latest(_ context.Context, _ Currency) (*Snapshot, error) {
	if f.latestErr != nil {
		return nil, f.latestErr
	}
	return f.snap, nil
}

func (f *fakeRatesStore) Insert(_ context.Context, snap Snapshot) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, snap)
	f.snap = &snap
	return nil
}

func TestServiceConvertIdentitySkipsStore(t *testing.T) {
	store := &fakeRatesStore{latestErr: errors.New("db down")}
	svc := NewService(store, nil, USD)

	got, err := svc.Convert(context.Background(), 42, EUR, EUR)
	if err != nil {
		t.Fatalf("identity conversion hit the store: %v", err)
	}
	if got != 42 {
		t.Fatalf("expected 42, got %v", got)
	}
}

func TestServiceConvertUsesLatestSnapshot(t *testing.T) {
	store := &fakeRatesStore{snap: usdSnapshot()}
	svc := NewService(store, nil, USD)

	got, err := svc.Convert(context.Background(), 50, EUR, USD)
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if !almostEqual(got, 55) {
		t.Fatalf("expected 55, got %v", got)
	}
}

func TestServiceConvertNoRates(t *testing.T) {
	store := &fakeRatesStore{latestErr: ErrRatesUnavailable}
	svc := NewService(store, nil, USD)

	if _, err := svc.Convert(context.Background(), 50, EUR, USD); !errors.Is(err, ErrRatesUnavailable) {
		t.Fatalf("expected ErrRatesUnavailable, got %v", err)
	}
}

func TestServiceRefresh(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if base := r.URL.Query().Get("base"); base != "USD" {
			t.Errorf("expected base=USD, got %q", base)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"base":"USD","date":"2026-03-02","rates":{"EUR":0.92,"TRY":34.5,"JPY":150.1,"BAD":-3}}`))
	}))
	defer provider.Close()

	store := &fakeRatesStore{}
	svc := NewService(store, NewFetcher(provider.URL, USD, time.Second), USD)

	snap, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if snap.Date != "2026-03-02" {
		t.Fatalf("unexpected snapshot date %q", snap.Date)
	}
	// Unsupported and non-positive rates are dropped.
	if len(snap.Rates) != 2 {
		t.Fatalf("expected 2 supported rates, got %v", snap.Rates)
	}
	if len(store.inserted) != 1 {
		t.Fatalf("expected 1 stored snapshot, got %d", len(store.inserted))
	}
}

func TestServiceRefreshKeepsOldSnapshotOnFailure(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer provider.Close()

	old := usdSnapshot()
	store := &fakeRatesStore{snap: old}
	svc := NewService(store, NewFetcher(provider.URL, USD, time.Second), USD)

	if _, err := svc.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh to fail")
	}
	if store.snap != old {
		t.Fatal("failed refresh must not replace the stored snapshot")
	}
}

func TestServiceRefreshWithoutProvider(t *testing.T) {
	svc := NewService(&fakeRatesStore{}, nil, USD)
	if _, err := svc.Refresh(context.Background()); err == nil {
		t.Fatal("expected error when no provider is configured")
	}
}

func TestFetcherRejectsWrongBase(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"base":"EUR","date":"2026-03-02","rates":{"USD":1.1}}`))
	}))
	defer provider.Close()

	if _, err := NewFetcher(provider.URL, USD, time.Second).Fetch(context.Background()); err == nil {
		t.Fatal("expected base mismatch error")
	}
}
