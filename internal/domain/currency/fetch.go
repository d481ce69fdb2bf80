package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Fetcher pulls a fresh snapshot from a third-party rates provider. The
// provider is expected to answer GET <url>?base=XXX with
// {"base":"XXX","date":"YYYY-MM-DD","rates":{"EUR":0.92,...}}.
type Fetcher struct {
	URL    string
	Base   Currency
	Client *http.Client
}

func NewFetcher(providerURL string, base Currency, timeout time.Duration) *Fetcher {
	return &Fetcher{
		URL:    providerURL,
		Base:   base,
		Client: &http.Client{Timeout: timeout},
	}
}

type providerResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

func (f *Fetcher) Fetch(ctx context.Context) (*Snapshot, error) {
	endpoint, err := url.Parse(f.URL)
	if err != nil {
		return nil, fmt.Errorf("rates provider url: %w", err)
	}
	query := endpoint.Query()
	query.Set("base", string(f.Base))
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rates fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rates provider returned status %d", resp.StatusCode)
	}

	var payload providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode rates response: %w", err)
	}
	if payload.Base != string(f.Base) {
		return nil, fmt.Errorf("rates provider returned base %q, expected %q", payload.Base, f.Base)
	}

	snap := Snapshot{
		Base:  f.Base,
		Date:  payload.Date,
		Rates: map[Currency]float64{},
	}
	if _, err := time.Parse("2006-01-02", snap.Date); err != nil {
		return nil, fmt.Errorf("rates provider returned date %q: %w", payload.Date, err)
	}
	// Providers quote many more currencies than the dashboard supports.
	for code, rate := range payload.Rates {
		c, err := Parse(code)
		if err != nil || rate <= 0 {
			continue
		}
		snap.Rates[c] = rate
	}
	if len(snap.Rates) == 0 {
		return nil, fmt.Errorf("rates response carried no supported currencies")
	}
	return &snap, nil
}
