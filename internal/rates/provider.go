// Package rates maintains the EUR→local-currency exchange rate: an HTTP
// provider and a freshness-windowed cache with a stale-on-failure policy.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	apperrors "github.com/nordbyte/orderbot/internal/errors"
)

// Provider fetches the current EUR→local rate from an external source.
type Provider interface {
	FetchRate(ctx context.Context) (float64, error)
}

// HTTPProvider reads the rate from an exchangerate-api style endpoint
// returning a JSON body with a "rates" object keyed by currency code.
type HTTPProvider struct {
	client   *http.Client
	endpoint string
	currency string
}

// NewHTTPProvider builds a provider with an explicit request timeout;
// a timeout counts as a fetch failure like any other.
func NewHTTPProvider(endpoint, currency string, timeout time.Duration) *HTTPProvider {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &HTTPProvider{
		client:   &http.Client{Timeout: timeout},
		endpoint: endpoint,
		currency: currency,
	}
}

type rateTableResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// FetchRate requests the rate table and extracts the configured currency.
func (p *HTTPProvider) FetchRate(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("build rate request: %w", err)
	}

	res, err := p.client.Do(req)
	if err != nil {
		return 0, apperrors.NewExternalAPIError("rate provider", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return 0, apperrors.NewExternalAPIError("rate provider", fmt.Errorf("unexpected status %d", res.StatusCode))
	}

	var table rateTableResponse
	if err := json.NewDecoder(res.Body).Decode(&table); err != nil {
		return 0, apperrors.NewExternalAPIError("rate provider", fmt.Errorf("decode response: %w", err))
	}

	rate, ok := table.Rates[p.currency]
	if !ok || rate <= 0 {
		return 0, apperrors.NewExternalAPIError("rate provider", fmt.Errorf("rate for %s missing from response", p.currency))
	}

	return rate, nil
}
