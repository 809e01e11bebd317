package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"bazaar/internal/app/packages/entity"
	"bazaar/pkg/metrics"
)

// CurrencyClient - HTTP клиент внешнего API курсов валют
// Запрашивает дневной снапшот курсов относительно USD
type CurrencyClient struct {
	apiURL     string
	httpClient *http.Client
}

// NewCurrencyClient создает новый HTTP клиент API курсов валют
func NewCurrencyClient(apiURL string, timeoutSec int) *CurrencyClient {
	return &CurrencyClient{
		apiURL: apiURL,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSec) * time.Second,
		},
	}
}

// GetLatestRates получает последний опубликованный снапшот курсов
// Валидация базовой валюты выполняется кешем, клиент проверяет только транспорт
func (c *CurrencyClient) GetLatestRates(ctx context.Context) (*entity.CurrencyRates, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues("packages-service", "currency").Inc()
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		metrics.UpstreamErrors.WithLabelValues("packages-service", "currency").Inc()
		return nil, fmt.Errorf("currency API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var rates entity.CurrencyRates
	if err := json.Unmarshal(body, &rates); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rates response: %w", err)
	}

	metrics.UpstreamRequestDuration.WithLabelValues("packages-service", "currency").Observe(time.Since(start).Seconds())

	return &rates, nil
}
