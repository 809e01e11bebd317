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

// ProductClient - HTTP клиент внешнего каталога товаров
// Отвечает только за запросы, кеширование живет уровнем выше
type ProductClient struct {
	apiURL     string
	username   string
	password   string
	httpClient *http.Client
}

// NewProductClient создает новый HTTP клиент каталога товаров
func NewProductClient(apiURL, username, password string, timeoutSec int) *ProductClient {
	return &ProductClient{
		apiURL:   apiURL,
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSec) * time.Second,
		},
	}
}

// GetAllProducts получает весь каталог товаров одним запросом
func (c *ProductClient) GetAllProducts(ctx context.Context) ([]entity.Product, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Каталог защищен basic auth
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues("packages-service", "products").Inc()
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		metrics.UpstreamErrors.WithLabelValues("packages-service", "products").Inc()
		return nil, fmt.Errorf("products API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var products []entity.Product
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, fmt.Errorf("failed to unmarshal products response: %w", err)
	}

	metrics.UpstreamRequestDuration.WithLabelValues("packages-service", "products").Observe(time.Since(start).Seconds())

	return products, nil
}
