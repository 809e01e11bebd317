package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"bazaar/internal/app/packages/entity"
	"bazaar/internal/app/packages/infrastructure"
	"bazaar/pkg/logger"
	"bazaar/pkg/metrics"
)

// ProductsCache - read-through кеш всего каталога товаров
// Снапшот хранится как неизменяемая map и заменяется атомарно целиком:
// читатели никогда не видят частично заполненный каталог.
// Вытеснение выполняет внешний планировщик, сам кеш по таймеру не живет.
type ProductsCache struct {
	client infrastructure.ProductAPIClient

	// mu сериализует заполнение после промаха, чтобы одновременные
	// промахи не породили несколько bulk запросов к каталогу
	mu       sync.Mutex
	snapshot atomic.Pointer[map[string]entity.Product]
}

// NewProductsCache создает пустой кеш каталога
func NewProductsCache(client infrastructure.ProductAPIClient) *ProductsCache {
	return &ProductsCache{client: client}
}

// Snapshot возвращает текущий снапшот каталога, при промахе синхронно
// загружает весь каталог одним запросом и кеширует его до вытеснения
// При недоступности каталога ошибка отдается вызывающему, ничего не кешируется
func (c *ProductsCache) Snapshot(ctx context.Context) (map[string]entity.Product, error) {
	if snap := c.snapshot.Load(); snap != nil {
		metrics.CacheHits.WithLabelValues("packages-service", "products").Inc()
		return *snap, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Пока ждали lock, снапшот мог заполнить другой запрос
	if snap := c.snapshot.Load(); snap != nil {
		metrics.CacheHits.WithLabelValues("packages-service", "products").Inc()
		return *snap, nil
	}

	metrics.CacheMisses.WithLabelValues("packages-service", "products").Inc()

	products, err := c.client.GetAllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("product catalog: %w: %v", ErrUpstreamUnavailable, err)
	}

	snap := make(map[string]entity.Product, len(products))
	for _, product := range products {
		snap[product.ID] = product
	}

	c.snapshot.Store(&snap)

	logger.Info().
		Int("products", len(snap)).
		Msg("Product catalog snapshot refreshed")

	return snap, nil
}

// Evict сбрасывает снапшот, следующий Snapshot выполнит загрузку заново
// Сам Evict никогда не ходит в сеть
func (c *ProductsCache) Evict() {
	c.snapshot.Store(nil)
	metrics.CacheEvictions.WithLabelValues("packages-service", "products").Inc()
}
