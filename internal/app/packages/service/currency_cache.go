package service

import (
	"context"
	"fmt"
	"sync"

	"bazaar/internal/app/packages/entity"
	"bazaar/internal/app/packages/infrastructure"
	"bazaar/internal/app/packages/repository"
	"bazaar/pkg/logger"
	"bazaar/pkg/metrics"
)

// CurrencyRatesCache - read-through кеш дневного снапшота курсов валют
// Снапшот лежит в Redis одной записью; upstream публикует курсы раз в день,
// поэтому вытеснение запланировано на фиксированное время после публикации
type CurrencyRatesCache struct {
	client   infrastructure.CurrencyAPIClient
	rateRepo repository.RateRepository

	// mu сериализует обращение к upstream после промаха
	mu sync.Mutex
}

// NewCurrencyRatesCache создает кеш курсов валют
func NewCurrencyRatesCache(client infrastructure.CurrencyAPIClient, rateRepo repository.RateRepository) *CurrencyRatesCache {
	return &CurrencyRatesCache{
		client:   client,
		rateRepo: rateRepo,
	}
}

// FetchRates возвращает закешированный снапшот курсов, при промахе запрашивает
// свежий у upstream. Ответ с базовой валютой, отличной от USD, считается
// некорректным и не кешируется
func (c *CurrencyRatesCache) FetchRates(ctx context.Context) (*entity.CurrencyRates, error) {
	rates, err := c.rateRepo.Get(ctx)
	if err == nil && rates != nil {
		metrics.CacheHits.WithLabelValues("packages-service", "currency_rates").Inc()
		return rates, nil
	}
	if err != nil {
		// Недоступный Redis не блокирует конвертацию, идем напрямую в API
		logger.Warn().Err(err).Msg("Failed to read currency rates from cache")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	rates, err = c.rateRepo.Get(ctx)
	if err == nil && rates != nil {
		metrics.CacheHits.WithLabelValues("packages-service", "currency_rates").Inc()
		return rates, nil
	}

	metrics.CacheMisses.WithLabelValues("packages-service", "currency_rates").Inc()

	fetched, err := c.client.GetLatestRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("currency rates: %w: %v", ErrUpstreamUnavailable, err)
	}

	if fetched.Base != USDCurrencyLabel {
		return nil, fmt.Errorf("currency rates: %w: unexpected base currency %q", ErrUpstreamUnavailable, fetched.Base)
	}

	if err := c.rateRepo.Set(ctx, fetched); err != nil {
		// Снапшот уже получен и валиден, проблемы с кешем не критичны
		logger.Warn().Err(err).Msg("Failed to store currency rates in cache")
	} else {
		logger.Info().
			Str("date", fetched.Date).
			Int("rates", len(fetched.Rates)).
			Msg("Currency rates snapshot refreshed")
	}

	return fetched, nil
}

// EvictRates вытесняет снапшот курсов, следующий FetchRates сходит в upstream
// Вызывается планировщиком раз в сутки после публикации свежих курсов
func (c *CurrencyRatesCache) EvictRates(ctx context.Context) error {
	if err := c.rateRepo.Delete(ctx); err != nil {
		return fmt.Errorf("failed to evict currency rates: %w", err)
	}
	metrics.CacheEvictions.WithLabelValues("packages-service", "currency_rates").Inc()
	return nil
}
