package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bazaar/internal/app/packages/entity"

	"github.com/redis/go-redis/v9"
)

// Снапшот курсов хранится целиком под одним ключом: запись атомарна,
// читатель никогда не увидит наполовину обновленную таблицу курсов
const ratesCacheKey = "currency:rates:usd"

// rateRepository реализует RateRepository поверх Redis
type rateRepository struct {
	client *redis.Client
	ttl    time.Duration // Страховочный TTL на случай пропуска cron вытеснения
}

// NewRateRepository создает новый репозиторий курсов валют
func NewRateRepository(client *redis.Client, ttl time.Duration) RateRepository {
	return &rateRepository{
		client: client,
		ttl:    ttl,
	}
}

// Get получает снапшот курсов из Redis
// Отсутствие снапшота не является ошибкой: возвращается (nil, nil)
func (r *rateRepository) Get(ctx context.Context) (*entity.CurrencyRates, error) {
	data, err := r.client.Get(ctx, ratesCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get currency rates from redis: %w", err)
	}

	var rates entity.CurrencyRates
	if err := json.Unmarshal(data, &rates); err != nil {
		return nil, fmt.Errorf("failed to unmarshal currency rates: %w", err)
	}

	return &rates, nil
}

// Set сохраняет снапшот курсов в Redis с TTL
func (r *rateRepository) Set(ctx context.Context, rates *entity.CurrencyRates) error {
	data, err := json.Marshal(rates)
	if err != nil {
		return fmt.Errorf("failed to marshal currency rates: %w", err)
	}

	if err := r.client.Set(ctx, ratesCacheKey, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set currency rates in redis: %w", err)
	}

	return nil
}

// Delete вытесняет снапшот курсов, следующий Get вернет (nil, nil)
func (r *rateRepository) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, ratesCacheKey).Err(); err != nil {
		return fmt.Errorf("failed to delete currency rates from redis: %w", err)
	}
	return nil
}
