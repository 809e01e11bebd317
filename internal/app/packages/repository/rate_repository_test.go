package repository

import (
	"context"
	"testing"
	"time"

	"bazaar/internal/app/packages/entity"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// RateRepositoryTestSuite тестовый suite для Redis repository курсов валют
type RateRepositoryTestSuite struct {
	suite.Suite
	miniRedis *miniredis.Miniredis
	client    *redis.Client
	repo      RateRepository
}

func TestRateRepositorySuite(t *testing.T) {
	suite.Run(t, new(RateRepositoryTestSuite))
}

func (s *RateRepositoryTestSuite) SetupSuite() {
	var err error
	s.miniRedis, err = miniredis.Run()
	require.NoError(s.T(), err)

	s.client = redis.NewClient(&redis.Options{
		Addr: s.miniRedis.Addr(),
	})

	s.repo = NewRateRepository(s.client, 24*time.Hour)
}

func (s *RateRepositoryTestSuite) SetupTest() {
	s.miniRedis.FlushAll()
}

func (s *RateRepositoryTestSuite) TearDownSuite() {
	s.client.Close()
	s.miniRedis.Close()
}

// ===================== Get Tests =====================

func (s *RateRepositoryTestSuite) TestGet_Success() {
	ctx := context.Background()

	// Arrange - сначала сохраняем снапшот
	rates := &entity.CurrencyRates{
		Base: "USD",
		Date: "2026-08-28",
		Rates: map[string]float64{
			"EUR": 0.93,
			"GBP": 0.79,
		},
	}
	err := s.repo.Set(ctx, rates)
	s.NoError(err)

	// Act
	result, err := s.repo.Get(ctx)

	// Assert
	s.NoError(err)
	s.NotNil(result)
	s.Equal("USD", result.Base)
	s.Equal(0.93, result.Rates["EUR"])
	s.Equal(0.79, result.Rates["GBP"])
}

func (s *RateRepositoryTestSuite) TestGet_Empty() {
	ctx := context.Background()

	// Act - снапшота нет, это не ошибка
	result, err := s.repo.Get(ctx)

	// Assert
	s.NoError(err)
	s.Nil(result)
}

// ===================== Set Tests =====================

func (s *RateRepositoryTestSuite) TestSet_Overwrite() {
	ctx := context.Background()

	// Arrange - сохраняем первый снапшот
	first := &entity.CurrencyRates{
		Base:  "USD",
		Date:  "2026-08-27",
		Rates: map[string]float64{"EUR": 0.92},
	}
	s.repo.Set(ctx, first)

	// Act - перезаписываем свежим
	second := &entity.CurrencyRates{
		Base:  "USD",
		Date:  "2026-08-28",
		Rates: map[string]float64{"EUR": 0.93},
	}
	err := s.repo.Set(ctx, second)

	// Assert
	s.NoError(err)
	result, _ := s.repo.Get(ctx)
	s.Equal("2026-08-28", result.Date)
	s.Equal(0.93, result.Rates["EUR"])
}

// ===================== Delete Tests =====================

func (s *RateRepositoryTestSuite) TestDelete_Success() {
	ctx := context.Background()

	// Arrange
	rates := &entity.CurrencyRates{
		Base:  "USD",
		Date:  "2026-08-28",
		Rates: map[string]float64{"EUR": 0.93},
	}
	s.repo.Set(ctx, rates)

	// Act
	err := s.repo.Delete(ctx)

	// Assert - после вытеснения Get возвращает (nil, nil)
	s.NoError(err)
	result, err := s.repo.Get(ctx)
	s.NoError(err)
	s.Nil(result)
}

func (s *RateRepositoryTestSuite) TestDelete_Empty() {
	ctx := context.Background()

	// Act - удаление отсутствующего снапшота не ошибка
	err := s.repo.Delete(ctx)

	// Assert
	s.NoError(err)
}

// ===================== TTL Tests =====================

func (s *RateRepositoryTestSuite) TestTTL_Expiration() {
	// Репозиторий с очень коротким TTL
	shortTTLRepo := NewRateRepository(s.client, 1*time.Second)
	ctx := context.Background()

	rates := &entity.CurrencyRates{
		Base:  "USD",
		Date:  "2026-08-28",
		Rates: map[string]float64{"EUR": 0.93},
	}
	err := shortTTLRepo.Set(ctx, rates)
	assert.NoError(s.T(), err)

	// Ждём истечения TTL (miniredis поддерживает FastForward)
	s.miniRedis.FastForward(2 * time.Second)

	// Снапшот истёк, Get ведёт себя как при отсутствии
	result, err := shortTTLRepo.Get(ctx)
	assert.NoError(s.T(), err)
	assert.Nil(s.T(), result)
}

// ===================== Redis Key Format Tests =====================

func (s *RateRepositoryTestSuite) TestRedisKeyFormat() {
	ctx := context.Background()

	rates := &entity.CurrencyRates{
		Base:  "USD",
		Date:  "2026-08-28",
		Rates: map[string]float64{"EUR": 0.93},
	}
	s.repo.Set(ctx, rates)

	// Снапшот лежит целиком под одним ключом
	keys, err := s.client.Keys(ctx, "currency:*").Result()
	s.NoError(err)
	s.Contains(keys, "currency:rates:usd")
}
