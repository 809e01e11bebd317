package service

import (
	"context"
	"errors"
	"testing"

	"bazaar/internal/app/packages/entity"
	"bazaar/internal/app/packages/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===================== ConvertUSDTo Tests =====================

func TestConvertUSDTo_USDShortCircuit(t *testing.T) {
	// Arrange
	ratesCache := new(mocks.MockRatesProvider)
	svc := NewCurrencyService(ratesCache)
	ctx := context.Background()

	// Act
	amount, supported, err := svc.ConvertUSDTo(ctx, 30.0, "USD")

	// Assert - для USD кеш курсов не трогается вовсе
	require.NoError(t, err)
	assert.True(t, supported)
	assert.Equal(t, 30.0, amount)
	ratesCache.AssertNotCalled(t, "FetchRates")
}

func TestConvertUSDTo_CaseInsensitive(t *testing.T) {
	// Arrange
	ratesCache := new(mocks.MockRatesProvider)
	svc := NewCurrencyService(ratesCache)
	ctx := context.Background()

	rates := &entity.CurrencyRates{
		Base:  "USD",
		Date:  "2026-08-28",
		Rates: map[string]float64{"EUR": 0.93},
	}
	ratesCache.On("FetchRates", ctx).Return(rates, nil)

	// Act - код валюты в нижнем регистре
	amount, supported, err := svc.ConvertUSDTo(ctx, 100.0, "eur")

	// Assert
	require.NoError(t, err)
	assert.True(t, supported)
	assert.Equal(t, 93.0, amount)
}

func TestConvertUSDTo_KnownCurrency(t *testing.T) {
	// Arrange
	ratesCache := new(mocks.MockRatesProvider)
	svc := NewCurrencyService(ratesCache)
	ctx := context.Background()

	rates := &entity.CurrencyRates{
		Base:  "USD",
		Date:  "2026-08-28",
		Rates: map[string]float64{"GBP": 0.79},
	}
	ratesCache.On("FetchRates", ctx).Return(rates, nil)

	// Act
	amount, supported, err := svc.ConvertUSDTo(ctx, 10.0, "GBP")

	// Assert
	require.NoError(t, err)
	assert.True(t, supported)
	assert.InDelta(t, 7.9, amount, 0.0001)
}

func TestConvertUSDTo_UnknownCurrency(t *testing.T) {
	// Arrange
	ratesCache := new(mocks.MockRatesProvider)
	svc := NewCurrencyService(ratesCache)
	ctx := context.Background()

	rates := &entity.CurrencyRates{
		Base:  "USD",
		Date:  "2026-08-28",
		Rates: map[string]float64{"EUR": 0.93},
	}
	ratesCache.On("FetchRates", ctx).Return(rates, nil)

	// Act
	amount, supported, err := svc.ConvertUSDTo(ctx, 10.0, "XYZ")

	// Assert - неизвестная валюта не ошибка, вызывающий откатится к USD
	require.NoError(t, err)
	assert.False(t, supported)
	assert.Equal(t, 0.0, amount)
}

func TestConvertUSDTo_RatesUnavailable(t *testing.T) {
	// Arrange
	ratesCache := new(mocks.MockRatesProvider)
	svc := NewCurrencyService(ratesCache)
	ctx := context.Background()

	ratesCache.On("FetchRates", ctx).Return(nil, errors.New("upstream service unavailable"))

	// Act
	amount, supported, err := svc.ConvertUSDTo(ctx, 10.0, "EUR")

	// Assert
	assert.Error(t, err)
	assert.False(t, supported)
	assert.Equal(t, 0.0, amount)
	assert.Contains(t, err.Error(), "failed to get currency rates")
}
