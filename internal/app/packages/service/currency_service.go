package service

import (
	"context"
	"fmt"
	"strings"
)

// USDCurrencyLabel - базовая валюта всех хранимых цен
const USDCurrencyLabel = "USD"

// CurrencyService конвертирует суммы из USD в другие валюты
// поверх кеша курсов; сам курсов не хранит
type CurrencyService struct {
	ratesCache RatesProvider
}

// NewCurrencyService создает сервис конвертации валют
func NewCurrencyService(ratesCache RatesProvider) *CurrencyService {
	return &CurrencyService{ratesCache: ratesCache}
}

// ConvertUSDTo конвертирует сумму в USD в запрошенную валюту
// Код валюты нечувствителен к регистру. Для USD кеш курсов не трогается.
// Неизвестная валюта дает supported == false без ошибки: вызывающий
// может откатиться к отображению суммы в USD
func (s *CurrencyService) ConvertUSDTo(ctx context.Context, usd float64, currency string) (float64, bool, error) {
	currencyUpper := strings.ToUpper(currency)
	if currencyUpper == USDCurrencyLabel {
		return usd, true, nil
	}

	rates, err := s.ratesCache.FetchRates(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("failed to get currency rates: %w", err)
	}

	rate, ok := rates.Rates[currencyUpper]
	if !ok {
		return 0, false, nil
	}

	return usd * rate, true, nil
}
