package infrastructure

import (
	"context"

	"bazaar/internal/app/packages/entity"
)

// ProductAPIClient - клиент внешнего каталога товаров
// Каталог отдается одним bulk запросом целиком
type ProductAPIClient interface {
	GetAllProducts(ctx context.Context) ([]entity.Product, error)
}

// CurrencyAPIClient - клиент внешнего API курсов валют относительно USD
type CurrencyAPIClient interface {
	GetLatestRates(ctx context.Context) (*entity.CurrencyRates, error)
}

// MessagePublisher - отправка событий жизненного цикла пакетов
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}
