package repository

import (
	"context"
	"errors"

	"bazaar/internal/app/packages/entity"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrPackageNotFound = errors.New("package not found")
)

// PackageRepository - хранилище пакетов и фактов членства товаров в них
// Все мутирующие операции атомарны: строка пакета и строки членства
// фиксируются одной транзакцией
type PackageRepository interface {
	Create(ctx context.Context, pkg *entity.ProductPackage) error
	GetByID(ctx context.Context, id int64) (*entity.ProductPackage, error)
	Update(ctx context.Context, pkg *entity.ProductPackage) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, pageNumber, pageSize int) ([]entity.ProductPackage, error)
}

// RateRepository - хранилище снапшота курсов валют
type RateRepository interface {
	Get(ctx context.Context) (*entity.CurrencyRates, error)
	Set(ctx context.Context, rates *entity.CurrencyRates) error
	Delete(ctx context.Context) error
}
