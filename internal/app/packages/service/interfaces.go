package service

import (
	"context"

	"bazaar/internal/app/packages/entity"
)

type PackageServiceInterface interface {
	CreatePackage(ctx context.Context, req *entity.ChangePackageRequest) (*entity.PackageResource, error)
	GetPackage(ctx context.Context, id int64, currency string) (*entity.PackageResource, error)
	UpdatePackage(ctx context.Context, id int64, req *entity.ChangePackageRequest) (*entity.PackageResource, error)
	DeletePackage(ctx context.Context, id int64) error
	ListPackages(ctx context.Context, pageNumber, pageSize int, currency string) (*entity.ListPackageResponse, error)
}

// ProductLookup - read-through доступ к снапшоту каталога товаров
type ProductLookup interface {
	Snapshot(ctx context.Context) (map[string]entity.Product, error)
}

// RatesProvider - read-through доступ к снапшоту курсов валют
type RatesProvider interface {
	FetchRates(ctx context.Context) (*entity.CurrencyRates, error)
}

// CurrencyConverter конвертирует суммы из USD в запрошенную валюту
// supported == false означает неизвестную валюту, а не ошибку
type CurrencyConverter interface {
	ConvertUSDTo(ctx context.Context, usd float64, currency string) (amount float64, supported bool, err error)
}
