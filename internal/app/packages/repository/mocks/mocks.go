package mocks

import (
	"context"

	"bazaar/internal/app/packages/entity"

	"github.com/stretchr/testify/mock"
)

// MockPackageRepository мок для PackageRepository
type MockPackageRepository struct {
	mock.Mock
}

func (m *MockPackageRepository) Create(ctx context.Context, pkg *entity.ProductPackage) error {
	args := m.Called(ctx, pkg)
	return args.Error(0)
}

func (m *MockPackageRepository) GetByID(ctx context.Context, id int64) (*entity.ProductPackage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ProductPackage), args.Error(1)
}

func (m *MockPackageRepository) Update(ctx context.Context, pkg *entity.ProductPackage) error {
	args := m.Called(ctx, pkg)
	return args.Error(0)
}

func (m *MockPackageRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPackageRepository) List(ctx context.Context, pageNumber, pageSize int) ([]entity.ProductPackage, error) {
	args := m.Called(ctx, pageNumber, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ProductPackage), args.Error(1)
}

// MockRateRepository мок для RateRepository
type MockRateRepository struct {
	mock.Mock
}

func (m *MockRateRepository) Get(ctx context.Context) (*entity.CurrencyRates, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CurrencyRates), args.Error(1)
}

func (m *MockRateRepository) Set(ctx context.Context, rates *entity.CurrencyRates) error {
	args := m.Called(ctx, rates)
	return args.Error(0)
}

func (m *MockRateRepository) Delete(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockProductAPIClient мок для клиента внешнего каталога товаров
type MockProductAPIClient struct {
	mock.Mock
}

func (m *MockProductAPIClient) GetAllProducts(ctx context.Context) ([]entity.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Product), args.Error(1)
}

// MockCurrencyAPIClient мок для клиента внешнего API курсов валют
type MockCurrencyAPIClient struct {
	mock.Mock
}

func (m *MockCurrencyAPIClient) GetLatestRates(ctx context.Context) (*entity.CurrencyRates, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CurrencyRates), args.Error(1)
}

// MockRatesProvider мок для кеша курсов валют
type MockRatesProvider struct {
	mock.Mock
}

func (m *MockRatesProvider) FetchRates(ctx context.Context) (*entity.CurrencyRates, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CurrencyRates), args.Error(1)
}

// MockProductLookup мок для кеша каталога товаров
type MockProductLookup struct {
	mock.Mock
}

func (m *MockProductLookup) Snapshot(ctx context.Context) (map[string]entity.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]entity.Product), args.Error(1)
}

// MockCurrencyConverter мок для конвертера валют
type MockCurrencyConverter struct {
	mock.Mock
}

func (m *MockCurrencyConverter) ConvertUSDTo(ctx context.Context, usd float64, currency string) (float64, bool, error) {
	args := m.Called(ctx, usd, currency)
	return args.Get(0).(float64), args.Bool(1), args.Error(2)
}

// MockMessagePublisher мок для Kafka producer
type MockMessagePublisher struct {
	mock.Mock
	Messages [][]byte
}

func (m *MockMessagePublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	m.Messages = append(m.Messages, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
