package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"bazaar/internal/app/packages/entity"
	"bazaar/internal/app/packages/infrastructure"
	"bazaar/internal/app/packages/repository"
	"bazaar/pkg/logger"
)

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrPackageNotFound  = errors.New("package not found")
	ErrUnknownProductID = errors.New("unknown product id in package request")
	// ErrUpstreamUnavailable оборачивает сбои внешних каталога и API курсов
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
)

// PackageService обрабатывает бизнес-логику пакетов: единственный слой,
// который видит и хранилище, и кеши каталога/валют.
// Политика ценообразования несимметрична намеренно: запись строгая
// (неизвестный товар отклоняет запрос), чтение мягкое (неизвестный товар
// логируется и дает нулевой вклад в цену) - каталог и членство дрейфуют
// независимо друг от друга
type PackageService struct {
	packageRepo   repository.PackageRepository
	products      ProductLookup
	currency      CurrencyConverter
	kafkaProducer infrastructure.MessagePublisher
}

// NewPackageService создает новый сервис пакетов с внедрением зависимостей
func NewPackageService(
	packageRepo repository.PackageRepository,
	products ProductLookup,
	currency CurrencyConverter,
	kafkaProducer infrastructure.MessagePublisher,
) *PackageService {
	return &PackageService{
		packageRepo:   packageRepo,
		products:      products,
		currency:      currency,
		kafkaProducer: kafkaProducer,
	}
}

// CreatePackage создает пакет
// Каждый productId проверяется по снапшоту каталога до какой-либо записи;
// при недоступном каталоге создание отклоняется, валидация молча не пропускается
func (s *PackageService) CreatePackage(ctx context.Context, req *entity.ChangePackageRequest) (*entity.PackageResource, error) {
	productIDs := dedupeProductIDs(req.ProductIDs)

	snapshot, err := s.products.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to validate products: %w", err)
	}

	if err := validateProductIDs(productIDs, snapshot); err != nil {
		return nil, err
	}

	pkg := &entity.ProductPackage{
		Name:        req.Name,
		Description: req.Description,
		ProductIDs:  productIDs,
	}

	if err := s.packageRepo.Create(ctx, pkg); err != nil {
		return nil, fmt.Errorf("failed to create package: %w", err)
	}

	s.publishPackageEvent(ctx, "PACKAGE_CREATED", pkg)

	return s.buildResource(ctx, pkg, USDCurrencyLabel, snapshot)
}

// GetPackage получает пакет с ценой в запрошенной валюте
func (s *PackageService) GetPackage(ctx context.Context, id int64, currency string) (*entity.PackageResource, error) {
	pkg, err := s.packageRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPackageNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, fmt.Errorf("failed to get package: %w", err)
	}

	return s.buildResource(ctx, pkg, currency, s.readSnapshot(ctx))
}

// UpdatePackage полностью заменяет name/description и состав пакета
// Валидация состава такая же строгая, как при создании
func (s *PackageService) UpdatePackage(ctx context.Context, id int64, req *entity.ChangePackageRequest) (*entity.PackageResource, error) {
	productIDs := dedupeProductIDs(req.ProductIDs)

	snapshot, err := s.products.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to validate products: %w", err)
	}

	if err := validateProductIDs(productIDs, snapshot); err != nil {
		return nil, err
	}

	pkg := &entity.ProductPackage{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		ProductIDs:  productIDs,
	}

	if err := s.packageRepo.Update(ctx, pkg); err != nil {
		if errors.Is(err, repository.ErrPackageNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, fmt.Errorf("failed to update package: %w", err)
	}

	s.publishPackageEvent(ctx, "PACKAGE_UPDATED", pkg)

	return s.buildResource(ctx, pkg, USDCurrencyLabel, snapshot)
}

// DeletePackage удаляет пакет вместе со строками членства
// Валидация по каталогу не нужна
func (s *PackageService) DeletePackage(ctx context.Context, id int64) error {
	if err := s.packageRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrPackageNotFound) {
			return ErrPackageNotFound
		}
		return fmt.Errorf("failed to delete package: %w", err)
	}

	s.publishPackageEvent(ctx, "PACKAGE_DELETED", &entity.ProductPackage{ID: id})

	return nil
}

// ListPackages возвращает страницу пакетов с ценами в запрошенной валюте
// Страница за пределами данных дает пустой список
func (s *PackageService) ListPackages(ctx context.Context, pageNumber, pageSize int, currency string) (*entity.ListPackageResponse, error) {
	pkgs, err := s.packageRepo.List(ctx, pageNumber, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}

	snapshot := s.readSnapshot(ctx)

	resources := make([]entity.PackageResource, 0, len(pkgs))
	for i := range pkgs {
		resource, err := s.buildResource(ctx, &pkgs[i], currency, snapshot)
		if err != nil {
			return nil, err
		}
		resources = append(resources, *resource)
	}

	return &entity.ListPackageResponse{
		PageNumber: pageNumber,
		PageSize:   pageSize,
		Packages:   resources,
	}, nil
}

// readSnapshot получает снапшот каталога для ценообразования на чтении
// Недоступный каталог не роняет запрос: цена деградирует до нуля с логом
func (s *PackageService) readSnapshot(ctx context.Context) map[string]entity.Product {
	snapshot, err := s.products.Snapshot(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch product catalog for pricing, prices degrade to zero")
		return map[string]entity.Product{}
	}
	return snapshot
}

// buildResource собирает ответное представление пакета: суммирует цены
// входящих товаров в USD и конвертирует в запрошенную валюту.
// Товар из членства, отсутствующий в каталоге, дает нулевой вклад.
// Неизвестная валюта откатывается к сумме в USD с меткой USD
func (s *PackageService) buildResource(
	ctx context.Context,
	pkg *entity.ProductPackage,
	currency string,
	snapshot map[string]entity.Product,
) (*entity.PackageResource, error) {
	totalUSD := 0
	for _, productID := range pkg.ProductIDs {
		product, ok := snapshot[productID]
		if !ok {
			logger.Error().
				Int64("package_id", pkg.ID).
				Str("product_id", productID).
				Msg("Package references product ID missing from catalog")
			continue
		}
		totalUSD += product.USDPrice
	}

	amount, supported, err := s.currency.ConvertUSDTo(ctx, float64(totalUSD), currency)
	if err != nil {
		return nil, fmt.Errorf("failed to convert package price: %w", err)
	}

	label := strings.ToUpper(currency)
	if !supported {
		amount = float64(totalUSD)
		label = USDCurrencyLabel
	}

	return &entity.PackageResource{
		ID:          pkg.ID,
		Name:        pkg.Name,
		Description: pkg.Description,
		ProductIDs:  pkg.ProductIDs,
		TotalPrice:  amount,
		Currency:    label,
	}, nil
}

// publishPackageEvent отправляет событие о пакете в Kafka
// Пакет уже сохранен, проблемы с Kafka не критичны и только логируются
func (s *PackageService) publishPackageEvent(ctx context.Context, eventType string, pkg *entity.ProductPackage) {
	event := entity.PackageEvent{
		EventType:  eventType,
		PackageID:  pkg.ID,
		Name:       pkg.Name,
		ProductIDs: pkg.ProductIDs,
		Timestamp:  time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to marshal package event")
		return
	}

	if err := s.kafkaProducer.PublishMessage(ctx, strconv.FormatInt(pkg.ID, 10), data); err != nil {
		logger.Warn().Err(err).Str("event_type", eventType).Msg("Failed to publish package event")
	}
}

// dedupeProductIDs убирает дубли productIds, сохраняя порядок первых вхождений
// Повторный товар в запросе не ошибка: членство имеет set-семантику
func dedupeProductIDs(productIDs []string) []string {
	seen := make(map[string]struct{}, len(productIDs))
	deduped := make([]string, 0, len(productIDs))
	for _, productID := range productIDs {
		if _, ok := seen[productID]; ok {
			continue
		}
		seen[productID] = struct{}{}
		deduped = append(deduped, productID)
	}
	return deduped
}

// validateProductIDs проверяет каждый запрошенный товар по снапшоту каталога
func validateProductIDs(productIDs []string, snapshot map[string]entity.Product) error {
	for _, productID := range productIDs {
		if productID == "" {
			return ErrUnknownProductID
		}
		if _, ok := snapshot[productID]; !ok {
			return ErrUnknownProductID
		}
	}
	return nil
}
