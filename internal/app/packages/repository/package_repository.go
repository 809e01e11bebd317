package repository

import (
	"context"
	"errors"
	"fmt"

	"bazaar/internal/app/packages/entity"

	"gorm.io/gorm"
)

type packageRepository struct {
	db *gorm.DB // GORM DB для работы с PostgreSQL
}

// NewPackageRepository создает новый репозиторий пакетов
func NewPackageRepository(db *gorm.DB) PackageRepository {
	return &packageRepository{db: db}
}

// Create создает пакет и строки членства одной транзакцией
// ID пакета назначается базой; при частичном сбое не остается ни пакета, ни членства
func (r *packageRepository) Create(ctx context.Context, pkg *entity.ProductPackage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(pkg).Error; err != nil {
			return fmt.Errorf("failed to create package: %w", err)
		}

		if len(pkg.ProductIDs) == 0 {
			return nil
		}

		memberships := make([]entity.PackageProduct, 0, len(pkg.ProductIDs))
		for _, productID := range pkg.ProductIDs {
			memberships = append(memberships, entity.PackageProduct{
				PackageID: pkg.ID,
				ProductID: productID,
			})
		}

		if err := tx.Create(&memberships).Error; err != nil {
			return fmt.Errorf("failed to create package memberships: %w", err)
		}

		return nil
	})
}

// GetByID получает пакет вместе с идентификаторами входящих товаров
func (r *packageRepository) GetByID(ctx context.Context, id int64) (*entity.ProductPackage, error) {
	var pkg entity.ProductPackage
	result := r.db.WithContext(ctx).First(&pkg, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, fmt.Errorf("failed to get package: %w", result.Error)
	}

	productIDs, err := r.loadProductIDs(r.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	pkg.ProductIDs = productIDs

	return &pkg, nil
}

// Update перезаписывает name/description безусловно и приводит членство
// к запрошенному набору: лишние строки удаляются, недостающие добавляются,
// совпадающие не трогаются. Все в одной транзакции.
func (r *packageRepository) Update(ctx context.Context, pkg *entity.ProductPackage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entity.ProductPackage
		if err := tx.First(&existing, "id = ?", pkg.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPackageNotFound
			}
			return fmt.Errorf("failed to get package: %w", err)
		}

		if err := tx.Model(&entity.ProductPackage{}).
			Where("id = ?", pkg.ID).
			Updates(map[string]interface{}{
				"name":        pkg.Name,
				"description": pkg.Description,
			}).Error; err != nil {
			return fmt.Errorf("failed to update package: %w", err)
		}

		var current []entity.PackageProduct
		if err := tx.Where("package_id = ?", pkg.ID).Find(&current).Error; err != nil {
			return fmt.Errorf("failed to get package memberships: %w", err)
		}

		requested := make(map[string]struct{}, len(pkg.ProductIDs))
		for _, productID := range pkg.ProductIDs {
			requested[productID] = struct{}{}
		}

		currentIDs := make(map[string]struct{}, len(current))
		removed := make([]string, 0)
		for _, membership := range current {
			currentIDs[membership.ProductID] = struct{}{}
			if _, ok := requested[membership.ProductID]; !ok {
				removed = append(removed, membership.ProductID)
			}
		}

		added := make([]entity.PackageProduct, 0)
		for _, productID := range pkg.ProductIDs {
			if _, ok := currentIDs[productID]; !ok {
				added = append(added, entity.PackageProduct{
					PackageID: pkg.ID,
					ProductID: productID,
				})
			}
		}

		if len(removed) > 0 {
			if err := tx.Where("package_id = ? AND product_id IN ?", pkg.ID, removed).
				Delete(&entity.PackageProduct{}).Error; err != nil {
				return fmt.Errorf("failed to delete package memberships: %w", err)
			}
		}

		if len(added) > 0 {
			if err := tx.Create(&added).Error; err != nil {
				return fmt.Errorf("failed to create package memberships: %w", err)
			}
		}

		return nil
	})
}

// Delete удаляет пакет и все его строки членства одной транзакцией
// Строки членства не могут пережить пакет
func (r *packageRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("package_id = ?", id).
			Delete(&entity.PackageProduct{}).Error; err != nil {
			return fmt.Errorf("failed to delete package memberships: %w", err)
		}

		result := tx.Delete(&entity.ProductPackage{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete package: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrPackageNotFound
		}

		return nil
	})
}

// List возвращает страницу пакетов в порядке создания
// Страница за пределами данных дает пустой список, а не ошибку
func (r *packageRepository) List(ctx context.Context, pageNumber, pageSize int) ([]entity.ProductPackage, error) {
	var pkgs []entity.ProductPackage
	result := r.db.WithContext(ctx).
		Order("id").
		Limit(pageSize).
		Offset(pageNumber * pageSize).
		Find(&pkgs)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to list packages: %w", result.Error)
	}

	if len(pkgs) == 0 {
		return []entity.ProductPackage{}, nil
	}

	ids := make([]int64, 0, len(pkgs))
	for _, pkg := range pkgs {
		ids = append(ids, pkg.ID)
	}

	var memberships []entity.PackageProduct
	if err := r.db.WithContext(ctx).
		Where("package_id IN ?", ids).
		Order("product_id").
		Find(&memberships).Error; err != nil {
		return nil, fmt.Errorf("failed to list package memberships: %w", err)
	}

	grouped := make(map[int64][]string, len(pkgs))
	for _, membership := range memberships {
		grouped[membership.PackageID] = append(grouped[membership.PackageID], membership.ProductID)
	}

	for i := range pkgs {
		productIDs, ok := grouped[pkgs[i].ID]
		if !ok {
			productIDs = make([]string, 0)
		}
		pkgs[i].ProductIDs = productIDs
	}

	return pkgs, nil
}

// loadProductIDs получает отсортированный список идентификаторов товаров пакета
func (r *packageRepository) loadProductIDs(db *gorm.DB, packageID int64) ([]string, error) {
	var memberships []entity.PackageProduct
	if err := db.Where("package_id = ?", packageID).
		Order("product_id").
		Find(&memberships).Error; err != nil {
		return nil, fmt.Errorf("failed to get package memberships: %w", err)
	}

	productIDs := make([]string, 0, len(memberships))
	for _, membership := range memberships {
		productIDs = append(productIDs, membership.ProductID)
	}

	return productIDs, nil
}
