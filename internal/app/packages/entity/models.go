package entity

import "time"

// ProductPackage представляет пакет - именованный набор товаров из внешнего каталога
// Сами товары этим сервисом не хранятся, только их идентификаторы
type ProductPackage struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ProductIDs  []string  `json:"productIds" gorm:"-"`
	CreatedAt   time.Time `json:"-"`
}

// TableName задает имя таблицы для GORM
func (ProductPackage) TableName() string {
	return "packages"
}

// PackageProduct представляет факт членства товара в пакете
// Составной первичный ключ (package_id, product_id) дает set-семантику без дублей
type PackageProduct struct {
	PackageID int64  `json:"package_id" gorm:"primaryKey;autoIncrement:false"`
	ProductID string `json:"product_id" gorm:"primaryKey"`
}

// TableName задает имя таблицы для GORM
func (PackageProduct) TableName() string {
	return "package_products"
}

// Product представляет товар внешнего каталога (read-only для этого сервиса)
// Цена задается в целых долларах США
type Product struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	USDPrice int    `json:"usdPrice"`
}

// CurrencyRates представляет снапшот курсов валют относительно базовой валюты
// Снапшот неизменяемый: следующее обновление целиком заменяет предыдущее
type CurrencyRates struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// PackageEvent представляет событие изменения пакета для Kafka
type PackageEvent struct {
	EventType  string    `json:"event_type"` // PACKAGE_CREATED, PACKAGE_UPDATED, PACKAGE_DELETED
	PackageID  int64     `json:"package_id"`
	Name       string    `json:"name"`
	ProductIDs []string  `json:"product_ids"`
	Timestamp  time.Time `json:"timestamp"`
}
