package entity

// ChangePackageRequest - единая форма запроса для создания и полного обновления пакета
// Отсутствующие name/description перезаписывают прежние значения пустыми
type ChangePackageRequest struct {
	Name        string   `json:"name" validate:"max=255"`
	Description string   `json:"description" validate:"max=2000"`
	ProductIDs  []string `json:"productIds" validate:"max=500"`
}

// PackageResource - пакет в ответе API с рассчитанной суммарной ценой
// Currency указывает валюту, в которой выражена TotalPrice
type PackageResource struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ProductIDs  []string `json:"productIds"`
	TotalPrice  float64  `json:"totalPrice"`
	Currency    string   `json:"currency"`
}

// ListPackageResponse - страница пакетов
type ListPackageResponse struct {
	PageNumber int               `json:"pageNumber"`
	PageSize   int               `json:"pageSize"`
	Packages   []PackageResource `json:"packages"`
}

// ErrorResponse - тело всех ошибочных ответов API
type ErrorResponse struct {
	Message string `json:"message"`
}
