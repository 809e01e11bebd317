package handler

import (
	"errors"
	"net/http"
	"strconv"

	"bazaar/internal/app/packages/entity"
	"bazaar/internal/app/packages/service"
	"bazaar/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Фиксированные тексты ошибок API: клиенты завязаны на них, не менять
const (
	msgPackageNotFound  = "package not found"
	msgInvalidID        = "invalid id: must be a number"
	msgUnknownProductID = "unknown product ID"
	msgInvalidPaging    = "invalid query pagination parameters"
)

// PackageHandler обрабатывает HTTP запросы для пакетов с использованием Gin
type PackageHandler struct {
	packageService service.PackageServiceInterface
	validator      *validator.Validate
	maxPageSize    int
}

// NewPackageHandler создает новый обработчик пакетов
func NewPackageHandler(packageService service.PackageServiceInterface, maxPageSize int) *PackageHandler {
	return &PackageHandler{
		packageService: packageService,
		validator:      validator.New(),
		maxPageSize:    maxPageSize,
	}
}

// CreatePackage обрабатывает POST /packages
// Создает пакет после проверки всех productIds по каталогу
func (h *PackageHandler) CreatePackage(c *gin.Context) {
	var req entity.ChangePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: "invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: formatValidationError(err)})
		return
	}

	resource, err := h.packageService.CreatePackage(c.Request.Context(), &req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resource)
}

// GetPackage обрабатывает GET /packages/{id}?currency=CODE
// Цена пакета отдается в запрошенной валюте, по умолчанию в USD
func (h *PackageHandler) GetPackage(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	currency := c.DefaultQuery("currency", service.USDCurrencyLabel)

	resource, err := h.packageService.GetPackage(c.Request.Context(), id, currency)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resource)
}

// UpdatePackage обрабатывает PUT /packages/{id}
// Полная замена: name, description и состав перезаписываются целиком
func (h *PackageHandler) UpdatePackage(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req entity.ChangePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: "invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: formatValidationError(err)})
		return
	}

	resource, err := h.packageService.UpdatePackage(c.Request.Context(), id, &req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resource)
}

// DeletePackage обрабатывает DELETE /packages/{id}
func (h *PackageHandler) DeletePackage(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.packageService.DeletePackage(c.Request.Context(), id); err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListPackages обрабатывает GET /packages?page_size=N&page_number=M&currency=CODE
// page_size по умолчанию 10 и ограничен сверху конфигурацией
func (h *PackageHandler) ListPackages(c *gin.Context) {
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: msgInvalidPaging})
		return
	}

	pageNumber, err := strconv.Atoi(c.DefaultQuery("page_number", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: msgInvalidPaging})
		return
	}

	if pageSize <= 0 || pageNumber < 0 {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: msgInvalidPaging})
		return
	}

	if pageSize > h.maxPageSize {
		pageSize = h.maxPageSize
	}

	currency := c.DefaultQuery("currency", service.USDCurrencyLabel)

	response, err := h.packageService.ListPackages(c.Request.Context(), pageNumber, pageSize, currency)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// parseID извлекает числовой id пакета из пути
// Нечисловой id - это 400, а не 404: ресурс с таким id не может существовать
func (h *PackageHandler) parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: msgInvalidID})
		return 0, false
	}
	return id, true
}

// respondServiceError транслирует ошибки бизнес-логики в HTTP статусы
// Внутренние детали наружу не отдаются
func (h *PackageHandler) respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPackageNotFound):
		c.JSON(http.StatusNotFound, entity.ErrorResponse{Message: msgPackageNotFound})
	case errors.Is(err, service.ErrUnknownProductID):
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: msgUnknownProductID})
	case errors.Is(err, service.ErrUpstreamUnavailable):
		logger.Error().Err(err).Msg("Upstream dependency unavailable")
		c.JSON(http.StatusBadGateway, entity.ErrorResponse{Message: "upstream service unavailable"})
	default:
		logger.Error().Err(err).Msg("Unhandled package service error")
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Message: "internal server error"})
	}
}

// formatValidationError форматирует ошибки валидации
func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "validation failed"
}
