package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"packagecatalog/catalog-service/internal/app/catalog/currency"
	"packagecatalog/catalog-service/internal/app/catalog/entity"
	"packagecatalog/catalog-service/internal/app/catalog/repository"
	"packagecatalog/catalog-service/internal/app/catalog/service"
	"packagecatalog/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PackageHandler обрабатывает HTTP запросы каталога пакетов
type PackageHandler struct {
	packageService service.PackageServiceInterface
	validator      *validator.Validate
}

// NewPackageHandler создает новый обработчик пакетов
func NewPackageHandler(packageService service.PackageServiceInterface) *PackageHandler {
	return &PackageHandler{
		packageService: packageService,
		validator:      validator.New(),
	}
}

// === CURRENCIES HANDLERS ===

// GetCurrencies обрабатывает GET /currency
func (h *PackageHandler) GetCurrencies(c *gin.Context) {
	c.JSON(http.StatusOK, entity.ToCurrencyListResponse(h.packageService.GetCurrencies()))
}

// Convert обрабатывает GET /convert?currency=XXX&amount=10.00
func (h *PackageHandler) Convert(c *gin.Context) {
	var amount *decimal.Decimal
	if raw, ok := c.GetQuery("amount"); ok {
		parsed, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			respondError(c, http.StatusBadRequest, entity.ErrCodeIncorrectParams, "Invalid amount")
			return
		}
		amount = &parsed
	}

	result, code, err := h.packageService.Convert(c.Request.Context(), c.Query("currency"), amount)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.ConvertResponse{
		Currency:  code.String(),
		USDAmount: entity.NewMoney(*amount),
		Amount:    entity.NewMoney(result),
	})
}

// === PACKAGES HANDLERS ===

// CreatePackage обрабатывает POST /package
func (h *PackageHandler) CreatePackage(c *gin.Context) {
	dto, ok := h.bindPackage(c)
	if !ok {
		return
	}

	pkg, err := h.packageService.CreatePackage(c.Request.Context(), entity.PackageFromDTO(*dto))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entity.PackageEnvelope{Package: entity.ToPackageResponse(*pkg)})
}

// GetPackage обрабатывает GET /package/:id?currency=XXX
func (h *PackageHandler) GetPackage(c *gin.Context) {
	id, ok := parsePackageID(c)
	if !ok {
		return
	}

	pkg, err := h.packageService.GetPackage(c.Request.Context(), id, c.Query("currency"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.PackageEnvelope{Package: entity.ToPackageResponse(*pkg)})
}

// GetPackages обрабатывает GET /package?currency=XXX
func (h *PackageHandler) GetPackages(c *gin.Context) {
	packages, err := h.packageService.GetPackages(c.Request.Context(), c.Query("currency"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.ToPackageListResponse(packages))
}

// UpdatePackage обрабатывает PUT /package/:id
func (h *PackageHandler) UpdatePackage(c *gin.Context) {
	id, ok := parsePackageID(c)
	if !ok {
		return
	}

	dto, ok := h.bindPackage(c)
	if !ok {
		return
	}

	pkg, err := h.packageService.UpdatePackage(c.Request.Context(), id, entity.PackageFromDTO(*dto))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.PackageEnvelope{Package: entity.ToPackageResponse(*pkg)})
}

// DeletePackage обрабатывает DELETE /package/:id
func (h *PackageHandler) DeletePackage(c *gin.Context) {
	id, ok := parsePackageID(c)
	if !ok {
		return
	}

	if err := h.packageService.DeletePackage(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Package deleted successfully"})
}

// === HELPERS ===

// bindPackage читает тело {"package": {...}} и валидирует его
func (h *PackageHandler) bindPackage(c *gin.Context) (*entity.PackageDTO, bool) {
	var req entity.PackageRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		respondError(c, http.StatusBadRequest, entity.ErrCodeInvalidJSON, "Invalid request body")
		return nil, false
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, entity.ErrCodeIncorrectParams, formatValidationError(err))
		return nil, false
	}

	return req.Package, true
}

func parsePackageID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, entity.ErrCodeIncorrectParams, "Invalid package ID")
		return uuid.Nil, false
	}
	return id, true
}

// handleServiceError переводит ошибку сервиса в HTTP ответ
// Внутренние причины только логируются
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPackageNotFound):
		respondError(c, http.StatusNotFound, entity.ErrCodePackageNotFound, "Package not found")
	case errors.Is(err, currency.ErrInvalidCurrencyCode):
		respondError(c, http.StatusBadRequest, entity.ErrCodeIncorrectParams, "Unsupported currency")
	case errors.Is(err, currency.ErrInvalidArgument),
		errors.Is(err, service.ErrInvalidProduct):
		respondError(c, http.StatusBadRequest, entity.ErrCodeIncorrectParams, err.Error())
	case errors.Is(err, repository.ErrDuplicateProduct):
		respondError(c, http.StatusBadRequest, entity.ErrCodeIncorrectParams, "Duplicate product id in package")
	case errors.Is(err, currency.ErrRatesUnavailable):
		logger.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("Exchange rates unavailable")
		respondError(c, http.StatusServiceUnavailable, entity.ErrCodeRatesUnavailable, "Exchange rates are temporarily unavailable")
	default:
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		respondError(c, http.StatusInternalServerError, entity.ErrCodeInternal, "Internal server error")
	}
}

// respondError отправляет ответ об ошибке
func respondError(c *gin.Context, status int, code entity.ErrorCode, message string) {
	c.AbortWithStatusJSON(status, entity.ErrorResponse{
		Error:   http.StatusText(status),
		Code:    code,
		Message: message,
		Date:    time.Now(),
	})
}

// formatValidationError форматирует ошибки валидации
func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		return validationErrors[0].Namespace() + " validation failed"
	}
	return "Validation failed"
}
