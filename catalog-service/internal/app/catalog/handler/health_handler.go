package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"packagecatalog/catalog-service/internal/app/catalog/currency"

	"github.com/gin-gonic/gin"
)

// CheckFunc проверяет доступность зависимости
type CheckFunc func(ctx context.Context) error

// RateStatus - состояние кеша курсов валют
type RateStatus interface {
	Ready() bool
	LastError() error
}

type HealthHandler struct {
	checks map[string]CheckFunc
	rates  RateStatus
}

func NewHealthHandler(rates RateStatus, checks map[string]CheckFunc) *HealthHandler {
	return &HealthHandler{
		checks: checks,
		rates:  rates,
	}
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Checks    map[string]string `json:"checks"`
	Timestamp time.Time         `json:"timestamp"`
}

// HealthCheck обрабатывает GET /health
// Курсы валют загружаются лениво, поэтому их отсутствие - предупреждение, а не ошибка
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string, len(h.checks)+1)
	overallStatus := "healthy"

	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			checks[name] = "unhealthy: " + err.Error()
			overallStatus = "unhealthy"
		} else {
			checks[name] = "healthy"
		}
	}

	checks["exchange_rates"] = h.ratesStatus()

	status := http.StatusOK
	if overallStatus != "healthy" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, HealthResponse{
		Status:    overallStatus,
		Service:   "catalog-service",
		Checks:    checks,
		Timestamp: time.Now(),
	})
}

// Liveness обрабатывает GET /health/liveness
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.String(http.StatusOK, "alive")
}

func (h *HealthHandler) ratesStatus() string {
	if h.rates == nil {
		return "disabled"
	}
	if h.rates.Ready() {
		return "healthy"
	}
	if err := h.rates.LastError(); err != nil {
		return "warning: " + fetchFailureKind(err)
	}
	return "warning: not loaded yet"
}

// fetchFailureKind отдает наружу только вид ошибки загрузки курсов
// Текст ошибки может содержать тело ответа провайдера, он пишется только в лог
func fetchFailureKind(err error) string {
	var fetchErr *currency.FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Kind.String()
	}
	return "fetch_failed"
}
