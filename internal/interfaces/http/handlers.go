package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/application/orchestrator"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/entity"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/export"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/infrastructure/billing"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/infrastructure/cache"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/view"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	deps   Deps
	logger Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(deps Deps, logger Logger) *Handlers {
	return &Handlers{
		deps:   deps,
		logger: logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string      `json:"status"`
	Timestamp  string      `json:"timestamp"`
	Components interface{} `json:"components,omitempty"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	healthy, components := true, interface{}(nil)
	if h.deps.Health != nil {
		healthy, components = h.deps.Health()
	}

	response := HealthResponse{
		Status:     "healthy",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Components: components,
	}
	status := http.StatusOK
	if !healthy {
		response.Status = "degraded"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, Response{
		Success: healthy,
		Data:    response,
	})
}

// ListNotifications handles GET /api/notifications?limit=N
func (h *Handlers) ListNotifications(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	notes := []entity.Notification{}
	if h.deps.Notifications != nil {
		notes = h.deps.Notifications.List(limit)
	}
	ok(c, notes)
}

// GetDashboard handles GET /api/dashboard
func (h *Handlers) GetDashboard(c *gin.Context) {
	h.serveCollection(c, entity.CacheKeyDashboardData)
}

// GetReports handles GET /api/reports
func (h *Handlers) GetReports(c *gin.Context) {
	h.serveCollection(c, entity.CacheKeyReportsData)
}

// GetProfile handles GET /api/members/:id/profile
func (h *Handlers) GetProfile(c *gin.Context) {
	id, okID := parseID(c, "id")
	if !okID {
		return
	}
	h.serveCollection(c, entity.StudentProfileKey(id))
}

func (h *Handlers) serveCollection(c *gin.Context, key string) {
	v, err := h.deps.Collections.Get(c.Request.Context(), key)
	if err != nil {
		h.fail(c, "Failed to load collection", err, "key", key)
		return
	}
	ok(c, v)
}

// loadInvoices reads the cached invoice collection
func (h *Handlers) loadInvoices(ctx context.Context) ([]entity.Invoice, error) {
	return cache.Invoices(ctx, h.deps.Collections)
}

// findInvoice looks an invoice up in the cached collection
func (h *Handlers) findInvoice(ctx context.Context, id int64) (*entity.Invoice, error) {
	invoices, err := h.loadInvoices(ctx)
	if err != nil {
		return nil, err
	}
	for i := range invoices {
		if invoices[i].ID == id {
			return &invoices[i], nil
		}
	}
	return nil, entity.ErrInvoiceNotFound
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, orchestrator.ErrPaymentInFlight),
		errors.Is(err, orchestrator.ErrGenerationInFlight),
		errors.Is(err, orchestrator.ErrLinkInFlight):
		return http.StatusConflict
	case errors.Is(err, entity.ErrInvoiceNotFound),
		errors.Is(err, entity.ErrMemberNotFound),
		errors.Is(err, view.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, billing.ErrInvoiceCancelled),
		errors.Is(err, billing.ErrInvoiceSettled),
		errors.Is(err, billing.ErrInvalidPayment):
		return http.StatusUnprocessableEntity
	case errors.Is(err, export.ErrUnknownFormat),
		errors.Is(err, cache.ErrNoLoader):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail logs err and writes the mapped error response
func (h *Handlers) fail(c *gin.Context, msg string, err error, keysAndValues ...interface{}) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(msg, append(keysAndValues, "error", err)...)
	} else {
		h.logger.Info(msg, append(keysAndValues, "error", err)...)
	}
	c.JSON(status, Response{
		Success: false,
		Error:   err.Error(),
	})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Error:   msg,
	})
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

func parseID(c *gin.Context, param string) (int64, bool) {
	raw := c.Param(param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid id "+strconv.Quote(raw))
		return 0, false
	}
	return id, true
}
