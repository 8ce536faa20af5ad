package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/application/port"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/entity"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/export"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/view"
)

// ViewResponse is one page of the derived invoice list
type ViewResponse struct {
	Rows         []entity.Invoice `json:"rows"`
	TotalMatched int              `json:"total_matched"`
	Page         int              `json:"page"`
	PageCount    int              `json:"page_count"`
	PageSize     int              `json:"page_size"`
	Sort         string           `json:"sort"`
	Direction    string           `json:"direction"`
}

// PaymentBody is the payment entry form
type PaymentBody struct {
	AmountCents int64  `json:"amount_cents" binding:"required,gt=0"`
	Date        string `json:"date" binding:"required"`
	Method      string `json:"method" binding:"required"`
	Note        string `json:"note"`
}

// ListInvoices handles GET /api/invoices?status=&search=&from=&to=&sort=&dir=&page=
func (h *Handlers) ListInvoices(c *gin.Context) {
	var q view.Query
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "invalid query parameters")
		return
	}
	filters, sort, page, err := q.Parse()
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	invoices, err := h.loadInvoices(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to load invoices", err)
		return
	}

	result := view.Derive(invoices, filters, sort, page)
	if last := view.PageCount(result.TotalMatched); page > last && h.deps.ClampPolicy == view.ClampOnChange {
		page = last
		result = view.Derive(invoices, filters, sort, page)
	}
	ok(c, ViewResponse{
		Rows:         result.Visible,
		TotalMatched: result.TotalMatched,
		Page:         page,
		PageCount:    view.PageCount(result.TotalMatched),
		PageSize:     view.PageSize,
		Sort:         sort.Key,
		Direction:    sort.Direction.String(),
	})
}

// ExportInvoices handles GET /api/invoices/export?format=csv|xlsx plus the
// list filters. Paging is ignored: every matching row is exported.
func (h *Handlers) ExportInvoices(c *gin.Context) {
	var q view.Query
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "invalid query parameters")
		return
	}
	filters, sort, _, err := q.Parse()
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	invoices, err := h.loadInvoices(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to load invoices", err)
		return
	}

	h.writeExport(c, view.FilterAndSort(invoices, filters, sort))
}

func (h *Handlers) writeExport(c *gin.Context, sorted []entity.Invoice) {
	format, err := export.ParseFormat(c.DefaultQuery("format", string(export.FormatCSV)))
	if err != nil {
		h.fail(c, "Invalid export format", err)
		return
	}

	c.Header("Content-Type", format.ContentType())
	c.Header("Content-Disposition", `attachment; filename="`+format.FileName()+`"`)
	c.Status(http.StatusOK)
	if err := export.Write(c.Writer, format, sorted); err != nil {
		h.logger.Error("Failed to write export", "format", string(format), "error", err)
		_ = c.Error(err)
		return
	}
	h.logger.Info("Invoices exported", "format", string(format), "rows", len(sorted))
}

// GenerateInvoices handles POST /api/invoices/generate
func (h *Handlers) GenerateInvoices(c *gin.Context) {
	result, err := h.deps.Orchestrator.GeneratePeriodInvoices(c.Request.Context())
	if err != nil {
		h.fail(c, "Period generation failed", err)
		return
	}
	ok(c, result)
}

// SelectInvoice handles POST /api/invoices/:id/select
func (h *Handlers) SelectInvoice(c *gin.Context) {
	id, okID := parseID(c, "id")
	if !okID {
		return
	}
	h.deps.Orchestrator.SelectInvoice(id)
	ok(c, h.deps.Orchestrator.State())
}

// OpenPaymentForm handles POST /api/invoices/:id/payment-form
func (h *Handlers) OpenPaymentForm(c *gin.Context) {
	id, okID := parseID(c, "id")
	if !okID {
		return
	}
	invoice, err := h.findInvoice(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "Failed to open payment form", err, "invoice_id", id)
		return
	}
	h.deps.Orchestrator.OpenPaymentForm(invoice.ID, invoice.Member.ID)
	ok(c, h.deps.Orchestrator.State())
}

// ClosePaymentForm handles DELETE /api/payment-form
func (h *Handlers) ClosePaymentForm(c *gin.Context) {
	h.deps.Orchestrator.ClosePaymentForm()
	ok(c, h.deps.Orchestrator.State())
}

// RegisterPayment handles POST /api/invoices/:id/payments
func (h *Handlers) RegisterPayment(c *gin.Context) {
	id, okID := parseID(c, "id")
	if !okID {
		return
	}

	var body PaymentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid payment: "+err.Error())
		return
	}
	date, err := view.ParseDate(body.Date)
	if err != nil || date == nil {
		badRequest(c, "invalid payment date, expected YYYY-MM-DD")
		return
	}
	method, err := entity.ParsePaymentMethod(body.Method)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	invoice, err := h.findInvoice(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "Failed to resolve invoice", err, "invoice_id", id)
		return
	}

	req := port.PaymentRequest{
		InvoiceID:   id,
		MemberID:    invoice.Member.ID,
		AmountCents: body.AmountCents,
		Date:        *date,
		Method:      method,
		Note:        strings.TrimSpace(body.Note),
	}
	if err := h.deps.Orchestrator.RegisterPayment(c.Request.Context(), req); err != nil {
		h.fail(c, "Payment registration failed", err, "invoice_id", id)
		return
	}
	ok(c, h.deps.Orchestrator.State())
}

// GeneratePaymentLink handles POST /api/invoices/:id/payment-link
func (h *Handlers) GeneratePaymentLink(c *gin.Context) {
	id, okID := parseID(c, "id")
	if !okID {
		return
	}
	link, err := h.deps.Orchestrator.GeneratePaymentLink(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "Payment link generation failed", err, "invoice_id", id)
		return
	}
	ok(c, link)
}

// CloseLinkView handles DELETE /api/invoices/:id/payment-link
func (h *Handlers) CloseLinkView(c *gin.Context) {
	id, okID := parseID(c, "id")
	if !okID {
		return
	}
	h.deps.Orchestrator.CloseLinkView(id)
	ok(c, h.deps.Orchestrator.State())
}

// GetState handles GET /api/state
func (h *Handlers) GetState(c *gin.Context) {
	ok(c, h.deps.Orchestrator.State())
}
