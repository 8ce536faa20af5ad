package port

import (
	"context"
	"time"

	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/entity"
)

// PaymentRequest carries the fields of the payment entry form. MemberID is
// the owner of the invoice and selects the profile cache entry to invalidate.
type PaymentRequest struct {
	InvoiceID   int64                `json:"invoice_id"`
	MemberID    int64                `json:"member_id"`
	AmountCents int64                `json:"amount_cents"`
	Date        time.Time            `json:"date"`
	Method      entity.PaymentMethod `json:"method"`
	Note        string               `json:"note,omitempty"`
}

// GenerationResult reports the outcome of a bulk period generation
type GenerationResult struct {
	GeneratedCount int    `json:"generated_count"`
	Competency     string `json:"competency"`
}

// BillingGateway is the remote billing service. Every call may fail with a
// transport, authorization or validation error.
type BillingGateway interface {
	FetchInvoices(ctx context.Context) ([]entity.Invoice, error)
	RegisterPayment(ctx context.Context, req PaymentRequest) error
	GeneratePeriodInvoices(ctx context.Context) (*GenerationResult, error)
	GeneratePaymentLink(ctx context.Context, invoiceID int64) (*entity.PaymentLink, error)
}

// CacheStore holds previously fetched collections by key
type CacheStore interface {
	// Invalidate marks the collection stale and triggers a background refetch
	Invalidate(ctx context.Context, key string)
}

// Notifier delivers user-visible feedback. Notify must not block.
type Notifier interface {
	Notify(message string, severity entity.Severity)
}
