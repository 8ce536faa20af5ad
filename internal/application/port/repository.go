package port

import (
	"context"
	"time"

	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/entity"
)

// MemberRepository defines persistence operations for Member
type MemberRepository interface {
	Create(ctx context.Context, member *entity.Member) error
	GetByID(ctx context.Context, id int64) (*entity.Member, error)
	ListActive(ctx context.Context) ([]*entity.Member, error)
}

// InvoiceRepository defines persistence operations for Invoice and its payments
type InvoiceRepository interface {
	// Create creates a new invoice record (payments are ignored)
	Create(ctx context.Context, invoice *entity.Invoice) error

	// GetByID retrieves an invoice with its member and payments
	GetByID(ctx context.Context, id int64) (*entity.Invoice, error)

	// List retrieves every invoice with member and payments, ordered by id
	List(ctx context.Context) ([]entity.Invoice, error)

	// ExistsForMember reports whether the member already has an invoice for the competency
	ExistsForMember(ctx context.Context, memberID int64, competency string) (bool, error)

	// AddPayment appends a payment to the invoice
	AddPayment(ctx context.Context, invoiceID int64, payment *entity.Payment) error

	// UpdateStatus updates the invoice status
	UpdateStatus(ctx context.Context, id int64, status entity.InvoiceStatus) error

	// MarkOverdue flags open invoices due before the cutoff as overdue
	MarkOverdue(ctx context.Context, cutoff time.Time) (int64, error)
}

// PaymentLinkRepository defines persistence operations for PaymentLink
type PaymentLinkRepository interface {
	Create(ctx context.Context, link *entity.PaymentLink) error
	GetByToken(ctx context.Context, token string) (*entity.PaymentLink, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
