// Package billing implements the billing gateway on top of the local
// repositories: invoice listing, payment registration, period generation and
// payment links.
package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/application/port"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/entity"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/workflow"
)

var (
	// ErrInvoiceCancelled is returned when paying or linking a cancelled invoice
	ErrInvoiceCancelled = errors.New("invoice is cancelled")

	// ErrInvoiceSettled is returned when paying or linking a paid invoice
	ErrInvoiceSettled = errors.New("invoice is already paid")

	// ErrInvalidPayment is returned for payments without amount or with an unknown method
	ErrInvalidPayment = errors.New("invalid payment")
)

// Config configures the gateway
type Config struct {
	// LinkBaseURL prefixes generated payment links: <base>/pay/<token>
	LinkBaseURL string
	// DueDay is the day of month new invoices fall due
	DueDay int
}

// Gateway implements port.BillingGateway against the local store
type Gateway struct {
	members  port.MemberRepository
	invoices port.InvoiceRepository
	links    port.PaymentLinkRepository
	tx       port.TransactionManager
	cfg      Config
	now      func() time.Time
	logger   *zap.Logger
}

// Option configures the gateway
type Option func(*Gateway)

// WithClock overrides the time source used for competency and overdue checks
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) {
		g.now = now
	}
}

// NewGateway creates a new gateway
func NewGateway(
	members port.MemberRepository,
	invoices port.InvoiceRepository,
	links port.PaymentLinkRepository,
	tx port.TransactionManager,
	cfg Config,
	logger *zap.Logger,
	opts ...Option,
) *Gateway {
	if cfg.DueDay < 1 || cfg.DueDay > 28 {
		cfg.DueDay = 10
	}
	cfg.LinkBaseURL = strings.TrimRight(cfg.LinkBaseURL, "/")

	g := &Gateway{
		members:  members,
		invoices: invoices,
		links:    links,
		tx:       tx,
		cfg:      cfg,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// FetchInvoices returns every invoice with member and payments
func (g *Gateway) FetchInvoices(ctx context.Context) ([]entity.Invoice, error) {
	invoices, err := g.invoices.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invoices: %w", err)
	}
	return invoices, nil
}

// RegisterPayment appends the payment and recomputes the invoice status
func (g *Gateway) RegisterPayment(ctx context.Context, req port.PaymentRequest) error {
	if req.AmountCents <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidPayment)
	}
	if !req.Method.IsValid() {
		return fmt.Errorf("%w: unknown method %q", ErrInvalidPayment, req.Method)
	}

	date := req.Date
	if date.IsZero() {
		date = g.now()
	}

	return g.tx.WithTransaction(ctx, func(ctx context.Context) error {
		invoice, err := g.invoices.GetByID(ctx, req.InvoiceID)
		if err != nil {
			return err
		}
		machine, err := payable(invoice)
		if err != nil {
			return err
		}

		payment := entity.Payment{
			AmountCents: req.AmountCents,
			Date:        date,
			Method:      req.Method,
			Note:        strings.TrimSpace(req.Note),
		}
		previous := invoice.Status
		invoice.Payments = append(invoice.Payments, payment)
		if err := machine.Fire(ctx, workflow.TriggerPay); err != nil {
			return err
		}

		if err := g.invoices.AddPayment(ctx, invoice.ID, &payment); err != nil {
			return err
		}
		if invoice.Status != previous {
			if err := g.invoices.UpdateStatus(ctx, invoice.ID, invoice.Status); err != nil {
				return err
			}
		}

		g.logger.Info("Payment registered",
			zap.Int64("invoice_id", invoice.ID),
			zap.Int64("amount_cents", payment.AmountCents),
			zap.String("method", string(payment.Method)),
			zap.String("status", string(invoice.Status)))
		return nil
	})
}

// GeneratePeriodInvoices creates one open invoice for the current competency
// for every active member that does not have one yet.
func (g *Gateway) GeneratePeriodInvoices(ctx context.Context) (*port.GenerationResult, error) {
	now := g.now()
	competency := now.Format("2006-01")
	dueDate := time.Date(now.Year(), now.Month(), g.cfg.DueDay, 0, 0, 0, 0, time.Local)

	result := &port.GenerationResult{Competency: competency}

	err := g.tx.WithTransaction(ctx, func(ctx context.Context) error {
		members, err := g.members.ListActive(ctx)
		if err != nil {
			return err
		}

		for _, member := range members {
			exists, err := g.invoices.ExistsForMember(ctx, member.ID, competency)
			if err != nil {
				return err
			}
			if exists {
				continue
			}

			invoice := &entity.Invoice{
				Member:      *member,
				DueDate:     dueDate,
				AmountCents: member.MonthlyFeeCents,
				Competency:  competency,
				Status:      entity.StatusOpen,
			}
			if err := g.invoices.Create(ctx, invoice); err != nil {
				return err
			}
			result.GeneratedCount++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate invoices for %s: %w", competency, err)
	}

	g.logger.Info("Period invoices generated",
		zap.String("competency", competency),
		zap.Int("count", result.GeneratedCount))
	return result, nil
}

// GeneratePaymentLink creates a checkout link for an unpaid invoice
func (g *Gateway) GeneratePaymentLink(ctx context.Context, invoiceID int64) (*entity.PaymentLink, error) {
	invoice, err := g.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if _, err := payable(invoice); err != nil {
		return nil, err
	}

	token := uuid.NewString()
	link := &entity.PaymentLink{
		InvoiceID: invoiceID,
		Token:     token,
		URL:       g.cfg.LinkBaseURL + "/pay/" + token,
		CreatedAt: g.now(),
	}
	if err := g.links.Create(ctx, link); err != nil {
		return nil, err
	}

	g.logger.Info("Payment link generated", zap.Int64("invoice_id", invoiceID))
	return link, nil
}

// MarkOverdue flags open invoices whose due day has passed
func (g *Gateway) MarkOverdue(ctx context.Context) (int64, error) {
	n, err := g.invoices.MarkOverdue(ctx, g.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		g.logger.Info("Invoices marked overdue", zap.Int64("count", n))
	}
	return n, nil
}

// payable returns the lifecycle machine of an invoice that still accepts payments
func payable(invoice *entity.Invoice) (workflow.StateMachine, error) {
	machine, err := workflow.InvoiceLifecycle().Build(invoice)
	if err != nil {
		return nil, err
	}
	if machine.CanFire(workflow.TriggerPay) {
		return machine, nil
	}
	if invoice.Status == entity.StatusCancelled {
		return nil, fmt.Errorf("%w: %d", ErrInvoiceCancelled, invoice.ID)
	}
	return nil, fmt.Errorf("%w: %d", ErrInvoiceSettled, invoice.ID)
}

// Verify interface compliance
var _ port.BillingGateway = (*Gateway)(nil)
