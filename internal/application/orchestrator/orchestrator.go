// Package orchestrator runs the write operations of the billing console:
// payment registration, period invoice generation and payment links. It
// tracks their pending state, settles the form and link views and fans out
// cache invalidations.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/application/dispatcher"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/application/port"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/entity"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/event"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/notification"
)

// Mutation names used in logs and mutation.failed events
const (
	MutationPayment    = "payment"
	MutationGeneration = "generation"
	MutationLink       = "payment_link"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Orchestrator defines the mutation operations and their observable state
type Orchestrator interface {
	// OpenPaymentForm selects the invoice and opens an empty payment form for it
	OpenPaymentForm(invoiceID, memberID int64)
	ClosePaymentForm()
	SelectInvoice(invoiceID int64)

	// RegisterPayment submits the payment form. Only one submission may be pending.
	RegisterPayment(ctx context.Context, req port.PaymentRequest) error

	// GeneratePeriodInvoices creates the invoices of the current period. Not re-entrant.
	GeneratePeriodInvoices(ctx context.Context) (*port.GenerationResult, error)

	// GeneratePaymentLink requests a link for one invoice. Requests for
	// different invoices may be pending at the same time.
	GeneratePaymentLink(ctx context.Context, invoiceID int64) (*entity.PaymentLink, error)
	CloseLinkView(invoiceID int64)

	PaymentPending() bool
	GenerationPending() bool
	LinkPending(invoiceID int64) bool
	State() State
}

// Option configures the orchestrator
type Option func(*orchestratorImpl)

// WithPublisher publishes mutation events through the dispatcher
func WithPublisher(p dispatcher.Publisher) Option {
	return func(o *orchestratorImpl) {
		o.publisher = p
	}
}

// WithLogger sets the logger
func WithLogger(l Logger) Option {
	return func(o *orchestratorImpl) {
		o.logger = l
	}
}

// WithMessages replaces the notification texts
func WithMessages(m *notification.Messages) Option {
	return func(o *orchestratorImpl) {
		o.messages = m
	}
}

type orchestratorImpl struct {
	gateway   port.BillingGateway
	cache     port.CacheStore
	notifier  port.Notifier
	publisher dispatcher.Publisher
	messages  *notification.Messages
	logger    Logger

	mu    sync.Mutex
	state pendingState
}

// NewOrchestrator creates a new Orchestrator
func NewOrchestrator(gateway port.BillingGateway, cache port.CacheStore, notifier port.Notifier, opts ...Option) Orchestrator {
	o := &orchestratorImpl{
		gateway:  gateway,
		cache:    cache,
		notifier: notifier,
		messages: notification.NewMessages(),
		logger:   noopLogger{},
		state:    newPendingState(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// PaymentInvalidationKeys returns the collections made stale by a payment
func PaymentInvalidationKeys(memberID int64) []string {
	return []string{
		entity.CacheKeyInvoices,
		entity.CacheKeyDashboardData,
		entity.CacheKeyReportsData,
		entity.CacheKeyNotificationHistory,
		entity.StudentProfileKey(memberID),
	}
}

// GenerationInvalidationKeys returns the collections made stale by period generation
func GenerationInvalidationKeys() []string {
	return []string{entity.CacheKeyInvoices}
}

func (o *orchestratorImpl) OpenPaymentForm(invoiceID, memberID int64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.selected = invoiceID
	o.state.form = PaymentForm{
		Open:  true,
		Draft: port.PaymentRequest{InvoiceID: invoiceID, MemberID: memberID},
	}
}

func (o *orchestratorImpl) ClosePaymentForm() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.form = PaymentForm{}
}

func (o *orchestratorImpl) SelectInvoice(invoiceID int64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.selected = invoiceID
}

func (o *orchestratorImpl) RegisterPayment(ctx context.Context, req port.PaymentRequest) error {
	o.mu.Lock()
	if o.state.paymentPending {
		o.mu.Unlock()
		return ErrPaymentInFlight
	}
	o.state.paymentPending = true
	o.state.form = PaymentForm{Open: true, Draft: req}
	o.mu.Unlock()

	err := o.gateway.RegisterPayment(ctx, req)

	o.mu.Lock()
	o.state.paymentPending = false
	if err == nil {
		o.state.form = PaymentForm{}
		o.state.selected = 0
	}
	o.mu.Unlock()

	if err != nil {
		o.logger.Error("Failed to register payment",
			"invoice_id", req.InvoiceID,
			"error", err)
		o.notifier.Notify(o.messages.PaymentFailed(), entity.SeverityError)
		o.publishFailure(ctx, MutationPayment, req.InvoiceID, err)
		return fmt.Errorf("%w: %w", ErrPaymentFailed, err)
	}

	o.invalidate(ctx, PaymentInvalidationKeys(req.MemberID))
	o.notifier.Notify(o.messages.PaymentRegistered(req.AmountCents), entity.SeveritySuccess)
	o.publish(ctx, event.NewEvent(event.TypePaymentRegistered, req.InvoiceID, map[string]interface{}{
		event.KeyMemberID: req.MemberID,
	}))

	o.logger.Info("Payment registered",
		"invoice_id", req.InvoiceID,
		"amount_cents", req.AmountCents,
		"method", string(req.Method))
	return nil
}

func (o *orchestratorImpl) GeneratePeriodInvoices(ctx context.Context) (*port.GenerationResult, error) {
	o.mu.Lock()
	if o.state.generationPending {
		o.mu.Unlock()
		return nil, ErrGenerationInFlight
	}
	o.state.generationPending = true
	o.mu.Unlock()

	res, err := o.gateway.GeneratePeriodInvoices(ctx)
	if err == nil && res == nil {
		err = errors.New("empty generation result")
	}

	o.mu.Lock()
	o.state.generationPending = false
	if err == nil {
		settled := *res
		o.state.lastGeneration = &settled
	}
	o.mu.Unlock()

	if err != nil {
		o.logger.Error("Failed to generate period invoices", "error", err)
		o.notifier.Notify(o.messages.GenerationFailed(), entity.SeverityError)
		o.publishFailure(ctx, MutationGeneration, 0, err)
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	o.invalidate(ctx, GenerationInvalidationKeys())
	if res.GeneratedCount == 0 {
		o.notifier.Notify(o.messages.NoInvoicesNeeded(), entity.SeverityInfo)
	} else {
		o.notifier.Notify(o.messages.InvoicesGenerated(res.GeneratedCount, res.Competency), entity.SeveritySuccess)
	}
	o.publish(ctx, event.NewEvent(event.TypeInvoicesGenerated, 0, map[string]interface{}{
		event.KeyCount: int64(res.GeneratedCount),
	}))

	o.logger.Info("Period invoices generated",
		"count", res.GeneratedCount,
		"competency", res.Competency)
	return res, nil
}

func (o *orchestratorImpl) GeneratePaymentLink(ctx context.Context, invoiceID int64) (*entity.PaymentLink, error) {
	o.mu.Lock()
	if _, busy := o.state.linkPending[invoiceID]; busy {
		o.mu.Unlock()
		return nil, fmt.Errorf("%w %d", ErrLinkInFlight, invoiceID)
	}
	o.state.linkPending[invoiceID] = struct{}{}
	o.mu.Unlock()

	link, err := o.gateway.GeneratePaymentLink(ctx, invoiceID)
	if err == nil && link == nil {
		err = errors.New("empty payment link")
	}

	// Settle against the id this request was made for, never a shared target.
	o.mu.Lock()
	delete(o.state.linkPending, invoiceID)
	if err != nil {
		delete(o.state.linkViews, invoiceID)
	} else {
		if link.InvoiceID == 0 {
			link.InvoiceID = invoiceID
		}
		o.state.linkViews[invoiceID] = *link
	}
	o.mu.Unlock()

	if err != nil {
		o.logger.Error("Failed to generate payment link",
			"invoice_id", invoiceID,
			"error", err)
		o.notifier.Notify(o.messages.PaymentLinkFailed(err.Error()), entity.SeverityError)
		o.publishFailure(ctx, MutationLink, invoiceID, err)
		return nil, fmt.Errorf("%w: %w", ErrLinkFailed, err)
	}

	o.notifier.Notify(o.messages.PaymentLinkGenerated(), entity.SeveritySuccess)
	o.publish(ctx, event.NewEvent(event.TypePaymentLinkGenerated, invoiceID, map[string]interface{}{
		event.KeyLink: link.URL,
	}))

	o.logger.Info("Payment link generated", "invoice_id", invoiceID)
	return link, nil
}

func (o *orchestratorImpl) CloseLinkView(invoiceID int64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.state.linkViews, invoiceID)
}

func (o *orchestratorImpl) PaymentPending() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.paymentPending
}

func (o *orchestratorImpl) GenerationPending() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.generationPending
}

func (o *orchestratorImpl) LinkPending(invoiceID int64) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.state.linkPending[invoiceID]
	return ok
}

func (o *orchestratorImpl) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.snapshot()
}

func (o *orchestratorImpl) invalidate(ctx context.Context, keys []string) {
	for _, key := range keys {
		o.cache.Invalidate(ctx, key)
	}
}

func (o *orchestratorImpl) publish(ctx context.Context, evt *event.Event) {
	if o.publisher == nil {
		return
	}
	o.publisher.DispatchAsync(context.WithoutCancel(ctx), evt)
}

func (o *orchestratorImpl) publishFailure(ctx context.Context, mutation string, invoiceID int64, err error) {
	o.publish(ctx, event.NewEvent(event.TypeMutationFailed, invoiceID, map[string]interface{}{
		event.KeyMutation: mutation,
		event.KeyError:    err.Error(),
	}))
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
