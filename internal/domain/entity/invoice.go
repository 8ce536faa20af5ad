package entity

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvoiceNotFound is returned when an invoice id does not exist
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrMemberNotFound is returned when a member id does not exist
	ErrMemberNotFound = errors.New("member not found")
)

// Member is the owner of an invoice. It is owned by the member registry and
// treated as read-only by billing.
type Member struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	TaxID  string `json:"tax_id"` // CPF
	Active bool   `json:"active"`

	// MonthlyFeeCents is the amount billed per competency period
	MonthlyFeeCents int64 `json:"monthly_fee_cents,omitempty"`
}

// Payment is a single remittance applied against an invoice.
// Payments are owned by their invoice and never referenced elsewhere.
type Payment struct {
	ID          int64         `json:"id"`
	AmountCents int64         `json:"amount_cents"`
	Date        time.Time     `json:"date"`
	Method      PaymentMethod `json:"method"`
	Note        string        `json:"note,omitempty"`
}

// Invoice is a billable record for one member covering one competency period.
type Invoice struct {
	ID          int64         `json:"id"`
	Member      Member        `json:"member"`
	DueDate     time.Time     `json:"due_date"`
	AmountCents int64         `json:"amount_cents"`
	Competency  string        `json:"competency"` // YYYY-MM
	Status      InvoiceStatus `json:"status"`

	// Payments are append-only, in insertion order.
	Payments []Payment `json:"payments"`

	CreatedAt time.Time `json:"created_at"`
}

// AmountPaidCents returns the sum of all payments. It is always derived from
// Payments and never stored.
func (i *Invoice) AmountPaidCents() int64 {
	var total int64
	for _, p := range i.Payments {
		total += p.AmountCents
	}
	return total
}

// LastPayment returns the last payment in stored order, or nil if there is none.
func (i *Invoice) LastPayment() *Payment {
	if len(i.Payments) == 0 {
		return nil
	}
	return &i.Payments[len(i.Payments)-1]
}

// SettledStatus returns the status implied by the payments sequence.
// Cancelled invoices stay cancelled; overdue invoices without payments stay overdue.
func (i *Invoice) SettledStatus() InvoiceStatus {
	if i.Status == StatusCancelled {
		return StatusCancelled
	}
	paid := i.AmountPaidCents()
	switch {
	case paid >= i.AmountCents && i.AmountCents > 0:
		return StatusPaid
	case paid > 0:
		return StatusPartiallyPaid
	case i.Status == StatusOverdue:
		return StatusOverdue
	default:
		return StatusOpen
	}
}

// FormatCents renders an amount in cents with two decimals and a dot separator,
// e.g. 12345 -> "123.45".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
