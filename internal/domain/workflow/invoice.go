package workflow

import (
	"context"
	"sync"

	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/entity"
)

var (
	lifecycleOnce sync.Once
	lifecycle     StateMachineBuilder
)

// InvoiceLifecycle returns the builder of the invoice status lifecycle:
//
//	OPEN           --PAY--> PAID | PARTIALLY_PAID
//	OPEN           --MARK_OVERDUE--> OVERDUE
//	OVERDUE        --PAY--> PAID | PARTIALLY_PAID
//	PARTIALLY_PAID --PAY--> PAID | PARTIALLY_PAID
//
// PAID and CANCELLED are terminal.
func InvoiceLifecycle() StateMachineBuilder {
	lifecycleOnce.Do(func() {
		b := NewBuilder()
		for _, from := range []State{entity.StatusOpen, entity.StatusOverdue, entity.StatusPartiallyPaid} {
			b.Configure(from).
				PermitIf(TriggerPay, entity.StatusPaid, FullyPaid).
				PermitIf(TriggerPay, entity.StatusPartiallyPaid, PartlyPaid)
		}
		b.Configure(entity.StatusOpen).Permit(TriggerMarkOverdue, entity.StatusOverdue)
		lifecycle = b
	})
	return lifecycle
}

// FullyPaid passes when the payments cover a positive amount
func FullyPaid(_ context.Context, inv *entity.Invoice) bool {
	return inv.AmountCents > 0 && inv.AmountPaidCents() >= inv.AmountCents
}

// PartlyPaid passes when something was paid
func PartlyPaid(_ context.Context, inv *entity.Invoice) bool {
	return inv.AmountPaidCents() > 0
}
