package orchestrator

import "errors"

var (
	// ErrPaymentInFlight is returned when a payment is submitted while another is pending
	ErrPaymentInFlight = errors.New("payment registration already in progress")

	// ErrGenerationInFlight is returned when period generation is re-entered
	ErrGenerationInFlight = errors.New("invoice generation already in progress")

	// ErrLinkInFlight is returned when a link is requested for an invoice whose request is pending
	ErrLinkInFlight = errors.New("payment link generation already in progress for invoice")

	// ErrPaymentFailed wraps gateway failures of payment registration
	ErrPaymentFailed = errors.New("payment registration failed")

	// ErrGenerationFailed wraps gateway failures of period generation
	ErrGenerationFailed = errors.New("invoice generation failed")

	// ErrLinkFailed wraps gateway failures of payment link generation
	ErrLinkFailed = errors.New("payment link generation failed")
)
