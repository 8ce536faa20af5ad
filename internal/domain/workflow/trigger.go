package workflow

// Trigger represents an event that can cause a state transition
type Trigger string

const (
	// TriggerPay fires after a payment was appended to the invoice
	TriggerPay Trigger = "PAY"
	// TriggerMarkOverdue fires when the due date of an open invoice has passed
	TriggerMarkOverdue Trigger = "MARK_OVERDUE"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
