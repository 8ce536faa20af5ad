package event

// Type identifies the type of domain event
type Type string

const (
	TypePaymentRegistered     Type = "payment.registered"
	TypeInvoicesGenerated     Type = "invoices.generated"
	TypePaymentLinkGenerated  Type = "payment_link.generated"
	TypeMutationFailed        Type = "mutation.failed"
	TypeCollectionInvalidated Type = "collection.invalidated"
	TypeCollectionRefreshed   Type = "collection.refreshed"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypePaymentRegistered,
		TypeInvoicesGenerated,
		TypePaymentLinkGenerated,
		TypeMutationFailed,
		TypeCollectionInvalidated,
		TypeCollectionRefreshed:
		return true
	default:
		return false
	}
}
