package entity

import (
	"fmt"
	"strings"
)

// InvoiceStatus is the closed set of invoice states reported by the billing service
type InvoiceStatus string

const (
	StatusOpen          InvoiceStatus = "OPEN"
	StatusPaid          InvoiceStatus = "PAID"
	StatusOverdue       InvoiceStatus = "OVERDUE"
	StatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	StatusCancelled     InvoiceStatus = "CANCELLED"
)

// AllInvoiceStatuses returns every status in display order
func AllInvoiceStatuses() []InvoiceStatus {
	return []InvoiceStatus{
		StatusOpen,
		StatusPaid,
		StatusOverdue,
		StatusPartiallyPaid,
		StatusCancelled,
	}
}

// String returns the string representation of the status
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsValid checks if the status is one of the defined constants
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case StatusOpen,
		StatusPaid,
		StatusOverdue,
		StatusPartiallyPaid,
		StatusCancelled:
		return true
	default:
		return false
	}
}

// Label returns the pt-BR label shown to users and written to exports
func (s InvoiceStatus) Label() string {
	switch s {
	case StatusOpen:
		return "Em aberto"
	case StatusPaid:
		return "Paga"
	case StatusOverdue:
		return "Vencida"
	case StatusPartiallyPaid:
		return "Parcialmente paga"
	case StatusCancelled:
		return "Cancelada"
	default:
		return string(s)
	}
}

// ParseInvoiceStatus parses a status case-insensitively
func ParseInvoiceStatus(raw string) (InvoiceStatus, error) {
	s := InvoiceStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", fmt.Errorf("unknown invoice status %q", raw)
	}
	return s, nil
}

// PaymentMethod is the closed set of accepted remittance methods
type PaymentMethod string

const (
	MethodCash     PaymentMethod = "cash"
	MethodCard     PaymentMethod = "card"
	MethodTransfer PaymentMethod = "transfer"
	MethodPix      PaymentMethod = "pix"
)

// IsValid checks if the method is one of the defined constants
func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodCash, MethodCard, MethodTransfer, MethodPix:
		return true
	default:
		return false
	}
}

// Label returns the pt-BR label for the method
func (m PaymentMethod) Label() string {
	switch m {
	case MethodCash:
		return "Dinheiro"
	case MethodCard:
		return "Cartão"
	case MethodTransfer:
		return "Transferência"
	case MethodPix:
		return "PIX"
	default:
		return string(m)
	}
}

// ParsePaymentMethod parses a method case-insensitively
func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(raw)))
	if !m.IsValid() {
		return "", fmt.Errorf("unknown payment method %q", raw)
	}
	return m, nil
}

// Role is the role of the current user
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleFinance    Role = "financeiro"
	RoleInstructor Role = "instrutor"
	RoleMember     Role = "aluno"
)

// IsPrivileged reports whether the role may run bulk generation and exports
func (r Role) IsPrivileged() bool {
	return r == RoleAdmin || r == RoleFinance
}

// Cache keys for collections held by the client cache
const (
	CacheKeyInvoices             = "invoices"
	CacheKeyDashboardData        = "dashboardData"
	CacheKeyReportsData          = "reportsData"
	CacheKeyNotificationHistory  = "notificationHistory"
	CacheKeyStudentProfilePrefix = "studentProfile:"
)

// StudentProfileKey returns the cache key of a member's profile
func StudentProfileKey(memberID int64) string {
	return fmt.Sprintf("%s%d", CacheKeyStudentProfilePrefix, memberID)
}
