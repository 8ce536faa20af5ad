package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoice_AmountPaidCents(t *testing.T) {
	inv := Invoice{AmountCents: 10000}
	assert.Equal(t, int64(0), inv.AmountPaidCents())

	inv.Payments = append(inv.Payments, Payment{AmountCents: 5000})
	assert.Equal(t, int64(5000), inv.AmountPaidCents())

	inv.Payments = append(inv.Payments, Payment{AmountCents: 2550})
	assert.Equal(t, int64(7550), inv.AmountPaidCents())
}

func TestInvoice_LastPayment(t *testing.T) {
	t.Run("nil without payments", func(t *testing.T) {
		inv := Invoice{}
		assert.Nil(t, inv.LastPayment())
	})

	t.Run("last in stored order, not by date", func(t *testing.T) {
		later := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
		earlier := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		inv := Invoice{Payments: []Payment{
			{ID: 1, Date: later, Method: MethodPix},
			{ID: 2, Date: earlier, Method: MethodCash},
		}}

		last := inv.LastPayment()
		require.NotNil(t, last)
		assert.Equal(t, int64(2), last.ID)
		assert.Equal(t, MethodCash, last.Method)
	})
}

func TestInvoice_SettledStatus(t *testing.T) {
	tests := []struct {
		name     string
		invoice  Invoice
		expected InvoiceStatus
	}{
		{
			name:     "no payments stays open",
			invoice:  Invoice{AmountCents: 10000, Status: StatusOpen},
			expected: StatusOpen,
		},
		{
			name:     "overdue without payments stays overdue",
			invoice:  Invoice{AmountCents: 10000, Status: StatusOverdue},
			expected: StatusOverdue,
		},
		{
			name: "partial payment",
			invoice: Invoice{AmountCents: 10000, Status: StatusOverdue,
				Payments: []Payment{{AmountCents: 5000}}},
			expected: StatusPartiallyPaid,
		},
		{
			name: "exact payment",
			invoice: Invoice{AmountCents: 10000, Status: StatusPartiallyPaid,
				Payments: []Payment{{AmountCents: 5000}, {AmountCents: 5000}}},
			expected: StatusPaid,
		},
		{
			name: "overpayment is paid",
			invoice: Invoice{AmountCents: 10000, Status: StatusOpen,
				Payments: []Payment{{AmountCents: 12000}}},
			expected: StatusPaid,
		},
		{
			name: "cancelled stays cancelled",
			invoice: Invoice{AmountCents: 10000, Status: StatusCancelled,
				Payments: []Payment{{AmountCents: 12000}}},
			expected: StatusCancelled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.invoice.SettledStatus())
		})
	}
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "0.00", FormatCents(0))
	assert.Equal(t, "0.05", FormatCents(5))
	assert.Equal(t, "123.45", FormatCents(12345))
	assert.Equal(t, "-10.50", FormatCents(-1050))
}

func TestParseInvoiceStatus(t *testing.T) {
	s, err := ParseInvoiceStatus("partially_paid")
	require.NoError(t, err)
	assert.Equal(t, StatusPartiallyPaid, s)

	_, err = ParseInvoiceStatus("refunded")
	assert.Error(t, err)

	for _, st := range AllInvoiceStatuses() {
		assert.True(t, st.IsValid(), st)
	}
}

func TestParsePaymentMethod(t *testing.T) {
	m, err := ParsePaymentMethod(" PIX ")
	require.NoError(t, err)
	assert.Equal(t, MethodPix, m)

	_, err = ParsePaymentMethod("cheque")
	assert.Error(t, err)
}

func TestRole_IsPrivileged(t *testing.T) {
	assert.True(t, RoleAdmin.IsPrivileged())
	assert.True(t, RoleFinance.IsPrivileged())
	assert.False(t, RoleInstructor.IsPrivileged())
	assert.False(t, RoleMember.IsPrivileged())
	assert.False(t, Role("").IsPrivileged())
}

func TestStudentProfileKey(t *testing.T) {
	assert.Equal(t, "studentProfile:42", StudentProfileKey(42))
}
