// Package export flattens the filtered and sorted invoice collection into
// tabular records and serializes them as CSV or XLSX.
package export

import (
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/entity"
)

// DateLayout is the day/month/year layout used for every exported date
const DateLayout = "02/01/2006"

// Header is the column row written before the records
var Header = []string{
	"Aluno",
	"Email",
	"CPF",
	"Competência",
	"Vencimento",
	"Valor",
	"Status",
	"Valor Pago",
	"Data Último Pagamento",
	"Método Último Pagamento",
}

// FlatRecord is one exported invoice
type FlatRecord struct {
	MemberName        string
	MemberEmail       string
	MemberTaxID       string
	Competency        string
	DueDate           string
	Amount            string
	Status            string
	AmountPaid        string
	LastPaymentDate   string
	LastPaymentMethod string
}

// Values returns the record in Header order
func (r FlatRecord) Values() []string {
	return []string{
		r.MemberName,
		r.MemberEmail,
		r.MemberTaxID,
		r.Competency,
		r.DueDate,
		r.Amount,
		r.Status,
		r.AmountPaid,
		r.LastPaymentDate,
		r.LastPaymentMethod,
	}
}

// Project maps the filtered and sorted (not paginated) collection to one
// record per invoice, preserving order.
func Project(sorted []entity.Invoice) []FlatRecord {
	records := make([]FlatRecord, 0, len(sorted))
	for i := range sorted {
		records = append(records, project(&sorted[i]))
	}
	return records
}

func project(inv *entity.Invoice) FlatRecord {
	rec := FlatRecord{
		MemberName:  inv.Member.Name,
		MemberEmail: inv.Member.Email,
		MemberTaxID: inv.Member.TaxID,
		Competency:  inv.Competency,
		Amount:      entity.FormatCents(inv.AmountCents),
		Status:      inv.Status.Label(),
		AmountPaid:  entity.FormatCents(inv.AmountPaidCents()),
	}
	if !inv.DueDate.IsZero() {
		rec.DueDate = inv.DueDate.Format(DateLayout)
	}
	if last := inv.LastPayment(); last != nil {
		if !last.Date.IsZero() {
			rec.LastPaymentDate = last.Date.Format(DateLayout)
		}
		rec.LastPaymentMethod = last.Method.Label()
	}
	return rec
}
