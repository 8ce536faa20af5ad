package view

import (
	"strings"
	"time"

	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/entity"
)

// Direction is the sort direction
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// ParseDirection accepts "asc" or "desc"; anything else is ascending
func ParseDirection(raw string) Direction {
	if strings.EqualFold(strings.TrimSpace(raw), "desc") {
		return Descending
	}
	return Ascending
}

// Sort keys understood by the pipeline. Dotted paths address nested values.
const (
	KeyID             = "id"
	KeyDueDate        = "dueDate"
	KeyAmount         = "amount"
	KeyCompetency     = "competency"
	KeyStatus         = "status"
	KeyAmountPaid     = "amountPaid"
	KeyMemberName     = "member.name"
	KeyMemberEmail    = "member.email"
	KeyMemberTaxID    = "member.taxId"
	KeyMemberID       = "member.id"
	KeyPaymentsLength = "payments.length"
)

// SortSpec is a key path plus a direction
type SortSpec struct {
	Key       string
	Direction Direction
}

// DefaultSort orders by due date, newest first
func DefaultSort() SortSpec {
	return SortSpec{Key: KeyDueDate, Direction: Descending}
}

// Request returns the sort after a "sort on column" action: the same key
// toggles direction, a different key switches to it ascending.
func (s SortSpec) Request(key string) SortSpec {
	if key == s.Key {
		if s.Direction == Ascending {
			s.Direction = Descending
		} else {
			s.Direction = Ascending
		}
		return s
	}
	return SortSpec{Key: key, Direction: Ascending}
}

func (s SortSpec) String() string {
	return s.Key + ":" + s.Direction.String()
}

type valueKind int

const (
	kindMissing valueKind = iota
	kindString
	kindNumber
	kindTime
)

type sortValue struct {
	kind valueKind
	str  string
	num  int64
	when time.Time
}

func stringValue(s string) sortValue { return sortValue{kind: kindString, str: s} }

func numberValue(n int64) sortValue { return sortValue{kind: kindNumber, num: n} }

func timeValue(t time.Time) sortValue {
	if t.IsZero() {
		return sortValue{}
	}
	return sortValue{kind: kindTime, when: t}
}

// compare orders missing values first, then by the natural order of the kind
func (a sortValue) compare(b sortValue) int {
	if a.kind != b.kind {
		return int(a.kind) - int(b.kind)
	}
	switch a.kind {
	case kindString:
		return strings.Compare(a.str, b.str)
	case kindNumber:
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		}
		return 0
	case kindTime:
		return a.when.Compare(b.when)
	default:
		return 0
	}
}

var invoiceFields = map[string]func(*entity.Invoice) sortValue{
	"id":         func(i *entity.Invoice) sortValue { return numberValue(i.ID) },
	"dueDate":    func(i *entity.Invoice) sortValue { return timeValue(i.DueDate) },
	"amount":     func(i *entity.Invoice) sortValue { return numberValue(i.AmountCents) },
	"competency": func(i *entity.Invoice) sortValue { return stringValue(i.Competency) },
	"status":     func(i *entity.Invoice) sortValue { return stringValue(string(i.Status)) },
	"amountPaid": func(i *entity.Invoice) sortValue { return numberValue(i.AmountPaidCents()) },
	"createdAt":  func(i *entity.Invoice) sortValue { return timeValue(i.CreatedAt) },
}

var memberFields = map[string]func(*entity.Member) sortValue{
	"id":    func(m *entity.Member) sortValue { return numberValue(m.ID) },
	"name":  func(m *entity.Member) sortValue { return stringValue(m.Name) },
	"email": func(m *entity.Member) sortValue { return stringValue(m.Email) },
	"taxId": func(m *entity.Member) sortValue { return stringValue(m.TaxID) },
}

var paymentFields = map[string]func(*entity.Payment) sortValue{
	"amount": func(p *entity.Payment) sortValue { return numberValue(p.AmountCents) },
	"date":   func(p *entity.Payment) sortValue { return timeValue(p.Date) },
	"method": func(p *entity.Payment) sortValue { return stringValue(string(p.Method)) },
}

// keyAliases maps the JSON field names onto the canonical key paths
var keyAliases = map[string]string{
	"due_date":      KeyDueDate,
	"amount_cents":  KeyAmount,
	"amount_paid":   KeyAmountPaid,
	"member.tax_id": KeyMemberTaxID,
	"created_at":    "createdAt",
}

// CanonicalKey resolves aliases; unknown keys are returned unchanged
func CanonicalKey(key string) string {
	if alias, ok := keyAliases[key]; ok {
		return alias
	}
	return key
}

// IsSortKey reports whether the key path resolves on the invoice shape
func IsSortKey(key string) bool {
	_, ok := resolver(CanonicalKey(key))
	return ok
}

// resolver returns the accessor for a key path
func resolver(path string) (func(*entity.Invoice) sortValue, bool) {
	head, rest, nested := strings.Cut(path, ".")
	if !nested {
		f, ok := invoiceFields[head]
		return f, ok
	}

	switch head {
	case "member":
		f, ok := memberFields[rest]
		if !ok {
			return nil, false
		}
		return func(i *entity.Invoice) sortValue { return f(&i.Member) }, true
	case "payments":
		if rest != "length" {
			return nil, false
		}
		return func(i *entity.Invoice) sortValue { return numberValue(int64(len(i.Payments))) }, true
	case "lastPayment":
		f, ok := paymentFields[rest]
		if !ok {
			return nil, false
		}
		return func(i *entity.Invoice) sortValue {
			p := i.LastPayment()
			if p == nil {
				return sortValue{}
			}
			return f(p)
		}, true
	}
	return nil, false
}
