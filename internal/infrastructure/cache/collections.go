package cache

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/application/port"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/entity"
)

// DashboardData summarizes the invoice collection
type DashboardData struct {
	Total            int                          `json:"total"`
	ByStatus         map[entity.InvoiceStatus]int `json:"by_status"`
	BilledCents      int64                        `json:"billed_cents"`
	ReceivedCents    int64                        `json:"received_cents"`
	OutstandingCents int64                        `json:"outstanding_cents"`
}

// ReportRow aggregates one competency period
type ReportRow struct {
	Competency    string `json:"competency"`
	Invoices      int    `json:"invoices"`
	BilledCents   int64  `json:"billed_cents"`
	ReceivedCents int64  `json:"received_cents"`
}

// StudentProfile is the billing view of one member
type StudentProfile struct {
	MemberID         int64            `json:"member_id"`
	Invoices         []entity.Invoice `json:"invoices"`
	OutstandingCents int64            `json:"outstanding_cents"`
}

// NotificationSource lists recent notifications
type NotificationSource interface {
	List(limit int) []entity.Notification
}

// RegisterBillingCollections wires the loaders of every collection the
// console caches. feed may be nil.
func RegisterBillingCollections(s *Store, gateway port.BillingGateway, feed NotificationSource) {
	s.Register(entity.CacheKeyInvoices, func(ctx context.Context, _ string) (interface{}, error) {
		return gateway.FetchInvoices(ctx)
	})
	s.Register(entity.CacheKeyDashboardData, func(ctx context.Context, _ string) (interface{}, error) {
		invoices, err := gateway.FetchInvoices(ctx)
		if err != nil {
			return nil, err
		}
		return Dashboard(invoices), nil
	})
	s.Register(entity.CacheKeyReportsData, func(ctx context.Context, _ string) (interface{}, error) {
		invoices, err := gateway.FetchInvoices(ctx)
		if err != nil {
			return nil, err
		}
		return Reports(invoices), nil
	})
	s.Register(entity.CacheKeyNotificationHistory, func(ctx context.Context, _ string) (interface{}, error) {
		if feed == nil {
			return []entity.Notification{}, nil
		}
		return feed.List(0), nil
	})
	s.RegisterPrefix(entity.CacheKeyStudentProfilePrefix, func(ctx context.Context, key string) (interface{}, error) {
		memberID, err := strconv.ParseInt(strings.TrimPrefix(key, entity.CacheKeyStudentProfilePrefix), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid profile key %q: %w", key, err)
		}
		invoices, err := gateway.FetchInvoices(ctx)
		if err != nil {
			return nil, err
		}
		return Profile(memberID, invoices), nil
	})
}

// Getter reads a collection by key
type Getter interface {
	Get(ctx context.Context, key string) (interface{}, error)
}

// Invoices returns the cached invoice collection
func Invoices(ctx context.Context, s Getter) ([]entity.Invoice, error) {
	v, err := s.Get(ctx, entity.CacheKeyInvoices)
	if err != nil {
		return nil, err
	}
	invoices, ok := v.([]entity.Invoice)
	if !ok {
		return nil, fmt.Errorf("unexpected %T cached under %s", v, entity.CacheKeyInvoices)
	}
	return invoices, nil
}

// Dashboard computes the summary of the collection
func Dashboard(invoices []entity.Invoice) DashboardData {
	d := DashboardData{ByStatus: make(map[entity.InvoiceStatus]int)}
	for i := range invoices {
		inv := &invoices[i]
		d.Total++
		d.ByStatus[inv.Status]++
		if inv.Status == entity.StatusCancelled {
			continue
		}
		paid := inv.AmountPaidCents()
		d.BilledCents += inv.AmountCents
		d.ReceivedCents += paid
		if rest := inv.AmountCents - paid; rest > 0 {
			d.OutstandingCents += rest
		}
	}
	return d
}

// Reports aggregates the collection per competency, newest first
func Reports(invoices []entity.Invoice) []ReportRow {
	byCompetency := make(map[string]*ReportRow)
	for i := range invoices {
		inv := &invoices[i]
		if inv.Status == entity.StatusCancelled {
			continue
		}
		row, ok := byCompetency[inv.Competency]
		if !ok {
			row = &ReportRow{Competency: inv.Competency}
			byCompetency[inv.Competency] = row
		}
		row.Invoices++
		row.BilledCents += inv.AmountCents
		row.ReceivedCents += inv.AmountPaidCents()
	}

	rows := make([]ReportRow, 0, len(byCompetency))
	for _, row := range byCompetency {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Competency > rows[j].Competency })
	return rows
}

// Profile selects the invoices of one member
func Profile(memberID int64, invoices []entity.Invoice) StudentProfile {
	p := StudentProfile{MemberID: memberID, Invoices: []entity.Invoice{}}
	for i := range invoices {
		inv := invoices[i]
		if inv.Member.ID != memberID {
			continue
		}
		p.Invoices = append(p.Invoices, inv)
		if inv.Status != entity.StatusCancelled {
			if rest := inv.AmountCents - inv.AmountPaidCents(); rest > 0 {
				p.OutstandingCents += rest
			}
		}
	}
	return p
}
