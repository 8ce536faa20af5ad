package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/application/port"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/entity"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/infrastructure/persistence/sqlite"
)

// dateLayout is the storage layout of calendar dates
const dateLayout = "2006-01-02"

const selectInvoices = `
	SELECT i.id, i.due_date, i.amount_cents, i.competency, i.status, i.created_at,
		m.id, m.name, m.email, m.tax_id, m.active, m.monthly_fee_cents
	FROM invoices i
	JOIN members m ON m.id = i.member_id
`

// InvoiceRepository implements port.InvoiceRepository
type InvoiceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *sql.DB, logger *zap.Logger) port.InvoiceRepository {
	return &InvoiceRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new invoice record
func (r *InvoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	if invoice.Status == "" {
		invoice.Status = entity.StatusOpen
	}

	query := `
		INSERT INTO invoices (member_id, due_date, amount_cents, competency, status)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		invoice.Member.ID,
		formatDate(invoice.DueDate),
		invoice.AmountCents,
		invoice.Competency,
		string(invoice.Status),
	)
	if err != nil {
		r.logger.Error("Failed to create invoice",
			zap.Int64("member_id", invoice.Member.ID),
			zap.String("competency", invoice.Competency),
			zap.Error(err))
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	invoice.ID = id
	return nil
}

// GetByID retrieves an invoice with its member and payments
func (r *InvoiceRepository) GetByID(ctx context.Context, id int64) (*entity.Invoice, error) {
	row := r.getExecutor(ctx).QueryRowContext(ctx, selectInvoices+" WHERE i.id = ?", id)

	invoice, err := scanInvoice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", entity.ErrInvoiceNotFound, id)
	}
	if err != nil {
		r.logger.Error("Failed to get invoice by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	payments, err := r.loadPayments(ctx, "WHERE invoice_id = ?", id)
	if err != nil {
		return nil, err
	}
	invoice.Payments = paymentsOrEmpty(payments[id])

	return invoice, nil
}

// List retrieves every invoice with member and payments, ordered by id
func (r *InvoiceRepository) List(ctx context.Context) ([]entity.Invoice, error) {
	rows, err := r.getExecutor(ctx).QueryContext(ctx, selectInvoices+" ORDER BY i.id")
	if err != nil {
		r.logger.Error("Failed to list invoices", zap.Error(err))
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	invoices := make([]entity.Invoice, 0)
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, *invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invoices: %w", err)
	}

	payments, err := r.loadPayments(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range invoices {
		invoices[i].Payments = paymentsOrEmpty(payments[invoices[i].ID])
	}

	return invoices, nil
}

// ExistsForMember reports whether the member already has an invoice for the competency
func (r *InvoiceRepository) ExistsForMember(ctx context.Context, memberID int64, competency string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM invoices WHERE member_id = ? AND competency = ?)`

	var exists bool
	if err := r.getExecutor(ctx).QueryRowContext(ctx, query, memberID, competency).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check invoice existence: %w", err)
	}
	return exists, nil
}

// AddPayment appends a payment to the invoice
func (r *InvoiceRepository) AddPayment(ctx context.Context, invoiceID int64, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (invoice_id, amount_cents, paid_on, method, note)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		invoiceID,
		payment.AmountCents,
		formatDate(payment.Date),
		string(payment.Method),
		payment.Note,
	)
	if err != nil {
		r.logger.Error("Failed to add payment",
			zap.Int64("invoice_id", invoiceID),
			zap.Error(err))
		return fmt.Errorf("failed to add payment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	payment.ID = id
	return nil
}

// UpdateStatus updates the invoice status
func (r *InvoiceRepository) UpdateStatus(ctx context.Context, id int64, status entity.InvoiceStatus) error {
	result, err := r.getExecutor(ctx).ExecContext(ctx,
		`UPDATE invoices SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		r.logger.Error("Failed to update invoice status",
			zap.Int64("id", id),
			zap.String("status", string(status)),
			zap.Error(err))
		return fmt.Errorf("failed to update invoice status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %d", entity.ErrInvoiceNotFound, id)
	}
	return nil
}

// MarkOverdue flags open invoices due before the cutoff day as overdue
func (r *InvoiceRepository) MarkOverdue(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.getExecutor(ctx).ExecContext(ctx,
		`UPDATE invoices SET status = ? WHERE status = ? AND due_date < ?`,
		string(entity.StatusOverdue), string(entity.StatusOpen), formatDate(cutoff))
	if err != nil {
		r.logger.Error("Failed to mark overdue invoices", zap.Error(err))
		return 0, fmt.Errorf("failed to mark overdue invoices: %w", err)
	}
	return result.RowsAffected()
}

// loadPayments returns payments grouped by invoice id, in insertion order
func (r *InvoiceRepository) loadPayments(ctx context.Context, where string, args ...interface{}) (map[int64][]entity.Payment, error) {
	query := `SELECT id, invoice_id, amount_cents, paid_on, method, note FROM payments ` + where + ` ORDER BY invoice_id, id`

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to load payments", zap.Error(err))
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}
	defer rows.Close()

	grouped := make(map[int64][]entity.Payment)
	for rows.Next() {
		var (
			p         entity.Payment
			invoiceID int64
			paidOn    string
			method    string
		)
		if err := rows.Scan(&p.ID, &invoiceID, &p.AmountCents, &paidOn, &method, &p.Note); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		if p.Date, err = parseDate(paidOn); err != nil {
			return nil, fmt.Errorf("invalid payment date %q: %w", paidOn, err)
		}
		p.Method = entity.PaymentMethod(method)
		grouped[invoiceID] = append(grouped[invoiceID], p)
	}
	return grouped, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanInvoice(row rowScanner) (*entity.Invoice, error) {
	var (
		invoice   entity.Invoice
		dueDate   string
		status    string
		createdAt sql.NullTime
	)

	err := row.Scan(
		&invoice.ID,
		&dueDate,
		&invoice.AmountCents,
		&invoice.Competency,
		&status,
		&createdAt,
		&invoice.Member.ID,
		&invoice.Member.Name,
		&invoice.Member.Email,
		&invoice.Member.TaxID,
		&invoice.Member.Active,
		&invoice.Member.MonthlyFeeCents,
	)
	if err != nil {
		return nil, err
	}

	if invoice.DueDate, err = parseDate(dueDate); err != nil {
		return nil, fmt.Errorf("invalid due date %q: %w", dueDate, err)
	}
	invoice.Status = entity.InvoiceStatus(status)
	if createdAt.Valid {
		invoice.CreatedAt = createdAt.Time
	}
	return &invoice, nil
}

func paymentsOrEmpty(p []entity.Payment) []entity.Payment {
	if p == nil {
		return []entity.Payment{}
	}
	return p
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// parseDate reads a stored calendar date as local midnight
func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.Local)
}

// getExecutor returns the transaction carried by ctx or the database
func (r *InvoiceRepository) getExecutor(ctx context.Context) sqlite.Executor {
	return sqlite.ExecutorFor(ctx, r.db)
}

// Verify interface compliance
var _ port.InvoiceRepository = (*InvoiceRepository)(nil)
