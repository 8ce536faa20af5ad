package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/application/port"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/entity"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/infrastructure/persistence/sqlite"
)

// ErrPaymentLinkNotFound is returned when a token does not exist
var ErrPaymentLinkNotFound = errors.New("payment link not found")

// PaymentLinkRepository implements port.PaymentLinkRepository
type PaymentLinkRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPaymentLinkRepository creates a new payment link repository
func NewPaymentLinkRepository(db *sql.DB, logger *zap.Logger) port.PaymentLinkRepository {
	return &PaymentLinkRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a generated link
func (r *PaymentLinkRepository) Create(ctx context.Context, link *entity.PaymentLink) error {
	_, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx,
		`INSERT INTO payment_links (invoice_id, token, url) VALUES (?, ?, ?)`,
		link.InvoiceID, link.Token, link.URL)
	if err != nil {
		r.logger.Error("Failed to create payment link",
			zap.Int64("invoice_id", link.InvoiceID),
			zap.Error(err))
		return fmt.Errorf("failed to create payment link: %w", err)
	}
	return nil
}

// GetByToken retrieves a link by its token
func (r *PaymentLinkRepository) GetByToken(ctx context.Context, token string) (*entity.PaymentLink, error) {
	query := `SELECT invoice_id, token, url, created_at FROM payment_links WHERE token = ?`

	var (
		link      entity.PaymentLink
		createdAt sql.NullTime
	)
	err := sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query, token).Scan(
		&link.InvoiceID, &link.Token, &link.URL, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentLinkNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get payment link", zap.Error(err))
		return nil, fmt.Errorf("failed to get payment link: %w", err)
	}
	if createdAt.Valid {
		link.CreatedAt = createdAt.Time
	}
	return &link, nil
}

// Verify interface compliance
var _ port.PaymentLinkRepository = (*PaymentLinkRepository)(nil)
