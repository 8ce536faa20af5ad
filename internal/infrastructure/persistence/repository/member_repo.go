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

// MemberRepository implements port.MemberRepository
type MemberRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *sql.DB, logger *zap.Logger) port.MemberRepository {
	return &MemberRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new member record
func (r *MemberRepository) Create(ctx context.Context, member *entity.Member) error {
	query := `
		INSERT INTO members (name, email, tax_id, active, monthly_fee_cents)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		member.Name,
		member.Email,
		member.TaxID,
		member.Active,
		member.MonthlyFeeCents,
	)
	if err != nil {
		r.logger.Error("Failed to create member", zap.String("name", member.Name), zap.Error(err))
		return fmt.Errorf("failed to create member: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	member.ID = id
	return nil
}

// GetByID retrieves a member by ID
func (r *MemberRepository) GetByID(ctx context.Context, id int64) (*entity.Member, error) {
	query := `
		SELECT id, name, email, tax_id, active, monthly_fee_cents
		FROM members
		WHERE id = ?
	`

	var m entity.Member
	err := sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.Name, &m.Email, &m.TaxID, &m.Active, &m.MonthlyFeeCents)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", entity.ErrMemberNotFound, id)
	}
	if err != nil {
		r.logger.Error("Failed to get member by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return &m, nil
}

// ListActive returns the active members ordered by id
func (r *MemberRepository) ListActive(ctx context.Context) ([]*entity.Member, error) {
	query := `
		SELECT id, name, email, tax_id, active, monthly_fee_cents
		FROM members
		WHERE active = 1
		ORDER BY id
	`

	rows, err := sqlite.ExecutorFor(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list active members", zap.Error(err))
		return nil, fmt.Errorf("failed to list active members: %w", err)
	}
	defer rows.Close()

	var members []*entity.Member
	for rows.Next() {
		var m entity.Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.TaxID, &m.Active, &m.MonthlyFeeCents); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, &m)
	}
	return members, rows.Err()
}

// Verify interface compliance
var _ port.MemberRepository = (*MemberRepository)(nil)
