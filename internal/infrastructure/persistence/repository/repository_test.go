package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/entity"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/infrastructure/persistence/sqlite"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/pkg/database"
)

type repos struct {
	tx       *sqlite.DB
	members  *MemberRepository
	invoices *InvoiceRepository
	links    *PaymentLinkRepository
}

func setupRepos(t *testing.T) *repos {
	t.Helper()
	logger := zap.NewNop()

	db, err := database.New(database.Config{Path: filepath.Join(t.TempDir(), "billing.db"), MaxOpenConns: 1}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = database.NewMigrator(db, logger).RunMigrations(database.Schema, database.SchemaDir)
	require.NoError(t, err)

	return &repos{
		tx:       sqlite.NewDB(db.DB, logger),
		members:  NewMemberRepository(db.DB, logger).(*MemberRepository),
		invoices: NewInvoiceRepository(db.DB, logger).(*InvoiceRepository),
		links:    NewPaymentLinkRepository(db.DB, logger).(*PaymentLinkRepository),
	}
}

func localDay(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func (r *repos) member(t *testing.T, name string, active bool) *entity.Member {
	t.Helper()
	m := &entity.Member{Name: name, Email: name + "@example.com", TaxID: "000.000.000-00", Active: active, MonthlyFeeCents: 15000}
	require.NoError(t, r.members.Create(context.Background(), m))
	return m
}

func TestMemberRepository(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()

	ana := r.member(t, "ana", true)
	r.member(t, "bruno", false)
	carla := r.member(t, "carla", true)

	got, err := r.members.GetByID(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, *ana, *got)

	active, err := r.members.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, ana.ID, active[0].ID)
	assert.Equal(t, carla.ID, active[1].ID)

	_, err = r.members.GetByID(ctx, 999)
	assert.True(t, errors.Is(err, entity.ErrMemberNotFound))
}

func TestInvoiceRepository_CreateAndGet(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	ana := r.member(t, "ana", true)

	inv := &entity.Invoice{Member: *ana, DueDate: localDay(2024, 3, 10), AmountCents: 15000, Competency: "2024-03"}
	require.NoError(t, r.invoices.Create(ctx, inv))
	assert.NotZero(t, inv.ID)
	assert.Equal(t, entity.StatusOpen, inv.Status)

	got, err := r.invoices.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana", got.Member.Name)
	assert.True(t, got.DueDate.Equal(localDay(2024, 3, 10)))
	assert.Equal(t, int64(15000), got.AmountCents)
	assert.NotNil(t, got.Payments)
	assert.Empty(t, got.Payments)

	_, err = r.invoices.GetByID(ctx, 999)
	assert.ErrorIs(t, err, entity.ErrInvoiceNotFound)

	// one invoice per member and competency
	dup := &entity.Invoice{Member: *ana, DueDate: localDay(2024, 3, 10), AmountCents: 1, Competency: "2024-03"}
	assert.Error(t, r.invoices.Create(ctx, dup))

	exists, err := r.invoices.ExistsForMember(ctx, ana.ID, "2024-03")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = r.invoices.ExistsForMember(ctx, ana.ID, "2024-04")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestInvoiceRepository_PaymentsKeepInsertionOrder(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	ana := r.member(t, "ana", true)
	bruno := r.member(t, "bruno", true)

	first := &entity.Invoice{Member: *ana, DueDate: localDay(2024, 3, 10), AmountCents: 10000, Competency: "2024-03"}
	second := &entity.Invoice{Member: *bruno, DueDate: localDay(2024, 3, 10), AmountCents: 10000, Competency: "2024-03"}
	require.NoError(t, r.invoices.Create(ctx, first))
	require.NoError(t, r.invoices.Create(ctx, second))

	later := &entity.Payment{AmountCents: 3000, Date: localDay(2024, 3, 20), Method: entity.MethodPix}
	earlier := &entity.Payment{AmountCents: 2000, Date: localDay(2024, 3, 1), Method: entity.MethodCash, Note: "balcão"}
	require.NoError(t, r.invoices.AddPayment(ctx, first.ID, later))
	require.NoError(t, r.invoices.AddPayment(ctx, first.ID, earlier))

	all, err := r.invoices.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	payments := all[0].Payments
	require.Len(t, payments, 2)
	assert.Equal(t, later.ID, payments[0].ID)
	assert.Equal(t, earlier.ID, payments[1].ID)
	assert.Equal(t, "balcão", payments[1].Note)
	assert.Equal(t, entity.MethodCash, all[0].LastPayment().Method)
	assert.Equal(t, int64(5000), all[0].AmountPaidCents())
	assert.Empty(t, all[1].Payments)
}

func TestInvoiceRepository_StatusUpdates(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	ana := r.member(t, "ana", true)

	past := &entity.Invoice{Member: *ana, DueDate: localDay(2024, 2, 10), AmountCents: 100, Competency: "2024-02"}
	current := &entity.Invoice{Member: *ana, DueDate: localDay(2024, 3, 10), AmountCents: 100, Competency: "2024-03"}
	require.NoError(t, r.invoices.Create(ctx, past))
	require.NoError(t, r.invoices.Create(ctx, current))

	n, err := r.invoices.MarkOverdue(ctx, localDay(2024, 3, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := r.invoices.GetByID(ctx, past.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusOverdue, got.Status)

	require.NoError(t, r.invoices.UpdateStatus(ctx, current.ID, entity.StatusPaid))
	got, err = r.invoices.GetByID(ctx, current.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPaid, got.Status)

	assert.ErrorIs(t, r.invoices.UpdateStatus(ctx, 999, entity.StatusPaid), entity.ErrInvoiceNotFound)
}

func TestInvoiceRepository_TransactionRollback(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	ana := r.member(t, "ana", true)
	inv := &entity.Invoice{Member: *ana, DueDate: localDay(2024, 3, 10), AmountCents: 100, Competency: "2024-03"}
	require.NoError(t, r.invoices.Create(ctx, inv))

	boom := errors.New("boom")
	err := r.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := r.invoices.AddPayment(ctx, inv.ID, &entity.Payment{AmountCents: 100, Date: localDay(2024, 3, 5), Method: entity.MethodPix}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := r.invoices.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Payments)
}

func TestPaymentLinkRepository(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	ana := r.member(t, "ana", true)
	inv := &entity.Invoice{Member: *ana, DueDate: localDay(2024, 3, 10), AmountCents: 100, Competency: "2024-03"}
	require.NoError(t, r.invoices.Create(ctx, inv))

	link := &entity.PaymentLink{InvoiceID: inv.ID, Token: "tok-1", URL: "https://pay.test/pay/tok-1"}
	require.NoError(t, r.links.Create(ctx, link))

	got, err := r.links.GetByToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, inv.ID, got.InvoiceID)
	assert.Equal(t, link.URL, got.URL)

	_, err = r.links.GetByToken(ctx, "missing")
	assert.ErrorIs(t, err, ErrPaymentLinkNotFound)
}
