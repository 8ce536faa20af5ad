package container

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/application/port"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/config"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/entity"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/infrastructure/cache"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/view"
)

func testConfig(t *testing.T) *Config {
	cfg := DefaultConfig()
	cfg.Database.Path = filepath.Join(t.TempDir(), "faturas.db")
	cfg.Worker.RefreshInterval = time.Hour
	return cfg
}

func TestNewContainer_Validation(t *testing.T) {
	_, err := NewContainer(nil, zap.NewNop())
	assert.Error(t, err)

	_, err = NewContainer(DefaultConfig(), nil)
	assert.Error(t, err)

	cfg := DefaultConfig()
	cfg.Database.Path = ""
	_, err = NewContainer(cfg, zap.NewNop())
	assert.ErrorContains(t, err, "database.path")
}

func TestContainer_Lifecycle(t *testing.T) {
	c, err := NewContainer(testConfig(t), zap.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	assert.True(t, c.Ready())
	assert.Error(t, c.Start(ctx))

	health := c.Health()
	assert.True(t, health.Overall, health.Components)

	member := &entity.Member{Name: "Ana Paula", Email: "ana@example.com", Active: true, MonthlyFeeCents: 15000}
	require.NoError(t, c.Repositories().Members.Create(ctx, member))

	result, err := c.Orchestrator().GeneratePeriodInvoices(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.GeneratedCount)

	invoices, err := cache.Invoices(ctx, c.Cache())
	require.NoError(t, err)
	require.Len(t, invoices, 1)

	id, session, err := c.Sessions().Create(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, session.View().TotalMatched)

	err = c.Orchestrator().RegisterPayment(ctx, port.PaymentRequest{
		InvoiceID:   invoices[0].ID,
		MemberID:    member.ID,
		AmountCents: 5000,
		Date:        time.Now(),
		Method:      entity.MethodPix,
	})
	require.NoError(t, err)
	c.Cache().Wait()

	assert.Eventually(t, func() bool {
		rows := session.View().Visible
		return len(rows) == 1 && rows[0].Status == entity.StatusPartiallyPaid
	}, 2*time.Second, 10*time.Millisecond)

	notes := c.Feed().List(0)
	require.NotEmpty(t, notes)
	assert.Equal(t, entity.SeveritySuccess, notes[0].Severity)

	require.NoError(t, c.Close())
	assert.False(t, c.Ready())
	assert.Error(t, c.Close())
	assert.Error(t, c.Start(ctx))
}

func TestFromAppConfig(t *testing.T) {
	app := &config.Config{
		Database:      config.DatabaseConfig{Path: "x.db", MaxOpenConns: 1},
		View:          config.ViewConfig{Debounce: time.Second, ClampPolicy: "keep", MemoSize: 4},
		Cache:         config.CacheConfig{RefetchTimeout: time.Second, RefreshInterval: time.Minute},
		Links:         config.LinksConfig{BaseURL: "https://pay.example.com"},
		Billing:       config.BillingConfig{DueDay: 5},
		Auth:          config.AuthConfig{PrivilegedRoles: []string{"admin"}},
		Notifications: config.NotificationsConfig{FeedSize: 7},
	}

	cfg := FromAppConfig(app)
	assert.Equal(t, "x.db", cfg.Database.Path)
	assert.Equal(t, view.KeepCursor, cfg.View.ClampPolicy)
	assert.Equal(t, "https://pay.example.com", cfg.Billing.LinkBaseURL)
	assert.Equal(t, 5, cfg.Billing.DueDay)
	assert.Equal(t, time.Minute, cfg.Worker.RefreshInterval)
	assert.Equal(t, 7, cfg.FeedSize)
	assert.Equal(t, []entity.Role{entity.RoleAdmin}, cfg.PrivilegedRoles)
	assert.NoError(t, cfg.Validate())
}
