//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/feedback-api/internal/domain"
	"github.com/jhoicas/feedback-api/internal/domain/entity"
	"github.com/jhoicas/feedback-api/internal/domain/repository"
	"github.com/jhoicas/feedback-api/internal/infrastructure/postgres"
	"github.com/jhoicas/feedback-api/pkg/config"
)

func setupPostgres(t *testing.T, ctx context.Context) *pgxpool.Pool {
	t.Helper()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "feedback",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)
	dsn := fmt.Sprintf("postgres://test:test@%s:%s/feedback?sslmode=disable", host, port.Port())

	mg, err := postgres.NewMigrator(dsn, "file://../../../migrations")
	require.NoError(t, err)
	require.NoError(t, mg.Up())
	require.NoError(t, mg.Close())

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 10}, nil)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestIntegration_Repositorios(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)
	now := time.Now().UTC().Truncate(time.Microsecond)

	companies := postgres.NewCompanyRepository(pool)
	messages := postgres.NewMessageRepository(pool)
	plans := postgres.NewPlanRepository(pool)
	settings := postgres.NewSettingsRepository(pool)
	users := postgres.NewUserRepository(pool)
	analytics := postgres.NewAnalyticsRepository(pool)

	end := now.AddDate(0, 0, 60)
	acme := &entity.Company{
		Name: "Acme", Code: "COMPACME01", AdminContact: "hr@acme.test",
		Status: entity.CompanyStatusTrial, PlanID: entity.PlanFree,
		RegisteredAt: now, TrialEndsAt: &end, StorageUsed: decimal.Zero,
		CreatedAt: now, UpdatedAt: now,
	}

	t.Run("empresas", func(t *testing.T) {
		require.NoError(t, companies.Create(ctx, acme))
		assert.NotZero(t, acme.ID)

		dup := *acme
		assert.ErrorIs(t, companies.Create(ctx, &dup), domain.ErrDuplicate)

		got, err := companies.GetByCode(ctx, "COMPACME01")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, entity.CompanyStatusTrial, got.Status)
		require.NotNil(t, got.TrialEndsAt)
		assert.True(t, end.Equal(*got.TrialEndsAt))

		missing, err := companies.GetByID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, missing)

		list, total, err := companies.List(ctx, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Len(t, list, 1)
	})

	t.Run("UpdateLocked serializa escrituras concurrentes", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := companies.UpdateLocked(ctx, acme.ID, func(c *entity.Company) error {
					c.MessagesThisPeriod++
					c.StorageUsed = c.StorageUsed.Add(decimal.RequireFromString("0.1"))
					return nil
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		got, err := companies.GetByID(ctx, acme.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(20), got.MessagesThisPeriod)
		assert.True(t, got.StorageUsed.Equal(decimal.NewFromInt(2)), got.StorageUsed.String())

		_, err = companies.UpdateLocked(ctx, acme.ID, func(*entity.Company) error {
			return domain.NewConflictError("company", "status")
		})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("mensajes y analítica", func(t *testing.T) {
		for i, typ := range []entity.MessageType{entity.MessageTypeComplaint, entity.MessageTypePraise, entity.MessageTypePraise} {
			m := &entity.Message{
				ID: fmt.Sprintf("FB-2026-0000000%d", i), CompanyCode: acme.Code, Type: typ,
				Content: "contenido", Status: entity.MessageStatusNew,
				CreatedAt: now.Add(-time.Duration(i) * time.Hour), UpdatedAt: now,
			}
			require.NoError(t, messages.Create(ctx, m))
		}
		dup := &entity.Message{ID: "FB-2026-00000000", CompanyCode: acme.Code, Type: entity.MessageTypePraise, Content: "x", Status: entity.MessageStatusNew, CreatedAt: now, UpdatedAt: now}
		assert.ErrorIs(t, messages.Create(ctx, dup), domain.ErrDuplicate)

		resp := "gracias"
		m, err := messages.UpdateLocked(ctx, "FB-2026-00000001", func(cur *entity.Message) error {
			cur.Status = entity.MessageStatusResolved
			cur.Response = &resp
			return nil
		})
		require.NoError(t, err)
		require.NotNil(t, m)

		_, err = messages.UpdateLocked(ctx, "FB-2026-00000001", func(cur *entity.Message) error {
			return domain.NewConflictError("message", "status")
		})
		assert.ErrorIs(t, err, domain.ErrConflict)
		got, err := messages.GetByID(ctx, "FB-2026-00000001")
		require.NoError(t, err)
		assert.Equal(t, entity.MessageStatusResolved, got.Status)

		missing, err := messages.UpdateLocked(ctx, "FB-2026-NOEXISTE", func(*entity.Message) error { return nil })
		require.NoError(t, err)
		assert.Nil(t, missing)

		list, total, err := messages.List(ctx, repository.MessageFilter{CompanyCode: acme.Code, Status: entity.MessageStatusNew})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Equal(t, "FB-2026-00000000", list[0].ID)

		byType, err := analytics.CountByType(ctx, acme.Code)
		require.NoError(t, err)
		assert.Equal(t, 1, byType[entity.MessageTypeComplaint])
		assert.Equal(t, 2, byType[entity.MessageTypePraise])

		byStatus, err := analytics.CountByStatus(ctx, acme.Code)
		require.NoError(t, err)
		assert.Equal(t, 1, byStatus[entity.MessageStatusResolved])

		n, err := analytics.CountCreatedBetween(ctx, acme.Code, now.Add(-90*time.Minute), now.Add(time.Minute))
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		totals, err := analytics.CountMessages(ctx)
		require.NoError(t, err)
		assert.Equal(t, repository.MessageTotals{Total: 3, Resolved: 1}, totals)

		counts, err := analytics.CountCompanies(ctx, end.Add(time.Second))
		require.NoError(t, err)
		assert.Equal(t, repository.CompanyCounts{Total: 1, Active: 1}, counts)
	})

	t.Run("planes y ajustes", func(t *testing.T) {
		s, err := settings.GetFreePlanSettings(ctx)
		require.NoError(t, err)
		assert.Nil(t, s)

		require.NoError(t, settings.SaveFreePlanSettings(ctx, entity.FreePlanSettings{
			MessagesLimit: 2, StorageLimit: decimal.NewFromInt(1), FreePeriodDays: 30, UpdatedAt: now,
		}))
		s, err = settings.GetFreePlanSettings(ctx)
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.Equal(t, 30, s.FreePeriodDays)

		p := &entity.Plan{
			ID: "custom-1", Name: entity.LocalizedText{entity.LocaleEN: "Enterprise"}, Price: 100,
			MessagesLimit: 0, StorageLimit: decimal.NewFromInt(100),
			Features:     []entity.LocalizedText{{entity.LocaleEN: "All"}},
			Capabilities: []entity.Capability{entity.CapabilityReportsPDF},
			CreatedAt:    now,
		}
		require.NoError(t, plans.Create(ctx, p))
		got, err := plans.GetByID(ctx, "custom-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.Custom)
		assert.Equal(t, "Enterprise", got.Name[entity.LocaleEN])
		assert.Equal(t, []entity.Capability{entity.CapabilityReportsPDF}, got.Capabilities)
	})

	t.Run("usuarios", func(t *testing.T) {
		id := acme.ID
		u := &entity.User{
			ID: "00000000-0000-0000-0000-000000000001", CompanyID: &id, Email: "hr@acme.test",
			PasswordHash: "hash", Name: "HR", Role: entity.RoleCompany, Status: entity.UserStatusActive,
			CreatedAt: now, UpdatedAt: now,
		}
		require.NoError(t, users.Create(ctx, u))
		assert.ErrorIs(t, users.Create(ctx, u), domain.ErrDuplicate)

		got, err := users.GetByEmail(ctx, "hr@acme.test")
		require.NoError(t, err)
		require.NotNil(t, got.CompanyID)
		assert.Equal(t, acme.ID, *got.CompanyID)
	})
}
