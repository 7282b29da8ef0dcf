package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/feedback-api/internal/application/analytics"
	"github.com/jhoicas/feedback-api/internal/application/dto"
	"github.com/jhoicas/feedback-api/internal/application/quota"
	"github.com/jhoicas/feedback-api/internal/application/usecase"
	"github.com/jhoicas/feedback-api/internal/domain"
	"github.com/jhoicas/feedback-api/internal/domain/entity"
	"github.com/jhoicas/feedback-api/internal/domain/identifier"
	"github.com/jhoicas/feedback-api/internal/infrastructure/memory"
)

type fakePDF struct {
	got *dto.CompanyReport
}

func (f *fakePDF) GenerateStatsReport(_ context.Context, r *dto.CompanyReport) ([]byte, error) {
	f.got = r
	return []byte("%PDF-fake"), nil
}

type env struct {
	now     time.Time
	company *usecase.CompanyUseCase
	message *usecase.MessageUseCase
	stats   *analytics.StatsUseCase
	pdf     *fakePDF
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{now: time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC), pdf: &fakePDF{}}
	clock := func() time.Time { return e.now }

	companies := memory.NewCompanyStore()
	messages := memory.NewMessageStore()
	gen := identifier.NewGenerator()
	plans := usecase.NewPlanUseCase(memory.NewPlanStore(), memory.NewSettingsStore(), entity.DefaultFreePlanSettings()).WithClock(clock)
	enforcer := quota.NewEnforcer(companies, plans, decimal.NewFromInt(1), nil, nil).WithClock(clock)

	e.company = usecase.NewCompanyUseCase(companies, plans, gen, nil, nil).WithClock(clock)
	e.message = usecase.NewMessageUseCase(messages, companies, enforcer, gen, nil, nil).WithClock(clock)
	e.stats = analytics.NewStatsUseCase(memory.NewAnalyticsStore(companies, messages), companies, e.pdf).WithClock(clock)
	return e
}

func (e *env) register(t *testing.T, name string) *dto.CompanyResponse {
	t.Helper()
	c, err := e.company.Register(context.Background(), dto.CreateCompanyRequest{Name: name, AdminContact: "hr@" + name + ".test"})
	require.NoError(t, err)
	return c
}

func (e *env) submit(t *testing.T, code, typ string) *dto.MessageResponse {
	t.Helper()
	m, err := e.message.Submit(context.Background(), dto.SubmitMessageRequest{CompanyCode: code, Type: typ, Content: "contenido"})
	require.NoError(t, err)
	return m
}

func TestEscenarioAcme_Distribucion(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	acme := e.register(t, "Acme")
	assert.Equal(t, "trial", acme.Status)
	assert.Equal(t, e.now.AddDate(0, 0, 60), *acme.TrialEndsAt)

	msg := e.submit(t, acme.Code, "complaint")
	assert.Equal(t, "new", msg.Status)

	_, err := e.message.UpdateStatus(ctx, msg.ID, dto.UpdateMessageStatusRequest{Status: "In-Progress"})
	require.NoError(t, err)
	_, err = e.message.UpdateStatus(ctx, msg.ID, dto.UpdateMessageStatusRequest{Status: "New"})
	require.ErrorIs(t, err, domain.ErrConflict)

	dist, err := e.stats.Distribution(ctx, acme.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.DistributionResponse{Complaints: 1, Praises: 0, Suggestions: 0}, *dist)
}

func TestGrowth_PuntuacionAnimoYTendencia(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	c := e.register(t, "Acme")

	old := e.submit(t, c.Code, "complaint")
	e.now = e.now.AddDate(0, 0, 40)
	e.submit(t, c.Code, "praise")
	e.submit(t, c.Code, "praise")
	e.submit(t, c.Code, "complaint")
	_, err := e.message.UpdateStatus(ctx, old.ID, dto.UpdateMessageStatusRequest{Status: "resolved", Response: ptr("hecho")})
	require.NoError(t, err)
	e.now = e.now.Add(time.Minute)

	g, err := e.stats.Growth(ctx, c.ID)
	require.NoError(t, err)
	// 10 × (1 resuelto + 2 elogios) / (2 × 4) = 3.75
	assert.True(t, g.Rating.Equal(decimal.RequireFromString("3.8")), g.Rating.String())
	assert.Equal(t, dto.MoodNegative, g.Mood)
	assert.Equal(t, dto.TrendUp, g.Trend)
	assert.Equal(t, 3, g.Last30Days)
	assert.Equal(t, 1, g.Previous30Days)
}

func TestGrowth_SinMensajes(t *testing.T) {
	e := newEnv(t)
	c := e.register(t, "Acme")

	g, err := e.stats.Growth(context.Background(), c.ID)
	require.NoError(t, err)
	assert.True(t, g.Rating.IsZero())
	assert.Equal(t, dto.MoodNeutral, g.Mood)
	assert.Equal(t, dto.TrendFlat, g.Trend)
}

func TestGrowth_TodoElogiosResueltosEsPositivo(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	c := e.register(t, "Acme")
	m := e.submit(t, c.Code, "praise")
	_, err := e.message.UpdateStatus(ctx, m.ID, dto.UpdateMessageStatusRequest{Status: "resolved"})
	require.NoError(t, err)

	g, err := e.stats.Growth(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, g.Rating.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, dto.MoodPositive, g.Mood)
}

func TestCompanyTotals(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	a := e.register(t, "Acme")
	b := e.register(t, "Beta")
	_, err := e.company.TransitionStatus(ctx, b.ID, "active")
	require.NoError(t, err)

	m := e.submit(t, a.Code, "suggestion")
	e.submit(t, b.Code, "praise")
	_, err = e.message.UpdateStatus(ctx, m.ID, dto.UpdateMessageStatusRequest{Status: "resolved"})
	require.NoError(t, err)

	totals, err := e.stats.CompanyTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, dto.CompanyTotalsResponse{TotalCompanies: 2, ActiveCompanies: 1, TotalMessages: 2, ResolvedMessages: 1}, *totals)
}

func TestReportPDF_UsaElInformeCompleto(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	c := e.register(t, "Acme")
	e.submit(t, c.Code, "complaint")
	e.submit(t, c.Code, "suggestion")

	out, err := e.stats.ReportPDF(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(out))
	require.NotNil(t, e.pdf.got)
	assert.Equal(t, "Acme", e.pdf.got.Company.Name)
	assert.Equal(t, 2, e.pdf.got.Status.Total)
	assert.Equal(t, 1, e.pdf.got.Distribution.Suggestions)

	_, err = e.stats.Report(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func ptr[T any](v T) *T { return &v }
