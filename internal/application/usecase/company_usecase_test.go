package usecase_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/feedback-api/internal/application/dto"
	"github.com/jhoicas/feedback-api/internal/domain"
	"github.com/jhoicas/feedback-api/internal/domain/entity"
)

var companyCodeRe = regexp.MustCompile(`^COMP[A-Z0-9]{6}$`)

func registerAcme(t *testing.T, f *fixture) *dto.CompanyResponse {
	t.Helper()
	c, err := f.company.Register(context.Background(), dto.CreateCompanyRequest{
		Name:         "Acme",
		AdminContact: "hr@acme.test",
		Employees:    40,
	})
	require.NoError(t, err)
	return c
}

func TestRegister_EmpiezaEnTrialConPlanGratuito(t *testing.T) {
	f := newFixture(t)
	c := registerAcme(t, f)

	assert.Equal(t, string(entity.CompanyStatusTrial), c.Status)
	assert.Equal(t, string(entity.CompanyStatusTrial), c.EffectiveStatus)
	assert.Equal(t, entity.PlanFree, c.PlanID)
	assert.Regexp(t, companyCodeRe, c.Code)
	require.NotNil(t, c.TrialEndsAt)
	assert.Equal(t, f.now.AddDate(0, 0, 60), *c.TrialEndsAt)
	assert.Zero(t, c.MessagesThisPeriod)
}

func TestRegister_CambioDePeriodoNoAfectaEmpresasExistentes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	first := registerAcme(t, f)

	days := 30
	_, err := f.plans.UpdateFreePlanSettings(ctx, dto.UpdateFreePlanSettingsRequest{FreePeriodDays: &days})
	require.NoError(t, err)

	got, err := f.company.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, f.now.AddDate(0, 0, 60), *got.TrialEndsAt)

	second := registerAcme(t, f)
	assert.Equal(t, f.now.AddDate(0, 0, 30), *second.TrialEndsAt)
}

func TestRegister_Validaciones(t *testing.T) {
	f := newFixture(t)
	cases := map[string]dto.CreateCompanyRequest{
		"name":          {Name: "  ", AdminContact: "a@b.c"},
		"admin_contact": {Name: "Acme", AdminContact: ""},
		"employees":     {Name: "Acme", AdminContact: "a@b.c", Employees: -1},
	}
	for field, req := range cases {
		_, err := f.company.Register(context.Background(), req)
		require.ErrorIs(t, err, domain.ErrValidation, field)
		de, _ := domain.AsError(err)
		assert.Equal(t, field, de.Field)
	}
}

func TestRegister_ReintentaAnteColisionDeCodigo(t *testing.T) {
	f := newFixture(t, withCodes("COMPAAAAAA", "COMPAAAAAA", "COMPBBBBBB"))

	first := registerAcme(t, f)
	second := registerAcme(t, f)

	assert.Equal(t, "COMPAAAAAA", first.Code)
	assert.Equal(t, "COMPBBBBBB", second.Code)
}

func TestRegister_ConflictoAlAgotarReintentos(t *testing.T) {
	f := newFixture(t, withCodes("COMPAAAAAA"))
	registerAcme(t, f)

	_, err := f.company.Register(context.Background(), dto.CreateCompanyRequest{Name: "Beta", AdminContact: "x@beta.test"})
	require.ErrorIs(t, err, domain.ErrConflict)
	de, _ := domain.AsError(err)
	assert.Equal(t, "code", de.Field)

	list, err := f.company.List(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Page.Total)
}

func TestTransitionStatus_Ciclo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := registerAcme(t, f)

	active, err := f.company.TransitionStatus(ctx, c.ID, "active")
	require.NoError(t, err)
	assert.Equal(t, "active", active.Status)
	assert.Nil(t, active.TrialEndsAt)

	_, err = f.company.TransitionStatus(ctx, c.ID, "trial")
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.company.TransitionStatus(ctx, c.ID, "active")
	assert.ErrorIs(t, err, domain.ErrConflict)

	blocked, err := f.company.TransitionStatus(ctx, c.ID, "blocked")
	require.NoError(t, err)
	assert.Equal(t, "blocked", blocked.Status)

	back, err := f.company.TransitionStatus(ctx, c.ID, "Active")
	require.NoError(t, err)
	assert.Equal(t, "active", back.Status)

	_, err = f.company.TransitionStatus(ctx, c.ID, "suspended")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.company.TransitionStatus(ctx, 999, "active")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransitionStatus_ConservaContadores(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := registerAcme(t, f)

	_, err := f.message.Submit(ctx, dto.SubmitMessageRequest{CompanyCode: c.Code, Type: "praise", Content: "bien"})
	require.NoError(t, err)

	blocked, err := f.company.TransitionStatus(ctx, c.ID, "blocked")
	require.NoError(t, err)
	assert.Equal(t, int64(1), blocked.MessagesThisPeriod)
}

func TestTrialVencido_SePersisteEnLaSiguienteEscritura(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := registerAcme(t, f)

	f.now = f.now.AddDate(0, 0, 61)
	got, err := f.company.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "trial", got.Status)
	assert.Equal(t, "active", got.EffectiveStatus)

	employees := 50
	updated, err := f.company.UpdateProfile(ctx, c.ID, dto.UpdateCompanyRequest{Employees: &employees})
	require.NoError(t, err)
	assert.Equal(t, "active", updated.Status)
	assert.Nil(t, updated.TrialEndsAt)
	assert.Equal(t, 50, updated.Employees)
}

func TestChangePlan(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := registerAcme(t, f)

	out, err := f.company.ChangePlan(ctx, c.ID, entity.PlanPro)
	require.NoError(t, err)
	assert.Equal(t, entity.PlanPro, out.PlanID)
	assert.Equal(t, "trial", out.Status, "cambiar de plan no altera el estado")

	_, err = f.company.ChangePlan(ctx, c.ID, "platinum")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.company.ChangePlan(ctx, 999, entity.PlanPro)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetByCode_InsensibleAMayusculas(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, withCodes("COMPABC123"))
	registerAcme(t, f)

	got, err := f.company.GetByCode(ctx, " compabc123 ")
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)

	_, err = f.company.GetByCode(ctx, "COMPZZZZZZ")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateProfile_NombreVacio(t *testing.T) {
	f := newFixture(t)
	c := registerAcme(t, f)
	empty := " "
	_, err := f.company.UpdateProfile(context.Background(), c.ID, dto.UpdateCompanyRequest{Name: &empty})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTransitionStatus_UsaElEstadoEfectivo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := registerAcme(t, f)
	f.now = f.now.AddDate(0, 0, 61)

	// El trial vencido ya es Active: pasar a active no es una transición.
	_, err := f.company.TransitionStatus(ctx, c.ID, "active")
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := f.company.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "trial", got.Status, "una transición rechazada no persiste nada")

	blocked, err := f.company.TransitionStatus(ctx, c.ID, "blocked")
	require.NoError(t, err)
	assert.Equal(t, "blocked", blocked.Status)
	assert.Nil(t, blocked.TrialEndsAt)
}
