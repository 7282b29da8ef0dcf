package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/feedback-api/internal/domain/entity"
)

func TestCanTransition_TablaCompleta(t *testing.T) {
	cases := []struct {
		from, to entity.CompanyStatus
		ok       bool
	}{
		{entity.CompanyStatusTrial, entity.CompanyStatusActive, true},
		{entity.CompanyStatusTrial, entity.CompanyStatusBlocked, true},
		{entity.CompanyStatusActive, entity.CompanyStatusBlocked, true},
		{entity.CompanyStatusBlocked, entity.CompanyStatusActive, true},
		{entity.CompanyStatusActive, entity.CompanyStatusTrial, false},
		{entity.CompanyStatusBlocked, entity.CompanyStatusTrial, false},
		{entity.CompanyStatusTrial, entity.CompanyStatusTrial, false},
		{entity.CompanyStatusActive, entity.CompanyStatusActive, false},
		{entity.CompanyStatusBlocked, entity.CompanyStatusBlocked, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, entity.CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestEffectiveStatus_TrialVencidoSeComportaComoActive(t *testing.T) {
	reg := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := reg.AddDate(0, 0, 60)
	c := &entity.Company{Status: entity.CompanyStatusTrial, RegisteredAt: reg, TrialEndsAt: &end}

	assert.Equal(t, entity.CompanyStatusTrial, c.EffectiveStatus(end.Add(-time.Second)))
	assert.Equal(t, entity.CompanyStatusTrial, c.EffectiveStatus(end), "el instante de fin aún es prueba")
	assert.True(t, c.TrialExpired(end.Add(time.Nanosecond)))
	assert.Equal(t, entity.CompanyStatusActive, c.EffectiveStatus(end.Add(time.Nanosecond)))
	// el estado almacenado no cambia al leer
	assert.Equal(t, entity.CompanyStatusTrial, c.Status)
}

func TestCatchUpTrial(t *testing.T) {
	reg := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := reg.AddDate(0, 0, 1)
	c := &entity.Company{Status: entity.CompanyStatusTrial, TrialEndsAt: &end}

	assert.False(t, c.CatchUpTrial(reg))
	assert.True(t, c.CatchUpTrial(end.Add(time.Hour)))
	assert.Equal(t, entity.CompanyStatusActive, c.Status)
	assert.Nil(t, c.TrialEndsAt)
	assert.False(t, c.CatchUpTrial(end.Add(2*time.Hour)))
}

func TestCompanyClone_NoCompartePunteros(t *testing.T) {
	end := time.Now()
	c := &entity.Company{TrialEndsAt: &end}
	cp := c.Clone()
	*cp.TrialEndsAt = end.Add(time.Hour)
	assert.Equal(t, end, *c.TrialEndsAt)
}
