package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/feedback-api/internal/application/auth"
	"github.com/jhoicas/feedback-api/internal/domain"
	"github.com/jhoicas/feedback-api/internal/domain/entity"
)

func TestAuthorize(t *testing.T) {
	own := int64(7)
	other := int64(8)
	companyUser := entity.Principal{Role: entity.RoleCompany, UserID: "u1", CompanyID: 7}
	admin := entity.Principal{Role: entity.RoleAdmin, UserID: "a1"}

	cases := []struct {
		name     string
		p        entity.Principal
		roles    []string
		target   *int64
		allowed  bool
		redirect string
	}{
		{"anónimo en ruta pública", entity.Anonymous(), []string{entity.RoleAnonymous}, nil, true, ""},
		{"anónimo en ruta de empresa", entity.Anonymous(), []string{entity.RoleCompany}, nil, false, auth.RedirectLogin},
		{"empresa en ruta de admin", companyUser, []string{entity.RoleAdmin}, nil, false, auth.RedirectCompanyHome},
		{"admin en ruta de empresa", admin, []string{entity.RoleCompany}, nil, false, auth.RedirectAdminHome},
		{"empresa sobre la suya", companyUser, []string{entity.RoleCompany}, &own, true, ""},
		{"empresa sobre otra", companyUser, []string{entity.RoleCompany, entity.RoleAdmin}, &other, false, auth.RedirectCompanyHome},
		{"admin sobre cualquiera", admin, []string{entity.RoleCompany, entity.RoleAdmin}, &other, true, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := auth.Authorize(tc.p, tc.roles, tc.target)
			assert.Equal(t, tc.allowed, d.Allowed)
			assert.Equal(t, tc.redirect, d.Redirect)
		})
	}
}

func TestDecisionErr(t *testing.T) {
	assert.NoError(t, auth.Decision{Allowed: true}.Err())

	err := auth.Decision{Redirect: auth.RedirectLogin}.Err()
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	de, ok := domain.AsError(err)
	assert.True(t, ok)
	assert.Equal(t, auth.RedirectLogin, de.Redirect)
}

func TestHomeFor(t *testing.T) {
	assert.Equal(t, "/company", auth.HomeFor(entity.RoleCompany))
	assert.Equal(t, "/admin", auth.HomeFor(entity.RoleAdmin))
	assert.Equal(t, "/", auth.HomeFor(entity.RoleAnonymous))
}
