package auth

import (
	"github.com/jhoicas/feedback-api/internal/domain"
	"github.com/jhoicas/feedback-api/internal/domain/entity"
)

// Destinos de redirección. Son datos para la capa de presentación, no navegación.
const (
	RedirectLogin       = "/login"
	RedirectCompanyHome = "/company"
	RedirectAdminHome   = "/admin"
	RedirectPublicHome  = "/"
)

// Decision resultado del AuthGate.
type Decision struct {
	Allowed  bool
	Redirect string
}

// Err convierte una denegación en domain.Unauthorized con su destino.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return domain.NewUnauthorizedError(d.Redirect)
}

// HomeFor página de inicio de cada rol.
func HomeFor(role string) string {
	switch role {
	case entity.RoleCompany:
		return RedirectCompanyHome
	case entity.RoleAdmin:
		return RedirectAdminHome
	default:
		return RedirectPublicHome
	}
}

// Authorize decide si el principal puede ejecutar una operación que exige alguno de roles.
// targetCompanyID, si no es nil, es la empresa sobre la que se actúa: un principal company
// solo puede actuar sobre la suya, aunque el rol coincida.
func Authorize(p entity.Principal, roles []string, targetCompanyID *int64) Decision {
	if p.IsAnonymous() {
		if contains(roles, entity.RoleAnonymous) {
			return Decision{Allowed: true}
		}
		return Decision{Redirect: RedirectLogin}
	}
	if !contains(roles, p.Role) {
		return Decision{Redirect: HomeFor(p.Role)}
	}
	if p.Role == entity.RoleCompany && targetCompanyID != nil && *targetCompanyID != p.CompanyID {
		return Decision{Redirect: RedirectCompanyHome}
	}
	return Decision{Allowed: true}
}

func contains(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
