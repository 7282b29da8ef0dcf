package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/feedback-api/internal/application/auth"
	"github.com/jhoicas/feedback-api/internal/application/dto"
	"github.com/jhoicas/feedback-api/internal/domain/entity"
)

// capabilityChecker es el contrato mínimo que necesita el middleware para verificar el plan.
// Lo implementa *usecase.CapabilityService.
type capabilityChecker interface {
	HasCapability(ctx context.Context, companyID int64, capability entity.Capability) (bool, error)
}

// RequireCapability verifica que el plan de la empresa :id conceda la funcionalidad.
// Debe usarse DESPUÉS de RequireCompanyAccess. Los administradores no se filtran.
//
// Comportamiento:
//   - 403 Forbidden → el plan no incluye la funcionalidad (y el trial ya terminó).
//   - 404 / 500 → empresa inexistente o fallo de infraestructura.
func RequireCapability(capability entity.Capability, checker capabilityChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetRole(c) == entity.RoleAdmin {
			return c.Next()
		}
		ok, err := checker.HasCapability(c.UserContext(), targetCompanyID(c), capability)
		if err != nil {
			return writeError(c, err)
		}
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:     "FEATURE_NOT_IN_PLAN",
				Message:  "la funcionalidad '" + string(capability) + "' no está incluida en el plan",
				Resource: string(capability),
				Redirect: auth.HomeFor(GetRole(c)),
			})
		}
		return c.Next()
	}
}
