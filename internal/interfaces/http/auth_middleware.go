package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/feedback-api/internal/application/auth"
	"github.com/jhoicas/feedback-api/internal/application/dto"
	"github.com/jhoicas/feedback-api/internal/domain"
	"github.com/jhoicas/feedback-api/internal/domain/entity"
	"github.com/jhoicas/feedback-api/pkg/jwt"
)

// Locals keys en Fiber.
const (
	LocalUserID        = "user_id"
	LocalCompanyID     = "company_id"
	LocalRole          = "role"
	LocalTargetCompany = "target_company_id"
	LocalLogger        = "logger"
)

// AuthMiddleware valida el Bearer Token JWT y carga el principal en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code: "MISSING_TOKEN", Message: "Authorization header requerido", Redirect: auth.RedirectLogin,
			})
		}
		if body := loadPrincipal(c, jwtSecret, authHeader); body != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(body)
		}
		if GetRole(c) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code: "MISSING_ROLE", Message: "el token no incluye rol", Redirect: auth.RedirectLogin,
			})
		}
		return c.Next()
	}
}

// OptionalAuth carga el principal si hay token; sin header la petición sigue como anónima.
// Un token presente pero inválido sí se rechaza.
func OptionalAuth(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}
		if body := loadPrincipal(c, jwtSecret, authHeader); body != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(body)
		}
		return c.Next()
	}
}

// loadPrincipal carga el principal del token. Devuelve el cuerpo de error si no es válido.
func loadPrincipal(c *fiber.Ctx, jwtSecret, authHeader string) *dto.ErrorResponse {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return &dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>", Redirect: auth.RedirectLogin}
	}
	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return &dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío", Redirect: auth.RedirectLogin}
	}
	userID, companyID, role, err := jwt.Parse(jwtSecret, tokenString)
	if err != nil {
		return &dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado", Redirect: auth.RedirectLogin}
	}
	c.Locals(LocalUserID, userID)
	c.Locals(LocalCompanyID, companyID)
	c.Locals(LocalRole, role)
	return nil
}

// RequireRole autoriza solo a los roles indicados. Debe ir después de AuthMiddleware u OptionalAuth.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := auth.Authorize(GetPrincipal(c), roles, nil).Err(); err != nil {
			return writeError(c, err)
		}
		return c.Next()
	}
}

// RequireCompanyAccess exige rol company o admin sobre la empresa :id de la ruta.
// Una empresa solo accede a la suya. El ID validado queda en LocalTargetCompany.
func RequireCompanyAccess() fiber.Handler {
	roles := []string{entity.RoleCompany, entity.RoleAdmin}
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil || id <= 0 {
			return writeError(c, domain.NewValidationError("id"))
		}
		if err := auth.Authorize(GetPrincipal(c), roles, &id).Err(); err != nil {
			return writeError(c, err)
		}
		c.Locals(LocalTargetCompany, id)
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetCompanyID devuelve el CompanyID del token; 0 para administradores y anónimos.
func GetCompanyID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(LocalCompanyID).(int64)
	return id
}

// GetRole devuelve el rol del token; vacío si la petición es anónima.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}

// GetPrincipal arma el principal para el AuthGate.
func GetPrincipal(c *fiber.Ctx) entity.Principal {
	role := GetRole(c)
	if role == "" {
		return entity.Anonymous()
	}
	return entity.Principal{Role: role, UserID: GetUserID(c), CompanyID: GetCompanyID(c)}
}

// targetCompanyID empresa autorizada por RequireCompanyAccess.
func targetCompanyID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(LocalTargetCompany).(int64)
	return id
}
