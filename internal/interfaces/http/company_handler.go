package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/feedback-api/internal/application/auth"
	"github.com/jhoicas/feedback-api/internal/application/dto"
	"github.com/jhoicas/feedback-api/internal/application/quota"
	"github.com/jhoicas/feedback-api/internal/application/usecase"
	"github.com/jhoicas/feedback-api/internal/domain"
	"github.com/jhoicas/feedback-api/internal/domain/entity"
)

// CompanyHandler maneja las peticiones HTTP para el recurso Company.
type CompanyHandler struct {
	uc    *usecase.CompanyUseCase
	quota *quota.Enforcer
}

// NewCompanyHandler construye el handler inyectando los casos de uso.
func NewCompanyHandler(uc *usecase.CompanyUseCase, enforcer *quota.Enforcer) *CompanyHandler {
	return &CompanyHandler{uc: uc, quota: enforcer}
}

// Create godoc
// @Summary      Registrar empresa (administrador)
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCompanyRequest  true  "Datos de la empresa"
// @Success      201   {object}  dto.CompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/companies [post]
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCompanyRequest
	if err := parseBody(c, &in); err != nil {
		return respondBodyError(c, err)
	}
	out, err := h.uc.Register(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener empresa por ID
// @Tags         companies
// @Produce      json
// @Param        id   path  int  true  "ID de la empresa"
// @Success      200  {object}  dto.CompanyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/companies/{id} [get]
func (h *CompanyHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), targetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByCode godoc
// @Summary      Obtener empresa por código público
// @Tags         companies
// @Produce      json
// @Param        code  path  string  true  "Código COMPXXXXXX"
// @Success      200   {object}  dto.CompanyResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/companies/code/{code} [get]
func (h *CompanyHandler) GetByCode(c *fiber.Ctx) error {
	principal := GetPrincipal(c)
	roles := []string{entity.RoleCompany, entity.RoleAdmin}
	if err := auth.Authorize(principal, roles, nil).Err(); err != nil {
		return writeError(c, err)
	}
	code := c.Params("code")
	if principal.Role != entity.RoleCompany {
		out, err := h.uc.GetByCode(c.UserContext(), code)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(out)
	}

	// Una empresa solo resuelve su propio código; cualquier otro recibe la misma
	// denegación, exista o no.
	own, err := h.uc.GetByID(c.UserContext(), principal.CompanyID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return writeError(c, err)
	}
	if own == nil || !strings.EqualFold(own.Code, strings.TrimSpace(code)) {
		return writeError(c, domain.NewUnauthorizedError(auth.RedirectCompanyHome))
	}
	return c.JSON(own)
}

// List godoc
// @Summary      Listar empresas
// @Tags         companies
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.CompanyListResponse
// @Router       /api/companies [get]
func (h *CompanyHandler) List(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	out, err := h.uc.List(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// TransitionStatus godoc
// @Summary      Cambiar estado del ciclo de vida (trial, active, blocked)
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id    path  int                          true  "ID de la empresa"
// @Param        body  body  dto.TransitionStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.CompanyResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/status [post]
func (h *CompanyHandler) TransitionStatus(c *fiber.Ctx) error {
	var in dto.TransitionStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.TransitionStatus(c.UserContext(), targetCompanyID(c), in.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ChangePlan godoc
// @Summary      Cambiar plan
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id    path  int                    true  "ID de la empresa"
// @Param        body  body  dto.ChangePlanRequest  true  "Plan destino"
// @Success      200   {object}  dto.CompanyResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/plan [post]
func (h *CompanyHandler) ChangePlan(c *fiber.Ctx) error {
	var in dto.ChangePlanRequest
	if err := parseBody(c, &in); err != nil {
		return respondBodyError(c, err)
	}
	out, err := h.uc.ChangePlan(c.UserContext(), targetCompanyID(c), in.PlanID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateProfile godoc
// @Summary      Actualizar nombre o empleados
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id    path  int                       true  "ID de la empresa"
// @Param        body  body  dto.UpdateCompanyRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.CompanyResponse
// @Router       /api/companies/{id} [patch]
func (h *CompanyHandler) UpdateProfile(c *fiber.Ctx) error {
	var in dto.UpdateCompanyRequest
	if err := parseBody(c, &in); err != nil {
		return respondBodyError(c, err)
	}
	out, err := h.uc.UpdateProfile(c.UserContext(), targetCompanyID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Usage godoc
// @Summary      Consumo actual frente a los límites del plan
// @Tags         companies
// @Produce      json
// @Param        id   path  int  true  "ID de la empresa"
// @Success      200  {object}  dto.UsageResponse
// @Router       /api/companies/{id}/usage [get]
func (h *CompanyHandler) Usage(c *fiber.Ctx) error {
	out, err := h.quota.CurrentUsage(c.UserContext(), targetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// pageFromQuery lee limit/offset con los valores por defecto de dto.PageRequest.
func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	page := dto.PageRequest{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	page.DefaultPage()
	return page
}
