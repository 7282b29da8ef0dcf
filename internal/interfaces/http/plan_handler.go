package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/feedback-api/internal/application/dto"
	"github.com/jhoicas/feedback-api/internal/application/usecase"
)

// PlanHandler catálogo de planes y ajustes del plan gratuito.
type PlanHandler struct {
	uc *usecase.PlanUseCase
}

// NewPlanHandler construye el handler.
func NewPlanHandler(uc *usecase.PlanUseCase) *PlanHandler {
	return &PlanHandler{uc: uc}
}

// List godoc
// @Summary      Listar planes (free, de pago y personalizados)
// @Tags         plans
// @Produce      json
// @Success      200  {array}  dto.PlanResponse
// @Router       /api/plans [get]
func (h *PlanHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListPlans(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear plan personalizado
// @Tags         plans
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePlanRequest  true  "Definición del plan"
// @Success      201   {object}  dto.PlanResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/plans [post]
func (h *PlanHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePlanRequest
	if err := parseBody(c, &in); err != nil {
		return respondBodyError(c, err)
	}
	out, err := h.uc.CreateCustomPlan(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetFreeSettings godoc
// @Summary      Ajustes del plan gratuito
// @Tags         plans
// @Produce      json
// @Success      200  {object}  dto.FreePlanSettingsDTO
// @Router       /api/plans/free-settings [get]
func (h *PlanHandler) GetFreeSettings(c *fiber.Ctx) error {
	out, err := h.uc.GetFreePlanSettings(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateFreeSettings godoc
// @Summary      Actualizar ajustes del plan gratuito (parcial)
// @Tags         plans
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateFreePlanSettingsRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.FreePlanSettingsDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/plans/free-settings [post]
func (h *PlanHandler) UpdateFreeSettings(c *fiber.Ctx) error {
	var in dto.UpdateFreePlanSettingsRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateFreePlanSettings(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
