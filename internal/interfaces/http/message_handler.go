package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/feedback-api/internal/application/auth"
	"github.com/jhoicas/feedback-api/internal/application/dto"
	"github.com/jhoicas/feedback-api/internal/application/usecase"
	"github.com/jhoicas/feedback-api/internal/domain/entity"
)

// MessageHandler envío anónimo, consulta pública y atención de mensajes.
type MessageHandler struct {
	uc *usecase.MessageUseCase
}

// NewMessageHandler construye el handler.
func NewMessageHandler(uc *usecase.MessageUseCase) *MessageHandler {
	return &MessageHandler{uc: uc}
}

// Submit godoc
// @Summary      Enviar mensaje anónimo
// @Description  No requiere sesión. El ID devuelto es la única forma de consultar el mensaje.
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitMessageRequest  true  "company_code, type, content"
// @Success      201   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      402   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/messages [post]
func (h *MessageHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitMessageRequest
	if err := parseBody(c, &in); err != nil {
		return respondBodyError(c, err)
	}
	out, err := h.uc.Submit(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Lookup godoc
// @Summary      Consultar mensaje por ID
// @Tags         messages
// @Produce      json
// @Param        id   path  string  true  "ID FB-YYYY-XXXXXXXX"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/messages/{id} [get]
func (h *MessageHandler) Lookup(c *fiber.Ctx) error {
	out, err := h.uc.Lookup(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Avanzar estado y responder
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID del mensaje"
// @Param        body  body  dto.UpdateMessageStatusRequest  true  "status, response"
// @Success      200   {object}  dto.MessageResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/messages/{id}/status [post]
func (h *MessageHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateMessageStatusRequest
	if err := parseBody(c, &in); err != nil {
		return respondBodyError(c, err)
	}
	ctx := c.UserContext()
	owner, err := h.uc.OwnerCompanyID(ctx, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	roles := []string{entity.RoleCompany, entity.RoleAdmin}
	if err := auth.Authorize(GetPrincipal(c), roles, &owner).Err(); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.UpdateStatus(ctx, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListByCompany godoc
// @Summary      Bandeja de mensajes de una empresa
// @Tags         messages
// @Produce      json
// @Param        id      path   int     true   "ID de la empresa"
// @Param        status  query  string  false  "new | in_progress | resolved"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.MessageListResponse
// @Router       /api/companies/{id}/messages [get]
func (h *MessageHandler) ListByCompany(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	out, err := h.uc.ListByCompany(c.UserContext(), targetCompanyID(c), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListAll godoc
// @Summary      Moderación: mensajes de todas las empresas
// @Tags         admin
// @Produce      json
// @Param        status  query  string  false  "new | in_progress | resolved"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.MessageListResponse
// @Router       /api/admin/messages [get]
func (h *MessageHandler) ListAll(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	out, err := h.uc.ListAll(c.UserContext(), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
