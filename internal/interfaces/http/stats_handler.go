package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/feedback-api/internal/application/analytics"
)

// StatsHandler estadísticas por empresa y agregados de plataforma.
type StatsHandler struct {
	uc *analytics.StatsUseCase
}

// NewStatsHandler construye el handler.
func NewStatsHandler(uc *analytics.StatsUseCase) *StatsHandler {
	return &StatsHandler{uc: uc}
}

// Distribution godoc
// @Summary      Mensajes por tipo
// @Tags         stats
// @Produce      json
// @Param        id   path  int  true  "ID de la empresa"
// @Success      200  {object}  dto.DistributionResponse
// @Router       /api/companies/{id}/stats/distribution [get]
func (h *StatsHandler) Distribution(c *fiber.Ctx) error {
	out, err := h.uc.Distribution(c.UserContext(), targetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// StatusCounts godoc
// @Summary      Mensajes por estado
// @Tags         stats
// @Produce      json
// @Param        id   path  int  true  "ID de la empresa"
// @Success      200  {object}  dto.StatusCountsResponse
// @Router       /api/companies/{id}/stats/status [get]
func (h *StatsHandler) StatusCounts(c *fiber.Ctx) error {
	out, err := h.uc.StatusCounts(c.UserContext(), targetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Growth godoc
// @Summary      Puntuación de crecimiento, ánimo y tendencia
// @Tags         stats
// @Produce      json
// @Param        id   path  int  true  "ID de la empresa"
// @Success      200  {object}  dto.GrowthResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/stats/growth [get]
func (h *StatsHandler) Growth(c *fiber.Ctx) error {
	out, err := h.uc.Growth(c.UserContext(), targetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ReportPDF godoc
// @Summary      Informe de estadísticas en PDF
// @Tags         stats
// @Produce      application/pdf
// @Param        id   path  int  true  "ID de la empresa"
// @Success      200  {file}    file
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/stats/report.pdf [get]
func (h *StatsHandler) ReportPDF(c *fiber.Ctx) error {
	id := targetCompanyID(c)
	pdf, err := h.uc.ReportPDF(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="stats-%d.pdf"`, id))
	return c.Send(pdf)
}

// CompanyTotals godoc
// @Summary      Agregados de plataforma
// @Tags         admin
// @Produce      json
// @Success      200  {object}  dto.CompanyTotalsResponse
// @Router       /api/admin/stats [get]
func (h *StatsHandler) CompanyTotals(c *fiber.Ctx) error {
	out, err := h.uc.CompanyTotals(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
