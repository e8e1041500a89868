package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sakura-shop/backoffice/internal/application/analytics"
)

// DashboardHandler expone el resumen del mes en curso.
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary godoc
// @Summary      Resumen del dashboard
// @Description  Ventas, COGS, margen, gasto en anuncios y ROAS del mes actual (hora de Bangkok).
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	out, err := h.uc.GetSummary(c.Context())
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(out)
}
