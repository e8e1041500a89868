package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sakura-shop/backoffice/internal/application/analytics"
)

// ReportsHandler reportes por período.
type ReportsHandler struct {
	channels *analytics.ChannelReportUseCase
}

// NewReportsHandler construye el handler.
func NewReportsHandler(channels *analytics.ChannelReportUseCase) *ReportsHandler {
	return &ReportsHandler{channels: channels}
}

// SalesByChannel godoc
// @Summary      Ventas por canal
// @Description  Agrupa ventas vigentes por canal y cruza con el gasto en anuncios de la plataforma.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Desde (YYYY-MM-DD o DD/MM/YYYY); por defecto inicio de mes"
// @Param        to    query  string  false  "Hasta; por defecto hoy"
// @Success      200  {object}  dto.SalesByChannelDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/sales-by-channel [get]
func (h *ReportsHandler) SalesByChannel(c *fiber.Ctx) error {
	out, err := h.channels.SalesByChannel(c.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(out)
}
