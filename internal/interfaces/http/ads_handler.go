package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sakura-shop/backoffice/internal/application/ads"
	"github.com/sakura-shop/backoffice/internal/application/dto"
)

// maxImportSize tamaño máximo del CSV de anuncios.
const maxImportSize = 10 << 20

// AdsHandler importación del gasto publicitario.
type AdsHandler struct {
	uc *ads.ImportUseCase
}

// NewAdsHandler construye el handler.
func NewAdsHandler(uc *ads.ImportUseCase) *AdsHandler {
	return &AdsHandler{uc: uc}
}

// Import godoc
// @Summary      Importar gasto en anuncios (CSV)
// @Description  Columnas: date, platform, campaign, spend, impressions, clicks. Upsert por (date, platform, campaign).
// @Tags         ads
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file      formData  file    true   "Archivo CSV"
// @Param        encoding  formData  string  false  "utf-8 | windows-874"
// @Success      200  {object}  dto.ImportResultDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ads/import [post]
func (h *AdsHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "campo file requerido"})
	}
	if fh.Size > maxImportSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{Code: "FILE_TOO_LARGE", Message: "el archivo supera 10MB"})
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, err, "")
	}
	defer f.Close()

	out, err := h.uc.Import(c.Context(), f, ads.ImportOptions{Encoding: c.FormValue("encoding")})
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(out)
}
