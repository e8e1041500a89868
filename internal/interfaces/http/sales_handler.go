package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/sakura-shop/backoffice/internal/application/dto"
	"github.com/sakura-shop/backoffice/internal/application/sales"
	"github.com/sakura-shop/backoffice/internal/domain/entity"
)

// salePDFRenderer genera el PDF de una venta (infrastructure/pdf).
type salePDFRenderer interface {
	GenerateSalePDF(ctx context.Context, sale *entity.Sale) ([]byte, error)
}

// saleXMLExporter serializa una venta a XML (infrastructure/export).
type saleXMLExporter interface {
	Export(sale *entity.Sale) ([]byte, error)
}

// SalesHandler maneja las peticiones HTTP de órdenes de venta (protegido).
type SalesHandler struct {
	create  *sales.CreateOrderUseCase
	restore *sales.RestoreUseCase
	query   *sales.QueryUseCase
	pdf     salePDFRenderer
	xml     saleXMLExporter
}

// NewSalesHandler construye el handler.
func NewSalesHandler(
	create *sales.CreateOrderUseCase,
	restore *sales.RestoreUseCase,
	query *sales.QueryUseCase,
	pdf salePDFRenderer,
	xml saleXMLExporter,
) *SalesHandler {
	return &SalesHandler{create: create, restore: restore, query: query, pdf: pdf, xml: xml}
}

// Create godoc
// @Summary      Crear orden de venta
// @Description  Crea la venta, descuenta stock y asigna doc_no SO-{año budista}{MM}{DD}{NNN}.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Pedido"
// @Success      201   {object}  dto.CreateSaleResult
// @Failure      400   {object}  dto.SaleFailure
// @Failure      409   {object}  dto.SaleFailure
// @Router       /api/sales [post]
func (h *SalesHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.SaleFailure{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.create.Create(c.Context(), actor(c), in)
	if err != nil {
		return writeSaleError(c, err, fiber.StatusBadRequest)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        from             query  string  false  "Desde (YYYY-MM-DD o DD/MM/YYYY)"
// @Param        to               query  string  false  "Hasta"
// @Param        channel          query  string  false  "Canal"
// @Param        status           query  string  false  "NEW | PENDING | CONFIRMED | CANCELLED"
// @Param        q                query  string  false  "Busca en doc_no y cliente"
// @Param        include_deleted  query  bool    false  "Incluir eliminadas"
// @Param        limit            query  int     false  "Límite"  default(20)
// @Param        offset           query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.SaleListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales [get]
func (h *SalesHandler) List(c *fiber.Ctx) error {
	var q dto.SaleListQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos"})
	}
	out, err := h.query.List(c.Context(), q)
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener venta por id o doc_no
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        idOrDocNo  path  string  true  "ID o doc_no"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{idOrDocNo} [get]
func (h *SalesHandler) Get(c *fiber.Ctx) error {
	out, err := h.query.GetResponse(c.Context(), c.Params("idOrDocNo"))
	if err != nil {
		return writeError(c, err, "venta no encontrada")
	}
	return c.JSON(out)
}

// ChangeStatus godoc
// @Summary      Cambiar estado de la venta
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        idOrDocNo  path  string                        true  "ID o doc_no"
// @Param        body       body  dto.ChangeSaleStatusRequest   true  "Nuevo estado"
// @Success      200  {object}  dto.OKResponse
// @Failure      400  {object}  dto.SaleFailure
// @Failure      404  {object}  dto.SaleFailure
// @Router       /api/sales/{idOrDocNo}/status [patch]
func (h *SalesHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.ChangeSaleStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.SaleFailure{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.restore.ChangeStatus(c.Context(), actor(c), c.Params("idOrDocNo"), in.Status); err != nil {
		return writeSaleError(c, err, fiber.StatusConflict)
	}
	return c.JSON(dto.OKResponse{OK: true})
}

// Delete godoc
// @Summary      Eliminar venta (soft delete, devuelve stock)
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        idOrDocNo  path  string  true  "ID o doc_no"
// @Success      200  {object}  dto.OKResponse
// @Failure      400  {object}  dto.SaleFailure
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.SaleFailure
// @Router       /api/sales/{idOrDocNo} [delete]
func (h *SalesHandler) Delete(c *fiber.Ctx) error {
	if err := h.restore.Delete(c.Context(), actor(c), c.Params("idOrDocNo")); err != nil {
		return writeSaleError(c, err, fiber.StatusConflict)
	}
	return c.JSON(dto.OKResponse{OK: true})
}

// Restore godoc
// @Summary      Restaurar venta eliminada
// @Description  Vuelve a descontar el stock. Sin force rechaza con 409 y el detalle por producto.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RestoreSaleRequest  true  "idOrDocNo y force"
// @Success      200  {object}  dto.OKResponse
// @Failure      400  {object}  dto.SaleFailure
// @Failure      409  {object}  dto.SaleFailure
// @Router       /api/sales/restore [post]
func (h *SalesHandler) Restore(c *fiber.Ctx) error {
	var in dto.RestoreSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.SaleFailure{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.restore.Restore(c.Context(), actor(c), in.IDOrDocNo, in.Force); err != nil {
		return writeSaleError(c, err, fiber.StatusConflict)
	}
	return c.JSON(dto.OKResponse{OK: true})
}

// PDF godoc
// @Summary      Documento PDF de la venta
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        idOrDocNo  path  string  true  "ID o doc_no"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{idOrDocNo}/pdf [get]
func (h *SalesHandler) PDF(c *fiber.Ctx) error {
	sale, err := h.query.Get(c.Context(), c.Params("idOrDocNo"))
	if err != nil {
		return writeError(c, err, "venta no encontrada")
	}
	out, err := h.pdf.GenerateSalePDF(c.Context(), sale)
	if err != nil {
		return writeError(c, err, "")
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+sale.DocNo+`.pdf"`)
	return c.Send(out)
}

// XML godoc
// @Summary      Exportar venta en XML
// @Tags         sales
// @Security     Bearer
// @Produce      application/xml
// @Param        idOrDocNo  path  string  true  "ID o doc_no"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{idOrDocNo}/xml [get]
func (h *SalesHandler) XML(c *fiber.Ctx) error {
	sale, err := h.query.Get(c.Context(), c.Params("idOrDocNo"))
	if err != nil {
		return writeError(c, err, "venta no encontrada")
	}
	out, err := h.xml.Export(sale)
	if err != nil {
		return writeError(c, err, "")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+sale.DocNo+`.xml"`)
	return c.Send(out)
}
