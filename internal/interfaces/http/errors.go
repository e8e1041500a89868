package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/sakura-shop/backoffice/internal/application/dto"
	"github.com/sakura-shop/backoffice/internal/domain"
)

// writeError traduce errores de dominio a status + dto.ErrorResponse.
// notFoundMsg personaliza el 404 del recurso.
func writeError(c *fiber.Ctx, err error, notFoundMsg string) error {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: verr.Message})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: notFoundMsg})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el registro ya existe"})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// writeSaleError usa el contrato {ok:false, ...} de las rutas de ventas.
//   - validación → 400
//   - stock insuficiente → 400 al crear, 409 al restaurar (status lo decide el caller)
//   - doc_no agotado → 409
func writeSaleError(c *fiber.Ctx, err error, stockStatus int) error {
	var verr *domain.ValidationError
	var stockErr *domain.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		return c.Status(stockStatus).JSON(dto.SaleFailure{
			Code:     "INSUFFICIENT_STOCK",
			Message:  stockErr.Error(),
			Problems: stockErr.Problems,
		})
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.SaleFailure{Code: "VALIDATION", Message: verr.Message})
	case errors.Is(err, domain.ErrDocNoExhausted):
		return c.Status(fiber.StatusConflict).JSON(dto.SaleFailure{Code: "DOC_NO_EXHAUSTED", Message: "no se pudo asignar un número de documento, reintente"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.SaleFailure{Code: "NOT_FOUND", Message: "venta no encontrada"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.SaleFailure{Code: "FORBIDDEN", Message: "solo admin o manager"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.SaleFailure{Code: "INTERNAL", Message: err.Error()})
}
