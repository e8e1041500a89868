package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	// ErrDocNoCollision lo devuelve el repositorio de ventas cuando el INSERT choca con el
	// índice único de doc_no. Se recupera localmente reintentando con otro número.
	ErrDocNoCollision = errors.New("número de documento duplicado")
	// ErrDocNoExhausted se devuelve cuando se agotan los intentos de asignar doc_no.
	ErrDocNoExhausted = errors.New("no se pudo asignar un número de documento libre")
)

// ValidationError error de validación con mensaje visible para el usuario.
type ValidationError struct {
	Message string
}

// NewValidationError construye un ValidationError con formato.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string { return e.Message }

// Unwrap permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// StockProblem línea que dejaría el stock en negativo.
type StockProblem struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Remain int    `json:"remain"`
	Need   int    `json:"need"`
}

// InsufficientStockError lista las líneas sin stock suficiente. No hubo mutación.
type InsufficientStockError struct {
	Problems []StockProblem
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, fmt.Sprintf("%s (stock %d, pedido %d)", p.Code, p.Remain, p.Need))
	}
	return "stock insuficiente: " + strings.Join(parts, ", ")
}

// Unwrap permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
