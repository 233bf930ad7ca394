package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrPhoneAlreadyExists = errors.New("el teléfono ya está registrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrStateConflict     = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInventoryRace     = errors.New("stock modificado por otra venta, reintentar")
)

// ValidationError error de validación con detalle por campo.
// errors.Is(err, ErrInvalidInput) == true.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError construye un ValidationError.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// InsufficientStockError la cantidad pedida de un ítem supera el stock disponible.
// errors.Is(err, ErrInsufficientStock) == true.
type InsufficientStockError struct {
	StockID string
	Product string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %q (%s)", e.Product, e.StockID)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
