package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists  = errors.New("el email ya está registrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrEmptyCart           = errors.New("el carrito está vacío")
	ErrInsufficientPayment = errors.New("el pago no cubre el total de la venta")
	ErrInvalidTransition   = errors.New("transición de estado no permitida")
	ErrSaleBusy            = errors.New("la venta tiene una operación en curso")
	ErrTimeout             = errors.New("la operación excedió el tiempo límite")
)
