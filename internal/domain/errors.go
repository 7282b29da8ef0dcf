package domain

import (
	"errors"
	"fmt"
)

// Kind clasifica los errores de negocio que la capa de presentación sabe traducir.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindNotFound      Kind = "not_found"
	KindConflict      Kind = "conflict"
	KindQuotaExceeded Kind = "quota_exceeded"
	KindUnauthorized  Kind = "unauthorized"
)

// Sentinelas por tipo: errors.Is(err, domain.ErrNotFound) funciona con cualquier *Error del mismo Kind.
var (
	ErrValidation    = &Error{Kind: KindValidation}
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrConflict      = &Error{Kind: KindConflict}
	ErrQuotaExceeded = &Error{Kind: KindQuotaExceeded}
	ErrUnauthorized  = &Error{Kind: KindUnauthorized}
)

// Errores internos de infraestructura (no llegan al cliente tal cual).
var (
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrInactiveAccount    = errors.New("cuenta inactiva")
)

// Error es un fallo de negocio tipado. No contiene texto para el usuario final:
// solo el tipo y el campo o recurso afectado.
type Error struct {
	Kind     Kind
	Field    string
	Resource string
	Limit    string
	Current  string
	Redirect string
}

func (e *Error) Error() string {
	switch {
	case e.Field != "" && e.Resource != "":
		return fmt.Sprintf("%s: %s.%s", e.Kind, e.Resource, e.Field)
	case e.Field != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Field)
	case e.Resource != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Resource)
	}
	return string(e.Kind)
}

// Is compara solo el Kind, de modo que las sentinelas sirvan para errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func NewValidationError(field string) *Error {
	return &Error{Kind: KindValidation, Field: field}
}

func NewNotFoundError(resource string) *Error {
	return &Error{Kind: KindNotFound, Resource: resource}
}

// NewConflictError señala una transición ilegal o una clave duplicada tras agotar reintentos.
func NewConflictError(resource, field string) *Error {
	return &Error{Kind: KindConflict, Resource: resource, Field: field}
}

// NewQuotaExceededError indica que el recurso alcanzó el límite del plan.
func NewQuotaExceededError(resource, limit, current string) *Error {
	return &Error{Kind: KindQuotaExceeded, Resource: resource, Limit: limit, Current: current}
}

// NewUnauthorizedError lleva el destino de redirección decidido por el AuthGate.
func NewUnauthorizedError(redirect string) *Error {
	return &Error{Kind: KindUnauthorized, Redirect: redirect}
}

// AsError extrae el *Error de una cadena envuelta.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
