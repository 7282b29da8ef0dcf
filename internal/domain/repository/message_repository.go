package repository

import (
	"context"

	"github.com/jhoicas/feedback-api/internal/domain/entity"
)

// MessageFilter filtros del listado de mensajes.
type MessageFilter struct {
	CompanyCode string
	Status      entity.MessageStatus // vacío = todos
	Limit       int
	Offset      int
}

// MessageRepository define el puerto de persistencia para Message.
type MessageRepository interface {
	// Create devuelve domain.ErrDuplicate si el ID ya existe (colisión).
	Create(ctx context.Context, msg *entity.Message) error
	GetByID(ctx context.Context, id string) (*entity.Message, error)
	// UpdateLocked serializa las escrituras sobre el mensaje: fn recibe el estado vigente
	// y, si no devuelve error, el resultado se guarda. (nil, nil) si el mensaje no existe.
	UpdateLocked(ctx context.Context, id string, fn func(m *entity.Message) error) (*entity.Message, error)
	// List ordena por fecha de creación descendente. CompanyCode vacío = todas las empresas.
	List(ctx context.Context, f MessageFilter) ([]*entity.Message, int, error)
}
