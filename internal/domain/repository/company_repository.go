package repository

import (
	"context"
	"time"

	"github.com/jhoicas/feedback-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure. Los Get devuelven (nil, nil) si no existe.
type CompanyRepository interface {
	// Create asigna ID y persiste. Devuelve domain.ErrDuplicate si el código ya existe.
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id int64) (*entity.Company, error)
	GetByCode(ctx context.Context, code string) (*entity.Company, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	// List ordena por fecha de alta descendente y devuelve también el total.
	List(ctx context.Context, limit, offset int) ([]*entity.Company, int, error)

	// UpdateLocked lee la empresa con bloqueo exclusivo, aplica fn y persiste el resultado
	// en el mismo paso indivisible. Si fn devuelve error no se guarda nada.
	// Es la única vía de escritura tras el alta: así estado, plan y contadores nunca se pisan.
	// Devuelve (nil, nil) si la empresa no existe.
	UpdateLocked(ctx context.Context, id int64, fn func(c *entity.Company) error) (*entity.Company, error)
}

// CompanyCounts agregados de empresas para el panel de administración.
type CompanyCounts struct {
	Total  int
	Active int // por estado efectivo
}

// CompanyStatsReader consulta de solo lectura sobre empresas.
type CompanyStatsReader interface {
	CountCompanies(ctx context.Context, now time.Time) (CompanyCounts, error)
}
