package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CompanyStatus estado del ciclo de vida de un tenant.
type CompanyStatus string

const (
	CompanyStatusTrial   CompanyStatus = "trial"
	CompanyStatusActive  CompanyStatus = "active"
	CompanyStatusBlocked CompanyStatus = "blocked"
)

// Valid informa si el estado pertenece al conjunto conocido.
func (s CompanyStatus) Valid() bool {
	switch s {
	case CompanyStatusTrial, CompanyStatusActive, CompanyStatusBlocked:
		return true
	}
	return false
}

// companyTransitions aristas permitidas del ciclo de vida. No existe vuelta a Trial.
var companyTransitions = map[CompanyStatus][]CompanyStatus{
	CompanyStatusTrial:   {CompanyStatusActive, CompanyStatusBlocked},
	CompanyStatusActive:  {CompanyStatusBlocked},
	CompanyStatusBlocked: {CompanyStatusActive},
}

// CanTransition informa si from → to es una transición legal.
func CanTransition(from, to CompanyStatus) bool {
	for _, s := range companyTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Company representa una organización/tenant que recibe feedback anónimo.
type Company struct {
	ID                 int64
	Name               string
	Code               string // código público COMPXXXXXX, inmutable
	AdminContact       string
	Status             CompanyStatus
	PlanID             string
	RegisteredAt       time.Time
	TrialEndsAt        *time.Time // solo mientras Status = trial
	Employees          int
	MessagesThisPeriod int64
	StorageUsed        decimal.Decimal // GB
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TrialExpired informa si la fecha de fin de prueba ya pasó en now.
// El instante exacto de fin todavía es periodo de prueba.
func (c *Company) TrialExpired(now time.Time) bool {
	return c.Status == CompanyStatusTrial && c.TrialEndsAt != nil && now.After(*c.TrialEndsAt)
}

// EffectiveStatus aplica la expiración perezosa del periodo de prueba:
// un Trial vencido se comporta como Active aunque no se haya persistido.
func (c *Company) EffectiveStatus(now time.Time) CompanyStatus {
	if c.TrialExpired(now) {
		return CompanyStatusActive
	}
	return c.Status
}

// CatchUpTrial persiste en memoria el paso Trial → Active cuando la prueba venció.
// Devuelve true si cambió algo.
func (c *Company) CatchUpTrial(now time.Time) bool {
	if !c.TrialExpired(now) {
		return false
	}
	c.Status = CompanyStatusActive
	c.TrialEndsAt = nil
	c.UpdatedAt = now
	return true
}

// Clone copia la empresa, incluido el puntero de fin de prueba.
func (c *Company) Clone() *Company {
	out := *c
	if c.TrialEndsAt != nil {
		t := *c.TrialEndsAt
		out.TrialEndsAt = &t
	}
	return &out
}
