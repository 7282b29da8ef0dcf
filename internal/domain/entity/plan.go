package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Identificadores de los planes incorporados.
const (
	PlanFree     = "free"
	PlanStandard = "standard"
	PlanPro      = "pro"
)

// UnlimitedQuota como límite de mensajes o almacenamiento significa "sin límite".
const UnlimitedQuota = 0

// Locale clave BCP 47 de un texto localizado. El núcleo nunca la interpreta.
type Locale string

const (
	LocaleRU Locale = "ru"
	LocaleEN Locale = "en"
	LocaleKK Locale = "kk"
)

// LocalizedText texto por idioma; la elección del idioma es de la capa de presentación.
type LocalizedText map[Locale]string

// Capability funcionalidad opcional habilitada por un plan.
type Capability string

const (
	CapabilityGrowthMetrics Capability = "growth_metrics"
	CapabilityReportsPDF    Capability = "reports_pdf"
)

// AllCapabilities las que concede el periodo de prueba.
var AllCapabilities = []Capability{CapabilityGrowthMetrics, CapabilityReportsPDF}

// Plan nivel de suscripción. Los planes de pago son inmutables una vez definidos.
type Plan struct {
	ID            string
	Name          LocalizedText
	Price         int64 // 0 = plan gratuito
	MessagesLimit int64 // por periodo; UnlimitedQuota = sin límite
	StorageLimit  decimal.Decimal
	Features      []LocalizedText
	Capabilities  []Capability
	Custom        bool
	CreatedAt     time.Time
}

// IsFree informa si es el plan gratuito.
func (p *Plan) IsFree() bool { return p.Price == 0 }

// HasCapability informa si el plan incluye la funcionalidad.
func (p *Plan) HasCapability(c Capability) bool {
	for _, pc := range p.Capabilities {
		if pc == c {
			return true
		}
	}
	return false
}

// FreePlanSettings configuración editable del plan gratuito (singleton).
type FreePlanSettings struct {
	MessagesLimit  int64
	StorageLimit   decimal.Decimal
	FreePeriodDays int
	UpdatedAt      time.Time
}

// DefaultFreePlanSettings valores de fábrica: 10 mensajes, 1 GB, 60 días.
func DefaultFreePlanSettings() FreePlanSettings {
	return FreePlanSettings{
		MessagesLimit:  10,
		StorageLimit:   decimal.NewFromInt(1),
		FreePeriodDays: 60,
	}
}
