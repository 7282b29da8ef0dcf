package dto

import "github.com/shopspring/decimal"

// DistributionResponse mensajes de una empresa por tipo.
type DistributionResponse struct {
	Complaints  int `json:"complaints"`
	Praises     int `json:"praises"`
	Suggestions int `json:"suggestions"`
}

// CompanyTotalsResponse agregados de plataforma para administradores.
type CompanyTotalsResponse struct {
	TotalCompanies   int `json:"total_companies"`
	ActiveCompanies  int `json:"active_companies"`
	TotalMessages    int `json:"total_messages"`
	ResolvedMessages int `json:"resolved_messages"`
}

// StatusCountsResponse mensajes de una empresa por estado.
type StatusCountsResponse struct {
	New        int `json:"new"`
	InProgress int `json:"in_progress"`
	Resolved   int `json:"resolved"`
	Total      int `json:"total"`
}

// Valores de Mood y Trend.
const (
	MoodPositive = "positive"
	MoodNeutral  = "neutral"
	MoodNegative = "negative"

	TrendUp   = "up"
	TrendDown = "down"
	TrendFlat = "flat"
)

// GrowthResponse puntuación de crecimiento (0–10) con ánimo y tendencia.
type GrowthResponse struct {
	Rating         decimal.Decimal `json:"rating"`
	Mood           string          `json:"mood"`
	Trend          string          `json:"trend"`
	Last30Days     int             `json:"last_30_days"`
	Previous30Days int             `json:"previous_30_days"`
}

// CompanyReport datos que alimentan el PDF de estadísticas.
type CompanyReport struct {
	Company      CompanyResponse      `json:"company"`
	Distribution DistributionResponse `json:"distribution"`
	Status       StatusCountsResponse `json:"status"`
	Growth       GrowthResponse       `json:"growth"`
}
