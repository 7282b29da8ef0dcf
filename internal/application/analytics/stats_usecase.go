// Package analytics contiene el StatsAggregator: métricas de solo lectura derivadas de
// empresas y mensajes. No guarda estado ni caché; cada llamada recalcula.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/feedback-api/internal/application/dto"
	"github.com/jhoicas/feedback-api/internal/application/usecase"
	"github.com/jhoicas/feedback-api/internal/domain"
	"github.com/jhoicas/feedback-api/internal/domain/entity"
	"github.com/jhoicas/feedback-api/internal/domain/repository"
)

// growthWindow ventana de comparación para la tendencia.
const growthWindow = 30 * 24 * time.Hour

var (
	ten        = decimal.NewFromInt(10)
	moodHigh   = decimal.NewFromInt(7)
	moodMedium = decimal.NewFromInt(4)
)

// ReportPDFGenerator genera el PDF del informe de estadísticas.
type ReportPDFGenerator interface {
	GenerateStatsReport(ctx context.Context, report *dto.CompanyReport) ([]byte, error)
}

// StatsUseCase agrega estadísticas por empresa y de plataforma.
type StatsUseCase struct {
	repo      repository.AnalyticsRepository
	companies repository.CompanyRepository
	pdf       ReportPDFGenerator
	now       func() time.Time
}

// NewStatsUseCase construye el caso de uso. pdf puede ser nil si no se exportan informes.
func NewStatsUseCase(repo repository.AnalyticsRepository, companies repository.CompanyRepository, pdf ReportPDFGenerator) *StatsUseCase {
	return &StatsUseCase{repo: repo, companies: companies, pdf: pdf, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *StatsUseCase) WithClock(now func() time.Time) *StatsUseCase {
	uc.now = now
	return uc
}

// Distribution mensajes de la empresa por tipo.
func (uc *StatsUseCase) Distribution(ctx context.Context, companyID int64) (*dto.DistributionResponse, error) {
	company, err := uc.company(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return uc.distribution(ctx, company.Code)
}

func (uc *StatsUseCase) distribution(ctx context.Context, code string) (*dto.DistributionResponse, error) {
	counts, err := uc.repo.CountByType(ctx, code)
	if err != nil {
		return nil, err
	}
	return &dto.DistributionResponse{
		Complaints:  counts[entity.MessageTypeComplaint],
		Praises:     counts[entity.MessageTypePraise],
		Suggestions: counts[entity.MessageTypeSuggestion],
	}, nil
}

// StatusCounts mensajes de la empresa por estado.
func (uc *StatsUseCase) StatusCounts(ctx context.Context, companyID int64) (*dto.StatusCountsResponse, error) {
	company, err := uc.company(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return uc.statusCounts(ctx, company.Code)
}

func (uc *StatsUseCase) statusCounts(ctx context.Context, code string) (*dto.StatusCountsResponse, error) {
	counts, err := uc.repo.CountByStatus(ctx, code)
	if err != nil {
		return nil, err
	}
	out := &dto.StatusCountsResponse{
		New:        counts[entity.MessageStatusNew],
		InProgress: counts[entity.MessageStatusInProgress],
		Resolved:   counts[entity.MessageStatusResolved],
	}
	out.Total = out.New + out.InProgress + out.Resolved
	return out, nil
}

// Growth puntuación 0–10: 10 × (resueltos + elogios) / (2 × total), con ánimo y tendencia
// de los últimos 30 días frente a los 30 anteriores.
func (uc *StatsUseCase) Growth(ctx context.Context, companyID int64) (*dto.GrowthResponse, error) {
	company, err := uc.company(ctx, companyID)
	if err != nil {
		return nil, err
	}
	dist, err := uc.distribution(ctx, company.Code)
	if err != nil {
		return nil, err
	}
	status, err := uc.statusCounts(ctx, company.Code)
	if err != nil {
		return nil, err
	}
	return uc.growth(ctx, company.Code, dist, status)
}

func (uc *StatsUseCase) growth(ctx context.Context, code string, dist *dto.DistributionResponse, status *dto.StatusCountsResponse) (*dto.GrowthResponse, error) {
	now := uc.now()
	last, err := uc.repo.CountCreatedBetween(ctx, code, now.Add(-growthWindow), now)
	if err != nil {
		return nil, err
	}
	prev, err := uc.repo.CountCreatedBetween(ctx, code, now.Add(-2*growthWindow), now.Add(-growthWindow))
	if err != nil {
		return nil, err
	}

	rating := decimal.Zero
	mood := dto.MoodNeutral
	if status.Total > 0 {
		rating = decimal.NewFromInt(int64(status.Resolved + dist.Praises)).
			Mul(ten).
			Div(decimal.NewFromInt(int64(2 * status.Total))).
			Round(1)
		mood = moodFor(rating)
	}
	return &dto.GrowthResponse{
		Rating:         rating,
		Mood:           mood,
		Trend:          trendFor(last, prev),
		Last30Days:     last,
		Previous30Days: prev,
	}, nil
}

// CompanyTotals agregados de plataforma para administradores.
func (uc *StatsUseCase) CompanyTotals(ctx context.Context) (*dto.CompanyTotalsResponse, error) {
	companies, err := uc.repo.CountCompanies(ctx, uc.now())
	if err != nil {
		return nil, err
	}
	messages, err := uc.repo.CountMessages(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.CompanyTotalsResponse{
		TotalCompanies:   companies.Total,
		ActiveCompanies:  companies.Active,
		TotalMessages:    messages.Total,
		ResolvedMessages: messages.Resolved,
	}, nil
}

// Report reúne distribución, estados y crecimiento de la empresa.
//
// Dos consultas en paralelo (distribución y estados); el crecimiento depende de ambas.
func (uc *StatsUseCase) Report(ctx context.Context, companyID int64) (*dto.CompanyReport, error) {
	company, err := uc.company(ctx, companyID)
	if err != nil {
		return nil, err
	}

	type distResult struct {
		v   *dto.DistributionResponse
		err error
	}
	type statusResult struct {
		v   *dto.StatusCountsResponse
		err error
	}
	distCh := make(chan distResult, 1)
	statusCh := make(chan statusResult, 1)

	go func() {
		v, err := uc.distribution(ctx, company.Code)
		distCh <- distResult{v, err}
	}()
	go func() {
		v, err := uc.statusCounts(ctx, company.Code)
		statusCh <- statusResult{v, err}
	}()

	dist := <-distCh
	status := <-statusCh
	if dist.err != nil {
		return nil, fmt.Errorf("stats: distribución: %w", dist.err)
	}
	if status.err != nil {
		return nil, fmt.Errorf("stats: estados: %w", status.err)
	}

	growth, err := uc.growth(ctx, company.Code, dist.v, status.v)
	if err != nil {
		return nil, fmt.Errorf("stats: crecimiento: %w", err)
	}
	return &dto.CompanyReport{
		Company:      *usecase.CompanyToResponse(company, uc.now()),
		Distribution: *dist.v,
		Status:       *status.v,
		Growth:       *growth,
	}, nil
}

// ReportPDF genera el informe en PDF.
func (uc *StatsUseCase) ReportPDF(ctx context.Context, companyID int64) ([]byte, error) {
	if uc.pdf == nil {
		return nil, fmt.Errorf("stats: generador PDF no configurado")
	}
	report, err := uc.Report(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateStatsReport(ctx, report)
}

func (uc *StatsUseCase) company(ctx context.Context, id int64) (*entity.Company, error) {
	c, err := uc.companies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NewNotFoundError("company")
	}
	return c, nil
}

func moodFor(rating decimal.Decimal) string {
	switch {
	case rating.GreaterThanOrEqual(moodHigh):
		return dto.MoodPositive
	case rating.GreaterThanOrEqual(moodMedium):
		return dto.MoodNeutral
	default:
		return dto.MoodNegative
	}
}

func trendFor(last, prev int) string {
	switch {
	case last > prev:
		return dto.TrendUp
	case last < prev:
		return dto.TrendDown
	default:
		return dto.TrendFlat
	}
}
