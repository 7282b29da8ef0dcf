// Package pdf genera el informe de estadísticas de feedback de una empresa.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre empresa + código  │  Fecha del informe       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CUENTA: estado / plan / mensajes del periodo                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Tipo | Mensajes | %                                  │
//	│  TABLA: Estado | Mensajes | %                                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CRECIMIENTO: puntuación / ánimo / tendencia                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el código público para enviar feedback       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/feedback-api/internal/application/analytics"
	"github.com/jhoicas/feedback-api/internal/application/dto"
)

var _ analytics.ReportPDFGenerator = (*StatsReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorGreen   = &props.Color{Red: 30, Green: 130, Blue: 76}
	colorRed     = &props.Color{Red: 180, Green: 40, Blue: 40}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// StatsReportGenerator implementa analytics.ReportPDFGenerator usando Maroto v2.
type StatsReportGenerator struct {
	now func() time.Time
}

// NewStatsReportGenerator construye el generador.
func NewStatsReportGenerator() *StatsReportGenerator {
	return &StatsReportGenerator{now: time.Now}
}

// GenerateStatsReport genera el PDF y devuelve sus bytes.
func (g *StatsReportGenerator) GenerateStatsReport(ctx context.Context, r *dto.CompanyReport) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Feedback report", true).
		WithAuthor(r.Company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(r, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(accountRow(&r.Company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	total := r.Status.Total
	m.AddRows(tableHeaderRow("Message type"))
	m.AddRows(
		countRow("Complaints", r.Distribution.Complaints, total),
		countRow("Praises", r.Distribution.Praises, total),
		countRow("Suggestions", r.Distribution.Suggestions, total),
	)
	m.AddRows(line.NewRow(3))
	m.AddRows(tableHeaderRow("Status"))
	m.AddRows(
		countRow("New", r.Status.New, total),
		countRow("In progress", r.Status.InProgress, total),
		countRow("Resolved", r.Status.Resolved, total),
	)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(growthRow(&r.Growth))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(r.Company.Code))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(r *dto.CompanyReport, now time.Time) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(r.Company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Code: "+r.Company.Code, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("FEEDBACK REPORT", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(now.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func accountRow(c *dto.CompanyResponse) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("ACCOUNT", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Status: %s   |   Plan: %s   |   Messages this period: %d   |   Employees: %d",
				c.EffectiveStatus, c.PlanID, c.MessagesThisPeriod, c.Employees,
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func tableHeaderRow(first string) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h(first, 6, align.Left),
		h("Messages", 3, align.Right),
		h("Share", 3, align.Right),
	)
}

func countRow(label string, n, total int) core.Row {
	return row.New(7).Add(
		col.New(6).Add(text.New(label, props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(3).Add(text.New(fmt.Sprintf("%d", n), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		col.New(3).Add(text.New(share(n, total), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
	)
}

func growthRow(g *dto.GrowthResponse) core.Row {
	moodColor := colorGray
	switch g.Mood {
	case dto.MoodPositive:
		moodColor = colorGreen
	case dto.MoodNegative:
		moodColor = colorRed
	}
	return row.New(22).Add(
		col.New(4).Add(
			text.New("GROWTH RATING", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(g.Rating.StringFixed(1)+" / 10", props.Text{Style: fontstyle.Bold, Size: 16, Top: 7}),
		),
		col.New(4).Add(
			text.New("MOOD", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(g.Mood, props.Text{Style: fontstyle.Bold, Size: 12, Color: moodColor, Top: 8}),
		),
		col.New(4).Add(
			text.New("TREND (30 DAYS)", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("%s  (%d vs %d)", g.Trend, g.Last30Days, g.Previous30Days), props.Text{
				Size: 10, Top: 8,
			}),
		),
	)
}

// footerRow QR con el código público de la empresa para el formulario anónimo.
func footerRow(companyCode string) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(companyCode, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Scan to send anonymous feedback", props.Text{Size: 9, Top: 8, Left: 3, Color: colorGray}),
			text.New(companyCode, props.Text{Style: fontstyle.Bold, Size: 14, Top: 16, Left: 3, Color: colorPrimary}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// share porcentaje con un decimal; "0.0%" si no hay mensajes.
func share(n, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(n)*100/float64(total))
}
