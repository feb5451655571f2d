// Package pdf genera el reporte PDF del resumen de almacén: giacencia y valor FIFO
// por producto más el total general, con fecha de corte opcional.
package pdf

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// StockReportGenerator genera el PDF del resumen de almacén usando Maroto v2.
// Los montos se formatean con separador de miles regional vía x/text.
type StockReportGenerator struct {
	printer *message.Printer
}

// NewStockReportGenerator construye el generador.
func NewStockReportGenerator() *StockReportGenerator {
	return &StockReportGenerator{printer: message.NewPrinter(language.Spanish)}
}

// GenerateSummaryPDF genera el PDF del reporte y devuelve sus bytes.
func (g *StockReportGenerator) GenerateSummaryPDF(report *dto.ValuationReportDTO) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).
		WithRightMargin(15).
		WithTopMargin(10).
		Build()
	m := maroto.New(cfg)

	m.AddRows(g.headerRows(report)...)
	m.AddRows(g.tableHeaderRow())
	for _, p := range report.Products {
		m.AddRows(g.productRow(p))
	}
	m.AddRows(g.totalRows(report)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generar PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *StockReportGenerator) headerRows(report *dto.ValuationReportDTO) []core.Row {
	title := "Resumen de almacén"
	subtitle := "Valoración FIFO al " + time.Now().Format("2006-01-02")
	if report.AsOf != "" {
		subtitle = "Valoración FIFO histórica al " + report.AsOf
	}
	return []core.Row{
		row.New(10).Add(
			text.NewCol(12, title, props.Text{
				Size: 14, Style: fontstyle.Bold, Align: align.Left, Color: colorPrimary,
			}),
		),
		row.New(6).Add(
			text.NewCol(12, subtitle, props.Text{
				Size: 9, Align: align.Left, Color: colorGray,
			}),
		),
		line.NewRow(4),
	}
}

func (g *StockReportGenerator) tableHeaderRow() core.Row {
	header := props.Text{Size: 9, Style: fontstyle.Bold, Color: colorPrimary}
	headerRight := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right, Color: colorPrimary}
	return row.New(7).Add(
		text.NewCol(6, "Producto", header),
		text.NewCol(3, "Cantidad", headerRight),
		text.NewCol(3, "Valor", headerRight),
	)
}

func (g *StockReportGenerator) productRow(p dto.ProductValuationDTO) core.Row {
	cell := props.Text{Size: 9}
	cellRight := props.Text{Size: 9, Align: align.Right}
	return row.New(6).Add(
		text.NewCol(6, p.ProductName, cell),
		text.NewCol(3, g.amount(p.Quantity), cellRight),
		text.NewCol(3, g.amount(p.Value), cellRight),
	)
}

func (g *StockReportGenerator) totalRows(report *dto.ValuationReportDTO) []core.Row {
	return []core.Row{
		line.NewRow(4),
		row.New(8).Add(
			text.NewCol(9, "VALOR TOTAL", props.Text{
				Size: 10, Style: fontstyle.Bold, Align: align.Right, Color: colorPrimary,
			}),
			text.NewCol(3, g.amount(report.TotalValue), props.Text{
				Size: 10, Style: fontstyle.Bold, Align: align.Right,
			}),
		),
	}
}

// amount formatea un decimal serializado aplicando agrupación de miles regional.
func (g *StockReportGenerator) amount(s string) string {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return s
	}
	return g.printer.Sprintf("%.2f", d.InexactFloat64())
}
