package pdf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/dkazarov/fleet-reports/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

func (g *Generator) Generate(report model.Report) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, report.Name, "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Period: %s to %s (%s)",
		report.StartDate.Format("2006-01-02"),
		report.EndDate.Format("2006-01-02"),
		report.Period,
	), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, "Generated at "+report.CreatedAt.UTC().Format("2006-01-02 15:04:05"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	switch report.ReportType {
	case model.ReportTypeCarMileage:
		var result model.MileageResult
		if err := json.Unmarshal(report.Result, &result); err != nil {
			return nil, fmt.Errorf("decode report result: %w", err)
		}
		g.drawSeries(pdf, "Mileage, km", mileageCells(result.Data))

	case model.ReportTypeDriverTime:
		var result model.DriveTimeResult
		if err := json.Unmarshal(report.Result, &result); err != nil {
			return nil, fmt.Errorf("decode report result: %w", err)
		}
		cells := make([][2]string, len(result.Data))
		for i, point := range result.Data {
			cells[i] = [2]string{point.Time, strconv.FormatFloat(point.Hours, 'f', 2, 64)}
		}
		g.drawSeries(pdf, "Hours", cells)

	case model.ReportTypeEnterpriseActiveCars:
		var result model.EnterpriseMileageResult
		if err := json.Unmarshal(report.Result, &result); err != nil {
			return nil, fmt.Errorf("decode report result: %w", err)
		}
		for _, car := range result.Cars {
			pdf.SetFont(g.fontName, "B", 12)
			title := fmt.Sprintf("Vehicle %d", car.CarID)
			if car.DriverName != "" {
				title += " (" + car.DriverName + ")"
			}
			pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
			g.drawSeries(pdf, "Mileage, km", mileageCells(car.MileageData))
			pdf.Ln(3)
		}

	default:
		return nil, fmt.Errorf("unsupported report type %q", report.ReportType)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) drawSeries(pdf *gofpdf.Fpdf, valueHeader string, cells [][2]string) {
	colWidths := []float64{60, 40}

	pdf.SetFont(g.fontName, "B", 10)
	g.drawRow(pdf, [2]string{"Date", valueHeader}, colWidths, true)

	pdf.SetFont(g.fontName, "", 10)
	for _, row := range cells {
		g.drawRow(pdf, row, colWidths, false)
	}
}

func (g *Generator) drawRow(pdf *gofpdf.Fpdf, cells [2]string, widths []float64, header bool) {
	fill := header
	if fill {
		pdf.SetFillColor(230, 230, 230)
	}
	for i, cell := range cells {
		pdf.CellFormat(widths[i], 7, cell, "1", 0, "L", fill, 0, "")
	}
	pdf.Ln(-1)
}

func mileageCells(points []model.MileagePoint) [][2]string {
	cells := make([][2]string, len(points))
	for i, point := range points {
		cells[i] = [2]string{point.Time, strconv.FormatFloat(point.Value, 'f', 3, 64)}
	}
	return cells
}
