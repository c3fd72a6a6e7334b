package excel

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dkazarov/fleet-reports/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders a persisted report into a workbook: a summary sheet
// with the generation parameters, plus data sheets depending on the
// report type.
func (g *Generator) Generate(report model.Report) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Summary"
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, summarySheet, report); err != nil {
		return nil, err
	}

	switch report.ReportType {
	case model.ReportTypeCarMileage:
		var result model.MileageResult
		if err := json.Unmarshal(report.Result, &result); err != nil {
			return nil, fmt.Errorf("decode report result: %w", err)
		}
		file.NewSheet("Mileage")
		writeSeries(file, "Mileage", "Mileage, km", mileageRows(result.Data))

	case model.ReportTypeDriverTime:
		var result model.DriveTimeResult
		if err := json.Unmarshal(report.Result, &result); err != nil {
			return nil, fmt.Errorf("decode report result: %w", err)
		}
		rows := make([][2]any, len(result.Data))
		for i, point := range result.Data {
			rows[i] = [2]any{point.Time, point.Hours}
		}
		file.NewSheet("Drive time")
		writeSeries(file, "Drive time", "Hours", rows)

	case model.ReportTypeEnterpriseActiveCars:
		var result model.EnterpriseMileageResult
		if err := json.Unmarshal(report.Result, &result); err != nil {
			return nil, fmt.Errorf("decode report result: %w", err)
		}
		usedNames := map[string]struct{}{summarySheet: {}}
		for _, car := range result.Cars {
			sheetName := buildSheetName(car, usedNames)
			usedNames[sheetName] = struct{}{}
			file.NewSheet(sheetName)
			writeSeries(file, sheetName, "Mileage, km", mileageRows(car.MileageData))
		}

	default:
		return nil, fmt.Errorf("unsupported report type %q", report.ReportType)
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, report model.Report) error {
	set := func(cell string, value any) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Report")
	set("B1", report.Name)
	set("A2", "Type")
	set("B2", string(report.ReportType))
	set("A3", "Period start")
	set("B3", report.StartDate.Format("2006-01-02"))
	set("A4", "Period end")
	set("B4", report.EndDate.Format("2006-01-02"))
	set("A5", "Granularity")
	set("B5", report.Period)
	set("A6", "Generated at")
	set("B6", report.CreatedAt.UTC().Format("2006-01-02 15:04:05"))

	_ = file.SetColWidth(sheet, "A", "A", 20)
	_ = file.SetColWidth(sheet, "B", "B", 45)
	return nil
}

func writeSeries(file *excelize.File, sheet, valueHeader string, rows [][2]any) {
	set := func(cell string, value any) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Date")
	set("B1", valueHeader)
	for i, row := range rows {
		set(fmt.Sprintf("A%d", i+2), row[0])
		set(fmt.Sprintf("B%d", i+2), row[1])
	}
	_ = file.SetColWidth(sheet, "A", "A", 14)
	_ = file.SetColWidth(sheet, "B", "B", 16)
}

func mileageRows(points []model.MileagePoint) [][2]any {
	rows := make([][2]any, len(points))
	for i, point := range points {
		rows[i] = [2]any{point.Time, point.Value}
	}
	return rows
}

func buildSheetName(car model.EnterpriseCarMileage, used map[string]struct{}) string {
	base := fmt.Sprintf("Car %d", car.CarID)
	if driver := sanitizeSheetName(car.DriverName); driver != "" {
		base = fmt.Sprintf("Car %d %s", car.CarID, driver)
	}
	if len(base) > 31 {
		base = base[:31]
	}

	name := base
	for i := 2; ; i++ {
		if _, taken := used[name]; !taken {
			return name
		}
		suffix := fmt.Sprintf(" %d", i)
		if len(base)+len(suffix) > 31 {
			name = base[:31-len(suffix)] + suffix
		} else {
			name = base + suffix
		}
	}
}

func sanitizeSheetName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			result = append(result, ' ')
		default:
			result = append(result, r)
		}
	}
	return strings.TrimSpace(string(result))
}
