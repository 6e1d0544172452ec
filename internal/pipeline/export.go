package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"umzug/internal"
)

// ExportOrderToXLSX writes one generated order as a workbook with a
// positions sheet, a services sheet and a summary sheet.
func ExportOrderToXLSX(ord internal.Order, outputPath string) error {
	f := excelize.NewFile()

	positions := f.GetSheetName(0)
	_ = f.SetSheetName(positions, "Positionen")
	positions = "Positionen"

	headers := []string{"name", "category", "colli", "volume", "bulky", "m100", "weight"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(positions, cell, h)
	}
	for i, item := range ord.Items {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(positions, cell, value)
		}
		set(1, item.Name)
		set(2, item.SelectedCategory)
		set(3, item.Colli)
		set(4, zeroBlank(item.Volume))
		set(5, boolMark(item.Bulky))
		set(6, boolMark(item.M100))
		set(7, item.Weight)
	}

	if _, err := f.NewSheet("Leistungen"); err != nil {
		return err
	}
	for i, h := range []string{"name", "colli", "price"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue("Leistungen", cell, h)
	}
	for i, svc := range ord.Services {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue("Leistungen", cell, value)
		}
		set(1, svc.Name)
		set(2, svc.Colli)
		set(3, svc.Price)
	}

	if _, err := f.NewSheet("Auftrag"); err != nil {
		return err
	}
	summary := [][2]string{
		{"Kunde", ord.Customer.FullName()},
		{"Telefon", ord.Customer.TelNumber},
		{"E-Mail", ord.Customer.EmailCopy},
		{"Von", ord.From.Address},
		{"Nach", ord.To.Address},
		{"Datum", ord.Date},
		{"Datum von", ord.DateFrom},
		{"Datum bis", ord.DateTo},
		{"Uhrzeit", ord.Time},
		{"Volumen (m³)", ord.Volume},
		{"Kleiderboxen", ord.BoxNumber},
		{"Anmerkung", ord.Text},
	}
	for i, kv := range summary {
		keyCell, _ := excelize.CoordinatesToCellName(1, i+1)
		valCell, _ := excelize.CoordinatesToCellName(2, i+1)
		_ = f.SetCellValue("Auftrag", keyCell, kv[0])
		_ = f.SetCellValue("Auftrag", valCell, kv[1])
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

// ExportStoredOrder decodes a stored order row and writes it next to
// the other exports, named after the submission.
func ExportStoredOrder(row internal.OrderRow, outputDir string) (string, error) {
	var ord internal.Order
	if err := json.Unmarshal([]byte(row.OrderJSON), &ord); err != nil {
		return "", fmt.Errorf("decode stored order %d: %w", row.ID, err)
	}
	outputPath := filepath.Join(outputDir, fmt.Sprintf("auftrag-%s.xlsx", row.SubmissionID))
	if err := ExportOrderToXLSX(ord, outputPath); err != nil {
		return "", err
	}
	return outputPath, nil
}

func zeroBlank(v float64) any {
	if v == 0 {
		return ""
	}
	return v
}

func boolMark(v bool) string {
	if v {
		return "x"
	}
	return ""
}
