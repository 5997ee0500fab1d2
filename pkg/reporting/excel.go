package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// ExcelReporter writes replay results to an Excel workbook.
type ExcelReporter struct{}

// NewExcelReporter creates a new Excel reporter
func NewExcelReporter() *ExcelReporter {
	return &ExcelReporter{}
}

// WriteReplayXLSX writes the decision log and a summary sheet.
func (r *ExcelReporter) WriteReplayXLSX(result *ReplayResult, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const decisionsSheet = "Decisions"
	const summarySheet = "Summary"

	fx.SetSheetName(fx.GetSheetName(0), decisionsSheet)
	if _, err := fx.NewSheet(summarySheet); err != nil {
		return err
	}

	headerStyle, err := fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	if err := r.writeDecisionsSheet(fx, decisionsSheet, result, headerStyle); err != nil {
		return err
	}
	if err := r.writeSummarySheet(fx, summarySheet, result, headerStyle); err != nil {
		return err
	}

	if err := fx.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func (r *ExcelReporter) writeDecisionsSheet(fx *excelize.File, sheet string, result *ReplayResult, headerStyle int) error {
	headers := []interface{}{"Index", "Timestamp", "Decision", "Regime", "Price", "Stop", "Leverage"}
	if err := fx.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	if err := fx.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return err
	}

	for i, e := range result.Events {
		row := []interface{}{
			e.Index,
			e.Timestamp.Format("2006-01-02 15:04:05"),
			e.Decision,
			e.Regime,
			e.Price,
			e.Stop,
			e.Leverage,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := fx.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func (r *ExcelReporter) writeSummarySheet(fx *excelize.File, sheet string, result *ReplayResult, headerStyle int) error {
	rows := [][]interface{}{
		{"Symbol", result.Symbol},
		{"Data file", result.DataFile},
		{"Candles", result.Candles},
		{"Skipped CSV rows", result.SkippedRows},
		{"Rejected candles", result.BadCandles},
		{"Entries", result.Entries()},
		{"Exits", result.Exits()},
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := fx.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return fx.SetColStyle(sheet, "A", headerStyle)
}
