package export

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/DanielZo0/CMS-Sales/internal/entity"
)

// SummaryRow is one per-file line on the workbook's summary sheet.
type SummaryRow struct {
	File   string
	Status string
	Reason string
}

// WriteWorkbook writes cms_sales_extracted.xlsx with a Summary sheet of
// per-file outcomes and a Records sheet holding every extracted record under
// the combined field order.
func (s *Service) WriteWorkbook(records []*entity.Record, summary []SummaryRow) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("closing workbook", "error", err)
		}
	}()

	const summarySheet = "Summary"
	const recordsSheet = "Records"

	// excelize starts with one default sheet; rename it instead of leaving
	// an empty Sheet1 behind.
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(recordsSheet); err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	write := func(sheet string, col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	for i, h := range []string{"File", "Status", "Reason"} {
		write(summarySheet, i+1, 1, h)
	}
	for i, row := range summary {
		write(summarySheet, 1, i+2, row.File)
		write(summarySheet, 2, i+2, row.Status)
		write(summarySheet, 3, i+2, row.Reason)
	}

	for i, h := range combinedHeader {
		write(recordsSheet, i+1, 1, h)
	}
	for i, r := range records {
		for col, v := range combinedRow(r) {
			write(recordsSheet, col+1, i+2, v)
		}
	}

	// Widen the text-heavy columns
	_ = f.SetColWidth(summarySheet, "A", "A", 60)
	_ = f.SetColWidth(summarySheet, "C", "C", 48)
	_ = f.SetColWidth(recordsSheet, "G", "G", 48)
	_ = f.SetColWidth(recordsSheet, "C", "C", 14)

	path := filepath.Join(s.outputDir, "cms_sales_extracted.xlsx")
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	s.logger.Debug("wrote output", "path", path, "records", len(records))
	return nil
}
