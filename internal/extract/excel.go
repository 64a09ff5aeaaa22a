package extract

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/DanielZo0/CMS-Sales/internal/common"
)

var (
	reExcelDocNum = regexp.MustCompile(`DEL/\d+/\d{4}`)
	reExcelWeek   = regexp.MustCompile(`Week (\d+)`)
	reNumeric     = regexp.MustCompile(`^-?[0-9.,]+$`)
)

// Labels anchoring the amount rows in the delicatessen invoice sheets.
const (
	labelCommission = "Commission on Turnover"
	labelVAT        = "VAT @"
)

// ExcelExtractor reads the first sheet of a delicatessen invoice workbook.
// Column positions are not assumed fixed: a header pass locates the amounts
// column per file.
type ExcelExtractor struct {
	logger *slog.Logger
}

func NewExcelExtractor(logger *slog.Logger) *ExcelExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelExtractor{logger: logger}
}

func (e *ExcelExtractor) Extract(ctx context.Context, path string) (*RawFields, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, common.ExtractionErrorf("open workbook %s: %v", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			e.logger.Warn("closing workbook", "path", path, "error", cerr)
		}
	}()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, common.ExtractionErrorf("read sheet %q of %s: %v", sheet, path, err)
	}

	fields, err := ParseExcelRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	e.logger.Debug("excel fields extracted",
		"path", path, "document_number", fields.DocumentNumber, "week", fields.Week)
	return fields, nil
}

// ParseExcelRows locates the labeled fields in already-split sheet rows.
// Net and VAT come from the commission and VAT rows; either may be absent
// individually, but a file with neither amount nor a document number fails.
func ParseExcelRows(rows [][]string) (*RawFields, error) {
	fields := &RawFields{BodyText: flattenRows(rows)}

	fields.DocumentDate = findDate(rows)
	fields.DocumentNumber = findDocumentNumber(rows)

	amountCol := findAmountColumn(rows)

	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell := row[0]
		switch {
		case strings.Contains(cell, labelCommission):
			if m := reExcelWeek.FindStringSubmatch(cell); m != nil {
				fields.Week = m[1]
			}
			fields.Net = amountAt(row, amountCol)
		case strings.Contains(cell, labelVAT):
			fields.VAT = amountAt(row, amountCol)
		}
	}

	if net, vat := fields.Net, fields.VAT; net != "" && vat != "" {
		n, nerr := strconv.ParseFloat(strings.ReplaceAll(net, ",", ""), 64)
		v, verr := strconv.ParseFloat(strings.ReplaceAll(vat, ",", ""), 64)
		if nerr == nil && verr == nil {
			fields.Total = strconv.FormatFloat(n+v, 'f', 2, 64)
		}
	} else if fields.Net != "" {
		fields.Total = fields.Net
	}

	if fields.DocumentNumber == "" {
		return nil, common.ExtractionErrorf("document number not found")
	}
	if fields.Total == "" {
		return nil, common.ExtractionErrorf("no amounts found")
	}
	return fields, nil
}

// findAmountColumn runs the per-file header pass. It prefers an explicit
// amount/total header; otherwise it falls back to the rightmost numeric cell
// of the commission row.
func findAmountColumn(rows [][]string) int {
	limit := len(rows)
	if limit > 15 {
		limit = 15
	}
	for _, row := range rows[:limit] {
		for col, cell := range row {
			if col == 0 {
				continue
			}
			h := strings.ToLower(strings.TrimSpace(cell))
			if h == "amount" || h == "total" || strings.Contains(h, "amount (€)") || h == "€" {
				return col
			}
		}
	}
	for _, row := range rows {
		if len(row) > 0 && strings.Contains(row[0], labelCommission) {
			for col := len(row) - 1; col > 0; col-- {
				if isNumericCell(row[col]) {
					return col
				}
			}
		}
	}
	return -1
}

func amountAt(row []string, col int) string {
	if col >= 0 && col < len(row) && isNumericCell(row[col]) {
		return strings.TrimSpace(row[col])
	}
	// header pass found nothing usable for this row; take its rightmost
	// numeric cell instead
	for c := len(row) - 1; c > 0; c-- {
		if isNumericCell(row[c]) {
			return strings.TrimSpace(row[c])
		}
	}
	return ""
}

func isNumericCell(cell string) bool {
	s := strings.TrimSpace(cell)
	if s == "" || !reNumeric.MatchString(s) {
		return false
	}
	return strings.ContainsAny(s, "0123456789")
}

// dateLayouts covers the renderings excelize produces for the invoice date
// cell depending on the cell's number format.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01-02-06",
	"1/2/06 15:04",
	"02/01/2006",
	"2/1/06",
}

// findDate scans column 0 of the first rows for a parseable date and renders
// it the way the documents print it, dd/mm/yy.
func findDate(rows [][]string) string {
	limit := len(rows)
	if limit > 10 {
		limit = 10
	}
	for _, row := range rows[:limit] {
		if len(row) == 0 {
			continue
		}
		cell := strings.TrimSpace(row[0])
		if cell == "" {
			continue
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, cell); err == nil {
				return t.Format("02/01/06")
			}
		}
	}
	return ""
}

func findDocumentNumber(rows [][]string) string {
	for _, row := range rows {
		for _, cell := range row {
			if m := reExcelDocNum.FindString(cell); m != "" {
				return m
			}
		}
	}
	return ""
}

func flattenRows(rows [][]string) string {
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(strings.Join(row, " "))
		b.WriteByte('\n')
	}
	return b.String()
}
