package extract

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/DanielZo0/CMS-Sales/internal/common"
)

// Label patterns for the weekly sales PDF layout. The layout is fixed per
// locality; only the address line and the invoice week line vary.
var (
	rePDFDocDate = regexp.MustCompile(`Document Date\s+(\d{1,2}/\d{1,2}/\d{2,4})`)
	rePDFDocNum  = regexp.MustCompile(`Document Number\s+([A-Za-z0-9-]+)`)
	// address line such as "Tarxien, TXN 9044" or "Fgura, FGR 1242"
	rePDFAddress = regexp.MustCompile(`([A-Za-z]+),\s+[A-Z]{2,4}\s+\d+`)
	rePDFWeek    = regexp.MustCompile(`Invoice for week (\d+)\s+([^\n]+)`)
	rePDFPeriod  = regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{2,4})\s+(\d{1,2}/\d{1,2}/\d{2,4})`)
	rePDFTotal   = regexp.MustCompile(`Invoice for week \d+[^€]*€([0-9,]+\.?\d*)`)
)

// PDFExtractor reads the first page of a weekly sales PDF and locates the
// labeled fields in its reconstructed text.
type PDFExtractor struct {
	logger *slog.Logger
}

func NewPDFExtractor(logger *slog.Logger) *PDFExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFExtractor{logger: logger}
}

func (e *PDFExtractor) Extract(ctx context.Context, path string) (*RawFields, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	text, err := e.firstPageText(path)
	if err != nil {
		return nil, common.ExtractionErrorf("read pdf %s: %v", path, err)
	}
	fields, err := ParsePDFText(text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	e.logger.Debug("pdf fields extracted",
		"path", path, "document_number", fields.DocumentNumber, "week", fields.Week)
	return fields, nil
}

// firstPageText rebuilds line-oriented text from the positioned runs of the
// first page: runs are bucketed into rows by Y, rows ordered top to bottom
// and runs within a row left to right.
func (e *PDFExtractor) firstPageText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if r.NumPage() < 1 {
		return "", fmt.Errorf("pdf has no pages")
	}
	page := r.Page(1)
	if page.V.IsNull() {
		return "", fmt.Errorf("first page is empty")
	}
	return assembleLines(page.Content().Text), nil
}

const rowTolerance = 2.0 // points; runs closer than this share a line

func assembleLines(runs []pdf.Text) string {
	if len(runs) == 0 {
		return ""
	}
	sorted := make([]pdf.Text, len(runs))
	copy(sorted, runs)
	// PDF origin is bottom-left, so larger Y means nearer the top.
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	// Runs are frequently single glyphs, so a space is inserted only when the
	// horizontal gap to the previous run is wide relative to the font size.
	var b strings.Builder
	lineY := sorted[0].Y
	lastEnd := 0.0
	for i, t := range sorted {
		gap := t.X - lastEnd
		switch {
		case i == 0:
		case lineY-t.Y > rowTolerance:
			b.WriteByte('\n')
			lineY = t.Y
			lastEnd = 0
		case gap > t.FontSize*0.3:
			b.WriteByte(' ')
		}
		b.WriteString(t.S)
		lastEnd = t.X + t.W
	}
	return b.String()
}

// ParsePDFText locates the labeled fields in first-page text. It fails only
// when neither the document number nor the total can be found; everything
// else degrades to empty values for the resolver and normalizer to handle.
func ParsePDFText(text string) (*RawFields, error) {
	fields := &RawFields{BodyText: text}

	if m := rePDFDocDate.FindStringSubmatch(text); m != nil {
		fields.DocumentDate = m[1]
	}
	if m := rePDFDocNum.FindStringSubmatch(text); m != nil {
		fields.DocumentNumber = m[1]
	}
	if m := rePDFAddress.FindStringSubmatch(text); m != nil {
		fields.Locality = m[1]
	}
	if m := rePDFWeek.FindStringSubmatch(text); m != nil {
		fields.Week = m[1]
		if p := rePDFPeriod.FindStringSubmatch(m[2]); p != nil {
			fields.StartDate = p[1]
			fields.EndDate = p[2]
		}
	}
	if m := rePDFTotal.FindStringSubmatch(text); m != nil {
		fields.Total = m[1]
	}

	if fields.DocumentNumber == "" && fields.Total == "" {
		return nil, common.ExtractionErrorf("no document number or total found")
	}
	if fields.DocumentNumber == "" {
		return nil, common.ExtractionErrorf("document number not found")
	}
	if fields.Total == "" {
		return nil, common.ExtractionErrorf("total amount not found")
	}
	return fields, nil
}
