// Package normalize assembles extracted fields into canonical records shaped
// by the active template. The description and the standardized invoice
// identity are synthesized here and nowhere else, so file naming and record
// content can never drift apart.
package normalize

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/DanielZo0/CMS-Sales/constants"
	"github.com/DanielZo0/CMS-Sales/internal/common"
	"github.com/DanielZo0/CMS-Sales/internal/currency"
	"github.com/DanielZo0/CMS-Sales/internal/entity"
	"github.com/DanielZo0/CMS-Sales/internal/extract"
	"github.com/DanielZo0/CMS-Sales/internal/template"
)

// Input carries everything the normalizer needs for one record.
type Input struct {
	Fields     *extract.RawFields
	Locality   constants.Locality
	Week       int
	DataType   constants.DataType
	SourceFile string
}

type Normalizer struct {
	templates *template.Set
	logger    *slog.Logger
}

func NewNormalizer(templates *template.Set, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{templates: templates, logger: logger}
}

// Normalize produces the canonical record for one extracted document. Every
// template field is present in the result; fields the source did not provide
// stay empty strings.
func (n *Normalizer) Normalize(in Input) (*entity.Record, error) {
	tpl := n.templates.Sales
	if in.DataType == constants.DataTypeExpenses {
		tpl = n.templates.Purchases
	}
	entry := tpl.ForLocality(in.Locality)

	rec := entity.NewRecord(entry.Keys())
	rec.DataType = in.DataType
	rec.Locality = in.Locality
	rec.Week = in.Week
	rec.SourceFile = in.SourceFile

	for _, f := range entry.Fields {
		if !f.IsMarker() {
			rec.Set(f.Key, f.Value)
			continue
		}
		v, err := n.markerValue(f.Value, in)
		if err != nil {
			return nil, fmt.Errorf("%s field %q: %w", in.SourceFile, f.Key, err)
		}
		rec.Set(f.Key, v)
	}
	return rec, nil
}

func (n *Normalizer) markerValue(marker string, in Input) (string, error) {
	raw := in.Fields
	switch marker {
	case "extract_date":
		return raw.DocumentDate, nil
	case "extract_reference":
		return raw.DocumentNumber, nil
	case "extract_locality":
		return string(in.Locality.Canonical()), nil
	case "extract_description":
		return n.description(in), nil
	case "extract_net":
		return reformatOptional(raw.Net)
	case "extract_vat":
		return reformatOptional(raw.VAT)
	case "extract_total":
		if raw.Total == "" {
			return "", common.ExtractionErrorf("total missing")
		}
		v, err := currency.Reformat(raw.Total)
		if err != nil {
			return "", common.ExtractionErrorf("unparseable total %q", raw.Total)
		}
		return v, nil
	case "supplier_code":
		return in.Locality.SupplierCode(), nil
	case "NC_extract":
		return in.Locality.NominalCode(), nil
	}
	n.logger.Debug("unknown template marker treated as constant", "marker", marker)
	return marker, nil
}

func reformatOptional(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	v, err := currency.Reformat(raw)
	if err != nil {
		return "", common.ExtractionErrorf("unparseable amount %q", raw)
	}
	return v, nil
}

// description synthesizes the record description; the extractor's raw text is
// never used. Sales carry the week period, purchases the rent wording.
func (n *Normalizer) description(in Input) string {
	loc := in.Locality.Canonical()
	if in.DataType == constants.DataTypeExpenses {
		if year := yearOf(in.Fields.DocumentDate); year != "" {
			return fmt.Sprintf("Chain Supermarket %s - Rent for Week %d %s", loc, in.Week, year)
		}
		return fmt.Sprintf("Chain Supermarket %s - Rent for Week %d", loc, in.Week)
	}
	start := dotted(in.Fields.StartDate)
	end := dotted(in.Fields.EndDate)
	if start == "" || end == "" {
		return fmt.Sprintf("Chain Supermarket %s - Wk%d", loc, in.Week)
	}
	return fmt.Sprintf("Chain Supermarket %s - Wk%d (%s-%s)", loc, in.Week, start, end)
}

// IdentityKey is the standardized invoice identity used for renamed-invoice
// outputs; it must be unique within a batch.
func IdentityKey(loc constants.Locality, week int) string {
	return fmt.Sprintf("Weekly Sales - %s Wk'%02d'", loc.Canonical(), week)
}

// StandardPDFName is the standardized name for copied source PDFs.
func StandardPDFName(loc constants.Locality, week int) string {
	return fmt.Sprintf("Weekly Sales - %s Week %d.pdf", loc.Canonical(), week)
}

// dotted reformats a d/m/yy date to dd.mm.yy, preserving the year digits.
func dotted(date string) string {
	parts := strings.Split(date, "/")
	if len(parts) != 3 {
		return ""
	}
	return pad2(parts[0]) + "." + pad2(parts[1]) + "." + parts[2]
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// yearOf extracts a 4-digit year from a d/m/yy or d/m/yyyy date string.
func yearOf(date string) string {
	parts := strings.Split(date, "/")
	if len(parts) != 3 {
		return ""
	}
	y := parts[2]
	if len(y) == 2 {
		return "20" + y
	}
	return y
}
