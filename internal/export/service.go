// Package export writes every output artifact of a batch run: combined JSON
// and CSV files, per-record JSON, renamed-invoice JSON keyed by the
// standardized identity, standardized PDF copies, the accounting upload CSV
// and the optional XLSX workbook. Each artifact is written independently; a
// failure in one does not stop the others.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/DanielZo0/CMS-Sales/constants"
	"github.com/DanielZo0/CMS-Sales/internal/currency"
	"github.com/DanielZo0/CMS-Sales/internal/entity"
	"github.com/DanielZo0/CMS-Sales/internal/template"
)

const (
	individualDir = "individual_json"
	renamedDir    = "renamed_invoices"
)

// combinedHeader is the fixed field order of the merged sales+purchases CSV.
var combinedHeader = []string{
	"Data Type", "Document Type", "Document Date", "Supplier Code",
	"Empty_Column", "Document Number", "Description", "NC", "VC",
	"Locality", "Net", "VAT", "Total",
}

type Service struct {
	outputDir string
	templates *template.Set
	logger    *slog.Logger
}

func NewService(outputDir string, templates *template.Set, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{outputDir: outputDir, templates: templates, logger: logger}
}

// WriteCombinedJSON writes records as a pretty-printed array in template
// field order, e.g. sales_data.json.
func (s *Service) WriteCombinedJSON(name string, records []*entity.Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	return s.writeFile(filepath.Join(s.outputDir, name), append(data, '\n'))
}

// WriteCombinedCSV writes records under the given header, one row each.
func (s *Service) WriteCombinedCSV(name string, header []string, records []*entity.Record) error {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, header)
	for _, r := range records {
		rows = append(rows, r.Row(header))
	}
	return s.writeCSV(filepath.Join(s.outputDir, name), rows)
}

// WriteIndividualJSON writes one record to individual_json/<source stem>.json.
func (s *Service) WriteIndividualJSON(rec *entity.Record) error {
	stem := strings.TrimSuffix(filepath.Base(rec.SourceFile), filepath.Ext(rec.SourceFile))
	path := filepath.Join(s.outputDir, individualDir, stem+".json")
	data, err := json.MarshalIndent([]*entity.Record{rec}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	return s.writeFile(path, append(data, '\n'))
}

// WriteRenamedInvoice writes a record under its standardized identity key.
// Callers invoke this once per key; the later write wins when two source
// files share an identity.
func (s *Service) WriteRenamedInvoice(key string, rec *entity.Record) error {
	path := filepath.Join(s.outputDir, renamedDir, key+".json")
	data, err := json.MarshalIndent([]*entity.Record{rec}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	return s.writeFile(path, append(data, '\n'))
}

// CopyStandardizedPDF copies a source PDF into the renamed-invoices folder
// under its standardized name.
func (s *Service) CopyStandardizedPDF(srcPath, name string) error {
	dst := filepath.Join(s.outputDir, renamedDir, name)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", srcPath, err)
	}
	defer src.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return fmt.Errorf("copy to %s: %w", dst, err)
	}
	return out.Close()
}

// WriteCombinedSalesPurchases merges sales and purchase records into one
// date-sorted CSV with the Data Type discriminator column.
func (s *Service) WriteCombinedSalesPurchases(sales, purchases []*entity.Record) error {
	all := make([]*entity.Record, 0, len(sales)+len(purchases))
	all = append(all, sales...)
	all = append(all, purchases...)
	sort.SliceStable(all, func(i, j int) bool {
		di, dj := sortableDate(all[i].Get("Document Date")), sortableDate(all[j].Get("Document Date"))
		if di != dj {
			return di < dj
		}
		return all[i].DataType < all[j].DataType
	})

	rows := [][]string{combinedHeader}
	for _, r := range all {
		rows = append(rows, combinedRow(r))
	}
	return s.writeCSV(filepath.Join(s.outputDir, "combined_sales_purchases.csv"), rows)
}

// combinedRow maps a record onto the merged schema. Sales carry no VAT: net
// equals the invoice total and VAT is zero.
func combinedRow(r *entity.Record) []string {
	row := make([]string, len(combinedHeader))
	for i, key := range combinedHeader {
		row[i] = r.Get(key)
	}
	set := func(key, val string) {
		for i, k := range combinedHeader {
			if k == key {
				row[i] = val
			}
		}
	}
	set("Data Type", string(r.DataType))
	if r.DataType == constants.DataTypeSales {
		set("Net", r.Get("Total"))
		set("VAT", currency.Format(0))
	} else if r.Get("Total") == "" {
		if total, ok := sumAmounts(r.Get("Net"), r.Get("VAT")); ok {
			set("Total", total)
		}
	}
	return row
}

func sumAmounts(a, b string) (string, bool) {
	av, aerr := currency.Parse(a)
	bv, berr := currency.Parse(b)
	if aerr != nil || berr != nil {
		return "", false
	}
	return currency.Format(av + bv), true
}

// sortableDate converts d/m/yy style dates to yyyy-mm-dd for ordering;
// unparseable dates sort last.
func sortableDate(date string) string {
	parts := strings.Split(date, "/")
	if len(parts) != 3 {
		return "9999-12-31"
	}
	year := parts[2]
	if len(year) == 2 {
		year = "20" + year
	}
	return year + "-" + pad2(parts[1]) + "-" + pad2(parts[0])
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

func (s *Service) writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	s.logger.Debug("wrote output", "path", path, "bytes", len(data))
	return nil
}

func (s *Service) writeCSV(path string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	s.logger.Debug("wrote output", "path", path, "rows", len(rows)-1)
	return nil
}

// uploadDate renders any of the date shapes seen in the sources as
// dd/mm/yyyy for the accounting upload sheet.
func uploadDate(date string) string {
	date = strings.TrimSpace(date)
	if date == "" {
		return ""
	}
	layouts := []string{"2/1/06", "2/1/2006", "2-1-06", "2-1-2006", "2006-01-02"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Format("02/01/2006")
		}
	}
	return date
}
