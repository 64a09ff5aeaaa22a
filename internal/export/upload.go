package export

import (
	"path/filepath"

	"github.com/DanielZo0/CMS-Sales/constants"
	"github.com/DanielZo0/CMS-Sales/internal/currency"
	"github.com/DanielZo0/CMS-Sales/internal/entity"
)

// WriteUploadCSV maps every record onto the accounting upload template and
// writes upload_data.csv. For sales rows the net amount is the invoice total
// and the tax amount is zero; purchases carry their extracted net and VAT.
func (s *Service) WriteUploadCSV(records []*entity.Record) error {
	tpl := s.templates.Upload
	header := tpl.Keys()

	rows := [][]string{header}
	for _, r := range records {
		row := make([]string, len(tpl.Fields))
		for i, f := range tpl.Fields {
			row[i] = uploadValue(f.Value, r)
		}
		rows = append(rows, row)
	}
	return s.writeCSV(filepath.Join(s.outputDir, "upload_data.csv"), rows)
}

func uploadValue(marker string, r *entity.Record) string {
	switch marker {
	case "supplier_code":
		return r.Get("Supplier Code")
	case "NC_extract":
		return r.Get("NC")
	case "extract_date":
		return uploadDate(r.Get("Document Date"))
	case "extract_reference":
		return r.Get("Document Number")
	case "extract_description":
		return r.Get("Description")
	case "extract_net":
		if r.DataType == constants.DataTypeSales {
			return r.Get("Total")
		}
		return r.Get("Net")
	case "extract_vat":
		if r.DataType == constants.DataTypeSales {
			return currency.Format(0)
		}
		return r.Get("VAT")
	}
	// constants (tax code, blank department) pass through
	return marker
}
