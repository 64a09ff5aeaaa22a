package extract

import "context"

// RawFields is the partial field mapping an extractor produces from one
// source document. Values are kept exactly as found; formatting and template
// shaping happen in the normalizer. Optional fields stay empty rather than
// failing extraction.
type RawFields struct {
	DocumentDate   string // d/m/yy as printed in the document
	DocumentNumber string
	Locality       string // structured locality token, "" when not found
	Week           string // explicit week marker digits, "" when absent
	StartDate      string // week start boundary, d/m/yy
	EndDate        string // week end boundary, d/m/yy
	Net            string // raw amount string, Excel sources only
	VAT            string // raw amount string, Excel sources only
	Total          string // raw amount string

	// BodyText is the decoded document text, kept for locality/week
	// resolution fallbacks.
	BodyText string
}

// Extractor locates labeled fields in one source document. Implementations
// return an error wrapping common.ErrExtraction when the required fields
// (document number, amounts) cannot be located at all.
type Extractor interface {
	Extract(ctx context.Context, path string) (*RawFields, error)
}
