package constants

import "strings"

// FileFormat identifies the extractor variant a source file is dispatched to.
type FileFormat string

const (
	FormatPDF   FileFormat = "PDF"
	FormatExcel FileFormat = "EXCEL"
)

// AllowedExtensions holds the file extensions picked up by batch discovery.
var AllowedExtensions = map[string]FileFormat{
	"pdf":  FormatPDF,
	"xlsx": FormatExcel,
	"xls":  FormatExcel,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// FormatForExt classifies a file extension, reporting whether it is one of
// the formats the batch processes.
func FormatForExt(ext string) (FileFormat, bool) {
	f, ok := AllowedExtensions[NormalizeExt(ext)]
	return f, ok
}
