package ingest

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/DanielZo0/CMS-Sales/constants"
)

// SourceFile is one discovered input document, classified by extension.
type SourceFile struct {
	Path     string
	Format   constants.FileFormat
	DataType constants.DataType
}

// DirStats summarizes a discovery pass.
type DirStats struct {
	Scanned uint32
	Matched uint32
}

// DiscoverFiles walks root and returns the processable documents in walk
// order. PDFs are weekly sales invoices; spreadsheets are rent (purchase)
// invoices when their name carries the delicatessen marker, sales otherwise.
// A root that cannot be read at all is fatal for the run.
func DiscoverFiles(root string, skipHidden bool) ([]SourceFile, DirStats, error) {
	var files []SourceFile
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			// unreadable entries below the root are skipped, not fatal
			return nil
		}
		stats.Scanned++
		if skipHidden && isHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		format, ok := constants.FormatForExt(filepath.Ext(path))
		if !ok {
			return nil
		}
		stats.Matched++
		files = append(files, SourceFile{
			Path:     path,
			Format:   format,
			DataType: classify(path, format),
		})
		return nil
	})
	if err != nil {
		return nil, stats, fmt.Errorf("read input directory %s: %w", root, err)
	}
	return files, stats, nil
}

func classify(path string, format constants.FileFormat) constants.DataType {
	if format == constants.FormatExcel &&
		strings.Contains(strings.ToLower(filepath.Base(path)), "delicatessen") {
		return constants.DataTypeExpenses
	}
	return constants.DataTypeSales
}

func isHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".")
}
