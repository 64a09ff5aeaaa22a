package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/DanielZo0/CMS-Sales/constants"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "Tarxien wk5.pdf"))
	touch(t, filepath.Join(dir, "Fgura Delicatessen Week 5.xlsx"))
	touch(t, filepath.Join(dir, "nested", "Zabbar wk6.PDF"))
	touch(t, filepath.Join(dir, "notes.txt"))
	touch(t, filepath.Join(dir, ".hidden.pdf"))

	files, stats, err := DiscoverFiles(dir, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 3 {
		t.Fatalf("discovered %d files, want 3: %+v", len(files), files)
	}
	if stats.Matched != 3 {
		t.Errorf("Matched = %d", stats.Matched)
	}

	byBase := map[string]SourceFile{}
	for _, f := range files {
		byBase[filepath.Base(f.Path)] = f
	}

	pdf := byBase["Tarxien wk5.pdf"]
	if pdf.Format != constants.FormatPDF || pdf.DataType != constants.DataTypeSales {
		t.Errorf("pdf classified as %s/%s", pdf.Format, pdf.DataType)
	}
	deli := byBase["Fgura Delicatessen Week 5.xlsx"]
	if deli.Format != constants.FormatExcel || deli.DataType != constants.DataTypeExpenses {
		t.Errorf("delicatessen sheet classified as %s/%s", deli.Format, deli.DataType)
	}
	if _, ok := byBase["Zabbar wk6.PDF"]; !ok {
		t.Error("uppercase extension in a subdirectory should be picked up")
	}
}

func TestDiscoverFilesKeepsHiddenWhenAsked(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, ".hidden.pdf"))

	files, _, err := DiscoverFiles(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("discovered %d files, want 1", len(files))
	}
}

func TestDiscoverFilesMissingRootFails(t *testing.T) {
	_, _, err := DiscoverFiles(filepath.Join(t.TempDir(), "does-not-exist"), true)
	if err == nil {
		t.Fatal("missing input directory should be fatal")
	}
}

func TestDiscoverFilesSkipsHiddenDirectories(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, ".cache", "Tarxien wk1.pdf"))
	touch(t, filepath.Join(dir, "Tarxien wk2.pdf"))

	files, _, err := DiscoverFiles(dir, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("discovered %d files, want 1", len(files))
	}
}
