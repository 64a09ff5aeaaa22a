package batch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/DanielZo0/CMS-Sales/constants"
	"github.com/DanielZo0/CMS-Sales/internal/common"
	"github.com/DanielZo0/CMS-Sales/internal/export"
	"github.com/DanielZo0/CMS-Sales/internal/extract"
	"github.com/DanielZo0/CMS-Sales/internal/normalize"
	"github.com/DanielZo0/CMS-Sales/internal/pipeline"
	"github.com/DanielZo0/CMS-Sales/internal/resolve"
	"github.com/DanielZo0/CMS-Sales/internal/template"
)

type fakeExtractor struct {
	fields map[string]*extract.RawFields
	errs   map[string]error
}

func (f *fakeExtractor) Extract(_ context.Context, path string) (*extract.RawFields, error) {
	base := filepath.Base(path)
	if err := f.errs[base]; err != nil {
		return nil, err
	}
	return f.fields[base], nil
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func salesFields(docNum string) *extract.RawFields {
	return &extract.RawFields{
		DocumentDate:   "31/3/25",
		DocumentNumber: docNum,
		StartDate:      "24/3/25",
		EndDate:        "30/3/25",
		Total:          "13,769.01",
	}
}

func testOrchestrator(t *testing.T, fake *fakeExtractor, outputDir string) *Orchestrator {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	templates := template.Load(t.TempDir(), logger)
	return &Orchestrator{
		Logger: logger,
		Processor: pipeline.NewProcessor(
			logger,
			map[constants.FileFormat]extract.Extractor{constants.FormatPDF: fake},
			resolve.NewResolver(logger),
			normalize.NewNormalizer(templates, logger),
		),
		Exporter:     export.NewService(outputDir, templates, logger),
		OutputFormat: "csv",
		SkipHidden:   true,
	}
}

func TestRunIsolatesPerFileFailures(t *testing.T) {
	input := t.TempDir()
	output := t.TempDir()
	touch(t, filepath.Join(input, "Tarxien wk5.pdf"))
	touch(t, filepath.Join(input, "Fgura wk6.pdf"))
	touch(t, filepath.Join(input, "Zabbar wk7.pdf"))

	fake := &fakeExtractor{
		fields: map[string]*extract.RawFields{
			"Tarxien wk5.pdf": salesFields("101"),
			"Zabbar wk7.pdf":  salesFields("103"),
		},
		errs: map[string]error{
			"Fgura wk6.pdf": common.ExtractionErrorf("document number not found"),
		},
	}

	result, err := testOrchestrator(t, fake, output).Run(context.Background(), input)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Sales) != 2 {
		t.Errorf("Sales = %d, want 2", len(result.Sales))
	}
	if len(result.Failures) != 1 {
		t.Fatalf("Failures = %d, want 1", len(result.Failures))
	}
	if filepath.Base(result.Failures[0].File) != "Fgura wk6.pdf" {
		t.Errorf("failed file = %q", result.Failures[0].File)
	}
	if result.Skipped != 0 {
		t.Errorf("Skipped = %d", result.Skipped)
	}

	// every PDF is renamed, the failed one included: its identity resolves
	// from the filename
	if result.Renamed != 3 {
		t.Errorf("Renamed = %d, want 3", result.Renamed)
	}
	for _, name := range []string{
		"Weekly Sales - Tarxien Week 5.pdf",
		"Weekly Sales - Fgura Week 6.pdf",
		"Weekly Sales - Zabbar Week 7.pdf",
	} {
		if _, err := os.Stat(filepath.Join(output, "renamed_invoices", name)); err != nil {
			t.Errorf("standardized copy %q missing: %v", name, err)
		}
	}
}

func TestRunWritesOutputs(t *testing.T) {
	input := t.TempDir()
	output := t.TempDir()
	touch(t, filepath.Join(input, "Tarxien wk5.pdf"))

	fake := &fakeExtractor{fields: map[string]*extract.RawFields{
		"Tarxien wk5.pdf": salesFields("101"),
	}}

	if _, err := testOrchestrator(t, fake, output).Run(context.Background(), input); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{
		"sales_data.json",
		"sales_data.csv",
		"combined_sales_purchases.csv",
		"upload_data.csv",
		filepath.Join("individual_json", "Tarxien wk5.json"),
		filepath.Join("renamed_invoices", "Weekly Sales - Tarxien Wk'05'.json"),
	} {
		if _, err := os.Stat(filepath.Join(output, name)); err != nil {
			t.Errorf("output %q missing: %v", name, err)
		}
	}
	// purchases files are only written when purchase records exist
	if _, err := os.Stat(filepath.Join(output, "purchases_data.json")); err == nil {
		t.Error("purchases_data.json written with no purchase records")
	}
}

func TestRunSkipsFormatsWithoutBackend(t *testing.T) {
	input := t.TempDir()
	output := t.TempDir()
	touch(t, filepath.Join(input, "Fgura Delicatessen wk6.xlsx"))

	fake := &fakeExtractor{} // no Excel backend registered
	result, err := testOrchestrator(t, fake, output).Run(context.Background(), input)
	if err != nil {
		t.Fatal(err)
	}
	if result.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", result.Skipped)
	}
	if len(result.Failures) != 0 {
		t.Errorf("Failures = %d, want 0", len(result.Failures))
	}
}

func TestRunDuplicateIdentityLastWriteWins(t *testing.T) {
	input := t.TempDir()
	output := t.TempDir()
	touch(t, filepath.Join(input, "Tarxien wk5.pdf"))
	touch(t, filepath.Join(input, "Tarxien wk5 copy.pdf"))

	fake := &fakeExtractor{fields: map[string]*extract.RawFields{
		"Tarxien wk5.pdf":      salesFields("101"),
		"Tarxien wk5 copy.pdf": salesFields("202"),
	}}

	result, err := testOrchestrator(t, fake, output).Run(context.Background(), input)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Sales) != 2 {
		t.Fatalf("Sales = %d, want 2", len(result.Sales))
	}
	entries, err := os.ReadDir(filepath.Join(output, "renamed_invoices"))
	if err != nil {
		t.Fatal(err)
	}
	jsonCount := 0
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".json" {
			jsonCount++
		}
	}
	if jsonCount != 1 {
		t.Errorf("renamed invoice jsons = %d, want 1 per identity", jsonCount)
	}
}

func TestRunMissingInputDirFails(t *testing.T) {
	fake := &fakeExtractor{}
	_, err := testOrchestrator(t, fake, t.TempDir()).Run(context.Background(), filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("unreadable input directory should fail the run")
	}
}
