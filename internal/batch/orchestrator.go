// Package batch drives a whole run: input discovery, per-file processing,
// standardized-copy side effects, aggregation and output writing. Per-file
// failures are collected, never propagated; only an unreadable input
// directory fails the run.
package batch

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/DanielZo0/CMS-Sales/constants"
	"github.com/DanielZo0/CMS-Sales/internal/common"
	"github.com/DanielZo0/CMS-Sales/internal/entity"
	"github.com/DanielZo0/CMS-Sales/internal/export"
	"github.com/DanielZo0/CMS-Sales/internal/ingest"
	"github.com/DanielZo0/CMS-Sales/internal/normalize"
	"github.com/DanielZo0/CMS-Sales/internal/pipeline"
	"github.com/DanielZo0/CMS-Sales/internal/repository"
)

// Failure is one per-file failure entry.
type Failure struct {
	File   string
	Reason string
}

// Result aggregates a run. Records are append-only: once a record is in,
// nothing mutates it.
type Result struct {
	Sales     []*entity.Record
	Purchases []*entity.Record
	Failures  []Failure
	Skipped   int
	Renamed   int
}

// Records returns sales then purchases in processing order.
func (r *Result) Records() []*entity.Record {
	all := make([]*entity.Record, 0, len(r.Sales)+len(r.Purchases))
	all = append(all, r.Sales...)
	all = append(all, r.Purchases...)
	return all
}

func (r *Result) Succeeded() int {
	return len(r.Sales) + len(r.Purchases)
}

// Orchestrator wires the per-file processor to discovery, exports and the
// run ledger.
type Orchestrator struct {
	Logger       *slog.Logger
	Processor    *pipeline.Processor
	Exporter     *export.Service
	Ledger       *repository.RunLedger // nil disables ledger writes
	OutputFormat string
	SkipHidden   bool
}

// Run processes every discoverable file under inputDir and writes all
// outputs. The returned error is non-nil only when the input directory
// itself cannot be read.
func (o *Orchestrator) Run(ctx context.Context, inputDir string) (*Result, error) {
	files, stats, err := ingest.DiscoverFiles(inputDir, o.SkipHidden)
	if err != nil {
		return nil, err
	}
	o.Logger.Info("batch.discovered", "scanned", stats.Scanned, "matched", stats.Matched, "input", inputDir)

	runID := o.startLedgerRun(ctx, inputDir)

	result := &Result{}
	renamedRecords := make(map[string]*entity.Record)
	var renamedOrder []string
	var summary []export.SummaryRow
	warnedMissing := make(map[constants.FileFormat]bool)

	for _, src := range files {
		outcome := o.Processor.ProcessFile(ctx, src)

		// Standardized PDF copy is decoupled from extraction success.
		if src.Format == constants.FormatPDF && outcome.Resolution != nil {
			name := normalize.StandardPDFName(outcome.Resolution.Locality, outcome.Resolution.Week)
			if err := o.Exporter.CopyStandardizedPDF(src.Path, name); err != nil {
				o.Logger.Warn("batch.rename.failed", "path", src.Path, "err", err)
			} else {
				result.Renamed++
				o.Logger.Debug("batch.rename.ok", "path", src.Path, "name", name)
			}
		}

		switch {
		case outcome.Skipped():
			result.Skipped++
			if !warnedMissing[src.Format] {
				warnedMissing[src.Format] = true
				o.Logger.Warn("batch.format.skipped", "format", src.Format, "reason", "no parsing backend")
			}
			summary = append(summary, export.SummaryRow{File: src.Path, Status: string(constants.FileStatusSkipped)})
			o.recordLedgerFile(ctx, runID, src, constants.FileStatusSkipped, "no parsing backend", "")

		case outcome.Err != nil:
			if !common.IsPerFileError(outcome.Err) {
				// not extraction or resolution: likely an I/O or parser bug
				o.Logger.Warn("batch.unexpected_error", "path", src.Path, "err", outcome.Err)
			}
			result.Failures = append(result.Failures, Failure{File: src.Path, Reason: outcome.Err.Error()})
			summary = append(summary, export.SummaryRow{File: src.Path, Status: string(constants.FileStatusFailed), Reason: outcome.Err.Error()})
			o.recordLedgerFile(ctx, runID, src, constants.FileStatusFailed, outcome.Err.Error(), "")

		default:
			rec := outcome.Record
			if rec.DataType == constants.DataTypeExpenses {
				result.Purchases = append(result.Purchases, rec)
			} else {
				result.Sales = append(result.Sales, rec)
			}
			key := normalize.IdentityKey(rec.Locality, rec.Week)
			if _, seen := renamedRecords[key]; !seen {
				renamedOrder = append(renamedOrder, key)
			}
			renamedRecords[key] = rec // last write wins
			summary = append(summary, export.SummaryRow{File: src.Path, Status: string(constants.FileStatusOK)})
			o.recordLedgerFile(ctx, runID, src, constants.FileStatusOK, "", key)
		}
	}

	o.writeOutputs(result, renamedRecords, renamedOrder, summary)
	o.finishLedgerRun(ctx, runID, result)

	o.Logger.Info("batch.done",
		"succeeded", result.Succeeded(),
		"failed", len(result.Failures),
		"skipped", result.Skipped,
		"renamed_pdfs", result.Renamed,
	)
	for _, f := range result.Failures {
		o.Logger.Debug("batch.failure", "file", f.File, "reason", f.Reason)
	}
	return result, nil
}

// writeOutputs writes every artifact independently; an I/O failure on one is
// fatal only for that artifact.
func (o *Orchestrator) writeOutputs(result *Result, renamed map[string]*entity.Record, order []string, summary []export.SummaryRow) {
	warn := func(artifact string, err error) {
		if err != nil {
			o.Logger.Error("batch.output.failed", "artifact", artifact, "err", err)
		}
	}

	for _, rec := range result.Records() {
		warn("individual json", o.Exporter.WriteIndividualJSON(rec))
	}
	for _, key := range order {
		warn("renamed invoice", o.Exporter.WriteRenamedInvoice(key, renamed[key]))
	}
	if len(result.Sales) > 0 {
		warn("sales json", o.Exporter.WriteCombinedJSON("sales_data.json", result.Sales))
		warn("sales csv", o.Exporter.WriteCombinedCSV("sales_data.csv", result.Sales[0].Keys(), result.Sales))
	}
	if len(result.Purchases) > 0 {
		warn("purchases json", o.Exporter.WriteCombinedJSON("purchases_data.json", result.Purchases))
		warn("purchases csv", o.Exporter.WriteCombinedCSV("purchases_data.csv", result.Purchases[0].Keys(), result.Purchases))
	}
	if result.Succeeded() > 0 {
		warn("combined csv", o.Exporter.WriteCombinedSalesPurchases(result.Sales, result.Purchases))
		warn("upload csv", o.Exporter.WriteUploadCSV(result.Records()))
	}
	if o.OutputFormat == "excel" {
		warn("workbook", o.Exporter.WriteWorkbook(result.Records(), summary))
	}
}

func (o *Orchestrator) startLedgerRun(ctx context.Context, inputDir string) uuid.UUID {
	if o.Ledger == nil {
		return uuid.Nil
	}
	id, err := o.Ledger.StartRun(ctx, inputDir, "")
	if err != nil {
		o.Logger.Warn("batch.ledger.failed", "err", err)
		return uuid.Nil
	}
	return id
}

func (o *Orchestrator) recordLedgerFile(ctx context.Context, runID uuid.UUID, src ingest.SourceFile, status constants.FileStatus, reason, key string) {
	if o.Ledger == nil || runID == uuid.Nil {
		return
	}
	if err := o.Ledger.RecordFile(ctx, runID, src.Path, src.Format, status, reason, key); err != nil {
		o.Logger.Warn("batch.ledger.failed", "err", err)
	}
}

func (o *Orchestrator) finishLedgerRun(ctx context.Context, runID uuid.UUID, result *Result) {
	if o.Ledger == nil || runID == uuid.Nil {
		return
	}
	if err := o.Ledger.FinishRun(ctx, runID, result.Succeeded(), len(result.Failures), result.Skipped); err != nil {
		o.Logger.Warn("batch.ledger.failed", "err", err)
	}
}
