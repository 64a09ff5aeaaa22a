// Package pipeline runs the per-file stages: format-specific field
// extraction, locality/week resolution, then normalization against the
// template. One file in, one outcome out; batch concerns live in the
// orchestrator.
package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/DanielZo0/CMS-Sales/constants"
	"github.com/DanielZo0/CMS-Sales/internal/common"
	"github.com/DanielZo0/CMS-Sales/internal/entity"
	"github.com/DanielZo0/CMS-Sales/internal/extract"
	"github.com/DanielZo0/CMS-Sales/internal/ingest"
	"github.com/DanielZo0/CMS-Sales/internal/normalize"
	"github.com/DanielZo0/CMS-Sales/internal/resolve"
)

// Processor coordinates extract, resolve and normalize for one file.
type Processor struct {
	Logger     *slog.Logger
	Extractors map[constants.FileFormat]extract.Extractor
	Resolver   *resolve.Resolver
	Normalizer *normalize.Normalizer
}

func NewProcessor(logger *slog.Logger, extractors map[constants.FileFormat]extract.Extractor, resolver *resolve.Resolver, normalizer *normalize.Normalizer) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, Extractors: extractors, Resolver: resolver, Normalizer: normalizer}
}

// FileOutcome is the result of processing one source file. Resolution may be
// present even when Err is set: the standardized-copy side effect only needs
// the identity, not a full record.
type FileOutcome struct {
	Record     *entity.Record
	Resolution *resolve.Resolution
	Err        error
}

// Skipped reports whether the file was skipped for a missing backend rather
// than failed.
func (o FileOutcome) Skipped() bool {
	return errors.Is(o.Err, common.ErrDependencyUnavailable)
}

// ProcessFile runs the three stages for one file. All per-file errors come
// back in the outcome; nothing here aborts the batch.
func (p *Processor) ProcessFile(ctx context.Context, src ingest.SourceFile) FileOutcome {
	extractor, ok := p.Extractors[src.Format]
	if !ok {
		return FileOutcome{Err: common.WrapError(common.ErrDependencyUnavailable, string(src.Format))}
	}

	fields, extErr := extractor.Extract(ctx, src.Path)
	if extErr != nil {
		fields = nil
	}

	// Resolution is attempted even after a failed extraction so the rename
	// side effect can still run off the filename.
	var resolution *resolve.Resolution
	res, resErr := p.Resolver.Resolve(src.Path, fields)
	if resErr == nil {
		resolution = &res
	}

	if extErr != nil {
		p.Logger.Error("pipeline.extract.failed", "path", src.Path, "err", extErr)
		return FileOutcome{Resolution: resolution, Err: extErr}
	}
	if resErr != nil {
		p.Logger.Error("pipeline.resolve.failed", "path", src.Path, "err", resErr)
		return FileOutcome{Err: resErr}
	}

	rec, err := p.Normalizer.Normalize(normalize.Input{
		Fields:     fields,
		Locality:   res.Locality,
		Week:       res.Week,
		DataType:   src.DataType,
		SourceFile: src.Path,
	})
	if err != nil {
		p.Logger.Error("pipeline.normalize.failed", "path", src.Path, "err", err)
		return FileOutcome{Resolution: resolution, Err: err}
	}

	p.Logger.Info("pipeline.file.ok",
		"path", src.Path,
		"locality", res.Locality,
		"week", res.Week,
		"document_number", rec.Get("Document Number"),
	)
	return FileOutcome{Record: rec, Resolution: resolution}
}
