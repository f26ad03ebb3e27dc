package importer

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"statimport/pkg/contracts/domain"
)

// Importer turns input files into per-series statistics, ready for the
// downstream statistics-import backend.
type Importer struct {
	logger   *slog.Logger
	tracer   trace.Tracer
	registry UnitRegistry
}

// New creates an Importer. registry may be nil when no caller ever resolves
// units from the source system.
func New(logger *slog.Logger, tracer trace.Tracer, registry UnitRegistry) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = otel.Tracer("statimport/importer")
	}
	return &Importer{
		logger:   logger.With(slog.String("component", "importer")),
		tracer:   tracer,
		registry: registry,
	}
}

// Prepare runs the whole transformation for one request: resolve options,
// load the table, accumulate series. It is a pure function of the file
// contents and the request; on error no partial result is returned. The
// resolved unit-source mode is returned alongside the statistics for
// downstream reporting.
func (i *Importer) Prepare(ctx context.Context, req Request) (domain.StatisticsSet, domain.UnitSource, error) {
	ctx, span := i.tracer.Start(ctx, "importer.Prepare",
		trace.WithAttributes(attribute.String("import.path", req.Path)))
	defer span.End()

	opts, err := ResolveOptions(i.logger, req)
	if err != nil {
		return i.fail(ctx, span, err)
	}

	table, err := LoadTable(opts)
	if err != nil {
		return i.fail(ctx, span, err)
	}
	span.SetAttributes(attribute.String("import.layout", table.Layout.String()))

	stats, err := Accumulate(table, opts, i.registry)
	if err != nil {
		return i.fail(ctx, span, err)
	}

	span.SetAttributes(
		attribute.Int("import.series", len(stats)),
		attribute.Int("import.points", stats.PointCount()),
	)
	i.logger.InfoContext(ctx, "statistics prepared",
		slog.String("layout", table.Layout.String()),
		slog.Int("series", len(stats)),
		slog.Int("points", stats.PointCount()))

	return stats, opts.UnitSource, nil
}

// fail records the error on the span and logs it before propagating.
func (i *Importer) fail(ctx context.Context, span trace.Span, err error) (domain.StatisticsSet, domain.UnitSource, error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	i.logger.ErrorContext(ctx, "import failed", slog.String("error", err.Error()))
	return nil, "", err
}
