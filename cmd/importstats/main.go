package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	_ "time/tzdata"

	"statimport/internal/config"
	"statimport/internal/errors"
	"statimport/internal/importer"
	"statimport/internal/infrastructure"
	"statimport/pkg/contracts/domain"
)

// output is the JSON document handed to the downstream statistics importer.
type output struct {
	UnitSource domain.UnitSource    `json:"unit_source"`
	Statistics domain.StatisticsSet `json:"statistics"`
}

func main() {
	file := flag.String("file", "", "input file (.csv or .xlsx)")
	timezone := flag.String("timezone", "", "IANA timezone identifier for parsed timestamps")
	delimiter := flag.String("delimiter", "", "field delimiter (defaults to config)")
	decimalDot := flag.Bool("decimal-dot", false, "numeric fields use '.' as decimal separator instead of ','")
	datetimeFormat := flag.String("datetime-format", "", "timestamp format, strptime style (defaults to config)")
	unitFromEntity := flag.Bool("unit-from-entity", false, "resolve units from the unit registry instead of the table")
	consumptionID := flag.String("consumption-id", "", "statistic id for the supplier-layout consumption series")
	supplyID := flag.String("supply-id", "", "statistic id for the supplier-layout supply series")
	consumptionUnit := flag.String("consumption-unit", "", "unit hint for the consumption series")
	supplyUnit := flag.String("supply-unit", "", "unit hint for the supply series")
	unitsFile := flag.String("units", "", "YAML file mapping statistic ids to units (required with -unit-from-entity)")
	out := flag.String("out", "", "output JSON path (defaults to stdout)")
	tracing := flag.Bool("tracing", false, "emit OpenTelemetry spans to stdout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("failed to load config, using defaults", "error", err)
		cfg = &config.Config{
			Logging: config.LoggingConfig{
				Level:    "info",
				Format:   "json",
				Output:   "console",
				FilePath: "logs/statimport.log",
			},
			Import: config.ImportConfig{
				Delimiter:      importer.DefaultDelimiter,
				DatetimeFormat: importer.DefaultDatetimeFormat,
			},
		}
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	otelCfg := infrastructure.DefaultOTelConfig()
	otelCfg.EnableTracing = *tracing
	providers, err := infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		logger.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := infrastructure.ContextWithTraceID(context.Background())
	defer providers.Shutdown(ctx)

	if err := run(ctx, logger, providers, requestFromFlags(cfg, *file, *timezone, *delimiter, *decimalDot,
		*datetimeFormat, *unitFromEntity, *consumptionID, *supplyID, *consumptionUnit, *supplyUnit), *unitsFile, *out); err != nil {
		logger.Error("import failed", slog.String("error", err.Error()))
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// requestFromFlags merges config defaults with command line flags into an
// import request.
func requestFromFlags(cfg *config.Config, file, timezone, delimiter string, decimalDot bool,
	datetimeFormat string, unitFromEntity bool, consumptionID, supplyID, consumptionUnit, supplyUnit string) importer.Request {

	if timezone == "" {
		timezone = cfg.Import.Timezone
	}
	if delimiter == "" {
		delimiter = cfg.Import.Delimiter
	}
	if datetimeFormat == "" {
		datetimeFormat = cfg.Import.DatetimeFormat
	}
	decimalComma := !cfg.Import.DecimalDot
	if decimalDot {
		decimalComma = false
	}

	return importer.Request{
		Path:            file,
		TimezoneID:      timezone,
		Delimiter:       delimiter,
		DecimalComma:    &decimalComma,
		DatetimeFormat:  datetimeFormat,
		UnitFromEntity:  unitFromEntity,
		ConsumptionID:   consumptionID,
		SupplyID:        supplyID,
		ConsumptionUnit: consumptionUnit,
		SupplyUnit:      supplyUnit,
	}
}

// run performs the import and writes the prepared statistics as JSON.
func run(ctx context.Context, logger *slog.Logger,
	providers *infrastructure.OTelProviders, req importer.Request, unitsFile, outPath string) error {

	var registry importer.UnitRegistry
	if unitsFile != "" {
		static, err := importer.LoadRegistryFile(unitsFile)
		if err != nil {
			return errors.NewConfigError("cannot load unit registry", err)
		}
		registry = static
	}

	imp := importer.New(logger, providers.Tracer, registry)
	stats, unitSource, err := imp.Prepare(ctx, req)
	if err != nil {
		return err
	}

	doc, err := json.MarshalIndent(output{UnitSource: unitSource, Statistics: stats}, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot encode output: %w", err)
	}
	doc = append(doc, '\n')

	if outPath == "" {
		_, err = os.Stdout.Write(doc)
		return err
	}
	if err := os.WriteFile(outPath, doc, 0644); err != nil {
		return fmt.Errorf("cannot write %s: %w", outPath, err)
	}

	logger.InfoContext(ctx, "statistics written",
		slog.String("path", outPath),
		slog.Int("series", len(stats)),
		slog.Int("points", stats.PointCount()))
	return nil
}
