package importer

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "statimport/internal/errors"
	"statimport/pkg/contracts/domain"
)

// Default option values applied by ResolveOptions.
const (
	DefaultDelimiter      = ";"
	DefaultDatetimeFormat = "%d.%m.%Y %H:%M"
	DefaultConsumptionID  = "sensor.energy_consumption"
	DefaultSupplyID       = "sensor.energy_supply"
)

// Request carries the caller-supplied options for one import, service-call
// style: everything except the file path and timezone is optional.
type Request struct {
	Path            string `json:"filename" validate:"required"`
	TimezoneID      string `json:"timezone_identifier" validate:"required"`
	Delimiter       string `json:"delimiter,omitempty" validate:"omitempty,len=1"`
	DecimalComma    *bool  `json:"decimal,omitempty"`
	DatetimeFormat  string `json:"datetime_format,omitempty"`
	UnitFromEntity  bool   `json:"unit_from_entity,omitempty"`
	ConsumptionID   string `json:"statistic_id_consumption,omitempty" validate:"omitempty,statistic_id"`
	SupplyID        string `json:"statistic_id_supply,omitempty" validate:"omitempty,statistic_id"`
	ConsumptionUnit string `json:"unit_consumption,omitempty"`
	SupplyUnit      string `json:"unit_supply,omitempty"`
}

// Options is the validated, defaulted form of a Request. Immutable once
// computed.
type Options struct {
	Path            string
	DecimalSep      string
	Delimiter       rune
	TimezoneID      string
	Location        *time.Location
	DatetimeFormat  string
	UnitSource      domain.UnitSource
	ConsumptionID   string
	SupplyID        string
	ConsumptionUnit string
	SupplyUnit      string

	// Go reference layout derived from DatetimeFormat
	timeLayout string
}

var requestValidator = newRequestValidator()

// newRequestValidator builds the validator used for import requests
func newRequestValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("statistic_id", isStatisticID)
	return v
}

// isStatisticID checks that an identifier carries a namespace segment,
// e.g. "sensor.energy_consumption" or "import:energy".
func isStatisticID(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	return SourceOf(id) != "" && SourceOf(id) != id
}

// ResolveOptions normalizes a Request into Options.
//
// Validation order: struct tags first, then file existence, then timezone
// resolution. Both filesystem and timezone failures abort the import; nothing
// is retried.
func ResolveOptions(logger *slog.Logger, req Request) (*Options, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := requestValidator.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("invalid import request", err)
	}

	opts := &Options{
		Path:            req.Path,
		DecimalSep:      ",",
		Delimiter:       rune(DefaultDelimiter[0]),
		TimezoneID:      req.TimezoneID,
		DatetimeFormat:  DefaultDatetimeFormat,
		UnitSource:      domain.UnitFromTable,
		ConsumptionID:   DefaultConsumptionID,
		SupplyID:        DefaultSupplyID,
		ConsumptionUnit: req.ConsumptionUnit,
		SupplyUnit:      req.SupplyUnit,
	}

	if req.DecimalComma != nil && !*req.DecimalComma {
		opts.DecimalSep = "."
	}
	if req.Delimiter != "" {
		opts.Delimiter = []rune(req.Delimiter)[0]
	}
	if req.DatetimeFormat != "" {
		opts.DatetimeFormat = req.DatetimeFormat
	}
	if req.UnitFromEntity {
		opts.UnitSource = domain.UnitFromSourceSystem
	}
	if req.ConsumptionID != "" {
		opts.ConsumptionID = req.ConsumptionID
	}
	if req.SupplyID != "" {
		opts.SupplyID = req.SupplyID
	}

	// File existence check first
	if _, err := os.Stat(opts.Path); err != nil {
		return nil, apperrors.NewFileNotFoundError(opts.Path)
	}

	loc, err := time.LoadLocation(opts.TimezoneID)
	if err != nil {
		return nil, apperrors.NewInvalidTimezoneError(opts.TimezoneID, err)
	}
	opts.Location = loc

	layout, err := strptimeToLayout(opts.DatetimeFormat)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid datetime_format", err)
	}
	opts.timeLayout = layout

	logger.Info("importing statistics from file", slog.String("path", opts.Path))
	logger.Debug("resolved import options",
		slog.String("timezone_identifier", opts.TimezoneID),
		slog.String("delimiter", string(opts.Delimiter)),
		slog.String("decimal_separator", opts.DecimalSep),
		slog.String("datetime_format", opts.DatetimeFormat),
		slog.String("unit_source", string(opts.UnitSource)))

	return opts, nil
}

// parseFloat parses a numeric field honoring the resolved decimal separator.
func (o *Options) parseFloat(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if o.DecimalSep == "," {
		s = strings.ReplaceAll(s, ",", ".")
	}
	return parseFloatStrict(s)
}

// parseTimestamp parses a raw timestamp strictly against the resolved format
// and attaches the resolved timezone as the instant's civil-time zone. The
// raw text is assumed to already represent local wall-clock time in that zone.
func (o *Options) parseTimestamp(raw string) (time.Time, error) {
	ts, err := time.ParseInLocation(o.timeLayout, strings.TrimSpace(raw), o.Location)
	if err != nil {
		return time.Time{}, apperrors.NewMalformedTimestampError(raw, err)
	}
	return ts, nil
}
