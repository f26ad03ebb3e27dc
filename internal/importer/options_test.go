package importer

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "statimport/internal/errors"
	"statimport/pkg/contracts/domain"
)

// testLogger returns a logger that discards everything.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeInput writes the given lines as a temp input file and returns its path.
func writeInput(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
	return path
}

func TestResolveOptions_Defaults(t *testing.T) {
	path := writeInput(t, "input.csv", "statistic_id;start;sum", "sensor.a;01.01.2023 00:00;5")

	opts, err := ResolveOptions(testLogger(), Request{
		Path:       path,
		TimezoneID: "Europe/Berlin",
	})
	require.NoError(t, err)

	assert.Equal(t, ",", opts.DecimalSep)
	assert.Equal(t, ';', opts.Delimiter)
	assert.Equal(t, DefaultDatetimeFormat, opts.DatetimeFormat)
	assert.Equal(t, "02.01.2006 15:04", opts.timeLayout)
	assert.Equal(t, domain.UnitFromTable, opts.UnitSource)
	assert.Equal(t, DefaultConsumptionID, opts.ConsumptionID)
	assert.Equal(t, DefaultSupplyID, opts.SupplyID)
	assert.Equal(t, "Europe/Berlin", opts.Location.String())
}

func TestResolveOptions_Overrides(t *testing.T) {
	path := writeInput(t, "input.csv", "statistic_id,start,sum", "sensor.a,01/01/2023,5")
	useComma := false

	opts, err := ResolveOptions(testLogger(), Request{
		Path:            path,
		TimezoneID:      "UTC",
		Delimiter:       ",",
		DecimalComma:    &useComma,
		DatetimeFormat:  "%d/%m/%Y",
		UnitFromEntity:  true,
		ConsumptionID:   "sensor.grid_in",
		SupplyID:        "sensor.grid_out",
		ConsumptionUnit: "kWh",
		SupplyUnit:      "kWh",
	})
	require.NoError(t, err)

	assert.Equal(t, ".", opts.DecimalSep)
	assert.Equal(t, ',', opts.Delimiter)
	assert.Equal(t, "02/01/2006", opts.timeLayout)
	assert.Equal(t, domain.UnitFromSourceSystem, opts.UnitSource)
	assert.Equal(t, "sensor.grid_in", opts.ConsumptionID)
	assert.Equal(t, "sensor.grid_out", opts.SupplyID)
	assert.Equal(t, "kWh", opts.ConsumptionUnit)
}

func TestResolveOptions_FileNotFound(t *testing.T) {
	// The missing file must be reported before the timezone is even looked at.
	_, err := ResolveOptions(testLogger(), Request{
		Path:       filepath.Join(t.TempDir(), "missing.csv"),
		TimezoneID: "Not/AZone",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeFileNotFound))
	assert.Contains(t, err.Error(), "missing.csv")
}

func TestResolveOptions_InvalidTimezone(t *testing.T) {
	path := writeInput(t, "input.csv", "statistic_id;start;sum")

	_, err := ResolveOptions(testLogger(), Request{
		Path:       path,
		TimezoneID: "Not/AZone",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInvalidTimezone))
	assert.Contains(t, err.Error(), "Not/AZone")
}

func TestResolveOptions_Validation(t *testing.T) {
	path := writeInput(t, "input.csv", "statistic_id;start;sum")

	tests := []struct {
		name string
		req  Request
	}{
		{
			name: "missing path",
			req:  Request{TimezoneID: "UTC"},
		},
		{
			name: "missing timezone",
			req:  Request{Path: path},
		},
		{
			name: "multi character delimiter",
			req:  Request{Path: path, TimezoneID: "UTC", Delimiter: ";;"},
		},
		{
			name: "statistic id without namespace",
			req:  Request{Path: path, TimezoneID: "UTC", ConsumptionID: "energyconsumption"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveOptions(testLogger(), tt.req)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
		})
	}
}

func TestResolveOptions_BadDatetimeFormat(t *testing.T) {
	path := writeInput(t, "input.csv", "statistic_id;start;sum")

	_, err := ResolveOptions(testLogger(), Request{
		Path:           path,
		TimezoneID:     "UTC",
		DatetimeFormat: "%Q",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}
