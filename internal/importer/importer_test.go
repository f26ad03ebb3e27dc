package importer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "statimport/internal/errors"
	"statimport/pkg/contracts/domain"
)

func TestPrepare_SumSeries(t *testing.T) {
	path := writeInput(t, "input.csv",
		"statistic_id;start;sum",
		"sensor.a;01.01.2023 00:00;5",
		"sensor.a;01.01.2023 01:00;3")

	imp := New(testLogger(), nil, nil)
	stats, unitSource, err := imp.Prepare(context.Background(), Request{
		Path:       path,
		TimezoneID: "Europe/Berlin",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.UnitFromTable, unitSource)
	require.Equal(t, []string{"sensor.a"}, stats.Keys())

	series := stats["sensor.a"]
	assert.True(t, series.Metadata.HasSum)
	assert.False(t, series.Metadata.HasMean)
	require.Len(t, series.Points, 2)
	assert.Equal(t, 5.0, *series.Points[0].Sum)
	assert.Equal(t, 3.0, *series.Points[1].Sum)
	assert.True(t, series.Points[0].Start.Before(series.Points[1].Start))
}

func TestPrepare_TwoStatisticIDs(t *testing.T) {
	path := writeInput(t, "input.csv",
		"statistic_id;start;sum;unit",
		"sensor.a;01.01.2023 00:00;5;kWh",
		"sensor.b;01.01.2023 00:00;1;kWh",
		"sensor.a;01.01.2023 01:00;6;kWh")

	imp := New(testLogger(), nil, nil)
	stats, _, err := imp.Prepare(context.Background(), Request{
		Path:       path,
		TimezoneID: "UTC",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"sensor.a", "sensor.b"}, stats.Keys())
	for _, key := range stats.Keys() {
		assert.True(t, stats[key].Metadata.HasSum)
		assert.False(t, stats[key].Metadata.HasMean)
	}
	assert.Len(t, stats["sensor.a"].Points, 2)
	assert.Len(t, stats["sensor.b"].Points, 1)
	assert.Equal(t, 3, stats.PointCount())
}

func TestPrepare_Idempotent(t *testing.T) {
	path := writeInput(t, "input.csv",
		"statistic_id;start;mean",
		"sensor.temp;01.01.2023 00:00;21,5",
		"sensor.temp;01.01.2023 01:00;20")

	imp := New(testLogger(), nil, nil)
	req := Request{Path: path, TimezoneID: "Europe/Berlin"}

	first, firstSource, err := imp.Prepare(context.Background(), req)
	require.NoError(t, err)
	second, secondSource, err := imp.Prepare(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, firstSource, secondSource)
	assert.Equal(t, first, second)
}

func TestPrepare_SupplierFileAlwaysYieldsTwoSeries(t *testing.T) {
	// Extra columns around the supplier headers do not change detection.
	path := writeInput(t, "input.csv",
		"Cislo;"+supplierColDatetime+";statistic_id;"+supplierColConsumption+";"+supplierColSupply,
		"1;01.01.2023 00:00;sensor.ignored;1;2")

	imp := New(testLogger(), nil, nil)
	stats, _, err := imp.Prepare(context.Background(), Request{
		Path:       path,
		TimezoneID: "Europe/Berlin",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{DefaultConsumptionID, DefaultSupplyID}, stats.Keys())
}

func TestPrepare_SupplierCustomIdentifiers(t *testing.T) {
	path := writeInput(t, "input.csv",
		supplierColDatetime+";"+supplierColConsumption+";"+supplierColSupply,
		"01.01.2023 00:00;1;2")

	imp := New(testLogger(), nil, nil)
	stats, _, err := imp.Prepare(context.Background(), Request{
		Path:          path,
		TimezoneID:    "UTC",
		ConsumptionID: "sensor.grid_in",
		SupplyID:      "sensor.grid_out",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"sensor.grid_in", "sensor.grid_out"}, stats.Keys())
}

func TestPrepare_UnitFromSourceSystem(t *testing.T) {
	path := writeInput(t, "input.csv",
		"statistic_id;start;sum",
		"sensor.a;01.01.2023 00:00;5")

	imp := New(testLogger(), nil, StaticRegistry{"sensor.a": "kWh"})
	stats, unitSource, err := imp.Prepare(context.Background(), Request{
		Path:           path,
		TimezoneID:     "UTC",
		UnitFromEntity: true,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.UnitFromSourceSystem, unitSource)
	assert.Equal(t, "kWh", stats["sensor.a"].Metadata.UnitOfMeasurement)
}

func TestPrepare_Failures(t *testing.T) {
	validFile := writeInput(t, "input.csv",
		"statistic_id;start;sum",
		"sensor.a;01.01.2023 00:00;5")

	tests := []struct {
		name     string
		req      Request
		registry UnitRegistry
		wantType apperrors.ErrorType
	}{
		{
			name:     "file not found",
			req:      Request{Path: "does/not/exist.csv", TimezoneID: "UTC"},
			wantType: apperrors.ErrTypeFileNotFound,
		},
		{
			name:     "invalid timezone",
			req:      Request{Path: validFile, TimezoneID: "Not/AZone"},
			wantType: apperrors.ErrTypeInvalidTimezone,
		},
		{
			name:     "registry miss",
			req:      Request{Path: validFile, TimezoneID: "UTC", UnitFromEntity: true},
			registry: StaticRegistry{},
			wantType: apperrors.ErrTypeUnresolvableUnit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imp := New(testLogger(), nil, tt.registry)
			stats, _, err := imp.Prepare(context.Background(), tt.req)
			require.Error(t, err)
			assert.Nil(t, stats)
			assert.True(t, apperrors.IsType(err, tt.wantType))
		})
	}
}
