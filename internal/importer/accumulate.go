package importer

import (
	"statimport/pkg/contracts/domain"
)

// Accumulate groups a loaded table into per-identifier series. Point order
// within a series equals the row order of the source file.
func Accumulate(table *Table, opts *Options, registry UnitRegistry) (domain.StatisticsSet, error) {
	if table.Layout == LayoutSupplier {
		return accumulateSupplier(table, opts, registry)
	}
	return accumulateGeneric(table, opts, registry)
}

// accumulateGeneric walks the rows in order, creating series metadata the
// first time an identifier is seen and appending one point per row.
func accumulateGeneric(table *Table, opts *Options, registry UnitRegistry) (domain.StatisticsSet, error) {
	stats := domain.StatisticsSet{}

	for _, row := range table.GenericRows {
		series, ok := stats[row.StatisticID]
		if !ok {
			unit, err := ResolveUnit(registry, opts.UnitSource, row.Unit, row.StatisticID)
			if err != nil {
				return nil, err
			}
			series = &domain.Series{
				Metadata: domain.SeriesMetadata{
					HasMean:           table.Kind == domain.AggregationMean,
					HasSum:            table.Kind == domain.AggregationSum,
					Source:            SourceOf(row.StatisticID),
					StatisticID:       row.StatisticID,
					Name:              nil,
					UnitOfMeasurement: unit,
				},
			}
			stats[row.StatisticID] = series
		}

		start, err := opts.parseTimestamp(row.Start)
		if err != nil {
			return nil, err
		}

		if table.Kind == domain.AggregationMean {
			series.Points = append(series.Points, domain.NewMeanPoint(start, row.Value))
		} else {
			series.Points = append(series.Points, domain.NewSumPoint(start, row.Value))
		}
	}

	return stats, nil
}

// accumulateSupplier builds the two fixed sum series up front, then appends
// one consumption point and one supply point per row, sharing the row's
// timestamp.
func accumulateSupplier(table *Table, opts *Options, registry UnitRegistry) (domain.StatisticsSet, error) {
	stats := domain.StatisticsSet{}

	for _, target := range []struct {
		statisticID string
		unitHint    string
	}{
		{opts.ConsumptionID, opts.ConsumptionUnit},
		{opts.SupplyID, opts.SupplyUnit},
	} {
		unit, err := ResolveUnit(registry, opts.UnitSource, target.unitHint, target.statisticID)
		if err != nil {
			return nil, err
		}
		stats[target.statisticID] = &domain.Series{
			Metadata: domain.SeriesMetadata{
				HasMean:           false,
				HasSum:            true,
				Source:            SourceOf(target.statisticID),
				StatisticID:       target.statisticID,
				Name:              nil,
				UnitOfMeasurement: unit,
			},
		}
	}

	consumption := stats[opts.ConsumptionID]
	supply := stats[opts.SupplyID]

	for _, row := range table.SupplierRows {
		start, err := opts.parseTimestamp(row.Start)
		if err != nil {
			return nil, err
		}
		consumption.Points = append(consumption.Points, domain.NewSumPoint(start, row.Consumption))
		supply.Points = append(supply.Points, domain.NewSumPoint(start, row.Supply))
	}

	return stats, nil
}
