package domain

import (
	"sort"
	"time"
)

// AggregationKind says whether a series reports instantaneous mean values
// or monotonically accumulated sums. A series carries exactly one kind for
// its whole lifetime.
type AggregationKind string

const (
	AggregationMean AggregationKind = "mean"
	AggregationSum  AggregationKind = "sum"
)

// UnitSource selects where a series' unit of measurement comes from:
// the source system that owns the statistic, or the input table / caller hint.
type UnitSource string

const (
	UnitFromSourceSystem UnitSource = "source_system"
	UnitFromTable        UnitSource = "table"
)

// SeriesMetadata describes one statistics series. It is created once, when
// the series identifier is first encountered, and never modified afterwards.
type SeriesMetadata struct {
	HasMean           bool    `json:"has_mean"`
	HasSum            bool    `json:"has_sum"`
	Source            string  `json:"source"`
	StatisticID       string  `json:"statistic_id" validate:"required"`
	Name              *string `json:"name"`
	UnitOfMeasurement string  `json:"unit_of_measurement"`
}

// Kind returns the aggregation kind encoded in the HasMean/HasSum pair.
func (m SeriesMetadata) Kind() AggregationKind {
	if m.HasMean {
		return AggregationMean
	}
	return AggregationSum
}

// StatisticPoint is one timestamped reading. Exactly one of Mean or Sum is
// set, matching the owning series' aggregation kind. Start carries the
// wall-clock time in the timezone the import was resolved against.
type StatisticPoint struct {
	Start time.Time `json:"start"`
	Mean  *float64  `json:"mean,omitempty"`
	Sum   *float64  `json:"sum,omitempty"`
}

// NewMeanPoint builds a mean-valued statistic point.
func NewMeanPoint(start time.Time, value float64) StatisticPoint {
	return StatisticPoint{Start: start, Mean: &value}
}

// NewSumPoint builds a sum-valued statistic point.
func NewSumPoint(start time.Time, value float64) StatisticPoint {
	return StatisticPoint{Start: start, Sum: &value}
}

// Series pairs a series' metadata with its ordered statistic points.
// Point order equals the row order of the source file.
type Series struct {
	Metadata SeriesMetadata   `json:"metadata"`
	Points   []StatisticPoint `json:"points"`
}

// StatisticsSet is the sole artifact produced by an import: one entry per
// distinct statistic identifier. Ownership passes to the downstream
// statistics-import collaborator; the set is never mutated after it is
// returned.
type StatisticsSet map[string]*Series

// Keys returns the statistic identifiers in lexical order.
func (s StatisticsSet) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// PointCount returns the total number of statistic points across all series.
func (s StatisticsSet) PointCount() int {
	n := 0
	for _, series := range s {
		n += len(series.Points)
	}
	return n
}
