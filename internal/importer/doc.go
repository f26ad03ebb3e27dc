// Package importer turns one delimited text file (or Excel workbook) of
// time-series energy readings into a normalized set of per-series statistic
// records, ready to hand off to a statistics-import backend.
//
// # Architecture
//
// The package is organized around a single synchronous transformation:
//
//  1. ResolveOptions: validates and defaults the caller-supplied options
//  2. LoadTable: sniffs the schema and parses the file into typed rows
//  3. Accumulate: groups rows into per-identifier series with metadata
//
// Two layouts are supported. The supplier layout is a fixed three-column
// export (measurement datetime, active consumption, active supply) that
// produces two cumulative-sum series. The generic layout carries a
// statistic_id column, a start column, exactly one of mean/sum, and an
// optional unit column; it produces one series per distinct identifier.
//
// # Data Flow
//
//	Input file → LoadTable → Table (supplier or generic rows) → Accumulate → domain.StatisticsSet
//
// # Error Handling
//
// All failures abort the whole transformation; there is no partial output.
// Errors are reported as *errors.AppError with a type from the import
// taxonomy (file not found, invalid timezone, missing columns, ambiguous
// aggregation, malformed timestamp/number, unresolvable unit).
package importer
