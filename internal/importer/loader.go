package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "statimport/internal/errors"
	"statimport/pkg/contracts/domain"
)

// Layout identifies which schema a loaded table matched.
type Layout int

const (
	// LayoutGeneric is the flexible schema: statistic_id, start, one of
	// mean/sum, optional unit.
	LayoutGeneric Layout = iota
	// LayoutSupplier is the fixed three-column supplier export schema.
	LayoutSupplier
)

// String returns a readable layout name for logs and span attributes.
func (l Layout) String() string {
	if l == LayoutSupplier {
		return "supplier"
	}
	return "generic"
}

// Supplier export column headers. The supplier mixes several unrelated
// columns under a fixed schema; only these three matter. Their presence is
// the detection signal for the supplier layout.
const (
	supplierColDatetime    = "Dátum a čas merania"
	supplierColConsumption = "1.5.0 - Činný odber (kW)"
	supplierColSupply      = "2.5.0 - Činná dodávka (kW)"
)

// Canonical generic-layout column names.
const (
	colStatisticID = "statistic_id"
	colStart       = "start"
	colMean        = "mean"
	colSum         = "sum"
	colUnit        = "unit"
)

// SupplierRow is one reading from the supplier layout, renamed to the
// canonical {start, consumption, supply} fields.
type SupplierRow struct {
	Start       string
	Consumption float64
	Supply      float64
}

// GenericRow is one reading from the generic layout. Value holds the mean
// or the sum field, whichever the table carries.
type GenericRow struct {
	StatisticID string
	Start       string
	Value       float64
	Unit        string
}

// Table is the tagged result of loading an input file: exactly one of the
// two row slices is populated, per Layout. Kind is the table-wide
// aggregation kind, computed once from the header set at load time
// (always AggregationSum for the supplier layout).
type Table struct {
	Layout       Layout
	Kind         domain.AggregationKind
	SupplierRows []SupplierRow
	GenericRows  []GenericRow
}

// LoadTable reads the input file and parses it into a Table.
//
// The supplier layout is sniffed first by header presence alone; when its
// three columns are absent the file is parsed generically. A file that
// happens to contain all three supplier headers is always treated as
// supplier-layout, even if the caller intended generic handling.
func LoadTable(opts *Options) (*Table, error) {
	rows, err := readRaw(opts)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.NewMissingColumnsError([]string{colStatisticID, colStart})
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	if layout := DetectLayout(header); layout == LayoutSupplier {
		return parseSupplier(opts, header, rows[1:])
	}
	return parseGeneric(opts, header, rows[1:])
}

// DetectLayout decides which schema a header row belongs to. The rule is
// deliberately simple: all three supplier headers present means supplier,
// anything else means generic. Generic required-column checks happen later,
// during the generic parse.
func DetectLayout(header []string) Layout {
	if columnIndex(header, supplierColDatetime) >= 0 &&
		columnIndex(header, supplierColConsumption) >= 0 &&
		columnIndex(header, supplierColSupply) >= 0 {
		return LayoutSupplier
	}
	return LayoutGeneric
}

// readRaw reads the whole input file into rows of string fields. Delimited
// text goes through encoding/csv with the resolved delimiter; .xlsx files
// are read from their first sheet.
func readRaw(opts *Options) ([][]string, error) {
	if strings.EqualFold(filepath.Ext(opts.Path), ".xlsx") {
		return readWorkbook(opts.Path)
	}

	f, err := os.Open(opts.Path)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("cannot open %s", opts.Path), err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = opts.Delimiter
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("cannot parse %s", opts.Path), err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

// readWorkbook extracts the first sheet of an Excel workbook as rows.
func readWorkbook(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("cannot open workbook %s", path), err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewParsingError(fmt.Sprintf("workbook %s has no sheets", path), nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("cannot read sheet %s", sheets[0]), err)
	}
	return rows, nil
}

// parseSupplier builds the supplier-layout table from the three known
// columns, ignoring everything else the export carries.
func parseSupplier(opts *Options, header []string, records [][]string) (*Table, error) {
	idxStart := columnIndex(header, supplierColDatetime)
	idxConsumption := columnIndex(header, supplierColConsumption)
	idxSupply := columnIndex(header, supplierColSupply)

	table := &Table{
		Layout:       LayoutSupplier,
		Kind:         domain.AggregationSum,
		SupplierRows: make([]SupplierRow, 0, len(records)),
	}

	for _, record := range records {
		if isBlank(record) {
			continue
		}
		consumption, err := opts.parseFloat(field(record, idxConsumption))
		if err != nil {
			return nil, apperrors.NewMalformedNumberError(supplierColConsumption, field(record, idxConsumption), err)
		}
		supply, err := opts.parseFloat(field(record, idxSupply))
		if err != nil {
			return nil, apperrors.NewMalformedNumberError(supplierColSupply, field(record, idxSupply), err)
		}
		table.SupplierRows = append(table.SupplierRows, SupplierRow{
			Start:       field(record, idxStart),
			Consumption: consumption,
			Supply:      supply,
		})
	}
	return table, nil
}

// parseGeneric builds the generic-layout table. Required columns are
// statistic_id and start; exactly one of mean/sum must be present and fixes
// the aggregation kind for the whole table.
func parseGeneric(opts *Options, header []string, records [][]string) (*Table, error) {
	idxID := columnIndex(header, colStatisticID)
	idxStart := columnIndex(header, colStart)
	idxMean := columnIndex(header, colMean)
	idxSum := columnIndex(header, colSum)
	idxUnit := columnIndex(header, colUnit)

	var missing []string
	if idxID < 0 {
		missing = append(missing, colStatisticID)
	}
	if idxStart < 0 {
		missing = append(missing, colStart)
	}
	if len(missing) > 0 {
		return nil, apperrors.NewMissingColumnsError(missing)
	}

	hasMean := idxMean >= 0
	hasSum := idxSum >= 0
	if hasMean && hasSum {
		return nil, apperrors.NewAmbiguousAggregationError("both 'mean' and 'sum' columns are present")
	}
	if !hasMean && !hasSum {
		return nil, apperrors.NewAmbiguousAggregationError("input must contain either a 'mean' or a 'sum' column")
	}

	kind := domain.AggregationSum
	idxValue := idxSum
	valueColumn := colSum
	if hasMean {
		kind = domain.AggregationMean
		idxValue = idxMean
		valueColumn = colMean
	}

	table := &Table{
		Layout:      LayoutGeneric,
		Kind:        kind,
		GenericRows: make([]GenericRow, 0, len(records)),
	}

	for _, record := range records {
		if isBlank(record) {
			continue
		}
		value, err := opts.parseFloat(field(record, idxValue))
		if err != nil {
			return nil, apperrors.NewMalformedNumberError(valueColumn, field(record, idxValue), err)
		}
		row := GenericRow{
			StatisticID: strings.TrimSpace(field(record, idxID)),
			Start:       field(record, idxStart),
			Value:       value,
		}
		if idxUnit >= 0 {
			row.Unit = strings.TrimSpace(field(record, idxUnit))
		}
		table.GenericRows = append(table.GenericRows, row)
	}
	return table, nil
}

// columnIndex returns the position of name in the header, or -1.
func columnIndex(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

// field returns the idx-th value of a record, tolerating short rows the way
// ragged exports produce them.
func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}

// isBlank reports whether a record has no non-empty fields.
func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// parseFloatStrict parses a float and rejects empty input with a clear
// message.
func parseFloatStrict(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	return strconv.ParseFloat(s, 64)
}
