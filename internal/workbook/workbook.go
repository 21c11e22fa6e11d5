// Package workbook reads and writes Prometheus/Moltenprot Excel exports.
//
// Each sheet has three header rows, the second of which names the species.
// Column A holds the index (temperature) and column B an auxiliary series
// that is carried along but never clipped. Species start at column C.
package workbook

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"github.com/cybre/moltenclip/internal/clip"
)

const (
	// SheetRatio holds the ratio signal.
	SheetRatio = "Ratio"
	// SheetDerivative holds the first derivative of the ratio.
	SheetDerivative = "Ratio (1st deriv.)"

	headerRows  = 3
	firstSeries = 2
)

var (
	// ErrMissingSheet is returned when the workbook lacks SheetRatio or SheetDerivative.
	ErrMissingSheet = eris.New("required sheet not found")
	// ErrMalformedTable is returned for a sheet whose header or rows cannot be parsed.
	ErrMalformedTable = eris.New("malformed table")
	// ErrColumnMismatch is returned when the two sheets disagree on their series.
	ErrColumnMismatch = eris.New("ratio and derivative columns do not line up")
)

// Column is one named series of a table. Missing samples are NaN.
type Column struct {
	Group  string
	Name   string
	Unit   string
	Values []float64
}

// Table is one sheet of the export.
type Table struct {
	IndexName string
	Index     []float64
	Aux       Column
	Columns   []Column
}

// Dataset pairs the ratio table with its derivative.
type Dataset struct {
	Ratio      Table
	Derivative Table
}

// SpeciesCurve is a named curve ready for clipping.
type SpeciesCurve struct {
	Name  string
	Curve clip.Curve
}

// Load opens the workbook at path and reads both required sheets.
func Load(path string) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open workbook %s", path)
	}
	defer f.Close()

	ratio, err := readTable(f, SheetRatio)
	if err != nil {
		return nil, err
	}
	deriv, err := readTable(f, SheetDerivative)
	if err != nil {
		return nil, err
	}

	return &Dataset{Ratio: ratio, Derivative: deriv}, nil
}

func readTable(f *excelize.File, sheet string) (Table, error) {
	if !slices.Contains(f.GetSheetList(), sheet) {
		return Table{}, eris.Wrapf(ErrMissingSheet, "sheet %q", sheet)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return Table{}, eris.Wrapf(err, "read sheet %q", sheet)
	}
	if len(rows) < headerRows {
		return Table{}, eris.Wrapf(ErrMalformedTable, "sheet %q has %d rows, need %d header rows", sheet, len(rows), headerRows)
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	if width <= firstSeries {
		return Table{}, eris.Wrapf(ErrMalformedTable, "sheet %q has no species columns", sheet)
	}

	table := Table{
		IndexName: firstNonEmpty(cell(rows[0], 0), cell(rows[1], 0), cell(rows[2], 0)),
		Aux:       headerColumn(rows, 1),
	}
	for c := firstSeries; c < width; c++ {
		table.Columns = append(table.Columns, headerColumn(rows, c))
	}

	for r := headerRows; r < len(rows); r++ {
		row := rows[r]
		raw := strings.TrimSpace(cell(row, 0))
		if raw == "" {
			break
		}
		x, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Table{}, eris.Wrapf(ErrMalformedTable, "sheet %q row %d: index %q is not numeric", sheet, r+1, raw)
		}
		table.Index = append(table.Index, x)
		table.Aux.Values = append(table.Aux.Values, parseValue(cell(row, 1)))
		for i := range table.Columns {
			table.Columns[i].Values = append(table.Columns[i].Values, parseValue(cell(row, firstSeries+i)))
		}
	}

	return table, nil
}

func headerColumn(rows [][]string, c int) Column {
	col := Column{
		Group: cell(rows[0], c),
		Name:  cell(rows[1], c),
		Unit:  cell(rows[2], c),
	}
	if col.Name == "" {
		col.Name = firstNonEmpty(col.Group, col.Unit, columnLetter(c))
	}
	return col
}

func cell(row []string, c int) string {
	if c < len(row) {
		return strings.TrimSpace(row[c])
	}
	return ""
}

func parseValue(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func columnLetter(c int) string {
	name, err := excelize.ColumnNumberToName(c + 1)
	if err != nil {
		return fmt.Sprintf("column %d", c+1)
	}
	return name
}

// Names returns the species names in column order.
func (ds *Dataset) Names() []string {
	names := make([]string, len(ds.Ratio.Columns))
	for i, col := range ds.Ratio.Columns {
		names[i] = col.Name
	}
	return names
}

// Curves pairs the ratio and derivative columns by position. The x values come
// from the derivative sheet's index.
func (ds *Dataset) Curves() ([]SpeciesCurve, error) {
	if len(ds.Ratio.Columns) != len(ds.Derivative.Columns) {
		return nil, eris.Wrapf(ErrColumnMismatch, "%d ratio columns, %d derivative columns",
			len(ds.Ratio.Columns), len(ds.Derivative.Columns))
	}

	curves := make([]SpeciesCurve, len(ds.Ratio.Columns))
	for i, col := range ds.Ratio.Columns {
		curves[i] = SpeciesCurve{
			Name: col.Name,
			Curve: clip.Curve{
				X:  ds.Derivative.Index,
				Y:  col.Values,
				DY: ds.Derivative.Columns[i].Values,
			},
		}
	}
	return curves, nil
}

// ApplyClip returns a copy of the dataset in which every species column is
// masked past its clipped length. Rows are kept so the tables stay aligned.
func (ds *Dataset) ApplyClip(results []clip.Result) (*Dataset, error) {
	if len(results) != len(ds.Ratio.Columns) || len(results) != len(ds.Derivative.Columns) {
		return nil, eris.Wrapf(ErrColumnMismatch, "%d results for %d species", len(results), len(ds.Ratio.Columns))
	}

	return &Dataset{
		Ratio:      ds.Ratio.masked(results),
		Derivative: ds.Derivative.masked(results),
	}, nil
}

func (t Table) masked(results []clip.Result) Table {
	out := t
	out.Columns = make([]Column, len(t.Columns))
	for i, col := range t.Columns {
		col.Values = clip.MaskTail(col.Values, results[i].Kept())
		out.Columns[i] = col
	}
	return out
}

// Save writes the dataset to path using the same sheet layout Load expects.
// Missing samples are written as empty cells.
func Save(path string, ds *Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	for _, sheet := range []struct {
		name  string
		table Table
	}{
		{SheetRatio, ds.Ratio},
		{SheetDerivative, ds.Derivative},
	} {
		if _, err := f.NewSheet(sheet.name); err != nil {
			return eris.Wrapf(err, "create sheet %q", sheet.name)
		}
		if err := writeTable(f, sheet.name, sheet.table); err != nil {
			return err
		}
	}
	if err := f.DeleteSheet(defaultSheet); err != nil {
		return eris.Wrap(err, "remove default sheet")
	}

	if err := f.SaveAs(path); err != nil {
		return eris.Wrapf(err, "save workbook %s", path)
	}
	return nil
}

func writeTable(f *excelize.File, sheet string, t Table) error {
	cols := append([]Column{t.Aux}, t.Columns...)

	headers := [headerRows][]any{}
	headers[0] = []any{t.IndexName}
	headers[1] = []any{nil}
	headers[2] = []any{nil}
	for _, col := range cols {
		headers[0] = append(headers[0], col.Group)
		headers[1] = append(headers[1], col.Name)
		headers[2] = append(headers[2], col.Unit)
	}
	for r, row := range headers {
		if err := setRow(f, sheet, r+1, row); err != nil {
			return err
		}
	}

	for i, x := range t.Index {
		row := make([]any, 0, len(cols)+1)
		row = append(row, x)
		for _, col := range cols {
			row = append(row, cellValue(col.Values, i))
		}
		if err := setRow(f, sheet, headerRows+i+1, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return eris.Wrapf(err, "resolve row %d", row)
	}
	if err := f.SetSheetRow(sheet, start, &values); err != nil {
		return eris.Wrapf(err, "write sheet %q row %d", sheet, row)
	}
	return nil
}

func cellValue(values []float64, i int) any {
	if i >= len(values) || math.IsNaN(values[i]) || math.IsInf(values[i], 0) {
		return nil
	}
	return values[i]
}
