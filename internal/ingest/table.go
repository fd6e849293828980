package ingest

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"
)

// CellKind discriminates the value types a tabular source can produce.
// Spreadsheet sources emit numbers for date cells (serial dates) and
// sometimes real date objects; delimited-text sources emit only strings.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellString
	CellNumber
	CellTime
)

// Cell is one value from a source table.
type Cell struct {
	Kind CellKind
	Str  string
	Num  float64
	Time time.Time
}

// StringCell builds a string-kind cell. Blank strings become empty cells.
func StringCell(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Cell{}
	}
	return Cell{Kind: CellString, Str: s}
}

// NumberCell builds a number-kind cell.
func NumberCell(f float64) Cell {
	return Cell{Kind: CellNumber, Num: f}
}

// TimeCell builds a date-kind cell.
func TimeCell(t time.Time) Cell {
	if t.IsZero() {
		return Cell{}
	}
	return Cell{Kind: CellTime, Time: t}
}

// IsBlank reports whether the cell carries no usable value.
func (c Cell) IsBlank() bool {
	switch c.Kind {
	case CellEmpty:
		return true
	case CellString:
		return strings.TrimSpace(c.Str) == ""
	default:
		return false
	}
}

// Text renders the cell as trimmed text for non-date fields.
func (c Cell) Text() string {
	switch c.Kind {
	case CellString:
		return strings.TrimSpace(c.Str)
	case CellNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case CellTime:
		return c.Time.Format(canonicalDateLayout)
	default:
		return ""
	}
}

// Row is one table row.
type Row []Cell

// IsBlank reports whether every cell in the row is blank.
func (r Row) IsBlank() bool {
	for _, c := range r {
		if !c.IsBlank() {
			return false
		}
	}
	return true
}

// TableSource produces table rows one at a time. Next returns io.EOF after
// the last row; any other error means the source is not parseable as
// tabular data, which the importer treats as a structural failure.
type TableSource interface {
	Next() (Row, error)
}

// CSVSource reads a delimited-text table. Every cell is a string cell;
// serial dates only occur in spreadsheet sources.
type CSVSource struct {
	reader *csv.Reader
}

// NewCSVSource wraps r as a table source. Rows may have varying lengths.
func NewCSVSource(r io.Reader) *CSVSource {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return &CSVSource{reader: cr}
}

// Next implements TableSource.
func (s *CSVSource) Next() (Row, error) {
	record, err := s.reader.Read()
	if err != nil {
		return nil, err
	}
	row := make(Row, len(record))
	for i, v := range record {
		row[i] = StringCell(v)
	}
	return row, nil
}

// SliceSource serves an in-memory table, used by tests and programmatic
// imports (e.g. a spreadsheet reader that has already materialized cells).
type SliceSource struct {
	rows [][]Cell
	pos  int
}

// NewSliceSource builds a source over the given rows.
func NewSliceSource(rows [][]Cell) *SliceSource {
	return &SliceSource{rows: rows}
}

// Next implements TableSource.
func (s *SliceSource) Next() (Row, error) {
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.pos]
	s.pos++
	return Row(row), nil
}
