package sheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// columnPrefix marks a positional column reference such as "col:E".
const columnPrefix = "col:"

// ColumnRef identifies a column either by its header label or by its
// spreadsheet letter.
type ColumnRef struct {
	Header string
	Letter string
}

// ParseColumnRef parses a configured column reference. "col:E" selects column
// E regardless of its header; anything else is matched against the header row.
func ParseColumnRef(s string) (ColumnRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ColumnRef{}, fmt.Errorf("empty column reference")
	}
	if strings.HasPrefix(strings.ToLower(s), columnPrefix) {
		letter := strings.ToUpper(strings.TrimSpace(s[len(columnPrefix):]))
		if _, err := excelize.ColumnNameToNumber(letter); err != nil {
			return ColumnRef{}, fmt.Errorf("invalid column letter %q: %w", letter, err)
		}
		return ColumnRef{Letter: letter}, nil
	}
	return ColumnRef{Header: s}, nil
}

// String returns the reference in its configured form.
func (c ColumnRef) String() string {
	if c.Letter != "" {
		return columnPrefix + c.Letter
	}
	return c.Header
}

// Column binds a logical key (e.g. "student_id") to a ColumnRef.
type Column struct {
	Key string
	Ref ColumnRef
}

// Schema describes where the header row is and which columns must exist.
type Schema struct {
	// HeaderRow is the 1-based row holding the column labels.
	HeaderRow int
	Columns   []Column
}

// MissingColumnError is returned when a configured column is not present.
type MissingColumnError struct {
	Key string
	Ref ColumnRef
	Row int
}

func (e *MissingColumnError) Error() string {
	if e.Ref.Letter != "" {
		return fmt.Sprintf("missing column %s (%s): sheet has no column %s", e.Key, e.Ref, e.Ref.Letter)
	}
	return fmt.Sprintf("missing column %s: header %q not found in row %d", e.Key, e.Ref.Header, e.Row)
}

// Table is a grid with its columns resolved.
type Table struct {
	grid    *Grid
	header  int
	index   map[string]int
	headers map[string]string
}

// Bind resolves every column of the schema against g.
func (s Schema) Bind(g *Grid) (*Table, error) {
	if s.HeaderRow < 1 {
		return nil, fmt.Errorf("header row must be >= 1, got %d", s.HeaderRow)
	}
	header := s.HeaderRow - 1

	t := &Table{
		grid:    g,
		header:  header,
		index:   make(map[string]int, len(s.Columns)),
		headers: make(map[string]string, len(s.Columns)),
	}

	if header >= len(g.Rows) {
		if len(s.Columns) == 0 {
			return t, nil
		}
		c := s.Columns[0]
		return nil, &MissingColumnError{Key: c.Key, Ref: c.Ref, Row: s.HeaderRow}
	}

	width := 0
	for _, row := range g.Rows {
		if len(row) > width {
			width = len(row)
		}
	}

	for _, c := range s.Columns {
		idx := -1
		if c.Ref.Letter != "" {
			n, err := excelize.ColumnNameToNumber(c.Ref.Letter)
			if err == nil && n-1 < width {
				idx = n - 1
			}
		} else {
			for i, cell := range g.Rows[header] {
				if strings.TrimSpace(cell) == c.Ref.Header {
					idx = i
					break
				}
			}
		}
		if idx < 0 {
			return nil, &MissingColumnError{Key: c.Key, Ref: c.Ref, Row: s.HeaderRow}
		}
		t.index[c.Key] = idx
		t.headers[c.Key] = strings.TrimSpace(g.Cell(header, idx))
	}

	return t, nil
}

// Row is one data row of a bound table.
type Row struct {
	// Number is the 1-based sheet row.
	Number int
	table  *Table
	cells  []string
}

// Get returns the trimmed cell for a bound key.
func (r Row) Get(key string) string {
	idx, ok := r.table.index[key]
	if !ok || idx >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[idx])
}

// IsHeader reports whether the row repeats the header labels of the given
// keys, as page breaks in exports do.
func (r Row) IsHeader(keys ...string) bool {
	if len(keys) == 0 {
		return false
	}
	for _, k := range keys {
		h := r.table.headers[k]
		if h == "" || r.Get(k) != h {
			return false
		}
	}
	return true
}

// Blank reports whether every bound column of the row is empty.
func (r Row) Blank() bool {
	for k := range r.table.index {
		if r.Get(k) != "" {
			return false
		}
	}
	return true
}

// Rows returns the data rows below the header.
func (t *Table) Rows() []Row {
	if t.header+1 >= len(t.grid.Rows) {
		return nil
	}
	data := t.grid.Rows[t.header+1:]
	rows := make([]Row, len(data))
	for i, cells := range data {
		rows[i] = Row{Number: t.header + i + 2, table: t, cells: cells}
	}
	return rows
}

// Header returns the label found in the header row for key.
func (t *Table) Header(key string) string {
	return t.headers[key]
}
