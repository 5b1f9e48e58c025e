// Package records turns bound spreadsheet rows into activity and reading
// records, resolving the forward-filled student identifier.
package records

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Nomadcxx/neischeck/internal/sheet"
)

// Column keys bound by the schemas built in this package.
const (
	KeyStudentID = "student_id"
	KeyCategory  = "category"
	KeyText      = "text"
	KeySubject   = "subject"
	KeyYear      = "year"
	KeyGrade     = "grade"
	KeySemester  = "semester"
	KeyBooks     = "books"
)

// ActivityRecord is one activity row filtered to the configured category.
type ActivityRecord struct {
	StudentID int
	Category  string
	Text      string
	Row       int
}

// ReadingRow is one reading-activity row before its book list is split.
type ReadingRow struct {
	StudentID int
	Subject   string
	Year      string
	Grade     string
	Semester  string
	Books     string
	Row       int
}

// InvalidRowError reports a cell that cannot be interpreted.
type InvalidRowError struct {
	Row    int
	Column string
	Value  string
	Reason string
}

func (e *InvalidRowError) Error() string {
	return fmt.Sprintf("row %d: invalid %s %q: %s", e.Row, e.Column, e.Value, e.Reason)
}

// ForwardFill replaces blank values with the nearest preceding non-blank
// value. Leading blanks stay blank.
func ForwardFill(values []string) []string {
	out := make([]string, len(values))
	last := ""
	for i, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			last = v
		}
		out[i] = last
	}
	return out
}

// ParseStudentID parses a student number. Spreadsheet exports sometimes carry
// integral floats ("12.0"), which are accepted.
func ParseStudentID(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("not an integer")
	}
	return int(f), nil
}

// ActivitySchema is the column convention of the activity export.
type ActivitySchema struct {
	HeaderRow int
	StudentID sheet.ColumnRef
	Category  sheet.ColumnRef
	Text      sheet.ColumnRef
}

// Schema returns the sheet schema for binding.
func (s ActivitySchema) Schema() sheet.Schema {
	return sheet.Schema{HeaderRow: s.HeaderRow, Columns: []sheet.Column{
		{Key: KeyStudentID, Ref: s.StudentID},
		{Key: KeyCategory, Ref: s.Category},
		{Key: KeyText, Ref: s.Text},
	}}
}

// ReadingSchema is the column convention of the reading-activity export.
type ReadingSchema struct {
	HeaderRow int
	StudentID sheet.ColumnRef
	Subject   sheet.ColumnRef
	Year      sheet.ColumnRef
	Grade     sheet.ColumnRef
	Semester  sheet.ColumnRef
	Books     sheet.ColumnRef
}

// Schema returns the sheet schema for binding.
func (s ReadingSchema) Schema() sheet.Schema {
	return sheet.Schema{HeaderRow: s.HeaderRow, Columns: []sheet.Column{
		{Key: KeyStudentID, Ref: s.StudentID},
		{Key: KeySubject, Ref: s.Subject},
		{Key: KeyYear, Ref: s.Year},
		{Key: KeyGrade, Ref: s.Grade},
		{Key: KeySemester, Ref: s.Semester},
		{Key: KeyBooks, Ref: s.Books},
	}}
}

// LoadActivities forward-fills the student id over every data row and then
// keeps the rows of the given category that carry text.
func LoadActivities(t *sheet.Table, category string) ([]ActivityRecord, error) {
	rows := dropHeaders(t.Rows())
	ids, err := resolveIDs(rows)
	if err != nil {
		return nil, err
	}

	var out []ActivityRecord
	for i, row := range rows {
		if ids[i] == nil {
			continue
		}
		if row.Get(KeyCategory) != category {
			continue
		}
		text := row.Get(KeyText)
		if text == "" {
			continue
		}
		out = append(out, ActivityRecord{
			StudentID: *ids[i],
			Category:  category,
			Text:      text,
			Row:       row.Number,
		})
	}
	return out, nil
}

// LoadReadingRows drops page-break and repeated-header rows, then
// forward-fills the student id and the location columns.
func LoadReadingRows(t *sheet.Table) ([]ReadingRow, error) {
	var rows []sheet.Row
	for _, row := range dropHeaders(t.Rows()) {
		if row.Blank() {
			continue
		}
		rows = append(rows, row)
	}

	ids, err := resolveIDs(rows)
	if err != nil {
		return nil, err
	}
	subjects := ForwardFill(column(rows, KeySubject))
	years := ForwardFill(column(rows, KeyYear))
	grades := ForwardFill(column(rows, KeyGrade))
	semesters := ForwardFill(column(rows, KeySemester))

	var out []ReadingRow
	for i, row := range rows {
		if ids[i] == nil {
			continue
		}
		out = append(out, ReadingRow{
			StudentID: *ids[i],
			Subject:   subjects[i],
			Year:      years[i],
			Grade:     grades[i],
			Semester:  semesters[i],
			Books:     row.Get(KeyBooks),
			Row:       row.Number,
		})
	}
	return out, nil
}

func dropHeaders(rows []sheet.Row) []sheet.Row {
	out := rows[:0:0]
	for _, row := range rows {
		if row.IsHeader(KeyStudentID) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func column(rows []sheet.Row, key string) []string {
	values := make([]string, len(rows))
	for i, row := range rows {
		values[i] = row.Get(key)
	}
	return values
}

// resolveIDs forward-fills and parses the student id column. A nil entry
// means the row precedes the first identified student.
func resolveIDs(rows []sheet.Row) ([]*int, error) {
	filled := ForwardFill(column(rows, KeyStudentID))
	ids := make([]*int, len(rows))
	cache := make(map[string]int)

	for i, v := range filled {
		if v == "" {
			continue
		}
		id, ok := cache[v]
		if !ok {
			n, err := ParseStudentID(v)
			if err != nil {
				return nil, &InvalidRowError{
					Row:    rows[i].Number,
					Column: KeyStudentID,
					Value:  v,
					Reason: err.Error(),
				}
			}
			cache[v] = n
			id = n
		}
		ids[i] = &id
	}
	return ids, nil
}
