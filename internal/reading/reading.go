// Package reading detects repeated and near-duplicate book titles in
// reading-activity logs, per student.
package reading

import (
	"fmt"
	"strings"

	"github.com/Nomadcxx/neischeck/internal/records"
	"github.com/pmezard/go-difflib/difflib"
)

// DefaultThreshold is the similarity ratio at which two titles are reported
// as a near-duplicate.
const DefaultThreshold = 0.7

// DefaultDelimiter separates titles inside one book-list cell.
const DefaultDelimiter = ","

// Location identifies where a title was recorded.
type Location struct {
	Subject  string `json:"subject" yaml:"subject"`
	Year     string `json:"year" yaml:"year"`
	Grade    string `json:"grade" yaml:"grade"`
	Semester string `json:"semester" yaml:"semester"`
}

// String formats the location as "subject/year/grade/semester".
func (l Location) String() string {
	return fmt.Sprintf("%s/%s/%s/%s", l.Subject, l.Year, l.Grade, l.Semester)
}

// Entry is one title of one student's reading log.
type Entry struct {
	StudentID int
	Location  Location
	Title     string
	Row       int
}

// ParseTitles splits a book-list field on delimiter, trimming each segment
// and dropping empty ones.
func ParseTitles(field, delimiter string) []string {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	var titles []string
	for _, seg := range strings.Split(field, delimiter) {
		if seg = strings.TrimSpace(seg); seg != "" {
			titles = append(titles, seg)
		}
	}
	return titles
}

// Entries expands rows into one entry per title, in row order.
func Entries(rows []records.ReadingRow, delimiter string) []Entry {
	var entries []Entry
	for _, row := range rows {
		loc := Location{
			Subject:  row.Subject,
			Year:     row.Year,
			Grade:    row.Grade,
			Semester: row.Semester,
		}
		for _, title := range ParseTitles(row.Books, delimiter) {
			entries = append(entries, Entry{
				StudentID: row.StudentID,
				Location:  loc,
				Title:     title,
				Row:       row.Row,
			})
		}
	}
	return entries
}

// Similarity returns the Ratcliff/Obershelp matching ratio of a and b in
// [0, 1], compared rune by rune.
func Similarity(a, b string) float64 {
	m := difflib.NewMatcher(runes(a), runes(b))
	return m.Ratio()
}

func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
