package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Nomadcxx/neischeck/internal/ui"
	"gopkg.in/yaml.v3"
)

// Format selects an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts text, json, yaml (case-insensitive). Empty means text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
}

// Write renders a *DateReport or *DuplicateReport in the given format.
func Write(w io.Writer, report any, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(report)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		switch r := report.(type) {
		case *DateReport:
			WriteDateText(w, r)
		case *DuplicateReport:
			WriteDuplicateText(w, r)
		default:
			return fmt.Errorf("cannot render %T as text", report)
		}
		return nil
	}
	return fmt.Errorf("unknown output format %q", format)
}

// WriteDateText renders one table row per token followed by a summary line.
// Valid tokens have an empty verdict column.
func WriteDateText(w io.Writer, r *DateReport) {
	if len(r.Rows) == 0 {
		fmt.Fprintln(w, "검사할 날짜가 없습니다.")
		return
	}
	WriteDateRows(w, r.Rows)
	fmt.Fprintf(w, "\n학생 %d명, 날짜 %d개, 오류 %d개\n",
		r.Summary.Students, r.Summary.Tokens, r.Summary.Invalid)
}

// WriteDateRows renders rows as a student/date/verdict table.
func WriteDateRows(w io.Writer, rows []DateRow) {
	table := ui.NewTable("학생 번호", "날짜", "오류 검증")
	for _, row := range rows {
		table.AddRow(strconv.Itoa(row.StudentID), row.Token, row.Message)
	}
	table.Render(w)
}

// WriteDuplicateText renders the exact section then the similar section.
func WriteDuplicateText(w io.Writer, r *DuplicateReport) {
	ui.Section(w, "중복 도서 결과")
	WriteExact(w, r.Exact)
	ui.Section(w, "중복 의심 도서 결과")
	WriteSimilar(w, r.Similar)
}

// WriteExact renders exact duplicates grouped by student.
func WriteExact(w io.Writer, groups []StudentExact) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "중복 도서가 없습니다.")
	}
	for _, group := range groups {
		fmt.Fprintf(w, "\n%s\n", ui.Student(fmt.Sprintf("학생 번호: %d", group.StudentID)))
		for _, p := range group.Pairs {
			fmt.Fprintf(w, "- 도서명: '%s'\n", ui.Title(p.Title))
			fmt.Fprintf(w, "  - 위치: %s\n", p.Location())
		}
	}
}

// WriteSimilar renders near-duplicates grouped by student.
func WriteSimilar(w io.Writer, groups []StudentSimilar) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "중복 의심 도서가 없습니다.")
	}
	for _, group := range groups {
		fmt.Fprintf(w, "\n%s\n", ui.Student(fmt.Sprintf("학생 번호: %d", group.StudentID)))
		for _, p := range group.Pairs {
			fmt.Fprintf(w, "- 도서 A: '%s' (%s)\n", ui.Title(p.TitleA), p.LocationA)
			fmt.Fprintf(w, "  도서 B: '%s' (%s)\n", ui.Title(p.TitleB), p.LocationB)
			fmt.Fprintf(w, "  %s\n", ui.Dim(fmt.Sprintf("유사도 %.2f", p.Score)))
		}
	}
}
