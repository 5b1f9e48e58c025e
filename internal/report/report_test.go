package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/Nomadcxx/neischeck/internal/datecheck"
	"github.com/Nomadcxx/neischeck/internal/reading"
	"github.com/Nomadcxx/neischeck/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func init() {
	ui.DisableColors()
}

func sampleDateResults() []datecheck.Result {
	return []datecheck.Result{
		{StudentID: 1, Row: 2, Token: "(2024.03.04.)"},
		{StudentID: 1, Row: 2, Token: "(2024.03.04.~2024.03.08.)", Violations: []datecheck.Violation{datecheck.ViolationRangeMarker}},
		{StudentID: 2, Row: 5, Token: "(20240304-20240308/2회)", Violations: []datecheck.Violation{
			datecheck.ViolationMissingPeriod, datecheck.ViolationRedundantCount,
		}},
	}
}

func TestBuildDateReport(t *testing.T) {
	rep := BuildDateReport("activities.xlsx", sampleDateResults())

	assert.NotEmpty(t, rep.ID)
	assert.Equal(t, "activities.xlsx", rep.Source)
	require.Len(t, rep.Rows, 3)

	assert.Empty(t, rep.Rows[0].Violations)
	assert.Equal(t, "", rep.Rows[0].Message)
	assert.Equal(t, "range-marker-misuse", rep.Rows[1].Label)
	assert.Equal(t, "missing-period, redundant-count-suffix", rep.Rows[2].Label)
	assert.Equal(t, ". 빠짐, 2회 삭제(-를 ,로 바꿨는지도 확인)", rep.Rows[2].Message)

	assert.Equal(t, 2, rep.Summary.Students)
	assert.Equal(t, 3, rep.Summary.Tokens)
	assert.Equal(t, 2, rep.Summary.Invalid)
	assert.Equal(t, map[string]int{
		"range-marker-misuse":    1,
		"missing-period":         1,
		"redundant-count-suffix": 1,
	}, rep.Summary.ByViolation)

	assert.Len(t, rep.Invalid(), 2)
}

func TestBuildDateReport_UniqueIDs(t *testing.T) {
	a := BuildDateReport("a.csv", nil)
	b := BuildDateReport("a.csv", nil)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Empty(t, a.Rows)
	assert.Equal(t, 0, a.Summary.Tokens)
}

func sampleDetection() *reading.Result {
	first := reading.Location{Subject: "국어", Year: "2023", Grade: "1", Semester: "1"}
	second := reading.Location{Subject: "국어", Year: "2023", Grade: "1", Semester: "2"}
	return &reading.Result{
		Students: []int{7, 3, 9},
		Duplicates: []reading.DuplicatePair{
			{StudentID: 3, Title: "어린왕자", First: first, Second: second},
		},
		Similar: []reading.SimilarPair{
			{StudentID: 7, TitleA: "Harry Poter", TitleB: "Harry Potter", LocationA: second, LocationB: first, Score: 0.9565},
		},
	}
}

func TestBuildDuplicateReport_GroupsByStudent(t *testing.T) {
	rep := BuildDuplicateReport("reading.xlsx", 0.7, sampleDetection())

	assert.Equal(t, 0.7, rep.Threshold)
	require.Len(t, rep.Exact, 1)
	assert.Equal(t, 3, rep.Exact[0].StudentID)
	assert.Equal(t, "국어/2023/1/1, 국어/2023/1/2", rep.Exact[0].Pairs[0].Location())

	require.Len(t, rep.Similar, 1)
	assert.Equal(t, 7, rep.Similar[0].StudentID)
	assert.Equal(t, "국어/2023/1/1, 국어/2023/1/2", rep.Similar[0].Pairs[0].Location())

	assert.Equal(t, DuplicateSummary{Students: 3, Exact: 1, Similar: 1}, rep.Summary)
}

func TestBuildDuplicateReport_Empty(t *testing.T) {
	rep := BuildDuplicateReport("reading.csv", 0.8, &reading.Result{})
	assert.NotNil(t, rep.Exact)
	assert.NotNil(t, rep.Similar)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, rep, FormatText))
	assert.Contains(t, buf.String(), "중복 도서가 없습니다.")
	assert.Contains(t, buf.String(), "중복 의심 도서가 없습니다.")
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"TEXT", FormatText, false},
		{"json", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWrite_DateText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, BuildDateReport("a.xlsx", sampleDateResults()), FormatText))

	out := buf.String()
	assert.Contains(t, out, "학생 번호")
	assert.Contains(t, out, "(2024.03.04.~2024.03.08.)")
	assert.Contains(t, out, "오류 (기간은 ~ 대신 - 로 표기)")
	assert.Contains(t, out, "학생 2명, 날짜 3개, 오류 2개")

	// every table line occupies the same number of cells
	var widths []int
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "│") || strings.HasPrefix(line, "┌") || strings.HasPrefix(line, "└") {
			widths = append(widths, ui.DisplayWidth(line))
		}
	}
	require.NotEmpty(t, widths)
	for _, w := range widths {
		assert.Equal(t, widths[0], w)
	}
}

func TestWrite_DuplicateText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, BuildDuplicateReport("r.xlsx", 0.7, sampleDetection()), FormatText))

	out := buf.String()
	assert.Contains(t, out, "중복 도서 결과")
	assert.Contains(t, out, "학생 번호: 3")
	assert.Contains(t, out, "- 도서명: '어린왕자'")
	assert.Contains(t, out, "  - 위치: 국어/2023/1/1, 국어/2023/1/2")
	assert.Contains(t, out, "- 도서 A: 'Harry Poter' (국어/2023/1/2)")
	assert.Contains(t, out, "  도서 B: 'Harry Potter' (국어/2023/1/1)")
	assert.Less(t, strings.Index(out, "중복 도서 결과"), strings.Index(out, "중복 의심 도서 결과"))
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	rep := BuildDateReport("a.xlsx", sampleDateResults())
	require.NoError(t, Write(&buf, rep, FormatJSON))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, rep.ID, decoded["id"])
	rows := decoded["rows"].([]any)
	assert.Len(t, rows, 3)
	assert.Equal(t, []any{}, rows[0].(map[string]any)["violations"])
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	rep := BuildDuplicateReport("r.xlsx", 0.7, sampleDetection())
	require.NoError(t, Write(&buf, rep, FormatYAML))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "r.xlsx", decoded["source"])
	assert.Equal(t, 0.7, decoded["threshold"])
}

func TestWrite_UnknownReportType(t *testing.T) {
	err := Write(&bytes.Buffer{}, struct{}{}, FormatText)
	assert.Error(t, err)
}
