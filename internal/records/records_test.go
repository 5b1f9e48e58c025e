package records

import (
	"errors"
	"testing"

	"github.com/Nomadcxx/neischeck/internal/sheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ref(t *testing.T, s string) sheet.ColumnRef {
	t.Helper()
	r, err := sheet.ParseColumnRef(s)
	require.NoError(t, err)
	return r
}

func TestForwardFill(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "gaps after identifiers",
			in:   []string{"5", "", "", "7", ""},
			want: []string{"5", "5", "5", "7", "7"},
		},
		{
			name: "leading blanks stay blank",
			in:   []string{"", " ", "3", ""},
			want: []string{"", "", "3", "3"},
		},
		{
			name: "empty",
			in:   []string{},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ForwardFill(tt.in))
		})
	}
}

func TestParseStudentID(t *testing.T) {
	n, err := ParseStudentID("12")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	n, err = ParseStudentID(" 7.0 ")
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	_, err = ParseStudentID("7.5")
	assert.Error(t, err)

	_, err = ParseStudentID("홍길동")
	assert.Error(t, err)
}

func activityTable(t *testing.T, rows [][]string) *sheet.Table {
	t.Helper()
	schema := ActivitySchema{
		HeaderRow: 1,
		StudentID: ref(t, "col:A"),
		Category:  ref(t, "col:C"),
		Text:      ref(t, "col:E"),
	}
	table, err := schema.Schema().Bind(&sheet.Grid{Rows: rows})
	require.NoError(t, err)
	return table
}

func TestLoadActivities(t *testing.T) {
	table := activityTable(t, [][]string{
		{"", "", "", "", ""},
		{"5", "", "자율활동", "", "(2024.03.02.) 입학식"},
		{"", "", "동아리활동", "", "(2024.04.01.) 동아리"},
		{"", "", "자율활동", "", ""},
		{"", "", "자율활동", "", "(2024.05.05.) 체육대회"},
		{"7", "", "자율활동", "", "(2024.06.01.) 현장체험"},
	})

	recs, err := LoadActivities(table, "자율활동")
	require.NoError(t, err)

	require.Len(t, recs, 3)
	assert.Equal(t, ActivityRecord{StudentID: 5, Category: "자율활동", Text: "(2024.03.02.) 입학식", Row: 2}, recs[0])
	assert.Equal(t, 5, recs[1].StudentID, "blank id belongs to the preceding student")
	assert.Equal(t, 5, recs[1].Row)
	assert.Equal(t, 7, recs[2].StudentID)
}

func TestLoadActivities_LeadingRowsWithoutStudent(t *testing.T) {
	table := activityTable(t, [][]string{
		{"", "", "", "", ""},
		{"", "", "자율활동", "", "(2024.03.02.)"},
		{"2", "", "자율활동", "", "(2024.03.03.)"},
	})

	recs, err := LoadActivities(table, "자율활동")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 2, recs[0].StudentID)
}

func TestLoadActivities_InvalidStudentID(t *testing.T) {
	table := activityTable(t, [][]string{
		{"", "", "", "", ""},
		{"1", "", "자율활동", "", "(2024.03.02.)"},
		{"1반", "", "자율활동", "", "(2024.03.03.)"},
	})

	recs, err := LoadActivities(table, "자율활동")
	require.Error(t, err)
	assert.Nil(t, recs)

	var invalid *InvalidRowError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, 3, invalid.Row)
	assert.Equal(t, "1반", invalid.Value)
}

func readingTable(t *testing.T, rows [][]string) *sheet.Table {
	t.Helper()
	schema := ReadingSchema{
		HeaderRow: 1,
		StudentID: ref(t, "번호"),
		Subject:   ref(t, "과목 또는 영역"),
		Year:      ref(t, "학년도"),
		Grade:     ref(t, "학년"),
		Semester:  ref(t, "학기"),
		Books:     ref(t, "독서활동 상황"),
	}
	table, err := schema.Schema().Bind(&sheet.Grid{Rows: rows})
	require.NoError(t, err)
	return table
}

func TestLoadReadingRows(t *testing.T) {
	header := []string{"번호", "과목 또는 영역", "학년도", "학년", "학기", "독서활동 상황"}
	table := readingTable(t, [][]string{
		header,
		{"1", "국어", "2023", "1", "1", "데미안(헤르만 헤세)"},
		{"", "", "", "", "2", "어린 왕자(생텍쥐페리)"},
		{"", "", "", "", "", ""},
		header,
		{"", "수학", "", "", "", "수학의 정석"},
		{"2", "국어", "2023", "1", "1", "동물농장(조지 오웰)"},
	})

	rows, err := LoadReadingRows(table)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, ReadingRow{StudentID: 1, Subject: "국어", Year: "2023", Grade: "1", Semester: "2", Books: "어린 왕자(생텍쥐페리)", Row: 3}, rows[1])

	// A repeated header does not break the student or location carry-over.
	assert.Equal(t, 1, rows[2].StudentID)
	assert.Equal(t, "수학", rows[2].Subject)
	assert.Equal(t, "2023", rows[2].Year)
	assert.Equal(t, "2", rows[2].Semester)
	assert.Equal(t, 6, rows[2].Row)

	assert.Equal(t, 2, rows[3].StudentID)
}
