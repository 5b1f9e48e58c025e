package reading

import (
	"testing"

	"github.com/Nomadcxx/neischeck/internal/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTitles(t *testing.T) {
	tests := []struct {
		name  string
		field string
		want  []string
	}{
		{"two titles", "데미안(헤르만 헤세), 어린 왕자(생텍쥐페리)", []string{"데미안(헤르만 헤세)", "어린 왕자(생텍쥐페리)"}},
		{"empty segments dropped", " A ,, B ,  ,", []string{"A", "B"}},
		{"blank field", "   ", nil},
		{"empty field", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTitles(tt.field, ","))
		})
	}
}

func TestParseTitles_CustomDelimiter(t *testing.T) {
	assert.Equal(t, []string{"A, 1", "B"}, ParseTitles("A, 1; B", ";"))
	assert.Equal(t, []string{"A", "B"}, ParseTitles("A,B", ""))
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 22.0/23.0, Similarity("Harry Potter", "Harry Poter"), 1e-9)
	assert.Less(t, Similarity("Harry Potter", "Database Systems"), DefaultThreshold)
	assert.Equal(t, 1.0, Similarity("데미안", "데미안"))
	assert.Equal(t, 0.0, Similarity("가나", "다라"))
	// rune-wise: one differing syllable out of four
	assert.InDelta(t, 0.75, Similarity("어린왕자", "어린공자"), 1e-9)
}

func TestEntries(t *testing.T) {
	rows := []records.ReadingRow{
		{StudentID: 1, Subject: "국어", Year: "2023", Grade: "1", Semester: "1", Books: "A, B", Row: 5},
		{StudentID: 1, Subject: "국어", Year: "2023", Grade: "1", Semester: "2", Books: "", Row: 6},
	}

	entries := Entries(rows, ",")
	require.Len(t, entries, 2)
	assert.Equal(t, "A", entries[0].Title)
	assert.Equal(t, "B", entries[1].Title)
	assert.Equal(t, "국어/2023/1/1", entries[1].Location.String())
	assert.Equal(t, 5, entries[1].Row)
}
