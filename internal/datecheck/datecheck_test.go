package datecheck

import (
	"slices"
	"testing"

	"github.com/Nomadcxx/neischeck/internal/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(t *testing.T, p Policy) *Validator {
	t.Helper()
	v, err := NewValidator(p)
	require.NoError(t, err)
	return v
}

func TestValidate_AcceptedShapes(t *testing.T) {
	v := newValidator(t, DefaultPolicy())

	tokens := []string{
		"(2024.03.02.)",
		"(2024.03.02)",
		"(2024.03.02., 2024.07.19.)",
		"(2024.03.02, 2024.07.19.)",
		"(2024.03.02.,2024.07.19)",
		"(2024.03.02., 2024.05.10., 2024.07.19.)",
		"(2024.03.02.-2024.07.19/3회)",
		"(2024.03.02.-2024.07.19./12회)",
	}

	for _, tok := range tokens {
		t.Run(tok, func(t *testing.T) {
			assert.Empty(t, v.Validate(tok))
		})
	}
}

func TestValidate_Violations(t *testing.T) {
	v := newValidator(t, DefaultPolicy())

	tests := []struct {
		token string
		want  []Violation
	}{
		{"(2024.03.02.~2024.07.19.)", []Violation{ViolationRangeMarker}},
		{"(2024.03.02.~2024.07.19/2회)", []Violation{ViolationRangeMarker}},
		{"(20240302~20240719)", []Violation{ViolationRangeMarker}},
		{"(20240302-20240719)", []Violation{ViolationMissingPeriod}},
		{"(20240302-20240719/2회)", []Violation{ViolationMissingPeriod, ViolationRedundantCount}},
		{"(2024.03.02.-2024.07.19/2회)", []Violation{ViolationRedundantCount}},
		{"(2024.03.02.-2024.07.19./2회)", []Violation{ViolationRedundantCount}},
		{"(2024.03.02.-2024.07.19/0회)", []Violation{ViolationOther}},
		{"(2024.03.02.-2024.07.19.)", []Violation{ViolationOther}},
		{"(2024.3.2.)", []Violation{ViolationOther}},
		{"(2024. 03. 02.)", []Violation{ViolationOther}},
		{"(2024.03.02. 입학식)", []Violation{ViolationOther}},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Validate(tt.token))
		})
	}
}

func TestValidate_Deterministic(t *testing.T) {
	v := newValidator(t, DefaultPolicy())

	for _, tok := range []string{"(20240302-20240719/2회)", "(2024.03.02.)", "(2024.1)"} {
		first := v.Validate(tok)
		for range 5 {
			assert.Equal(t, first, v.Validate(tok))
		}
	}
}

func TestValidate_CountSuffixPolicy(t *testing.T) {
	v := newValidator(t, Policy{YearPrefix: "2024", CountSuffix: "times"})

	recs := []records.ActivityRecord{
		{StudentID: 1, Text: "(2024.03.02.)", Row: 2},
		{StudentID: 1, Text: "(2024.03.02.-2024.07.19/3times)", Row: 3},
		{StudentID: 1, Text: "(2024.03.02.-2024.07.19/2times)", Row: 4},
	}

	results := v.Check(recs)
	require.Len(t, results, 3)

	got := make([][]Violation, len(results))
	for i, r := range results {
		got[i] = r.Violations
	}
	assert.Equal(t, [][]Violation{nil, nil, {ViolationRedundantCount}}, got)
	assert.Equal(t, "redundant-count-suffix", results[2].Label())
	assert.True(t, results[0].Valid())
}

func TestExtract(t *testing.T) {
	v := newValidator(t, DefaultPolicy())

	text := "학급 회의(2024.03.02.)에 참여하고 (2023.12.01.) 체육대회(2024.05.01.-2024.05.03/3회)와 (2024.06.01.~2024.06.02.)에도 참가함. (2024.07"

	got := slices.Collect(v.Extract(text))
	assert.Equal(t, []string{
		"(2024.03.02.)",
		"(2024.05.01.-2024.05.03/3회)",
		"(2024.06.01.~2024.06.02.)",
	}, got)
}

func TestExtract_AnyYear(t *testing.T) {
	v := newValidator(t, Policy{CountSuffix: "회"})

	got := slices.Collect(v.Extract("(2023.12.01.) and (2024.01.02.) and (24.01.02.)"))
	assert.Equal(t, []string{"(2023.12.01.)", "(2024.01.02.)"}, got)
}

func TestExtract_StopsEarly(t *testing.T) {
	v := newValidator(t, DefaultPolicy())

	var seen []string
	for tok := range v.Extract("(2024.01.01.)(2024.01.02.)(2024.01.03.)") {
		seen = append(seen, tok)
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"(2024.01.01.)", "(2024.01.02.)"}, seen)
}

func TestTokens_SkipsBlankText(t *testing.T) {
	v := newValidator(t, DefaultPolicy())

	recs := []records.ActivityRecord{
		{StudentID: 3, Text: "  ", Row: 2},
		{StudentID: 4, Text: "(2024.04.01.) 그리고 (2024.04.02.)", Row: 3},
	}

	got := slices.Collect(v.Tokens(recs))
	assert.Equal(t, []Token{
		{StudentID: 4, Row: 3, Value: "(2024.04.01.)"},
		{StudentID: 4, Row: 3, Value: "(2024.04.02.)"},
	}, got)
}

func TestResult_Messages(t *testing.T) {
	r := Result{Violations: []Violation{ViolationMissingPeriod, ViolationRedundantCount}}
	assert.Equal(t, "missing-period, redundant-count-suffix", r.Label())
	assert.Equal(t, ". 빠짐, 2회 삭제(-를 ,로 바꿨는지도 확인)", r.Messages())
	assert.False(t, r.Valid())
}

func TestPolicyValidate(t *testing.T) {
	assert.NoError(t, DefaultPolicy().Validate())
	assert.NoError(t, Policy{CountSuffix: "회"}.Validate())
	assert.Error(t, Policy{YearPrefix: "20245", CountSuffix: "회"}.Validate())
	assert.Error(t, Policy{YearPrefix: "abcd", CountSuffix: "회"}.Validate())
	assert.Error(t, Policy{YearPrefix: "2024", CountSuffix: " "}.Validate())

	_, err := NewValidator(Policy{YearPrefix: "2024"})
	assert.Error(t, err)
}
