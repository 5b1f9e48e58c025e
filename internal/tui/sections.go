package tui

import (
	"strings"

	"github.com/Nomadcxx/neischeck/internal/report"
)

// DateSections splits a date report into invalid-only and full views.
func DateSections(r *report.DateReport) []Section {
	invalid := r.Invalid()
	var errs strings.Builder
	if len(invalid) == 0 {
		errs.WriteString("형식 오류가 없습니다.\n")
	} else {
		report.WriteDateRows(&errs, invalid)
	}

	var all strings.Builder
	report.WriteDateText(&all, r)

	return []Section{
		{Title: "오류", Body: errs.String()},
		{Title: "전체", Body: all.String()},
	}
}

// DuplicateSections gives exact and near-duplicates a tab each.
func DuplicateSections(r *report.DuplicateReport) []Section {
	var exact, similar strings.Builder
	report.WriteExact(&exact, r.Exact)
	report.WriteSimilar(&similar, r.Similar)

	return []Section{
		{Title: "중복", Body: exact.String()},
		{Title: "중복 의심", Body: similar.String()},
	}
}
