// Package report assembles validator and detector output into display
// structures and renders them as text, JSON or YAML.
package report

import (
	"time"

	"github.com/Nomadcxx/neischeck/internal/datecheck"
	"github.com/Nomadcxx/neischeck/internal/reading"
	"github.com/google/uuid"
)

// DateRow is one validated token.
type DateRow struct {
	StudentID  int      `json:"student_id" yaml:"student_id"`
	Row        int      `json:"row" yaml:"row"`
	Token      string   `json:"token" yaml:"token"`
	Violations []string `json:"violations" yaml:"violations"`
	Label      string   `json:"label" yaml:"label"`
	Message    string   `json:"message" yaml:"message"`
}

// DateSummary counts the outcome of a date validation run.
type DateSummary struct {
	Students    int            `json:"students" yaml:"students"`
	Tokens      int            `json:"tokens" yaml:"tokens"`
	Invalid     int            `json:"invalid" yaml:"invalid"`
	ByViolation map[string]int `json:"by_violation" yaml:"by_violation"`
}

// DateReport is the result of validating one upload.
type DateReport struct {
	ID          string      `json:"id" yaml:"id"`
	Source      string      `json:"source" yaml:"source"`
	GeneratedAt time.Time   `json:"generated_at" yaml:"generated_at"`
	Rows        []DateRow   `json:"rows" yaml:"rows"`
	Summary     DateSummary `json:"summary" yaml:"summary"`
}

// Invalid returns only the rows with violations.
func (r *DateReport) Invalid() []DateRow {
	var out []DateRow
	for _, row := range r.Rows {
		if len(row.Violations) > 0 {
			out = append(out, row)
		}
	}
	return out
}

// BuildDateReport converts validation results into a report, keeping their
// order.
func BuildDateReport(source string, results []datecheck.Result) *DateReport {
	rep := &DateReport{
		ID:          uuid.NewString(),
		Source:      source,
		GeneratedAt: time.Now(),
		Rows:        make([]DateRow, 0, len(results)),
		Summary:     DateSummary{ByViolation: map[string]int{}},
	}

	students := make(map[int]struct{})
	for _, res := range results {
		labels := make([]string, len(res.Violations))
		for i, v := range res.Violations {
			labels[i] = string(v)
			rep.Summary.ByViolation[string(v)]++
		}
		rep.Rows = append(rep.Rows, DateRow{
			StudentID:  res.StudentID,
			Row:        res.Row,
			Token:      res.Token,
			Violations: labels,
			Label:      res.Label(),
			Message:    res.Messages(),
		})
		students[res.StudentID] = struct{}{}
		if !res.Valid() {
			rep.Summary.Invalid++
		}
	}
	rep.Summary.Students = len(students)
	rep.Summary.Tokens = len(results)

	return rep
}

// ExactPair is an exact duplicate as displayed.
type ExactPair struct {
	Title          string `json:"title" yaml:"title"`
	FirstLocation  string `json:"first_location" yaml:"first_location"`
	SecondLocation string `json:"second_location" yaml:"second_location"`
}

// Location joins both locations in record order.
func (p ExactPair) Location() string {
	return p.FirstLocation + ", " + p.SecondLocation
}

// SimilarPair is a near-duplicate as displayed.
type SimilarPair struct {
	TitleA    string  `json:"title_a" yaml:"title_a"`
	TitleB    string  `json:"title_b" yaml:"title_b"`
	LocationA string  `json:"location_a" yaml:"location_a"`
	LocationB string  `json:"location_b" yaml:"location_b"`
	Score     float64 `json:"score" yaml:"score"`
}

// Location lists the earlier title's location first.
func (p SimilarPair) Location() string {
	return p.LocationB + ", " + p.LocationA
}

// StudentExact groups exact duplicates of one student.
type StudentExact struct {
	StudentID int         `json:"student_id" yaml:"student_id"`
	Pairs     []ExactPair `json:"pairs" yaml:"pairs"`
}

// StudentSimilar groups near-duplicates of one student.
type StudentSimilar struct {
	StudentID int           `json:"student_id" yaml:"student_id"`
	Pairs     []SimilarPair `json:"pairs" yaml:"pairs"`
}

// DuplicateSummary counts the outcome of a duplicate run.
type DuplicateSummary struct {
	Students int `json:"students" yaml:"students"`
	Exact    int `json:"exact" yaml:"exact"`
	Similar  int `json:"similar" yaml:"similar"`
}

// DuplicateReport is the result of checking one reading-activity upload.
type DuplicateReport struct {
	ID          string           `json:"id" yaml:"id"`
	Source      string           `json:"source" yaml:"source"`
	GeneratedAt time.Time        `json:"generated_at" yaml:"generated_at"`
	Threshold   float64          `json:"threshold" yaml:"threshold"`
	Exact       []StudentExact   `json:"exact" yaml:"exact"`
	Similar     []StudentSimilar `json:"similar" yaml:"similar"`
	Summary     DuplicateSummary `json:"summary" yaml:"summary"`
}

// BuildDuplicateReport groups detector output by student in first-appearance
// order. Students without pairs are omitted from the groups.
func BuildDuplicateReport(source string, threshold float64, res *reading.Result) *DuplicateReport {
	rep := &DuplicateReport{
		ID:          uuid.NewString(),
		Source:      source,
		GeneratedAt: time.Now(),
		Threshold:   threshold,
		Exact:       []StudentExact{},
		Similar:     []StudentSimilar{},
	}

	exact := make(map[int][]ExactPair)
	for _, d := range res.Duplicates {
		exact[d.StudentID] = append(exact[d.StudentID], ExactPair{
			Title:          d.Title,
			FirstLocation:  d.First.String(),
			SecondLocation: d.Second.String(),
		})
	}

	similar := make(map[int][]SimilarPair)
	for _, s := range res.Similar {
		similar[s.StudentID] = append(similar[s.StudentID], SimilarPair{
			TitleA:    s.TitleA,
			TitleB:    s.TitleB,
			LocationA: s.LocationA.String(),
			LocationB: s.LocationB.String(),
			Score:     s.Score,
		})
	}

	for _, id := range res.Students {
		if pairs, ok := exact[id]; ok {
			rep.Exact = append(rep.Exact, StudentExact{StudentID: id, Pairs: pairs})
		}
		if pairs, ok := similar[id]; ok {
			rep.Similar = append(rep.Similar, StudentSimilar{StudentID: id, Pairs: pairs})
		}
	}

	rep.Summary = DuplicateSummary{
		Students: len(res.Students),
		Exact:    len(res.Duplicates),
		Similar:  len(res.Similar),
	}
	return rep
}
