// Package datecheck extracts date tokens from activity descriptions and
// classifies them against the accepted school-record date notations.
package datecheck

import (
	"fmt"
	"iter"
	"regexp"
	"strconv"
	"strings"

	"github.com/Nomadcxx/neischeck/internal/records"
)

// Violation is a stable label for one kind of date-format problem.
type Violation string

// Violations in definition order. Results list them in this order.
const (
	ViolationRangeMarker    Violation = "range-marker-misuse"
	ViolationMissingPeriod  Violation = "missing-period"
	ViolationRedundantCount Violation = "redundant-count-suffix"
	ViolationOther          Violation = "other"
)

// Message returns the Korean display message for the violation.
func (v Violation) Message() string {
	switch v {
	case ViolationRangeMarker:
		return "오류 (기간은 ~ 대신 - 로 표기)"
	case ViolationMissingPeriod:
		return ". 빠짐"
	case ViolationRedundantCount:
		return "2회 삭제(-를 ,로 바꿨는지도 확인)"
	case ViolationOther:
		return "형식 확인 필요"
	default:
		return string(v)
	}
}

// Policy configures the single date-format policy.
//
// A token containing "~" is always reported as range-marker-misuse alone;
// no other check runs for it.
type Policy struct {
	// YearPrefix is the year tokens must start with, e.g. "2024".
	// Empty matches any four-digit year.
	YearPrefix string
	// CountSuffix is the unit word after a repetition count ("회").
	CountSuffix string
}

// DefaultPolicy returns the policy for the 2024 school year.
func DefaultPolicy() Policy {
	return Policy{
		YearPrefix:  "2024",
		CountSuffix: "회",
	}
}

var yearPrefixRegex = regexp.MustCompile(`^\d{1,4}$`)

// Validate checks the policy fields.
func (p Policy) Validate() error {
	if p.YearPrefix != "" && !yearPrefixRegex.MatchString(p.YearPrefix) {
		return fmt.Errorf("year prefix must be up to four digits, got %q", p.YearPrefix)
	}
	if strings.TrimSpace(p.CountSuffix) == "" {
		return fmt.Errorf("count suffix must not be empty")
	}
	return nil
}

// Validator extracts and classifies date tokens. It is immutable and safe for
// concurrent use.
type Validator struct {
	policy        Policy
	token         *regexp.Regexp
	single        *regexp.Regexp
	list          *regexp.Regexp
	ranged        *regexp.Regexp
	missingPeriod *regexp.Regexp
	redundant     string
}

// NewValidator compiles the patterns for p.
func NewValidator(p Policy) (*Validator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	year := `\d{4}`
	if p.YearPrefix != "" {
		year = regexp.QuoteMeta(p.YearPrefix) + `\d{` + strconv.Itoa(4-len(p.YearPrefix)) + `}`
	}
	suffix := regexp.QuoteMeta(p.CountSuffix)
	date := `\d{4}\.\d{2}\.\d{2}\.?`

	return &Validator{
		policy:        p,
		token:         regexp.MustCompile(`\(` + year + `\.[^)]*\)`),
		single:        regexp.MustCompile(`^\(` + date + `\)$`),
		list:          regexp.MustCompile(`^\(` + date + `(?:,\s*` + date + `)+\)$`),
		ranged:        regexp.MustCompile(`^\(` + date + `-` + date + `/(\d+)` + suffix + `\)$`),
		missingPeriod: regexp.MustCompile(`^\(\d{8}-\d{8}(?:/\d+` + suffix + `)?\)$`),
		redundant:     "/2" + p.CountSuffix,
	}, nil
}

// Policy returns the policy the validator was built with.
func (v *Validator) Policy() Policy {
	return v.policy
}

// Extract yields every parenthesized date token of text, left to right.
// Each step only searches the text after the previous token.
func (v *Validator) Extract(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		rest := text
		for {
			loc := v.token.FindStringIndex(rest)
			if loc == nil {
				return
			}
			if !yield(rest[loc[0]:loc[1]]) {
				return
			}
			rest = rest[loc[1]:]
		}
	}
}

// Token is an extracted token with its owning record.
type Token struct {
	StudentID int
	Row       int
	Value     string
}

// Tokens yields the tokens of every record in record order. Records with
// blank text contribute nothing.
func (v *Validator) Tokens(recs []records.ActivityRecord) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for _, rec := range recs {
			if strings.TrimSpace(rec.Text) == "" {
				continue
			}
			for tok := range v.Extract(rec.Text) {
				if !yield(Token{StudentID: rec.StudentID, Row: rec.Row, Value: tok}) {
					return
				}
			}
		}
	}
}

// Validate classifies one token. A nil result means the token is valid.
func (v *Validator) Validate(token string) []Violation {
	if strings.Contains(token, "~") {
		return []Violation{ViolationRangeMarker}
	}

	var out []Violation
	if v.missingPeriod.MatchString(token) {
		out = append(out, ViolationMissingPeriod)
	}
	if strings.Contains(token, v.redundant) {
		out = append(out, ViolationRedundantCount)
	}
	if len(out) == 0 && !v.accepted(token) {
		out = append(out, ViolationOther)
	}
	return out
}

func (v *Validator) accepted(token string) bool {
	if v.single.MatchString(token) || v.list.MatchString(token) {
		return true
	}
	m := v.ranged.FindStringSubmatch(token)
	if m == nil {
		return false
	}
	n, err := strconv.Atoi(m[1])
	return err == nil && n > 0
}

// Result is the classification of one token.
type Result struct {
	StudentID  int
	Row        int
	Token      string
	Violations []Violation
}

// Valid reports whether the token has no violations.
func (r Result) Valid() bool {
	return len(r.Violations) == 0
}

// Label joins the violation labels with ", ".
func (r Result) Label() string {
	labels := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		labels[i] = string(v)
	}
	return strings.Join(labels, ", ")
}

// Messages returns the display messages joined with ", ".
func (r Result) Messages() string {
	msgs := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		msgs[i] = v.Message()
	}
	return strings.Join(msgs, ", ")
}

// Check extracts and classifies every token of recs.
func (v *Validator) Check(recs []records.ActivityRecord) []Result {
	var results []Result
	for tok := range v.Tokens(recs) {
		results = append(results, Result{
			StudentID:  tok.StudentID,
			Row:        tok.Row,
			Token:      tok.Value,
			Violations: v.Validate(tok.Value),
		})
	}
	return results
}
