package reading

import (
	"errors"
	"fmt"
)

// ErrInvalidThreshold is returned for thresholds outside (0, 1].
var ErrInvalidThreshold = errors.New("invalid similarity threshold")

// DuplicatePair is an exact repeat of a title for one student. First is the
// location where the title was first recorded.
type DuplicatePair struct {
	StudentID int
	Title     string
	First     Location
	Second    Location
}

// SimilarPair is a near-duplicate: TitleA was being processed when it was
// found to resemble the earlier TitleB.
type SimilarPair struct {
	StudentID int
	TitleA    string
	TitleB    string
	LocationA Location
	LocationB Location
	Score     float64
}

// Result holds both pair lists. Students lists every student id in the
// order it first appeared.
type Result struct {
	Duplicates []DuplicatePair
	Similar    []SimilarPair
	Students   []int
}

// Detector finds duplicates within each student's reading log.
type Detector struct {
	threshold float64
}

// Option configures a Detector.
type Option func(*Detector)

// WithThreshold sets the similarity ratio for near-duplicates.
func WithThreshold(threshold float64) Option {
	return func(d *Detector) {
		d.threshold = threshold
	}
}

// NewDetector creates a Detector. The threshold must lie in (0, 1].
func NewDetector(opts ...Option) (*Detector, error) {
	d := &Detector{threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(d)
	}
	if err := ValidateThreshold(d.threshold); err != nil {
		return nil, err
	}
	return d, nil
}

// ValidateThreshold checks a similarity threshold.
func ValidateThreshold(threshold float64) error {
	if threshold <= 0 || threshold > 1 {
		return fmt.Errorf("%w: must be in (0, 1], got %v", ErrInvalidThreshold, threshold)
	}
	return nil
}

// Threshold returns the configured threshold.
func (d *Detector) Threshold() float64 {
	return d.threshold
}

// seenTitles keeps the first location of every title in insertion order.
// Entries are never overwritten.
type seenTitles struct {
	order []string
	where map[string]Location
}

func (s *seenTitles) lookup(title string) (Location, bool) {
	loc, ok := s.where[title]
	return loc, ok
}

func (s *seenTitles) add(title string, loc Location) {
	if _, ok := s.where[title]; ok {
		return
	}
	s.where[title] = loc
	s.order = append(s.order, title)
}

// Detect groups entries by student and reports exact and near duplicates.
func (d *Detector) Detect(entries []Entry) *Result {
	res := &Result{}

	groups := make(map[int][]Entry)
	for _, e := range entries {
		if _, ok := groups[e.StudentID]; !ok {
			res.Students = append(res.Students, e.StudentID)
		}
		groups[e.StudentID] = append(groups[e.StudentID], e)
	}

	for _, id := range res.Students {
		d.detectStudent(id, groups[id], res)
	}
	return res
}

func (d *Detector) detectStudent(id int, entries []Entry, res *Result) {
	seen := &seenTitles{where: make(map[string]Location)}

	for _, e := range entries {
		if first, ok := seen.lookup(e.Title); ok {
			res.Duplicates = append(res.Duplicates, DuplicatePair{
				StudentID: id,
				Title:     e.Title,
				First:     first,
				Second:    e.Location,
			})
		} else {
			seen.add(e.Title, e.Location)
		}

		for _, other := range seen.order {
			if other == e.Title {
				continue
			}
			score := Similarity(e.Title, other)
			if score < d.threshold {
				continue
			}
			res.Similar = append(res.Similar, SimilarPair{
				StudentID: id,
				TitleA:    e.Title,
				TitleB:    other,
				LocationA: e.Location,
				LocationB: seen.where[other],
				Score:     score,
			})
		}
	}
}
