// Package service runs the two checks end to end: upload bytes in, report
// out. Every call is independent; a Checker holds only immutable settings.
package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Nomadcxx/neischeck/internal/config"
	"github.com/Nomadcxx/neischeck/internal/datecheck"
	"github.com/Nomadcxx/neischeck/internal/logging"
	"github.com/Nomadcxx/neischeck/internal/reading"
	"github.com/Nomadcxx/neischeck/internal/records"
	"github.com/Nomadcxx/neischeck/internal/report"
	"github.com/Nomadcxx/neischeck/internal/sheet"
)

// Checker validates activity dates and detects duplicate reading titles.
type Checker struct {
	validator    *datecheck.Validator
	activity     records.ActivitySchema
	category     string
	datesSheet   string
	reading      records.ReadingSchema
	readingSheet string
	delimiter    string
	threshold    float64
	logger       *logging.Logger
}

// NewChecker builds a Checker from cfg. A nil logger discards output.
func NewChecker(cfg *config.Config, logger *logging.Logger) (*Checker, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	validator, err := datecheck.NewValidator(cfg.DatePolicy())
	if err != nil {
		return nil, fmt.Errorf("building date validator: %w", err)
	}
	activity, err := cfg.ActivitySchema()
	if err != nil {
		return nil, err
	}
	readingSchema, err := cfg.ReadingSchema()
	if err != nil {
		return nil, err
	}

	return &Checker{
		validator:    validator,
		activity:     activity,
		category:     cfg.Dates.Category,
		datesSheet:   cfg.Dates.Sheet,
		reading:      readingSchema,
		readingSheet: cfg.Reading.Sheet,
		delimiter:    cfg.Reading.Delimiter,
		threshold:    cfg.Reading.SimilarityThreshold,
		logger:       logger,
	}, nil
}

// DefaultThreshold is the configured similarity threshold.
func (c *Checker) DefaultThreshold() float64 {
	return c.threshold
}

// CheckDates validates every date token in the activity export read from r.
// name is used for its extension and in the report.
func (c *Checker) CheckDates(r io.Reader, name string) (*report.DateReport, error) {
	c.logger.Info("dates", "Checking activity dates", logging.F("file", name))

	table, err := c.bind(r, name, c.datesSheet, c.activity.Schema())
	if err != nil {
		c.logger.Error("dates", "Unable to read activity export", err, logging.F("file", name))
		return nil, err
	}
	recs, err := records.LoadActivities(table, c.category)
	if err != nil {
		c.logger.Error("dates", "Unable to load activity rows", err, logging.F("file", name))
		return nil, fmt.Errorf("loading %s: %w", name, err)
	}

	rep := report.BuildDateReport(name, c.validator.Check(recs))
	c.logger.Info("dates", "Date check complete",
		logging.F("file", name),
		logging.F("records", len(recs)),
		logging.F("tokens", rep.Summary.Tokens),
		logging.F("invalid", rep.Summary.Invalid),
		logging.F("report", rep.ID))
	return rep, nil
}

// CheckReading reports duplicate and near-duplicate titles per student. A
// zero threshold uses the configured one.
func (c *Checker) CheckReading(r io.Reader, name string, threshold float64) (*report.DuplicateReport, error) {
	if threshold == 0 {
		threshold = c.threshold
	}
	detector, err := reading.NewDetector(reading.WithThreshold(threshold))
	if err != nil {
		return nil, err
	}
	c.logger.Info("reading", "Checking reading titles",
		logging.F("file", name), logging.F("threshold", threshold))

	table, err := c.bind(r, name, c.readingSheet, c.reading.Schema())
	if err != nil {
		c.logger.Error("reading", "Unable to read reading export", err, logging.F("file", name))
		return nil, err
	}
	rows, err := records.LoadReadingRows(table)
	if err != nil {
		c.logger.Error("reading", "Unable to load reading rows", err, logging.F("file", name))
		return nil, fmt.Errorf("loading %s: %w", name, err)
	}

	entries := reading.Entries(rows, c.delimiter)
	rep := report.BuildDuplicateReport(name, threshold, detector.Detect(entries))
	c.logger.Info("reading", "Duplicate check complete",
		logging.F("file", name),
		logging.F("students", rep.Summary.Students),
		logging.F("titles", len(entries)),
		logging.F("exact", rep.Summary.Exact),
		logging.F("similar", rep.Summary.Similar),
		logging.F("report", rep.ID))
	return rep, nil
}

// CheckDatesFile is CheckDates over a file on disk.
func (c *Checker) CheckDatesFile(path string) (*report.DateReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s: %w", path, err)
	}
	defer f.Close()
	return c.CheckDates(f, filepath.Base(path))
}

// CheckReadingFile is CheckReading over a file on disk.
func (c *Checker) CheckReadingFile(path string, threshold float64) (*report.DuplicateReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s: %w", path, err)
	}
	defer f.Close()
	return c.CheckReading(f, filepath.Base(path), threshold)
}

func (c *Checker) bind(r io.Reader, name, sheetName string, schema sheet.Schema) (*sheet.Table, error) {
	grid, err := sheet.Read(r, name, sheetName)
	if err != nil {
		return nil, err
	}
	table, err := schema.Bind(grid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return table, nil
}
