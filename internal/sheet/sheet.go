// Package sheet reads uploaded spreadsheets into a plain cell grid and binds
// the configured column convention onto it.
package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"
)

// ErrUnsupportedFormat is returned for uploads that are neither xlsx nor csv.
var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

// Grid is the raw content of one worksheet. Rows may be ragged.
type Grid struct {
	Name  string
	Sheet string
	Rows  [][]string
}

// Cell returns the cell at the 0-based row/column or "" when out of range.
func (g *Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g.Rows) {
		return ""
	}
	r := g.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// SupportedExtensions lists the upload extensions Read understands.
var SupportedExtensions = []string{".xlsx", ".xlsm", ".csv"}

// IsSupported reports whether the file name has a readable extension.
func IsSupported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ReadFile opens path and reads it with Read.
func ReadFile(path, sheetName string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s: %w", path, err)
	}
	defer f.Close()

	return Read(f, filepath.Base(path), sheetName)
}

// Read parses r according to the extension of name. For workbooks the sheet
// named sheetName is used, or the first sheet when sheetName is empty.
// Parser panics on corrupt input are returned as errors.
func Read(r io.Reader, name, sheetName string) (grid *Grid, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			grid = nil
			err = fmt.Errorf("unable to parse %s: %v", name, rec)
		}
	}()

	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		grid, err = readWorkbook(r, sheetName)
	case ".csv":
		grid, err = readCSV(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", name, err)
	}

	grid.Name = name
	normalize(grid)
	return grid, nil
}

func readWorkbook(r io.Reader, sheetName string) (*Grid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheetName = sheets[0]
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheetName, err)
	}

	return &Grid{Sheet: sheetName, Rows: rows}, nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func readCSV(r io.Reader) (*Grid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	return &Grid{Rows: rows}, nil
}

// normalize converts every cell to NFC so decomposed Hangul from some
// exporters compares equal to precomposed text.
func normalize(g *Grid) {
	for _, row := range g.Rows {
		for i, cell := range row {
			if !norm.NFC.IsNormalString(cell) {
				row[i] = norm.NFC.String(cell)
			}
		}
	}
}
