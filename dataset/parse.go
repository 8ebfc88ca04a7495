package dataset

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// The library ships raw percentages and marks missing observations with
// -99.99. The sentinel is matched exactly in decimal before any scaling so
// float rounding can never let one slip through.
var (
	missingSentinel = decimal.RequireFromString("-99.99")
	oneHundred      = decimal.NewFromInt(100)
)

// table is one caption-delimited block of a library CSV file.
type table struct {
	caption string
	columns []string
	dates   []time.Time
	rows    [][]float64
}

// firstCSVMember extracts the first CSV file from a downloaded archive.
func firstCSVMember(raw []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	var member *zip.File
	for _, f := range zr.File {
		if strings.HasSuffix(strings.ToLower(f.Name), ".csv") {
			member = f
			break
		}
	}
	if member == nil && len(zr.File) > 0 {
		member = zr.File[0]
	}
	if member == nil {
		return nil, fmt.Errorf("open archive: no members")
	}
	rc, err := member.Open()
	if err != nil {
		return nil, fmt.Errorf("open archive member %s: %w", member.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read archive member %s: %w", member.Name, err)
	}
	return data, nil
}

// parseLibraryCSV splits a library file into its prose preamble and its
// tables. A table starts at a header record whose first cell is empty,
// takes every following record keyed by a date, and ends at the next
// non-data record, whose text becomes the caption candidate for the table
// after it.
func parseLibraryCSV(data []byte) (preamble string, tables []table, err error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var (
		pre        []string
		cur        *table
		caption    string
		inPreamble = true
	)
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", nil, fmt.Errorf("parse library csv: %w", err)
		}

		if isHeaderRecord(rec) {
			inPreamble = false
			tables = append(tables, table{
				caption: strings.TrimSpace(caption),
				columns: headerColumns(rec),
			})
			cur = &tables[len(tables)-1]
			caption = ""
			continue
		}

		if cur != nil {
			if date, ok := parseRowKey(rec[0]); ok && len(rec) > 1 {
				cur.dates = append(cur.dates, date)
				cur.rows = append(cur.rows, parseRowCells(rec[1:], len(cur.columns)))
				continue
			}
			cur = nil
		}

		text := recordText(rec)
		if text == "" {
			continue
		}
		if inPreamble {
			pre = append(pre, text)
		} else {
			caption = text
		}
	}
	return strings.Join(pre, "\n"), tables, nil
}

// recordText flattens a record into prose, dropping empty cells so rows
// of bare separators read as blank.
func recordText(rec []string) string {
	var parts []string
	for _, cell := range rec {
		if cell = strings.TrimSpace(cell); cell != "" {
			parts = append(parts, cell)
		}
	}
	return strings.Join(parts, ", ")
}

// isHeaderRecord reports whether a record is a column header: an empty
// key cell followed by at least one column name.
func isHeaderRecord(rec []string) bool {
	if len(rec) < 2 || strings.TrimSpace(rec[0]) != "" {
		return false
	}
	for _, cell := range rec[1:] {
		if strings.TrimSpace(cell) != "" {
			return true
		}
	}
	return false
}

func headerColumns(rec []string) []string {
	cols := make([]string, 0, len(rec)-1)
	for _, cell := range rec[1:] {
		cols = append(cols, strings.TrimSpace(cell))
	}
	return cols
}

// parseRowKey recognizes the date keys the library uses: YYYYMMDD for
// daily and weekly files, YYYYMM for monthly, YYYY for annual.
func parseRowKey(key string) (time.Time, bool) {
	key = strings.TrimSpace(key)
	var layout string
	switch len(key) {
	case 8:
		layout = "20060102"
	case 6:
		layout = "200601"
	case 4:
		layout = "2006"
	default:
		return time.Time{}, false
	}
	date, err := time.Parse(layout, key)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

// parseRowCells converts a data row to scaled returns, padding short rows
// with NaN so every row spans the header width.
func parseRowCells(cells []string, width int) []float64 {
	row := make([]float64, width)
	for i := range row {
		if i < len(cells) {
			row[i] = parseCell(cells[i])
		} else {
			row[i] = math.NaN()
		}
	}
	return row
}

// parseCell scales a raw percentage cell to a simple return. Blank,
// unparseable, and sentinel cells are missing.
func parseCell(cell string) float64 {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return math.NaN()
	}
	d, err := decimal.NewFromString(cell)
	if err != nil {
		return math.NaN()
	}
	if d.Equal(missingSentinel) {
		return math.NaN()
	}
	return d.Div(oneHundred).InexactFloat64()
}
