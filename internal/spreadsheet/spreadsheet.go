// ABOUTME: Reads spreadsheet exports (xlsx or csv) into typed rows.
// ABOUTME: The first row is the header; empty cells become nil.
package spreadsheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrMissingColumn is returned when a projected header is absent.
var ErrMissingColumn = errors.New("missing column")

// Sheet is a header plus rows of scalar cells.
// Cells are nil, int64, float64, or string. Workbook date cells read as
// 2006-01-02 text and time cells as HH:MM:SS.
type Sheet struct {
	Header []string
	Rows   [][]any
}

// Read loads path. For workbooks, sheet selects the worksheet ("" means the first).
func Read(path, sheet string) (*Sheet, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return readWorkbook(path, sheet)
	case ".csv":
		return readCSV(path)
	default:
		return nil, fmt.Errorf("unsupported spreadsheet format: %s", path)
	}
}

func readWorkbook(path, sheet string) (*Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}

	records, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	w := &workbook{f: f, sheet: sheet, kinds: make(map[int]cellKind)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		w.date1904 = *props.Date1904
	}
	return fromRecords(records, w.cell)
}

func readCSV(path string) (*Sheet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return fromRecords(records, func(_, _ int, raw string) (any, error) {
		return ParseCell(raw), nil
	})
}

// cellFunc converts the raw text at a zero-based record position.
type cellFunc func(row, col int, raw string) (any, error)

func fromRecords(records [][]string, cell cellFunc) (*Sheet, error) {
	s := &Sheet{}
	if len(records) == 0 {
		return s, nil
	}

	s.Header = make([]string, len(records[0]))
	for i, h := range records[0] {
		s.Header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	for r, rec := range records[1:] {
		row := make([]any, len(s.Header))
		blank := true
		for i := range row {
			if i < len(rec) && strings.TrimSpace(rec[i]) != "" {
				v, err := cell(r+1, i, rec[i])
				if err != nil {
					return nil, err
				}
				row[i] = v
			}
			if row[i] != nil {
				blank = false
			}
		}
		if !blank {
			s.Rows = append(s.Rows, row)
		}
	}
	return s, nil
}

// numberRe matches plain decimal numbers without leading zeros.
var numberRe = regexp.MustCompile(`^[+-]?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// ParseCell infers a scalar from raw cell text. Text that does not read as a
// plain decimal number stays a string, so codes like "007" keep their zeros.
func ParseCell(raw string) any {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil
	}
	if !numberRe.MatchString(v) {
		return v
	}
	if !strings.ContainsAny(v, ".eE") {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
		return v
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && !math.IsInf(f, 0) {
		return f
	}
	return v
}

// Column returns the index of a header, or -1.
func (s *Sheet) Column(name string) int {
	for i, h := range s.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Project returns every row narrowed to the given headers, in that order.
func (s *Sheet) Project(headers []string) ([][]any, error) {
	idx := make([]int, len(headers))
	for i, h := range headers {
		idx[i] = s.Column(h)
		if idx[i] < 0 {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, h)
		}
	}

	out := make([][]any, len(s.Rows))
	for r, row := range s.Rows {
		projected := make([]any, len(idx))
		for i, j := range idx {
			projected[i] = row[j]
		}
		out[r] = projected
	}
	return out, nil
}

// Text renders a cell as text; nil stays nil.
func Text(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
