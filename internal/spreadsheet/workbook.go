// ABOUTME: Typed cell conversion for xlsx workbooks.
// ABOUTME: Each cell's type and number format decide how its raw value is rendered.
package spreadsheet

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

type cellKind int

const (
	plainKind cellKind = iota
	dateKind           // serial day number shown as a calendar date
	clockKind          // fraction of a day shown as a time or duration
)

type workbook struct {
	f        *excelize.File
	sheet    string
	date1904 bool
	kinds    map[int]cellKind // by style index
}

// cell converts one raw (unformatted) cell value.
func (w *workbook) cell(row, col int, raw string) (any, error) {
	name, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return nil, err
	}
	typ, err := w.f.GetCellType(w.sheet, name)
	if err != nil {
		return nil, fmt.Errorf("cell %s: %w", name, err)
	}

	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return strings.TrimSpace(raw), nil
	case excelize.CellTypeError:
		return nil, nil
	case excelize.CellTypeBool:
		return ParseCell(raw), nil
	case excelize.CellTypeDate:
		return isoDate(raw), nil
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return strings.TrimSpace(raw), nil
	}
	kind, err := w.kind(name)
	if err != nil {
		return nil, fmt.Errorf("cell %s: %w", name, err)
	}
	switch kind {
	case dateKind:
		if t, err := excelize.ExcelDateToTime(v, w.date1904); err == nil {
			return formatDate(t), nil
		}
	case clockKind:
		if v >= 0 {
			return formatClock(v), nil
		}
	}
	return number(v), nil
}

func (w *workbook) kind(cell string) (cellKind, error) {
	idx, err := w.f.GetCellStyle(w.sheet, cell)
	if err != nil {
		return plainKind, err
	}
	if k, ok := w.kinds[idx]; ok {
		return k, nil
	}
	style, err := w.f.GetStyle(idx)
	if err != nil {
		return plainKind, err
	}
	k := formatKind(style.NumFmt, style.CustomNumFmt)
	w.kinds[idx] = k
	return k, nil
}

// formatKind classifies a built-in number format id or a custom format code.
func formatKind(id int, custom *string) cellKind {
	if custom != nil && *custom != "" {
		return codeKind(*custom)
	}
	switch {
	case id >= 14 && id <= 17, id == 22, id >= 27 && id <= 36, id >= 50 && id <= 58:
		return dateKind
	case id >= 18 && id <= 21, id >= 45 && id <= 47:
		return clockKind
	}
	return plainKind
}

// codeKind looks for date or time tokens in the first section of a format
// code. Quoted literals and bracketed sections other than elapsed time are skipped.
func codeKind(code string) cellKind {
	if i := strings.IndexByte(code, ';'); i >= 0 {
		code = code[:i]
	}

	var b strings.Builder
	for i := 0; i < len(code); i++ {
		switch c := code[i]; c {
		case '"':
			j := strings.IndexByte(code[i+1:], '"')
			if j < 0 {
				i = len(code)
			} else {
				i += j + 1
			}
		case '\\', '_', '*':
			i++
		case '[':
			j := strings.IndexByte(code[i:], ']')
			if j < 0 {
				i = len(code)
				break
			}
			// [h], [mm], [ss] are elapsed time.
			if inner := strings.ToLower(code[i+1 : i+j]); inner != "" && strings.Trim(inner, "hms") == "" {
				b.WriteString(inner)
			}
			i += j
		default:
			b.WriteByte(c)
		}
	}

	s := strings.ToLower(b.String())
	switch {
	case strings.ContainsAny(s, "yd"):
		return dateKind
	case strings.ContainsAny(s, "hs"):
		return clockKind
	}
	return plainKind
}

func isoDate(raw string) any {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return formatDate(t)
		}
	}
	return raw
}

// formatDate drops the clock when it reads midnight.
func formatDate(t time.Time) string {
	t = t.Round(time.Second)
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}

// formatClock renders a day fraction as HH:MM:SS; hours may exceed 24.
func formatClock(days float64) string {
	secs := int64(math.Round(days * 86400))
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs%3600/60, secs%60)
}

func number(v float64) any {
	if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
		return int64(v)
	}
	return v
}
