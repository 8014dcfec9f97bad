package types

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
)

// Row is one result row. Cells align by position with the result's
// []ColumnMeta. A nil cell is SQL NULL; other cells hold the values
// database/sql scans into any: int64, float64, bool, []byte, string or
// time.Time. A Row shorter than its metadata is sparse: the missing
// trailing cells are absent rather than NULL.
type Row []any

// Has reports whether the row carries a cell at index i.
func (r Row) Has(i int) bool {
	return i >= 0 && i < len(r)
}

// RowSource is a sequential, single-pass cursor over query results.
type RowSource interface {
	// NumFields returns the number of columns in the result.
	NumFields() int

	// FieldsMeta returns the column metadata, one entry per field.
	FieldsMeta() []ColumnMeta

	// FetchRow returns the next row, or io.EOF when the cursor is drained.
	FetchRow() (Row, error)

	// Close releases the cursor. It is safe to call more than once.
	Close() error
}

// formatFloat prints f in plain decimal, switching to exponent form for
// very large or very small magnitudes.
func formatFloat(f float64) string {
	if a := math.Abs(f); a != 0 && (a >= 1e21 || a < 1e-6) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// dateTimeLayout matches the textual form MySQL-compatible tools print.
const dateTimeLayout = "2006-01-02 15:04:05"

// CellString renders a non-NULL cell as text. The second result is false
// for NULL cells.
func CellString(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case []byte:
		return string(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case int:
		return strconv.Itoa(x), true
	case float64:
		return formatFloat(x), true
	case bool:
		if x {
			return "1", true
		}
		return "0", true
	case time.Time:
		return x.Format(dateTimeLayout), true
	default:
		return fmt.Sprint(x), true
	}
}

// numericPattern is the numeric-string grammar: optional surrounding
// whitespace, optional sign, decimal digits with optional fraction, and an
// optional exponent.
var numericPattern = regexp.MustCompile(`^[ \t\n\r\v\f]*[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?[ \t\n\r\v\f]*$`)

// IsNumeric reports whether a cell holds a number or a numeric string.
func IsNumeric(v any) bool {
	switch x := v.(type) {
	case int64, int, float64:
		return true
	case string:
		return numericPattern.MatchString(x)
	case []byte:
		return numericPattern.Match(x)
	default:
		return false
	}
}
