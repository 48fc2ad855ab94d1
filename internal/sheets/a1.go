package sheets

import (
	"strconv"
	"strings"

	"github.com/Veraticus/spend/internal/common"
)

// ColumnToLabel converts a 1-based column index to its A1 letter label.
// Numbering is bijective base-26: 26 is "Z", 27 is "AA".
func ColumnToLabel(col int) (string, error) {
	if col < 1 {
		return "", common.InvalidArgument("column index must be >= 1, got %d", col)
	}

	var buf []byte
	for col > 0 {
		col--
		buf = append(buf, byte('A'+col%26))
		col /= 26
	}

	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf), nil
}

// LabelToColumn converts an A1 letter label back to its 1-based column index.
func LabelToColumn(label string) (int, error) {
	if label == "" {
		return 0, common.InvalidArgument("empty column label")
	}

	col := 0
	for _, r := range strings.ToUpper(label) {
		if r < 'A' || r > 'Z' {
			return 0, common.InvalidArgument("invalid column label %q", label)
		}
		col = col*26 + int(r-'A'+1)
	}
	return col, nil
}

// CellRef formats a single cell reference such as "B7".
func CellRef(col, row int) (string, error) {
	if row < 1 {
		return "", common.InvalidArgument("row index must be >= 1, got %d", row)
	}
	label, err := ColumnToLabel(col)
	if err != nil {
		return "", err
	}
	return label + strconv.Itoa(row), nil
}

// RangeRef formats a rectangular range such as "B7:C300".
func RangeRef(col1, row1, col2, row2 int) (string, error) {
	from, err := CellRef(col1, row1)
	if err != nil {
		return "", err
	}
	to, err := CellRef(col2, row2)
	if err != nil {
		return "", err
	}
	return from + ":" + to, nil
}

// ParseCellRef splits a reference such as "B7" into column and row indices.
func ParseCellRef(ref string) (col, row int, err error) {
	i := 0
	for i < len(ref) && (ref[i] >= 'A' && ref[i] <= 'Z' || ref[i] >= 'a' && ref[i] <= 'z') {
		i++
	}
	if i == 0 || i == len(ref) {
		return 0, 0, common.InvalidArgument("invalid cell reference %q", ref)
	}

	col, err = LabelToColumn(ref[:i])
	if err != nil {
		return 0, 0, err
	}
	row, err = strconv.Atoi(ref[i:])
	if err != nil || row < 1 {
		return 0, 0, common.InvalidArgument("invalid row in cell reference %q", ref)
	}
	return col, row, nil
}

// ParseRangeRef splits "B7:C300" into its corner coordinates.
func ParseRangeRef(ref string) (col1, row1, col2, row2 int, err error) {
	from, to, ok := strings.Cut(ref, ":")
	if !ok {
		return 0, 0, 0, 0, common.InvalidArgument("invalid range reference %q", ref)
	}
	if col1, row1, err = ParseCellRef(from); err != nil {
		return 0, 0, 0, 0, err
	}
	if col2, row2, err = ParseCellRef(to); err != nil {
		return 0, 0, 0, 0, err
	}
	return col1, row1, col2, row2, nil
}

// quoteTitle prefixes an A1 reference with a sheet title, quoting as the API expects.
func quoteTitle(title, ref string) string {
	quoted := "'" + strings.ReplaceAll(title, "'", "''") + "'"
	if ref == "" {
		return quoted
	}
	return quoted + "!" + ref
}
