package sheetbridge

import (
	"fmt"
	"strconv"
	"strings"
)

// CellMatch is one hit of a cell search, 1-based
type CellMatch struct {
	Row       int    `json:"fila"`
	Column    int    `json:"columna"`
	Reference string `json:"referencia"`
}

// ColumnName converts a column number to its letters (1 -> A, 26 -> Z, 27 -> AA).
// There is no zero digit: after Z comes AA.
func ColumnName(col int) string {
	result := ""
	for col > 0 {
		rem := (col - 1) % 26
		result = string(rune('A'+rem)) + result
		col = (col - 1) / 26
	}
	return result
}

// ColumnNumber converts column letters back to a 1-based column number
func ColumnNumber(name string) (int, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return 0, fmt.Errorf("%w: empty column name", ErrInvalidArgument)
	}

	n := 0
	for _, ch := range name {
		if ch < 'A' || ch > 'Z' {
			return 0, fmt.Errorf("%w: invalid column name %q", ErrInvalidArgument, name)
		}
		n = n*26 + int(ch-'A'+1)
	}

	return n, nil
}

// CellName builds an A1 reference from 1-based column and row numbers
func CellName(col, row int) string {
	return ColumnName(col) + strconv.Itoa(row)
}

// ParseCellName splits an A1 reference ("C7") into 1-based column and row numbers
func ParseCellName(ref string) (int, int, error) {
	ref = strings.ToUpper(strings.TrimSpace(strings.ReplaceAll(ref, "$", "")))

	split := strings.IndexFunc(ref, func(r rune) bool { return r >= '0' && r <= '9' })
	if split <= 0 {
		return 0, 0, fmt.Errorf("%w: invalid cell reference %q", ErrInvalidArgument, ref)
	}

	col, err := ColumnNumber(ref[:split])
	if err != nil {
		return 0, 0, err
	}

	row, err := strconv.Atoi(ref[split:])
	if err != nil || row < 1 {
		return 0, 0, fmt.Errorf("%w: invalid cell reference %q", ErrInvalidArgument, ref)
	}

	return col, row, nil
}

// Range is a 1-based inclusive block of cells. Zero last bounds are open ended.
type Range struct {
	Col, Row         int
	LastCol, LastRow int
}

// ParseRange reads "" (the whole sheet), "C7" or "A1:Z1000"
func ParseRange(ref string) (Range, error) {
	if strings.TrimSpace(ref) == "" {
		return Range{Col: 1, Row: 1}, nil
	}

	from, to, isRange := strings.Cut(ref, ":")

	col, row, err := ParseCellName(from)
	if err != nil {
		return Range{}, err
	}
	if !isRange {
		return Range{Col: col, Row: row, LastCol: col, LastRow: row}, nil
	}

	lastCol, lastRow, err := ParseCellName(to)
	if err != nil {
		return Range{}, err
	}
	if lastCol < col {
		col, lastCol = lastCol, col
	}
	if lastRow < row {
		row, lastRow = lastRow, row
	}

	return Range{Col: col, Row: row, LastCol: lastCol, LastRow: lastRow}, nil
}
