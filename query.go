package sheetbridge

import (
	"fmt"
	"strings"
)

// Condition represents a single equality condition on a column
type Condition struct {
	Field string `json:"campo"` // カラム名
	Value string `json:"valor"` // 比較値 (完全一致、大文字小文字を区別)
}

// matches reports whether the trimmed cell at column idx equals the condition value
func (c Condition) matches(row []interface{}, idx int) bool {
	var cell interface{}
	if idx < len(row) {
		cell = row[idx]
	}

	return strings.TrimSpace(CellString(cell)) == c.Value
}

// ValidateConditions checks that every condition names a column present in the header
func ValidateConditions(header []interface{}, conditions []Condition) ([]int, error) {
	columns := make([]int, len(conditions))

	for i, condition := range conditions {
		idx := indexOf(header, condition.Field)
		if idx == -1 {
			return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, condition.Field)
		}
		columns[i] = idx
	}

	return columns, nil
}

// matchRow evaluates all conditions as AND against a data row
func matchRow(row []interface{}, conditions []Condition, columns []int) bool {
	for i, condition := range conditions {
		if !condition.matches(row, columns[i]) {
			return false
		}
	}
	return true
}

// indexOf returns the 0-based position of name in the header or -1
func indexOf(header []interface{}, name string) int {
	for i, h := range header {
		if CellString(h) == name {
			return i
		}
	}
	return -1
}
