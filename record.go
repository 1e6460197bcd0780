package sheetbridge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Record is a header-keyed view of one data row
type Record struct {
	Index  int                    // 行番号 (1 = 最初のデータ行、ヘッダーは含まない)
	Fields []string               // ヘッダー順のカラム名
	Values map[string]interface{} // カラム名と値のマップ
}

// RecordFromRow zips a header with a data row. Cells beyond the header are
// dropped and header entries beyond the row default to "".
func RecordFromRow(header []interface{}, row []interface{}) *Record {
	record := &Record{
		Fields: make([]string, 0, len(header)),
		Values: make(map[string]interface{}, len(header)),
	}

	for i, h := range header {
		var value interface{} = ""
		if i < len(row) && row[i] != nil {
			value = row[i]
		}
		record.Set(CellString(h), value)
	}

	return record
}

// Get returns the raw value of a column
func (r *Record) Get(col string) (interface{}, bool) {
	v, ok := r.Values[col]
	return v, ok
}

// GetAsString returns the value as string or defaultValue if not found
func (r *Record) GetAsString(col string, defaultValue string) string {
	v, ok := r.Values[col]
	if !ok {
		return defaultValue
	}

	return CellString(v)
}

// Set sets a value, appending the column to the field order when new
func (r *Record) Set(col string, value interface{}) {
	if r.Values == nil {
		r.Values = make(map[string]interface{})
	}
	if _, exists := r.Values[col]; !exists {
		r.Fields = append(r.Fields, col)
	}
	r.Values[col] = value
}

// MarshalJSON writes the record as an object whose keys follow the header order
func (r *Record) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer

	b.WriteByte('{')
	for i, col := range r.Fields {
		if i > 0 {
			b.WriteByte(',')
		}

		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}

		value, err := json.Marshal(r.Values[col])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal column %q: %w", col, err)
		}

		b.Write(key)
		b.WriteByte(':')
		b.Write(value)
	}
	b.WriteByte('}')

	return b.Bytes(), nil
}

// CellString stringifies a cell value the way conditions and searches compare it
func CellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int, int64:
		return fmt.Sprintf("%d", val)
	case bool:
		if val {
			return "true"
		}
		return "false"
	case []string:
		return strings.Join(val, ",")
	default:
		return fmt.Sprintf("%v", val)
	}
}
