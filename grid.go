package sheetbridge

import "fmt"

// Grid is the raw cell data of a sheet. Row 0 is the header, rows 1..N are data.
type Grid [][]interface{}

// Header returns row 0 or nil for an empty grid
func (g Grid) Header() []interface{} {
	if len(g) == 0 {
		return nil
	}
	return g[0]
}

// Records converts every data row into a Record
func (g Grid) Records() ([]*Record, error) {
	if len(g) == 0 {
		return nil, ErrEmptyGrid
	}

	records := make([]*Record, 0, len(g)-1)
	for i := 1; i < len(g); i++ {
		records = append(records, g.record(i))
	}

	return records, nil
}

// ResolveUserIndex maps a user row index (1 = first data row) to its position in the grid
func (g Grid) ResolveUserIndex(index int) (int, error) {
	if index < 1 || index > len(g)-1 {
		return 0, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	// row 0 is the header so the user index is already the raw position
	return index, nil
}

// Record returns the record at a user row index
func (g Grid) Record(index int) (*Record, error) {
	if len(g) == 0 {
		return nil, ErrEmptyGrid
	}

	raw, err := g.ResolveUserIndex(index)
	if err != nil {
		return nil, err
	}

	return g.record(raw), nil
}

// Match returns every data row where all conditions hold
func (g Grid) Match(conditions []Condition) ([]*Record, error) {
	indices, err := g.MatchIndices(conditions)
	if err != nil {
		return nil, err
	}

	records := make([]*Record, 0, len(indices))
	for _, i := range indices {
		records = append(records, g.record(i))
	}

	return records, nil
}

// MatchIndices returns the user row indices of every data row where all conditions hold
func (g Grid) MatchIndices(conditions []Condition) ([]int, error) {
	if len(g) == 0 {
		return []int{}, nil
	}

	columns, err := ValidateConditions(g[0], conditions)
	if err != nil {
		return nil, err
	}

	indices := []int{}
	for i := 1; i < len(g); i++ {
		if matchRow(g[i], conditions, columns) {
			indices = append(indices, i)
		}
	}

	return indices, nil
}

// Column returns the index of a header name or -1
func (g Grid) Column(name string) int {
	return indexOf(g.Header(), name)
}

// ColumnValues returns the cells of one column across all data rows
func (g Grid) ColumnValues(name string) ([]interface{}, error) {
	idx := g.Column(name)
	if idx == -1 {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}

	values := make([]interface{}, 0, len(g)-1)
	for i := 1; i < len(g); i++ {
		var v interface{} = ""
		if idx < len(g[i]) && g[i][idx] != nil {
			v = g[i][idx]
		}
		values = append(values, v)
	}

	return values, nil
}

// InsertColumn returns a copy of the grid with title inserted into the header
// at idx and an empty cell inserted at idx in every data row. Rows shorter than
// idx receive the cell at their end.
func (g Grid) InsertColumn(idx int, title string) (Grid, error) {
	if len(g) == 0 {
		return nil, ErrEmptyGrid
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: column position %d", ErrInvalidArgument, idx+1)
	}

	out := make(Grid, len(g))
	for i, row := range g {
		var cell interface{} = ""
		if i == 0 {
			cell = title
		}
		out[i] = insertCell(row, idx, cell)
	}

	return out, nil
}

// AppendColumn adds title at the end of the header and an empty cell to every data row
func (g Grid) AppendColumn(title string) (Grid, error) {
	if len(g) == 0 {
		return nil, ErrEmptyGrid
	}

	out := make(Grid, len(g))
	for i, row := range g {
		var cell interface{} = ""
		if i == 0 {
			cell = title
		}
		out[i] = insertCell(row, len(row), cell)
	}

	return out, nil
}

// FindCell scans every row (header included) for cells equal to value
func (g Grid) FindCell(value string) []CellMatch {
	matches := []CellMatch{}

	for i, row := range g {
		for j, cell := range row {
			if cell != nil && CellString(cell) == value {
				matches = append(matches, CellMatch{
					Row:       i + 1,
					Column:    j + 1,
					Reference: CellName(j+1, i+1),
				})
			}
		}
	}

	return matches
}

// Window cuts a range out of the grid. Trailing empty cells and rows are
// dropped the way the Sheets API omits them, so an empty range is an empty grid.
func (g Grid) Window(r Range) Grid {
	out := Grid{}

	for i := r.Row - 1; i < len(g); i++ {
		if r.LastRow > 0 && i > r.LastRow-1 {
			break
		}

		src := g[i]
		end := len(src)
		if r.LastCol > 0 && end > r.LastCol {
			end = r.LastCol
		}
		for end > r.Col-1 && isBlank(src[end-1]) {
			end--
		}

		row := []interface{}{}
		for j := r.Col - 1; j < end; j++ {
			row = append(row, src[j])
		}
		out = append(out, row)
	}

	for len(out) > 0 && len(out[len(out)-1]) == 0 {
		out = out[:len(out)-1]
	}

	return out
}

func isBlank(cell interface{}) bool {
	s, ok := cell.(string)
	return cell == nil || ok && s == ""
}

func (g Grid) record(raw int) *Record {
	record := RecordFromRow(g[0], g[raw])
	record.Index = raw
	return record
}

func insertCell(row []interface{}, idx int, cell interface{}) []interface{} {
	if idx > len(row) {
		idx = len(row)
	}

	out := make([]interface{}, 0, len(row)+1)
	out = append(out, row[:idx]...)
	out = append(out, cell)
	out = append(out, row[idx:]...)

	return out
}
