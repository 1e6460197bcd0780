package sheetbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

// RowQuery selects one row either by user index or by a field value
type RowQuery struct {
	Index *int    // 1 = first data row
	Field string  // column name, used with Value
	Value *string // exact value after trimming the cell
}

// RowResult is one item of a multi-row result: a record or an inline error
type RowResult struct {
	Record *Record
	Error  string
}

// MarshalJSON writes the record, or {"error": ...} when the item failed
func (r RowResult) MarshalJSON() ([]byte, error) {
	if r.Error != "" || r.Record == nil {
		return json.Marshal(map[string]string{"error": r.Error})
	}
	return r.Record.MarshalJSON()
}

// CreateRow appends one row built from the configured row layout.
// Fields missing from values are written as empty cells.
func (c *Client) CreateRow(ctx context.Context, name string, values map[string]interface{}) (*Record, error) {
	sheet, err := c.sheet(name)
	if err != nil {
		return nil, err
	}

	record := &Record{}
	row := make([]interface{}, len(c.config.RowLayout))
	for i, col := range c.config.RowLayout {
		v, ok := values[col]
		if !ok || v == nil {
			v = ""
		}
		row[i] = v
		record.Set(col, v)
	}

	if err := c.adaptor.Append(ctx, sheet, Grid{row}); err != nil {
		return nil, fmt.Errorf("failed to create row: %w", err)
	}

	return record, nil
}

// CreateRows appends rows one at a time. A failing row does not stop the others.
func (c *Client) CreateRows(ctx context.Context, name string, rows []map[string]interface{}) []RowResult {
	results := make([]RowResult, 0, len(rows))

	for i, values := range rows {
		record, err := c.CreateRow(ctx, name, values)
		if err != nil {
			c.log.WithError(err).WithField("row", i).Warn("row not created")
			results = append(results, RowResult{Error: err.Error()})
			continue
		}
		results = append(results, RowResult{Record: record})
	}

	return results
}

// ReadRows returns all cells of the sheet, header included
func (c *Client) ReadRows(ctx context.Context, name string) (Grid, error) {
	sheet, err := c.sheet(name)
	if err != nil {
		return nil, err
	}

	grid, err := c.load(ctx, sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return grid, nil
}

// ReadRow returns one record by index or the first record whose field matches.
// The index takes precedence when both are given.
func (c *Client) ReadRow(ctx context.Context, name string, query RowQuery) (*Record, error) {
	record, err := c.readRow(ctx, name, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}
	return record, nil
}

func (c *Client) readRow(ctx context.Context, name string, query RowQuery) (*Record, error) {
	grid, err := c.ReadRows(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(grid) == 0 {
		return nil, ErrEmptyGrid
	}

	switch {
	case query.Index != nil:
		return grid.Record(*query.Index)

	case query.Field != "" && query.Value != nil:
		indices, err := grid.MatchIndices([]Condition{{Field: query.Field, Value: *query.Value}})
		if err != nil {
			return nil, err
		}
		if len(indices) == 0 {
			return nil, fmt.Errorf("%w: %s = %q", ErrNoMatch, query.Field, *query.Value)
		}
		return grid.Record(indices[0])

	default:
		return nil, ErrMissingCriteria
	}
}

// FindRow returns the first record whose field equals value, or nil when nothing matches
func (c *Client) FindRow(ctx context.Context, name, field, value string) (*Record, error) {
	records, err := c.FindRowsByConditions(ctx, name, []Condition{{Field: field, Value: value}})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

// ReadRowsByIndices returns one item per requested index. Out of range
// indices produce an inline error instead of failing the whole call.
func (c *Client) ReadRowsByIndices(ctx context.Context, name string, indices []int) ([]RowResult, error) {
	grid, err := c.ReadRows(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows by indices: %w", err)
	}
	if len(grid) == 0 {
		return nil, fmt.Errorf("failed to read rows by indices: %w", ErrEmptyGrid)
	}

	results := make([]RowResult, 0, len(indices))
	for _, index := range indices {
		record, err := grid.Record(index)
		if err != nil {
			results = append(results, RowResult{Error: err.Error()})
			continue
		}
		results = append(results, RowResult{Record: record})
	}

	return results, nil
}

// FindRowsByConditions returns every record matching all conditions
func (c *Client) FindRowsByConditions(ctx context.Context, name string, conditions []Condition) ([]*Record, error) {
	grid, err := c.ReadRows(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to find rows by conditions: %w", err)
	}

	records, err := grid.Match(conditions)
	if err != nil {
		return nil, fmt.Errorf("failed to find rows by conditions: %w", err)
	}

	return records, nil
}

// DeleteRow removes the data row at a user index. The spreadsheet row number
// is index+1 because the header occupies row 1, so the 0-based dimension range
// is [index, index+1): the same row ReadRow returns for that index.
func (c *Client) DeleteRow(ctx context.Context, name string, index int) error {
	if err := c.deleteRow(ctx, name, index); err != nil {
		return fmt.Errorf("failed to delete row: %w", err)
	}
	return nil
}

func (c *Client) deleteRow(ctx context.Context, name string, index int) error {
	if index < 1 {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	sheet, err := c.sheet(name)
	if err != nil {
		return err
	}

	sheetID, err := c.sheetID(ctx, sheet)
	if err != nil {
		return err
	}

	row := int64(index) + 1
	return c.adaptor.DeleteDimension(ctx, sheetID, Rows, row-1, row)
}

// DeleteRows removes several rows by user index. Indices are deleted from the
// highest down so earlier deletions do not shift the rows still pending.
// Repeated and invalid indices are skipped; the first remote failure stops
// the batch.
func (c *Client) DeleteRows(ctx context.Context, name string, indices []int) ([]int, error) {
	deleted := []int{}

	for _, index := range descending(unique(indices)) {
		if index < 1 {
			c.log.WithField("index", index).Warn("invalid row index skipped")
			continue
		}

		if err := c.DeleteRow(ctx, name, index); err != nil {
			return deleted, err
		}

		c.log.WithFields(logrus.Fields{"sheet": name, "index": index}).Info("row deleted")
		deleted = append(deleted, index)
	}

	return deleted, nil
}

// DeleteRowByConditions removes the first row matching all conditions. It
// returns the deleted index, or 0 when no row matched.
func (c *Client) DeleteRowByConditions(ctx context.Context, name string, conditions []Condition) (int, error) {
	indices, err := c.matchIndices(ctx, name, conditions)
	if err != nil {
		return 0, fmt.Errorf("failed to delete row by conditions: %w", err)
	}
	if len(indices) == 0 {
		return 0, nil
	}

	if err := c.DeleteRow(ctx, name, indices[0]); err != nil {
		return 0, err
	}

	return indices[0], nil
}

// DeleteRowsByConditions removes every row matching all conditions
func (c *Client) DeleteRowsByConditions(ctx context.Context, name string, conditions []Condition) ([]int, error) {
	indices, err := c.matchIndices(ctx, name, conditions)
	if err != nil {
		return nil, fmt.Errorf("failed to delete rows by conditions: %w", err)
	}

	return c.DeleteRows(ctx, name, indices)
}

// DeleteRowsMixed removes the union of explicit indices and rows matching the
// conditions, each row once.
func (c *Client) DeleteRowsMixed(ctx context.Context, name string, indices []int, conditions []Condition) ([]int, error) {
	all := append([]int{}, indices...)

	if len(conditions) > 0 {
		matched, err := c.matchIndices(ctx, name, conditions)
		if err != nil {
			return nil, fmt.Errorf("failed to delete rows: %w", err)
		}
		all = append(all, matched...)
	}

	return c.DeleteRows(ctx, name, unique(all))
}

func (c *Client) matchIndices(ctx context.Context, name string, conditions []Condition) ([]int, error) {
	grid, err := c.ReadRows(ctx, name)
	if err != nil {
		return nil, err
	}
	return grid.MatchIndices(conditions)
}

// descending returns a sorted copy, highest index first
func descending(indices []int) []int {
	sorted := append([]int{}, indices...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	return sorted
}

func unique(indices []int) []int {
	seen := make(map[int]bool, len(indices))
	out := make([]int, 0, len(indices))
	for _, i := range indices {
		if !seen[i] {
			seen[i] = true
			out = append(out, i)
		}
	}
	return out
}
