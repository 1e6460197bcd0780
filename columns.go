package sheetbridge

import (
	"context"
	"fmt"
	"strings"
)

// Placement positions a new column relative to a reference column
type Placement int

const (
	Before Placement = iota
	After
)

// ParsePlacement accepts "before"/"antes" and "after"/"despues"
func ParsePlacement(s string) (Placement, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "before", "antes":
		return Before, nil
	case "after", "despues", "después":
		return After, nil
	default:
		return Before, fmt.Errorf("%w: position must be 'antes' or 'despues', got %q", ErrInvalidArgument, s)
	}
}

// ReadHeader returns the header row, or an empty slice for an empty sheet
func (c *Client) ReadHeader(ctx context.Context, name string) ([]interface{}, error) {
	grid, err := c.ReadRows(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(grid) == 0 {
		return []interface{}{}, nil
	}
	return grid[0], nil
}

// FindColumn returns the 0-based header index of a column, or -1
func (c *Client) FindColumn(ctx context.Context, name, column string) (int, error) {
	grid, err := c.ReadRows(ctx, name)
	if err != nil {
		return -1, fmt.Errorf("failed to find column: %w", err)
	}
	return grid.Column(column), nil
}

// ReadColumn returns the values of one column across all data rows
func (c *Client) ReadColumn(ctx context.Context, name, column string) ([]interface{}, error) {
	grid, err := c.ReadRows(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read column: %w", err)
	}
	if len(grid) == 0 {
		return []interface{}{}, nil
	}

	values, err := grid.ColumnValues(column)
	if err != nil {
		return nil, fmt.Errorf("failed to read column: %w", err)
	}

	return values, nil
}

// CreateColumn appends a column with the given title and overwrites the sheet
func (c *Client) CreateColumn(ctx context.Context, name, title string) error {
	err := c.rewrite(ctx, name, func(grid Grid) (Grid, error) {
		return grid.AppendColumn(title)
	})
	if err != nil {
		return fmt.Errorf("failed to create column: %w", err)
	}
	return nil
}

// CreateColumnAt inserts a column at a 1-based position and overwrites the sheet
func (c *Client) CreateColumnAt(ctx context.Context, name, title string, position int) error {
	if position < 1 {
		return fmt.Errorf("failed to create column: %w: position must be greater than 0", ErrInvalidArgument)
	}

	err := c.rewrite(ctx, name, func(grid Grid) (Grid, error) {
		return grid.InsertColumn(position-1, title)
	})
	if err != nil {
		return fmt.Errorf("failed to create column at position %d: %w", position, err)
	}
	return nil
}

// CreateColumnRelative inserts a column before or after a reference column
func (c *Client) CreateColumnRelative(ctx context.Context, name, title, reference string, placement Placement) error {
	err := c.rewrite(ctx, name, func(grid Grid) (Grid, error) {
		idx := grid.Column(reference)
		if idx == -1 {
			return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, reference)
		}
		if placement == After {
			idx++
		}
		return grid.InsertColumn(idx, title)
	})
	if err != nil {
		return fmt.Errorf("failed to create column relative to %s: %w", reference, err)
	}
	return nil
}

// DeleteColumn removes the column with the given header name
func (c *Client) DeleteColumn(ctx context.Context, name, column string) error {
	if err := c.deleteColumn(ctx, name, column); err != nil {
		return fmt.Errorf("failed to delete column: %w", err)
	}
	return nil
}

func (c *Client) deleteColumn(ctx context.Context, name, column string) error {
	sheet, err := c.sheet(name)
	if err != nil {
		return err
	}

	sheetID, err := c.sheetID(ctx, sheet)
	if err != nil {
		return err
	}

	grid, err := c.load(ctx, sheet)
	if err != nil {
		return err
	}
	if len(grid) == 0 {
		return ErrEmptyGrid
	}

	idx := grid.Column(column)
	if idx == -1 {
		return fmt.Errorf("%w: %s", ErrColumnNotFound, column)
	}

	return c.adaptor.DeleteDimension(ctx, sheetID, Columns, int64(idx), int64(idx)+1)
}

// rewrite reads the whole sheet, transforms it and writes it back from A1
func (c *Client) rewrite(ctx context.Context, name string, transform func(Grid) (Grid, error)) error {
	sheet, err := c.sheet(name)
	if err != nil {
		return err
	}

	grid, err := c.load(ctx, sheet)
	if err != nil {
		return err
	}

	updated, err := transform(grid)
	if err != nil {
		return err
	}

	return c.adaptor.Update(ctx, sheet, "", updated)
}
