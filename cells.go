package sheetbridge

import (
	"context"
	"fmt"
)

// FillCell writes a single cell
func (c *Client) FillCell(ctx context.Context, name, ref string, value interface{}) error {
	sheet, err := c.sheet(name)
	if err != nil {
		return err
	}

	if _, _, err := ParseCellName(ref); err != nil {
		return fmt.Errorf("failed to fill cell: %w", err)
	}

	if err := c.adaptor.Update(ctx, sheet, ref, Grid{{value}}); err != nil {
		return fmt.Errorf("failed to fill cell %s: %w", ref, err)
	}

	return nil
}

// ReadCell reads a single cell. An empty cell yields nil, not an error.
func (c *Client) ReadCell(ctx context.Context, name, ref string) (interface{}, error) {
	sheet, err := c.sheet(name)
	if err != nil {
		return nil, err
	}

	if _, _, err := ParseCellName(ref); err != nil {
		return nil, fmt.Errorf("failed to read cell: %w", err)
	}

	grid, err := c.adaptor.Values(ctx, sheet, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to read cell %s: %w", ref, err)
	}

	if len(grid) == 0 || len(grid[0]) == 0 {
		return nil, nil
	}

	return grid[0][0], nil
}

// FindCell returns every cell of the sheet equal to value. No match yields an empty slice.
func (c *Client) FindCell(ctx context.Context, name, value string) ([]CellMatch, error) {
	grid, err := c.ReadRows(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to find cell: %w", err)
	}
	return grid.FindCell(value), nil
}
