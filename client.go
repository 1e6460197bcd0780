package sheetbridge

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Client exposes row, column and cell operations over a single spreadsheet.
// It holds no sheet state: every operation reads the sheet again.
type Client struct {
	config  Config
	adaptor Adapter
	log     logrus.FieldLogger
}

// New creates a new client with the given adapter and configuration
func New(adapter Adapter, config *Config) *Client {
	c := config.withDefaults()

	return &Client{
		config:  c,
		adaptor: adapter,
		log:     c.Logger,
	}
}

// DefaultSheet returns the sheet used when an operation gets an empty name
func (c *Client) DefaultSheet() string {
	return c.config.DefaultSheet
}

func (c *Client) sheet(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		name = c.config.DefaultSheet
	}
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%w: sheet name is required", ErrInvalidArgument)
	}
	return name, nil
}

// Spreadsheet returns the spreadsheet metadata
func (c *Client) Spreadsheet(ctx context.Context) (*Spreadsheet, error) {
	spreadsheet, err := c.adaptor.Spreadsheet(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get spreadsheet metadata: %w", err)
	}
	return spreadsheet, nil
}

// FindSheet reports whether a sheet exists, ignoring case and surrounding whitespace
func (c *Client) FindSheet(ctx context.Context, name string) (bool, error) {
	spreadsheet, err := c.Spreadsheet(ctx)
	if err != nil {
		return false, err
	}

	titles := make([]string, 0, len(spreadsheet.Sheets))
	found := false
	for _, sheet := range spreadsheet.Sheets {
		titles = append(titles, sheet.Title)
		if strings.EqualFold(strings.TrimSpace(sheet.Title), strings.TrimSpace(name)) {
			found = true
		}
	}

	c.log.WithFields(logrus.Fields{
		"sheet":     name,
		"available": strings.Join(titles, ", "),
		"found":     found,
	}).Debug("sheet lookup")

	return found, nil
}

// SheetProperties returns the metadata of the sheet whose title matches exactly
func (c *Client) SheetProperties(ctx context.Context, name string) (*SheetProperties, error) {
	sheet, err := c.sheet(name)
	if err != nil {
		return nil, err
	}

	spreadsheet, err := c.Spreadsheet(ctx)
	if err != nil {
		return nil, err
	}

	for i := range spreadsheet.Sheets {
		if spreadsheet.Sheets[i].Title == sheet {
			return &spreadsheet.Sheets[i], nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
}

// CreateSpreadsheet creates a new spreadsheet document and returns its ID
func (c *Client) CreateSpreadsheet(ctx context.Context, title string) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", fmt.Errorf("%w: spreadsheet title is required", ErrInvalidArgument)
	}

	id, err := c.adaptor.CreateSpreadsheet(ctx, title)
	if err != nil {
		return "", fmt.Errorf("failed to create spreadsheet: %w", err)
	}

	return id, nil
}

// CreateSheet adds a new sheet to the spreadsheet
func (c *Client) CreateSheet(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: sheet name is required", ErrInvalidArgument)
	}

	if err := c.adaptor.AddSheet(ctx, name); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	return nil
}

// ReadSheet returns the raw cells of the configured read range
func (c *Client) ReadSheet(ctx context.Context, name string) (Grid, error) {
	sheet, err := c.sheet(name)
	if err != nil {
		return nil, err
	}

	grid, err := c.adaptor.Values(ctx, sheet, c.config.ReadRange)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}

	return nonNil(grid), nil
}

// load reads the whole sheet
func (c *Client) load(ctx context.Context, sheet string) (Grid, error) {
	grid, err := c.adaptor.Values(ctx, sheet, "")
	if err != nil {
		return nil, err
	}
	return nonNil(grid), nil
}

// sheetID resolves the numeric ID of a sheet by exact title
func (c *Client) sheetID(ctx context.Context, sheet string) (int64, error) {
	properties, err := c.SheetProperties(ctx, sheet)
	if err != nil {
		return 0, err
	}
	return properties.SheetID, nil
}

func nonNil(grid Grid) Grid {
	if grid == nil {
		return Grid{}
	}
	return grid
}
