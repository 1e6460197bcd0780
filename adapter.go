package sheetbridge

import "context"

// Dimension selects rows or columns for dimension operations
type Dimension string

const (
	Rows    Dimension = "ROWS"
	Columns Dimension = "COLUMNS"
)

// SheetProperties describes one tab of a spreadsheet
type SheetProperties struct {
	SheetID     int64  `json:"sheetId"`
	Title       string `json:"title"`
	Index       int64  `json:"index"`
	RowCount    int64  `json:"rowCount,omitempty"`
	ColumnCount int64  `json:"columnCount,omitempty"`
}

// Spreadsheet is the metadata of a spreadsheet document
type Spreadsheet struct {
	SpreadsheetID string            `json:"spreadsheetId"`
	Title         string            `json:"title"`
	Locale        string            `json:"locale,omitempty"`
	URL           string            `json:"spreadsheetUrl,omitempty"`
	Sheets        []SheetProperties `json:"sheets"`
}

// Adapter interface defines methods for interacting with different spreadsheet backends.
//
// A ref is an A1 reference inside the sheet ("C7", "A1:Z1000"); an empty ref
// addresses the whole sheet.
type Adapter interface {
	// Spreadsheet retrieves the spreadsheet metadata including its sheets
	Spreadsheet(ctx context.Context) (*Spreadsheet, error)

	// CreateSpreadsheet creates a new spreadsheet document and returns its ID
	CreateSpreadsheet(ctx context.Context, title string) (string, error)

	// AddSheet adds a new sheet to the spreadsheet
	AddSheet(ctx context.Context, title string) error

	// Values reads the cells of a range
	Values(ctx context.Context, sheet, ref string) (Grid, error)

	// Update overwrites the cells of a range starting at its top-left cell
	Update(ctx context.Context, sheet, ref string, values Grid) error

	// Append adds rows after the last row with data
	Append(ctx context.Context, sheet string, values Grid) error

	// DeleteDimension removes the rows or columns [start, end) (0-based) of a sheet
	DeleteDimension(ctx context.Context, sheetID int64, dimension Dimension, start, end int64) error
}
