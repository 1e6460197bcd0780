package excel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	sheetbridge "github.com/ideamans/go-sheetbridge"
)

// Adapter implements the sheetbridge.Adapter interface over a local .xlsx file.
// Sheet IDs are the 0-based positions of the sheets in the workbook.
type Adapter struct {
	config *Config
	mu     sync.RWMutex
}

// New creates a new Excel adapter with the given configuration
func New(config *Config) (*Adapter, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	configCopy := *config

	return &Adapter{
		config: &configCopy,
	}, nil
}

// Spreadsheet lists the sheets of the workbook. A missing file has no sheets.
func (a *Adapter) Spreadsheet(ctx context.Context) (*sheetbridge.Spreadsheet, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := a.config.FilePath
	spreadsheet := &sheetbridge.Spreadsheet{
		SpreadsheetID: path,
		Title:         strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Sheets:        []sheetbridge.SheetProperties{},
	}

	f, err := a.open()
	if err != nil {
		return nil, err
	}
	if f == nil {
		return spreadsheet, nil
	}
	defer f.Close()

	for i, name := range f.GetSheetList() {
		p := sheetbridge.SheetProperties{
			SheetID: int64(i),
			Title:   name,
			Index:   int64(i),
		}

		if rows, err := f.GetRows(name); err == nil {
			p.RowCount = int64(len(rows))
			for _, row := range rows {
				if int64(len(row)) > p.ColumnCount {
					p.ColumnCount = int64(len(row))
				}
			}
		}

		spreadsheet.Sheets = append(spreadsheet.Sheets, p)
	}

	return spreadsheet, nil
}

// CreateSpreadsheet creates title.xlsx next to the configured workbook and returns its path
func (a *Adapter) CreateSpreadsheet(ctx context.Context, title string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(filepath.Dir(a.config.FilePath), title+".xlsx")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%w: %s", ErrWorkbookExists, path)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save Excel file: %w", err)
	}

	return path, nil
}

// AddSheet adds a sheet, creating the workbook when it does not exist yet
func (a *Adapter) AddSheet(ctx context.Context, title string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	f, created, err := a.openOrCreate()
	if err != nil {
		return err
	}
	defer f.Close()

	index, err := f.GetSheetIndex(title)
	if err != nil {
		return fmt.Errorf("failed to get sheet index: %w", err)
	}
	if index != -1 {
		return fmt.Errorf("%w: %s", ErrSheetExists, title)
	}

	if _, err := f.NewSheet(title); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	// a fresh workbook carries a default sheet nobody asked for
	if created {
		if defaultSheet := f.GetSheetName(0); defaultSheet != title {
			if err := f.DeleteSheet(defaultSheet); err != nil {
				return fmt.Errorf("failed to remove default sheet: %w", err)
			}
		}
	}

	return a.save(f)
}

// Values reads the cells of a range. Trailing empty rows and cells are
// trimmed, so an empty range yields an empty grid.
func (a *Adapter) Values(ctx context.Context, sheet, ref string) (sheetbridge.Grid, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := a.open()
	if err != nil {
		return nil, err
	}
	if f == nil {
		return sheetbridge.Grid{}, nil
	}
	defer f.Close()

	if err := requireSheet(f, sheet); err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	window, err := sheetbridge.ParseRange(ref)
	if err != nil {
		return nil, err
	}

	grid := make(sheetbridge.Grid, len(rows))
	for i, row := range rows {
		grid[i] = make([]interface{}, len(row))
		for j, cell := range row {
			grid[i][j] = cell
		}
	}

	return grid.Window(window), nil
}

// Update writes values starting at the top-left cell of ref (A1 when empty)
func (a *Adapter) Update(ctx context.Context, sheet, ref string, values sheetbridge.Grid) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	window, err := sheetbridge.ParseRange(ref)
	if err != nil {
		return err
	}

	f, err := a.open()
	if err != nil {
		return err
	}
	if f == nil {
		return fmt.Errorf("%w: %s", sheetbridge.ErrSheetNotFound, sheet)
	}
	defer f.Close()

	if err := requireSheet(f, sheet); err != nil {
		return err
	}

	if err := writeRows(f, sheet, window.Col, window.Row, values); err != nil {
		return err
	}

	return a.save(f)
}

// Append writes values below the last row with data
func (a *Adapter) Append(ctx context.Context, sheet string, values sheetbridge.Grid) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := a.open()
	if err != nil {
		return err
	}
	if f == nil {
		return fmt.Errorf("%w: %s", sheetbridge.ErrSheetNotFound, sheet)
	}
	defer f.Close()

	if err := requireSheet(f, sheet); err != nil {
		return err
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("failed to get rows: %w", err)
	}

	if err := writeRows(f, sheet, 1, len(rows)+1, values); err != nil {
		return err
	}

	return a.save(f)
}

// DeleteDimension removes rows or columns [start, end) of the sheet at position sheetID
func (a *Adapter) DeleteDimension(ctx context.Context, sheetID int64, dimension sheetbridge.Dimension, start, end int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if start < 0 || end <= start {
		return fmt.Errorf("%w: dimension range [%d, %d)", sheetbridge.ErrInvalidArgument, start, end)
	}

	f, err := a.open()
	if err != nil {
		return err
	}
	if f == nil {
		return fmt.Errorf("%w: id %d", sheetbridge.ErrSheetNotFound, sheetID)
	}
	defer f.Close()

	sheet := f.GetSheetName(int(sheetID))
	if sheet == "" {
		return fmt.Errorf("%w: id %d", sheetbridge.ErrSheetNotFound, sheetID)
	}

	// highest first so the remaining positions stay put
	for i := end; i > start; i-- {
		switch dimension {
		case sheetbridge.Rows:
			err = f.RemoveRow(sheet, int(i))
		case sheetbridge.Columns:
			err = f.RemoveCol(sheet, sheetbridge.ColumnName(int(i)))
		default:
			return fmt.Errorf("%w: dimension %q", sheetbridge.ErrInvalidArgument, dimension)
		}
		if err != nil {
			return fmt.Errorf("failed to remove %s %d: %w", strings.ToLower(string(dimension)), i, err)
		}
	}

	return a.save(f)
}

// open opens the workbook, returning nil when the file does not exist
func (a *Adapter) open() (*excelize.File, error) {
	if _, err := os.Stat(a.config.FilePath); os.IsNotExist(err) {
		return nil, nil
	}

	f, err := excelize.OpenFile(a.config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}

	return f, nil
}

func (a *Adapter) openOrCreate() (*excelize.File, bool, error) {
	f, err := a.open()
	if err != nil {
		return nil, false, err
	}
	if f != nil {
		return f, false, nil
	}

	if err := os.MkdirAll(filepath.Dir(a.config.FilePath), 0755); err != nil {
		return nil, false, fmt.Errorf("failed to create directory: %w", err)
	}

	return excelize.NewFile(), true, nil
}

func (a *Adapter) save(f *excelize.File) error {
	if err := f.SaveAs(a.config.FilePath); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	return nil
}

func requireSheet(f *excelize.File, sheet string) error {
	index, err := f.GetSheetIndex(sheet)
	if err != nil {
		return fmt.Errorf("failed to get sheet index: %w", err)
	}
	if index == -1 {
		return fmt.Errorf("%w: %s", sheetbridge.ErrSheetNotFound, sheet)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, col, row int, values sheetbridge.Grid) error {
	for i, rowValues := range values {
		cells := make([]interface{}, len(rowValues))
		for j, v := range rowValues {
			if v == nil {
				v = ""
			}
			cells[j] = v
		}

		cell := sheetbridge.CellName(col, row+i)
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row+i, err)
		}
	}
	return nil
}
