// Package memory keeps a spreadsheet in process memory. It backs dry runs
// of the bridge and the tests of the packages built on sheetbridge.Adapter.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	sheetbridge "github.com/ideamans/go-sheetbridge"
)

// ErrSheetExists is returned when adding a sheet whose name is taken
var ErrSheetExists = errors.New("sheet already exists")

// Call is one mutating request received by the adapter
type Call struct {
	Method    string
	Sheet     string
	SheetID   int64
	Dimension sheetbridge.Dimension
	Start     int64
	End       int64
	Ref       string
	Values    sheetbridge.Grid
}

type sheet struct {
	id    int64
	title string
	grid  sheetbridge.Grid
}

// Adapter implements sheetbridge.Adapter over in-memory grids
type Adapter struct {
	mu      sync.Mutex
	id      string
	title   string
	sheets  []*sheet
	nextID  int64
	created []string
	calls   []Call
	errs    map[string]error
}

// New creates an empty spreadsheet
func New(id, title string) *Adapter {
	return &Adapter{
		id:    id,
		title: title,
		errs:  make(map[string]error),
	}
}

// Seed creates or replaces a sheet with rows and returns its sheet ID
func (a *Adapter) Seed(title string, rows sheetbridge.Grid) int64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	if s := a.find(title); s != nil {
		s.grid = copyGrid(rows)
		return s.id
	}

	return a.add(title, copyGrid(rows)).id
}

// Grid returns a copy of the cells of a sheet, nil when it does not exist
func (a *Adapter) Grid(title string) sheetbridge.Grid {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := a.find(title)
	if s == nil {
		return nil
	}
	return copyGrid(s.grid)
}

// Calls returns the mutating requests received so far, oldest first
func (a *Adapter) Calls() []Call {
	a.mu.Lock()
	defer a.mu.Unlock()

	return append([]Call{}, a.calls...)
}

// Created returns the IDs handed out by CreateSpreadsheet
func (a *Adapter) Created() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	return append([]string{}, a.created...)
}

// FailOn makes every later call of method return err. A nil err clears it.
func (a *Adapter) FailOn(method string, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err == nil {
		delete(a.errs, method)
		return
	}
	a.errs[method] = err
}

// Spreadsheet returns the metadata of the spreadsheet
func (a *Adapter) Spreadsheet(ctx context.Context) (*sheetbridge.Spreadsheet, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.check(ctx, "Spreadsheet"); err != nil {
		return nil, err
	}

	spreadsheet := &sheetbridge.Spreadsheet{
		SpreadsheetID: a.id,
		Title:         a.title,
		Sheets:        make([]sheetbridge.SheetProperties, 0, len(a.sheets)),
	}

	for i, s := range a.sheets {
		p := sheetbridge.SheetProperties{
			SheetID:  s.id,
			Title:    s.title,
			Index:    int64(i),
			RowCount: int64(len(s.grid)),
		}
		for _, row := range s.grid {
			if int64(len(row)) > p.ColumnCount {
				p.ColumnCount = int64(len(row))
			}
		}
		spreadsheet.Sheets = append(spreadsheet.Sheets, p)
	}

	return spreadsheet, nil
}

// CreateSpreadsheet hands out a new spreadsheet ID
func (a *Adapter) CreateSpreadsheet(ctx context.Context, title string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.check(ctx, "CreateSpreadsheet"); err != nil {
		return "", err
	}

	id := fmt.Sprintf("%s-%d", a.id, len(a.created)+1)
	a.created = append(a.created, id)
	a.calls = append(a.calls, Call{Method: "CreateSpreadsheet", Sheet: title})

	return id, nil
}

// AddSheet adds an empty sheet
func (a *Adapter) AddSheet(ctx context.Context, title string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.check(ctx, "AddSheet"); err != nil {
		return err
	}
	if a.find(title) != nil {
		return fmt.Errorf("%w: %s", ErrSheetExists, title)
	}

	s := a.add(title, sheetbridge.Grid{})
	a.calls = append(a.calls, Call{Method: "AddSheet", Sheet: title, SheetID: s.id})

	return nil
}

// Values reads the cells of a range
func (a *Adapter) Values(ctx context.Context, title, ref string) (sheetbridge.Grid, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.check(ctx, "Values"); err != nil {
		return nil, err
	}

	s, err := a.sheet(title)
	if err != nil {
		return nil, err
	}

	window, err := sheetbridge.ParseRange(ref)
	if err != nil {
		return nil, err
	}

	return copyGrid(s.grid.Window(window)), nil
}

// Update overwrites cells starting at the top-left cell of ref
func (a *Adapter) Update(ctx context.Context, title, ref string, values sheetbridge.Grid) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.check(ctx, "Update"); err != nil {
		return err
	}

	s, err := a.sheet(title)
	if err != nil {
		return err
	}

	window, err := sheetbridge.ParseRange(ref)
	if err != nil {
		return err
	}

	s.write(window.Row-1, window.Col-1, values)
	a.calls = append(a.calls, Call{Method: "Update", Sheet: title, SheetID: s.id, Ref: ref, Values: copyGrid(values)})

	return nil
}

// Append writes values below the last row
func (a *Adapter) Append(ctx context.Context, title string, values sheetbridge.Grid) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.check(ctx, "Append"); err != nil {
		return err
	}

	s, err := a.sheet(title)
	if err != nil {
		return err
	}

	s.write(len(s.grid), 0, values)
	a.calls = append(a.calls, Call{Method: "Append", Sheet: title, SheetID: s.id, Values: copyGrid(values)})

	return nil
}

// DeleteDimension removes rows or columns [start, end) of a sheet
func (a *Adapter) DeleteDimension(ctx context.Context, sheetID int64, dimension sheetbridge.Dimension, start, end int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.check(ctx, "DeleteDimension"); err != nil {
		return err
	}
	if start < 0 || end <= start {
		return fmt.Errorf("%w: dimension range [%d, %d)", sheetbridge.ErrInvalidArgument, start, end)
	}

	var s *sheet
	for _, candidate := range a.sheets {
		if candidate.id == sheetID {
			s = candidate
		}
	}
	if s == nil {
		return fmt.Errorf("%w: id %d", sheetbridge.ErrSheetNotFound, sheetID)
	}

	switch dimension {
	case sheetbridge.Rows:
		s.grid = cut(s.grid, int(start), int(end))
	case sheetbridge.Columns:
		for i, row := range s.grid {
			s.grid[i] = cut(row, int(start), int(end))
		}
	default:
		return fmt.Errorf("%w: dimension %q", sheetbridge.ErrInvalidArgument, dimension)
	}

	a.calls = append(a.calls, Call{
		Method:    "DeleteDimension",
		Sheet:     s.title,
		SheetID:   sheetID,
		Dimension: dimension,
		Start:     start,
		End:       end,
	})

	return nil
}

func (a *Adapter) check(ctx context.Context, method string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return a.errs[method]
}

func (a *Adapter) add(title string, grid sheetbridge.Grid) *sheet {
	s := &sheet{id: a.nextID, title: title, grid: grid}
	a.nextID++
	a.sheets = append(a.sheets, s)
	return s
}

func (a *Adapter) find(title string) *sheet {
	for _, s := range a.sheets {
		if s.title == title {
			return s
		}
	}
	return nil
}

func (a *Adapter) sheet(title string) (*sheet, error) {
	s := a.find(title)
	if s == nil {
		return nil, fmt.Errorf("%w: %s", sheetbridge.ErrSheetNotFound, title)
	}
	return s, nil
}

// write copies values into the grid at 0-based (row, col), growing it as needed
func (s *sheet) write(row, col int, values sheetbridge.Grid) {
	for i, cells := range values {
		for len(s.grid) <= row+i {
			s.grid = append(s.grid, []interface{}{})
		}

		target := s.grid[row+i]
		for len(target) < col+len(cells) {
			target = append(target, "")
		}
		for j, v := range cells {
			if v == nil {
				v = ""
			}
			target[col+j] = v
		}
		s.grid[row+i] = target
	}
}

func cut[T any](items []T, start, end int) []T {
	if start >= len(items) {
		return items
	}
	if end > len(items) {
		end = len(items)
	}
	return append(items[:start:start], items[end:]...)
}

func copyGrid(grid sheetbridge.Grid) sheetbridge.Grid {
	out := make(sheetbridge.Grid, len(grid))
	for i, row := range grid {
		out[i] = append([]interface{}{}, row...)
	}
	return out
}
