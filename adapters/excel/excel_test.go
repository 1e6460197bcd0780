package excel

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	sheetbridge "github.com/ideamans/go-sheetbridge"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{name: "valid config", config: &Config{FilePath: "tareas.xlsx"}},
		{name: "missing file path", config: &Config{}, wantErr: true},
		{name: "nil config", config: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// newWorkbook creates a workbook with one sheet holding rows
func newWorkbook(t *testing.T, sheet string, rows sheetbridge.Grid) *Adapter {
	t.Helper()

	adapter, err := New(&Config{FilePath: filepath.Join(t.TempDir(), "tareas.xlsx")})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := context.Background()
	if err := adapter.AddSheet(ctx, sheet); err != nil {
		t.Fatalf("AddSheet() error = %v", err)
	}
	if len(rows) > 0 {
		if err := adapter.Update(ctx, sheet, "", rows); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
	}

	return adapter
}

func TestAdapter_MissingFile(t *testing.T) {
	adapter, _ := New(&Config{FilePath: filepath.Join(t.TempDir(), "absent.xlsx")})
	ctx := context.Background()

	grid, err := adapter.Values(ctx, "Tareas", "")
	if err != nil {
		t.Fatalf("Values() error = %v", err)
	}
	if len(grid) != 0 {
		t.Errorf("Values() = %v, want empty grid", grid)
	}

	spreadsheet, err := adapter.Spreadsheet(ctx)
	if err != nil {
		t.Fatalf("Spreadsheet() error = %v", err)
	}
	if spreadsheet.Title != "absent" || len(spreadsheet.Sheets) != 0 {
		t.Errorf("Spreadsheet() = %+v", spreadsheet)
	}

	err = adapter.Append(ctx, "Tareas", sheetbridge.Grid{{"x"}})
	if !errors.Is(err, sheetbridge.ErrSheetNotFound) {
		t.Errorf("Append() error = %v, want ErrSheetNotFound", err)
	}
}

func TestAdapter_AddSheet(t *testing.T) {
	adapter := newWorkbook(t, "Tareas", nil)
	ctx := context.Background()

	if err := adapter.AddSheet(ctx, "Archivo"); err != nil {
		t.Fatalf("AddSheet() error = %v", err)
	}
	if err := adapter.AddSheet(ctx, "Archivo"); !errors.Is(err, ErrSheetExists) {
		t.Errorf("AddSheet() duplicate error = %v, want ErrSheetExists", err)
	}

	spreadsheet, err := adapter.Spreadsheet(ctx)
	if err != nil {
		t.Fatalf("Spreadsheet() error = %v", err)
	}

	var titles []string
	for _, s := range spreadsheet.Sheets {
		titles = append(titles, s.Title)
	}
	if want := []string{"Tareas", "Archivo"}; !reflect.DeepEqual(titles, want) {
		t.Errorf("sheets = %v, want %v", titles, want)
	}
	if spreadsheet.Sheets[1].SheetID != 1 {
		t.Errorf("SheetID = %d, want 1", spreadsheet.Sheets[1].SheetID)
	}
}

func TestAdapter_Values(t *testing.T) {
	adapter := newWorkbook(t, "Tareas", sheetbridge.Grid{
		{"EJE", "TEMA", "ESTADO"},
		{"X", "alpha", "abierto"},
		{"Y", "beta"},
	})
	ctx := context.Background()

	tests := []struct {
		name string
		ref  string
		want sheetbridge.Grid
	}{
		{
			name: "whole sheet",
			want: sheetbridge.Grid{
				{"EJE", "TEMA", "ESTADO"},
				{"X", "alpha", "abierto"},
				{"Y", "beta"},
			},
		},
		{
			name: "read range",
			ref:  "A1:Z1000",
			want: sheetbridge.Grid{
				{"EJE", "TEMA", "ESTADO"},
				{"X", "alpha", "abierto"},
				{"Y", "beta"},
			},
		},
		{name: "single cell", ref: "B3", want: sheetbridge.Grid{{"beta"}}},
		{name: "empty cell", ref: "C3", want: sheetbridge.Grid{}},
		{name: "outside data", ref: "Q40", want: sheetbridge.Grid{}},
		{
			name: "window",
			ref:  "B2:C3",
			want: sheetbridge.Grid{{"alpha", "abierto"}, {"beta"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := adapter.Values(ctx, "Tareas", tt.ref)
			if err != nil {
				t.Fatalf("Values() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Values() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := adapter.Values(ctx, "Nope", ""); !errors.Is(err, sheetbridge.ErrSheetNotFound) {
		t.Errorf("Values() on missing sheet error = %v, want ErrSheetNotFound", err)
	}
	if _, err := adapter.Values(ctx, "Tareas", "7B"); !errors.Is(err, sheetbridge.ErrInvalidArgument) {
		t.Errorf("Values() bad ref error = %v, want ErrInvalidArgument", err)
	}
}

func TestAdapter_UpdateAndAppend(t *testing.T) {
	adapter := newWorkbook(t, "Tareas", sheetbridge.Grid{{"EJE", "TEMA"}, {"X", "alpha"}})
	ctx := context.Background()

	if err := adapter.Update(ctx, "Tareas", "B2", sheetbridge.Grid{{"gamma"}}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if err := adapter.Append(ctx, "Tareas", sheetbridge.Grid{{"Y", nil}, {"Z", 7}}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	got, err := adapter.Values(ctx, "Tareas", "")
	if err != nil {
		t.Fatalf("Values() error = %v", err)
	}

	want := sheetbridge.Grid{
		{"EJE", "TEMA"},
		{"X", "gamma"},
		{"Y"},
		{"Z", "7"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Values() = %v, want %v", got, want)
	}
}

func TestAdapter_DeleteDimension(t *testing.T) {
	rows := sheetbridge.Grid{
		{"EJE", "TEMA", "ESTADO"},
		{"1", "a", "x"},
		{"2", "b", "y"},
		{"3", "c", "z"},
	}
	ctx := context.Background()

	t.Run("rows", func(t *testing.T) {
		adapter := newWorkbook(t, "Tareas", rows)

		// user index 2 is spreadsheet row 3, dimension range [2, 3)
		if err := adapter.DeleteDimension(ctx, 0, sheetbridge.Rows, 2, 3); err != nil {
			t.Fatalf("DeleteDimension() error = %v", err)
		}

		got, _ := adapter.Values(ctx, "Tareas", "")
		want := sheetbridge.Grid{{"EJE", "TEMA", "ESTADO"}, {"1", "a", "x"}, {"3", "c", "z"}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Values() = %v, want %v", got, want)
		}
	})

	t.Run("columns", func(t *testing.T) {
		adapter := newWorkbook(t, "Tareas", rows)

		if err := adapter.DeleteDimension(ctx, 0, sheetbridge.Columns, 1, 2); err != nil {
			t.Fatalf("DeleteDimension() error = %v", err)
		}

		got, _ := adapter.Values(ctx, "Tareas", "")
		want := sheetbridge.Grid{{"EJE", "ESTADO"}, {"1", "x"}, {"2", "y"}, {"3", "z"}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Values() = %v, want %v", got, want)
		}
	})

	t.Run("unknown sheet id", func(t *testing.T) {
		adapter := newWorkbook(t, "Tareas", rows)

		err := adapter.DeleteDimension(ctx, 9, sheetbridge.Rows, 1, 2)
		if !errors.Is(err, sheetbridge.ErrSheetNotFound) {
			t.Errorf("DeleteDimension() error = %v, want ErrSheetNotFound", err)
		}
	})

	t.Run("empty range", func(t *testing.T) {
		adapter := newWorkbook(t, "Tareas", rows)

		err := adapter.DeleteDimension(ctx, 0, sheetbridge.Rows, 2, 2)
		if !errors.Is(err, sheetbridge.ErrInvalidArgument) {
			t.Errorf("DeleteDimension() error = %v, want ErrInvalidArgument", err)
		}
	})
}

func TestAdapter_CreateSpreadsheet(t *testing.T) {
	dir := t.TempDir()
	adapter, _ := New(&Config{FilePath: filepath.Join(dir, "tareas.xlsx")})
	ctx := context.Background()

	path, err := adapter.CreateSpreadsheet(ctx, "Nuevo")
	if err != nil {
		t.Fatalf("CreateSpreadsheet() error = %v", err)
	}
	if want := filepath.Join(dir, "Nuevo.xlsx"); path != want {
		t.Errorf("CreateSpreadsheet() = %q, want %q", path, want)
	}

	if _, err := adapter.CreateSpreadsheet(ctx, "Nuevo"); !errors.Is(err, ErrWorkbookExists) {
		t.Errorf("CreateSpreadsheet() twice error = %v, want ErrWorkbookExists", err)
	}
}

func TestAdapter_ThroughClient(t *testing.T) {
	adapter := newWorkbook(t, "Tareas", sheetbridge.Grid{
		{"EJE", "TEMA"},
		{"X", "alpha"},
		{"Y", "beta"},
		{"X", "gamma"},
	})
	client := sheetbridge.New(adapter, &sheetbridge.Config{DefaultSheet: "Tareas"})
	ctx := context.Background()

	deleted, err := client.DeleteRowsByConditions(ctx, "", []sheetbridge.Condition{{Field: "EJE", Value: "X"}})
	if err != nil {
		t.Fatalf("DeleteRowsByConditions() error = %v", err)
	}
	if want := []int{3, 1}; !reflect.DeepEqual(deleted, want) {
		t.Errorf("deleted = %v, want %v", deleted, want)
	}

	record, err := client.ReadRow(ctx, "", sheetbridge.RowQuery{Index: intPtr(1)})
	if err != nil {
		t.Fatalf("ReadRow() error = %v", err)
	}
	if got := record.GetAsString("TEMA", ""); got != "beta" {
		t.Errorf("TEMA = %q, want beta", got)
	}
}

func intPtr(i int) *int { return &i }
