package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"

	sheetbridge "github.com/ideamans/go-sheetbridge"
	"github.com/ideamans/go-sheetbridge/adapters/excel"
	"github.com/ideamans/go-sheetbridge/adapters/googlesheets"
	"github.com/ideamans/go-sheetbridge/adapters/memory"
	"github.com/ideamans/go-sheetbridge/tests/common"
)

// getTestAdapters returns all adapters to test
func getTestAdapters(t *testing.T) []common.AdapterTestCase {
	// Load .env file if it exists
	_ = godotenv.Load(filepath.Join("..", "..", ".env"))

	adapters := []common.AdapterTestCase{
		{
			Name:        "Memory",
			Adapter:     memory.New("integration", "integration"),
			Description: "in-memory spreadsheet",
		},
	}

	excelFile := filepath.Join(t.TempDir(), "integration_test.xlsx")
	excelAdapter, err := excel.New(&excel.Config{FilePath: excelFile})
	if err != nil {
		t.Fatalf("Failed to create Excel adapter: %v", err)
	}
	adapters = append(adapters, common.AdapterTestCase{
		Name:        "Excel",
		Adapter:     excelAdapter,
		Description: "Excel file: " + excelFile,
	})

	spreadsheetID := os.Getenv("TEST_GOOGLE_SHEET_ID")
	jsonPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	if spreadsheetID == "" || jsonPath == "" {
		t.Log("Skipping Google Sheets: TEST_GOOGLE_SHEET_ID or GOOGLE_APPLICATION_CREDENTIALS not set")
		return adapters
	}

	if !filepath.IsAbs(jsonPath) {
		jsonPath = filepath.Join("..", "..", jsonPath)
	}

	adapter, err := googlesheets.NewWithJSONKeyFile(context.Background(), googlesheets.Config{SpreadsheetID: spreadsheetID}, jsonPath)
	if err != nil {
		t.Logf("Failed to create Google Sheets adapter: %v", err)
		return adapters
	}

	return append(adapters, common.AdapterTestCase{
		Name:        "GoogleSheets",
		Adapter:     adapter,
		Description: "Google Sheets " + spreadsheetID,
	})
}

func TestAdapterIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, tc := range getTestAdapters(t) {
		t.Run(tc.Name, func(t *testing.T) {
			t.Logf("Testing with %s", tc.Description)

			t.Run("Sheets", func(t *testing.T) {
				testSheets(t, tc.Adapter)
			})

			t.Run("Rows", func(t *testing.T) {
				testRows(t, tc.Adapter)
			})

			t.Run("Columns", func(t *testing.T) {
				testColumns(t, tc.Adapter)
			})

			t.Run("Cells", func(t *testing.T) {
				testCells(t, tc.Adapter)
			})
		})
	}
}

func testSheets(t *testing.T, adapter sheetbridge.Adapter) {
	ctx := context.Background()
	sheet := common.SheetName("hoja")
	client := common.CreateTestClient(t, adapter, sheet)

	if err := client.CreateSheet(ctx, sheet); err != nil {
		t.Fatalf("Failed to create sheet: %v", err)
	}

	found, err := client.FindSheet(ctx, sheet)
	if err != nil {
		t.Fatalf("Failed to find sheet: %v", err)
	}
	if !found {
		t.Errorf("Sheet %s not found after creation", sheet)
	}

	props, err := client.SheetProperties(ctx, sheet)
	if err != nil {
		t.Fatalf("Failed to get sheet properties: %v", err)
	}
	if props.Title != sheet {
		t.Errorf("Title = %s, want %s", props.Title, sheet)
	}

	grid, err := client.ReadSheet(ctx, sheet)
	if err != nil {
		t.Fatalf("Failed to read new sheet: %v", err)
	}
	if len(grid) != 0 {
		t.Errorf("New sheet has %d rows, want 0", len(grid))
	}
}

func testRows(t *testing.T, adapter sheetbridge.Adapter) {
	ctx := context.Background()
	sheet := common.SheetName("filas")

	header := make([]interface{}, 0, len(sheetbridge.DefaultRowLayout))
	for _, field := range sheetbridge.DefaultRowLayout {
		header = append(header, field)
	}
	common.SeedSheet(t, adapter, sheet, sheetbridge.Grid{header})

	client := common.CreateTestClient(t, adapter, sheet)

	for _, row := range []map[string]interface{}{
		{"TEMA": "t1", "ESTADO": "abierto"},
		{"TEMA": "t2", "ESTADO": "cerrado"},
		{"TEMA": "t3", "ESTADO": "abierto"},
	} {
		if _, err := client.CreateRow(ctx, sheet, row); err != nil {
			t.Fatalf("Failed to create row: %v", err)
		}
	}

	index := 2
	record, err := client.ReadRow(ctx, sheet, sheetbridge.RowQuery{Index: &index})
	if err != nil {
		t.Fatalf("Failed to read row: %v", err)
	}
	if got := record.GetAsString("TEMA", ""); got != "t2" {
		t.Errorf("TEMA = %s, want t2", got)
	}

	open := []sheetbridge.Condition{{Field: "ESTADO", Value: "abierto"}}
	records, err := client.FindRowsByConditions(ctx, sheet, open)
	if err != nil {
		t.Fatalf("Failed to find rows: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Found %d rows, want 2", len(records))
	}

	deleted, err := client.DeleteRowsByConditions(ctx, sheet, open)
	if err != nil {
		t.Fatalf("Failed to delete rows: %v", err)
	}
	if len(deleted) != 2 || deleted[0] != 3 || deleted[1] != 1 {
		t.Errorf("Deleted = %v, want [3 1]", deleted)
	}

	grid, err := client.ReadRows(ctx, sheet)
	if err != nil {
		t.Fatalf("Failed to read rows: %v", err)
	}
	records, err = grid.Records()
	if err != nil {
		t.Fatalf("Failed to map rows: %v", err)
	}
	if len(records) != 1 || records[0].GetAsString("TEMA", "") != "t2" {
		t.Errorf("Remaining rows = %v, want only t2", grid)
	}
}

func testColumns(t *testing.T, adapter sheetbridge.Adapter) {
	ctx := context.Background()
	sheet := common.SheetName("columnas")
	common.SeedSheet(t, adapter, sheet, sheetbridge.Grid{{"A", "B"}, {"1", "2"}})

	client := common.CreateTestClient(t, adapter, sheet)

	if err := client.CreateColumnAt(ctx, sheet, "X", 2); err != nil {
		t.Fatalf("Failed to create column at position: %v", err)
	}
	if err := client.CreateColumnRelative(ctx, sheet, "Y", "B", sheetbridge.After); err != nil {
		t.Fatalf("Failed to create column by reference: %v", err)
	}
	if err := client.DeleteColumn(ctx, sheet, "X"); err != nil {
		t.Fatalf("Failed to delete column: %v", err)
	}

	header, err := client.ReadHeader(ctx, sheet)
	if err != nil {
		t.Fatalf("Failed to read header: %v", err)
	}
	want := []string{"A", "B", "Y"}
	if len(header) != len(want) {
		t.Fatalf("Header = %v, want %v", header, want)
	}
	for i := range want {
		if sheetbridge.CellString(header[i]) != want[i] {
			t.Errorf("Header[%d] = %v, want %s", i, header[i], want[i])
		}
	}

	values, err := client.ReadColumn(ctx, sheet, "B")
	if err != nil {
		t.Fatalf("Failed to read column: %v", err)
	}
	if len(values) != 1 || sheetbridge.CellString(values[0]) != "2" {
		t.Errorf("Column B = %v, want [2]", values)
	}
}

func testCells(t *testing.T, adapter sheetbridge.Adapter) {
	ctx := context.Background()
	sheet := common.SheetName("celdas")
	common.SeedSheet(t, adapter, sheet, sheetbridge.Grid{{"K", "V"}, {"a", "1"}})

	client := common.CreateTestClient(t, adapter, sheet)

	if err := client.FillCell(ctx, sheet, "C2", "z"); err != nil {
		t.Fatalf("Failed to fill cell: %v", err)
	}

	value, err := client.ReadCell(ctx, sheet, "C2")
	if err != nil {
		t.Fatalf("Failed to read cell: %v", err)
	}
	if sheetbridge.CellString(value) != "z" {
		t.Errorf("C2 = %v, want z", value)
	}

	empty, err := client.ReadCell(ctx, sheet, "D9")
	if err != nil {
		t.Fatalf("Failed to read empty cell: %v", err)
	}
	if empty != nil {
		t.Errorf("D9 = %v, want nil", empty)
	}

	matches, err := client.FindCell(ctx, sheet, "z")
	if err != nil {
		t.Fatalf("Failed to find cell: %v", err)
	}
	if len(matches) != 1 || matches[0].Reference != "C2" {
		t.Errorf("Matches = %v, want [C2]", matches)
	}
}
