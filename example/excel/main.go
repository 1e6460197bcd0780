package main

import (
	"context"
	"fmt"
	"log"

	sheetbridge "github.com/ideamans/go-sheetbridge"
	"github.com/ideamans/go-sheetbridge/adapters/excel"
)

func main() {
	// Excel adapter configuration
	adapterConfig := &excel.Config{
		FilePath: "./example_data.xlsx",
	}

	// Create Excel adapter (no authentication required)
	adapter, err := excel.New(adapterConfig)
	if err != nil {
		log.Fatalf("Failed to create Excel adapter: %v", err)
	}

	ctx := context.Background()
	client := sheetbridge.New(adapter, &sheetbridge.Config{DefaultSheet: "tareas"})

	exists, err := client.FindSheet(ctx, "tareas")
	if err != nil {
		log.Fatalf("Failed to look for sheet: %v", err)
	}
	if !exists {
		if err := client.CreateSheet(ctx, "tareas"); err != nil {
			log.Fatalf("Failed to create sheet: %v", err)
		}
		header := make([]interface{}, 0, len(sheetbridge.DefaultRowLayout))
		for _, field := range sheetbridge.DefaultRowLayout {
			header = append(header, field)
		}
		if err := adapter.Update(ctx, "tareas", "A1", sheetbridge.Grid{header}); err != nil {
			log.Fatalf("Failed to write header: %v", err)
		}
	}

	// 1. Add some rows
	fmt.Println("Adding rows...")
	results := client.CreateRows(ctx, "", []map[string]interface{}{
		{"EJE": "Operaciones", "TEMA": "Inventario", "ESTADO": "Abierto", "PRIORIDAD": "Alta"},
		{"EJE": "Finanzas", "TEMA": "Cierre mensual", "ESTADO": "En proceso", "PRIORIDAD": "Media"},
		{"EJE": "Operaciones", "TEMA": "Proveedores", "ESTADO": "Abierto", "PRIORIDAD": "Baja"},
	})
	for _, r := range results {
		if r.Error != "" {
			log.Printf("Row failed: %s", r.Error)
		}
	}

	// 2. Read by index and by field
	first := 1
	record, err := client.ReadRow(ctx, "", sheetbridge.RowQuery{Index: &first})
	if err != nil {
		log.Fatalf("Failed to read row: %v", err)
	}
	fmt.Printf("Row 1: %s\n", record.GetAsString("TEMA", ""))

	// 3. Insert a column after ESTADO and fill one cell
	if err := client.CreateColumnRelative(ctx, "", "RESPONSABLE", "ESTADO", sheetbridge.After); err != nil {
		log.Fatalf("Failed to create column: %v", err)
	}

	column, err := client.FindColumn(ctx, "", "RESPONSABLE")
	if err != nil {
		log.Fatalf("Failed to find column: %v", err)
	}
	ref := sheetbridge.CellName(column+1, 2)
	if err := client.FillCell(ctx, "", ref, "Ana"); err != nil {
		log.Fatalf("Failed to fill %s: %v", ref, err)
	}

	// 4. Find cells and rows
	matches, err := client.FindCell(ctx, "", "Abierto")
	if err != nil {
		log.Fatalf("Failed to find cells: %v", err)
	}
	for _, m := range matches {
		fmt.Printf("  'Abierto' at %s\n", m.Reference)
	}

	// 5. Delete the open operations rows
	deleted, err := client.DeleteRowsMixed(ctx, "", nil, []sheetbridge.Condition{
		{Field: "EJE", Value: "Operaciones"},
		{Field: "ESTADO", Value: "Abierto"},
	})
	if err != nil {
		log.Fatalf("Failed to delete rows: %v", err)
	}
	fmt.Printf("Deleted rows %v\n", deleted)

	header, err := client.ReadHeader(ctx, "")
	if err != nil {
		log.Fatalf("Failed to read header: %v", err)
	}
	fmt.Printf("Header: %v\n", header)
}
