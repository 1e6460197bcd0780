package main

import (
	"context"
	"fmt"
	"log"

	sheetbridge "github.com/ideamans/go-sheetbridge"
	"github.com/ideamans/go-sheetbridge/adapters/googlesheets"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx := context.Background()

	// Create adapter configuration
	adapterConfig := googlesheets.Config{
		SpreadsheetID: "your-spreadsheet-id",
	}

	// Initialize Google Sheets adapter with JSON key file
	adapter, err := googlesheets.NewWithJSONKeyFile(ctx, adapterConfig, "./service-account.json")
	if err != nil {
		return fmt.Errorf("failed to create adapter: %w", err)
	}

	client := sheetbridge.New(adapter, &sheetbridge.Config{DefaultSheet: "Pendientes"})

	exists, err := client.FindSheet(ctx, "Pendientes")
	if err != nil {
		return fmt.Errorf("failed to find sheet: %w", err)
	}
	if !exists {
		return fmt.Errorf("sheet Pendientes does not exist")
	}

	// Append a row in the fixed layout
	record, err := client.CreateRow(ctx, "", map[string]interface{}{
		"FECHA":  "2024-05-01",
		"TEMA":   "Revisar presupuesto",
		"ESTADO": "En proceso",
	})
	if err != nil {
		return fmt.Errorf("failed to create row: %w", err)
	}
	fmt.Printf("Added: %s\n", record.GetAsString("TEMA", ""))

	// Query rows
	results, err := client.FindRowsByConditions(ctx, "", []sheetbridge.Condition{
		{Field: "ESTADO", Value: "En proceso"},
	})
	if err != nil {
		return fmt.Errorf("failed to query: %w", err)
	}

	fmt.Printf("Found %d rows in progress:\n", len(results))
	for _, r := range results {
		fmt.Printf("  Row %d: %s\n", r.Index, r.GetAsString("TEMA", "[sin tema]"))
	}

	// Remove closed rows, highest index first
	deleted, err := client.DeleteRowsByConditions(ctx, "", []sheetbridge.Condition{
		{Field: "ESTADO", Value: "Cerrado"},
	})
	if err != nil {
		log.Printf("Failed to delete rows: %v", err)
	} else {
		fmt.Printf("Deleted rows %v\n", deleted)
	}

	return nil
}
