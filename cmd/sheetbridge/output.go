package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	sheetbridge "github.com/ideamans/go-sheetbridge"
)

func printJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// render writes an operation output as a table where it has rows and as
// plain text otherwise
func render(w io.Writer, output interface{}) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	switch v := output.(type) {
	case nil:
		fmt.Fprintln(tw, "(vacío)")

	case sheetbridge.Grid:
		if len(v) == 0 {
			fmt.Fprintln(tw, "(vacío)")
		}
		for i, row := range v {
			writeRow(tw, fmt.Sprint(i), row...)
		}

	case *sheetbridge.Record:
		writeRecords(tw, []*sheetbridge.Record{v})

	case []*sheetbridge.Record:
		if len(v) == 0 {
			fmt.Fprintln(tw, "No se encontraron filas")
		}
		writeRecords(tw, v)

	case []sheetbridge.RowResult:
		for _, result := range v {
			if result.Record == nil {
				fmt.Fprintf(tw, "error\t%s\n", result.Error)
				continue
			}
			writeRecords(tw, []*sheetbridge.Record{result.Record})
		}

	case []sheetbridge.CellMatch:
		if len(v) == 0 {
			fmt.Fprintln(tw, "No se encontraron coincidencias")
			break
		}
		fmt.Fprintln(tw, "fila\tcolumna\treferencia")
		for _, match := range v {
			fmt.Fprintf(tw, "%d\t%d\t%s\n", match.Row, match.Column, match.Reference)
		}

	case []interface{}:
		if len(v) == 0 {
			fmt.Fprintln(tw, "(vacío)")
		}
		for i, value := range v {
			writeRow(tw, fmt.Sprint(i), value)
		}

	case string, bool, int, int64, float64:
		fmt.Fprintln(tw, v)

	default:
		if err := tw.Flush(); err != nil {
			return err
		}
		return printJSON(w, v)
	}

	return tw.Flush()
}

func writeRecords(w io.Writer, records []*sheetbridge.Record) {
	if len(records) == 0 {
		return
	}

	header := append([]string{"#"}, records[0].Fields...)
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for _, record := range records {
		cells := make([]interface{}, 0, len(record.Fields))
		for _, field := range record.Fields {
			cells = append(cells, record.Values[field])
		}
		writeRow(w, fmt.Sprint(record.Index), cells...)
	}
}

func writeRow(w io.Writer, label string, cells ...interface{}) {
	parts := make([]string, 0, len(cells)+1)
	parts = append(parts, label)
	for _, cell := range cells {
		parts = append(parts, sheetbridge.CellString(cell))
	}
	fmt.Fprintln(w, strings.Join(parts, "\t"))
}
