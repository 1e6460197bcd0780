// Command sheetbridge runs row, column and cell operations against a
// spreadsheet, either directly or as the HTTP bridge.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand(newApp(os.Stdout, os.Stderr)).Execute(); err != nil {
		os.Exit(1)
	}
}
