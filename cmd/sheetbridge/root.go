package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ideamans/go-sheetbridge/bridge"
)

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "sheetbridge <hoja>",
		Short: "Row, column and cell operations over a spreadsheet",
		Long: `sheetbridge reads and edits a spreadsheet as header-keyed records.

Called with a sheet name it checks that the sheet exists and prints it.
Each subcommand runs one operation; "serve" starts the HTTP bridge.

Examples:
  sheetbridge Pendientes
  sheetbridge leerCelda --celda A2
  sheetbridge leerFila --index 2
  sheetbridge borrarFilasIndices --indices "[2,5,9]"
  sheetbridge serve`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			return a.connect(cmd.Context())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dumpSheet(cmd, args[0])
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	flags := root.PersistentFlags()
	flags.StringSliceVar(&a.envFiles, "env", nil, "Env files to load (default: baul.env, .env)")
	flags.StringVar(&a.backend, "backend", "", "Spreadsheet backend: googlesheets, excel, memory (default: SHEETBRIDGE_BACKEND)")
	flags.StringVar(&a.sheet, "hoja", "", "Sheet to operate on (default: DEFAULT_SHEET)")
	flags.BoolVar(&a.debug, "debug", false, "Enable debug logging")
	flags.BoolVar(&a.asJSON, "json", false, "Print results as JSON")

	root.AddCommand(newServeCommand(a))
	root.AddCommand(newSendCommand(a))
	root.AddCommand(operationCommands(a)...)

	return root
}

// dumpSheet checks a sheet by name and prints its raw contents
func (a *app) dumpSheet(cmd *cobra.Command, sheet string) error {
	log := a.log.WithField("hoja", sheet)
	log.Info("looking for sheet")

	found := a.dispatcher.Run(cmd.Context(), bridge.Command{Action: bridge.FindSheet, Sheet: sheet})
	if found.Status != bridge.StatusOK {
		log.Error(found.Message)
		return nil
	}
	if exists, _ := found.Output.(bool); !exists {
		fmt.Fprintf(a.out, "La hoja %q NO existe\n", sheet)
		return nil
	}
	fmt.Fprintf(a.out, "La hoja %q existe\n", sheet)

	return a.print(cmd.Context(), bridge.Command{Action: bridge.ReadSheet, Sheet: sheet})
}
