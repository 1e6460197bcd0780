package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sheetbridge "github.com/ideamans/go-sheetbridge"
	"github.com/ideamans/go-sheetbridge/bridge"
)

// argsBuilder turns the flags of a command into dispatcher args
type argsBuilder func() (map[string]interface{}, error)

// operation creates a subcommand named after action. setup registers the
// flags and returns the builder of the args; nil means no args.
func (a *app) operation(action bridge.Action, short string, setup func(cmd *cobra.Command) argsBuilder) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(action),
		Short: short,
		Args:  cobra.NoArgs,
	}

	build := func() (map[string]interface{}, error) { return nil, nil }
	if setup != nil {
		build = setup(cmd)
	}

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		args, err := build()
		if err != nil {
			return err
		}

		command := bridge.Command{Action: action, Sheet: a.sheet}
		if args != nil {
			raw, err := json.Marshal(args)
			if err != nil {
				return fmt.Errorf("failed to encode args: %w", err)
			}
			command.Args = raw
		}

		return a.print(cmd.Context(), command)
	}

	return cmd
}

// print runs a command and writes its output. A failed operation is logged
// and does not change the exit status.
func (a *app) print(ctx context.Context, command bridge.Command) error {
	result := a.dispatcher.Run(ctx, command)

	if result.Status != bridge.StatusOK {
		a.log.WithFields(logrus.Fields{
			"accion": command.Action,
			"hoja":   command.Sheet,
			"status": result.Status,
		}).Error(result.Message)
		return nil
	}

	if a.asJSON {
		return printJSON(a.out, result.Output)
	}
	return render(a.out, result.Output)
}

// jsonArray validates that a flag holds a JSON array
func jsonArray(flag, value string) (json.RawMessage, error) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(strings.TrimSpace(value)), &items); err != nil || items == nil {
		return nil, fmt.Errorf("--%s must be a JSON array, e.g. --%s '[...]'", flag, flag)
	}
	return json.RawMessage(value), nil
}

func operationCommands(a *app) []*cobra.Command {
	return []*cobra.Command{
		// sheets
		a.operation(bridge.FindSheet, "Check whether a sheet exists", nil),
		a.operation(bridge.ReadSheet, "Print the raw cells of a sheet", nil),
		a.operation(bridge.GetSpreadsheet, "Print the spreadsheet metadata", nil),
		a.operation(bridge.GetSheet, "Print the metadata of a sheet", nil),
		a.operation(bridge.CreateSheet, "Add a sheet named --hoja", nil),
		a.operation(bridge.CreateSpreadsheet, "Create a spreadsheet", func(cmd *cobra.Command) argsBuilder {
			var title string
			cmd.Flags().StringVar(&title, "titulo", "", "Title of the new spreadsheet")
			_ = cmd.MarkFlagRequired("titulo")
			return func() (map[string]interface{}, error) {
				return map[string]interface{}{"titulo": title}, nil
			}
		}),

		// rows
		a.operation(bridge.CreateRow, "Append one row", createRowFlags),
		a.operation(bridge.CreateRows, "Append the rows of a JSON array", func(cmd *cobra.Command) argsBuilder {
			var rows string
			cmd.Flags().StringVar(&rows, "filas", "", `Rows as a JSON array of objects, e.g. '[{"TEMA":"x"}]'`)
			_ = cmd.MarkFlagRequired("filas")
			return func() (map[string]interface{}, error) {
				raw, err := jsonArray("filas", rows)
				if err != nil {
					return nil, err
				}
				return map[string]interface{}{"filas": raw}, nil
			}
		}),
		a.operation(bridge.ReadRows, "Print every row of the sheet", nil),
		a.operation(bridge.ReadRow, "Print one row by --index or by --campo and --valor", func(cmd *cobra.Command) argsBuilder {
			var index int
			var field, value string
			cmd.Flags().IntVar(&index, "index", 0, "Row index (1 = first data row)")
			cmd.Flags().StringVar(&field, "campo", "", "Column to match")
			cmd.Flags().StringVar(&value, "valor", "", "Value to match")
			return func() (map[string]interface{}, error) {
				args := map[string]interface{}{}
				if cmd.Flags().Changed("index") {
					args["index"] = index
				}
				if field != "" {
					args["campo"] = field
				}
				if cmd.Flags().Changed("valor") {
					args["valor"] = value
				}
				return args, nil
			}
		}),
		a.operation(bridge.FindRow, "Print the first row whose --columna equals --valor", func(cmd *cobra.Command) argsBuilder {
			var column, value string
			cmd.Flags().StringVar(&column, "columna", "", "Column to match")
			cmd.Flags().StringVar(&value, "valor", "", "Value to match")
			_ = cmd.MarkFlagRequired("columna")
			return func() (map[string]interface{}, error) {
				return map[string]interface{}{"columna": column, "valor": value}, nil
			}
		}),
		aliased(a.operation(bridge.FindRowsByConditions, "Print the rows matching every condition", conditionsFlag), "leerFilasCondiciones"),
		aliased(a.operation(bridge.ReadRowsByIndices, "Print the rows at the given indices", indicesFlag), "leerFilasIndices"),
		a.operation(bridge.DeleteRow, "Delete one row", func(cmd *cobra.Command) argsBuilder {
			var row int
			cmd.Flags().IntVar(&row, "fila", 0, "Row index to delete (1 = first data row)")
			_ = cmd.MarkFlagRequired("fila")
			return func() (map[string]interface{}, error) {
				if row <= 0 {
					return nil, fmt.Errorf("--fila must be a number greater than 0")
				}
				return map[string]interface{}{"numeroFila": row}, nil
			}
		}),
		a.operation(bridge.DeleteRows, "Delete the rows at the given indices", indicesFlag),
		a.operation(bridge.DeleteRowByCondition, "Delete the first row matching every condition", conditionsFlag),
		a.operation(bridge.DeleteRowsByConditions, "Delete every row matching every condition", conditionsFlag),
		a.operation(bridge.DeleteRowsMixed, "Delete rows by indices and by conditions", func(cmd *cobra.Command) argsBuilder {
			var indices, conditions string
			cmd.Flags().StringVar(&indices, "indices", "", `Row indices as a JSON array, e.g. "[2,5,9]"`)
			cmd.Flags().StringVar(&conditions, "condiciones", "", `Conditions as a JSON array, e.g. '[{"campo":"ESTADO","valor":"cerrado"}]'`)
			return func() (map[string]interface{}, error) {
				if indices == "" && conditions == "" {
					return nil, fmt.Errorf("at least one of --indices or --condiciones is required")
				}
				args := map[string]interface{}{}
				if indices != "" {
					raw, err := jsonArray("indices", indices)
					if err != nil {
						return nil, err
					}
					args["indices"] = raw
				}
				if conditions != "" {
					raw, err := jsonArray("condiciones", conditions)
					if err != nil {
						return nil, err
					}
					args["condiciones"] = raw
				}
				return args, nil
			}
		}),

		// columns
		a.operation(bridge.ReadHeader, "Print the header row", nil),
		a.operation(bridge.FindColumn, "Print the 0-based position of a column, -1 when missing", columnFlag),
		a.operation(bridge.ReadColumn, "Print the values of a column", columnFlag),
		a.operation(bridge.DeleteColumn, "Delete a column", columnFlag),
		a.operation(bridge.CreateColumn, "Append a column", func(cmd *cobra.Command) argsBuilder {
			title := columnTitleFlag(cmd)
			return func() (map[string]interface{}, error) {
				return map[string]interface{}{"tituloColumna": *title}, nil
			}
		}),
		a.operation(bridge.CreateColumnAt, "Insert a column at a 1-based position", func(cmd *cobra.Command) argsBuilder {
			title := columnTitleFlag(cmd)
			var position int
			cmd.Flags().IntVar(&position, "posicion", 0, "1-based position of the new column")
			_ = cmd.MarkFlagRequired("posicion")
			return func() (map[string]interface{}, error) {
				if position <= 0 {
					return nil, fmt.Errorf("--posicion must be a number greater than 0")
				}
				return map[string]interface{}{"tituloColumna": *title, "posicion": position}, nil
			}
		}),
		a.operation(bridge.CreateColumnRelative, "Insert a column before or after another", func(cmd *cobra.Command) argsBuilder {
			title := columnTitleFlag(cmd)
			var reference, placement string
			cmd.Flags().StringVar(&reference, "referencia", "", "Existing column next to the new one")
			cmd.Flags().StringVar(&placement, "posicionRef", "", `"antes" or "despues"`)
			_ = cmd.MarkFlagRequired("referencia")
			_ = cmd.MarkFlagRequired("posicionRef")
			return func() (map[string]interface{}, error) {
				if _, err := sheetbridge.ParsePlacement(placement); err != nil {
					return nil, fmt.Errorf("--posicionRef: %w", err)
				}
				return map[string]interface{}{
					"tituloColumna": *title,
					"referencia":    reference,
					"posicionRef":   placement,
				}, nil
			}
		}),

		// cells
		a.operation(bridge.ReadCell, "Print one cell", func(cmd *cobra.Command) argsBuilder {
			var cell string
			cmd.Flags().StringVar(&cell, "celda", "", "Cell reference, e.g. E5")
			_ = cmd.MarkFlagRequired("celda")
			return func() (map[string]interface{}, error) {
				return map[string]interface{}{"celda": cell}, nil
			}
		}),
		a.operation(bridge.FillCell, "Write one cell", func(cmd *cobra.Command) argsBuilder {
			var cell, value string
			cmd.Flags().StringVar(&cell, "celda", "", "Cell reference, e.g. E5")
			cmd.Flags().StringVar(&value, "valor", "", "Value to write")
			_ = cmd.MarkFlagRequired("celda")
			_ = cmd.MarkFlagRequired("valor")
			return func() (map[string]interface{}, error) {
				return map[string]interface{}{"celda": cell, "valor": value}, nil
			}
		}),
		a.operation(bridge.FindCell, "Print every cell equal to a value", func(cmd *cobra.Command) argsBuilder {
			var value string
			cmd.Flags().StringVar(&value, "valor", "", "Value to look for")
			_ = cmd.MarkFlagRequired("valor")
			return func() (map[string]interface{}, error) {
				return map[string]interface{}{"valorBuscado": value}, nil
			}
		}),
	}
}

func aliased(cmd *cobra.Command, aliases ...string) *cobra.Command {
	cmd.Aliases = append(cmd.Aliases, aliases...)
	return cmd
}

// createRowFlags registers one flag per field of the row layout
func createRowFlags(cmd *cobra.Command) argsBuilder {
	values := make(map[string]*string, len(sheetbridge.DefaultRowLayout))
	for _, field := range sheetbridge.DefaultRowLayout {
		values[field] = cmd.Flags().String(field, "", "Value of "+field)
	}

	return func() (map[string]interface{}, error) {
		data := make(map[string]interface{}, len(values))
		for field, value := range values {
			data[field] = *value
		}
		return map[string]interface{}{"datos": data}, nil
	}
}

func conditionsFlag(cmd *cobra.Command) argsBuilder {
	var conditions string
	cmd.Flags().StringVar(&conditions, "condiciones", "", `Conditions as a JSON array, e.g. '[{"campo":"ESTADO","valor":"cerrado"}]'`)
	_ = cmd.MarkFlagRequired("condiciones")
	return func() (map[string]interface{}, error) {
		raw, err := jsonArray("condiciones", conditions)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"condiciones": raw}, nil
	}
}

func indicesFlag(cmd *cobra.Command) argsBuilder {
	var indices string
	cmd.Flags().StringVar(&indices, "indices", "", `Row indices as a JSON array, e.g. "[2,5,9]"`)
	_ = cmd.MarkFlagRequired("indices")
	return func() (map[string]interface{}, error) {
		raw, err := jsonArray("indices", indices)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"indices": raw}, nil
	}
}

func columnFlag(cmd *cobra.Command) argsBuilder {
	var column string
	cmd.Flags().StringVar(&column, "columna", "", "Exact header of the column")
	_ = cmd.MarkFlagRequired("columna")
	return func() (map[string]interface{}, error) {
		return map[string]interface{}{"nombreColumna": column}, nil
	}
}

func columnTitleFlag(cmd *cobra.Command) *string {
	title := cmd.Flags().String("tituloColumna", "", "Header of the new column")
	_ = cmd.MarkFlagRequired("tituloColumna")
	return title
}
