package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	sheetbridge "github.com/ideamans/go-sheetbridge"
)

// Action names one bridge operation
type Action string

// Spreadsheet and sheet actions
const (
	CreateSpreadsheet Action = "crearSheet"
	CreateSheet       Action = "crearHoja"
	FindSheet         Action = "buscarHoja"
	ReadSheet         Action = "leerHoja"
	GetSpreadsheet    Action = "obtenerSheet"
	GetSheet          Action = "obtenerHoja"
)

// Row actions
const (
	CreateRow              Action = "crearFila"
	CreateRows             Action = "crearFilas"
	ReadRows               Action = "leerFilas"
	FindRow                Action = "buscarFila"
	FindRowsByConditions   Action = "buscarFilasPorCondiciones"
	ReadRow                Action = "leerFila"
	ReadRowsByIndices      Action = "leerFilasPorIndices"
	DeleteRow              Action = "borrarFila"
	DeleteRows             Action = "borrarFilasIndices"
	DeleteRowByCondition   Action = "borrarFilaCondicion"
	DeleteRowsByConditions Action = "borrarFilasCondiciones"
	DeleteRowsMixed        Action = "borrarFilasMixto"
)

// Column actions
const (
	CreateColumn         Action = "crearColumna"
	CreateColumnAt       Action = "crearColumnaPosicion"
	CreateColumnRelative Action = "crearColumnaReferencia"
	ReadHeader           Action = "leerEncabezado"
	FindColumn           Action = "buscarColumna"
	GetColumn            Action = "obtenerColumna"
	ReadColumn           Action = "leerColumna"
	DeleteColumn         Action = "borrarColumna"
)

// Cell actions
const (
	FillCell Action = "llenarCelda"
	ReadCell Action = "leerCelda"
	FindCell Action = "buscarCelda"
)

// handler runs one action against a sheet with raw args
type handler func(ctx context.Context, c *sheetbridge.Client, sheet string, raw json.RawMessage) (interface{}, error)

// bind decodes raw args into a fresh T before calling fn
func bind[T any](fn func(ctx context.Context, c *sheetbridge.Client, sheet string, args *T) (interface{}, error)) handler {
	return func(ctx context.Context, c *sheetbridge.Client, sheet string, raw json.RawMessage) (interface{}, error) {
		args := new(T)
		if err := decodeArgs(raw, args); err != nil {
			return nil, err
		}
		return fn(ctx, c, sheet, args)
	}
}

var handlers = map[Action]handler{
	CreateSpreadsheet: bind(func(ctx context.Context, c *sheetbridge.Client, _ string, a *titleArgs) (interface{}, error) {
		id, err := c.CreateSpreadsheet(ctx, string(a.Title))
		if err != nil {
			return nil, err
		}
		return map[string]string{"spreadsheetId": id}, nil
	}),

	CreateSheet: bind(func(ctx context.Context, c *sheetbridge.Client, sheet string, a *sheetNameArgs) (interface{}, error) {
		name := firstOf(Text(sheet), a.SheetName)
		if err := c.CreateSheet(ctx, name); err != nil {
			return nil, err
		}
		return map[string]string{"hoja": name}, nil
	}),

	FindSheet: bind(func(ctx context.Context, c *sheetbridge.Client, sheet string, a *sheetNameArgs) (interface{}, error) {
		return c.FindSheet(ctx, firstOf(Text(sheet), a.SheetName, Text(c.DefaultSheet())))
	}),

	ReadSheet: bind(func(ctx context.Context, c *sheetbridge.Client, sheet string, _ *noArgs) (interface{}, error) {
		return c.ReadSheet(ctx, sheet)
	}),

	GetSpreadsheet: bind(func(ctx context.Context, c *sheetbridge.Client, _ string, _ *noArgs) (interface{}, error) {
		return c.Spreadsheet(ctx)
	}),

	GetSheet: bind(func(ctx context.Context, c *sheetbridge.Client, sheet string, a *sheetNameArgs) (interface{}, error) {
		return c.SheetProperties(ctx, firstOf(Text(sheet), a.SheetName))
	}),

	CreateRow: bind(func(ctx context.Context, c *sheetbridge.Client, sheet string, a *createRowArgs) (interface{}, error) {
		return c.CreateRow(ctx, sheet, a.Data)
	}),

	CreateRows: bind(func(ctx context.Context, c *sheetbridge.Client, sheet string, a *createRowsArgs) (interface{}, error) {
		return c.CreateRows(ctx, sheet, a.Rows), nil
	}),

	ReadRows: bind(func(ctx context.Context, c *sheetbridge.Client, sheet string, _ *noArgs) (interface{}, error) {
		return c.ReadRows(ctx, sheet)
	}),

	FindRow: bind(func(ctx context.Context, c *sheetbridge.Client, sheet string, a *findRowArgs) (interface{}, error) {
		field := firstOf(a.Column, a.Field)
		if err := required("columna", field); err != nil {
			return nil, err
		}
		record, err := c.FindRow(ctx, sheet, field, string(a.Value))
		if err != nil || record == nil {
			return nil, err
		}
		return record, nil
	}),

	FindRowsByConditions: bind(func(ctx context.Context, c *sheetbridge.Client, sheet string, a *conditionsArgs) (interface{}, error) {
		return c.FindRowsByConditions(ctx, sheet, toConditions(a.Conditions))
	}),

	ReadRow: bind(func(ctx context.Context, c *sheetbridge.Client, sheet string, a *readRowArgs) (interface{}, error) {
		query := sheetbridge.RowQuery{Index: firstIndex(a.Index), Field: string(a.Field)}
		if a.Value != nil {
			value := string(*a.Value)
			query.Value = &value
		}
		return c.ReadRow(ctx, sheet, query)
	}),

	ReadRowsByIndices: bind(func(ctx context.Context, c *sheetbridge.Client, sheet string, a *indicesArgs) (interface{}, error) {
		return c.ReadRowsByIndices(ctx, sheet, toIndices(a.Indices))
	}),

	DeleteRow: bind(func(ctx context.Context, c *sheetbridge.Client, sheet string, a *deleteRowArgs) (interface{}, error) {
		index := firstIndex(a.Row, a.Fila, a.Index)
		if index == nil {
			return nil, required("numeroFila", "")
		}
		if err := c.DeleteRow(ctx, sheet, *index); err != nil {
			return nil, err
		}
		return map[string]int{"fila": *index}, nil
	}),

	DeleteRows: bind(func(ctx context.Context, c *sheetbridge.Client, sheet string, a *indicesArgs) (interface{}, error) {
		return deleted(c.DeleteRows(ctx, sheet, toIndices(a.Indices)))
	}),

	DeleteRowByCondition: bind(func(ctx context.Context, c *sheetbridge.Client, sheet string, a *conditionsArgs) (interface{}, error) {
		index, err := c.DeleteRowByConditions(ctx, sheet, toConditions(a.Conditions))
		if err != nil {
			return nil, err
		}
		return map[string]int{"fila": index}, nil
	}),

	DeleteRowsByConditions: bind(func(ctx context.Context, c *sheetbridge.Client, sheet string, a *conditionsArgs) (interface{}, error) {
		return deleted(c.DeleteRowsByConditions(ctx, sheet, toConditions(a.Conditions)))
	}),

	DeleteRowsMixed: bind(func(ctx context.Context, c *sheetbridge.Client, sheet string, a *mixedDeleteArgs) (interface{}, error) {
		return deleted(c.DeleteRowsMixed(ctx, sheet, toIndices(a.Indices), toConditions(a.Conditions)))
	}),

	CreateColumn: bind(func(ctx context.Context, c *sheetbridge.Client, sheet string, a *columnTitleArgs) (interface{}, error) {
		if err := required("tituloColumna", string(a.Title)); err != nil {
			return nil, err
		}
		if err := c.CreateColumn(ctx, sheet, string(a.Title)); err != nil {
			return nil, err
		}
		return map[string]string{"columna": string(a.Title)}, nil
	}),

	CreateColumnAt: bind(func(ctx context.Context, c *sheetbridge.Client, sheet string, a *columnAtArgs) (interface{}, error) {
		if err := required("tituloColumna", string(a.Title)); err != nil {
			return nil, err
		}
		if a.Position == nil {
			return nil, required("posicion", "")
		}
		if err := c.CreateColumnAt(ctx, sheet, string(a.Title), int(*a.Position)); err != nil {
			return nil, err
		}
		return map[string]interface{}{"columna": string(a.Title), "posicion": int(*a.Position)}, nil
	}),

	CreateColumnRelative: bind(func(ctx context.Context, c *sheetbridge.Client, sheet string, a *columnRelativeArgs) (interface{}, error) {
		if err := required("tituloColumna", string(a.Title)); err != nil {
			return nil, err
		}
		if err := required("referencia", string(a.Reference)); err != nil {
			return nil, err
		}
		placement, err := sheetbridge.ParsePlacement(string(a.Placement))
		if err != nil {
			return nil, err
		}
		if err := c.CreateColumnRelative(ctx, sheet, string(a.Title), string(a.Reference), placement); err != nil {
			return nil, err
		}
		return map[string]string{"columna": string(a.Title)}, nil
	}),

	ReadHeader: bind(func(ctx context.Context, c *sheetbridge.Client, sheet string, _ *noArgs) (interface{}, error) {
		return c.ReadHeader(ctx, sheet)
	}),

	FindColumn: bind(func(ctx context.Context, c *sheetbridge.Client, sheet string, a *columnArgs) (interface{}, error) {
		return c.FindColumn(ctx, sheet, firstOf(a.Name, a.Column))
	}),

	GetColumn:  bind(readColumn),
	ReadColumn: bind(readColumn),

	DeleteColumn: bind(func(ctx context.Context, c *sheetbridge.Client, sheet string, a *columnArgs) (interface{}, error) {
		name := firstOf(a.Name, a.Column)
		if err := required("nombreColumna", name); err != nil {
			return nil, err
		}
		if err := c.DeleteColumn(ctx, sheet, name); err != nil {
			return nil, err
		}
		return map[string]string{"columna": name}, nil
	}),

	FillCell: bind(func(ctx context.Context, c *sheetbridge.Client, sheet string, a *fillCellArgs) (interface{}, error) {
		if err := required("celda", string(a.Cell)); err != nil {
			return nil, err
		}
		if !a.Value.set {
			return nil, required("valor", "")
		}
		if err := c.FillCell(ctx, sheet, string(a.Cell), a.Value.value); err != nil {
			return nil, err
		}
		return map[string]interface{}{"celda": string(a.Cell), "valor": a.Value.value}, nil
	}),

	ReadCell: bind(func(ctx context.Context, c *sheetbridge.Client, sheet string, a *cellArgs) (interface{}, error) {
		if err := required("celda", string(a.Cell)); err != nil {
			return nil, err
		}
		return c.ReadCell(ctx, sheet, string(a.Cell))
	}),

	FindCell: bind(func(ctx context.Context, c *sheetbridge.Client, sheet string, a *findCellArgs) (interface{}, error) {
		return c.FindCell(ctx, sheet, firstOf(a.Wanted, a.Value))
	}),
}

func readColumn(ctx context.Context, c *sheetbridge.Client, sheet string, a *columnArgs) (interface{}, error) {
	name := firstOf(a.Name, a.Column)
	if err := required("nombreColumna", name); err != nil {
		return nil, err
	}
	return c.ReadColumn(ctx, sheet, name)
}

func deleted(indices []int, err error) (interface{}, error) {
	if err != nil {
		return nil, fmt.Errorf("%w (deleted before failing: %v)", err, indices)
	}
	return map[string][]int{"borradas": indices}, nil
}

// Supported reports whether an action has a handler
func Supported(action Action) bool {
	_, ok := handlers[action]
	return ok
}

// Actions lists every supported action in name order
func Actions() []Action {
	actions := make([]Action, 0, len(handlers))
	for action := range handlers {
		actions = append(actions, action)
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i] < actions[j] })
	return actions
}
