package bridge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	sheetbridge "github.com/ideamans/go-sheetbridge"
)

// listBinder is implemented by args that accept a bare JSON array as their list payload
type listBinder interface {
	bindList(raw json.RawMessage) error
}

// scalarBinder is implemented by args that accept a bare scalar as their primary parameter
type scalarBinder interface {
	bindScalar(raw json.RawMessage) error
}

// decodeArgs binds a command's args into dst. Objects bind by field name,
// arrays bind positionally and a scalar goes to the action's primary field.
func decodeArgs(raw json.RawMessage, dst interface{}) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	switch raw[0] {
	case '{':
		normalized, err := normalizeAliases(raw)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(normalized, dst); err != nil {
			return fmt.Errorf("%w: %v", sheetbridge.ErrInvalidArgument, err)
		}
		return nil

	case '[':
		if binder, ok := dst.(listBinder); ok {
			if err := binder.bindList(raw); err != nil {
				return fmt.Errorf("%w: %v", sheetbridge.ErrInvalidArgument, err)
			}
			return nil
		}

		items, err := positionalItems(raw)
		if err != nil {
			return fmt.Errorf("%w: %v", sheetbridge.ErrInvalidArgument, err)
		}
		if len(items) == 0 {
			return nil
		}
		binder, ok := dst.(scalarBinder)
		if !ok || len(items) != 1 {
			return fmt.Errorf("%w: action does not take a list", sheetbridge.ErrInvalidArgument)
		}
		if err := binder.bindScalar(items[0]); err != nil {
			return fmt.Errorf("%w: %v", sheetbridge.ErrInvalidArgument, err)
		}
		return nil

	default:
		binder, ok := dst.(scalarBinder)
		if !ok {
			return fmt.Errorf("%w: action does not take a single value", sheetbridge.ErrInvalidArgument)
		}
		if err := binder.bindScalar(raw); err != nil {
			return fmt.Errorf("%w: %v", sheetbridge.ErrInvalidArgument, err)
		}
		return nil
	}
}

func positionalItems(raw json.RawMessage) ([]json.RawMessage, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// bindPositional assigns array elements to targets in parameter order.
// Trailing parameters may be omitted.
func bindPositional(raw json.RawMessage, targets ...interface{}) error {
	items, err := positionalItems(raw)
	if err != nil {
		return err
	}
	if len(items) > len(targets) {
		return fmt.Errorf("expected at most %d values, got %d", len(targets), len(items))
	}

	for i, item := range items {
		if err := json.Unmarshal(item, targets[i]); err != nil {
			return err
		}
	}
	return nil
}

// listPayload unwraps a list sent as the single positional value, as in [[2,5]]
func listPayload(raw json.RawMessage) json.RawMessage {
	items, err := positionalItems(raw)
	if err != nil || len(items) != 1 {
		return raw
	}

	inner := bytes.TrimSpace(items[0])
	if len(inner) > 0 && inner[0] == '[' {
		return inner
	}
	return raw
}

// normalizeAliases copies the legacy indexFila key to index when index is absent
func normalizeAliases(raw json.RawMessage) (json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", sheetbridge.ErrInvalidArgument, err)
	}

	legacy, hasLegacy := fields["indexFila"]
	if _, hasIndex := fields["index"]; !hasLegacy || hasIndex {
		return raw, nil
	}

	fields["index"] = legacy
	return json.Marshal(fields)
}

// RowIndex is a user row index sent as a number or a numeric string
type RowIndex int

// UnmarshalJSON accepts 2, 2.0 and "2"
func (i *RowIndex) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(strings.Trim(strings.TrimSpace(string(b)), `"`))

	if n, err := strconv.Atoi(s); err == nil {
		*i = RowIndex(n)
		return nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return fmt.Errorf("invalid row index %s", string(b))
	}

	*i = RowIndex(f)
	return nil
}

// Text is a string parameter that also accepts numbers and booleans,
// stringified the way cells are compared
type Text string

// UnmarshalJSON accepts any JSON scalar
func (t *Text) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch v.(type) {
	case map[string]interface{}, []interface{}:
		return fmt.Errorf("expected a single value, got %s", string(b))
	}

	*t = Text(sheetbridge.CellString(v))
	return nil
}

// Condition is the wire form of sheetbridge.Condition
type Condition struct {
	Field Text `json:"campo"`
	Value Text `json:"valor"`
}

func toConditions(in []Condition) []sheetbridge.Condition {
	out := make([]sheetbridge.Condition, 0, len(in))
	for _, c := range in {
		out = append(out, sheetbridge.Condition{Field: string(c.Field), Value: string(c.Value)})
	}
	return out
}

func toIndices(in []RowIndex) []int {
	out := make([]int, 0, len(in))
	for _, i := range in {
		out = append(out, int(i))
	}
	return out
}

func required(name string, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", sheetbridge.ErrInvalidArgument, name)
	}
	return nil
}

// firstOf returns the first non-empty value
func firstOf(values ...Text) string {
	for _, v := range values {
		if v != "" {
			return string(v)
		}
	}
	return ""
}

func firstIndex(values ...*RowIndex) *int {
	for _, v := range values {
		if v != nil {
			i := int(*v)
			return &i
		}
	}
	return nil
}

type noArgs struct{}

type titleArgs struct {
	Title Text `json:"titulo"`
}

func (a *titleArgs) bindScalar(raw json.RawMessage) error { return json.Unmarshal(raw, &a.Title) }

type sheetNameArgs struct {
	SheetName Text `json:"nombreHoja"`
}

func (a *sheetNameArgs) bindScalar(raw json.RawMessage) error {
	return json.Unmarshal(raw, &a.SheetName)
}

// createRowArgs takes the row under "datos" or as the args object itself
type createRowArgs struct {
	Data map[string]interface{}
}

func (a *createRowArgs) UnmarshalJSON(b []byte) error {
	var wrapped struct {
		Data map[string]interface{} `json:"datos"`
	}
	if err := json.Unmarshal(b, &wrapped); err == nil && wrapped.Data != nil {
		a.Data = wrapped.Data
		return nil
	}

	return json.Unmarshal(b, &a.Data)
}

func (a *createRowArgs) bindList(raw json.RawMessage) error { return bindPositional(raw, &a.Data) }

type createRowsArgs struct {
	Rows []map[string]interface{} `json:"filas"`
}

func (a *createRowsArgs) bindList(raw json.RawMessage) error {
	return json.Unmarshal(listPayload(raw), &a.Rows)
}

type findRowArgs struct {
	Column Text `json:"columna"`
	Field  Text `json:"campo"`
	Value  Text `json:"valor"`
}

func (a *findRowArgs) bindList(raw json.RawMessage) error {
	return bindPositional(raw, &a.Column, &a.Value)
}

type conditionsArgs struct {
	Conditions []Condition `json:"condiciones"`
}

func (a *conditionsArgs) bindList(raw json.RawMessage) error {
	return json.Unmarshal(listPayload(raw), &a.Conditions)
}

type readRowArgs struct {
	Index *RowIndex `json:"index"`
	Field Text      `json:"campo"`
	Value *Text     `json:"valor"`
}

func (a *readRowArgs) bindScalar(raw json.RawMessage) error {
	a.Index = new(RowIndex)
	return json.Unmarshal(raw, a.Index)
}

// bindList takes either the options object or the index as the single value
func (a *readRowArgs) bindList(raw json.RawMessage) error {
	items, err := positionalItems(raw)
	if err != nil {
		return err
	}
	if len(items) == 1 {
		if item := bytes.TrimSpace(items[0]); len(item) > 0 && item[0] == '{' {
			return decodeArgs(item, a)
		}
	}
	return bindPositional(raw, &a.Index)
}

type indicesArgs struct {
	Indices []RowIndex `json:"indices"`
}

func (a *indicesArgs) bindList(raw json.RawMessage) error {
	return json.Unmarshal(listPayload(raw), &a.Indices)
}

type deleteRowArgs struct {
	Row   *RowIndex `json:"numeroFila"`
	Fila  *RowIndex `json:"fila"`
	Index *RowIndex `json:"index"`
}

func (a *deleteRowArgs) bindScalar(raw json.RawMessage) error {
	a.Row = new(RowIndex)
	return json.Unmarshal(raw, a.Row)
}

type mixedDeleteArgs struct {
	Indices    []RowIndex  `json:"indices"`
	Conditions []Condition `json:"condiciones"`
}

func (a *mixedDeleteArgs) bindList(raw json.RawMessage) error {
	return bindPositional(raw, &a.Indices, &a.Conditions)
}

type columnTitleArgs struct {
	Title Text `json:"tituloColumna"`
}

func (a *columnTitleArgs) bindScalar(raw json.RawMessage) error { return json.Unmarshal(raw, &a.Title) }

type columnAtArgs struct {
	Title    Text      `json:"tituloColumna"`
	Position *RowIndex `json:"posicion"`
}

func (a *columnAtArgs) bindList(raw json.RawMessage) error {
	return bindPositional(raw, &a.Title, &a.Position)
}

type columnRelativeArgs struct {
	Title     Text `json:"tituloColumna"`
	Reference Text `json:"referencia"`
	Placement Text `json:"posicionRef"`
}

func (a *columnRelativeArgs) bindList(raw json.RawMessage) error {
	return bindPositional(raw, &a.Title, &a.Reference, &a.Placement)
}

type columnArgs struct {
	Name   Text `json:"nombreColumna"`
	Column Text `json:"columna"`
}

func (a *columnArgs) bindScalar(raw json.RawMessage) error { return json.Unmarshal(raw, &a.Name) }

// cellValue keeps any JSON value and whether it was sent at all
type cellValue struct {
	value interface{}
	set   bool
}

func (v *cellValue) UnmarshalJSON(b []byte) error {
	if err := json.Unmarshal(b, &v.value); err != nil {
		return err
	}
	v.set = true
	return nil
}

type fillCellArgs struct {
	Cell  Text      `json:"celda"`
	Value cellValue `json:"valor"`
}

func (a *fillCellArgs) bindList(raw json.RawMessage) error {
	return bindPositional(raw, &a.Cell, &a.Value)
}

type cellArgs struct {
	Cell Text `json:"celda"`
}

func (a *cellArgs) bindScalar(raw json.RawMessage) error { return json.Unmarshal(raw, &a.Cell) }

type findCellArgs struct {
	Wanted Text `json:"valorBuscado"`
	Value  Text `json:"valor"`
}

func (a *findCellArgs) bindScalar(raw json.RawMessage) error { return json.Unmarshal(raw, &a.Wanted) }
