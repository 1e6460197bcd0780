package bridge

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sheetbridge "github.com/ideamans/go-sheetbridge"
)

func TestRowIndex_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    RowIndex
		wantErr bool
	}{
		{in: `2`, want: 2},
		{in: `"2"`, want: 2},
		{in: `" 7 "`, want: 7},
		{in: `3.0`, want: 3},
		{in: `2.5`, wantErr: true},
		{in: `"dos"`, wantErr: true},
		{in: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var got RowIndex
			err := json.Unmarshal([]byte(tt.in), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestText_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    Text
		wantErr bool
	}{
		{in: `"abierto"`, want: "abierto"},
		{in: `42`, want: "42"},
		{in: `1.5`, want: "1.5"},
		{in: `false`, want: "false"},
		{in: `null`, want: ""},
		{in: `[1]`, wantErr: true},
		{in: `{"a": 1}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var got Text
			err := json.Unmarshal([]byte(tt.in), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeArgs(t *testing.T) {
	t.Run("empty and null leave defaults", func(t *testing.T) {
		for _, raw := range []string{``, `null`, `  `} {
			args := &readRowArgs{}
			require.NoError(t, decodeArgs(json.RawMessage(raw), args))
			assert.Nil(t, args.Index)
		}
	})

	t.Run("object binds by name", func(t *testing.T) {
		args := &columnRelativeArgs{}
		raw := `{"posicionRef": "antes", "referencia": "EJE", "tituloColumna": "N"}`
		require.NoError(t, decodeArgs(json.RawMessage(raw), args))
		assert.Equal(t, columnRelativeArgs{Title: "N", Reference: "EJE", Placement: "antes"}, *args)
	})

	t.Run("array binds to the list payload", func(t *testing.T) {
		args := &conditionsArgs{}
		require.NoError(t, decodeArgs(json.RawMessage(`[{"campo": "EJE", "valor": 1}]`), args))
		assert.Equal(t, []sheetbridge.Condition{{Field: "EJE", Value: "1"}}, toConditions(args.Conditions))
	})

	t.Run("scalar binds to the primary parameter", func(t *testing.T) {
		args := &cellArgs{}
		require.NoError(t, decodeArgs(json.RawMessage(`"E5"`), args))
		assert.Equal(t, Text("E5"), args.Cell)
	})

	t.Run("array binds parameters in order", func(t *testing.T) {
		args := &columnRelativeArgs{}
		require.NoError(t, decodeArgs(json.RawMessage(`["N", "EJE", "antes"]`), args))
		assert.Equal(t, columnRelativeArgs{Title: "N", Reference: "EJE", Placement: "antes"}, *args)

		at := &columnAtArgs{}
		require.NoError(t, decodeArgs(json.RawMessage(`["N", "2"]`), at))
		require.NotNil(t, at.Position)
		assert.Equal(t, RowIndex(2), *at.Position)
	})

	t.Run("array with trailing parameters omitted", func(t *testing.T) {
		args := &fillCellArgs{}
		require.NoError(t, decodeArgs(json.RawMessage(`["E5"]`), args))
		assert.Equal(t, Text("E5"), args.Cell)
		assert.False(t, args.Value.set)
	})

	t.Run("array with too many values", func(t *testing.T) {
		err := decodeArgs(json.RawMessage(`["N", 2, "extra"]`), &columnAtArgs{})
		assert.ErrorIs(t, err, sheetbridge.ErrInvalidArgument)
	})

	t.Run("list wrapped as the single value", func(t *testing.T) {
		indices := &indicesArgs{}
		require.NoError(t, decodeArgs(json.RawMessage(`[[2, 5]]`), indices))
		assert.Equal(t, []int{2, 5}, toIndices(indices.Indices))

		conditions := &conditionsArgs{}
		require.NoError(t, decodeArgs(json.RawMessage(`[[{"campo": "EJE", "valor": "X"}]]`), conditions))
		assert.Equal(t, []sheetbridge.Condition{{Field: "EJE", Value: "X"}}, toConditions(conditions.Conditions))
	})

	t.Run("row options as the single value", func(t *testing.T) {
		args := &readRowArgs{}
		require.NoError(t, decodeArgs(json.RawMessage(`[{"indexFila": 3}]`), args))
		require.NotNil(t, args.Index)
		assert.Equal(t, RowIndex(3), *args.Index)

		args = &readRowArgs{}
		require.NoError(t, decodeArgs(json.RawMessage(`[4]`), args))
		assert.Equal(t, RowIndex(4), *args.Index)
	})

	t.Run("single value array for a primary parameter", func(t *testing.T) {
		args := &cellArgs{}
		require.NoError(t, decodeArgs(json.RawMessage(`["E5"]`), args))
		assert.Equal(t, Text("E5"), args.Cell)

		err := decodeArgs(json.RawMessage(`["E5", "F6"]`), &cellArgs{})
		assert.ErrorIs(t, err, sheetbridge.ErrInvalidArgument)
	})

	t.Run("array for an action without parameters", func(t *testing.T) {
		require.NoError(t, decodeArgs(json.RawMessage(`[]`), &noArgs{}))

		err := decodeArgs(json.RawMessage(`["x"]`), &noArgs{})
		assert.ErrorIs(t, err, sheetbridge.ErrInvalidArgument)
	})

	t.Run("scalar for an action without a primary parameter", func(t *testing.T) {
		err := decodeArgs(json.RawMessage(`"x"`), &fillCellArgs{})
		assert.ErrorIs(t, err, sheetbridge.ErrInvalidArgument)
	})

	t.Run("explicit null value is kept", func(t *testing.T) {
		args := &fillCellArgs{}
		require.NoError(t, decodeArgs(json.RawMessage(`{"celda": "E5", "valor": null}`), args))
		assert.True(t, args.Value.set)
		assert.Nil(t, args.Value.value)
	})

	t.Run("bad field type", func(t *testing.T) {
		err := decodeArgs(json.RawMessage(`{"indices": "1,2"}`), &indicesArgs{})
		assert.ErrorIs(t, err, sheetbridge.ErrInvalidArgument)
	})
}

func TestNormalizeAliases(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "alias copied", in: `{"indexFila": 4}`, want: `{"indexFila": 4, "index": 4}`},
		{name: "index kept", in: `{"indexFila": 4, "index": 2}`, want: `{"indexFila": 4, "index": 2}`},
		{name: "nothing to do", in: `{"campo": "EJE"}`, want: `{"campo": "EJE"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeAliases(json.RawMessage(tt.in))
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}
