package googlesheets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	sheetbridge "github.com/ideamans/go-sheetbridge"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   []byte
}

// newTestAdaptor starts a fake Sheets API that answers with the handler's
// response and records every request it receives
func newTestAdaptor(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*SheetsAdaptor, *[]recordedRequest) {
	t.Helper()

	requests := []recordedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests = append(requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Body:   body,
		})
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	adaptor, err := NewSheetsAdaptor(context.Background(), Config{
		SpreadsheetID: "test-id",
	}, option.WithEndpoint(server.URL), option.WithoutAuthentication())
	require.NoError(t, err)

	return adaptor, &requests
}

func TestNewSheetsAdaptor_RequiresSpreadsheetID(t *testing.T) {
	_, err := NewSheetsAdaptor(context.Background(), Config{}, option.WithoutAuthentication())
	assert.ErrorIs(t, err, ErrMissingSpreadsheetID)
}

func TestSheetsAdaptor_Values(t *testing.T) {
	tests := []struct {
		name      string
		sheet     string
		ref       string
		wantPath  string
		sheetData string
		want      sheetbridge.Grid
	}{
		{
			name:     "whole sheet",
			sheet:    "TestSheet",
			wantPath: "/v4/spreadsheets/test-id/values/'TestSheet'",
			sheetData: `{
				"values": [
					["EJE", "TEMA"],
					["X", "alpha"]
				]
			}`,
			want: sheetbridge.Grid{{"EJE", "TEMA"}, {"X", "alpha"}},
		},
		{
			name:      "single cell",
			sheet:     "TestSheet",
			ref:       "C7",
			wantPath:  "/v4/spreadsheets/test-id/values/'TestSheet'!C7",
			sheetData: `{"values": [["42"]]}`,
			want:      sheetbridge.Grid{{"42"}},
		},
		{
			name:      "empty range",
			sheet:     "TestSheet",
			ref:       "Z99",
			wantPath:  "/v4/spreadsheets/test-id/values/'TestSheet'!Z99",
			sheetData: `{"range": "TestSheet!Z99"}`,
			want:      sheetbridge.Grid{},
		},
		{
			name:      "quoted sheet name",
			sheet:     "Mis Tareas",
			ref:       "A1:Z1000",
			wantPath:  "/v4/spreadsheets/test-id/values/'Mis Tareas'!A1:Z1000",
			sheetData: `{"values": [["A"]]}`,
			want:      sheetbridge.Grid{{"A"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adaptor, requests := newTestAdaptor(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.sheetData))
			})

			grid, err := adaptor.Values(context.Background(), tt.sheet, tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, grid)

			require.Len(t, *requests, 1)
			assert.Equal(t, http.MethodGet, (*requests)[0].Method)
			assert.Equal(t, tt.wantPath, (*requests)[0].Path)
		})
	}
}

func TestSheetsAdaptor_ValuesError(t *testing.T) {
	adaptor, _ := newTestAdaptor(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"code": 400, "message": "Unable to parse range: Nope"}}`))
	})

	_, err := adaptor.Values(context.Background(), "Nope", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get sheet data")
	assert.Contains(t, err.Error(), "Unable to parse range")
}

func TestSheetsAdaptor_Spreadsheet(t *testing.T) {
	adaptor, _ := newTestAdaptor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"spreadsheetId": "test-id",
			"spreadsheetUrl": "https://docs.google.com/spreadsheets/d/test-id/edit",
			"properties": {"title": "Pendientes", "locale": "es_ES"},
			"sheets": [
				{"properties": {"sheetId": 0, "title": "Tareas", "index": 0, "gridProperties": {"rowCount": 1000, "columnCount": 26}}},
				{"properties": {"sheetId": 1234, "title": "Archivo", "index": 1}}
			]
		}`))
	})

	spreadsheet, err := adaptor.Spreadsheet(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "test-id", spreadsheet.SpreadsheetID)
	assert.Equal(t, "Pendientes", spreadsheet.Title)
	assert.Equal(t, "es_ES", spreadsheet.Locale)
	assert.Equal(t, []sheetbridge.SheetProperties{
		{SheetID: 0, Title: "Tareas", Index: 0, RowCount: 1000, ColumnCount: 26},
		{SheetID: 1234, Title: "Archivo", Index: 1},
	}, spreadsheet.Sheets)
}

func TestSheetsAdaptor_Update(t *testing.T) {
	adaptor, requests := newTestAdaptor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"spreadsheetId": "test-id", "updatedCells": 2}`))
	})

	err := adaptor.Update(context.Background(), "TestSheet", "J2", sheetbridge.Grid{{"done", nil}})
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	rq := (*requests)[0]
	assert.Equal(t, http.MethodPut, rq.Method)
	assert.Equal(t, "/v4/spreadsheets/test-id/values/'TestSheet'!J2", rq.Path)
	assert.Contains(t, rq.Query, "valueInputOption=USER_ENTERED")

	var vr sheets.ValueRange
	require.NoError(t, json.Unmarshal(rq.Body, &vr))
	assert.Equal(t, [][]interface{}{{"done", ""}}, vr.Values)
}

func TestSheetsAdaptor_Append(t *testing.T) {
	adaptor, requests := newTestAdaptor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"spreadsheetId": "test-id"}`))
	})

	err := adaptor.Append(context.Background(), "TestSheet", sheetbridge.Grid{{"2024-01-01", "X"}})
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	rq := (*requests)[0]
	assert.Equal(t, http.MethodPost, rq.Method)
	assert.Equal(t, "/v4/spreadsheets/test-id/values/'TestSheet':append", rq.Path)
	assert.Contains(t, rq.Query, "valueInputOption=USER_ENTERED")
}

func TestSheetsAdaptor_DeleteDimension(t *testing.T) {
	tests := []struct {
		name      string
		sheetID   int64
		dimension sheetbridge.Dimension
		start     int64
		end       int64
	}{
		{name: "first data row of first sheet", sheetID: 0, dimension: sheetbridge.Rows, start: 1, end: 2},
		{name: "first column", sheetID: 1234, dimension: sheetbridge.Columns, start: 0, end: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adaptor, requests := newTestAdaptor(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"spreadsheetId": "test-id", "replies": [{}]}`))
			})

			err := adaptor.DeleteDimension(context.Background(), tt.sheetID, tt.dimension, tt.start, tt.end)
			require.NoError(t, err)

			require.Len(t, *requests, 1)
			rq := (*requests)[0]
			assert.Equal(t, "/v4/spreadsheets/test-id:batchUpdate", rq.Path)

			// zero values must be on the wire, not omitted
			var raw map[string][]map[string]map[string]map[string]interface{}
			require.NoError(t, json.Unmarshal(rq.Body, &raw))
			rng := raw["requests"][0]["deleteDimension"]["range"]
			assert.Equal(t, float64(tt.sheetID), rng["sheetId"])
			assert.Equal(t, string(tt.dimension), rng["dimension"])
			assert.Equal(t, float64(tt.start), rng["startIndex"])
			assert.Equal(t, float64(tt.end), rng["endIndex"])
		})
	}
}

func TestSheetsAdaptor_AddSheetAndCreate(t *testing.T) {
	adaptor, requests := newTestAdaptor(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v4/spreadsheets" {
			w.Write([]byte(`{"spreadsheetId": "new-id"}`))
			return
		}
		w.Write([]byte(`{"spreadsheetId": "test-id"}`))
	})

	ctx := context.Background()
	require.NoError(t, adaptor.AddSheet(ctx, "Archivo"))

	id, err := adaptor.CreateSpreadsheet(ctx, "Nuevo")
	require.NoError(t, err)
	assert.Equal(t, "new-id", id)

	require.Len(t, *requests, 2)

	var batch sheets.BatchUpdateSpreadsheetRequest
	require.NoError(t, json.Unmarshal((*requests)[0].Body, &batch))
	require.Len(t, batch.Requests, 1)
	assert.Equal(t, "Archivo", batch.Requests[0].AddSheet.Properties.Title)

	var created sheets.Spreadsheet
	require.NoError(t, json.Unmarshal((*requests)[1].Body, &created))
	assert.Equal(t, "Nuevo", created.Properties.Title)
}

func TestA1Range(t *testing.T) {
	tests := []struct {
		sheet, ref, want string
	}{
		{"Tareas", "", "'Tareas'"},
		{"Tareas", "A1:Z1000", "'Tareas'!A1:Z1000"},
		{"Test4Jessica", "E5", "'Test4Jessica'!E5"},
		{"Mis Tareas", "B2", "'Mis Tareas'!B2"},
		{"Bob's", "", "'Bob''s'"},
		{"Q1", "", "'Q1'"},
		{"FY2024", "A1:Z1000", "'FY2024'!A1:Z1000"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, A1Range(tt.sheet, tt.ref))
		})
	}
}
