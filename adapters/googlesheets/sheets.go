package googlesheets

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	sheetbridge "github.com/ideamans/go-sheetbridge"
)

// valueInputOption makes the API parse written values as if typed by a user
const valueInputOption = "USER_ENTERED"

// SheetsAdaptor implements the Adapter interface for Google Sheets
type SheetsAdaptor struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewSheetsAdaptor creates a new Google Sheets adaptor with provided options
func NewSheetsAdaptor(ctx context.Context, config Config, opts ...option.ClientOption) (*SheetsAdaptor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &SheetsAdaptor{
		service:       service,
		spreadsheetID: config.SpreadsheetID,
	}, nil
}

// Spreadsheet retrieves the spreadsheet metadata and its sheets
func (a *SheetsAdaptor) Spreadsheet(ctx context.Context) (*sheetbridge.Spreadsheet, error) {
	resp, err := a.service.Spreadsheets.Get(a.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	spreadsheet := &sheetbridge.Spreadsheet{
		SpreadsheetID: resp.SpreadsheetId,
		URL:           resp.SpreadsheetUrl,
		Sheets:        make([]sheetbridge.SheetProperties, 0, len(resp.Sheets)),
	}

	if resp.Properties != nil {
		spreadsheet.Title = resp.Properties.Title
		spreadsheet.Locale = resp.Properties.Locale
	}

	for _, sheet := range resp.Sheets {
		if sheet.Properties == nil {
			continue
		}

		p := sheetbridge.SheetProperties{
			SheetID: sheet.Properties.SheetId,
			Title:   sheet.Properties.Title,
			Index:   sheet.Properties.Index,
		}
		if grid := sheet.Properties.GridProperties; grid != nil {
			p.RowCount = grid.RowCount
			p.ColumnCount = grid.ColumnCount
		}

		spreadsheet.Sheets = append(spreadsheet.Sheets, p)
	}

	return spreadsheet, nil
}

// CreateSpreadsheet creates a new spreadsheet document and returns its ID
func (a *SheetsAdaptor) CreateSpreadsheet(ctx context.Context, title string) (string, error) {
	rq := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title: title,
		},
	}

	resp, err := a.service.Spreadsheets.Create(rq).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create spreadsheet: %w", err)
	}

	return resp.SpreadsheetId, nil
}

// AddSheet adds a new sheet to the spreadsheet
func (a *SheetsAdaptor) AddSheet(ctx context.Context, title string) error {
	return a.batchUpdate(ctx, &sheets.Request{
		AddSheet: &sheets.AddSheetRequest{
			Properties: &sheets.SheetProperties{
				Title: title,
			},
		},
	})
}

// Values reads the cells of a range
func (a *SheetsAdaptor) Values(ctx context.Context, sheet, ref string) (sheetbridge.Grid, error) {
	resp, err := a.service.Spreadsheets.Values.Get(a.spreadsheetID, A1Range(sheet, ref)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get sheet data: %w", err)
	}

	if len(resp.Values) == 0 {
		return sheetbridge.Grid{}, nil
	}

	return sheetbridge.Grid(resp.Values), nil
}

// Update overwrites the cells of a range starting at its top-left cell
func (a *SheetsAdaptor) Update(ctx context.Context, sheet, ref string, values sheetbridge.Grid) error {
	vr := &sheets.ValueRange{
		Values: toSheetValues(values),
	}

	_, err := a.service.Spreadsheets.Values.Update(a.spreadsheetID, A1Range(sheet, ref), vr).
		ValueInputOption(valueInputOption).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update sheet: %w", err)
	}

	return nil
}

// Append adds rows after the last row with data
func (a *SheetsAdaptor) Append(ctx context.Context, sheet string, values sheetbridge.Grid) error {
	vr := &sheets.ValueRange{
		Values: toSheetValues(values),
	}

	_, err := a.service.Spreadsheets.Values.Append(a.spreadsheetID, A1Range(sheet, ""), vr).
		ValueInputOption(valueInputOption).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append rows: %w", err)
	}

	return nil
}

// DeleteDimension removes rows or columns [start, end) of a sheet
func (a *SheetsAdaptor) DeleteDimension(ctx context.Context, sheetID int64, dimension sheetbridge.Dimension, start, end int64) error {
	return a.batchUpdate(ctx, &sheets.Request{
		DeleteDimension: &sheets.DeleteDimensionRequest{
			Range: &sheets.DimensionRange{
				SheetId:    sheetID,
				Dimension:  string(dimension),
				StartIndex: start,
				EndIndex:   end,
				// zero is a valid sheet ID and start index
				ForceSendFields: []string{"SheetId", "StartIndex"},
			},
		},
	})
}

func (a *SheetsAdaptor) batchUpdate(ctx context.Context, requests ...*sheets.Request) error {
	rq := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}

	if _, err := a.service.Spreadsheets.BatchUpdate(a.spreadsheetID, rq).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to batch update spreadsheet: %w", err)
	}

	return nil
}

// A1Range builds an A1 range for a sheet. The name is always quoted so a
// title such as "Q1" is not read as a cell reference. An empty ref
// addresses the whole sheet.
func A1Range(sheet, ref string) string {
	name := "'" + strings.ReplaceAll(sheet, "'", "''") + "'"

	if ref == "" {
		return name
	}

	return name + "!" + ref
}

// toSheetValues converts nil cells to empty strings so the API clears them
func toSheetValues(values sheetbridge.Grid) [][]interface{} {
	out := make([][]interface{}, len(values))
	for i, row := range values {
		out[i] = make([]interface{}, len(row))
		for j, v := range row {
			if v == nil {
				v = ""
			}
			out[i][j] = v
		}
	}
	return out
}
