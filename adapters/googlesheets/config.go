package googlesheets

import "errors"

// ErrMissingSpreadsheetID is returned when the spreadsheet ID is not specified
var ErrMissingSpreadsheetID = errors.New("spreadsheet ID is required")

// Config represents configuration specific to Google Sheets adapter
type Config struct {
	SpreadsheetID string
}

// Validate checks if the configuration is valid
func (c Config) Validate() error {
	if c.SpreadsheetID == "" {
		return ErrMissingSpreadsheetID
	}
	return nil
}
