package excel

// Config holds configuration for Excel adapter
type Config struct {
	FilePath string // Path to the .xlsx workbook standing in for a spreadsheet
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.FilePath == "" {
		return ErrMissingFilePath
	}
	return nil
}
