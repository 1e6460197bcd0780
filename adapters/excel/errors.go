package excel

import "errors"

var (
	// ErrMissingFilePath is returned when file path is not specified
	ErrMissingFilePath = errors.New("file path is required")

	// ErrSheetExists is returned when adding a sheet whose name is taken
	ErrSheetExists = errors.New("sheet already exists")

	// ErrWorkbookExists is returned when creating a workbook over an existing file
	ErrWorkbookExists = errors.New("workbook already exists")
)
