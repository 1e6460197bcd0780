package sheetbridge

import "errors"

var (
	ErrColumnNotFound  = errors.New("column not found")
	ErrIndexOutOfRange = errors.New("row index out of range (1 = first data row)")
	ErrNoMatch         = errors.New("no row matches")
	ErrMissingCriteria = errors.New("either index or field and value must be given")
	ErrEmptyGrid       = errors.New("sheet is empty")
	ErrSheetNotFound   = errors.New("sheet not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnsupported     = errors.New("operation not supported by adapter")
)
