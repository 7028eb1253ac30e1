package services

import "errors"

// Service-level sentinel errors. Transport maps these to API errors; inside
// the service they keep failure handling local and non-fatal.
var (
	// ErrNoData means the selection was understood but yielded nothing:
	// an empty sheet, or no account producing a snapshot.
	ErrNoData = errors.New("no snapshot data available")

	// ErrAccountNotFound means the requested account has no sheet in the
	// workbook.
	ErrAccountNotFound = errors.New("account not found in workbook")
)
