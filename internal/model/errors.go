package model

import "errors"

var (
	// ErrInvalidParameter marks scan parameters outside their valid range.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrDataUnavailable marks history or financials that could not be retrieved.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrScanAborted marks a scan cancelled by the caller; the result is partial.
	ErrScanAborted = errors.New("scan aborted")
)
