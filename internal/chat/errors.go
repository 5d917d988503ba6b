package chat

import "errors"

// Domain-specific errors for the chat package.
var (
	// Validation
	ErrInvalidFileType = errors.New("only .csv files are supported")
	ErrFileTooLarge    = errors.New("file exceeds the maximum upload size")
	ErrInvalidCSV      = errors.New("failed to parse CSV file")
	ErrEmptyMessage    = errors.New("message is empty")
	ErrMessageTooLong  = errors.New("message exceeds the maximum length")

	// Not found
	ErrSessionNotFound = errors.New("session not found")
	ErrNoDataset       = errors.New("no dataset uploaded yet")
	ErrChartNotFound   = errors.New("chart not found")

	// Upstream
	ErrUpstream = errors.New("model API request failed")
)
