package entities

import "errors"

// Action item errors
var (
	ErrActionItemNotFound = errors.New("action item not found")
)

// Analysis errors
var (
	ErrAnalysisNotFound = errors.New("analysis record not found")
)
