package catalog

import "errors"

// Domain errors for catalog lookups.
var (
	ErrSeriesNotFound = errors.New("series not found")
	ErrVodNotFound    = errors.New("vod not found")
	ErrInvalidID      = errors.New("invalid content id")
)
