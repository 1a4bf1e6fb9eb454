package dataset

import "errors"

var (
	// ErrDatasetNotFound is returned when a dataset path does not resolve to a file.
	ErrDatasetNotFound = errors.New("dataset not found")
	// ErrDatasetMalformed is returned when a dataset is not valid JSON or its
	// rows cannot be decoded.
	ErrDatasetMalformed = errors.New("dataset malformed")
)
