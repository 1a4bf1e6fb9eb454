package report

import "errors"

var (
	// ErrAnchorNotFound is returned when the anchor hash is absent from the
	// failed-match rows.
	ErrAnchorNotFound = errors.New("anchor tx not found in dataset")
	// ErrAnchorHasNoOffender is returned when the anchor decodes as valid for
	// every party.
	ErrAnchorHasNoOffender = errors.New("anchor tx has no nonce-mismatch offender in dataset")
)
