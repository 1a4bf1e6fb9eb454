package storage

import (
	"context"

	"desyncScope/internal/report"
)

// Storage defines a sink for emitted reports.
type Storage interface {
	PutReport(ctx context.Context, rep report.Report) error
}
