package model

import "math"

// Dataset is the on-disk envelope shared by both input files.
// Count is the producer's declared row count and may disagree with Rows.
type Dataset[T any] struct {
	Count *Quantity `json:"count,omitempty"`
	Rows  []T       `json:"rows"`
}

// DeclaredCount returns the declared count, or the actual row count when the
// producer did not declare one. Counts beyond the int range saturate.
func (d Dataset[T]) DeclaredCount() int {
	if d.Count == nil {
		return len(d.Rows)
	}
	if d.Count.Uint64() > math.MaxInt {
		return math.MaxInt
	}
	return int(*d.Count)
}

type (
	FailedMatchDataset = Dataset[FailedMatchRecord]
	IncrementDataset   = Dataset[IncrementRecord]
)
