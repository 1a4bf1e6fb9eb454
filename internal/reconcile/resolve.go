package reconcile

import (
	"sort"

	"desyncScope/internal/model"
)

// IncrementIndex groups increment calls by lower-cased sender, keeping
// dataset order within each group.
type IncrementIndex struct {
	byAddress map[string][]model.IncrementRecord
}

// NewIncrementIndex builds an index over increment rows.
func NewIncrementIndex(rows []model.IncrementRecord) *IncrementIndex {
	byAddress := make(map[string][]model.IncrementRecord)
	for _, row := range rows {
		addr := model.NormalizeAddress(row.From)
		byAddress[addr] = append(byAddress[addr], row)
	}
	return &IncrementIndex{byAddress: byAddress}
}

// ForAddress returns the increments sent by address in dataset order.
func (idx *IncrementIndex) ForAddress(address string) []model.IncrementRecord {
	if idx == nil {
		return nil
	}
	return idx.byAddress[model.NormalizeAddress(address)]
}

// Addresses returns the number of distinct senders in the index.
func (idx *IncrementIndex) Addresses() int {
	if idx == nil {
		return 0
	}
	return len(idx.byAddress)
}

// LatestAtOrBefore returns the increment by address with the greatest block
// not exceeding block. When several share that block, the one appearing last
// in dataset order wins. ok is false when nothing qualifies.
func (idx *IncrementIndex) LatestAtOrBefore(address string, block uint64) (model.IncrementRecord, bool) {
	return LatestAtOrBefore(idx.ForAddress(address), block)
}

// LatestAtOrBefore applies the most-recent-at-or-before query to one sender's
// increments, which need not be sorted.
func LatestAtOrBefore(increments []model.IncrementRecord, block uint64) (model.IncrementRecord, bool) {
	candidates := make([]model.IncrementRecord, 0, len(increments))
	for _, inc := range increments {
		if inc.Block.Uint64() <= block {
			candidates = append(candidates, inc)
		}
	}
	if len(candidates) == 0 {
		return model.IncrementRecord{}, false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Block < candidates[j].Block
	})
	return candidates[len(candidates)-1], true
}
