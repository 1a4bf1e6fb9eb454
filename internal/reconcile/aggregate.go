package reconcile

import (
	"sort"

	"desyncScope/internal/model"
)

// DefaultTopN is the ranking size used when the caller does not choose one.
const DefaultTopN = 5

// Summary is the result of one pass over the failed-match rows. It is built
// once by Aggregate and not modified afterwards.
type Summary struct {
	MismatchTxCount int
	TakerCount      int
	MakerCount      int
	OffendersByTx   map[string][]model.Offender
	Counts          map[string]int

	// TxOrder lists OffendersByTx keys in first-seen dataset order.
	TxOrder []string

	// order lists offender addresses in first-encounter order for tie-breaks.
	order []string
}

// Aggregate scans every failed-match row once and tallies offenders. A row
// counts as a mismatch transaction when it yields at least one offender; an
// address is counted once per offending occurrence.
func Aggregate(rows []model.FailedMatchRecord) Summary {
	summary := Summary{
		OffendersByTx: make(map[string][]model.Offender),
		Counts:        make(map[string]int),
	}

	for _, row := range rows {
		offenders := ExtractOffenders(row)
		if len(offenders) == 0 {
			continue
		}
		summary.MismatchTxCount++

		key := model.NormalizeHash(row.Hash)
		if _, seen := summary.OffendersByTx[key]; !seen {
			summary.TxOrder = append(summary.TxOrder, key)
		}
		summary.OffendersByTx[key] = offenders

		for _, off := range offenders {
			if _, seen := summary.Counts[off.Address]; !seen {
				summary.order = append(summary.order, off.Address)
			}
			summary.Counts[off.Address]++
			switch off.Side {
			case model.SideTaker:
				summary.TakerCount++
			case model.SideMaker:
				summary.MakerCount++
			}
		}
	}
	return summary
}

// TopOffenders returns up to n addresses by descending offence count. Equal
// counts keep first-encounter order. n <= 0 returns the full ranking.
func (s Summary) TopOffenders(n int) []model.OffenderCount {
	ranking := make([]model.OffenderCount, 0, len(s.order))
	for _, addr := range s.order {
		ranking = append(ranking, model.OffenderCount{Address: addr, Count: s.Counts[addr]})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Count > ranking[j].Count
	})
	if n > 0 && len(ranking) > n {
		ranking = ranking[:n]
	}
	return ranking
}

// Offenders returns the offenders recorded for a transaction hash.
func (s Summary) Offenders(txHash string) ([]model.Offender, bool) {
	offenders, ok := s.OffendersByTx[model.NormalizeHash(txHash)]
	return offenders, ok
}
