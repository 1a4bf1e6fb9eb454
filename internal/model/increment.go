package model

// IncrementRecord is one incrementNonce call observed on chain.
// Status follows the receipt convention: 0 reverted, 1 success.
type IncrementRecord struct {
	Hash     string   `json:"hash"`
	Block    Quantity `json:"block"`
	From     string   `json:"from"`
	TimeUTC  string   `json:"time_utc"`
	Selector string   `json:"selector"`
	Status   Quantity `json:"status"`
}
