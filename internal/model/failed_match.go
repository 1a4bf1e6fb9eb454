package model

// FailedMatchRecord is one reverted matchOrders transaction with its decoded
// nonce checks.
type FailedMatchRecord struct {
	Hash            string       `json:"hash"`
	Block           Quantity     `json:"block"`
	TakerMaker      string       `json:"taker_maker,omitempty"`
	TakerOrderNonce Quantity     `json:"taker_order_nonce"`
	TakerChainNonce Quantity     `json:"taker_chain_nonce"`
	TakerValid      *bool        `json:"taker_valid,omitempty"`
	MakerChecks     []MakerCheck `json:"maker_checks,omitempty"`
}

// MakerCheck is the nonce check for one maker order in a match.
type MakerCheck struct {
	Maker      string   `json:"maker"`
	OrderNonce Quantity `json:"order_nonce"`
	ChainNonce Quantity `json:"chain_nonce"`
	Valid      *bool    `json:"valid,omitempty"`
}

// TakerIsValid reports the taker check result. A missing field counts as
// valid; only an explicit false marks a mismatch.
func (r FailedMatchRecord) TakerIsValid() bool {
	return r.TakerValid == nil || *r.TakerValid
}

// IsValid reports the maker check result with the same default as the taker.
func (m MakerCheck) IsValid() bool {
	return m.Valid == nil || *m.Valid
}
