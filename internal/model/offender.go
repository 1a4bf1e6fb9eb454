package model

// Side identifies which party of a match failed its nonce check.
type Side string

const (
	SideTaker Side = "taker"
	SideMaker Side = "maker"
)

// Offender is a party whose signed order nonce differed from its on-chain
// nonce when the match settled.
type Offender struct {
	Address    string `json:"address"`
	OrderNonce uint64 `json:"order_nonce"`
	ChainNonce uint64 `json:"chain_nonce"`
	Side       Side   `json:"side"`
}

// OffenderCount is one entry of the offender frequency ranking.
type OffenderCount struct {
	Address string `json:"address"`
	Count   int    `json:"count"`
}
