package desync

// OnchainStatus is the settlement outcome of a matched order.
type OnchainStatus string

const (
	OnchainPending  OnchainStatus = "pending"
	OnchainSuccess  OnchainStatus = "success"
	OnchainReverted OnchainStatus = "reverted"
)

// OffchainStatus is the order status tracked by the matching engine.
type OffchainStatus string

const (
	OffchainPending  OffchainStatus = "pending"
	OffchainExecuted OffchainStatus = "executed"
	OffchainFailed   OffchainStatus = "failed"
)
