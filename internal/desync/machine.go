// Package desync replays how an off-chain order status drifts from the
// on-chain settlement result when a signer's nonce moves between matching
// and inclusion.
package desync

// Demo is the outcome of one replay. The two off-chain statuses diverge
// exactly when OrderNonce != ChainNonceAfter.
type Demo struct {
	OrderNonce          uint64         `json:"order_nonce"`
	ChainNonceBefore    uint64         `json:"chain_nonce_before"`
	ChainNonceAfter     uint64         `json:"chain_nonce_after"`
	OnchainStatus       OnchainStatus  `json:"onchain_status"`
	OffchainStatusBuggy OffchainStatus `json:"offchain_status_buggy"`
	OffchainStatusFixed OffchainStatus `json:"offchain_status_fixed"`
}

// Diverged reports whether the buggy and fixed engines disagree.
func (d Demo) Diverged() bool {
	return d.OffchainStatusBuggy != d.OffchainStatusFixed
}

// engine tracks the off-chain status of a single order.
type engine interface {
	matched() OffchainStatus
	settled(current OffchainStatus, onchain OnchainStatus) OffchainStatus
}

// ackBeforeFinality marks orders executed at match time and never rolls back.
type ackBeforeFinality struct{}

func (ackBeforeFinality) matched() OffchainStatus {
	return OffchainExecuted
}

func (ackBeforeFinality) settled(current OffchainStatus, _ OnchainStatus) OffchainStatus {
	return current
}

// ackAfterFinality waits for the settlement result before finalizing.
type ackAfterFinality struct{}

func (ackAfterFinality) matched() OffchainStatus {
	return OffchainPending
}

func (ackAfterFinality) settled(_ OffchainStatus, onchain OnchainStatus) OffchainStatus {
	if onchain == OnchainSuccess {
		return OffchainExecuted
	}
	return OffchainFailed
}

// Settle decides the on-chain result of an order signed against orderNonce
// when the signer's nonce at inclusion is chainNonce.
func Settle(orderNonce, chainNonce uint64) OnchainStatus {
	if orderNonce == chainNonce {
		return OnchainSuccess
	}
	return OnchainReverted
}

// Phase names a point in an order's lifecycle.
type Phase string

const (
	PhaseMatched Phase = "matched"
	PhaseSettled Phase = "settled"
)

// Step is the status of both engines at one phase.
type Step struct {
	Phase               Phase          `json:"phase"`
	OnchainStatus       OnchainStatus  `json:"onchain_status"`
	OffchainStatusBuggy OffchainStatus `json:"offchain_status_buggy"`
	OffchainStatusFixed OffchainStatus `json:"offchain_status_fixed"`
}

// Trace returns the matched and settled steps for one order. The on-chain
// status is pending until the order is settled.
func Trace(orderNonce, chainNonceAfter uint64) []Step {
	buggy, fixed := engine(ackBeforeFinality{}), engine(ackAfterFinality{})
	matched := Step{
		Phase:               PhaseMatched,
		OnchainStatus:       OnchainPending,
		OffchainStatusBuggy: buggy.matched(),
		OffchainStatusFixed: fixed.matched(),
	}

	onchain := Settle(orderNonce, chainNonceAfter)
	settled := Step{
		Phase:               PhaseSettled,
		OnchainStatus:       onchain,
		OffchainStatusBuggy: buggy.settled(matched.OffchainStatusBuggy, onchain),
		OffchainStatusFixed: fixed.settled(matched.OffchainStatusFixed, onchain),
	}
	return []Step{matched, settled}
}

// Replay runs one order through both engines. chainNonceBefore is the nonce
// the order assumed; chainNonceAfter is the nonce in effect at settlement,
// after any intervening increment.
func Replay(orderNonce, chainNonceBefore, chainNonceAfter uint64) Demo {
	steps := Trace(orderNonce, chainNonceAfter)
	final := steps[len(steps)-1]
	return Demo{
		OrderNonce:          orderNonce,
		ChainNonceBefore:    chainNonceBefore,
		ChainNonceAfter:     chainNonceAfter,
		OnchainStatus:       final.OnchainStatus,
		OffchainStatusBuggy: final.OffchainStatusBuggy,
		OffchainStatusFixed: final.OffchainStatusFixed,
	}
}

// ReplayOffender derives the before/after nonces from an offender's observed
// chain nonce: the order assumed one less, floored at zero.
func ReplayOffender(orderNonce, chainNonce uint64) Demo {
	before := uint64(0)
	if chainNonce > 0 {
		before = chainNonce - 1
	}
	return Replay(orderNonce, before, chainNonce)
}
