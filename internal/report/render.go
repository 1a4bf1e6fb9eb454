package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// WriteJSON writes the structured report as indented JSON.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// WriteText writes the narrative rendering of the report.
func WriteText(w io.Writer, r Report) error {
	if _, err := io.WriteString(w, Narrative(r)); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Narrative renders the report as human-readable text. Every field of the
// structured form appears in the output.
func Narrative(r Report) string {
	var b strings.Builder

	b.WriteString("== Defensive PoC: Off-chain/On-chain Nonce Desync ==\n")
	fmt.Fprintf(&b, "Failed matchOrders txs in dataset: %d\n", r.DatasetFailedCount)
	fmt.Fprintf(&b, "Failed txs with decoded nonce mismatch: %d\n", r.NonceMismatchFailedCount)
	b.WriteString("\n")

	a := r.Anchor
	b.WriteString("Anchor proof:\n")
	fmt.Fprintf(&b, "- tx %s block %d offender=%s (%s) order_nonce=%d chain_nonce=%d\n",
		a.Tx, a.Block, a.OffenderAddress, a.OffenderSide, a.OrderNonce, a.ChainNonce)
	if len(a.Offenders) > 1 {
		fmt.Fprintf(&b, "- all offenders in anchor tx (%d):\n", len(a.Offenders))
		for _, off := range a.Offenders {
			fmt.Fprintf(&b, "  - %s (%s) order_nonce=%d chain_nonce=%d\n",
				off.Address, off.Side, off.OrderNonce, off.ChainNonce)
		}
	}
	if pi := a.PriorIncrement; pi != nil {
		fmt.Fprintf(&b, "- prior %s tx %s block %d at %s from %s selector=%s (delta %d blocks, status=%d)\n",
			pi.SelectorName, pi.Hash, pi.Block, pi.TimeUTC, pi.From, pi.Selector, pi.BlockDeltaToAnchor, pi.Status)
	} else {
		b.WriteString("- no prior incrementNonce tx found for anchor offender in supplied window\n")
	}
	if w := r.IncrementWindow; w.Empty() {
		b.WriteString("- increment window: empty window, no incrementNonce txs supplied\n")
	} else {
		fmt.Fprintf(&b, "- increment window: blocks %d..%d, %d txs from %d senders\n",
			*w.FromBlock, *w.ToBlock, w.Rows, w.Senders)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Top offenders (%d):\n", len(r.TopOffenders))
	if len(r.TopOffenders) == 0 {
		b.WriteString("- none\n")
	}
	for i, oc := range r.TopOffenders {
		fmt.Fprintf(&b, "%d. %s count=%d\n", i+1, oc.Address, oc.Count)
	}
	b.WriteString("\n")

	d := r.StateMachineDemo
	b.WriteString("Simple state-machine PoC:\n")
	fmt.Fprintf(&b, "- order_nonce=%d chain_nonce_before=%d chain_nonce_after=%d -> onchain=%s\n",
		d.OrderNonce, d.ChainNonceBefore, d.ChainNonceAfter, d.OnchainStatus)
	fmt.Fprintf(&b, "- buggy offchain status after settlement: %s\n", d.OffchainStatusBuggy)
	fmt.Fprintf(&b, "- fixed offchain status after settlement: %s\n", d.OffchainStatusFixed)
	b.WriteString("\n")

	b.WriteString("Root cause:\n")
	fmt.Fprintf(&b, "- %s\n", r.RootCause)

	return b.String()
}
