package ledger

import (
	"github.com/shopspring/decimal"
)

// ChainBreak is an entry whose balance does not follow from its predecessor
type ChainBreak struct {
	Sequence int64           `json:"sequence"`
	Expected decimal.Decimal `json:"expected"`
	Actual   decimal.Decimal `json:"actual"`
}

// Replay walks entries in sequence order and recomputes every balance from
// zero. It returns the balance of the last stored entry (zero when there are
// none) and every link where the stored balance disagrees with the
// recomputed one. Each link is checked against the stored predecessor, so a
// single bad row is reported once.
func Replay(entries []Entry) (decimal.Decimal, []ChainBreak) {
	var breaks []ChainBreak
	prior := decimal.Zero
	for _, e := range entries {
		expected := NextBalance(prior, e.Debit, e.Credit)
		if !expected.Equal(e.Balance) {
			breaks = append(breaks, ChainBreak{
				Sequence: e.Sequence,
				Expected: expected,
				Actual:   e.Balance,
			})
		}
		prior = e.Balance
	}
	return prior, breaks
}
