package ast

// Posting is one resolved leg of a balanced entry. Contra is non-nil when
// the leg settles against a specific account rather than the rest of the
// entry; such legs are excluded from the zero-sum invariant.
type Posting struct {
	Account Account
	Value   Value
	Contra  *Account
	Closing bool
}

// Entry is a validated double-entry transaction produced by the balancing
// engine. Invariant: the per-commodity settlement weights of the postings
// without a contra account sum to exactly zero. A posting's Value records
// its position effect on the account; for a priced or measured quantity leg
// that is the quantity itself, not its settlement weight, so entries with
// quantity legs do not have zero-sum Values. Entries without quantity legs
// do: there the position effect and the weight coincide.
type Entry struct {
	Pos       Position
	Seq       Sequence
	Flagged   bool
	Payee     string
	Narrative string
	Tags      []string
	Postings  []*Posting
}
