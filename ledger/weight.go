package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/blossomtext/blossom/ast"
)

// weight computes a posting's contribution to the entry balance. Postings
// with a contra marker never reach this function: their offset settles on
// the contra account, so they contribute nothing to the entry sum.
//
// The weight of each value form:
//
//	Unvalued     zero (amount inferred during balancing)
//	Explicit     the written value
//	Priced       qty × price × multiplier, in the price commodity
//	Measured     qty × price × multiplier, in the declared measure
//	CreditDebit  the written value; negated for a credit
//	Closing      same arithmetic as CreditDebit
func weight(posting *ast.RawPosting, decls *Declarations) ast.Value {
	switch v := posting.Value.(type) {
	case ast.Unvalued:
		return ast.NewValue(decimal.Zero, decls.inferredCommodity(posting.Account))

	case ast.Explicit:
		return v.Value

	case ast.Priced:
		amount := v.Qty.Mul(v.Price.Amount).Mul(decls.Multiplier(v.Commodity))
		return ast.NewValue(amount, v.Price.Commodity)

	case ast.Measured:
		amount := v.Qty.Mul(v.Price).Mul(decls.Multiplier(v.Commodity))
		return ast.NewValue(amount, decls.Measure(v.Commodity))

	case ast.CreditDebit:
		return sideValue(v.Side, v.Value)

	case ast.Closing:
		return sideValue(v.Side, v.Value)

	default:
		return ast.NewValue(decimal.Zero, ast.Placeholder)
	}
}

// sideValue applies the ledger side to a written value: a debit keeps the
// written sign, a credit negates it.
func sideValue(side ast.Side, value ast.Value) ast.Value {
	if side == ast.Credit {
		return value.Neg()
	}
	return value
}

// accountEffect computes the position change a posting applies to its own
// account. It differs from the weight for quantity legs: a priced or
// measured leg moves qty of the traded commodity, while its weight is the
// settlement value.
func accountEffect(posting *ast.RawPosting, decls *Declarations) ast.Value {
	switch v := posting.Value.(type) {
	case ast.Priced:
		return ast.NewValue(v.Qty, v.Commodity)

	case ast.Measured:
		return ast.NewValue(v.Qty, v.Commodity)

	default:
		return weight(posting, decls)
	}
}
