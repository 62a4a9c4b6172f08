package ast

import "github.com/shopspring/decimal"

// Variant is the closed union of pre-balancing posting values. Each member
// defines how the balancing engine computes its weight; the union is sealed
// so that the decision table can rely on exhaustive case coverage.
//
// The members map to the posting value syntax:
//
//	Asset:Cash                        → Unvalued (amount inferred later)
//	Asset:Cash 3.40 USD               → Explicit
//	Asset:Trading 400 9984 @ 7260 JPY → Priced (priced in another commodity)
//	Asset:Trading 400 9984 @ 7260     → Measured (priced via declared measure)
//	Equity:Opening 3.40 USD dr        → CreditDebit (explicit ledger side)
//	Asset:Trading 400 9984 cdr        → Closing (side plus position closure)
type Variant interface {
	variant()
}

// Unvalued marks a posting whose amount is inferred during balancing.
type Unvalued struct{}

// Explicit is a firm leg carrying its value as written.
type Explicit struct {
	Value Value
}

// Priced is a quantity of one commodity priced in another: the leg records
// Qty of Commodity but settles for Qty × Price.Amount × multiplier in
// Price.Commodity.
type Priced struct {
	Qty       decimal.Decimal
	Commodity Commodity
	Price     Value
}

// Measured is a quantity priced via the commodity's declared measure. The
// settlement is denominated in the measure commodity, or the internal
// placeholder when the commodity declares none.
type Measured struct {
	Qty       decimal.Decimal
	Commodity Commodity
	Price     decimal.Decimal
}

// Side distinguishes the two halves of a credit/debit posting.
type Side int

const (
	// Debit keeps the written sign.
	Debit Side = iota

	// Credit negates the written amount.
	Credit
)

func (s Side) String() string {
	if s == Credit {
		return "cr"
	}
	return "dr"
}

// CreditDebit is a leg with an explicit ledger side: the weight is the
// written value for a debit and its negation for a credit.
type CreditDebit struct {
	Side  Side
	Value Value
}

// Closing carries the same arithmetic as CreditDebit and additionally marks
// the resolved posting as closing a position, for consumption by the
// lot-matching collaborator.
type Closing struct {
	Side  Side
	Value Value
}

func (Unvalued) variant()    {}
func (Explicit) variant()    {}
func (Priced) variant()      {}
func (Measured) variant()    {}
func (CreditDebit) variant() {}
func (Closing) variant()     {}

// Contra is the closed union of contra specifications on a posting.
type Contra interface {
	contra()
}

// ContraNone means the posting settles against the rest of the entry.
type ContraNone struct{}

// ContraSelf means the posting settles against its own account (bare "~").
type ContraSelf struct{}

// ContraAccount names the account holding the offsetting amount ("~ ACCOUNT").
type ContraAccount struct {
	Account Account
}

func (ContraNone) contra()    {}
func (ContraSelf) contra()    {}
func (ContraAccount) contra() {}
