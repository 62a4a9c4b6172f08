// Package ast declares the types used to represent parsed journal files.
//
// A file parses into an ordered stream of raw elements: declarations
// (journal header, accounts, commodities), transactional items (transfers,
// dividends, trades, assertions, prices, splits) and comments. Elements are
// immutable once parsed; the ledger package folds them into a validated
// Journal.
package ast

import "github.com/shopspring/decimal"

// Element is the closed union of raw journal elements. Every element carries
// its source position for diagnostics.
type Element interface {
	Position() Position
	element()
}

// File is the parse result for a single source file: the ordered element
// stream plus any import references for the loader to resolve.
type File struct {
	Elements []Element
	Imports  []*Import
}

// Header returns the file's journal header, or nil if it declares none.
func (f *File) Header() *Header {
	for _, el := range f.Elements {
		if h, ok := el.(*Header); ok {
			return h
		}
	}
	return nil
}

// Import references another journal file to be merged into this one.
type Import struct {
	Pos  Position
	Path string
}

// Comment is a line comment or region marker preserved in the stream.
type Comment struct {
	Pos  Position
	Text string
}

// Header is the journal declaration: the file's title plus journal-wide
// settings.
//
//	journal Trading 2024
//	  commodity USD
//	  convention f7
type Header struct {
	Pos        Position
	Name       string
	Commodity  Commodity
	Note       string
	Convention Convention
}

// Valuation selects how an account is valued in reports.
type Valuation int

const (
	ValuationUnset Valuation = iota
	ValuationHistorical
	ValuationLatest
)

func (v Valuation) String() string {
	switch v {
	case ValuationHistorical:
		return "historical"
	case ValuationLatest:
		return "latest"
	default:
		return "unset"
	}
}

// AccountDecl declares an account and its optional settings.
//
//	account Asset:Broker:Cash
//	  commodity USD
//	  valuation latest
type AccountDecl struct {
	Pos       Position
	Account   Account
	Commodity Commodity
	Note      string
	Valuation Valuation
	Propagate bool
}

// CommodityDecl declares a commodity and its optional settings.
//
//	commodity NKY225M
//	  name "Nikkei 225 mini futures"
//	  measure JPY
//	  multiplier 100
//	  class future
type CommodityDecl struct {
	Pos         Position
	Symbol      Commodity
	Name        string
	Measure     Commodity
	DP          int // quoted decimal places; -1 when undeclared
	Underlying  Commodity
	Class       string
	Multiplier  decimal.Decimal // contract size; 1 when undeclared
	MTM         bool
	ExternalIDs map[string]string
}

// Assertion states that an account holds a given value at a sequence point.
//
//	2024-03-01 assert Asset:Broker:Cash 1200 USD
type Assertion struct {
	Pos     Position
	Seq     Sequence
	Account Account
	Value   Value
}

// Price records the rate of a commodity in terms of another at a sequence
// point, either from an inline price item or a prices-block row.
//
//	2024-03-01 price 9984 7260 JPY
type Price struct {
	Pos       Position
	Seq       Sequence
	Commodity Commodity
	Value     Value
}

// Split records a ratio change in a commodity's unit count.
//
//	2024-06-10 split AAPL 4 1
type Split struct {
	Pos       Position
	Seq       Sequence
	Commodity Commodity
	Ratio     decimal.Decimal
}

// RawPosting is one leg of a transfer before balancing:
// ACCOUNT [VALUE ["~" [ACCOUNT]]]. A nil-equivalent value is represented by
// the Unvalued variant; the contra spec is ContraNone unless "~" appears.
type RawPosting struct {
	Pos     Position
	Account Account
	Value   Variant
	Contra  Contra
}

// Blank reports whether the posting has neither a value nor a contra spec,
// making it a candidate for residual synthesis during balancing.
func (p *RawPosting) Blank() bool {
	_, unvalued := p.Value.(Unvalued)
	_, none := p.Contra.(ContraNone)
	return unvalued && none
}

// Transfer is the general transactional form: a description line followed by
// posting legs.
//
//	2024-03-05 Acme Corp | March invoice #consulting
//	  Asset:Receivable 1200 USD
//	  Income:Consulting
type Transfer struct {
	Pos       Position
	Seq       Sequence
	Flagged   bool
	Payee     string
	Narrative string
	Tags      []string
	Postings  []*RawPosting
}

// Dividend is a composite form that lowers to a receipt leg plus an income
// leg.
//
//	2024-03-15 dividend 9984 4400 JPY
//	  account Asset:Broker:Cash
//	  income Income:Dividends
type Dividend struct {
	Pos       Position
	Seq       Sequence
	Flagged   bool
	Commodity Commodity
	Received  Value
	Account   Account
	Income    Account
	Tags      []string
}

// Trade is a composite form that lowers to a priced transfer leg, an
// optional commission leg and a blank settlement leg.
//
//	2024-03-05 trade 400 9984 @ 7260 JPY
//	  account Asset:Trading
//	  settlement Asset:Broker:Cash
//	  commission Expense:Commission 100 JPY
type Trade struct {
	Pos        Position
	Seq        Sequence
	Flagged    bool
	Qty        decimal.Decimal
	Commodity  Commodity
	Price      decimal.Decimal
	PriceIn    Commodity // empty: price via the commodity's declared measure
	Account    Account
	Settlement Account
	Commission *Value
	Expense    Account
	Tags       []string
}

func (c *Comment) Position() Position       { return c.Pos }
func (h *Header) Position() Position        { return h.Pos }
func (a *AccountDecl) Position() Position   { return a.Pos }
func (c *CommodityDecl) Position() Position { return c.Pos }
func (a *Assertion) Position() Position     { return a.Pos }
func (p *Price) Position() Position         { return p.Pos }
func (s *Split) Position() Position         { return s.Pos }
func (t *Transfer) Position() Position      { return t.Pos }
func (d *Dividend) Position() Position      { return d.Pos }
func (t *Trade) Position() Position         { return t.Pos }

func (*Comment) element()       {}
func (*Header) element()        {}
func (*AccountDecl) element()   {}
func (*CommodityDecl) element() {}
func (*Assertion) element()     {}
func (*Price) element()         {}
func (*Split) element()         {}
func (*Transfer) element()      {}
func (*Dividend) element()      {}
func (*Trade) element()         {}
