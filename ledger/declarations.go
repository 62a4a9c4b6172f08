package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/blossomtext/blossom/ast"
)

// Declarations is the read-only registry of journal-wide settings, account
// declarations and commodity declarations collected from the element stream.
// It is built once during Process and then only consulted.
type Declarations struct {
	Header      *ast.Header
	Accounts    map[ast.Account]*ast.AccountDecl
	Commodities map[ast.Commodity]*ast.CommodityDecl
}

func newDeclarations() *Declarations {
	return &Declarations{
		Accounts:    make(map[ast.Account]*ast.AccountDecl),
		Commodities: make(map[ast.Commodity]*ast.CommodityDecl),
	}
}

// DefaultCommodity returns the journal's default commodity, or "" when the
// header declares none.
func (d *Declarations) DefaultCommodity() ast.Commodity {
	if d.Header == nil {
		return ""
	}
	return d.Header.Commodity
}

// AccountCommodity returns the commodity declared for the account, or "".
func (d *Declarations) AccountCommodity(account ast.Account) ast.Commodity {
	if decl, ok := d.Accounts[account]; ok {
		return decl.Commodity
	}
	return ""
}

// Measure returns the measure commodity declared for the symbol, or the
// internal placeholder when the symbol has no declaration or declares no
// measure.
func (d *Declarations) Measure(symbol ast.Commodity) ast.Commodity {
	if decl, ok := d.Commodities[symbol]; ok && decl.Measure != "" {
		return decl.Measure
	}
	return ast.Placeholder
}

// Multiplier returns the contract multiplier declared for the symbol, or 1.
func (d *Declarations) Multiplier(symbol ast.Commodity) decimal.Decimal {
	if decl, ok := d.Commodities[symbol]; ok {
		return decl.Multiplier
	}
	return decimal.NewFromInt(1)
}

// inferredCommodity resolves the denomination for an amount with no written
// commodity: the account's declared commodity, then the journal default,
// then the placeholder.
func (d *Declarations) inferredCommodity(account ast.Account) ast.Commodity {
	if c := d.AccountCommodity(account); c != "" {
		return c
	}
	if c := d.DefaultCommodity(); c != "" {
		return c
	}
	return ast.Placeholder
}

func (d *Declarations) addAccount(decl *ast.AccountDecl) error {
	if existing, ok := d.Accounts[decl.Account]; ok {
		return &DuplicateDeclError{
			Pos:      decl.Pos,
			Kind:     "account",
			Name:     string(decl.Account),
			Previous: existing.Pos,
		}
	}
	d.Accounts[decl.Account] = decl
	return nil
}

func (d *Declarations) addCommodity(decl *ast.CommodityDecl) error {
	if existing, ok := d.Commodities[decl.Symbol]; ok {
		return &DuplicateDeclError{
			Pos:      decl.Pos,
			Kind:     "commodity",
			Name:     string(decl.Symbol),
			Previous: existing.Pos,
		}
	}
	d.Commodities[decl.Symbol] = decl
	return nil
}
