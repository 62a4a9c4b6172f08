package ledger

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/blossomtext/blossom/ast"
)

func declsWith(commodities ...*ast.CommodityDecl) *Declarations {
	decls := newDeclarations()
	for _, c := range commodities {
		if c.Multiplier.IsZero() {
			c.Multiplier = decimal.NewFromInt(1)
		}
		decls.Commodities[c.Symbol] = c
	}
	return decls
}

func TestWeightExplicit(t *testing.T) {
	posting := &ast.RawPosting{
		Account: "Asset:Cash",
		Value:   ast.Explicit{Value: ast.NewValue(decimal.RequireFromString("3.40"), "USD")},
	}

	w := weight(posting, newDeclarations())
	assert.True(t, w.Amount.Equal(decimal.RequireFromString("3.40")))
	assert.Equal(t, ast.Commodity("USD"), w.Commodity)
}

func TestWeightPriced(t *testing.T) {
	posting := &ast.RawPosting{
		Account: "Asset:Trading",
		Value: ast.Priced{
			Qty:       decimal.NewFromInt(400),
			Commodity: "9984",
			Price:     ast.NewValue(decimal.NewFromInt(7260), "JPY"),
		},
	}

	w := weight(posting, newDeclarations())
	assert.True(t, w.Amount.Equal(decimal.NewFromInt(2904000)))
	assert.Equal(t, ast.Commodity("JPY"), w.Commodity)
}

func TestWeightPricedWithMultiplier(t *testing.T) {
	decls := declsWith(&ast.CommodityDecl{
		Symbol:     "NKY225M",
		Measure:    "JPY",
		Multiplier: decimal.NewFromInt(100),
	})

	posting := &ast.RawPosting{
		Account: "Asset:Trading",
		Value: ast.Priced{
			Qty:       decimal.NewFromInt(2),
			Commodity: "NKY225M",
			Price:     ast.NewValue(decimal.NewFromInt(38500), "JPY"),
		},
	}

	w := weight(posting, decls)
	assert.True(t, w.Amount.Equal(decimal.NewFromInt(7700000)))
}

func TestWeightMeasured(t *testing.T) {
	decls := declsWith(&ast.CommodityDecl{
		Symbol:     "NKY225M",
		Measure:    "JPY",
		Multiplier: decimal.NewFromInt(100),
	})

	posting := &ast.RawPosting{
		Account: "Asset:Trading",
		Value: ast.Measured{
			Qty:       decimal.NewFromInt(2),
			Commodity: "NKY225M",
			Price:     decimal.NewFromInt(38500),
		},
	}

	w := weight(posting, decls)
	assert.True(t, w.Amount.Equal(decimal.NewFromInt(7700000)))
	assert.Equal(t, ast.Commodity("JPY"), w.Commodity)
}

func TestWeightMeasuredWithoutMeasure(t *testing.T) {
	// An undeclared commodity has no measure: the weight lands in the
	// placeholder denomination and can only balance against it.
	posting := &ast.RawPosting{
		Account: "Asset:Trading",
		Value: ast.Measured{
			Qty:       decimal.NewFromInt(10),
			Commodity: "XYZ",
			Price:     decimal.NewFromInt(5),
		},
	}

	w := weight(posting, newDeclarations())
	assert.True(t, w.Amount.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, ast.Placeholder, w.Commodity)
}

func TestWeightCreditDebit(t *testing.T) {
	value := ast.NewValue(decimal.NewFromInt(500), "USD")

	dr := weight(&ast.RawPosting{Account: "Asset:Cash", Value: ast.CreditDebit{Side: ast.Debit, Value: value}}, newDeclarations())
	assert.True(t, dr.Amount.Equal(decimal.NewFromInt(500)))

	cr := weight(&ast.RawPosting{Account: "Asset:Cash", Value: ast.CreditDebit{Side: ast.Credit, Value: value}}, newDeclarations())
	assert.True(t, cr.Amount.Equal(decimal.NewFromInt(-500)))
}

func TestWeightUnvaluedUsesInferredCommodity(t *testing.T) {
	decls := newDeclarations()
	decls.Accounts["Asset:Broker:Cash"] = &ast.AccountDecl{
		Account:   "Asset:Broker:Cash",
		Commodity: "JPY",
	}
	decls.Header = &ast.Header{Commodity: "USD"}

	// Account commodity wins over the journal default.
	w := weight(&ast.RawPosting{Account: "Asset:Broker:Cash", Value: ast.Unvalued{}}, decls)
	assert.True(t, w.Amount.IsZero())
	assert.Equal(t, ast.Commodity("JPY"), w.Commodity)

	// Journal default when the account declares none.
	w = weight(&ast.RawPosting{Account: "Asset:Other", Value: ast.Unvalued{}}, decls)
	assert.Equal(t, ast.Commodity("USD"), w.Commodity)

	// Placeholder when nothing resolves.
	w = weight(&ast.RawPosting{Account: "Asset:Other", Value: ast.Unvalued{}}, newDeclarations())
	assert.Equal(t, ast.Placeholder, w.Commodity)
}

func TestAccountEffectQuantityLegs(t *testing.T) {
	posting := &ast.RawPosting{
		Account: "Asset:Trading",
		Value: ast.Priced{
			Qty:       decimal.NewFromInt(400),
			Commodity: "9984",
			Price:     ast.NewValue(decimal.NewFromInt(7260), "JPY"),
		},
	}

	// The account holds shares; the settlement value is the weight.
	effect := accountEffect(posting, newDeclarations())
	assert.True(t, effect.Amount.Equal(decimal.NewFromInt(400)))
	assert.Equal(t, ast.Commodity("9984"), effect.Commodity)
}
