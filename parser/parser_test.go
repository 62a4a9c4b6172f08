package parser

import (
	"context"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/blossomtext/blossom/ast"
)

func parse(t *testing.T, input string) *ast.File {
	t.Helper()
	file, err := ParseString(context.Background(), input)
	assert.NoError(t, err)
	return file
}

func parseErr(t *testing.T, input string) *ParseError {
	t.Helper()
	_, err := ParseString(context.Background(), input)
	assert.Error(t, err)
	perr, ok := err.(*ParseError)
	assert.True(t, ok)
	return perr
}

func TestParseHeader(t *testing.T) {
	file := parse(t, `journal Trading 2024
  commodity JPY
  note "Futures journal"
  convention f7
`)

	header := file.Header()
	assert.NotZero(t, header)
	assert.Equal(t, "Trading 2024", header.Name)
	assert.Equal(t, ast.Commodity("JPY"), header.Commodity)
	assert.Equal(t, "Futures journal", header.Note)
	assert.Equal(t, ast.ConventionF7, header.Convention)
}

func TestParseDuplicateHeader(t *testing.T) {
	perr := parseErr(t, "journal One\n\njournal Two\n")
	assert.Contains(t, perr.Message, "duplicate journal header")
}

func TestParseAccountDecl(t *testing.T) {
	file := parse(t, `account Asset:Broker:Cash
  commodity USD
  note "settlement account"
  valuation latest
  propagate
`)

	decl, ok := file.Elements[0].(*ast.AccountDecl)
	assert.True(t, ok)
	assert.Equal(t, ast.Account("Asset:Broker:Cash"), decl.Account)
	assert.Equal(t, ast.Commodity("USD"), decl.Commodity)
	assert.Equal(t, "settlement account", decl.Note)
	assert.Equal(t, ast.ValuationLatest, decl.Valuation)
	assert.True(t, decl.Propagate)
}

func TestParseCommodityDecl(t *testing.T) {
	file := parse(t, `commodity NKY225M
  name "Nikkei 225 mini futures"
  measure JPY
  dp 0
  underlying NKY225
  class future
  multiplier 100
  mtm
  externalid bloomberg "NKM1 Index"
`)

	decl, ok := file.Elements[0].(*ast.CommodityDecl)
	assert.True(t, ok)
	assert.Equal(t, ast.Commodity("NKY225M"), decl.Symbol)
	assert.Equal(t, "Nikkei 225 mini futures", decl.Name)
	assert.Equal(t, ast.Commodity("JPY"), decl.Measure)
	assert.Equal(t, 0, decl.DP)
	assert.Equal(t, ast.Commodity("NKY225"), decl.Underlying)
	assert.Equal(t, "future", decl.Class)
	assert.True(t, decl.Multiplier.Equal(decimal.NewFromInt(100)))
	assert.True(t, decl.MTM)
	assert.Equal(t, "NKM1 Index", decl.ExternalIDs["bloomberg"])
}

func TestParseCommodityDefaults(t *testing.T) {
	file := parse(t, "commodity USD\n")

	decl := file.Elements[0].(*ast.CommodityDecl)
	assert.Equal(t, -1, decl.DP)
	assert.True(t, decl.Multiplier.Equal(decimal.NewFromInt(1)))
}

func TestParsePricesBlock(t *testing.T) {
	file := parse(t, `prices 9984 JPY
  2024-03-01 7100
  2024-03-05 7260
`)

	assert.Equal(t, 2, len(file.Elements))
	first := file.Elements[0].(*ast.Price)
	assert.Equal(t, ast.Commodity("9984"), first.Commodity)
	assert.True(t, first.Value.Amount.Equal(decimal.NewFromInt(7100)))
	assert.Equal(t, ast.Commodity("JPY"), first.Value.Commodity)

	second := file.Elements[1].(*ast.Price)
	assert.True(t, second.Value.Amount.Equal(decimal.NewFromInt(7260)))
}

func TestParseImport(t *testing.T) {
	file := parse(t, "import \"accounts.blossom\"\nimport \"2024/trades.blossom\"\n")

	assert.Equal(t, 2, len(file.Imports))
	assert.Equal(t, "accounts.blossom", file.Imports[0].Path)
	assert.Equal(t, "2024/trades.blossom", file.Imports[1].Path)
}

func TestParseAlias(t *testing.T) {
	file := parse(t, `alias cash Asset:Broker:Cash

2024-03-05 groceries
  Expense:Food 42 USD
  cash
`)

	transfer := file.Elements[0].(*ast.Transfer)
	assert.Equal(t, ast.Account("Asset:Broker:Cash"), transfer.Postings[1].Account)
}

func TestParseDuplicateAlias(t *testing.T) {
	perr := parseErr(t, "alias cash Asset:Cash\nalias cash Asset:Bank\n")
	assert.Contains(t, perr.Message, "duplicate alias")
}

func TestParseTransfer(t *testing.T) {
	file := parse(t, `2024-03-05 Acme Corp | March invoice #consulting #q1
  Asset:Receivable 1200 USD
  Income:Consulting
`)

	transfer := file.Elements[0].(*ast.Transfer)
	assert.Equal(t, "Acme Corp", transfer.Payee)
	assert.Equal(t, "March invoice", transfer.Narrative)
	assert.Equal(t, []string{"consulting", "q1"}, transfer.Tags)
	assert.False(t, transfer.Flagged)
	assert.Equal(t, 2, len(transfer.Postings))

	firm := transfer.Postings[0]
	assert.Equal(t, ast.Account("Asset:Receivable"), firm.Account)
	explicit, ok := firm.Value.(ast.Explicit)
	assert.True(t, ok)
	assert.True(t, explicit.Value.Amount.Equal(decimal.NewFromInt(1200)))
	assert.Equal(t, ast.Commodity("USD"), explicit.Value.Commodity)

	blank := transfer.Postings[1]
	assert.True(t, blank.Blank())
}

func TestParseTransferNarrativeOnly(t *testing.T) {
	file := parse(t, "2024-03-05 coffee & snacks\n  Expense:Food 8.40 USD\n  Asset:Cash\n")

	transfer := file.Elements[0].(*ast.Transfer)
	assert.Equal(t, "", transfer.Payee)
	assert.Equal(t, "coffee & snacks", transfer.Narrative)
}

func TestParseFlaggedTransfer(t *testing.T) {
	file := parse(t, "2024-03-05 ! needs review\n  Expense:Misc 10 USD\n  Asset:Cash\n")

	transfer := file.Elements[0].(*ast.Transfer)
	assert.True(t, transfer.Flagged)
	assert.Equal(t, "needs review", transfer.Narrative)
}

func TestParseSequenceOrdinals(t *testing.T) {
	file := parse(t, `2024-03-05 first
  Expense:A 1 USD
  Asset:Cash

2024-03-05/2 second
  Expense:B 2 USD
  Asset:Cash
`)

	first := file.Elements[0].(*ast.Transfer)
	second := file.Elements[1].(*ast.Transfer)
	assert.Equal(t, 0, first.Seq.Ord)
	assert.Equal(t, 2, second.Seq.Ord)
	assert.True(t, first.Seq.Before(second.Seq))
}

func TestParsePostingValueForms(t *testing.T) {
	file := parse(t, `2024-03-05 value forms
  Asset:A 3.40 USD
  Asset:B 400 9984 @ 7260 JPY
  Asset:C 2 NKY225M @ 38500
  Equity:D 500 USD cr
  Asset:E 400 9984 cdr
  Asset:F
`)

	postings := file.Elements[0].(*ast.Transfer).Postings

	_, ok := postings[0].Value.(ast.Explicit)
	assert.True(t, ok)

	priced, ok := postings[1].Value.(ast.Priced)
	assert.True(t, ok)
	assert.True(t, priced.Qty.Equal(decimal.NewFromInt(400)))
	assert.Equal(t, ast.Commodity("9984"), priced.Commodity)
	assert.True(t, priced.Price.Amount.Equal(decimal.NewFromInt(7260)))
	assert.Equal(t, ast.Commodity("JPY"), priced.Price.Commodity)

	measured, ok := postings[2].Value.(ast.Measured)
	assert.True(t, ok)
	assert.True(t, measured.Qty.Equal(decimal.NewFromInt(2)))
	assert.True(t, measured.Price.Equal(decimal.NewFromInt(38500)))

	credit, ok := postings[3].Value.(ast.CreditDebit)
	assert.True(t, ok)
	assert.Equal(t, ast.Credit, credit.Side)

	closing, ok := postings[4].Value.(ast.Closing)
	assert.True(t, ok)
	assert.Equal(t, ast.Debit, closing.Side)

	assert.True(t, postings[5].Blank())
}

func TestParseContraForms(t *testing.T) {
	file := parse(t, `2024-03-05 contra forms
  Asset:A 100 USD
  Asset:B 100 USD ~
  Asset:C 100 USD ~ Equity:Opening
`)

	postings := file.Elements[0].(*ast.Transfer).Postings

	_, ok := postings[0].Contra.(ast.ContraNone)
	assert.True(t, ok)

	_, ok = postings[1].Contra.(ast.ContraSelf)
	assert.True(t, ok)

	contra, ok := postings[2].Contra.(ast.ContraAccount)
	assert.True(t, ok)
	assert.Equal(t, ast.Account("Equity:Opening"), contra.Account)
}

func TestParseContraRequiresValue(t *testing.T) {
	perr := parseErr(t, `2024-03-05 bad contra
  Asset:Cash ~
  Expense:Food 12 USD
`)

	assert.Contains(t, perr.Message, "contra marker requires a value")
}

func TestParseAssertion(t *testing.T) {
	file := parse(t, "2024-03-01 assert Asset:Broker:Cash 1200 USD\n")

	assertion := file.Elements[0].(*ast.Assertion)
	assert.Equal(t, ast.Account("Asset:Broker:Cash"), assertion.Account)
	assert.True(t, assertion.Value.Amount.Equal(decimal.NewFromInt(1200)))
}

func TestParseInlinePrice(t *testing.T) {
	file := parse(t, "2024-03-01 price 9984 7260 JPY\n")

	price := file.Elements[0].(*ast.Price)
	assert.Equal(t, ast.Commodity("9984"), price.Commodity)
	assert.True(t, price.Value.Amount.Equal(decimal.NewFromInt(7260)))
}

func TestParseSplit(t *testing.T) {
	file := parse(t, "2024-06-10 split AAPL 4 1\n")

	split := file.Elements[0].(*ast.Split)
	assert.Equal(t, ast.Commodity("AAPL"), split.Commodity)
	assert.True(t, split.Ratio.Equal(decimal.NewFromInt(4)))
}

func TestParseDividend(t *testing.T) {
	file := parse(t, `2024-03-15 dividend 9984 4400 JPY #income
  account Asset:Broker:Cash
  income Income:Dividends:Softbank
`)

	dividend := file.Elements[0].(*ast.Dividend)
	assert.Equal(t, ast.Commodity("9984"), dividend.Commodity)
	assert.True(t, dividend.Received.Amount.Equal(decimal.NewFromInt(4400)))
	assert.Equal(t, ast.Account("Asset:Broker:Cash"), dividend.Account)
	assert.Equal(t, ast.Account("Income:Dividends:Softbank"), dividend.Income)
	assert.Equal(t, []string{"income"}, dividend.Tags)
}

func TestParseDividendRequiresAccount(t *testing.T) {
	perr := parseErr(t, "2024-03-15 dividend 9984 4400 JPY\n  income Income:Dividends\n")
	assert.Contains(t, perr.Message, "requires an account")
}

func TestParseTrade(t *testing.T) {
	file := parse(t, `2024-03-05 trade 400 9984 @ 7260 JPY
  account Asset:Trading
  settlement Asset:Broker:Cash
  commission Expense:Commission 100 JPY
`)

	trade := file.Elements[0].(*ast.Trade)
	assert.True(t, trade.Qty.Equal(decimal.NewFromInt(400)))
	assert.Equal(t, ast.Commodity("9984"), trade.Commodity)
	assert.True(t, trade.Price.Equal(decimal.NewFromInt(7260)))
	assert.Equal(t, ast.Commodity("JPY"), trade.PriceIn)
	assert.Equal(t, ast.Account("Asset:Trading"), trade.Account)
	assert.Equal(t, ast.Account("Asset:Broker:Cash"), trade.Settlement)
	assert.Equal(t, ast.Account("Expense:Commission"), trade.Expense)
	assert.NotZero(t, trade.Commission)
	assert.True(t, trade.Commission.Amount.Equal(decimal.NewFromInt(100)))
}

func TestParseTradeMeasuredPrice(t *testing.T) {
	file := parse(t, `2024-03-05 trade 2 NKY225M @ 38500
  account Asset:Trading
  settlement Asset:Broker:Cash
`)

	trade := file.Elements[0].(*ast.Trade)
	assert.Equal(t, ast.Commodity(""), trade.PriceIn)
	assert.Zero(t, trade.Commission)
}

func TestParseIndentDirective(t *testing.T) {
	file := parse(t, `.indent 4
journal X
    commodity USD
`)

	assert.Equal(t, ast.Commodity("USD"), file.Header().Commodity)
}

func TestParseIndentWidthMismatch(t *testing.T) {
	perr := parseErr(t, ".indent 4\njournal X\n  commodity USD\n")
	assert.Contains(t, perr.Message, "bad indentation")
	assert.Contains(t, perr.Message, "column 5")
}

func TestParseIndentAfterIndentedContent(t *testing.T) {
	perr := parseErr(t, "journal X\n  commodity USD\n\n.indent 4\n")
	assert.Contains(t, perr.Message, ".indent must precede")
}

func TestParseIndentWidthOutOfRange(t *testing.T) {
	perr := parseErr(t, ".indent 0\n")
	assert.Contains(t, perr.Message, "out of range")
}

func TestParseDefaultIndent(t *testing.T) {
	perr := parseErr(t, "journal X\n   commodity USD\n")
	assert.Contains(t, perr.Message, "bad indentation")
}

func TestParseConventionEnforced(t *testing.T) {
	perr := parseErr(t, `journal X
  convention f7

account Assets:Cash
`)
	assert.Contains(t, perr.Message, "Assets")
}

func TestParseConventionAllowsStubs(t *testing.T) {
	file := parse(t, `journal X
  convention f7

account Trading:Futures[2024]/nk225
`)

	decl := file.Elements[1].(*ast.AccountDecl)
	assert.Equal(t, ast.Account("Trading:Futures[2024]/nk225"), decl.Account)
}

func TestParseRegionMarkers(t *testing.T) {
	file := parse(t, ".region March trades\n.endregion\n")

	first := file.Elements[0].(*ast.Comment)
	assert.Equal(t, ".region March trades", first.Text)
	second := file.Elements[1].(*ast.Comment)
	assert.Equal(t, ".endregion", second.Text)
}

func TestParseComments(t *testing.T) {
	file := parse(t, `; file comment
2024-03-05 lunch ; trailing remark
  Expense:Food 12 USD ; leg remark
  Asset:Cash
`)

	comment := file.Elements[0].(*ast.Comment)
	assert.Contains(t, comment.Text, "file comment")

	transfer := file.Elements[1].(*ast.Transfer)
	assert.Equal(t, "lunch", transfer.Narrative)
	assert.Equal(t, 2, len(transfer.Postings))
}

func TestParseErrorReportsExpected(t *testing.T) {
	perr := parseErr(t, "budget Asset:Cash\n")
	assert.Contains(t, perr.Message, "budget")
	assert.NotEqual(t, 0, len(perr.Expected))
	assert.Contains(t, perr.Error(), "expected")
}

func TestParseErrorPosition(t *testing.T) {
	_, err := ParseBytesWithFilename(context.Background(), "main.blossom",
		[]byte("journal X\n\nbudget Y\n"))
	assert.Error(t, err)

	perr := err.(*ParseError)
	assert.Equal(t, "main.blossom", perr.Pos.Filename)
	assert.Equal(t, 3, perr.Pos.Line)
	assert.Equal(t, 1, perr.Pos.Column)
	assert.True(t, strings.HasPrefix(perr.Error(), "main.blossom:3:1"))
}

func TestParseNoPartialResult(t *testing.T) {
	file, err := ParseString(context.Background(), `2024-03-05 fine
  Expense:Food 12 USD
  Asset:Cash

budget broken
`)
	assert.Error(t, err)
	assert.Zero(t, file)
}

func TestParseUnknownSubKey(t *testing.T) {
	perr := parseErr(t, "account Asset:Cash\n  color blue\n")
	assert.Contains(t, perr.Message, `unknown account sub-key "color"`)
	assert.Contains(t, perr.Error(), "commodity")
}

func TestParseBlankLineEndsItem(t *testing.T) {
	perr := parseErr(t, `2024-03-05 orphaned leg
  Expense:Food 12 USD

  Asset:Cash
`)
	assert.Contains(t, perr.Message, "unexpected indentation")
}
