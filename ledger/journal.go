// Package ledger folds a parsed element stream into a validated journal.
//
// The balancing engine admits or rejects each transfer by the decision on
// its blank postings and residual sums, synthesizes inferred amounts on the
// single allowed default contra posting, and maintains running account
// balances in exact decimal arithmetic. Assertions are checked against the
// balances in sequence order; splits rescale quantity positions in place.
//
// Example usage:
//
//	file, err := parser.ParseBytes(ctx, source)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	journal := ledger.New()
//	if err := journal.Process(ctx, file); err != nil {
//	    if perr, ok := err.(*ledger.ProcessErrors); ok {
//	        for _, e := range perr.Errors {
//	            fmt.Println(e)
//	        }
//	    }
//	}
package ledger

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/blossomtext/blossom/ast"
	"github.com/blossomtext/blossom/telemetry"
)

// DefaultDividendIncome receives dividend income when the composite form
// names no income account. The path is valid under every naming convention.
const DefaultDividendIncome ast.Account = "Income:Dividends"

// Journal is the validated result of processing one or more parsed files:
// admitted entries in sequence order, the declaration registry, the price
// table and the final account balances.
type Journal struct {
	Decls   *Declarations
	Entries []*ast.Entry
	Prices  *PriceTable

	balances map[ast.Account]map[ast.Commodity]decimal.Decimal
	errors   []error
}

// New creates an empty journal.
func New() *Journal {
	return &Journal{
		Decls:    newDeclarations(),
		Prices:   NewPriceTable(),
		balances: make(map[ast.Account]map[ast.Commodity]decimal.Decimal),
	}
}

// Process folds the files' element streams into the journal. Files are
// processed in the order given, which the loader arranges as import order.
// Rejected entries and failed assertions are collected, not fatal: the
// returned ProcessErrors reports every problem found in one run.
func (j *Journal) Process(ctx context.Context, files ...*ast.File) error {
	var (
		transfers  []*ast.Transfer
		assertions []*ast.Assertion
		splits     []*ast.Split
	)

	total := 0
	for _, file := range files {
		total += len(file.Elements)
	}
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("ledger.process (%d elements)", total))
	defer timer.End()

	for _, file := range files {
		for _, el := range file.Elements {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			switch el := el.(type) {
			case *ast.Header:
				if j.Decls.Header != nil {
					j.errors = append(j.errors, &DuplicateDeclError{
						Pos:      el.Pos,
						Kind:     "journal",
						Name:     el.Name,
						Previous: j.Decls.Header.Pos,
					})
					continue
				}
				j.Decls.Header = el

			case *ast.AccountDecl:
				if err := j.Decls.addAccount(el); err != nil {
					j.errors = append(j.errors, err)
				}

			case *ast.CommodityDecl:
				if err := j.Decls.addCommodity(el); err != nil {
					j.errors = append(j.errors, err)
				}

			case *ast.Price:
				j.Prices.Add(el.Seq, el.Commodity, el.Value.Commodity, el.Value.Amount)

			case *ast.Transfer:
				transfers = append(transfers, el)

			case *ast.Dividend:
				transfers = append(transfers, lowerDividend(el))

			case *ast.Trade:
				transfers = append(transfers, lowerTrade(el))

			case *ast.Assertion:
				assertions = append(assertions, el)

			case *ast.Split:
				splits = append(splits, el)

			case *ast.Comment:
				// Preserved by the parser, irrelevant here.
			}
		}
	}

	balanceTimer := telemetry.StartTimer(ctx, fmt.Sprintf("ledger.balance (%d transfers)", len(transfers)))
	for _, transfer := range transfers {
		postings, err := Balance(transfer, j.Decls)
		if err != nil {
			j.errors = append(j.errors, err)
			continue
		}
		j.Entries = append(j.Entries, &ast.Entry{
			Pos:       transfer.Pos,
			Seq:       transfer.Seq,
			Flagged:   transfer.Flagged,
			Payee:     transfer.Payee,
			Narrative: transfer.Narrative,
			Tags:      transfer.Tags,
			Postings:  postings,
		})
	}
	balanceTimer.End()

	sort.SliceStable(j.Entries, func(a, b int) bool {
		return j.Entries[a].Seq.Before(j.Entries[b].Seq)
	})

	j.replay(j.Entries, splits, assertions)

	if len(j.errors) > 0 {
		return &ProcessErrors{Errors: j.errors}
	}
	return nil
}

// timelineEvent merges entries, splits and assertions into one sequence
// ordering. At the same sequence key, entries apply first, then splits, then
// assertions.
type timelineEvent struct {
	seq  ast.Sequence
	rank int // 0 entry, 1 split, 2 assertion
	idx  int
}

// replay applies the admitted entries in sequence order, rescales positions
// at split points and checks assertions against the running balances.
func (j *Journal) replay(entries []*ast.Entry, splits []*ast.Split, assertions []*ast.Assertion) {
	events := make([]timelineEvent, 0, len(entries)+len(splits)+len(assertions))
	for i, e := range entries {
		events = append(events, timelineEvent{seq: e.Seq, rank: 0, idx: i})
	}
	for i, s := range splits {
		events = append(events, timelineEvent{seq: s.Seq, rank: 1, idx: i})
	}
	for i, a := range assertions {
		events = append(events, timelineEvent{seq: a.Seq, rank: 2, idx: i})
	}

	sort.SliceStable(events, func(a, b int) bool {
		if c := events[a].seq.Compare(events[b].seq); c != 0 {
			return c < 0
		}
		return events[a].rank < events[b].rank
	})

	for _, ev := range events {
		switch ev.rank {
		case 0:
			j.apply(entries[ev.idx])
		case 1:
			j.applySplit(splits[ev.idx])
		case 2:
			j.checkAssertion(assertions[ev.idx])
		}
	}
}

// apply adds an entry's postings to the running balances. A posting with a
// contra account additionally books the negated value there.
func (j *Journal) apply(entry *ast.Entry) {
	for _, posting := range entry.Postings {
		j.add(posting.Account, posting.Value)
		if posting.Contra != nil {
			j.add(*posting.Contra, posting.Value.Neg())
		}
	}
}

func (j *Journal) add(account ast.Account, value ast.Value) {
	bal, ok := j.balances[account]
	if !ok {
		bal = make(map[ast.Commodity]decimal.Decimal)
		j.balances[account] = bal
	}
	bal[value.Commodity] = bal[value.Commodity].Add(value.Amount)
}

// applySplit rescales every account's position in the split commodity.
func (j *Journal) applySplit(split *ast.Split) {
	for _, bal := range j.balances {
		if qty, ok := bal[split.Commodity]; ok {
			bal[split.Commodity] = qty.Mul(split.Ratio)
		}
	}
}

func (j *Journal) checkAssertion(assertion *ast.Assertion) {
	actual := j.Balance(assertion.Account, assertion.Value.Commodity)
	if !actual.Equal(assertion.Value.Amount) {
		j.errors = append(j.errors, &AssertionError{
			Pos:      assertion.Pos,
			Seq:      assertion.Seq,
			Account:  assertion.Account,
			Expected: assertion.Value,
			Actual:   ast.NewValue(actual, assertion.Value.Commodity),
		})
	}
}

// Balance returns the account's final position in the given commodity.
func (j *Journal) Balance(account ast.Account, commodity ast.Commodity) decimal.Decimal {
	if bal, ok := j.balances[account]; ok {
		return bal[commodity]
	}
	return decimal.Zero
}

// Accounts returns every account with a posted balance, sorted.
func (j *Journal) Accounts() []ast.Account {
	accounts := make([]ast.Account, 0, len(j.balances))
	for account := range j.balances {
		accounts = append(accounts, account)
	}
	slices.Sort(accounts)
	return accounts
}

// Positions returns the account's nonzero positions sorted by commodity.
func (j *Journal) Positions(account ast.Account) []ast.Value {
	bal := j.balances[account]
	positions := make([]ast.Value, 0, len(bal))
	for commodity, amount := range bal {
		if !amount.IsZero() {
			positions = append(positions, ast.NewValue(amount, commodity))
		}
	}
	sortResiduals(positions)
	return positions
}

// Register returns the entries touching the account, in sequence order. An
// entry is included when any posting or contra booking names the account.
func (j *Journal) Register(account ast.Account) []*ast.Entry {
	var entries []*ast.Entry
	for _, entry := range j.Entries {
		for _, posting := range entry.Postings {
			if posting.Account == account || (posting.Contra != nil && *posting.Contra == account) {
				entries = append(entries, entry)
				break
			}
		}
	}
	return entries
}

// lowerDividend rewrites the composite dividend form into its transfer:
// the receipt leg plus a blank income leg that absorbs the negation.
func lowerDividend(d *ast.Dividend) *ast.Transfer {
	income := d.Income
	if income == "" {
		income = DefaultDividendIncome
	}

	return &ast.Transfer{
		Pos:       d.Pos,
		Seq:       d.Seq,
		Flagged:   d.Flagged,
		Narrative: fmt.Sprintf("dividend %s", d.Commodity),
		Tags:      d.Tags,
		Postings: []*ast.RawPosting{
			{Pos: d.Pos, Account: d.Account, Value: ast.Explicit{Value: d.Received}, Contra: ast.ContraNone{}},
			{Pos: d.Pos, Account: income, Value: ast.Unvalued{}, Contra: ast.ContraNone{}},
		},
	}
}

// lowerTrade rewrites the composite trade form into its transfer: the
// quantity leg, an optional commission leg and a blank settlement leg.
func lowerTrade(t *ast.Trade) *ast.Transfer {
	var value ast.Variant
	if t.PriceIn != "" {
		value = ast.Priced{
			Qty:       t.Qty,
			Commodity: t.Commodity,
			Price:     ast.NewValue(t.Price, t.PriceIn),
		}
	} else {
		value = ast.Measured{
			Qty:       t.Qty,
			Commodity: t.Commodity,
			Price:     t.Price,
		}
	}

	postings := []*ast.RawPosting{
		{Pos: t.Pos, Account: t.Account, Value: value, Contra: ast.ContraNone{}},
	}
	if t.Commission != nil {
		postings = append(postings, &ast.RawPosting{
			Pos:     t.Pos,
			Account: t.Expense,
			Value:   ast.Explicit{Value: *t.Commission},
			Contra:  ast.ContraNone{},
		})
	}
	postings = append(postings, &ast.RawPosting{
		Pos:     t.Pos,
		Account: t.Settlement,
		Value:   ast.Unvalued{},
		Contra:  ast.ContraNone{},
	})

	return &ast.Transfer{
		Pos:       t.Pos,
		Seq:       t.Seq,
		Flagged:   t.Flagged,
		Narrative: fmt.Sprintf("trade %s %s @ %s", t.Qty, t.Commodity, t.Price),
		Tags:      t.Tags,
		Postings:  postings,
	}
}
