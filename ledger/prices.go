package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/blossomtext/blossom/ast"
)

// pair is a directed commodity pair: base priced in quote.
type pair struct {
	base  ast.Commodity
	quote ast.Commodity
}

type ratePoint struct {
	seq  ast.Sequence
	rate decimal.Decimal
}

// PriceTable holds the rates observed for each commodity pair, ordered by
// sequence. Within a pair, a later price for the same sequence key replaces
// the earlier one.
type PriceTable struct {
	rates map[pair][]ratePoint
}

// NewPriceTable creates an empty price table.
func NewPriceTable() *PriceTable {
	return &PriceTable{rates: make(map[pair][]ratePoint)}
}

// Add records a rate for base priced in quote at the given sequence point.
func (t *PriceTable) Add(seq ast.Sequence, base, quote ast.Commodity, rate decimal.Decimal) {
	key := pair{base: base, quote: quote}
	points := t.rates[key]

	idx := sort.Search(len(points), func(i int) bool {
		return !points[i].seq.Before(seq)
	})

	if idx < len(points) && points[idx].seq.Compare(seq) == 0 {
		points[idx].rate = rate
		return
	}

	points = append(points, ratePoint{})
	copy(points[idx+1:], points[idx:])
	points[idx] = ratePoint{seq: seq, rate: rate}
	t.rates[key] = points
}

// Rate returns the latest rate for base priced in quote at or before seq.
func (t *PriceTable) Rate(base, quote ast.Commodity, seq ast.Sequence) (decimal.Decimal, bool) {
	points := t.rates[pair{base: base, quote: quote}]

	idx := sort.Search(len(points), func(i int) bool {
		return seq.Before(points[i].seq)
	})
	if idx == 0 {
		return decimal.Zero, false
	}
	return points[idx-1].rate, true
}

// Latest returns the most recent rate for base priced in quote.
func (t *PriceTable) Latest(base, quote ast.Commodity) (decimal.Decimal, bool) {
	points := t.rates[pair{base: base, quote: quote}]
	if len(points) == 0 {
		return decimal.Zero, false
	}
	return points[len(points)-1].rate, true
}

// Pairs returns the directed pairs with at least one recorded rate, sorted
// for deterministic iteration.
func (t *PriceTable) Pairs() []struct{ Base, Quote ast.Commodity } {
	pairs := make([]struct{ Base, Quote ast.Commodity }, 0, len(t.rates))
	for key := range t.rates {
		pairs = append(pairs, struct{ Base, Quote ast.Commodity }{key.base, key.quote})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Base != pairs[j].Base {
			return pairs[i].Base < pairs[j].Base
		}
		return pairs[i].Quote < pairs[j].Quote
	})
	return pairs
}
