package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/blossomtext/blossom/ast"
)

// Balance resolves a transfer's raw postings into firm entry postings, or
// rejects the transfer. It is a pure function of the postings and the
// declaration registry.
//
// The decision is driven by two counts: N, the number of blank postings
// (no value, no contra marker), and R, the number of commodities with a
// nonzero sum over the firm postings. Postings with a contra marker settle
// against their contra account and contribute nothing to the sums.
//
//	N=0 R=0  accept as written
//	N=0 R>0  reject: no contra account available
//	N=1 R=0  reject: the blank posting has nothing to absorb
//	N=1 R>0  accept: the blank posting receives the negated residuals
//	N>1      reject: at most one default contra account is allowed
func Balance(transfer *ast.Transfer, decls *Declarations) ([]*ast.Posting, error) {
	var (
		blanks    []*ast.RawPosting
		sums      = make(map[ast.Commodity]decimal.Decimal)
		postings  = make([]*ast.Posting, 0, len(transfer.Postings))
		blankSlot = -1
	)

	for _, raw := range transfer.Postings {
		if raw.Blank() {
			blanks = append(blanks, raw)
			if blankSlot < 0 {
				blankSlot = len(postings)
			}
			// Resolved during synthesis below.
			continue
		}

		resolved := resolvePosting(raw, decls)
		postings = append(postings, resolved)

		if _, none := raw.Contra.(ast.ContraNone); !none {
			continue
		}
		w := weight(raw, decls)
		sums[w.Commodity] = sums[w.Commodity].Add(w.Amount)
	}

	var residuals []ast.Value
	for commodity, amount := range sums {
		if !amount.IsZero() {
			residuals = append(residuals, ast.NewValue(amount, commodity))
		}
	}
	sortResiduals(residuals)

	reject := func(message string) error {
		return &RejectionError{
			Pos:       transfer.Pos,
			Seq:       transfer.Seq,
			Message:   message,
			Residuals: residuals,
		}
	}

	switch {
	case len(blanks) > 1:
		return nil, reject("more than one default contra account; at most one is allowed")

	case len(blanks) == 0 && len(residuals) > 0:
		return nil, reject("entry doesn't balance; no contra account available")

	case len(blanks) == 1 && len(residuals) == 0:
		return nil, reject("entry balances already, but a contra account was supplied")

	case len(blanks) == 1:
		// The blank posting absorbs one negated posting per residual
		// commodity, spliced in at its written position.
		synthesized := make([]*ast.Posting, 0, len(residuals))
		for _, r := range residuals {
			synthesized = append(synthesized, &ast.Posting{
				Account: blanks[0].Account,
				Value:   r.Neg(),
			})
		}
		postings = append(postings[:blankSlot], append(synthesized, postings[blankSlot:]...)...)
	}

	return postings, nil
}

// resolvePosting converts a firm raw posting into an entry posting: the
// account effect plus the contra and closing markers.
func resolvePosting(raw *ast.RawPosting, decls *Declarations) *ast.Posting {
	posting := &ast.Posting{
		Account: raw.Account,
		Value:   accountEffect(raw, decls),
	}

	if _, ok := raw.Value.(ast.Closing); ok {
		posting.Closing = true
	}

	switch contra := raw.Contra.(type) {
	case ast.ContraSelf:
		account := raw.Account
		posting.Contra = &account
	case ast.ContraAccount:
		account := contra.Account
		posting.Contra = &account
	}

	return posting
}
