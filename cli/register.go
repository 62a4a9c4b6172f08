package cli

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-runewidth"
	"github.com/shopspring/decimal"

	"github.com/blossomtext/blossom/ast"
)

type RegisterCmd struct {
	Account string      `help:"Account to list entries for." arg:""`
	File    FileOrStdin `help:"Journal input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

func (cmd *RegisterCmd) Run(ctx *kong.Context, globals *Globals) error {
	journal, err := buildJournal(context.Background(), ctx, &cmd.File)
	if err != nil {
		return err
	}

	account := ast.Account(cmd.Account)
	entries := journal.Register(account)
	if len(entries) == 0 {
		printInfof(ctx.Stdout, "no entries for %s", cmd.Account)
		return nil
	}

	// Fixed columns flank the description; the description soaks up the
	// remaining width.
	width := terminalWidth()
	const seqWidth, valueWidth = 12, 18
	descWidth := width - seqWidth - 2*valueWidth - 3
	if descWidth < 10 {
		descWidth = 10
	}

	running := make(map[ast.Commodity]decimal.Decimal)
	for _, entry := range entries {
		for _, value := range accountValues(entry, account) {
			running[value.Commodity] = running[value.Commodity].Add(value.Amount)

			desc := entry.Narrative
			if entry.Payee != "" {
				desc = entry.Payee + " | " + desc
			}
			desc = runewidth.Truncate(desc, descWidth, "…")

			balance := ast.NewValue(running[value.Commodity], value.Commodity)
			_, _ = fmt.Fprintf(ctx.Stdout, "%-*s %s %*s %*s\n",
				seqWidth, entry.Seq,
				runewidth.FillRight(desc, descWidth),
				valueWidth, value.String(),
				valueWidth, balance.String(),
			)
		}
	}

	return nil
}

// accountValues collects the value movements an entry applies to the
// account, including offsets booked through a contra marker.
func accountValues(entry *ast.Entry, account ast.Account) []ast.Value {
	var values []ast.Value
	for _, posting := range entry.Postings {
		if posting.Account == account {
			values = append(values, posting.Value)
		}
		if posting.Contra != nil && *posting.Contra == account {
			values = append(values, posting.Value.Neg())
		}
	}
	return values
}
