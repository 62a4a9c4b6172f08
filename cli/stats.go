package cli

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/blossomtext/blossom/output"
)

type StatsCmd struct {
	File FileOrStdin `help:"Journal input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

func (cmd *StatsCmd) Run(ctx *kong.Context, globals *Globals) error {
	journal, err := buildJournal(context.Background(), ctx, &cmd.File)
	if err != nil {
		return err
	}

	styles := output.NewStyles(ctx.Stdout)

	postings := 0
	flagged := 0
	for _, entry := range journal.Entries {
		postings += len(entry.Postings)
		if entry.Flagged {
			flagged++
		}
	}

	rows := []struct {
		label string
		count int
	}{
		{"entries", len(journal.Entries)},
		{"postings", postings},
		{"flagged", flagged},
		{"accounts", len(journal.Accounts())},
		{"declared accounts", len(journal.Decls.Accounts)},
		{"declared commodities", len(journal.Decls.Commodities)},
		{"price pairs", len(journal.Prices.Pairs())},
	}

	if journal.Decls.Header != nil {
		_, _ = fmt.Fprintf(ctx.Stdout, "%s\n\n", styles.Keyword(journal.Decls.Header.Name))
	}
	for _, row := range rows {
		_, _ = fmt.Fprintf(ctx.Stdout, "%-22s %s\n", row.label, styles.Amount(fmt.Sprintf("%d", row.count)))
	}

	return nil
}
