package cli

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/blossomtext/blossom/output"
)

type BalancesCmd struct {
	File FileOrStdin `help:"Journal input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

func (cmd *BalancesCmd) Run(ctx *kong.Context, globals *Globals) error {
	journal, err := buildJournal(context.Background(), ctx, &cmd.File)
	if err != nil {
		return err
	}

	styles := output.NewStyles(ctx.Stdout)

	accounts := journal.Accounts()
	nameWidth := 0
	for _, account := range accounts {
		if len(account) > nameWidth {
			nameWidth = len(account)
		}
	}

	for _, account := range accounts {
		positions := journal.Positions(account)
		if len(positions) == 0 {
			continue
		}

		for i, position := range positions {
			name := ""
			if i == 0 {
				name = string(account)
			}
			_, _ = fmt.Fprintf(ctx.Stdout, "%s %s\n",
				styles.Account(fmt.Sprintf("%-*s", nameWidth, name)),
				styles.Amount(fmt.Sprintf("%18s", position.String())),
			)
		}
	}

	return nil
}
