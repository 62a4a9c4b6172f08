package cli

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool `help:"Show timing telemetry for operations."`
}

type Commands struct {
	Globals

	Check    CheckCmd    `cmd:"" help:"Parse and balance a journal, reporting every problem found."`
	Register RegisterCmd `cmd:"" help:"Show the entries touching an account, with a running balance."`
	Balances BalancesCmd `cmd:"" help:"Show the final positions of every account."`
	Stats    StatsCmd    `cmd:"" help:"Show summary statistics for a journal."`
	Watch    WatchCmd    `cmd:"" help:"Re-check a journal whenever it changes on disk."`
	Doctor   DoctorCmd   `cmd:"" help:"Doctor utilities for debugging journal files."`
}
