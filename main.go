package main

import (
	stdErrors "errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/blossomtext/blossom/cli"
)

var (
	// Version contains the application version number. It's set via ldflags
	// when building.
	Version = ""

	// CommitSHA contains the SHA of the commit that this application was built
	// against. It's set via ldflags when building.
	CommitSHA = ""
)

var root struct {
	Version kong.VersionFlag `help:"Show version information"`
	cli.Commands
}

func main() {
	ctx := kong.Parse(&root,
		kong.Vars{
			"version": buildVersion(),
		},
		kong.Name("blossom"),
		kong.Description("A plain-text journal checker and reporter."),
		kong.UsageOnError(),
		kong.Bind(&root.Globals),
	)

	err := ctx.Run()

	var cmdErr *cli.CommandError
	if stdErrors.As(err, &cmdErr) {
		os.Exit(cmdErr.ExitCode())
	}
	ctx.FatalIfErrorf(err)
}

func buildVersion() string {
	if Version == "" {
		Version = "dev"
	}
	if CommitSHA == "" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, CommitSHA)
}
