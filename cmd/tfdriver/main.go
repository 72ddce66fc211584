package main

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/tfdriver/cmd/tfdriver/commands"
	"git.home.luguber.info/inful/tfdriver/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("tfdriver"),
		kong.Description("Drive terraform from configuration: plan, apply, drift detection."),
		kong.Vars{"version": version.Version},
	)
	err := ctx.Run(&commands.Global{}, cli)
	ctx.FatalIfErrorf(err)
}
