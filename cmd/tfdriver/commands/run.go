package commands

import (
	"context"

	"git.home.luguber.info/inful/tfdriver/internal/runner"
	"git.home.luguber.info/inful/tfdriver/internal/terraform"
)

// RunCmd passes an arbitrary terraform command through the driver,
// keeping the configured defaults (state, variables, targets). Option
// legality is not checked here; terraform reports it via its own exit
// code and stderr.
type RunCmd struct {
	Command string   `arg:"" help:"Terraform command (multi-word commands quoted, e.g. 'state list')"`
	Args    []string `arg:"" optional:"" help:"Positional arguments for the command"`
}

func (r *RunCmd) Run(_ *Global, root *CLI) error {
	_, tf, err := loadAndBuild(root.Config)
	if err != nil {
		return err
	}

	_, err = tf.Cmd(context.Background(), r.Command, r.Args, nil,
		terraform.WithCapture(runner.CaptureInherited))
	return err
}
