package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/tfdriver/internal/runner"
	"git.home.luguber.info/inful/tfdriver/internal/terraform"
)

// ApplyCmd implements the 'apply' command.
type ApplyCmd struct {
	Dir string `arg:"" optional:"" help:"Directory to apply (passed as -chdir)"`
}

func (a *ApplyCmd) Run(_ *Global, root *CLI) error {
	_, tf, err := loadAndBuild(root.Config)
	if err != nil {
		return err
	}

	if _, err := tf.Apply(context.Background(), a.Dir, nil,
		terraform.WithCapture(runner.CaptureInherited)); err != nil {
		return err
	}

	state := tf.State()
	fmt.Printf("Apply complete. State serial %d, %d resources.\n",
		state.Serial(), len(state.Resources()))
	return nil
}
