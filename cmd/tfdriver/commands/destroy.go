package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/tfdriver/internal/runner"
	"git.home.luguber.info/inful/tfdriver/internal/terraform"
)

// DestroyCmd implements the 'destroy' command.
type DestroyCmd struct {
	Dir string `arg:"" optional:"" help:"Directory to destroy (passed as -chdir)"`
	Yes bool   `help:"Skip the confirmation prompt"`
}

func (d *DestroyCmd) Run(_ *Global, root *CLI) error {
	if !d.Yes {
		fmt.Print("Destroy all managed infrastructure? Type 'yes' to continue: ")
		var answer string
		if _, err := fmt.Scanln(&answer); err != nil || answer != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	_, tf, err := loadAndBuild(root.Config)
	if err != nil {
		return err
	}

	_, err = tf.Destroy(context.Background(), d.Dir, nil,
		terraform.WithCapture(runner.CaptureInherited))
	return err
}
