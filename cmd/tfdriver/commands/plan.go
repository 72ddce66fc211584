package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/tfdriver/internal/runner"
	"git.home.luguber.info/inful/tfdriver/internal/terraform"
)

// PlanCmd implements the 'plan' command.
type PlanCmd struct {
	Dir string `arg:"" optional:"" help:"Directory to plan (passed as -chdir)"`
}

func (p *PlanCmd) Run(_ *Global, root *CLI) error {
	_, tf, err := loadAndBuild(root.Config)
	if err != nil {
		return err
	}

	outcome, _, err := tf.Plan(context.Background(), p.Dir, nil,
		terraform.WithCapture(runner.CaptureInherited))
	if err != nil {
		return err
	}

	switch outcome {
	case terraform.PlanClean:
		fmt.Println("No changes. Infrastructure matches the configuration.")
	case terraform.PlanChanged:
		fmt.Println("Changes pending. Run 'tfdriver apply' to apply them.")
	}
	return nil
}
