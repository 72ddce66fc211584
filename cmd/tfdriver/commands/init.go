package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/tfdriver/internal/config"
	"git.home.luguber.info/inful/tfdriver/internal/runner"
	"git.home.luguber.info/inful/tfdriver/internal/terraform"
)

// InitCmd implements the 'init' command. With --write-config it writes a
// starter configuration file instead of invoking terraform.
type InitCmd struct {
	WriteConfig bool              `help:"Write a starter tfdriver configuration file and exit"`
	Force       bool              `help:"Overwrite an existing configuration file"`
	BackendVars map[string]string `name:"backend-config" help:"Backend configuration entries (key=value)"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	if i.WriteConfig {
		if err := config.Init(root.Config, i.Force); err != nil {
			return err
		}
		fmt.Printf("Wrote configuration to %s\n", root.Config)
		return nil
	}

	_, tf, err := loadAndBuild(root.Config)
	if err != nil {
		return err
	}

	_, err = tf.Init(context.Background(), "", i.BackendVars, nil,
		terraform.WithCapture(runner.CaptureInherited))
	return err
}
