package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// OutputCmd implements the 'output' command.
type OutputCmd struct {
	Name string `arg:"" optional:"" help:"Specific output name (omit for all outputs)"`
	Full bool   `help:"With a name, print the full {value, type, sensitive} descriptor"`
}

func (o *OutputCmd) Run(_ *Global, root *CLI) error {
	_, tf, err := loadAndBuild(root.Config)
	if err != nil {
		return err
	}
	ctx := context.Background()

	var value any
	switch {
	case o.Name == "":
		outputs, oerr := tf.Output(ctx, nil)
		if outputs != nil {
			value = outputs
		}
		err = oerr
	case o.Full:
		descriptor, oerr := tf.OutputDescriptor(ctx, o.Name, nil)
		if descriptor != nil {
			value = descriptor
		}
		err = oerr
	default:
		value, err = tf.OutputValue(ctx, o.Name, nil)
	}
	if err != nil {
		return err
	}
	if value == nil {
		return fmt.Errorf("no outputs available (has terraform apply run?)")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
