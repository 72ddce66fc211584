package commands

import (
	"encoding/json"
	"fmt"
	"os"
)

// StateCmd implements the 'state' command: local inspection of the state
// snapshot without invoking terraform.
type StateCmd struct {
	Path string `arg:"" optional:"" help:"Dotted key path into the state tree (omit for a summary)"`
}

func (s *StateCmd) Run(_ *Global, root *CLI) error {
	_, tf, err := loadAndBuild(root.Config)
	if err != nil {
		return err
	}

	state := tf.State()
	if state.IsEmpty() {
		fmt.Println("No state file found.")
		return nil
	}

	if s.Path == "" {
		fmt.Printf("State file: %s\n", state.Path())
		fmt.Printf("Version:    %d\n", state.Version())
		fmt.Printf("Serial:     %d\n", state.Serial())
		fmt.Printf("Resources:  %d\n", len(state.Resources()))
		fmt.Printf("Outputs:    %d\n", len(state.Outputs()))
		return nil
	}

	value, ok := state.Get(s.Path)
	if !ok {
		return fmt.Errorf("path not found in state: %s", s.Path)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
