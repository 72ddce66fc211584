package terraform

import (
	"context"
	"encoding/json"
	"strings"

	"git.home.luguber.info/inful/tfdriver/internal/cliargs"
)

// Output runs terraform output -json and returns the full map of output
// descriptors ({value, type, sensitive} per name). This deviates from the
// generic (exit code, stdout, stderr) contract on purpose: when the
// subprocess itself fails, Output returns (nil, nil) so callers can probe
// structurally without error handling. A JSON parse failure of captured
// stdout is always an error.
func (t *Terraform) Output(ctx context.Context, extra cliargs.Options) (map[string]any, error) {
	raw, err := t.outputJSON(ctx, nil, extra)
	if err != nil || raw == nil {
		return nil, err
	}
	descriptors, ok := raw.(map[string]any)
	if !ok {
		return nil, &ParseError{Source: "output", Err: errNotAnObject}
	}
	return descriptors, nil
}

// OutputValue runs terraform output -json NAME and returns the single
// named output value. Returns (nil, nil) when the subprocess fails.
func (t *Terraform) OutputValue(ctx context.Context, name string, extra cliargs.Options) (any, error) {
	return t.outputJSON(ctx, []string{name}, extra)
}

// OutputDescriptor returns the full {value, type, sensitive} descriptor
// for one named output, resolved through the no-name output map.
func (t *Terraform) OutputDescriptor(ctx context.Context, name string, extra cliargs.Options) (map[string]any, error) {
	descriptors, err := t.Output(ctx, extra)
	if err != nil || descriptors == nil {
		return nil, err
	}
	descriptor, ok := descriptors[name].(map[string]any)
	if !ok {
		return nil, nil
	}
	return descriptor, nil
}

func (t *Terraform) outputJSON(ctx context.Context, args []string, extra cliargs.Options) (any, error) {
	opts := cliargs.Options{
		"json": cliargs.Flag(),
	}
	result, err := t.Cmd(ctx, "output", args, opts.Merge(extra), WithoutRaise())
	if err != nil {
		return nil, err
	}
	if result.ExitCode != 0 {
		return nil, nil
	}

	var parsed any
	text := strings.TrimLeft(stdoutOf(result), " \t\r\n")
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, &ParseError{Source: "output", Err: err}
	}
	return parsed, nil
}
