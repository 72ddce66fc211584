package terraform

import (
	"context"

	"git.home.luguber.info/inful/tfdriver/internal/cliargs"
	"git.home.luguber.info/inful/tfdriver/internal/runner"
)

// PlanOutcome classifies plan results under -detailed-exitcode.
type PlanOutcome int

const (
	// PlanClean means no changes are pending (exit 0).
	PlanClean PlanOutcome = iota
	// PlanChanged means the plan contains pending changes (exit 2).
	PlanChanged
	// PlanFailed means the plan itself errored.
	PlanFailed
)

func (o PlanOutcome) String() string {
	switch o {
	case PlanClean:
		return "clean"
	case PlanChanged:
		return "changed"
	default:
		return "failed"
	}
}

// Init runs terraform init with -reconfigure and -backend=true defaulted,
// passing backendConfig entries as flattened -backend-config tokens.
func (t *Terraform) Init(ctx context.Context, dir string, backendConfig map[string]string, extra cliargs.Options, runOpts ...RunOption) (runner.Result, error) {
	opts := cliargs.Options{
		"reconfigure": cliargs.Flag(),
		"backend":     cliargs.Bool(true),
	}
	if len(backendConfig) > 0 {
		opts["backend_config"] = cliargs.StringMap(backendConfig)
	}
	return t.CmdIn(ctx, dir, "init", nil, t.defaultOptions().Merge(opts).Merge(extra), runOpts...)
}

// Plan runs terraform plan with -detailed-exitcode defaulted and maps the
// exit code to a PlanOutcome. Exit 2 (changes pending) is an outcome, not
// an error; any other nonzero exit yields PlanFailed together with a
// CommandError.
func (t *Terraform) Plan(ctx context.Context, dir string, extra cliargs.Options, runOpts ...RunOption) (PlanOutcome, runner.Result, error) {
	opts := cliargs.Options{
		"detailed_exitcode": cliargs.Flag(),
	}
	result, err := t.cmd(ctx, t.globalOptions(dir), "plan", nil,
		t.defaultOptions().Merge(opts).Merge(extra),
		append(runOpts, WithoutRaise())...)
	if err != nil {
		return PlanFailed, result, err
	}

	switch result.ExitCode {
	case 0:
		return PlanClean, result, nil
	case 2:
		return PlanChanged, result, nil
	default:
		return PlanFailed, result, &CommandError{
			ExitCode: result.ExitCode,
			Command:  t.latestCmd,
			Stdout:   result.Stdout,
			Stderr:   result.Stderr,
		}
	}
}

// Apply runs terraform apply. -auto-approve is forced: a prompt would hang
// a non-interactive driver.
func (t *Terraform) Apply(ctx context.Context, dir string, extra cliargs.Options, runOpts ...RunOption) (runner.Result, error) {
	opts := cliargs.Options{
		"auto_approve": cliargs.Flag(),
	}
	return t.CmdIn(ctx, dir, "apply", nil, t.defaultOptions().Merge(opts).Merge(extra), runOpts...)
}

// Destroy runs terraform destroy with -auto-approve forced.
func (t *Terraform) Destroy(ctx context.Context, dir string, extra cliargs.Options, runOpts ...RunOption) (runner.Result, error) {
	opts := cliargs.Options{
		"auto_approve": cliargs.Flag(),
	}
	return t.CmdIn(ctx, dir, "destroy", nil, t.defaultOptions().Merge(opts).Merge(extra), runOpts...)
}

// Refresh runs terraform refresh.
func (t *Terraform) Refresh(ctx context.Context, dir string, extra cliargs.Options, runOpts ...RunOption) (runner.Result, error) {
	return t.CmdIn(ctx, dir, "refresh", nil, t.defaultOptions().Merge(extra), runOpts...)
}

// Import runs terraform import for one resource address and provider id.
func (t *Terraform) Import(ctx context.Context, address, id string, extra cliargs.Options, runOpts ...RunOption) (runner.Result, error) {
	return t.Cmd(ctx, "import", []string{address, id}, extra, runOpts...)
}
