package terraform

import (
	"context"
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/tfdriver/internal/cliargs"
	"git.home.luguber.info/inful/tfdriver/internal/logfields"
	"git.home.luguber.info/inful/tfdriver/internal/runner"
)

// SelectWorkspace switches to an existing workspace.
func (t *Terraform) SelectWorkspace(ctx context.Context, name string, runOpts ...RunOption) (runner.Result, error) {
	return t.workspaceCmd(ctx, "select", name, runOpts...)
}

// NewWorkspace creates and switches to a workspace.
func (t *Terraform) NewWorkspace(ctx context.Context, name string, runOpts ...RunOption) (runner.Result, error) {
	return t.workspaceCmd(ctx, "new", name, runOpts...)
}

// DeleteWorkspace removes a workspace.
func (t *Terraform) DeleteWorkspace(ctx context.Context, name string, runOpts ...RunOption) (runner.Result, error) {
	return t.workspaceCmd(ctx, "delete", name, runOpts...)
}

// ShowWorkspace returns the currently selected workspace name.
func (t *Terraform) ShowWorkspace(ctx context.Context, runOpts ...RunOption) (string, error) {
	result, err := t.cmd(ctx, nil, "workspace", []string{"show"}, workspaceOptions(), runOpts...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(stdoutOf(result)), nil
}

// ListWorkspaces returns all workspace names, with the current-workspace
// marker stripped.
func (t *Terraform) ListWorkspaces(ctx context.Context) ([]string, error) {
	result, err := t.cmd(ctx, nil, "workspace", []string{"list"}, workspaceOptions())
	if err != nil {
		return nil, err
	}

	var names []string
	for _, line := range strings.Split(stdoutOf(result), "\n") {
		name := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "*"))
		if name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

func (t *Terraform) workspaceCmd(ctx context.Context, sub, name string, runOpts ...RunOption) (runner.Result, error) {
	t.logger.Debug("Workspace command",
		slog.String("action", sub),
		logfields.Workspace(name))
	return t.cmd(ctx, nil, "workspace", []string{sub, name}, workspaceOptions(), runOpts...)
}

// workspaceOptions returns the minimal option set for workspace commands;
// the state/var/target defaults do not apply to them.
func workspaceOptions() cliargs.Options {
	return cliargs.Options{"no_color": cliargs.Flag()}
}
