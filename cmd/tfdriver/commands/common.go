// Package commands holds the kong command structs for the tfdriver CLI.
package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/tfdriver/internal/config"
	"git.home.luguber.info/inful/tfdriver/internal/terraform"
)

// Global carries shared state into subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI is the root command definition and global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"tfdriver.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Init      InitCmd      `cmd:"" help:"Run terraform init in the configured working directory"`
	Plan      PlanCmd      `cmd:"" help:"Run terraform plan and report drift status"`
	Apply     ApplyCmd     `cmd:"" help:"Run terraform apply with auto-approve"`
	Destroy   DestroyCmd   `cmd:"" help:"Run terraform destroy with auto-approve"`
	Output    OutputCmd    `cmd:"" help:"Read terraform outputs as JSON"`
	State     StateCmd     `cmd:"" help:"Inspect the current state snapshot"`
	Workspace WorkspaceCmd `cmd:"" help:"Manage terraform workspaces"`
	Run       RunCmd       `cmd:"" help:"Run an arbitrary terraform command with configured defaults"`
	History   HistoryCmd   `cmd:"" help:"List recorded invocations from the journal"`
	Daemon    DaemonCmd    `cmd:"" help:"Start continuous drift detection"`
}

// AfterApply sets up logging once, after flag parsing.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// newDriver builds a terraform driver from the loaded configuration.
func newDriver(cfg *config.Config) (*terraform.Terraform, error) {
	opts := []terraform.Option{
		terraform.WithBinary(cfg.Terraform.BinPath),
		terraform.WithEnvPassthrough(cfg.Terraform.EnvPassthroughEnabled()),
	}
	if cfg.Terraform.State != "" {
		opts = append(opts, terraform.WithState(cfg.Terraform.State))
	}
	if cfg.Terraform.VarFile != "" {
		opts = append(opts, terraform.WithVarFile(cfg.Terraform.VarFile))
	}
	if cfg.Terraform.Parallelism > 0 {
		opts = append(opts, terraform.WithParallelism(cfg.Terraform.Parallelism))
	}
	if len(cfg.Terraform.Targets) > 0 {
		opts = append(opts, terraform.WithTargets(cfg.Terraform.Targets...))
	}
	if len(cfg.Terraform.Variables) > 0 {
		vars := make(map[string]any, len(cfg.Terraform.Variables))
		for k, v := range cfg.Terraform.Variables {
			vars[k] = v
		}
		opts = append(opts, terraform.WithVariables(vars))
	}
	return terraform.New(cfg.Terraform.WorkingDir, opts...)
}

// loadAndBuild is the common preamble of the terraform-invoking commands.
func loadAndBuild(configPath string) (*config.Config, *terraform.Terraform, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	tf, err := newDriver(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, tf, nil
}
