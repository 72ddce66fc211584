// Package config loads the tfdriver YAML configuration. Environment
// variables referenced as ${VAR} in the file are expanded after an
// optional .env load, so credentials stay out of the config file itself.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration document.
type Config struct {
	Terraform  TerraformConfig `yaml:"terraform"`
	Repository *RepoConfig     `yaml:"repository,omitempty"`
	Daemon     DaemonConfig    `yaml:"daemon"`
}

// TerraformConfig configures the driver instance.
type TerraformConfig struct {
	BinPath        string            `yaml:"bin_path,omitempty"`
	WorkingDir     string            `yaml:"working_dir,omitempty"`
	State          string            `yaml:"state,omitempty"`
	VarFile        string            `yaml:"var_file,omitempty"`
	Parallelism    int               `yaml:"parallelism,omitempty"`
	EnvPassthrough *bool             `yaml:"env_passthrough,omitempty"`
	Targets        []string          `yaml:"targets,omitempty"`
	Variables      map[string]string `yaml:"variables,omitempty"`
}

// RepoConfig points at the infrastructure repository the daemon keeps in
// sync before drift checks.
type RepoConfig struct {
	URL    string      `yaml:"url"`
	Branch string      `yaml:"branch,omitempty"`
	Path   string      `yaml:"path,omitempty"` // subdirectory holding the terraform root
	Auth   *AuthConfig `yaml:"auth,omitempty"`
}

// AuthConfig configures repository authentication.
type AuthConfig struct {
	Type     string `yaml:"type"` // "token", "basic" or "ssh"
	Username string `yaml:"username,omitempty"`
	Token    string `yaml:"token,omitempty"`
	Password string `yaml:"password,omitempty"`
	KeyPath  string `yaml:"key_path,omitempty"`
}

// DaemonConfig configures the drift daemon.
type DaemonConfig struct {
	DriftInterval time.Duration `yaml:"drift_interval,omitempty"`
	WatchState    bool          `yaml:"watch_state,omitempty"`
	MetricsAddr   string        `yaml:"metrics_addr,omitempty"`
	JournalPath   string        `yaml:"journal_path,omitempty"`
	Events        EventsConfig  `yaml:"events"`
}

// EventsConfig configures NATS drift event publishing.
type EventsConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	URL     string `yaml:"url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// EnvPassthroughEnabled reports whether the child process inherits the
// parent environment (default true).
func (c TerraformConfig) EnvPassthroughEnabled() bool {
	return c.EnvPassthrough == nil || *c.EnvPassthrough
}

// Load reads, expands, parses and defaults the configuration at path. A
// sibling .env file is loaded first so ${VAR} references resolve.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s", path)
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Terraform.BinPath == "" {
		c.Terraform.BinPath = "terraform"
	}
	if c.Daemon.DriftInterval == 0 {
		c.Daemon.DriftInterval = 30 * time.Minute
	}
	if c.Daemon.MetricsAddr == "" {
		c.Daemon.MetricsAddr = ":9109"
	}
	if c.Daemon.Events.Subject == "" {
		c.Daemon.Events.Subject = "tfdriver.drift"
	}
	if c.Repository != nil && c.Repository.Branch == "" {
		c.Repository.Branch = "main"
	}
}

func (c *Config) validate() error {
	if c.Daemon.Events.Enabled && c.Daemon.Events.URL == "" {
		return fmt.Errorf("daemon.events.url is required when event publishing is enabled")
	}
	if c.Repository != nil && c.Repository.URL == "" {
		return fmt.Errorf("repository.url is required when a repository block is present")
	}
	if c.Daemon.DriftInterval < time.Minute {
		return fmt.Errorf("daemon.drift_interval must be at least one minute, got %s", c.Daemon.DriftInterval)
	}
	return nil
}

// defaultConfig is the template written by Init.
const defaultConfig = `# tfdriver configuration
terraform:
  # bin_path: terraform
  working_dir: .
  # state: custom.tfstate
  # parallelism: 10
  variables: {}

# repository:
#   url: https://git.example.com/infra/terraform.git
#   branch: main
#   auth:
#     type: token
#     token: ${GIT_TOKEN}

daemon:
  drift_interval: 30m
  watch_state: true
  metrics_addr: ":9109"
  journal_path: tfdriver.db
  events:
    enabled: false
    # url: nats://localhost:4222
    # subject: tfdriver.drift
`

// Init writes a starter configuration file. Refuses to overwrite unless
// force is set.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use force to overwrite)", path)
	}
	if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
