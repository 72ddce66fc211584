package gitsync

import (
	"fmt"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"

	"git.home.luguber.info/inful/tfdriver/internal/config"
)

// authMethod maps the configured auth block to a go-git transport auth.
// A nil block means anonymous access.
func authMethod(cfg *config.AuthConfig) (transport.AuthMethod, error) {
	if cfg == nil {
		return nil, nil
	}
	switch cfg.Type {
	case "token":
		// Forges accept tokens as basic-auth passwords with any username.
		username := cfg.Username
		if username == "" {
			username = "token"
		}
		return &http.BasicAuth{Username: username, Password: cfg.Token}, nil
	case "basic":
		return &http.BasicAuth{Username: cfg.Username, Password: cfg.Password}, nil
	case "ssh":
		keys, err := ssh.NewPublicKeysFromFile("git", cfg.KeyPath, "")
		if err != nil {
			return nil, fmt.Errorf("load ssh key %s: %w", cfg.KeyPath, err)
		}
		return keys, nil
	default:
		return nil, fmt.Errorf("unsupported auth type: %s", cfg.Type)
	}
}
