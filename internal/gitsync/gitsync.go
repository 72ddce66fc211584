// Package gitsync keeps a local checkout of the infrastructure repository
// current, so scheduled drift checks plan against the latest committed
// configuration.
package gitsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/tfdriver/internal/config"
	"git.home.luguber.info/inful/tfdriver/internal/logfields"
)

// Syncer clones or fast-forwards one repository into a fixed directory.
type Syncer struct {
	cfg    config.RepoConfig
	dir    string
	logger *slog.Logger
}

// New returns a Syncer materializing cfg into dir.
func New(cfg config.RepoConfig, dir string, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{cfg: cfg, dir: dir, logger: logger}
}

// Dir returns the checkout directory.
func (s *Syncer) Dir() string { return s.dir }

// Sync clones the repository on first use and pulls afterwards. An
// already-up-to-date pull is not an error.
func (s *Syncer) Sync(ctx context.Context) error {
	if _, err := os.Stat(s.dir); os.IsNotExist(err) {
		return s.clone(ctx)
	}
	return s.pull(ctx)
}

func (s *Syncer) clone(ctx context.Context) error {
	s.logger.Info("Cloning infrastructure repository",
		logfields.URL(s.cfg.URL),
		logfields.Path(s.dir))

	auth, err := authMethod(s.cfg.Auth)
	if err != nil {
		return err
	}
	opts := &git.CloneOptions{
		URL:           s.cfg.URL,
		ReferenceName: plumbing.ReferenceName("refs/heads/" + s.cfg.Branch),
		SingleBranch:  true,
		Auth:          auth,
	}
	if _, err := git.PlainCloneContext(ctx, s.dir, false, opts); err != nil {
		return fmt.Errorf("clone %s: %w", s.cfg.URL, err)
	}
	return nil
}

func (s *Syncer) pull(ctx context.Context) error {
	repo, err := git.PlainOpen(s.dir)
	if err != nil {
		return fmt.Errorf("open checkout %s: %w", s.dir, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("worktree: %w", err)
	}

	auth, err := authMethod(s.cfg.Auth)
	if err != nil {
		return err
	}
	err = worktree.PullContext(ctx, &git.PullOptions{
		ReferenceName: plumbing.ReferenceName("refs/heads/" + s.cfg.Branch),
		SingleBranch:  true,
		Auth:          auth,
	})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		s.logger.Debug("Checkout already up to date", logfields.Path(s.dir))
		return nil
	}
	if err != nil {
		return fmt.Errorf("pull %s: %w", s.cfg.URL, err)
	}
	s.logger.Info("Checkout updated", logfields.Path(s.dir))
	return nil
}

// HeadHash returns the current HEAD commit hash of the checkout.
func (s *Syncer) HeadHash() (string, error) {
	repo, err := git.PlainOpen(s.dir)
	if err != nil {
		return "", fmt.Errorf("open checkout %s: %w", s.dir, err)
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	return head.Hash().String(), nil
}
