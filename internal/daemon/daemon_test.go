package daemon

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/tfdriver/internal/config"
)

func contextWithTimeout(t *testing.T) (context.Context, context.CancelFunc) {
	t.Helper()
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// fakeTerraform writes a stand-in binary that always succeeds.
func fakeTerraform(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "terraform")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755))
	return path
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	workdir := t.TempDir()
	return &config.Config{
		Terraform: config.TerraformConfig{
			BinPath:    fakeTerraform(t),
			WorkingDir: workdir,
		},
		Daemon: config.DaemonConfig{
			DriftInterval: time.Hour,
			MetricsAddr:   "127.0.0.1:0",
			WatchState:    true,
			JournalPath:   filepath.Join(workdir, "journal.db"),
			Events:        config.EventsConfig{Subject: "tfdriver.drift"},
		},
	}
}

func TestNewAssemblesComponents(t *testing.T) {
	d, err := New(testConfig(t), nil)
	require.NoError(t, err)
	require.NotNil(t, d.Terraform())
	require.NotNil(t, d.scheduler)
	require.NotNil(t, d.watcher)
	require.NotNil(t, d.jrnl)
	require.Nil(t, d.publisher)
}

func TestStartAndStop(t *testing.T) {
	d, err := New(testConfig(t), nil)
	require.NoError(t, err)

	ctx := t.Context()
	require.NoError(t, d.Start(ctx))

	stopCtx, cancel := contextWithTimeout(t)
	defer cancel()
	require.NoError(t, d.Stop(stopCtx))
}

func TestDriftCheckWithCleanPlan(t *testing.T) {
	d, err := New(testConfig(t), nil)
	require.NoError(t, err)
	defer func() {
		stopCtx, cancel := contextWithTimeout(t)
		defer cancel()
		_ = d.Stop(stopCtx)
	}()

	// Exit 0 from the fake binary means a clean plan; the check must not
	// panic and must journal the plan run.
	d.driftCheck(t.Context())

	runs, err := d.jrnl.Recent(t.Context(), 10)
	require.NoError(t, err)
	require.NotEmpty(t, runs)
	require.Equal(t, "plan", runs[0].Command)
}
