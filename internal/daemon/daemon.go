// Package daemon runs tfdriver's long-lived mode: scheduled drift checks
// against the configured working directory, a Prometheus metrics endpoint,
// out-of-band state file watching, and optional drift event publishing.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/tfdriver/internal/config"
	"git.home.luguber.info/inful/tfdriver/internal/events"
	"git.home.luguber.info/inful/tfdriver/internal/gitsync"
	"git.home.luguber.info/inful/tfdriver/internal/journal"
	"git.home.luguber.info/inful/tfdriver/internal/logfields"
	"git.home.luguber.info/inful/tfdriver/internal/metrics"
	"git.home.luguber.info/inful/tfdriver/internal/terraform"
	"git.home.luguber.info/inful/tfdriver/internal/tfstate"
)

// Daemon wires the driver, scheduler, watcher, journal, metrics and event
// publisher together for continuous drift detection.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	tf       *terraform.Terraform
	recorder metrics.Recorder

	scheduler *scheduler
	watcher   *stateWatcher
	syncer    *gitsync.Syncer
	publisher *events.Publisher
	jrnl      *journal.Journal
	httpSrv   *http.Server
}

// New assembles a daemon from configuration. Nothing starts running until
// Start.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if logger == nil {
		logger = slog.Default()
	}

	registry := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(registry)

	d := &Daemon{cfg: cfg, logger: logger, recorder: recorder}

	if cfg.Daemon.JournalPath != "" {
		jrnl, err := journal.Open(cfg.Daemon.JournalPath)
		if err != nil {
			return nil, err
		}
		d.jrnl = jrnl
	}

	workdir := cfg.Terraform.WorkingDir
	if cfg.Repository != nil {
		checkout := filepath.Join(workdir, "checkout")
		d.syncer = gitsync.New(*cfg.Repository, checkout, logger)
		workdir = filepath.Join(checkout, cfg.Repository.Path)
	}

	tfOpts := []terraform.Option{
		terraform.WithBinary(cfg.Terraform.BinPath),
		terraform.WithLogger(logger),
		terraform.WithRecorder(recorder),
		terraform.WithEnvPassthrough(cfg.Terraform.EnvPassthroughEnabled()),
	}
	if cfg.Terraform.State != "" {
		tfOpts = append(tfOpts, terraform.WithState(cfg.Terraform.State))
	}
	if cfg.Terraform.VarFile != "" {
		tfOpts = append(tfOpts, terraform.WithVarFile(cfg.Terraform.VarFile))
	}
	if cfg.Terraform.Parallelism > 0 {
		tfOpts = append(tfOpts, terraform.WithParallelism(cfg.Terraform.Parallelism))
	}
	if len(cfg.Terraform.Targets) > 0 {
		tfOpts = append(tfOpts, terraform.WithTargets(cfg.Terraform.Targets...))
	}
	if len(cfg.Terraform.Variables) > 0 {
		vars := make(map[string]any, len(cfg.Terraform.Variables))
		for k, v := range cfg.Terraform.Variables {
			vars[k] = v
		}
		tfOpts = append(tfOpts, terraform.WithVariables(vars))
	}
	if d.jrnl != nil {
		tfOpts = append(tfOpts, terraform.WithObserver(d.recordRun))
	}

	tf, err := terraform.New(workdir, tfOpts...)
	if err != nil {
		return nil, err
	}
	d.tf = tf

	sched, err := newScheduler()
	if err != nil {
		return nil, err
	}
	d.scheduler = sched

	if cfg.Daemon.WatchState {
		statePath := tfstate.ResolvePath(workdir, "", cfg.Terraform.State)
		watcher, err := newStateWatcher(statePath, func() error { return tf.ReadStateFile("") }, logger)
		if err != nil {
			return nil, err
		}
		d.watcher = watcher
	}

	d.httpSrv = &http.Server{
		Addr:              cfg.Daemon.MetricsAddr,
		Handler:           metricsMux(registry),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return d, nil
}

func metricsMux(registry *prom.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(registry))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// recordRun forwards completed invocations to the journal.
func (d *Daemon) recordRun(r terraform.RunRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	id, err := d.jrnl.Record(ctx, journal.Run{
		Command:   r.Command,
		Args:      journal.FormatArgs(r.Tokens),
		ExitCode:  r.ExitCode,
		Success:   r.Success,
		StartedAt: r.StartedAt,
		Duration:  r.Duration,
	})
	if err != nil {
		d.logger.Warn("Failed to journal run", logfields.Error(err))
		return
	}
	d.logger.Debug("Run journaled", logfields.RunID(id), logfields.Command(r.Command))
}

// Start connects the publisher, launches the metrics server, starts the
// watcher, and schedules drift checks. It returns once everything is
// running.
func (d *Daemon) Start(ctx context.Context) error {
	if d.cfg.Daemon.Events.Enabled {
		publisher, err := events.Connect(d.cfg.Daemon.Events, d.logger)
		if err != nil {
			return err
		}
		d.publisher = publisher
	}

	go func() {
		d.logger.Info("Metrics server listening", logfields.URL(d.httpSrv.Addr))
		if err := d.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			d.logger.Error("Metrics server failed", logfields.Error(err))
		}
	}()

	if d.watcher != nil {
		if err := d.watcher.start(ctx); err != nil {
			return err
		}
	}

	if err := d.scheduler.every(d.cfg.Daemon.DriftInterval, "drift-check", d.driftCheck); err != nil {
		return err
	}
	d.scheduler.start()

	d.logger.Info("Daemon started",
		logfields.Workdir(d.tf.WorkingDir()),
		slog.Duration("drift_interval", d.cfg.Daemon.DriftInterval))
	return nil
}

// Stop shuts components down in reverse start order. The first error is
// returned but shutdown continues past failures.
func (d *Daemon) Stop(ctx context.Context) error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	keep(d.scheduler.stop())
	if d.watcher != nil {
		keep(d.watcher.stop())
	}
	keep(d.httpSrv.Shutdown(ctx))
	if d.publisher != nil {
		d.publisher.Close()
	}
	if d.jrnl != nil {
		keep(d.jrnl.Close())
	}

	d.logger.Info("Daemon stopped")
	return firstErr
}

// Terraform exposes the driver instance, for status inspection.
func (d *Daemon) Terraform() *terraform.Terraform { return d.tf }

// String implements fmt.Stringer for debug logging.
func (d *Daemon) String() string {
	return fmt.Sprintf("daemon(workdir=%s interval=%s)", d.tf.WorkingDir(), d.cfg.Daemon.DriftInterval)
}
