package daemon

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"git.home.luguber.info/inful/tfdriver/internal/events"
	"git.home.luguber.info/inful/tfdriver/internal/logfields"
	"git.home.luguber.info/inful/tfdriver/internal/metrics"
	"git.home.luguber.info/inful/tfdriver/internal/terraform"
)

// planSummaryPattern matches terraform's one-line plan summary.
var planSummaryPattern = regexp.MustCompile(`(?m)^Plan: .+$`)

// driftLabel maps a plan outcome to its metric label.
func driftLabel(outcome terraform.PlanOutcome) metrics.DriftLabel {
	switch outcome {
	case terraform.PlanClean:
		return metrics.DriftClean
	case terraform.PlanChanged:
		return metrics.DriftDetected
	default:
		return metrics.DriftError
	}
}

// planSummary extracts the "Plan: N to add, ..." line from plan output,
// empty when absent.
func planSummary(stdout string) string {
	return strings.TrimSpace(planSummaryPattern.FindString(stdout))
}

// driftCheck runs one scheduled drift detection pass: sync the repository
// when configured, plan with detailed exit codes, record the outcome, and
// publish an event for detected drift or check errors.
func (d *Daemon) driftCheck(ctx context.Context) {
	logger := d.logger.With(logfields.Schedule("drift-check"))

	commitHash := ""
	if d.syncer != nil {
		if err := d.syncer.Sync(ctx); err != nil {
			logger.Error("Repository sync failed", logfields.Error(err))
			d.recorder.IncDriftCheck(metrics.DriftError)
			d.publishDrift(events.DriftEvent{
				Outcome:    string(metrics.DriftError),
				Workdir:    d.tf.WorkingDir(),
				DetectedAt: time.Now().UTC(),
				Summary:    err.Error(),
			})
			return
		}
		if hash, err := d.syncer.HeadHash(); err == nil {
			commitHash = hash
		}
	}

	outcome, result, err := d.tf.Plan(ctx, "", nil)
	label := driftLabel(outcome)
	d.recorder.IncDriftCheck(label)

	switch {
	case err != nil:
		logger.Error("Drift check failed", logfields.Error(err))
	case outcome == terraform.PlanChanged:
		summary := planSummary(result.Stdout.OrZero())
		logger.Warn("Drift detected",
			logfields.ExitCode(result.ExitCode),
			slog.String("summary", summary))
	default:
		logger.Info("No drift detected")
	}

	if label == metrics.DriftClean {
		return
	}
	event := events.DriftEvent{
		Outcome:    string(label),
		ExitCode:   result.ExitCode,
		Workdir:    d.tf.WorkingDir(),
		CommitHash: commitHash,
		DetectedAt: time.Now().UTC(),
		Summary:    planSummary(result.Stdout.OrZero()),
	}
	if err != nil {
		event.Summary = err.Error()
	}
	d.publishDrift(event)
}

func (d *Daemon) publishDrift(event events.DriftEvent) {
	if d.publisher == nil {
		return
	}
	if err := d.publisher.PublishDrift(event); err != nil {
		d.logger.Warn("Failed to publish drift event", logfields.Error(err))
	}
}
