// Package metrics defines observability hooks for command invocations and
// drift detection. Implementations may forward to Prometheus; the noop
// recorder is the default when metrics are not configured.
package metrics

import "time"

// ResultLabel categorizes invocation outcomes for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailure ResultLabel = "failure"
)

// DriftLabel categorizes drift check outcomes.
type DriftLabel string

const (
	DriftClean    DriftLabel = "clean"
	DriftDetected DriftLabel = "detected"
	DriftError    DriftLabel = "error"
)

// Recorder receives command and drift observations. All methods must be
// safe on the zero NoopRecorder so injection stays optional.
type Recorder interface {
	ObserveCommandDuration(command string, d time.Duration)
	IncCommandResult(command string, result ResultLabel)
	IncDriftCheck(outcome DriftLabel)
	SetManagedResources(n int)
	SetStateSerial(serial int)
}

// NoopRecorder discards all observations.
type NoopRecorder struct{}

func (NoopRecorder) ObserveCommandDuration(string, time.Duration) {}
func (NoopRecorder) IncCommandResult(string, ResultLabel)         {}
func (NoopRecorder) IncDriftCheck(DriftLabel)                     {}
func (NoopRecorder) SetManagedResources(int)                      {}
func (NoopRecorder) SetStateSerial(int)                           {}
