package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorderIsSafe(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveCommandDuration("plan", time.Second)
	r.IncCommandResult("plan", ResultSuccess)
	r.IncDriftCheck(DriftClean)
	r.SetManagedResources(3)
	r.SetStateSerial(7)
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var r *PrometheusRecorder
	r.ObserveCommandDuration("plan", time.Second)
	r.IncCommandResult("plan", ResultFailure)
	r.IncDriftCheck(DriftError)
	r.SetManagedResources(0)
	r.SetStateSerial(0)
}

func TestPrometheusRecorderRegistersAndCounts(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.ObserveCommandDuration("apply", 2*time.Second)
	r.IncCommandResult("apply", ResultSuccess)
	r.IncDriftCheck(DriftDetected)
	r.SetManagedResources(12)
	r.SetStateSerial(42)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	require.True(t, names["tfdriver_command_duration_seconds"])
	require.True(t, names["tfdriver_command_results_total"])
	require.True(t, names["tfdriver_drift_checks_total"])
	require.True(t, names["tfdriver_managed_resources"])
	require.True(t, names["tfdriver_state_serial"])
}
