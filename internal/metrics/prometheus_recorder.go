package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder backed by prometheus metrics.
type PrometheusRecorder struct {
	commandDuration  *prom.HistogramVec
	commandResults   *prom.CounterVec
	driftChecks      *prom.CounterVec
	managedResources prom.Gauge
	stateSerial      prom.Gauge
}

// NewPrometheusRecorder constructs and registers the metric set on reg
// (a fresh registry when nil).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		commandDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "tfdriver",
			Name:      "command_duration_seconds",
			Help:      "Duration of terraform command invocations",
			Buckets:   prom.DefBuckets,
		}, []string{"command"}),
		commandResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "tfdriver",
			Name:      "command_results_total",
			Help:      "Command invocation outcomes by result",
		}, []string{"command", "result"}),
		driftChecks: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "tfdriver",
			Name:      "drift_checks_total",
			Help:      "Scheduled drift check outcomes",
		}, []string{"outcome"}),
		managedResources: prom.NewGauge(prom.GaugeOpts{
			Namespace: "tfdriver",
			Name:      "managed_resources",
			Help:      "Resource count in the most recently loaded state",
		}),
		stateSerial: prom.NewGauge(prom.GaugeOpts{
			Namespace: "tfdriver",
			Name:      "state_serial",
			Help:      "Serial of the most recently loaded state",
		}),
	}
	reg.MustRegister(pr.commandDuration, pr.commandResults, pr.driftChecks, pr.managedResources, pr.stateSerial)
	return pr
}

func (p *PrometheusRecorder) ObserveCommandDuration(command string, d time.Duration) {
	if p == nil || p.commandDuration == nil {
		return
	}
	p.commandDuration.WithLabelValues(command).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncCommandResult(command string, result ResultLabel) {
	if p == nil || p.commandResults == nil {
		return
	}
	p.commandResults.WithLabelValues(command, string(result)).Inc()
}

func (p *PrometheusRecorder) IncDriftCheck(outcome DriftLabel) {
	if p == nil || p.driftChecks == nil {
		return
	}
	p.driftChecks.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetManagedResources(n int) {
	if p == nil || p.managedResources == nil {
		return
	}
	p.managedResources.Set(float64(n))
}

func (p *PrometheusRecorder) SetStateSerial(serial int) {
	if p == nil || p.stateSerial == nil {
		return
	}
	p.stateSerial.Set(float64(serial))
}

// HTTPHandler serves the registry in Prometheus exposition format.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
