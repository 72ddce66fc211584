package daemon

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/tfdriver/internal/metrics"
	"git.home.luguber.info/inful/tfdriver/internal/terraform"
)

func TestDriftLabelMapping(t *testing.T) {
	require.Equal(t, metrics.DriftClean, driftLabel(terraform.PlanClean))
	require.Equal(t, metrics.DriftDetected, driftLabel(terraform.PlanChanged))
	require.Equal(t, metrics.DriftError, driftLabel(terraform.PlanFailed))
}

func TestPlanSummaryExtraction(t *testing.T) {
	stdout := `Terraform will perform the following actions:

  # aws_instance.web will be created

Plan: 1 to add, 0 to change, 0 to destroy.

Note: you did not use the -out option.
`
	require.Equal(t, "Plan: 1 to add, 0 to change, 0 to destroy.", planSummary(stdout))
}

func TestPlanSummaryAbsent(t *testing.T) {
	require.Equal(t, "", planSummary("No changes. Your infrastructure matches the configuration."))
}
