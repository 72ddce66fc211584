package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDriftEventJSONShape(t *testing.T) {
	event := DriftEvent{
		Outcome:    "detected",
		ExitCode:   2,
		Workdir:    "/srv/infra",
		CommitHash: "abc123",
		DetectedAt: time.Unix(1700000000, 0).UTC(),
		Summary:    "Plan: 1 to add, 0 to change, 0 to destroy.",
	}

	payload, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	require.Equal(t, "detected", decoded["outcome"])
	require.Equal(t, float64(2), decoded["exit_code"])
	require.Equal(t, "/srv/infra", decoded["workdir"])
	require.Contains(t, decoded, "detected_at")
}

func TestDriftEventOmitsEmptyOptionalFields(t *testing.T) {
	payload, err := json.Marshal(DriftEvent{Outcome: "clean"})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	require.NotContains(t, decoded, "commit_hash")
	require.NotContains(t, decoded, "summary")
}
