package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestRecordAssignsID(t *testing.T) {
	j := openTestJournal(t)

	id, err := j.Record(t.Context(), Run{
		Command:   "plan",
		Args:      "terraform plan -no-color",
		ExitCode:  0,
		Success:   true,
		StartedAt: time.Now(),
		Duration:  2 * time.Second,
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)
}

func TestRecentNewestFirst(t *testing.T) {
	j := openTestJournal(t)
	base := time.Now().Add(-time.Hour)

	for i, cmd := range []string{"init", "plan", "apply"} {
		_, err := j.Record(t.Context(), Run{
			Command:   cmd,
			Args:      "terraform " + cmd,
			Success:   true,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	runs, err := j.Recent(t.Context(), 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, "apply", runs[0].Command)
	require.Equal(t, "plan", runs[1].Command)
}

func TestByCommand(t *testing.T) {
	j := openTestJournal(t)
	now := time.Now()

	for _, cmd := range []string{"plan", "apply", "plan"} {
		_, err := j.Record(t.Context(), Run{Command: cmd, StartedAt: now, Success: true})
		require.NoError(t, err)
		now = now.Add(time.Second)
	}

	runs, err := j.ByCommand(t.Context(), "plan", 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	for _, r := range runs {
		require.Equal(t, "plan", r.Command)
	}
}

func TestRoundTripFields(t *testing.T) {
	j := openTestJournal(t)
	started := time.Unix(1700000000, 0)

	_, err := j.Record(t.Context(), Run{
		Command:   "apply",
		Args:      "terraform apply -auto-approve",
		ExitCode:  1,
		Success:   false,
		StartedAt: started,
		Duration:  1500 * time.Millisecond,
	})
	require.NoError(t, err)

	runs, err := j.Recent(t.Context(), 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	r := runs[0]
	require.Equal(t, "apply", r.Command)
	require.Equal(t, 1, r.ExitCode)
	require.False(t, r.Success)
	require.True(t, r.StartedAt.Equal(started))
	require.Equal(t, 1500*time.Millisecond, r.Duration)
}

func TestOpenPersistsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := Open(path)
	require.NoError(t, err)
	_, err = j.Record(t.Context(), Run{Command: "init", StartedAt: time.Now(), Success: true})
	require.NoError(t, err)
	require.NoError(t, j.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	runs, err := reopened.Recent(t.Context(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
}
