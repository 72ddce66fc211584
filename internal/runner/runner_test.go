package runner

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunCapturesOutput(t *testing.T) {
	r := New(nil)

	result, err := r.Run(t.Context(), Spec{
		Tokens:      []string{"sh", "-c", "echo out; echo err >&2"},
		Capture:     CaptureBuffered,
		Synchronous: true,
	})
	require.NoError(t, err)
	require.True(t, result.Completed)
	require.Equal(t, 0, result.ExitCode)

	stdout, ok := result.Stdout.Get()
	require.True(t, ok)
	require.Equal(t, "out\n", stdout)

	stderr, ok := result.Stderr.Get()
	require.True(t, ok)
	require.Equal(t, "err\n", stderr)
}

func TestRunNonzeroExitIsNotAnError(t *testing.T) {
	r := New(nil)

	result, err := r.Run(t.Context(), Spec{
		Tokens:      []string{"sh", "-c", "echo failure >&2; exit 3"},
		Capture:     CaptureBuffered,
		Synchronous: true,
	})
	require.NoError(t, err)
	require.Equal(t, 3, result.ExitCode)

	stderr, ok := result.Stderr.Get()
	require.True(t, ok)
	require.Equal(t, "failure\n", stderr)
}

func TestRunSuppressedCarriesNoText(t *testing.T) {
	r := New(nil)

	result, err := r.Run(t.Context(), Spec{
		Tokens:      []string{"sh", "-c", "echo swallowed"},
		Capture:     CaptureSuppressed,
		Synchronous: true,
	})
	require.NoError(t, err)
	require.Equal(t, 0, result.ExitCode)
	require.True(t, result.Stdout.IsNone())
	require.True(t, result.Stderr.IsNone())
}

func TestRunCapturedEmptyIsPresent(t *testing.T) {
	r := New(nil)

	result, err := r.Run(t.Context(), Spec{
		Tokens:      []string{"true"},
		Capture:     CaptureBuffered,
		Synchronous: true,
	})
	require.NoError(t, err)

	stdout, ok := result.Stdout.Get()
	require.True(t, ok)
	require.Equal(t, "", stdout)
}

func TestRunWorkingDirectory(t *testing.T) {
	r := New(nil)
	dir := t.TempDir()

	result, err := r.Run(t.Context(), Spec{
		Tokens:      []string{"pwd"},
		Dir:         dir,
		Capture:     CaptureBuffered,
		Synchronous: true,
	})
	require.NoError(t, err)

	stdout, _ := result.Stdout.Get()
	require.Contains(t, stdout, dir)
}

func TestRunEnvironmentInclusion(t *testing.T) {
	r := New(nil)
	t.Setenv("TFDRIVER_TEST_MARKER", "present")

	withEnv, err := r.Run(t.Context(), Spec{
		Tokens:      []string{"sh", "-c", "echo $TFDRIVER_TEST_MARKER"},
		InheritEnv:  true,
		Capture:     CaptureBuffered,
		Synchronous: true,
	})
	require.NoError(t, err)
	stdout, _ := withEnv.Stdout.Get()
	require.Equal(t, "present\n", stdout)

	withoutEnv, err := r.Run(t.Context(), Spec{
		Tokens:      []string{"sh", "-c", "echo $TFDRIVER_TEST_MARKER"},
		InheritEnv:  false,
		Capture:     CaptureBuffered,
		Synchronous: true,
	})
	require.NoError(t, err)
	stdout, _ = withoutEnv.Stdout.Get()
	require.Equal(t, "\n", stdout)
}

func TestRunAsynchronousReturnsPendingResult(t *testing.T) {
	r := New(nil)

	result, err := r.Run(t.Context(), Spec{
		Tokens:      []string{"sh", "-c", "sleep 0.05"},
		Capture:     CaptureSuppressed,
		Synchronous: false,
	})
	require.NoError(t, err)
	require.False(t, result.Completed)
	require.True(t, result.Stdout.IsNone())
	require.True(t, result.Stderr.IsNone())
}

func TestRunMissingBinary(t *testing.T) {
	r := New(nil)

	_, err := r.Run(t.Context(), Spec{
		Tokens:      []string{"definitely-not-a-real-binary-12345"},
		Capture:     CaptureBuffered,
		Synchronous: true,
	})
	require.Error(t, err)
}

func TestRunEmptyTokens(t *testing.T) {
	r := New(nil)

	_, err := r.Run(t.Context(), Spec{Synchronous: true})
	require.Error(t, err)
}
