package terraform

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/tfdriver/internal/cliargs"
)

func TestPlanOutcomeClean(t *testing.T) {
	tf := newDriver(t, t.TempDir(), `exit 0`)

	outcome, result, err := tf.Plan(t.Context(), "", nil)
	require.NoError(t, err)
	require.Equal(t, PlanClean, outcome)
	require.Equal(t, 0, result.ExitCode)
}

func TestPlanOutcomeChangedIsNotAnError(t *testing.T) {
	tf := newDriver(t, t.TempDir(), `exit 2`)

	outcome, result, err := tf.Plan(t.Context(), "", nil)
	require.NoError(t, err)
	require.Equal(t, PlanChanged, outcome)
	require.Equal(t, 2, result.ExitCode)
}

func TestPlanOutcomeFailed(t *testing.T) {
	tf := newDriver(t, t.TempDir(), `echo "invalid configuration" >&2; exit 1`)

	outcome, _, err := tf.Plan(t.Context(), "", nil)
	require.Equal(t, PlanFailed, outcome)

	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	require.Equal(t, 1, cmdErr.ExitCode)
}

func TestPlanDefaultsDetailedExitcode(t *testing.T) {
	tf := newDriver(t, t.TempDir(), `echo "$@"`)

	_, result, err := tf.Plan(t.Context(), "", nil)
	require.NoError(t, err)
	stdout, _ := result.Stdout.Get()
	require.Contains(t, stdout, "-detailed-exitcode")
	require.Contains(t, stdout, "-input=false")
	require.Contains(t, stdout, "-no-color")
}

func TestPlanIncludesConfiguredInstanceOptions(t *testing.T) {
	tf := newDriver(t, t.TempDir(), `echo "$@"`,
		WithState("custom.tfstate"),
		WithTargets("aws_instance.a"),
		WithParallelism(5),
	)

	_, result, err := tf.Plan(t.Context(), "", nil)
	require.NoError(t, err)

	stdout, _ := result.Stdout.Get()
	require.Contains(t, stdout, "-state=custom.tfstate")
	require.Contains(t, stdout, "-target=aws_instance.a")
	require.Contains(t, stdout, "-parallelism=5")
}

func TestPlanExtraOptionOverridesDefault(t *testing.T) {
	tf := newDriver(t, t.TempDir(), `echo "$@"`)

	_, result, err := tf.Plan(t.Context(), "", cliargs.Options{
		"input": cliargs.Bool(true),
	})
	require.NoError(t, err)

	stdout, _ := result.Stdout.Get()
	require.Contains(t, stdout, "-input=true")
	require.NotContains(t, stdout, "-input=false")
}

func TestPlanSuppressDefaultOption(t *testing.T) {
	tf := newDriver(t, t.TempDir(), `echo "$@"`)

	_, result, err := tf.Plan(t.Context(), "", cliargs.Options{
		"no_color": cliargs.NoFlag(),
	})
	require.NoError(t, err)

	stdout, _ := result.Stdout.Get()
	require.NotContains(t, stdout, "-no-color")
}

func TestInitPassesBackendConfig(t *testing.T) {
	tf := newDriver(t, t.TempDir(), `echo "$@"`)

	result, err := tf.Init(t.Context(), "", map[string]string{
		"bucket": "state-bucket",
	}, nil)
	require.NoError(t, err)

	stdout, _ := result.Stdout.Get()
	require.Contains(t, stdout, "init")
	require.Contains(t, stdout, "-backend-config=bucket=state-bucket")
	require.Contains(t, stdout, "-backend=true")
	require.Contains(t, stdout, "-reconfigure")
}

func TestApplyForcesAutoApprove(t *testing.T) {
	tf := newDriver(t, t.TempDir(), `echo "$@"`)

	result, err := tf.Apply(t.Context(), "", nil)
	require.NoError(t, err)

	stdout, _ := result.Stdout.Get()
	require.Contains(t, stdout, "apply")
	require.Contains(t, stdout, "-auto-approve")
	require.Contains(t, stdout, "-input=false")
}

func TestDestroyForcesAutoApprove(t *testing.T) {
	tf := newDriver(t, t.TempDir(), `echo "$@"`)

	result, err := tf.Destroy(t.Context(), "", nil)
	require.NoError(t, err)

	stdout, _ := result.Stdout.Get()
	require.Contains(t, stdout, "destroy")
	require.Contains(t, stdout, "-auto-approve")
}

func TestImportPositionals(t *testing.T) {
	tf := newDriver(t, t.TempDir(), `echo "$@"`)

	result, err := tf.Import(t.Context(), "aws_instance.foo", "i-abcd1234", nil)
	require.NoError(t, err)

	stdout, _ := result.Stdout.Get()
	require.Contains(t, stdout, "import")
	require.Contains(t, stdout, "aws_instance.foo i-abcd1234")
	require.NotContains(t, stdout, "-input")
}

const outputScript = `
shift # drop "output"
name=""
for a in "$@"; do
  case "$a" in
    -*) ;;
    *) name="$a" ;;
  esac
done
if [ -n "$name" ]; then
  echo '"https://example.test"'
else
  echo '{"endpoint": {"value": "https://example.test", "type": "string", "sensitive": false}}'
fi`

func TestOutputReturnsDescriptorMap(t *testing.T) {
	tf := newDriver(t, t.TempDir(), outputScript)

	outputs, err := tf.Output(t.Context(), nil)
	require.NoError(t, err)
	require.Contains(t, outputs, "endpoint")

	descriptor, ok := outputs["endpoint"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "https://example.test", descriptor["value"])
}

func TestOutputValueReturnsSingleValue(t *testing.T) {
	tf := newDriver(t, t.TempDir(), outputScript)

	value, err := tf.OutputValue(t.Context(), "endpoint", nil)
	require.NoError(t, err)
	require.Equal(t, "https://example.test", value)
}

func TestOutputDescriptorForName(t *testing.T) {
	tf := newDriver(t, t.TempDir(), outputScript)

	descriptor, err := tf.OutputDescriptor(t.Context(), "endpoint", nil)
	require.NoError(t, err)
	require.Equal(t, "string", descriptor["type"])
}

func TestOutputSubprocessFailureIsNoResult(t *testing.T) {
	tf := newDriver(t, t.TempDir(), `exit 1`)

	outputs, err := tf.Output(t.Context(), nil)
	require.NoError(t, err)
	require.Nil(t, outputs)
}

func TestOutputMalformedJSONIsError(t *testing.T) {
	tf := newDriver(t, t.TempDir(), `echo "not json"`)

	_, err := tf.Output(t.Context(), nil)
	require.Error(t, err)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
}

func TestWorkspaceSubcommandTokenOrder(t *testing.T) {
	tf := newDriver(t, t.TempDir(), `echo "$@"`)

	result, err := tf.SelectWorkspace(t.Context(), "staging")
	require.NoError(t, err)

	stdout, _ := result.Stdout.Get()
	require.Contains(t, stdout, "workspace select -no-color staging")
}

func TestShowWorkspaceTrims(t *testing.T) {
	tf := newDriver(t, t.TempDir(), `echo "default"`)

	name, err := tf.ShowWorkspace(t.Context())
	require.NoError(t, err)
	require.Equal(t, "default", name)
}

func TestListWorkspacesStripsMarker(t *testing.T) {
	tf := newDriver(t, t.TempDir(), `printf '  default\n* staging\n\n'`)

	names, err := tf.ListWorkspaces(t.Context())
	require.NoError(t, err)
	require.Equal(t, []string{"default", "staging"}, names)
}

func TestOutputOmitsInstanceDefaults(t *testing.T) {
	// terraform output accepts only -state/-json/-raw/-no-color; leaked
	// -input or -var-file tokens would make it exit nonzero and turn
	// every Output call into a silent (nil, nil).
	tf := newDriver(t, t.TempDir(), outputScript,
		WithVarFile("default.tfvars"),
		WithTargets("aws_instance.a"),
	)

	outputs, err := tf.Output(t.Context(), nil)
	require.NoError(t, err)
	require.Contains(t, outputs, "endpoint")

	require.True(t, strings.HasSuffix(tf.LatestCommand(), " output -json"), tf.LatestCommand())
}
