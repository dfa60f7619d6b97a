package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/frbgen/internal/testutil"
)

var (
	scenariosDir = filepath.Join("..", "harness", "testdata", "scenarios")
	goldenDir    = filepath.Join("..", "harness", "testdata", "golden")
)

func executeTest(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: format, Logger: testutil.DiscardLogger()}
	cmd := NewTestCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

func TestTestCommandMissingArgs(t *testing.T) {
	_, err := executeTest(t, "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	_, err := executeTest(t, "text", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenarios directory not found")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommandEmptyScenariosDir(t *testing.T) {
	out, err := executeTest(t, "text", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")
}

func TestTestCommandEmptyScenariosDirJSON(t *testing.T) {
	out, err := executeTest(t, "json", t.TempDir())
	require.NoError(t, err)

	var result TestResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 0, result.Total)
	assert.Empty(t, result.Scenarios)
}

func TestTestCommandRunsConformanceScenarios(t *testing.T) {
	out, err := executeTest(t, "text", scenariosDir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ a_primitive_add")
	assert.Contains(t, out, "✓ h_error_unrecognized")
	assert.Contains(t, out, "0 failed")
}

func TestTestCommandComparesGolden(t *testing.T) {
	out, err := executeTest(t, "json", scenariosDir, "--golden", goldenDir)
	require.NoError(t, err, out)

	var result TestResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, result.Total, result.Passed)
	assert.Positive(t, result.Total)
}

func TestTestCommandFilter(t *testing.T) {
	out, err := executeTest(t, "json", scenariosDir, "--filter", "*_error_*")
	require.NoError(t, err)

	var result TestResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Equal(t, 4, result.Total)
	for _, s := range result.Scenarios {
		assert.Contains(t, s.Name, "_error_")
	}
}

func TestTestCommandInvalidFilter(t *testing.T) {
	_, err := executeTest(t, "text", scenariosDir, "--filter", "[")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommandUpdateRequiresGolden(t *testing.T) {
	_, err := executeTest(t, "text", scenariosDir, "--update")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--update requires --golden")
}

func TestTestCommandUpdateWritesGolden(t *testing.T) {
	golden := filepath.Join(t.TempDir(), "golden")

	out, err := executeTest(t, "text", scenariosDir, "--filter", "a_*", "--golden", golden, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "golden updated")

	written, err := os.ReadFile(filepath.Join(golden, "a_primitive_add.golden"))
	require.NoError(t, err)
	expected, err := os.ReadFile(filepath.Join(goldenDir, "a_primitive_add.golden"))
	require.NoError(t, err)
	assert.Equal(t, string(bytes.TrimSpace(expected)), string(written))

	// A second run compares against what was just written.
	_, err = executeTest(t, "text", scenariosDir, "--filter", "a_*", "--golden", golden)
	require.NoError(t, err)
}

func TestTestCommandGoldenMismatch(t *testing.T) {
	golden := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(golden, "a_primitive_add.golden"), []byte(`{}`), 0644))

	out, err := executeTest(t, "text", scenariosDir, "--filter", "a_*", "--golden", golden)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "does not match golden file")
}

func TestTestCommandFailingScenario(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "wrong.yaml", `name: wrong
description: "expects a function that is not there"
source: |
  pub fn add(a: i32) -> Result<i32> { Ok(a) }
expect:
  funcs: [sub]
`)

	out, err := executeTest(t, "text", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ wrong")
	assert.Contains(t, out, "1 failed")
}

func TestTestCommandMalformedScenario(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "bad.yaml", "name: bad\nsorce: typo\n")

	_, err := executeTest(t, "text", dir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "bad.yaml")
}

func TestTestHelpText(t *testing.T) {
	cmd := NewTestCommand(&RootOptions{Format: "text"})

	assert.Contains(t, cmd.Long, "Exit codes")
	assert.Contains(t, cmd.Long, "--golden")
	assert.NotNil(t, cmd.Flags().Lookup("update"))
	assert.NotNil(t, cmd.Flags().Lookup("filter"))
	assert.NotNil(t, cmd.Flags().Lookup("golden"))
}
