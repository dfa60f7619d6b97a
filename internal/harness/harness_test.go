package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ConformanceScenarios(t *testing.T) {
	scenarios, err := LoadScenarios(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, scenario := range scenarios {
		t.Run(scenario.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "scenario failed:\n%s", strings.Join(result.Errors, "\n"))
		})
	}
}

func TestRun_ResolvedFileRoundTripsThroughStore(t *testing.T) {
	result, err := Run(&Scenario{
		Name:        "round_trip",
		Description: "round trip",
		Source:      "pub struct P { pub v: Vec<Box<P>> }\npub fn f(p: P) -> Result<Vec<P>> { todo!() }\n",
	})
	require.NoError(t, err)

	require.NotNil(t, result.File)
	assert.NotEmpty(t, result.IRHash)
	assert.True(t, result.Pass, strings.Join(result.Errors, "\n"))
	require.Len(t, result.Cycles, 1)
	assert.Equal(t, "info", result.Cycles[0].Level)
}

func TestRun_ExpectMismatchFails(t *testing.T) {
	result, err := Run(&Scenario{
		Name:        "mismatch",
		Description: "expects the wrong function list",
		Source:      "pub fn a() -> Result<()> { Ok(()) }\npub fn b() -> Result<()> { Ok(()) }\n",
		Expect:      Expect{Funcs: []string{"b", "a"}},
	})
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "expect.funcs")
}

func TestRun_UnexpectedErrorFails(t *testing.T) {
	result, err := Run(&Scenario{
		Name:        "unexpected",
		Description: "source does not resolve",
		Source:      "pub fn a(w: Widget) -> Result<()> { Ok(()) }\n",
		Expect:      Expect{Funcs: []string{"a"}},
	})
	require.NoError(t, err)

	assert.False(t, result.Pass)
	assert.Nil(t, result.File)
	assert.Equal(t, "UnrecognizedType", result.ErrorKind)
	assert.Equal(t, "Widget", result.ErrorSubject)
}

func TestRun_ExpectedErrorMissingFails(t *testing.T) {
	result, err := Run(&Scenario{
		Name:        "missing_error",
		Description: "source resolves but an error was expected",
		Source:      "pub fn a() -> Result<()> { Ok(()) }\n",
		Expect:      Expect{Error: "UnrecognizedType"},
	})
	require.NoError(t, err)

	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "resolved successfully")
}

func TestRun_SyntaxErrorHasNoKind(t *testing.T) {
	result, err := Run(&Scenario{
		Name:        "syntax",
		Description: "broken source",
		Source:      "pub fn broken( -> {",
		Expect:      Expect{Error: "UnrecognizedType"},
	})
	require.NoError(t, err)

	assert.False(t, result.Pass)
	assert.Empty(t, result.ErrorKind)
	assert.Contains(t, result.ErrorMessage, "syntax error")
}
