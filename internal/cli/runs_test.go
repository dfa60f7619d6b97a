package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/frbgen/internal/ir"
	"github.com/roach88/frbgen/internal/store"
	"github.com/roach88/frbgen/internal/testutil"
)

func executeRuns(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()

	buf := &bytes.Buffer{}
	cmd := NewRunsCommand(&RootOptions{Format: format, Logger: testutil.DiscardLogger()})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

func executeShow(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()

	buf := &bytes.Buffer{}
	cmd := NewShowCommand(&RootOptions{Format: format, Logger: testutil.DiscardLogger()})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

// seedRuns resolves each source through the parse command and returns the
// database path and the run IDs in order.
func seedRuns(t *testing.T, sources ...string) (string, []string) {
	t.Helper()

	dir := t.TempDir()
	db := filepath.Join(dir, "frbgen.db")
	var ids []string
	for i, src := range sources {
		path := testutil.WriteFile(t, dir, filepath.Join("src", string(rune('a'+i))+".rs"), src)
		out, err := executeParse(t, "json", path, "--db", db)
		require.NoError(t, err, out)
		ids = append(ids, decodeParseResponse(t, out).Data.RunID)
	}
	return db, ids
}

func TestRunsRequiresDatabase(t *testing.T) {
	out, err := executeRuns(t, "text")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "no database")
}

func TestRunsMissingDatabase(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.db")

	out, err := executeRuns(t, "text", "--db", missing)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "database not found")
	assert.NoFileExists(t, missing)
}

func TestRunsText(t *testing.T) {
	db, ids := seedRuns(t,
		`pub fn one() -> Result<i32> { Ok(1) }`,
		testutil.PointSource,
	)

	out, err := executeRuns(t, "text", "--db", db)
	require.NoError(t, err)

	assert.Contains(t, out, "SEQ")
	assert.Contains(t, out, ids[0])
	assert.Contains(t, out, ids[1])
	assert.Less(t, bytes.Index([]byte(out), []byte(ids[1])), bytes.Index([]byte(out), []byte(ids[0])),
		"newest run should be listed first")
}

func TestRunsJSONLimit(t *testing.T) {
	db, ids := seedRuns(t,
		`pub fn one() -> Result<i32> { Ok(1) }`,
		`pub fn two() -> Result<i32> { Ok(2) }`,
		`pub fn three() -> Result<i32> { Ok(3) }`,
	)

	out, err := executeRuns(t, "json", "--db", db, "--limit", "2")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   RunsResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Equal(t, 2, resp.Data.Count)
	assert.Equal(t, ids[2], resp.Data.Runs[0].ID)
	assert.Equal(t, ids[1], resp.Data.Runs[1].ID)
	assert.Nil(t, resp.Data.Runs[0].File, "listing does not load IR")
}

func TestRunsEmpty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "frbgen.db")
	st, err := store.Open(db)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, err := executeRuns(t, "text", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded.")
}

func TestShowText(t *testing.T) {
	db, ids := seedRuns(t, testutil.PointSource)

	out, err := executeShow(t, "text", ids[0], "--db", db)
	require.NoError(t, err)

	assert.Contains(t, out, "Run "+ids[0]+" (seq 1)")
	assert.Contains(t, out, "IR version "+ir.IRVersion)
	assert.Contains(t, out, "scale(p: Point, factor: f64) -> Point")
	assert.Contains(t, out, "Point { x: f64, y: f64 }")
	assert.Contains(t, out, "[info] Self-referential struct: Path → Path")
}

func TestShowJSON(t *testing.T) {
	db, ids := seedRuns(t, testutil.PointSource)

	out, err := executeShow(t, "json", ids[0], "--db", db)
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   ShowResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, ids[0], resp.Data.ID)
	require.NotNil(t, resp.Data.File)
	assert.Equal(t, ir.MustFileHash(resp.Data.File), resp.Data.IRHash)
	require.Len(t, resp.Data.Cycles, 1)
	assert.Equal(t, []string{"Path", "Path"}, resp.Data.Cycles[0].Path)
}

func TestShowTupleStruct(t *testing.T) {
	db, ids := seedRuns(t, `
pub struct Pair(pub i32, pub String);
pub fn swap(p: Pair) -> Result<Pair> { Ok(p) }
`)

	out, err := executeShow(t, "text", ids[0], "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Pair(i32, String)")
}

func TestShowRunNotFound(t *testing.T) {
	db, _ := seedRuns(t, testutil.PointSource)

	out, err := executeShow(t, "json", "no-such-run", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
}

func TestShowInvalidStoredIR(t *testing.T) {
	db := filepath.Join(t.TempDir(), "frbgen.db")
	st, err := store.Open(db)
	require.NoError(t, err)

	file := ir.NewApiFile()
	file.Funcs = append(file.Funcs, ir.ApiFunc{
		Name:   "f",
		Inputs: []ir.ApiField{{Name: "p", Type: ir.StructRef{Name: "Ghost"}}},
		Output: ir.Primitive{Kind: ir.Unit},
	})
	run, err := st.WriteRun(context.Background(), store.RunInput{
		SourcePath: "ghost.rs",
		SourceHash: ir.SourceHash([]byte("ghost")),
		File:       file,
	})
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, err := executeShow(t, "text", run.ID, "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error ["+ErrCodeInvalidIR+"]")
	assert.Contains(t, out, `struct "Ghost" is not in the pool`)
}
