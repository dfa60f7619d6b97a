package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/frbgen/internal/ir"
)

func poolFile(structs ...ir.ApiStruct) *ir.ApiFile {
	file := ir.NewApiFile()
	for _, s := range structs {
		file.StructPool[s.Name] = s
	}
	return file
}

func namedStruct(name string, fields ...ir.ApiField) ir.ApiStruct {
	if fields == nil {
		fields = []ir.ApiField{}
	}
	return ir.ApiStruct{Name: name, Fields: fields, IsFieldsNamed: true}
}

func field(name string, ty ir.ApiType) ir.ApiField {
	return ir.ApiField{Name: name, Type: ty}
}

// TestAnalyzeStructCycles_Empty tests that empty input produces no warnings.
func TestAnalyzeStructCycles_Empty(t *testing.T) {
	assert.Empty(t, AnalyzeStructCycles(nil))
	assert.Empty(t, AnalyzeStructCycles(ir.NewApiFile()))
}

// TestAnalyzeStructCycles_DAG tests that acyclic references produce no warnings.
func TestAnalyzeStructCycles_DAG(t *testing.T) {
	file := poolFile(
		namedStruct("Line", field("a", ir.StructRef{Name: "Point"}), field("b", ir.StructRef{Name: "Point"})),
		namedStruct("Point", field("x", ir.Primitive{Kind: ir.F64})),
		namedStruct("Path", field("lines", ir.GeneralList{Inner: ir.StructRef{Name: "Line"}})),
	)

	assert.Empty(t, AnalyzeStructCycles(file), "DAG should produce no cycle warnings")
}

// TestAnalyzeStructCycles_BoxedSelfLoop tests that recursion through Box is info.
func TestAnalyzeStructCycles_BoxedSelfLoop(t *testing.T) {
	file := poolFile(
		namedStruct("List",
			field("value", ir.Primitive{Kind: ir.I32}),
			field("next", ir.Boxed{Inner: ir.StructRef{Name: "List"}, ExistInRealAPI: true})),
	)

	warnings := AnalyzeStructCycles(file)
	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"List", "List"}, warnings[0].Path)
	assert.Equal(t, "info", warnings[0].Level)
	assert.Contains(t, warnings[0].Message, "Self-referential")
}

// TestAnalyzeStructCycles_DirectSelfLoop tests that by-value recursion is a warning.
func TestAnalyzeStructCycles_DirectSelfLoop(t *testing.T) {
	file := poolFile(
		namedStruct("Node", field("inner", ir.StructRef{Name: "Node"})),
	)

	warnings := AnalyzeStructCycles(file)
	require.Len(t, warnings, 1)
	assert.Equal(t, "warning", warnings[0].Level)
}

// TestAnalyzeStructCycles_MixedEdges tests that one by-value reference between
// the same pair of structs makes the edge direct.
func TestAnalyzeStructCycles_MixedEdges(t *testing.T) {
	file := poolFile(
		namedStruct("Node",
			field("children", ir.GeneralList{Inner: ir.StructRef{Name: "Node"}}),
			field("twin", ir.StructRef{Name: "Node"})),
	)

	warnings := AnalyzeStructCycles(file)
	require.Len(t, warnings, 1)
	assert.Equal(t, "warning", warnings[0].Level)
}

// TestAnalyzeStructCycles_MutualRecursion tests a two-struct cycle.
func TestAnalyzeStructCycles_MutualRecursion(t *testing.T) {
	file := poolFile(
		namedStruct("Edge", field("target", ir.Boxed{Inner: ir.StructRef{Name: "Node"}, ExistInRealAPI: true})),
		namedStruct("Node", field("edges", ir.GeneralList{Inner: ir.StructRef{Name: "Edge"}})),
		namedStruct("Label", field("id", ir.Primitive{Kind: ir.U32})),
	)

	warnings := AnalyzeStructCycles(file)
	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"Edge", "Node", "Edge"}, warnings[0].Path)
	assert.Equal(t, "info", warnings[0].Level)
	assert.Equal(t, "Recursive struct group: Edge → Node → Edge", warnings[0].Message)
}

// TestAnalyzeStructCycles_BranchingGroupPathIsClosed tests that a group whose
// walk dead-ends away from the start still reports a path back to the start.
func TestAnalyzeStructCycles_BranchingGroupPathIsClosed(t *testing.T) {
	boxed := func(name string) ir.ApiType {
		return ir.Boxed{Inner: ir.StructRef{Name: name}, ExistInRealAPI: true}
	}
	file := poolFile(
		namedStruct("A", field("b", boxed("B"))),
		namedStruct("B", field("a", boxed("A")), field("c", ir.StructRef{Name: "C"})),
		namedStruct("C", field("b", boxed("B"))),
	)

	warnings := AnalyzeStructCycles(file)
	require.Len(t, warnings, 1)
	path := warnings[0].Path
	assert.Equal(t, []string{"A", "B", "C", "B", "A"}, path)
	assert.Equal(t, "Recursive struct group: A → B → C → B → A", warnings[0].Message)

	graph, _ := buildReferenceGraph(file)
	for i := 0; i+1 < len(path); i++ {
		assert.Contains(t, graph[path[i]], path[i+1], "%s → %s should be an edge", path[i], path[i+1])
	}
	assert.Equal(t, "warning", warnings[0].Level, "B holds C by value")
}

// TestAnalyzeStructCycles_LevelCoversWholeGroup tests that a by-value edge
// anywhere in the group makes it a warning.
func TestAnalyzeStructCycles_LevelCoversWholeGroup(t *testing.T) {
	boxed := func(name string) ir.ApiType {
		return ir.Boxed{Inner: ir.StructRef{Name: name}, ExistInRealAPI: true}
	}
	file := poolFile(
		namedStruct("A", field("b", boxed("B"))),
		namedStruct("B", field("a", boxed("A")), field("c", boxed("C"))),
		namedStruct("C", field("b", ir.StructRef{Name: "B"})),
	)

	warnings := AnalyzeStructCycles(file)
	require.Len(t, warnings, 1)
	assert.Equal(t, "warning", warnings[0].Level, "C holds B by value")
	assert.Equal(t, "A", warnings[0].Path[0])
	assert.Equal(t, "A", warnings[0].Path[len(warnings[0].Path)-1])
}

// TestShortestPath tests the breadth-first search used to close cycle paths.
func TestShortestPath(t *testing.T) {
	graph := referenceGraph{
		"A": {"B"},
		"B": {"C", "D"},
		"C": {"A"},
		"D": {"C"},
	}
	members := memberSet([]string{"A", "B", "C", "D"})

	assert.Equal(t, []string{"B", "C", "A"}, shortestPath("B", "A", members, graph))
	assert.Equal(t, []string{"D", "C", "A", "B"}, shortestPath("D", "B", members, graph))
	assert.Nil(t, shortestPath("A", "D", memberSet([]string{"A", "B"}), graph))
}

// TestAnalyzeStructCycles_MultipleGroups tests ordering of independent cycles.
func TestAnalyzeStructCycles_MultipleGroups(t *testing.T) {
	file := poolFile(
		namedStruct("Zeta", field("z", ir.StructRef{Name: "Zeta"})),
		namedStruct("Alpha", field("b", ir.StructRef{Name: "Beta"})),
		namedStruct("Beta", field("a", ir.GeneralList{Inner: ir.StructRef{Name: "Alpha"}})),
	)

	warnings := AnalyzeStructCycles(file)
	require.Len(t, warnings, 2)
	assert.Equal(t, "Alpha", warnings[0].Path[0])
	assert.Equal(t, "warning", warnings[0].Level, "Alpha holds Beta by value")
	assert.Equal(t, "Zeta", warnings[1].Path[0])
}

// TestAnalyzeStructCycles_FromResolver tests the analysis on resolver output.
func TestAnalyzeStructCycles_FromResolver(t *testing.T) {
	file := mustResolve(t, `
pub struct Tree {
    pub children: Vec<Tree>,
}

pub fn walk(t: Tree) -> Result<i32> { Ok(0) }
`)

	warnings := AnalyzeStructCycles(file)
	require.Len(t, warnings, 1)
	assert.Equal(t, "info", warnings[0].Level)
}
