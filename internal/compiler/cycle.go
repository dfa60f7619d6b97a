package compiler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/frbgen/internal/ir"
)

// CycleWarning describes a group of structs that reference each other.
//
// Recursive structs are legal IR (the registrar terminates on them), so they
// are reported as diagnostics for the emission stage, not as errors:
//   - Level "info": every reference inside the group goes through Box or Vec
//   - Level "warning": at least one reference is held by value
type CycleWarning struct {
	Path    []string `json:"path"`    // Cycle path: ["Node", "Edge", "Node"]
	Message string   `json:"message"` // Human-readable description
	Level   string   `json:"level"`   // "warning" or "info"
}

// AnalyzeStructCycles finds recursive struct groups in the struct pool.
//
// The algorithm:
//  1. Build a struct → referenced-struct graph from every field type
//  2. Use Tarjan's algorithm to find strongly connected components
//  3. Report each SCC with size > 1, or with a self-loop, as one warning
//
// Output is sorted by the first element of each path so results are stable.
// An acyclic pool returns an empty list.
func AnalyzeStructCycles(file *ir.ApiFile) []CycleWarning {
	if file == nil || len(file.StructPool) == 0 {
		return []CycleWarning{}
	}

	graph, indirect := buildReferenceGraph(file)
	sccs := tarjanSCC(graph)

	warnings := []CycleWarning{}
	for _, scc := range sccs {
		if len(scc) > 1 || (len(scc) == 1 && hasSelfLoop(scc[0], graph)) {
			warnings = append(warnings, cycleSCCToWarning(scc, graph, indirect))
		}
	}

	sort.Slice(warnings, func(i, j int) bool {
		return warnings[i].Path[0] < warnings[j].Path[0]
	})
	return warnings
}

// referenceGraph maps struct name → names of structs its fields reference.
type referenceGraph map[string][]string

// edgeKey identifies a from → to reference.
type edgeKey struct{ from, to string }

// buildReferenceGraph constructs the graph and records, per edge, whether
// every reference along it is behind an indirection (Box or Vec).
func buildReferenceGraph(file *ir.ApiFile) (referenceGraph, map[edgeKey]bool) {
	graph := make(referenceGraph)
	indirect := make(map[edgeKey]bool)

	for _, name := range file.StructNames() {
		s := file.StructPool[name]
		seen := make(map[string]bool)
		graph[name] = []string{}

		for _, field := range s.Fields {
			collectRefs(field.Type, false, func(to string, viaIndirection bool) {
				key := edgeKey{from: name, to: to}
				if prev, ok := indirect[key]; ok {
					indirect[key] = prev && viaIndirection
				} else {
					indirect[key] = viaIndirection
				}
				if !seen[to] {
					seen[to] = true
					graph[name] = append(graph[name], to)
				}
			})
		}
		sort.Strings(graph[name])
	}

	return graph, indirect
}

func collectRefs(ty ir.ApiType, viaIndirection bool, visit func(string, bool)) {
	switch t := ty.(type) {
	case ir.StructRef:
		visit(t.Name, viaIndirection)
	case ir.GeneralList:
		collectRefs(t.Inner, true, visit)
	case ir.Boxed:
		collectRefs(t.Inner, true, visit)
	}
}

// hasSelfLoop checks if a node has an edge to itself.
func hasSelfLoop(node string, graph referenceGraph) bool {
	for _, neighbor := range graph[node] {
		if neighbor == node {
			return true
		}
	}
	return false
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
// Nodes are visited in sorted order.
func tarjanSCC(graph referenceGraph) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		// v is a root node: pop the stack and emit an SCC
		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sort.Strings(scc)
			sccs = append(sccs, scc)
		}
	}

	nodes := make([]string, 0, len(graph))
	for node := range graph {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)

	for _, node := range nodes {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}

	return sccs
}

// cycleSCCToWarning converts an SCC to a CycleWarning. The level covers
// every edge between members of the group, not only those on the reported path.
func cycleSCCToWarning(scc []string, graph referenceGraph, indirect map[edgeKey]bool) CycleWarning {
	var path []string
	if len(scc) == 1 {
		path = []string{scc[0], scc[0]}
	} else {
		path = reconstructCyclePath(scc, graph)
	}

	level := "info"
	if !groupIsIndirect(scc, graph, indirect) {
		level = "warning"
	}

	if len(scc) == 1 {
		return CycleWarning{
			Path:    path,
			Message: fmt.Sprintf("Self-referential struct: %s → %s", scc[0], scc[0]),
			Level:   level,
		}
	}
	return CycleWarning{
		Path:    path,
		Message: fmt.Sprintf("Recursive struct group: %s", strings.Join(path, " → ")),
		Level:   level,
	}
}

// groupIsIndirect reports whether every reference between members of the
// group goes through Box or Vec.
func groupIsIndirect(scc []string, graph referenceGraph, indirect map[edgeKey]bool) bool {
	members := memberSet(scc)
	for _, from := range scc {
		for _, to := range graph[from] {
			if members[to] && !indirect[edgeKey{from: from, to: to}] {
				return false
			}
		}
	}
	return true
}

// reconstructCyclePath builds a closed walk through an SCC.
//
// Starting at the first node it follows edges to unvisited members for as
// long as it can, then returns to the start along the shortest route inside
// the group. The result always begins and ends with the start node.
func reconstructCyclePath(scc []string, graph referenceGraph) []string {
	if len(scc) == 0 {
		return []string{}
	}

	members := memberSet(scc)
	start := scc[0]
	path := []string{start}
	visited := map[string]bool{start: true}
	current := start

	for {
		next := ""
		for _, neighbor := range graph[current] {
			if members[neighbor] && !visited[neighbor] {
				next = neighbor
				break
			}
		}
		if next == "" {
			break
		}
		visited[next] = true
		path = append(path, next)
		current = next
	}

	back := shortestPath(current, start, members, graph)
	if len(back) > 1 {
		path = append(path, back[1:]...)
	}
	return path
}

// shortestPath runs a breadth-first search from → to over edges between
// members. The returned path includes both ends, or is nil when to is
// unreachable.
func shortestPath(from, to string, members map[string]bool, graph referenceGraph) []string {
	prev := map[string]string{}
	seen := map[string]bool{from: true}
	queue := []string{from}

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for _, neighbor := range graph[node] {
			if !members[neighbor] {
				continue
			}
			if neighbor == to {
				path := []string{to, node}
				for node != from {
					node = prev[node]
					path = append(path, node)
				}
				for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
					path[i], path[j] = path[j], path[i]
				}
				return path
			}
			if !seen[neighbor] {
				seen[neighbor] = true
				prev[neighbor] = node
				queue = append(queue, neighbor)
			}
		}
	}
	return nil
}

func memberSet(scc []string) map[string]bool {
	members := make(map[string]bool, len(scc))
	for _, node := range scc {
		members[node] = true
	}
	return members
}
