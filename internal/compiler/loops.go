package compiler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/cilsym/internal/cil"
)

// LoopWarning reports a control-flow cycle in a method body.
//
// Loops are warnings, not errors: the stack machine replays the body once
// in offset order, so a loop compiles, but the stack state at its header is
// the one reached by fall-through only.
type LoopWarning struct {
	Path    []int  `json:"path"`    // block leader offsets: [0x10, 0x04, 0x10]
	Message string `json:"message"` // human-readable description
	Level   string `json:"level"`   // "warning"
}

// AnalyzeLoops splits body into basic blocks and reports every strongly
// connected component that forms a cycle (including a block branching to
// itself). A body without back edges returns an empty list.
//
// The algorithm:
//  1. Leaders are offset 0, every branch target and every instruction
//     following a branch or a non-falling-through instruction
//  2. Edges follow branch targets and fall-through
//  3. Tarjan's algorithm finds strongly connected components
func AnalyzeLoops(body []cil.Instruction) []LoopWarning {
	if len(body) == 0 {
		return []LoopWarning{}
	}

	graph := buildBlockGraph(body)
	warnings := []LoopWarning{}
	for _, scc := range tarjanSCC(graph) {
		if len(scc) > 1 || hasSelfLoop(scc[0], graph) {
			warnings = append(warnings, loopToWarning(scc, graph))
		}
	}
	return warnings
}

// blockGraph maps a block leader offset to the leaders it can reach.
type blockGraph struct {
	leaders []int // ascending
	edges   map[int][]int
}

func buildBlockGraph(body []cil.Instruction) blockGraph {
	starts := make(map[int]bool, len(body))
	for _, in := range body {
		starts[in.Offset] = true
	}

	isLeader := map[int]bool{body[0].Offset: true}
	for i, in := range body {
		for _, t := range branchTargets(in) {
			if starts[t] {
				isLeader[t] = true
			}
		}
		if (len(branchTargets(in)) > 0 || noFallThrough(in)) && i+1 < len(body) {
			isLeader[body[i+1].Offset] = true
		}
	}

	g := blockGraph{edges: make(map[int][]int)}
	for off := range isLeader {
		g.leaders = append(g.leaders, off)
	}
	sort.Ints(g.leaders)

	leader := body[0].Offset
	for i, in := range body {
		if isLeader[in.Offset] {
			leader = in.Offset
			if g.edges[leader] == nil {
				g.edges[leader] = []int{}
			}
		}
		last := i+1 == len(body) || isLeader[body[i+1].Offset]
		if !last {
			continue
		}
		for _, t := range branchTargets(in) {
			if starts[t] {
				g.edges[leader] = append(g.edges[leader], t)
			}
		}
		if !noFallThrough(in) && i+1 < len(body) {
			g.edges[leader] = append(g.edges[leader], body[i+1].Offset)
		}
	}
	return g
}

// hasSelfLoop checks if a block branches to itself.
func hasSelfLoop(node int, g blockGraph) bool {
	for _, next := range g.edges[node] {
		if next == node {
			return true
		}
	}
	return false
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
// Nodes are visited in offset order so the result is deterministic.
func tarjanSCC(g blockGraph) [][]int {
	var (
		index   = 0
		stack   []int
		indices = make(map[int]int)
		lowlink = make(map[int]int)
		onStack = make(map[int]bool)
		sccs    [][]int
	)

	var strongConnect func(int)
	strongConnect = func(v int) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.edges[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sort.Ints(scc)
			sccs = append(sccs, scc)
		}
	}

	for _, node := range g.leaders {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}
	sort.Slice(sccs, func(i, j int) bool { return sccs[i][0] < sccs[j][0] })
	return sccs
}

func loopToWarning(scc []int, g blockGraph) LoopWarning {
	path := reconstructCyclePath(scc, g)
	labels := make([]string, len(path))
	for i, off := range path {
		labels[i] = fmt.Sprintf("IL_%04X", off)
	}
	return LoopWarning{
		Path:    path,
		Message: fmt.Sprintf("Loop detected: %s", strings.Join(labels, " → ")),
		Level:   "warning",
	}
}

// reconstructCyclePath follows edges inside the component from its lowest
// leader until it returns there.
func reconstructCyclePath(scc []int, g blockGraph) []int {
	inSCC := make(map[int]bool, len(scc))
	for _, n := range scc {
		inSCC[n] = true
	}

	start := scc[0]
	current := start
	path := []int{current}
	visited := make(map[int]bool)
	for {
		visited[current] = true
		next, found := 0, false
		for _, w := range g.edges[current] {
			if inSCC[w] && (!visited[w] || w == start) {
				next, found = w, true
				break
			}
		}
		if !found {
			break
		}
		path = append(path, next)
		if next == start {
			break
		}
		current = next
	}
	return path
}
