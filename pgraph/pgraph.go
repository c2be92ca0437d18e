// Alga
// Copyright (C) 2013-2019+ James Shubin and the project contributors
// Written by James Shubin <james@shubin.ca> and the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package pgraph represents the internal "pointer graph" that we use. In this
// project it holds the structure hierarchy, where an edge from a parent kind to
// a child kind means that the parent must be considered "before" the child.
package pgraph

import (
	"fmt"
	"sort"
)

// Graph is the graph structure in this library. The graph abstract data type
// (ADT) is defined as follows:
// * the directed graph arrows point from left to right ( -> )
// * the arrows point away from their dependencies (eg: arrows mean "before")
// * IOW, you might see Magma -> Semigroup -> Monoid (where Magma comes first)
type Graph struct {
	Name string

	adjacency map[Vertex]map[Vertex]Edge // Vertex -> Vertex (edge)
}

// Vertex is the primary vertex struct in this library. It can be anything that
// implements Stringer. The string output must be stable and unique in the graph.
type Vertex interface {
	fmt.Stringer // String() string
}

// Edge is the primary edge struct in this library. It can be anything that
// implements Stringer.
type Edge interface {
	fmt.Stringer // String() string
}

// SimpleEdge is a string edge that you can use when you don't need a fancier
// one.
type SimpleEdge struct {
	Name string
}

// String returns the name of the edge.
func (obj *SimpleEdge) String() string {
	return obj.Name
}

// NewGraph builds a new graph.
func NewGraph(name string) (*Graph, error) {
	g := &Graph{
		Name: name,
	}
	return g, g.Init()
}

// Init initializes the graph which populates all the internal structures.
func (g *Graph) Init() error {
	if g.Name == "" { // FIXME: is this really a good requirement?
		return fmt.Errorf("can't initialize graph with empty name")
	}

	g.adjacency = make(map[Vertex]map[Vertex]Edge)
	return nil
}

// GetName returns the name of the graph.
func (g *Graph) GetName() string {
	return g.Name
}

// String makes the graph pretty print.
func (g *Graph) String() string {
	return fmt.Sprintf("%s: Vertices(%d), Edges(%d)", g.Name, g.NumVertices(), g.NumEdges())
}

// Adjacency returns the adjacency map representing this graph. This API should
// be considered read-only.
func (g *Graph) Adjacency() map[Vertex]map[Vertex]Edge {
	return g.adjacency
}

// AddVertex uses variadic input to add all listed vertices to the graph.
func (g *Graph) AddVertex(xv ...Vertex) {
	if g.adjacency == nil { // initialize on first use
		g.adjacency = make(map[Vertex]map[Vertex]Edge)
	}
	for _, v := range xv {
		if _, exists := g.adjacency[v]; !exists {
			g.adjacency[v] = make(map[Vertex]Edge)
		}
	}
}

// AddEdge adds a directed edge to the graph from v1 to v2.
func (g *Graph) AddEdge(v1, v2 Vertex, e Edge) {
	// NOTE: this doesn't allow more than one edge between two vertexes...
	g.AddVertex(v1, v2) // supports adding N vertices now
	g.adjacency[v1][v2] = e
}

// HasVertex returns if the input vertex exists in the graph.
func (g *Graph) HasVertex(v Vertex) bool {
	_, exists := g.adjacency[v]
	return exists
}

// NumVertices returns the number of vertices in the graph.
func (g *Graph) NumVertices() int {
	return len(g.adjacency)
}

// NumEdges returns the number of edges in the graph.
func (g *Graph) NumEdges() int {
	count := 0
	for k := range g.adjacency {
		count += len(g.adjacency[k])
	}
	return count
}

// VertexSlice is a linear list of vertices. It can be sorted.
type VertexSlice []Vertex

func (vs VertexSlice) Len() int           { return len(vs) }
func (vs VertexSlice) Swap(i, j int)      { vs[i], vs[j] = vs[j], vs[i] }
func (vs VertexSlice) Less(i, j int) bool { return vs[i].String() < vs[j].String() }

// Strings returns the String() of each vertex in the list.
func (vs VertexSlice) Strings() []string {
	out := []string{}
	for _, v := range vs {
		out = append(out, v.String())
	}
	return out
}

// VerticesSorted returns a sorted slice of all vertices in the graph. The order
// is sorted by String() to avoid the non-determinism in the map type.
func (g *Graph) VerticesSorted() []Vertex {
	var vertices []Vertex
	for k := range g.adjacency {
		vertices = append(vertices, k)
	}
	sort.Sort(VertexSlice(vertices)) // add determinism
	return vertices
}

// IncomingGraphVertices returns a sorted slice of all directed vertices to
// vertex v (??? -> v).
func (g *Graph) IncomingGraphVertices(v Vertex) []Vertex {
	var s []Vertex
	for k := range g.adjacency { // reverse paths
		for w := range g.adjacency[k] {
			if w == v {
				s = append(s, k)
			}
		}
	}
	sort.Sort(VertexSlice(s))
	return s
}

// OutgoingGraphVertices returns a sorted slice of all vertices that vertex v
// points to (v -> ???).
func (g *Graph) OutgoingGraphVertices(v Vertex) []Vertex {
	var s []Vertex
	for k := range g.adjacency[v] { // forward paths
		s = append(s, k)
	}
	sort.Sort(VertexSlice(s))
	return s
}

// InDegree returns the count of vertices that point to me in one big lookup map.
func (g *Graph) InDegree() map[Vertex]int {
	result := make(map[Vertex]int)
	for k := range g.adjacency {
		result[k] = 0 // initialize
	}

	for k := range g.adjacency {
		for z := range g.adjacency[k] {
			result[z]++
		}
	}
	return result
}

// OutDegree returns the count of vertices that point away in one big lookup map.
func (g *Graph) OutDegree() map[Vertex]int {
	result := make(map[Vertex]int)

	for k := range g.adjacency {
		result[k] = len(g.adjacency[k])
	}
	return result
}

// TopologicalSort returns the sort of graph vertices in that order. It is based
// on Kahn's algorithm, and among the vertices that are ready at each step, it
// always picks the one with the smallest String(), so the output is the same
// for every run. If the graph has a cycle, it errors, and the error contains
// one of the cycles that was found.
func (g *Graph) TopologicalSort() ([]Vertex, error) { // kahn's algorithm
	var L []Vertex                    // empty list that will contain the sorted elements
	var S []Vertex                    // set of all nodes with no incoming edges
	remaining := make(map[Vertex]int) // amount of edges remaining

	for v, d := range g.InDegree() {
		if d == 0 {
			// accumulate set of all nodes with no incoming edges
			S = append(S, v)
		} else {
			// initialize remaining edge count from indegree
			remaining[v] = d
		}
	}

	for len(S) > 0 {
		sort.Sort(VertexSlice(S)) // pick deterministically
		v := S[0]                 // remove a node v from S
		S = S[1:]
		L = append(L, v) // add v to tail of L
		for n := range g.adjacency[v] {
			// for each node n remaining in the graph, consume from
			// remaining, so for remaining[n] > 0
			if remaining[n] > 0 {
				remaining[n]--         // remove edge from the graph
				if remaining[n] == 0 { // if n has no other incoming edges
					S = append(S, n) // insert n into S
				}
			}
		}
	}

	// if graph has edges, eg if any value in rem is > 0
	for _, in := range remaining {
		if in > 0 {
			cycle := g.FindCycle()
			return nil, fmt.Errorf("not a dag, found cycle: %s", CycleString(cycle))
		}
	}

	return L, nil
}

// FindCycle returns one cycle in the graph as a list of vertices where the last
// vertex points back to the first one. It returns nil if the graph is a dag.
// The search visits vertices in sorted order, so the same graph always returns
// the same cycle.
func (g *Graph) FindCycle() []Vertex {
	const (
		white = iota // not yet seen
		grey         // on the current path
		black        // done
	)
	color := make(map[Vertex]int)
	var path []Vertex
	var cycle []Vertex

	var visit func(v Vertex) bool
	visit = func(v Vertex) bool {
		color[v] = grey
		path = append(path, v)
		for _, w := range g.OutgoingGraphVertices(v) {
			switch color[w] {
			case grey: // back edge, so we found a cycle
				for i, x := range path {
					if x == w {
						cycle = append([]Vertex{}, path[i:]...)
						return true
					}
				}
			case white:
				if visit(w) {
					return true
				}
			}
		}
		path = path[:len(path)-1]
		color[v] = black
		return false
	}

	for _, v := range g.VerticesSorted() {
		if color[v] == white && visit(v) {
			return cycle
		}
	}
	return nil
}

// CycleString formats a cycle as returned by FindCycle.
func CycleString(cycle []Vertex) string {
	if len(cycle) == 0 {
		return "<none>"
	}
	s := ""
	for _, v := range cycle {
		s += v.String() + " -> "
	}
	return s + cycle[0].String()
}

// Ancestors returns every vertex from which v can be reached, which are all of
// the things that must come "before" it. The result is sorted and does not
// include v itself, unless it is part of a cycle.
func (g *Graph) Ancestors(v Vertex) []Vertex {
	seen := make(map[Vertex]struct{})
	stack := g.IncomingGraphVertices(v)
	for len(stack) > 0 {
		x := stack[len(stack)-1]
		stack = stack[:len(stack)-1] // pop
		if _, exists := seen[x]; exists {
			continue
		}
		seen[x] = struct{}{}
		stack = append(stack, g.IncomingGraphVertices(x)...)
	}
	out := []Vertex{}
	for x := range seen {
		out = append(out, x)
	}
	sort.Sort(VertexSlice(out))
	return out
}

// VertexContains is an "in array" function to test for a vertex in a slice of
// vertices.
func VertexContains(needle Vertex, haystack []Vertex) bool {
	for _, v := range haystack {
		if needle == v {
			return true
		}
	}
	return false
}
