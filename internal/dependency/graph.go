// Package dependency builds and flattens dependency graphs.
package dependency

import (
	"cmp"
	"slices"
)

// insertUnique inserts x into set, preserving order. If x is already in set,
// it is not added. The augmented set is returned.
func insertUnique[K cmp.Ordered](set []K, x K) []K {
	i, found := slices.BinarySearch(set, x)
	if !found {
		set = slices.Insert(set, i, x)
	}
	return set
}

// A Graph is a collection of targets and their dependencies. The
// zero value is an empty graph ready to use.
type Graph[K cmp.Ordered] struct {
	targets []K
	nodes   map[K][]K
}

// Len returns the number of targets in the graph.
func (g *Graph[K]) Len() int {
	return len(g.targets)
}

func (g *Graph[K]) init() {
	if g.nodes == nil {
		g.nodes = make(map[K][]K)
	}
}

// AddNode adds a target with no dependencies to a Graph, so that it
// is visited by Flatten.
func (g *Graph[K]) AddNode(target K) {
	g.init()
	g.targets = insertUnique(g.targets, target)
}

// Add adds a dependency to a Graph.
func (g *Graph[K]) Add(target, dependency K) {
	g.init()
	g.targets = insertUnique(g.targets, target)
	g.nodes[target] = insertUnique(g.nodes[target], dependency)
}

// Dependencies returns the direct dependencies of target, in order.
func (g *Graph[K]) Dependencies(target K) []K {
	return g.nodes[target]
}

// Flatten calls the walk function on each node in the Graph in topological
// order, starting with the leaves and traversing up to the roots.  The same
// Graph will always be traversed in the same order.
//
// Every vertex in the Graph is visited once; any cycles in the graph are
// skipped.
func (g *Graph[K]) Flatten(walk func(K)) {
	g.init()
	visited := make(map[K]bool, len(g.nodes))
	for _, tgt := range g.targets {
		if !visited[tgt] {
			visited[tgt] = true
			g.flatten(walk, g.nodes[tgt], visited)
			walk(tgt)
		}
	}
}

func (g *Graph[K]) flatten(fn func(K), targets []K, visited map[K]bool) {
	for _, tgt := range targets {
		if !visited[tgt] {
			visited[tgt] = true
			g.flatten(fn, g.nodes[tgt], visited)
			fn(tgt)
		}
	}
}
