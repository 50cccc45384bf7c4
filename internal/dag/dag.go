package dag

import (
	"fmt"
	"sort"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*node),
	}
}

// AddNode adds a new node with the given ID to the graph. If a node with
// the same ID already exists, the function does nothing.
func (g *Graph) AddNode(id string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.nodes[id]; ok {
		return
	}

	g.nodes[id] = &node{
		id:   id,
		seq:  len(g.order),
		deps: make(map[string]*node),
	}
	g.order = append(g.order, id)
}

// AddEdge creates a directed edge from the `fromID` node to the `toID` node.
// This signifies that `toID` has a dependency on `fromID`. An error is returned
// if either node does not exist or if the edge would create a self-reference.
func (g *Graph) AddEdge(fromID, toID string) error {
	if fromID == toID {
		return fmt.Errorf("%w: self-referential edge not allowed: %s -> %s", ErrCycle, fromID, fromID)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	fromNode, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("source node not found: %s", fromID)
	}

	toNode, ok := g.nodes[toID]
	if !ok {
		return fmt.Errorf("destination node not found: %s", toID)
	}

	toNode.deps[fromID] = fromNode

	return nil
}

// TopologicalOrder returns every node ID such that each node comes after all
// of its dependencies. Ties are broken by insertion order, so the result is
// stable for a given sequence of AddNode and AddEdge calls.
func (g *Graph) TopologicalOrder() ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	return g.topologicalOrder()
}

func (g *Graph) topologicalOrder() ([]string, error) {
	// Depth-first search with three sets of nodes:
	// permanent: fully visited and not part of a cycle.
	// temporary: currently in the recursion stack.
	// unvisited: all other nodes.
	permanent := make(map[string]bool, len(g.nodes))
	temporary := make(map[string]bool)
	out := make([]string, 0, len(g.nodes))

	var visit func(n *node) error
	visit = func(n *node) error {
		if permanent[n.id] {
			return nil
		}
		if temporary[n.id] {
			return fmt.Errorf("%w involving node '%s'", ErrCycle, n.id)
		}

		temporary[n.id] = true
		for _, dep := range sorted(n.deps) {
			if err := visit(dep); err != nil {
				return err
			}
		}
		delete(temporary, n.id)
		permanent[n.id] = true
		out = append(out, n.id)

		return nil
	}

	for _, id := range g.order {
		if err := visit(g.nodes[id]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func sorted(set map[string]*node) []*node {
	nodes := make([]*node, 0, len(set))
	for _, n := range set {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].seq < nodes[j].seq })
	return nodes
}
