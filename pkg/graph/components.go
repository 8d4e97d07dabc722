package graph

// ConnectedComponents returns the maximal mutually reachable node sets.
// Components are discovered by BFS over nodes in insertion order, so the
// component index depends on input order: stable for identical inputs, not
// guaranteed across reorderings of logically equivalent data.
func (g *Graph) ConnectedComponents() [][]string {
	visited := make(map[string]bool, len(g.nodes))
	var components [][]string

	for _, start := range g.nodeOrder {
		if visited[start] {
			continue
		}

		component := []string{start}
		visited[start] = true
		queue := []string{start}

		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]

			for _, neighbor := range g.adjacency[id] {
				if visited[neighbor] {
					continue
				}
				visited[neighbor] = true
				component = append(component, neighbor)
				queue = append(queue, neighbor)
			}
		}

		components = append(components, component)
	}

	return components
}

// StampComponents assigns every node and edge its connected-component
// index under the "subgraph" attribute and returns the component count.
// Indexes follow discovery order, not component size.
func (g *Graph) StampComponents() int {
	components := g.ConnectedComponents()

	membership := make(map[string]int, len(g.nodes))
	for i, component := range components {
		for _, id := range component {
			membership[id] = i
			g.nodes[id].Attributes[KeySubgraph] = i
		}
	}
	for _, k := range g.edgeOrder {
		edge := g.edges[k]
		edge.Attributes[KeySubgraph] = membership[edge.U]
	}

	return len(components)
}
