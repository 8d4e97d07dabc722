// Package graph implements the undirected attributed graph the pipeline
// builds, enriches, stitches and merges. Node and edge identity is
// string-based; edges are identified by their unordered endpoint pair.
package graph

// Node is a point-located vertex: a waterway junction or network endpoint.
type Node struct {
	ID         string
	Attributes Attributes
}

// Edge is an undirected link between two nodes, usually carrying a
// polyline geometry and descriptive columns from its source section.
type Edge struct {
	U, V       string
	Attributes Attributes
}

// Other returns the endpoint opposite to the given node id.
func (e *Edge) Other(id string) string {
	if e.U == id {
		return e.V
	}
	return e.U
}

type edgeKey struct {
	a, b string
}

func keyFor(u, v string) edgeKey {
	if u <= v {
		return edgeKey{u, v}
	}
	return edgeKey{v, u}
}

// Graph is an undirected attributed graph. Iteration order over nodes and
// edges is insertion order, which keeps component stamping and reports
// stable for identical inputs.
type Graph struct {
	nodes     map[string]*Node
	nodeOrder []string
	edges     map[edgeKey]*Edge
	edgeOrder []edgeKey
	adjacency map[string][]string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:     make(map[string]*Node),
		edges:     make(map[edgeKey]*Edge),
		adjacency: make(map[string][]string),
	}
}

// AddNode inserts a node or, when it already exists, merges the given
// attributes onto it (last write wins).
func (g *Graph) AddNode(id string, attrs Attributes) *Node {
	node, ok := g.nodes[id]
	if !ok {
		node = &Node{ID: id, Attributes: make(Attributes)}
		g.nodes[id] = node
		g.nodeOrder = append(g.nodeOrder, id)
	}
	node.Attributes.Merge(attrs)
	return node
}

// AddEdge inserts an undirected edge, creating missing endpoints. When the
// endpoint pair already has an edge its attributes are updated in place
// (last write wins per key).
func (g *Graph) AddEdge(u, v string, attrs Attributes) *Edge {
	if !g.HasNode(u) {
		g.AddNode(u, nil)
	}
	if !g.HasNode(v) {
		g.AddNode(v, nil)
	}

	k := keyFor(u, v)
	edge, ok := g.edges[k]
	if !ok {
		edge = &Edge{U: u, V: v, Attributes: make(Attributes)}
		g.edges[k] = edge
		g.edgeOrder = append(g.edgeOrder, k)
		g.adjacency[u] = append(g.adjacency[u], v)
		if u != v {
			g.adjacency[v] = append(g.adjacency[v], u)
		}
	}
	edge.Attributes.Merge(attrs)
	return edge
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// HasNode reports whether the node exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Edge returns the edge between u and v, accepting either endpoint order.
func (g *Graph) Edge(u, v string) (*Edge, bool) {
	e, ok := g.edges[keyFor(u, v)]
	return e, ok
}

// HasEdge reports whether an edge exists between u and v in either order.
func (g *Graph) HasEdge(u, v string) bool {
	_, ok := g.edges[keyFor(u, v)]
	return ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		out = append(out, g.nodes[id])
	}
	return out
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, 0, len(g.edgeOrder))
	for _, k := range g.edgeOrder {
		out = append(out, g.edges[k])
	}
	return out
}

// Neighbors returns the ids adjacent to the given node, in edge insertion order.
func (g *Graph) Neighbors(id string) []string {
	return g.adjacency[id]
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// CountNodesBy tallies nodes by the string value of the given attribute.
// Nodes without the attribute count under "unknown".
func (g *Graph) CountNodesBy(key string) map[string]int {
	out := make(map[string]int)
	for _, id := range g.nodeOrder {
		v, ok := g.nodes[id].Attributes.String(key)
		if !ok {
			v = "unknown"
		}
		out[v]++
	}
	return out
}

// CountEdgesBy tallies edges by the string value of the given attribute.
func (g *Graph) CountEdgesBy(key string) map[string]int {
	out := make(map[string]int)
	for _, k := range g.edgeOrder {
		v, ok := g.edges[k].Attributes.String(key)
		if !ok {
			v = "unknown"
		}
		out[v]++
	}
	return out
}
