package graph

import "math"

// Graph is an undirected weighted graph over nodes 0..N-1.
// Each edge is listed once; adjacency entries are emitted symmetrically.
type Graph struct {
	N       int
	Edges   [][2]int
	Weights []float64
}

// New validates and constructs a graph. weights may be nil (unit weights).
func New(n int, edges [][2]int, weights []float64) (*Graph, error) {
	if n <= 0 {
		return nil, ErrEmptyGraph
	}
	if weights == nil {
		weights = make([]float64, len(edges))
		for i := range weights {
			weights[i] = 1
		}
	}
	for _, e := range edges {
		if e[0] < 0 || e[0] >= n {
			return nil, &ErrIndexOutOfRange{Index: e[0], Limit: n}
		}
		if e[1] < 0 || e[1] >= n {
			return nil, &ErrIndexOutOfRange{Index: e[1], Limit: n}
		}
	}

	return &Graph{N: n, Edges: edges, Weights: weights}, nil
}

// Ring returns the n-cycle with unit weights. Useful as a test fixture.
func Ring(n int) *Graph {
	edges := make([][2]int, n)
	for i := 0; i < n; i++ {
		edges[i] = [2]int{i, (i + 1) % n}
	}
	g, _ := New(n, edges, nil)

	return g
}

// Adjacency returns the symmetric adjacency matrix in triple form.
func (g *Graph) Adjacency() *COO {
	a := NewCOO(g.N, g.N)
	for k, e := range g.Edges {
		w := g.Weights[k]
		a.Row = append(a.Row, e[0])
		a.Col = append(a.Col, e[1])
		a.Val = append(a.Val, w)
		if e[0] != e[1] {
			a.Row = append(a.Row, e[1])
			a.Col = append(a.Col, e[0])
			a.Val = append(a.Val, w)
		}
	}

	return a
}

// Degrees returns the weighted degree of every node.
func (g *Graph) Degrees() []float64 {
	deg := make([]float64, g.N)
	for k, e := range g.Edges {
		deg[e[0]] += g.Weights[k]
		if e[0] != e[1] {
			deg[e[1]] += g.Weights[k]
		}
	}

	return deg
}

// Laplacian returns L = D - A (or the symmetric-normalized variant
// I - D^-1/2 A D^-1/2) wrapped in an Operator with its own
// eigendecomposition cache.
func (g *Graph) Laplacian(normalized bool) *Operator {
	deg := g.Degrees()
	l := NewCOO(g.N, g.N)

	add := func(i, j int, v float64) {
		l.Row = append(l.Row, i)
		l.Col = append(l.Col, j)
		l.Val = append(l.Val, v)
	}

	if normalized {
		inv := make([]float64, g.N)
		for i, d := range deg {
			if d > 0 {
				inv[i] = 1 / math.Sqrt(d)
			}
		}
		for i := 0; i < g.N; i++ {
			add(i, i, 1)
		}
		for k, e := range g.Edges {
			if e[0] == e[1] {
				continue
			}
			w := -g.Weights[k] * inv[e[0]] * inv[e[1]]
			add(e[0], e[1], w)
			add(e[1], e[0], w)
		}
	} else {
		for i := 0; i < g.N; i++ {
			add(i, i, deg[i])
		}
		for k, e := range g.Edges {
			if e[0] == e[1] {
				continue
			}
			add(e[0], e[1], -g.Weights[k])
			add(e[1], e[0], -g.Weights[k])
		}
	}

	op, _ := NewOperator(l, 1)

	return op
}

// NormalizedAdjacency returns D^-1/2 (A + I) D^-1/2 with self loops added,
// the propagation matrix used by graph convolution layers.
func (g *Graph) NormalizedAdjacency() *COO {
	a := g.Adjacency()
	for i := 0; i < g.N; i++ {
		a.Row = append(a.Row, i)
		a.Col = append(a.Col, i)
		a.Val = append(a.Val, 1)
	}

	deg := make([]float64, g.N)
	for k := range a.Val {
		deg[a.Row[k]] += a.Val[k]
	}
	inv := make([]float64, g.N)
	for i, d := range deg {
		if d > 0 {
			inv[i] = 1 / math.Sqrt(d)
		}
	}
	for k := range a.Val {
		a.Val[k] *= inv[a.Row[k]] * inv[a.Col[k]]
	}

	return a
}
