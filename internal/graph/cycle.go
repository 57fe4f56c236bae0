package graph

// Cycles finds every strongly connected component that forms a cycle
// (more than one node, or one node with a self-loop) using Tarjan's
// algorithm. Nodes are visited in sorted order so the result is stable.
func (g *Graph) Cycles() []Cycle {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		cycles  []Cycle
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.deps[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] != indices[v] {
			return
		}

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

		switch {
		case len(scc) > 1:
			cycles = append(cycles, Cycle{Path: g.cyclePath(scc)})
		case g.hasSelfLoop(scc[0]):
			cycles = append(cycles, Cycle{Path: []string{scc[0], scc[0]}})
		}
	}

	for _, node := range g.Functions() {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}
	return cycles
}

func (g *Graph) hasSelfLoop(node string) bool {
	for _, dep := range g.deps[node] {
		if dep == node {
			return true
		}
	}
	return false
}

// cyclePath walks edges inside the component from its smallest member
// until it returns to the start.
func (g *Graph) cyclePath(scc []string) []string {
	members := make(map[string]bool, len(scc))
	start := scc[0]
	for _, node := range scc {
		members[node] = true
		if node < start {
			start = node
		}
	}

	path := []string{start}
	visited := map[string]bool{start: true}
	current := start
	for {
		next := ""
		for _, dep := range g.deps[current] {
			if dep == start && len(path) > 1 {
				next = dep
				break
			}
			if members[dep] && !visited[dep] {
				next = dep
				break
			}
		}
		if next == "" {
			// Dead end inside the component; close the loop on start.
			return append(path, start)
		}
		path = append(path, next)
		if next == start {
			return path
		}
		visited[next] = true
		current = next
	}
}
