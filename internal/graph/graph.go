// Package graph holds the static call graph of the registered functions.
//
// Every function declares the names it depends on. A name is resolved when
// it is either declared itself or provided as a capability (calcMoney,
// Point). The graph answers three questions:
//
//   - Cycles: does any function reach itself? A function whose body would
//     call its own name is the degenerate one-node case.
//   - Unresolved: which transitive dependencies of a function have no
//     implementation?
//   - Order: in what order can the functions be evaluated, dependencies
//     first?
package graph

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/gammazero/toposort"
)

// Graph is a dependency graph keyed by function name.
// It is not safe for concurrent mutation; build it once, then query.
type Graph struct {
	deps     map[string][]string
	provided map[string]bool
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		deps:     make(map[string][]string),
		provided: make(map[string]bool),
	}
}

// Declare adds a function and the names it calls. Declaring the same name
// twice replaces the earlier dependency list.
func (g *Graph) Declare(name string, deps ...string) {
	g.deps[name] = slices.Clone(deps)
}

// Remove drops a declared function.
func (g *Graph) Remove(name string) {
	delete(g.deps, name)
}

// Provide marks a capability name as implemented.
func (g *Graph) Provide(name string) {
	g.provided[name] = true
}

// Declared reports whether name is a declared function.
func (g *Graph) Declared(name string) bool {
	_, ok := g.deps[name]
	return ok
}

// Functions returns the declared function names, sorted.
func (g *Graph) Functions() []string {
	names := make([]string, 0, len(g.deps))
	for name := range g.deps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Capabilities returns the provided capability names, sorted.
func (g *Graph) Capabilities() []string {
	names := make([]string, 0, len(g.provided))
	for name := range g.provided {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Deps returns the direct dependencies of name in declaration order.
func (g *Graph) Deps(name string) []string {
	return slices.Clone(g.deps[name])
}

func (g *Graph) resolved(name string) bool {
	return g.provided[name] || g.Declared(name)
}

// Unresolved returns the names reachable from name that are neither
// declared nor provided, sorted. Cycles are tolerated.
func (g *Graph) Unresolved(name string) []string {
	seen := map[string]bool{name: true}
	missing := map[string]bool{}
	stack := []string{name}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, dep := range g.deps[cur] {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			if !g.resolved(dep) {
				missing[dep] = true
				continue
			}
			stack = append(stack, dep)
		}
	}

	out := make([]string, 0, len(missing))
	for dep := range missing {
		out = append(out, dep)
	}
	sort.Strings(out)
	return out
}

// Order returns every declared function and capability, each placed after
// the names it depends on. Fails if the graph has a cycle.
func (g *Graph) Order() ([]string, error) {
	if cycles := g.Cycles(); len(cycles) > 0 {
		return nil, fmt.Errorf("cycle detected: %s", cycles[0].String())
	}

	var edges []toposort.Edge
	for _, name := range g.Functions() {
		for _, dep := range g.deps[name] {
			edges = append(edges, toposort.Edge{dep, name})
		}
	}

	sorted, err := toposort.Toposort(edges)
	if err != nil {
		return nil, fmt.Errorf("cycle detected: %w", err)
	}

	order := make([]string, 0, len(sorted))
	placed := make(map[string]bool, len(sorted))
	for _, node := range sorted {
		name := node.(string)
		order = append(order, name)
		placed[name] = true
	}

	// Isolated nodes have no edges and never come out of the sort.
	for _, name := range append(g.Functions(), g.Capabilities()...) {
		if !placed[name] {
			order = append(order, name)
			placed[name] = true
		}
	}
	return order, nil
}

// Issue is a problem found by Check.
type Issue struct {
	Level    string   `json:"level"` // "error" or "warning"
	Function string   `json:"function"`
	Message  string   `json:"message"`
	Path     []string `json:"path,omitempty"`
}

// Issue levels.
const (
	LevelError   = "error"
	LevelWarning = "warning"
)

// Check reports every cycle as an error and every unresolved dependency as
// a warning. Unresolved dependencies are warnings because the functions
// that do not reach them still work.
func (g *Graph) Check() []Issue {
	var issues []Issue
	for _, c := range g.Cycles() {
		issues = append(issues, Issue{
			Level:    LevelError,
			Function: c.Path[0],
			Message:  c.Message(),
			Path:     c.Path,
		})
	}

	for _, name := range g.Functions() {
		for _, dep := range g.deps[name] {
			if !g.resolved(dep) {
				issues = append(issues, Issue{
					Level:    LevelWarning,
					Function: name,
					Message:  fmt.Sprintf("dependency %s has no implementation", dep),
					Path:     []string{name, dep},
				})
			}
		}
	}
	return issues
}

// Cycle is a closed dependency path: Path[0] == Path[len(Path)-1].
type Cycle struct {
	Path []string
}

// SelfLoop reports whether the cycle is a function depending on itself.
func (c Cycle) SelfLoop() bool {
	return len(c.Path) == 2
}

// String renders the path as "a → b → a".
func (c Cycle) String() string {
	return strings.Join(c.Path, " → ")
}

// Message describes the cycle for humans.
func (c Cycle) Message() string {
	if c.SelfLoop() {
		return fmt.Sprintf("function calls itself: %s", c.String())
	}
	return fmt.Sprintf("dependency cycle: %s", c.String())
}
