package search

import (
	"iter"

	"github.com/pders01/compsearch/internal/models"
)

// Visited tracks nodes by pointer identity. Two structurally equal nodes
// are distinct entries.
type Visited map[*models.Node]struct{}

// NewVisited returns an empty visited set
func NewVisited() Visited {
	return make(Visited)
}

// Has reports whether n was already visited
func (v Visited) Has(n *models.Node) bool {
	_, ok := v[n]
	return ok
}

// Add marks n as visited and reports whether it was newly added
func (v Visited) Add(n *models.Node) bool {
	if v.Has(n) {
		return false
	}
	v[n] = struct{}{}
	return true
}

// Traverse walks the subtree under root depth-first, pre-order, and yields
// every node whose attachments match params. Nodes already in visited are
// skipped together with their subtrees.
//
// The root is always processed regardless of its own Active flag. With
// IncludeInactive=false, inactive children and everything beneath them are
// neither visited nor recorded in visited.
//
// The sequence is single-use: ranging over it again yields nothing because
// every reachable node is already in visited.
func Traverse(root *models.Node, params models.SearchParameters, visited Visited) iter.Seq[*models.Node] {
	return func(yield func(*models.Node) bool) {
		walk(root, params, visited, yield)
	}
}

// walk returns false once yield asks to stop
func walk(n *models.Node, params models.SearchParameters, visited Visited, yield func(*models.Node) bool) bool {
	if n == nil || !visited.Add(n) {
		return true
	}

	if Matches(n, params.TargetNames, params.CaseSensitive) {
		if !yield(n) {
			return false
		}
	}

	for _, child := range n.Children {
		if child == nil {
			continue
		}
		if !params.IncludeInactive && !child.Active {
			continue
		}
		if !walk(child, params, visited, yield) {
			return false
		}
	}

	return true
}

// Walk drains the whole forest synchronously with a single visited set and
// returns matches in discovery order.
func Walk(forest []*models.Node, params models.SearchParameters) []*models.Node {
	visited := NewVisited()
	var found []*models.Node
	for _, root := range forest {
		for n := range Traverse(root, params, visited) {
			found = append(found, n)
		}
	}
	return found
}
