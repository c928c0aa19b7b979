package scene

import (
	"sort"

	"github.com/pders01/compsearch/internal/models"
)

// Stats summarizes a forest
type Stats struct {
	Roots       int            `json:"roots"`
	Nodes       int            `json:"nodes"`
	Inactive    int            `json:"inactive"`
	Attachments int            `json:"attachments"`
	MaxDepth    int            `json:"max_depth"`
	ByType      map[string]int `json:"by_type"`
	TopTypes    []TypeStat     `json:"top_types"`
}

// TypeStat is the number of nodes carrying a component type
type TypeStat struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// Summarize counts nodes and component types. Each node is counted once
// even when reachable twice.
func Summarize(forest []*models.Node) Stats {
	stats := Stats{ByType: make(map[string]int)}
	seen := make(map[*models.Node]bool)

	var visit func(n *models.Node, depth int)
	visit = func(n *models.Node, depth int) {
		if n == nil || seen[n] {
			return
		}
		seen[n] = true

		stats.Nodes++
		if !n.Active {
			stats.Inactive++
		}
		if depth > stats.MaxDepth {
			stats.MaxDepth = depth
		}

		counted := make(map[string]bool)
		for _, a := range n.Attachments {
			if a.Type == "" {
				continue
			}
			stats.Attachments++
			if !counted[a.Type] {
				counted[a.Type] = true
				stats.ByType[a.Type]++
			}
		}

		for _, c := range n.Children {
			visit(c, depth+1)
		}
	}

	for _, r := range forest {
		if r != nil {
			stats.Roots++
		}
		visit(r, 1)
	}

	for t, count := range stats.ByType {
		stats.TopTypes = append(stats.TopTypes, TypeStat{Type: t, Count: count})
	}
	sort.Slice(stats.TopTypes, func(i, j int) bool {
		if stats.TopTypes[i].Count != stats.TopTypes[j].Count {
			return stats.TopTypes[i].Count > stats.TopTypes[j].Count
		}
		return stats.TopTypes[i].Type < stats.TopTypes[j].Type
	})

	return stats
}
