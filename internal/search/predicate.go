package search

import (
	"strings"

	"github.com/pders01/compsearch/internal/models"
)

// Matches reports whether any attachment of node has a type name equal to
// one of targets. Comparison is ordinal; caseSensitive=false uses simple
// Unicode case folding.
func Matches(node *models.Node, targets []string, caseSensitive bool) bool {
	if node == nil {
		return false
	}

	for _, target := range targets {
		for _, a := range node.Attachments {
			if a.Type == "" {
				continue
			}
			if equalName(a.Type, target, caseSensitive) {
				return true
			}
		}
	}

	return false
}

func equalName(a, b string, caseSensitive bool) bool {
	if caseSensitive {
		return a == b
	}
	return strings.EqualFold(a, b)
}
