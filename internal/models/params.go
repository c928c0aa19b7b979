package models

import "strings"

// SearchParameters controls a single component search
type SearchParameters struct {
	TargetNames     []string `json:"target_names"`
	CaseSensitive   bool     `json:"case_sensitive"`
	IncludeInactive bool     `json:"include_inactive"`
}

// ParseTargetNames splits comma-separated input into trimmed component names.
// Empty pieces are discarded; case and order are preserved.
func ParseTargetNames(raw string) []string {
	var names []string
	for _, piece := range strings.Split(raw, ",") {
		piece = strings.TrimSpace(piece)
		if piece != "" {
			names = append(names, piece)
		}
	}
	return names
}

// NewSearchParameters builds parameters from raw comma-separated input
func NewSearchParameters(raw string, caseSensitive, includeInactive bool) SearchParameters {
	return SearchParameters{
		TargetNames:     ParseTargetNames(raw),
		CaseSensitive:   caseSensitive,
		IncludeInactive: includeInactive,
	}
}

// Clone returns a copy that shares no slices with p
func (p SearchParameters) Clone() SearchParameters {
	c := p
	c.TargetNames = append([]string(nil), p.TargetNames...)
	return c
}
