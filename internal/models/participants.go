package models

import "strings"

// ParseParticipants turns the raw comma-separated names text from the
// upload form into an ordered participant list. Names are trimmed and
// empty entries dropped; order is meaningful because it indexes the
// share matrix columns. Duplicates are kept as typed — totals are keyed
// by name, so duplicate names end up sharing one merged row.
func ParseParticipants(raw string) []string {
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		names = append(names, p)
	}
	return names
}
